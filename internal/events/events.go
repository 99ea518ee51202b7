package events

import (
	"context"
	"time"
)

type Type string

const AccountCreated Type = "accounts.created"

type Event interface {
	Type() Type
}

type AccountCreatedEvent struct {
	AccountID  string    `json:"account_id"`
	TelegramID int64     `json:"telegram_id"`
	Username   *string   `json:"username,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (AccountCreatedEvent) Type() Type { return AccountCreated }

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close()
}

// NoopPublisher drops every event; used when no broker is configured.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (*NoopPublisher) Publish(context.Context, Event) error { return nil }
func (*NoopPublisher) Close()                               {}

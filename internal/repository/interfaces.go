package repository

import (
	"context"

	"github.com/baharkarakas/lottery-miniapp-api/internal/models"
)

type Accounts interface {
	GetByID(ctx context.Context, id string) (models.Account, error)
	// GetByTelegramID returns ErrNotFound when the identity has never been seen.
	GetByTelegramID(ctx context.Context, telegramID int64) (models.Account, error)
	// Provision inserts the account unless one already exists for the same
	// telegram id, in which case the stored row is returned untouched.
	// created reports which of the two happened.
	Provision(ctx context.Context, na models.NewAccount) (acc models.Account, created bool, err error)
	Ping(ctx context.Context) error
}

type AuditLogs interface {
	Create(ctx context.Context, l models.AuditLog) error
}

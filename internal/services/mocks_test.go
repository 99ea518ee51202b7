package services

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/baharkarakas/lottery-miniapp-api/internal/edge"
	"github.com/baharkarakas/lottery-miniapp-api/internal/events"
	"github.com/baharkarakas/lottery-miniapp-api/internal/models"
)

type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) GetByID(ctx context.Context, id string) (models.Account, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Account), args.Error(1)
}

func (m *MockAccounts) GetByTelegramID(ctx context.Context, telegramID int64) (models.Account, error) {
	args := m.Called(ctx, telegramID)
	return args.Get(0).(models.Account), args.Error(1)
}

func (m *MockAccounts) Provision(ctx context.Context, na models.NewAccount) (models.Account, bool, error) {
	args := m.Called(ctx, na)
	return args.Get(0).(models.Account), args.Bool(1), args.Error(2)
}

func (m *MockAccounts) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockAuditLogs struct {
	mock.Mock
}

func (m *MockAuditLogs) Create(ctx context.Context, l models.AuditLog) error {
	return m.Called(ctx, l).Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, e events.Event) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockPublisher) Close() {}

type MockInvoker struct {
	mock.Mock
}

func (m *MockInvoker) Invoke(ctx context.Context, name string, inv edge.Invocation) (json.RawMessage, error) {
	args := m.Called(ctx, name, inv)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

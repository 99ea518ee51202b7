// Package supabase implements the repositories on top of the Supabase
// PostgREST API, for deployments that cannot reach Postgres directly.
package supabase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/baharkarakas/lottery-miniapp-api/internal/models"
	"github.com/baharkarakas/lottery-miniapp-api/internal/repository"
	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"
)

const (
	usersTable     = "users"
	auditLogsTable = "audit_logs"

	uniqueViolation = "23505"
)

type Repositories struct {
	Accounts  repository.Accounts
	AuditLogs repository.AuditLogs
}

func NewClient(url, key string) (*supabase.Client, error) {
	c, err := supabase.NewClient(url, key, &supabase.ClientOptions{
		Headers: map[string]string{"X-Client-Info": "lottery-miniapp-api"},
	})
	if err != nil {
		return nil, fmt.Errorf("supabase client: %w", err)
	}
	return c, nil
}

func NewRepositories(c *supabase.Client) Repositories {
	return Repositories{
		Accounts:  &accountsRepo{c},
		AuditLogs: &auditLogsRepo{c},
	}
}

// The PostgREST client has no context support; ctx is only checked before the call.
type accountsRepo struct{ c *supabase.Client }

func (r *accountsRepo) GetByID(ctx context.Context, id string) (models.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return models.Account{}, repository.ErrNotFound
	}
	return r.getOne(ctx, "id", id)
}

func (r *accountsRepo) GetByTelegramID(ctx context.Context, telegramID int64) (models.Account, error) {
	return r.getOne(ctx, "telegram_id", strconv.FormatInt(telegramID, 10))
}

func (r *accountsRepo) getOne(ctx context.Context, column, value string) (models.Account, error) {
	if err := ctx.Err(); err != nil {
		return models.Account{}, err
	}
	var rows []models.Account
	_, err := r.c.From(usersTable).
		Select("*", "", false).
		Eq(column, value).
		Limit(1, "").
		ExecuteTo(&rows)
	if err != nil {
		return models.Account{}, fmt.Errorf("select account by %s: %w", column, err)
	}
	if len(rows) == 0 {
		return models.Account{}, repository.ErrNotFound
	}
	return rows[0], nil
}

// Provision has no single-statement insert-or-get over PostgREST without
// overwriting the stored row, so a unique violation falls back to a re-read.
func (r *accountsRepo) Provision(ctx context.Context, na models.NewAccount) (models.Account, bool, error) {
	if err := ctx.Err(); err != nil {
		return models.Account{}, false, err
	}
	var rows []models.Account
	_, err := r.c.From(usersTable).
		Insert(na, false, "", "representation", "").
		ExecuteTo(&rows)
	if err != nil {
		code, rejected := storeCode(err)
		switch {
		case code == uniqueViolation:
			acc, getErr := r.GetByTelegramID(ctx, na.TelegramID)
			if getErr != nil {
				return models.Account{}, false, getErr
			}
			return acc, false, nil
		case rejected:
			return models.Account{}, false, fmt.Errorf("insert telegram id %d: %w: %w", na.TelegramID, repository.ErrInsertRejected, err)
		default:
			return models.Account{}, false, fmt.Errorf("insert telegram id %d: %w", na.TelegramID, err)
		}
	}
	if len(rows) == 0 {
		return models.Account{}, false, fmt.Errorf("insert telegram id %d: %w: empty representation", na.TelegramID, repository.ErrInsertRejected)
	}
	return rows[0], true, nil
}

// storeCode extracts the SQLSTATE or PostgREST code from an error the
// database answered with, formatted by postgrest-go as "(code) message".
// Transport failures carry no code.
func storeCode(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "(") {
		return "", false
	}
	end := strings.Index(msg, ") ")
	if end <= 1 {
		return "", false
	}
	return msg[1:end], true
}

func (r *accountsRepo) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, _, err := r.c.From(usersTable).Select("id", "", false).Limit(1, "").Execute()
	return err
}

type auditLogsRepo struct{ c *supabase.Client }

func (r *auditLogsRepo) Create(ctx context.Context, l models.AuditLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	row := map[string]any{
		"entity_type": l.EntityType,
		"entity_id":   l.EntityID,
		"action":      l.Action,
		"details":     l.Details,
	}
	_, _, err := r.c.From(auditLogsTable).Insert(row, false, "", "minimal", "").Execute()
	if _, rejected := storeCode(err); rejected {
		return errors.Join(repository.ErrInsertRejected, err)
	}
	return err
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/baharkarakas/lottery-miniapp-api/internal/models"
	"github.com/baharkarakas/lottery-miniapp-api/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type accountsRepo struct{ pool *pgxpool.Pool }

const accountColumns = `id, telegram_id, username, first_name, last_name, full_name,
	coin_balance, platform_balance, total_spent, vip_level, free_daily_count,
	trust_score, is_suspicious, has_first_lottery, language, created_at, updated_at`

func scanAccount(row pgx.Row, extra ...any) (models.Account, error) {
	var a models.Account
	dest := []any{
		&a.ID, &a.TelegramID, &a.Username, &a.FirstName, &a.LastName, &a.FullName,
		&a.CoinBalance, &a.PlatformBalance, &a.TotalSpent, &a.VIPLevel, &a.FreeDailyCount,
		&a.TrustScore, &a.IsSuspicious, &a.HasFirstLottery, &a.Language, &a.CreatedAt, &a.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return a, err
}

func (r *accountsRepo) GetByID(ctx context.Context, id string) (models.Account, error) {
	// a malformed id cannot match any row
	if _, err := uuid.Parse(id); err != nil {
		return models.Account{}, repository.ErrNotFound
	}
	a, err := scanAccount(r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM users WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Account{}, repository.ErrNotFound
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("get account %s: %w", id, err)
	}
	return a, nil
}

func (r *accountsRepo) GetByTelegramID(ctx context.Context, telegramID int64) (models.Account, error) {
	a, err := scanAccount(r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM users WHERE telegram_id=$1`, telegramID))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Account{}, repository.ErrNotFound
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("get account by telegram id %d: %w", telegramID, err)
	}
	return a, nil
}

// Provision is a single statement: the conflict branch is a no-op update so
// RETURNING yields the existing row, and xmax = 0 only holds for a fresh insert.
func (r *accountsRepo) Provision(ctx context.Context, na models.NewAccount) (models.Account, bool, error) {
	const q = `
INSERT INTO users (
  telegram_id, username, first_name, last_name, full_name,
  coin_balance, platform_balance, total_spent, vip_level, free_daily_count,
  trust_score, is_suspicious, has_first_lottery, language
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
ON CONFLICT (telegram_id) DO UPDATE
SET telegram_id = EXCLUDED.telegram_id
RETURNING ` + accountColumns + `, (xmax = 0) AS inserted`

	var inserted bool
	a, err := scanAccount(r.pool.QueryRow(ctx, q,
		na.TelegramID, na.Username, na.FirstName, na.LastName, na.FullName,
		na.CoinBalance, na.PlatformBalance, na.TotalSpent, na.VIPLevel, na.FreeDailyCount,
		na.TrustScore, na.IsSuspicious, na.HasFirstLottery, na.Language,
	), &inserted)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return models.Account{}, false, fmt.Errorf("provision telegram id %d: %w: %w", na.TelegramID, repository.ErrInsertRejected, err)
	}
	if err != nil {
		return models.Account{}, false, fmt.Errorf("provision telegram id %d: %w", na.TelegramID, err)
	}
	return a, inserted, nil
}

func (r *accountsRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

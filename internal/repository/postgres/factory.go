package postgres

import (
	repo "github.com/baharkarakas/lottery-miniapp-api/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	Accounts  repo.Accounts
	AuditLogs repo.AuditLogs
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Accounts:  &accountsRepo{pool},
		AuditLogs: &auditLogsRepo{pool},
	}
}

package handlers

import (
	"context"

	"posledger/internal/models"
	"posledger/internal/services"
	"posledger/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Execer, id, username, passwordHash, role string) error
	GetByUsername(ctx context.Context, username string) (models.User, error)
	GetByID(ctx context.Context, userID string) (models.User, error)
	UpdateUsername(ctx context.Context, tx store.Execer, userID, username string) error
	UpdatePasswordHash(ctx context.Context, tx store.Execer, userID, passwordHash string) error
}

type MachineStore interface {
	List(ctx context.Context) ([]models.Machine, error)
	GetByID(ctx context.Context, machineID string) (models.Machine, error)
	TotalBalance(ctx context.Context) (int64, error)
}

type TransactionStore interface {
	ListAll(ctx context.Context, limit, offset int) ([]store.TransactionWithNames, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	List(ctx context.Context, limit, offset int) ([]map[string]any, error)
}

type LedgerService interface {
	Record(ctx context.Context, req services.RecordRequest) (models.Transaction, error)
	AdjustBalance(ctx context.Context, actorUserID, machineID string, newBalance int64) (models.Machine, error)
}

type ReconciliationService interface {
	EnsureTodaySummary(ctx context.Context) (models.DailySummary, error)
	SetOpeningCash(ctx context.Context, actorUserID string, cashMinor int64) (models.DailySummary, error)
	ComputeSummary(ctx context.Context, date string) (models.SummaryView, error)
}

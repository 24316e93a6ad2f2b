package handlers

import (
	"context"
	"time"

	"posledger/internal/config"
	"posledger/internal/models"
	"posledger/internal/services"
	"posledger/internal/store"
	"posledger/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type stubTxRunner struct {
	err error
}

func (s stubTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if s.err != nil {
		return s.err
	}
	return fn(nil)
}

type stubUserStore struct {
	createFn         func(ctx context.Context, tx store.Execer, id, username, passwordHash, role string) error
	getByUsernameFn  func(ctx context.Context, username string) (models.User, error)
	getByIDFn        func(ctx context.Context, userID string) (models.User, error)
	updateUsernameFn func(ctx context.Context, tx store.Execer, userID, username string) error
	updatePasswordFn func(ctx context.Context, tx store.Execer, userID, passwordHash string) error
}

func (s stubUserStore) Create(ctx context.Context, tx store.Execer, id, username, passwordHash, role string) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, tx, id, username, passwordHash, role)
}

func (s stubUserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	if s.getByUsernameFn == nil {
		return models.User{}, nil
	}
	return s.getByUsernameFn(ctx, username)
}

func (s stubUserStore) GetByID(ctx context.Context, userID string) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{}, nil
	}
	return s.getByIDFn(ctx, userID)
}

func (s stubUserStore) UpdateUsername(ctx context.Context, tx store.Execer, userID, username string) error {
	if s.updateUsernameFn == nil {
		return nil
	}
	return s.updateUsernameFn(ctx, tx, userID, username)
}

func (s stubUserStore) UpdatePasswordHash(ctx context.Context, tx store.Execer, userID, passwordHash string) error {
	if s.updatePasswordFn == nil {
		return nil
	}
	return s.updatePasswordFn(ctx, tx, userID, passwordHash)
}

type stubMachineStore struct {
	listFn    func(ctx context.Context) ([]models.Machine, error)
	getByIDFn func(ctx context.Context, machineID string) (models.Machine, error)
	totalFn   func(ctx context.Context) (int64, error)
}

func (s stubMachineStore) List(ctx context.Context) ([]models.Machine, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

func (s stubMachineStore) GetByID(ctx context.Context, machineID string) (models.Machine, error) {
	if s.getByIDFn == nil {
		return models.Machine{}, nil
	}
	return s.getByIDFn(ctx, machineID)
}

func (s stubMachineStore) TotalBalance(ctx context.Context) (int64, error) {
	if s.totalFn == nil {
		return 0, nil
	}
	return s.totalFn(ctx)
}

type stubTransactionStore struct {
	listAllFn func(ctx context.Context, limit, offset int) ([]store.TransactionWithNames, error)
}

func (s stubTransactionStore) ListAll(ctx context.Context, limit, offset int) ([]store.TransactionWithNames, error) {
	if s.listAllFn == nil {
		return nil, nil
	}
	return s.listAllFn(ctx, limit, offset)
}

type stubAuditStore struct {
	logFn  func(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
	listFn func(ctx context.Context, limit, offset int) ([]map[string]any, error)
}

func (s stubAuditStore) Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, actorID, action, entityType, entityID, data)
}

func (s stubAuditStore) List(ctx context.Context, limit, offset int) ([]map[string]any, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit, offset)
}

type stubLedgerService struct {
	recordFn func(ctx context.Context, req services.RecordRequest) (models.Transaction, error)
	adjustFn func(ctx context.Context, actorUserID, machineID string, newBalance int64) (models.Machine, error)
}

func (s stubLedgerService) Record(ctx context.Context, req services.RecordRequest) (models.Transaction, error) {
	if s.recordFn == nil {
		return models.Transaction{ID: "tx-1"}, nil
	}
	return s.recordFn(ctx, req)
}

func (s stubLedgerService) AdjustBalance(ctx context.Context, actorUserID, machineID string, newBalance int64) (models.Machine, error) {
	if s.adjustFn == nil {
		return models.Machine{}, nil
	}
	return s.adjustFn(ctx, actorUserID, machineID, newBalance)
}

type stubReconciliationService struct {
	ensureFn  func(ctx context.Context) (models.DailySummary, error)
	setFn     func(ctx context.Context, actorUserID string, cashMinor int64) (models.DailySummary, error)
	computeFn func(ctx context.Context, date string) (models.SummaryView, error)
}

func (s stubReconciliationService) EnsureTodaySummary(ctx context.Context) (models.DailySummary, error) {
	if s.ensureFn == nil {
		return models.DailySummary{}, nil
	}
	return s.ensureFn(ctx)
}

func (s stubReconciliationService) SetOpeningCash(ctx context.Context, actorUserID string, cashMinor int64) (models.DailySummary, error) {
	if s.setFn == nil {
		return models.DailySummary{}, nil
	}
	return s.setFn(ctx, actorUserID, cashMinor)
}

func (s stubReconciliationService) ComputeSummary(ctx context.Context, date string) (models.SummaryView, error) {
	if s.computeFn == nil {
		return models.SummaryView{}, nil
	}
	return s.computeFn(ctx, date)
}

func newTestHandler(users UserStore, machines MachineStore, transactions TransactionStore, audit AuditStore, ledger LedgerService, reconciliation ReconciliationService) *Handler {
	cfg := config.Config{
		JWTSecret: "test-secret",
		TokenTTL:  time.Minute,
	}
	return New(stubTxRunner{}, cfg, users, machines, transactions, audit, ledger, reconciliation, websocket.NewHub())
}

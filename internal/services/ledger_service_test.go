package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"posledger/internal/models"
	"posledger/internal/store"
	"posledger/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubMachineStore struct {
	listFn         func(ctx context.Context) ([]models.Machine, error)
	getByIDFn      func(ctx context.Context, machineID string) (models.Machine, error)
	getForUpdateFn func(ctx context.Context, tx store.Getter, machineID string) (models.Machine, error)
	updateFn       func(ctx context.Context, tx store.Execer, machineID string, balance int64) (int64, error)
	totalFn        func(ctx context.Context) (int64, error)
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

func (s stubMachineStore) GetForUpdate(ctx context.Context, tx store.Getter, machineID string) (models.Machine, error) {
	return s.getForUpdateFn(ctx, tx, machineID)
}

func (s stubMachineStore) UpdateBalance(ctx context.Context, tx store.Execer, machineID string, balance int64) (int64, error) {
	if s.updateFn == nil {
		return 1, nil
	}
	return s.updateFn(ctx, tx, machineID, balance)
}

func (s stubMachineStore) TotalBalance(ctx context.Context) (int64, error) {
	if s.totalFn == nil {
		return 0, nil
	}
	return s.totalFn(ctx)
}

type stubTransactionStore struct {
	createFn func(ctx context.Context, tx store.Tx, input store.TransactionInput) (models.Transaction, error)
	sumFn    func(ctx context.Context, kind string, from, to time.Time) (int64, error)
}

func (s stubTransactionStore) Create(ctx context.Context, tx store.Tx, input store.TransactionInput) (models.Transaction, error) {
	if s.createFn == nil {
		return models.Transaction{
			ID:        input.ID,
			UserID:    input.UserID,
			MachineID: input.MachineID,
			Amount:    input.Amount,
			Kind:      input.Kind,
		}, nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubTransactionStore) SumByKindBetween(ctx context.Context, kind string, from, to time.Time) (int64, error) {
	if s.sumFn == nil {
		return 0, nil
	}
	return s.sumFn(ctx, kind, from, to)
}

type stubAuditStore struct {
	logFn func(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

func (s stubAuditStore) Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, actorID, action, entityType, entityID, data)
}

type stubHub struct {
	calls []websocket.MachineUpdate
}

func (s *stubHub) BroadcastMachine(update websocket.MachineUpdate) {
	s.calls = append(s.calls, update)
}

func strPtr(value string) *string {
	return &value
}

func TestRecordInvalidAmount(t *testing.T) {
	service := NewLedgerService(fakeTxRunner{}, stubMachineStore{
		getForUpdateFn: func(context.Context, store.Getter, string) (models.Machine, error) {
			t.Fatalf("unexpected store call")
			return models.Machine{}, nil
		},
	}, stubTransactionStore{}, stubAuditStore{}, &stubHub{})
	_, err := service.Record(context.Background(), RecordRequest{
		UserID: "u1", MachineID: strPtr("m1"), AmountMinor: 0, Kind: models.KindDeposit,
	})
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestRecordInvalidKind(t *testing.T) {
	service := NewLedgerService(fakeTxRunner{}, stubMachineStore{}, stubTransactionStore{}, stubAuditStore{}, &stubHub{})
	_, err := service.Record(context.Background(), RecordRequest{
		UserID: "u1", MachineID: strPtr("m1"), AmountMinor: 100, Kind: "refund",
	})
	if !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}

func TestRecordDepositRequiresMachine(t *testing.T) {
	service := NewLedgerService(fakeTxRunner{}, stubMachineStore{}, stubTransactionStore{}, stubAuditStore{}, &stubHub{})
	_, err := service.Record(context.Background(), RecordRequest{
		UserID: "u1", AmountMinor: 100, Kind: models.KindDeposit,
	})
	if !errors.Is(err, ErrMachineRequired) {
		t.Fatalf("expected ErrMachineRequired, got %v", err)
	}
}

func TestRecordUnknownMachine(t *testing.T) {
	service := NewLedgerService(fakeTxRunner{}, stubMachineStore{
		getForUpdateFn: func(context.Context, store.Getter, string) (models.Machine, error) {
			return models.Machine{}, sql.ErrNoRows
		},
	}, stubTransactionStore{}, stubAuditStore{}, &stubHub{})
	_, err := service.Record(context.Background(), RecordRequest{
		UserID: "u1", MachineID: strPtr("missing"), AmountMinor: 100, Kind: models.KindWithdrawal,
	})
	if !errors.Is(err, ErrMachineNotFound) {
		t.Fatalf("expected ErrMachineNotFound, got %v", err)
	}
}

// Deposits move cash out of the machine into the drawer, withdrawals move it
// back: 500.00 less a 50.00 deposit is 450.00, and a 50.00 withdrawal
// restores 500.00.
func TestRecordSignConvention(t *testing.T) {
	balance := int64(50000)
	var inserted []store.TransactionInput
	hub := &stubHub{}
	service := NewLedgerService(fakeTxRunner{}, stubMachineStore{
		getForUpdateFn: func(_ context.Context, _ store.Getter, machineID string) (models.Machine, error) {
			return models.Machine{ID: machineID, Balance: balance}, nil
		},
		updateFn: func(_ context.Context, _ store.Execer, _ string, newBalance int64) (int64, error) {
			balance = newBalance
			return 1, nil
		},
	}, stubTransactionStore{
		createFn: func(_ context.Context, _ store.Tx, input store.TransactionInput) (models.Transaction, error) {
			inserted = append(inserted, input)
			return models.Transaction{ID: input.ID, UserID: input.UserID, MachineID: input.MachineID, Amount: input.Amount, Kind: input.Kind}, nil
		},
	}, stubAuditStore{}, hub)

	created, err := service.Record(context.Background(), RecordRequest{
		UserID: "u1", MachineID: strPtr("m1"), AmountMinor: 5000, Kind: models.KindDeposit,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" || created.Amount != 5000 || created.Kind != models.KindDeposit {
		t.Fatalf("expected the stored row back, got %#v", created)
	}
	if balance != 45000 {
		t.Fatalf("expected 45000 after deposit, got %d", balance)
	}
	if _, err := service.Record(context.Background(), RecordRequest{
		UserID: "u1", MachineID: strPtr("m1"), AmountMinor: 5000, Kind: models.KindWithdrawal,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 50000 {
		t.Fatalf("expected 50000 after withdrawal, got %d", balance)
	}
	if len(inserted) != 2 {
		t.Fatalf("expected 2 ledger rows, got %d", len(inserted))
	}
	if len(hub.calls) != 2 || hub.calls[0].Balance != "450.00" || hub.calls[1].Balance != "500.00" {
		t.Fatalf("unexpected broadcasts: %#v", hub.calls)
	}
}

// Borrowing is drawer-only: the row is appended but no machine moves.
func TestRecordBorrowingLeavesMachinesAlone(t *testing.T) {
	var inserted []store.TransactionInput
	service := NewLedgerService(fakeTxRunner{}, stubMachineStore{
		getForUpdateFn: func(context.Context, store.Getter, string) (models.Machine, error) {
			t.Fatalf("borrowing must not touch machines")
			return models.Machine{}, nil
		},
		updateFn: func(context.Context, store.Execer, string, int64) (int64, error) {
			t.Fatalf("borrowing must not move a balance")
			return 0, nil
		},
	}, stubTransactionStore{
		createFn: func(_ context.Context, _ store.Tx, input store.TransactionInput) (models.Transaction, error) {
			inserted = append(inserted, input)
			return models.Transaction{ID: input.ID, UserID: input.UserID, Amount: input.Amount, Kind: input.Kind}, nil
		},
	}, stubAuditStore{}, &stubHub{})
	if _, err := service.Record(context.Background(), RecordRequest{
		UserID: "u1", AmountMinor: 20000, Kind: models.KindBorrowing,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inserted) != 1 || inserted[0].Kind != models.KindBorrowing || inserted[0].Amount != 20000 {
		t.Fatalf("unexpected insert: %#v", inserted)
	}
}

// A failed ledger append aborts the whole unit: the error surfaces and no
// balance update is announced.
func TestRecordAppendFailureAbortsUnit(t *testing.T) {
	appendErr := errors.New("append failed")
	hub := &stubHub{}
	service := NewLedgerService(fakeTxRunner{}, stubMachineStore{
		getForUpdateFn: func(_ context.Context, _ store.Getter, machineID string) (models.Machine, error) {
			return models.Machine{ID: machineID, Balance: 50000}, nil
		},
	}, stubTransactionStore{
		createFn: func(context.Context, store.Tx, store.TransactionInput) (models.Transaction, error) {
			return models.Transaction{}, appendErr
		},
	}, stubAuditStore{}, hub)
	_, err := service.Record(context.Background(), RecordRequest{
		UserID: "u1", MachineID: strPtr("m1"), AmountMinor: 5000, Kind: models.KindDeposit,
	})
	if !errors.Is(err, appendErr) {
		t.Fatalf("expected append error, got %v", err)
	}
	if len(hub.calls) != 0 {
		t.Fatalf("no broadcast expected after rollback, got %#v", hub.calls)
	}
}

func TestAdjustBalanceUnknownMachine(t *testing.T) {
	service := NewLedgerService(fakeTxRunner{}, stubMachineStore{
		getForUpdateFn: func(context.Context, store.Getter, string) (models.Machine, error) {
			return models.Machine{}, sql.ErrNoRows
		},
	}, stubTransactionStore{}, stubAuditStore{}, &stubHub{})
	_, err := service.AdjustBalance(context.Background(), "owner-1", "missing", 1000)
	if !errors.Is(err, ErrMachineNotFound) {
		t.Fatalf("expected ErrMachineNotFound, got %v", err)
	}
}

func TestAdjustBalanceReplacesValue(t *testing.T) {
	var gotBalance int64
	var ledgerRows int
	hub := &stubHub{}
	service := NewLedgerService(fakeTxRunner{}, stubMachineStore{
		getForUpdateFn: func(_ context.Context, _ store.Getter, machineID string) (models.Machine, error) {
			return models.Machine{ID: machineID, Name: "POS 1", Balance: 77700}, nil
		},
		updateFn: func(_ context.Context, _ store.Execer, _ string, balance int64) (int64, error) {
			gotBalance = balance
			return 1, nil
		},
	}, stubTransactionStore{
		createFn: func(context.Context, store.Tx, store.TransactionInput) (models.Transaction, error) {
			ledgerRows++
			return models.Transaction{}, nil
		},
	}, stubAuditStore{}, hub)
	machine, err := service.AdjustBalance(context.Background(), "owner-1", "m1", -2500)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBalance != -2500 || machine.Balance != -2500 {
		t.Fatalf("expected direct replacement, got stored=%d returned=%d", gotBalance, machine.Balance)
	}
	if ledgerRows != 0 {
		t.Fatalf("corrections must bypass the ledger, got %d rows", ledgerRows)
	}
	if len(hub.calls) != 1 || hub.calls[0].Balance != "-25.00" {
		t.Fatalf("unexpected broadcasts: %#v", hub.calls)
	}
}

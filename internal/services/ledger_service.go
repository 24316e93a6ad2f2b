package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"posledger/internal/db"
	"posledger/internal/models"
	"posledger/internal/money"
	"posledger/internal/store"
	"posledger/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidKind       = errors.New("invalid transaction kind")
	ErrMachineNotFound   = errors.New("machine not found")
	ErrMachineRequired   = errors.New("machine required for this kind")
	ErrOpeningAlreadySet = errors.New("opening balance already set for today")
)

type MachineStore interface {
	List(ctx context.Context) ([]models.Machine, error)
	GetByID(ctx context.Context, machineID string) (models.Machine, error)
	GetForUpdate(ctx context.Context, tx store.Getter, machineID string) (models.Machine, error)
	UpdateBalance(ctx context.Context, tx store.Execer, machineID string, balance int64) (int64, error)
	TotalBalance(ctx context.Context) (int64, error)
}

type TransactionStore interface {
	Create(ctx context.Context, tx store.Tx, input store.TransactionInput) (models.Transaction, error)
	SumByKindBetween(ctx context.Context, kind string, from, to time.Time) (int64, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityType, entityID, data string) error
}

type MachineHub interface {
	BroadcastMachine(update websocket.MachineUpdate)
}

type LedgerService struct {
	txRunner db.TxRunner
	machines MachineStore
	txStore  TransactionStore
	audit    AuditStore
	hub      MachineHub
}

func NewLedgerService(txRunner db.TxRunner, machines MachineStore, txStore TransactionStore, audit AuditStore, hub MachineHub) *LedgerService {
	return &LedgerService{
		txRunner: txRunner,
		machines: machines,
		txStore:  txStore,
		audit:    audit,
		hub:      hub,
	}
}

type RecordRequest struct {
	UserID      string
	MachineID   *string
	AmountMinor int64
	Kind        string
}

// Record appends a ledger row and, for deposits and withdrawals, moves the
// machine balance in the same database transaction. Deposits pull cash out of
// the machine into the drawer, so the machine balance goes down; withdrawals
// release cash back, so it goes up. Borrowing never touches a machine. The
// returned transaction is the row as stored.
func (s *LedgerService) Record(ctx context.Context, req RecordRequest) (models.Transaction, error) {
	if req.AmountMinor <= 0 {
		return models.Transaction{}, ErrInvalidAmount
	}
	if !models.ValidKind(req.Kind) {
		return models.Transaction{}, ErrInvalidKind
	}
	mutatesMachine := req.Kind == models.KindDeposit || req.Kind == models.KindWithdrawal
	if mutatesMachine && (req.MachineID == nil || *req.MachineID == "") {
		return models.Transaction{}, ErrMachineRequired
	}

	var created models.Transaction
	var balanceAfter int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if req.MachineID != nil && *req.MachineID != "" {
			machine, err := s.machines.GetForUpdate(ctx, tx, *req.MachineID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return ErrMachineNotFound
				}
				return err
			}
			if mutatesMachine {
				newBalance := machine.Balance
				switch req.Kind {
				case models.KindDeposit:
					newBalance -= req.AmountMinor
				case models.KindWithdrawal:
					newBalance += req.AmountMinor
				}
				if _, err := s.machines.UpdateBalance(ctx, tx, machine.ID, newBalance); err != nil {
					return err
				}
				balanceAfter = newBalance
			}
		}
		row, err := s.txStore.Create(ctx, tx, store.TransactionInput{
			ID:        uuid.NewString(),
			UserID:    req.UserID,
			MachineID: req.MachineID,
			Amount:    req.AmountMinor,
			Kind:      req.Kind,
		})
		if err != nil {
			return err
		}
		created = row
		data, _ := json.Marshal(map[string]string{
			"kind":   req.Kind,
			"amount": money.FormatMinor(req.AmountMinor),
		})
		return s.audit.Log(ctx, tx, req.UserID, "record_transaction", "transaction", created.ID, string(data))
	})
	if err != nil {
		return models.Transaction{}, err
	}
	if mutatesMachine {
		s.hub.BroadcastMachine(websocket.MachineUpdate{
			MachineID: *req.MachineID,
			Balance:   money.FormatMinor(balanceAfter),
		})
	}
	return created, nil
}

// AdjustBalance is the owner's administrative correction. It replaces the
// stored balance directly and leaves no ledger row, matching the registry
// contract; only the audit log records that it happened.
func (s *LedgerService) AdjustBalance(ctx context.Context, actorUserID, machineID string, newBalance int64) (models.Machine, error) {
	var machine models.Machine
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		row, err := s.machines.GetForUpdate(ctx, tx, machineID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrMachineNotFound
			}
			return err
		}
		if _, err := s.machines.UpdateBalance(ctx, tx, row.ID, newBalance); err != nil {
			return err
		}
		row.Balance = newBalance
		machine = row
		data, _ := json.Marshal(map[string]string{
			"balance": money.FormatMinor(newBalance),
		})
		return s.audit.Log(ctx, tx, actorUserID, "adjust_balance", "machine", machineID, string(data))
	})
	if err != nil {
		return models.Machine{}, err
	}
	s.hub.BroadcastMachine(websocket.MachineUpdate{
		MachineID: machine.ID,
		Balance:   money.FormatMinor(machine.Balance),
	})
	return machine, nil
}

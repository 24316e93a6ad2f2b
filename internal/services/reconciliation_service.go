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

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type SummaryStore interface {
	GetByDate(ctx context.Context, date string) (models.DailySummary, error)
	Create(ctx context.Context, id, date string) error
	SetOpening(ctx context.Context, tx store.Execer, date string, openingBalance, cashAtHand int64) (int64, error)
}

// Calendar is the wall-clock collaborator: it names the business day and maps
// it to a created_at scan range.
type Calendar interface {
	Today() string
	DayBounds(date string) (time.Time, time.Time, error)
}

// ReconciliationService owns the daily summary row. One row per calendar day,
// opening balance set at most once; everything else is derived on read.
type ReconciliationService struct {
	txRunner  db.TxRunner
	summaries SummaryStore
	machines  MachineStore
	txStore   TransactionStore
	audit     AuditStore
	calendar  Calendar
}

func NewReconciliationService(txRunner db.TxRunner, summaries SummaryStore, machines MachineStore, txStore TransactionStore, audit AuditStore, calendar Calendar) *ReconciliationService {
	return &ReconciliationService{
		txRunner:  txRunner,
		summaries: summaries,
		machines:  machines,
		txStore:   txStore,
		audit:     audit,
		calendar:  calendar,
	}
}

// EnsureTodaySummary lazily creates today's zeroed row. A lost insert race is
// absorbed: the conflicting writer becomes a reader of the winner's row.
func (s *ReconciliationService) EnsureTodaySummary(ctx context.Context) (models.DailySummary, error) {
	today := s.calendar.Today()
	summary, err := s.summaries.GetByDate(ctx, today)
	if err == nil {
		return summary, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.DailySummary{}, err
	}
	if err := s.summaries.Create(ctx, uuid.NewString(), today); err != nil {
		return models.DailySummary{}, err
	}
	return s.summaries.GetByDate(ctx, today)
}

// SetOpeningCash declares the drawer cash for today. The opening balance
// captures the machine float at the moment of declaration:
// opening = cash_at_hand + total machine balance. The guarded UPDATE in the
// summary store makes the first caller win and every later one fail.
func (s *ReconciliationService) SetOpeningCash(ctx context.Context, actorUserID string, cashMinor int64) (models.DailySummary, error) {
	if cashMinor < 0 {
		return models.DailySummary{}, ErrInvalidAmount
	}
	if _, err := s.EnsureTodaySummary(ctx); err != nil {
		return models.DailySummary{}, err
	}
	today := s.calendar.Today()
	totalMachines, err := s.machines.TotalBalance(ctx)
	if err != nil {
		return models.DailySummary{}, err
	}
	openingBalance := cashMinor + totalMachines
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		updated, err := s.summaries.SetOpening(ctx, tx, today, openingBalance, cashMinor)
		if err != nil {
			return err
		}
		if updated == 0 {
			return ErrOpeningAlreadySet
		}
		data, _ := json.Marshal(map[string]string{
			"cash_at_hand":    money.FormatMinor(cashMinor),
			"opening_balance": money.FormatMinor(openingBalance),
		})
		return s.audit.Log(ctx, tx, actorUserID, "set_opening_cash", "daily_summary", today, string(data))
	})
	if err != nil {
		return models.DailySummary{}, err
	}
	return s.summaries.GetByDate(ctx, today)
}

// ComputeSummary derives the reconciliation view for a date without writing
// anything back. The closing balance uses machine balances as they stand at
// read time, so repeated reads across the day drift with the machines.
func (s *ReconciliationService) ComputeSummary(ctx context.Context, date string) (models.SummaryView, error) {
	summary, err := s.summaries.GetByDate(ctx, date)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return models.SummaryView{}, err
		}
		summary = models.DailySummary{SummaryDate: date}
	}
	from, to, err := s.calendar.DayBounds(date)
	if err != nil {
		return models.SummaryView{}, err
	}
	deposits, err := s.txStore.SumByKindBetween(ctx, models.KindDeposit, from, to)
	if err != nil {
		return models.SummaryView{}, err
	}
	withdrawals, err := s.txStore.SumByKindBetween(ctx, models.KindWithdrawal, from, to)
	if err != nil {
		return models.SummaryView{}, err
	}
	borrowing, err := s.txStore.SumByKindBetween(ctx, models.KindBorrowing, from, to)
	if err != nil {
		return models.SummaryView{}, err
	}
	totalMachines, err := s.machines.TotalBalance(ctx)
	if err != nil {
		return models.SummaryView{}, err
	}
	return models.SummaryView{
		SummaryDate:         date,
		OpeningBalance:      summary.OpeningBalance,
		CashAtHand:          summary.CashAtHand,
		TotalDeposits:       deposits,
		TotalWithdrawals:    withdrawals,
		Borrowing:           borrowing,
		TotalMachineBalance: totalMachines,
		CashBalance:         summary.CashAtHand + deposits - (withdrawals + borrowing),
		ClosingBalance:      summary.CashAtHand + totalMachines,
	}, nil
}

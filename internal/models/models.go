package models

import "time"

const (
	RoleStaff = "staff"
	RoleOwner = "owner"
)

const (
	KindDeposit    = "deposit"
	KindWithdrawal = "withdrawal"
	KindBorrowing  = "borrowing"
)

type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Machine struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Balance   int64     `db:"balance" json:"balance"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Transaction struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	MachineID *string   `db:"machine_id" json:"machine_id,omitempty"`
	Amount    int64     `db:"amount" json:"amount"`
	Kind      string    `db:"kind" json:"kind"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type DailySummary struct {
	ID             string    `db:"id" json:"id"`
	SummaryDate    string    `db:"summary_date" json:"summary_date"`
	OpeningBalance int64     `db:"opening_balance" json:"opening_balance"`
	CashAtHand     int64     `db:"cash_at_hand" json:"cash_at_hand"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// SummaryView is the read-side projection of a business day. All totals are
// derived at read time; nothing here is written back to daily_summaries.
type SummaryView struct {
	SummaryDate         string `json:"summary_date"`
	OpeningBalance      int64  `json:"opening_balance"`
	CashAtHand          int64  `json:"cash_at_hand"`
	TotalDeposits       int64  `json:"total_deposits"`
	TotalWithdrawals    int64  `json:"total_withdrawals"`
	Borrowing           int64  `json:"borrowing"`
	TotalMachineBalance int64  `json:"total_machine_balance"`
	CashBalance         int64  `json:"cash_balance"`
	ClosingBalance      int64  `json:"closing_balance"`
}

func ValidKind(kind string) bool {
	switch kind {
	case KindDeposit, KindWithdrawal, KindBorrowing:
		return true
	}
	return false
}

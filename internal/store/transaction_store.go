package store

import (
	"context"
	"time"

	"posledger/internal/models"
)

type TransactionStore struct {
	db DB
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

type TransactionInput struct {
	ID        string
	UserID    string
	MachineID *string
	Amount    int64
	Kind      string
}

// Create appends one immutable ledger row and returns it as stored, including
// the database-assigned created_at. There is deliberately no UPDATE or DELETE
// statement anywhere in this store.
func (s *TransactionStore) Create(ctx context.Context, tx Tx, input TransactionInput) (models.Transaction, error) {
	var row models.Transaction
	err := tx.GetContext(ctx, &row, `
		INSERT INTO transactions (id, user_id, machine_id, amount, kind)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, machine_id, amount, kind, created_at
	`, input.ID, input.UserID, input.MachineID, input.Amount, input.Kind)
	return row, err
}

// SumByKindBetween totals one kind over a half-open created_at range. The
// caller derives the range from the local business day.
func (s *TransactionStore) SumByKindBetween(ctx context.Context, kind string, from, to time.Time) (int64, error) {
	var sum int64
	err := s.db.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE kind = $1 AND created_at >= $2 AND created_at < $3
	`, kind, from, to)
	return sum, err
}

type TransactionWithNames struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Username    *string   `db:"username"`
	MachineID   *string   `db:"machine_id"`
	MachineName *string   `db:"machine_name"`
	Amount      int64     `db:"amount"`
	Kind        string    `db:"kind"`
	CreatedAt   time.Time `db:"created_at"`
}

func (s *TransactionStore) ListAll(ctx context.Context, limit, offset int) ([]TransactionWithNames, error) {
	var rows []TransactionWithNames
	err := s.db.SelectContext(ctx, &rows, `
		SELECT t.id, t.user_id, u.username, t.machine_id, m.name AS machine_name,
		       t.amount, t.kind, t.created_at
		FROM transactions t
		LEFT JOIN users u ON u.id = t.user_id
		LEFT JOIN machines m ON m.id = t.machine_id
		ORDER BY t.created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

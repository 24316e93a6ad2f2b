package store

import (
	"context"

	"posledger/internal/models"
)

type SummaryStore struct {
	db DB
}

func NewSummaryStore(db DB) *SummaryStore {
	return &SummaryStore{db: db}
}

func (s *SummaryStore) GetByDate(ctx context.Context, date string) (models.DailySummary, error) {
	var row models.DailySummary
	err := s.db.GetContext(ctx, &row, `
		SELECT id, summary_date::text AS summary_date, opening_balance, cash_at_hand, updated_at
		FROM daily_summaries
		WHERE summary_date = $1
	`, date)
	if err != nil {
		return models.DailySummary{}, err
	}
	return row, nil
}

// Create inserts the zeroed row for a date. A concurrent creator winning the
// race is not an error: the UNIQUE constraint plus DO NOTHING turns the loser
// into a no-op, and the caller re-reads.
func (s *SummaryStore) Create(ctx context.Context, id, date string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_summaries (id, summary_date, opening_balance, cash_at_hand)
		VALUES ($1, $2, 0, 0)
		ON CONFLICT (summary_date) DO NOTHING
	`, id, date)
	return err
}

// SetOpening is the compare-and-set behind the opening-once rule: the UPDATE
// only matches while opening_balance still holds the zero sentinel, so exactly
// one caller per day can win. Returns the number of rows updated.
func (s *SummaryStore) SetOpening(ctx context.Context, tx Execer, date string, openingBalance, cashAtHand int64) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE daily_summaries
		SET opening_balance = $1, cash_at_hand = $2, updated_at = NOW()
		WHERE summary_date = $3 AND opening_balance = 0
	`, openingBalance, cashAtHand, date)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

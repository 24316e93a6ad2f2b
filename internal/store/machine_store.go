package store

import (
	"context"

	"posledger/internal/models"
)

type MachineStore struct {
	db DB
}

func NewMachineStore(db DB) *MachineStore {
	return &MachineStore{db: db}
}

func (s *MachineStore) Create(ctx context.Context, tx Execer, id, name string, balance int64) error {
	query := `
		INSERT INTO machines (id, name, balance)
		VALUES ($1, $2, $3)
	`
	_, err := tx.ExecContext(ctx, query, id, name, balance)
	return err
}

func (s *MachineStore) List(ctx context.Context) ([]models.Machine, error) {
	var rows []models.Machine
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, balance, created_at, updated_at
		FROM machines
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *MachineStore) GetByID(ctx context.Context, machineID string) (models.Machine, error) {
	var row models.Machine
	err := s.db.GetContext(ctx, &row, `
		SELECT id, name, balance, created_at, updated_at
		FROM machines
		WHERE id = $1
	`, machineID)
	if err != nil {
		return models.Machine{}, err
	}
	return row, nil
}

func (s *MachineStore) GetForUpdate(ctx context.Context, tx Getter, machineID string) (models.Machine, error) {
	var row models.Machine
	err := tx.GetContext(ctx, &row, `
		SELECT id, name, balance, created_at, updated_at
		FROM machines
		WHERE id = $1
		FOR UPDATE
	`, machineID)
	if err != nil {
		return models.Machine{}, err
	}
	return row, nil
}

func (s *MachineStore) UpdateBalance(ctx context.Context, tx Execer, machineID string, balance int64) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE machines
		SET balance = $1, updated_at = NOW()
		WHERE id = $2
	`, balance, machineID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *MachineStore) TotalBalance(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(balance), 0)
		FROM machines
	`)
	return total, err
}

func (s *MachineStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM machines`)
	return count, err
}

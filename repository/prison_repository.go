package repository

import (
	"context"
	"errors"
	"fmt"

	"dinks/database"
	"dinks/models"
	"dinks/service"

	"github.com/jackc/pgx/v5"
)

// PrisonRepository implements the PrisonRepository interface
type PrisonRepository struct {
	q queryable
}

// NewPrisonRepository creates a new prison repository
func NewPrisonRepository(db *database.DB) *PrisonRepository {
	return &PrisonRepository{q: db.Pool}
}

// newPrisonRepositoryWithTx creates a new prison repository with a transaction
func newPrisonRepositoryWithTx(tx queryable) *PrisonRepository {
	return &PrisonRepository{q: tx}
}

// Get returns the prison record of a user, or nil when they are free
func (r *PrisonRepository) Get(ctx context.Context, userID int64) (*models.PrisonRecord, error) {
	query := `
		SELECT user_id, debt, days_remaining, daily_payment, created_at
		FROM prison
		WHERE user_id = $1
	`

	var record models.PrisonRecord
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&record.UserID,
		&record.Debt,
		&record.DaysRemaining,
		&record.DailyPayment,
		&record.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prison record for user %d: %w", userID, err)
	}
	return &record, nil
}

// Create jails a user who is currently free
func (r *PrisonRepository) Create(ctx context.Context, record *models.PrisonRecord) error {
	query := `
		INSERT INTO prison (user_id, debt, days_remaining, daily_payment)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		record.UserID,
		record.Debt,
		record.DaysRemaining,
		record.DailyPayment,
	).Scan(&record.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return service.ErrAlreadyImprisoned
	}
	if err != nil {
		return fmt.Errorf("failed to imprison user %d: %w", record.UserID, err)
	}
	return nil
}

// Delete releases a user
func (r *PrisonRepository) Delete(ctx context.Context, userID int64) (bool, error) {
	result, err := r.q.Exec(ctx, `DELETE FROM prison WHERE user_id = $1`, userID)
	if err != nil {
		return false, fmt.Errorf("failed to release user %d: %w", userID, err)
	}
	return result.RowsAffected() > 0, nil
}

// DecrementAll serves one day of every sentence
func (r *PrisonRepository) DecrementAll(ctx context.Context) (int, error) {
	query := `
		UPDATE prison
		SET debt = GREATEST(debt - daily_payment, 0),
		    days_remaining = days_remaining - 1
	`

	result, err := r.q.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to decrement sentences: %w", err)
	}
	return int(result.RowsAffected()), nil
}

// ReleaseServed deletes finished sentences
func (r *PrisonRepository) ReleaseServed(ctx context.Context) ([]int64, error) {
	rows, err := r.q.Query(ctx, `DELETE FROM prison WHERE days_remaining <= 0 RETURNING user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to release served sentences: %w", err)
	}

	released, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to collect released users: %w", err)
	}
	return released, nil
}

// List returns current prisoners, longest remaining sentence first
func (r *PrisonRepository) List(ctx context.Context, limit int) ([]*models.PrisonRecord, error) {
	query := `
		SELECT user_id, debt, days_remaining, daily_payment, created_at
		FROM prison
		ORDER BY days_remaining DESC, debt DESC, user_id
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list prisoners: %w", err)
	}
	defer rows.Close()

	var records []*models.PrisonRecord
	for rows.Next() {
		var record models.PrisonRecord
		if err := rows.Scan(
			&record.UserID,
			&record.Debt,
			&record.DaysRemaining,
			&record.DailyPayment,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan prison record: %w", err)
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate prison records: %w", err)
	}
	return records, nil
}

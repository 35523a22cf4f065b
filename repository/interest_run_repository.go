package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dinks/database"
	"dinks/models"
	"dinks/service"

	"github.com/jackc/pgx/v5"
)

// InterestRunRepository implements the InterestRunRepository interface
type InterestRunRepository struct {
	q queryable
}

// NewInterestRunRepository creates a new interest run repository
func NewInterestRunRepository(db *database.DB) *InterestRunRepository {
	return &InterestRunRepository{q: db.Pool}
}

// newInterestRunRepositoryWithTx creates a new interest run repository with a transaction
func newInterestRunRepositoryWithTx(tx queryable) *InterestRunRepository {
	return &InterestRunRepository{q: tx}
}

// dateOnly drops the time of day, keeping the calendar date as seen in UTC
func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func scanInterestRun(row pgx.Row) (*models.InterestRun, error) {
	var run models.InterestRun
	var summaryJSON []byte

	err := row.Scan(
		&run.ID,
		&run.RunDate,
		&run.TotalInterestDistributed,
		&run.UsersAffected,
		&summaryJSON,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(summaryJSON) > 0 {
		if err := json.Unmarshal(summaryJSON, &run.ExecutionSummary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal execution summary: %w", err)
		}
	}
	return &run, nil
}

// GetByDate returns the run for the calendar day of date
func (r *InterestRunRepository) GetByDate(ctx context.Context, date time.Time) (*models.InterestRun, error) {
	day := dateOnly(date)
	query := `
		SELECT id, run_date, total_interest_distributed, users_affected,
		       execution_summary, created_at
		FROM interest_runs
		WHERE run_date = $1
	`

	run, err := scanInterestRun(r.q.QueryRow(ctx, query, day))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get interest run for date %s: %w", day.Format(time.DateOnly), err)
	}
	return run, nil
}

// Create claims the run's calendar day. A concurrent creator for the same
// day waits for this transaction and then gets ErrInterestAlreadyApplied.
func (r *InterestRunRepository) Create(ctx context.Context, run *models.InterestRun) error {
	run.RunDate = dateOnly(run.RunDate)

	summaryJSON, err := json.Marshal(run.ExecutionSummary)
	if err != nil {
		return fmt.Errorf("failed to marshal execution summary: %w", err)
	}

	query := `
		INSERT INTO interest_runs
		(run_date, total_interest_distributed, users_affected, execution_summary)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (run_date) DO NOTHING
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		run.RunDate,
		run.TotalInterestDistributed,
		run.UsersAffected,
		summaryJSON,
	).Scan(&run.ID, &run.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return service.ErrInterestAlreadyApplied
	}
	if err != nil {
		return fmt.Errorf("failed to create interest run for date %s: %w", run.RunDate.Format(time.DateOnly), err)
	}
	return nil
}

// Finalize stores the totals of a run created earlier in the same transaction
func (r *InterestRunRepository) Finalize(ctx context.Context, run *models.InterestRun) error {
	summaryJSON, err := json.Marshal(run.ExecutionSummary)
	if err != nil {
		return fmt.Errorf("failed to marshal execution summary: %w", err)
	}

	query := `
		UPDATE interest_runs
		SET total_interest_distributed = $2,
		    users_affected = $3,
		    execution_summary = $4
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query, run.ID, run.TotalInterestDistributed, run.UsersAffected, summaryJSON)
	if err != nil {
		return fmt.Errorf("failed to finalize interest run %d: %w", run.ID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("interest run %d not found", run.ID)
	}
	return nil
}

// GetLatest returns the most recent interest run
func (r *InterestRunRepository) GetLatest(ctx context.Context) (*models.InterestRun, error) {
	query := `
		SELECT id, run_date, total_interest_distributed, users_affected,
		       execution_summary, created_at
		FROM interest_runs
		ORDER BY run_date DESC
		LIMIT 1
	`

	run, err := scanInterestRun(r.q.QueryRow(ctx, query))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest interest run: %w", err)
	}
	return run, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"dinks/database"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// EconomyStatsRepository implements the EconomyStatsRepository interface
type EconomyStatsRepository struct {
	q queryable
}

// NewEconomyStatsRepository creates a new economy stats repository
func NewEconomyStatsRepository(db *database.DB) *EconomyStatsRepository {
	return &EconomyStatsRepository{q: db.Pool}
}

// newEconomyStatsRepositoryWithTx creates a new economy stats repository with a transaction
func newEconomyStatsRepositoryWithTx(tx queryable) *EconomyStatsRepository {
	return &EconomyStatsRepository{q: tx}
}

// Increment adds amount to a counter, creating it on first use
func (r *EconomyStatsRepository) Increment(ctx context.Context, name string, amount decimal.Decimal) error {
	query := `
		INSERT INTO economy_stats (name, value)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE
		SET value = economy_stats.value + EXCLUDED.value,
		    updated_at = NOW()
	`

	if _, err := r.q.Exec(ctx, query, name, amount); err != nil {
		return fmt.Errorf("failed to increment %s: %w", name, err)
	}
	return nil
}

// Get returns a counter's value
func (r *EconomyStatsRepository) Get(ctx context.Context, name string) (decimal.Decimal, error) {
	var value decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT value FROM economy_stats WHERE name = $1`, name).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get %s: %w", name, err)
	}
	return value, nil
}

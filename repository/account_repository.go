package repository

import (
	"context"
	"errors"
	"fmt"

	"dinks/database"
	"dinks/models"
	"dinks/service"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const accountColumns = `
	user_id, dinks, invested, invested_days, profit,
	interest_level, capacity_level, rob_level, bitcoins,
	rob_successes, rob_failures, rob_stolen,
	nightly_streak, nightly_claimed_at, version, created_at, updated_at`

// AccountRepository implements the AccountRepository interface
type AccountRepository struct {
	q            queryable
	defaultLevel int
}

// NewAccountRepository creates a new account repository on the pool
func NewAccountRepository(db *database.DB, defaultLevel int) *AccountRepository {
	return &AccountRepository{q: db.Pool, defaultLevel: defaultLevel}
}

// newAccountRepositoryWithTx creates a new account repository with a transaction
func newAccountRepositoryWithTx(tx queryable, defaultLevel int) *AccountRepository {
	return &AccountRepository{q: tx, defaultLevel: defaultLevel}
}

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(
		&a.UserID,
		&a.Dinks,
		&a.Invested,
		&a.InvestedDays,
		&a.Profit,
		&a.InterestLevel,
		&a.CapacityLevel,
		&a.RobLevel,
		&a.Bitcoins,
		&a.RobSuccesses,
		&a.RobFailures,
		&a.RobStolen,
		&a.NightlyStreak,
		&a.NightlyClaimedAt,
		&a.Version,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByUserID retrieves an account by its Discord user ID
func (r *AccountRepository) GetByUserID(ctx context.Context, userID int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1`

	account, err := scanAccount(r.q.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", userID, err)
	}
	return account, nil
}

// GetOrCreate inserts a default account if none exists and returns the stored row
func (r *AccountRepository) GetOrCreate(ctx context.Context, userID int64) (*models.Account, bool, error) {
	query := `
		INSERT INTO accounts (user_id, interest_level, capacity_level, rob_level)
		VALUES ($1, $2, $2, $2)
		ON CONFLICT (user_id) DO NOTHING
		RETURNING ` + accountColumns

	account, err := scanAccount(r.q.QueryRow(ctx, query, userID, r.defaultLevel))
	if err == nil {
		return account, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to create account %d: %w", userID, err)
	}

	account, err = r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	if account == nil {
		return nil, false, fmt.Errorf("account %d vanished after insert conflict", userID)
	}
	return account, false, nil
}

// AddDinks credits dinks in one statement, clamped to the value cap
func (r *AccountRepository) AddDinks(ctx context.Context, userID int64, amount, valueCap, bitcoinPrice decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		WITH current AS (
			SELECT user_id, dinks,
			       LEAST($2::numeric, GREATEST($3::numeric - (dinks + invested + profit + bitcoins * $4::numeric), 0)) AS credit
			FROM accounts
			WHERE user_id = $1
			FOR UPDATE
		)
		UPDATE accounts a
		SET dinks = a.dinks + TRUNC(current.credit, 2),
		    version = a.version + 1,
		    updated_at = NOW()
		FROM current
		WHERE a.user_id = current.user_id
		RETURNING current.dinks, a.dinks
	`

	var before, after decimal.Decimal
	err := r.q.QueryRow(ctx, query, userID, amount, valueCap, bitcoinPrice).Scan(&before, &after)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, decimal.Zero, fmt.Errorf("account %d not found", userID)
	}
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to add dinks for account %d: %w", userID, err)
	}
	return before, after, nil
}

// SubtractDinks debits dinks only when the balance covers it
func (r *AccountRepository) SubtractDinks(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE accounts
		SET dinks = dinks - $2,
		    version = version + 1,
		    updated_at = NOW()
		WHERE user_id = $1 AND dinks >= $2
		RETURNING dinks
	`

	var after decimal.Decimal
	err := r.q.QueryRow(ctx, query, userID, amount).Scan(&after)
	if errors.Is(err, pgx.ErrNoRows) {
		account, getErr := r.GetByUserID(ctx, userID)
		if getErr != nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("failed to check account: %w", getErr)
		}
		if account == nil {
			return decimal.Zero, decimal.Zero, fmt.Errorf("account %d not found", userID)
		}
		return decimal.Zero, decimal.Zero, service.ErrInsufficientFunds
	}
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to subtract dinks for account %d: %w", userID, err)
	}
	return after.Add(amount), after, nil
}

// Update writes the account back if nobody changed it since it was read
func (r *AccountRepository) Update(ctx context.Context, a *models.Account) error {
	query := `
		UPDATE accounts
		SET dinks = $3,
		    invested = $4,
		    invested_days = $5,
		    profit = $6,
		    interest_level = $7,
		    capacity_level = $8,
		    rob_level = $9,
		    bitcoins = $10,
		    rob_successes = $11,
		    rob_failures = $12,
		    rob_stolen = $13,
		    nightly_streak = $14,
		    nightly_claimed_at = $15,
		    version = version + 1,
		    updated_at = NOW()
		WHERE user_id = $1 AND version = $2
		RETURNING version, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		a.UserID,
		a.Version,
		a.Dinks,
		a.Invested,
		a.InvestedDays,
		a.Profit,
		a.InterestLevel,
		a.CapacityLevel,
		a.RobLevel,
		a.Bitcoins,
		a.RobSuccesses,
		a.RobFailures,
		a.RobStolen,
		a.NightlyStreak,
		a.NightlyClaimedAt,
	).Scan(&a.Version, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return service.ErrVersionConflict
	}
	if err != nil {
		return fmt.Errorf("failed to update account %d: %w", a.UserID, err)
	}
	return nil
}

// ListAccruing returns invested accounts that are not in prison
func (r *AccountRepository) ListAccruing(ctx context.Context) ([]*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts a
		WHERE a.invested <> 0
		  AND NOT EXISTS (SELECT 1 FROM prison p WHERE p.user_id = a.user_id)
		ORDER BY a.user_id
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accruing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}

// Leaderboard ranks accounts by dinks + invested + profit
func (r *AccountRepository) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	query := `
		SELECT user_id, dinks + invested + profit AS net_worth
		FROM accounts
		WHERE dinks + invested + profit > 0
		ORDER BY net_worth DESC, user_id
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*models.LeaderboardEntry
	for rows.Next() {
		entry := &models.LeaderboardEntry{Rank: len(entries) + 1}
		if err := rows.Scan(&entry.UserID, &entry.NetWorth); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard: %w", err)
	}
	return entries, nil
}

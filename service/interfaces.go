package service

import (
	"context"
	"time"

	"dinks/events"
	"dinks/models"

	"github.com/shopspring/decimal"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetOrCreate returns the account, inserting a default row first if needed.
	// created reports whether this call inserted it.
	GetOrCreate(ctx context.Context, userID int64) (account *models.Account, created bool, err error)

	// GetByUserID returns nil, nil when the account does not exist
	GetByUserID(ctx context.Context, userID int64) (*models.Account, error)

	// AddDinks credits up to amount in a single statement, clamped so the
	// account's capped value (at bitcoinPrice) does not exceed valueCap.
	AddDinks(ctx context.Context, userID int64, amount, valueCap, bitcoinPrice decimal.Decimal) (before, after decimal.Decimal, err error)

	// SubtractDinks debits amount in a single guarded statement and returns
	// ErrInsufficientFunds when dinks would go negative.
	SubtractDinks(ctx context.Context, userID int64, amount decimal.Decimal) (before, after decimal.Decimal, err error)

	// Update writes every mutable field if the stored version still matches
	// account.Version, then bumps it. Returns ErrVersionConflict otherwise.
	Update(ctx context.Context, account *models.Account) error

	// ListAccruing returns accounts with money invested and no prison record, ordered by user id
	ListAccruing(ctx context.Context) ([]*models.Account, error)

	// Leaderboard returns the richest accounts by dinks + invested + profit
	Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
}

// PrisonRepository defines the interface for prison record data access
type PrisonRepository interface {
	// Get returns nil, nil when the user is free
	Get(ctx context.Context, userID int64) (*models.PrisonRecord, error)

	// Create jails a user. Returns ErrAlreadyImprisoned if a record exists.
	Create(ctx context.Context, record *models.PrisonRecord) error

	// Delete releases a user and reports whether a record was removed
	Delete(ctx context.Context, userID int64) (bool, error)

	// DecrementAll applies one day to every sentence
	DecrementAll(ctx context.Context) (int, error)

	// ReleaseServed deletes every record with no days left and returns the released users
	ReleaseServed(ctx context.Context) ([]int64, error)

	// List returns current prisoners, longest sentence first
	List(ctx context.Context, limit int) ([]*models.PrisonRecord, error)
}

// InterestRunRepository defines the interface for interest run bookkeeping
type InterestRunRepository interface {
	// GetByDate returns nil, nil when no run exists for the date
	GetByDate(ctx context.Context, date time.Time) (*models.InterestRun, error)

	// Create inserts the run row. Returns ErrInterestAlreadyApplied if the date is taken.
	Create(ctx context.Context, run *models.InterestRun) error

	// Finalize stores the totals and summary of a created run
	Finalize(ctx context.Context, run *models.InterestRun) error

	// GetLatest returns nil, nil before the first run
	GetLatest(ctx context.Context) (*models.InterestRun, error)
}

// EconomyStatsRepository defines the interface for bot-wide counters
type EconomyStatsRepository interface {
	// Increment atomically adds amount to the named counter
	Increment(ctx context.Context, name string, amount decimal.Decimal) error

	// Get returns zero for a counter that was never incremented
	Get(ctx context.Context, name string) (decimal.Decimal, error)
}

// BalanceHistoryRepository defines the interface for balance history tracking
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *models.BalanceHistory) error

	// GetByUser returns the most recent entries for a user
	GetByUser(ctx context.Context, userID int64, limit int) ([]*models.BalanceHistory, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// PriceSource quotes the current bitcoin price in dinks
type PriceSource interface {
	BitcoinPrice(ctx context.Context) (decimal.Decimal, error)
}

// LastPriceSource is a PriceSource that remembers its last successful quote
type LastPriceSource interface {
	PriceSource
	LastPrice() (decimal.Decimal, bool)
}

// RandomSource draws uniform integers in [0, n)
type RandomSource interface {
	IntN(n int) int
}

// LedgerService defines the interface for plain balance operations
type LedgerService interface {
	// GetBalance returns the account, creating it on first reference
	GetBalance(ctx context.Context, userID int64) (*models.Account, error)

	// Add credits amount, clamped to the value cap. Returns the new balance.
	Add(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error)

	// Subtract debits amount or fails with ErrInsufficientFunds. Returns the new balance.
	Subtract(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error)

	// Transfer moves amount between two users atomically. Returns what was sent.
	Transfer(ctx context.Context, fromUserID, toUserID int64, amount decimal.Decimal) (decimal.Decimal, error)

	// Leaderboard returns the richest accounts
	Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)

	// History returns the most recent balance changes of a user
	History(ctx context.Context, userID int64, limit int) ([]*models.BalanceHistory, error)
}

// BankService defines the interface for investments, upgrades and bitcoin
type BankService interface {
	// Invest moves up to amount from dinks into the bank
	Invest(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, *models.Account, error)

	// Claim moves up to amount of profit into dinks, never touching the principal
	Claim(ctx context.Context, userID int64, amount decimal.Decimal) (*models.ClaimResult, error)

	// ClaimAll returns all profit and the principal, resetting the investment
	ClaimAll(ctx context.Context, userID int64) (*models.ClaimResult, error)

	// Upgrade buys the next level on a track
	Upgrade(ctx context.Context, userID int64, track models.UpgradeTrack) (*models.UpgradeResult, error)

	// Upgrades lists current levels and next prices
	Upgrades(ctx context.Context, userID int64) ([]models.UpgradeOption, error)

	// BitcoinPrice returns the live quote
	BitcoinPrice(ctx context.Context) (decimal.Decimal, error)

	// BuyBitcoin spends dinks on bitcoin at the live quote
	BuyBitcoin(ctx context.Context, userID int64, dinks decimal.Decimal) (*models.BitcoinTrade, error)

	// SellBitcoin sells coins at the live quote
	SellBitcoin(ctx context.Context, userID int64, coins decimal.Decimal) (*models.BitcoinTrade, error)
}

// InterestService defines the interface for daily interest accrual
type InterestService interface {
	// Accrue applies interest and the prison tick for the UTC day of now, once per day
	Accrue(ctx context.Context, now time.Time) (*models.AccrualResult, error)

	// LastRun returns the most recent run, or nil before the first one
	LastRun(ctx context.Context) (*models.InterestRun, error)
}

// RobRequest is a resolved rob command
type RobRequest struct {
	AttackerID int64
	TargetID   int64
	// TargetIsBot is set for bot accounts, including this bot itself
	TargetIsBot bool
}

// RobService defines the interface for rob attempts
type RobService interface {
	Rob(ctx context.Context, req RobRequest) (*models.RobResult, error)
}

// PrisonService defines the interface for the prison state machine
type PrisonService interface {
	// Imprison jails a free user on an administrator's order. Rob sentences
	// and the daily tick run inside their own transactions.
	Imprison(ctx context.Context, userID int64, debt decimal.Decimal, days int) (*models.PrisonRecord, error)

	// Status returns nil when the user is free
	Status(ctx context.Context, userID int64) (*models.PrisonRecord, error)

	// Bail pays the remaining debt from dinks and releases the user
	Bail(ctx context.Context, userID int64) (*models.PrisonRecord, error)

	// List returns current prisoners
	List(ctx context.Context, limit int) ([]*models.PrisonRecord, error)
}

// GamblingService defines the interface for wagers and games
type GamblingService interface {
	// Wager debits amount and credits amount * multiplier back when won
	Wager(ctx context.Context, userID int64, game string, amount, multiplier decimal.Decimal, won bool) (*models.WagerResult, error)

	Coinflip(ctx context.Context, userID int64, amount decimal.Decimal, guess models.CoinSide) (*models.CoinflipResult, error)
	Dice(ctx context.Context, userID int64, amount decimal.Decimal, guess int) (*models.DiceResult, error)
	Slots(ctx context.Context, userID int64, amount decimal.Decimal) (*models.SlotsResult, error)

	// Stats returns the bot-wide lost and won counters
	Stats(ctx context.Context) (*models.GambleStats, error)
}

// NightlyService defines the interface for the daily reward
type NightlyService interface {
	Claim(ctx context.Context, userID int64) (*models.NightlyResult, error)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes pending events
	Commit() error

	// Rollback rolls back the transaction and discards pending events
	Rollback() error

	// Repository getters
	AccountRepository() AccountRepository
	PrisonRepository() PrisonRepository
	InterestRunRepository() InterestRunRepository
	EconomyStatsRepository() EconomyStatsRepository
	BalanceHistoryRepository() BalanceHistoryRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

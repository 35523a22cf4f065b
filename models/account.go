package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is one user's ledger row together with their bank position
type Account struct {
	UserID int64 `db:"user_id"`

	Dinks        decimal.Decimal `db:"dinks"`
	Invested     decimal.Decimal `db:"invested"`
	InvestedDays int             `db:"invested_days"`
	Profit       decimal.Decimal `db:"profit"`

	InterestLevel int `db:"interest_level"`
	CapacityLevel int `db:"capacity_level"`
	RobLevel      int `db:"rob_level"`

	Bitcoins decimal.Decimal `db:"bitcoins"`

	RobSuccesses int             `db:"rob_successes"`
	RobFailures  int             `db:"rob_failures"`
	RobStolen    decimal.Decimal `db:"rob_stolen"`

	NightlyStreak    int        `db:"nightly_streak"`
	NightlyClaimedAt *time.Time `db:"nightly_claimed_at"`

	// Version is bumped on every write and guards read-modify-write updates
	Version int64 `db:"version"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// BankTotal is the principal plus accumulated profit
func (a *Account) BankTotal() decimal.Decimal {
	return a.Invested.Add(a.Profit)
}

// NetWorth is everything the account holds in dinks, excluding bitcoins
func (a *Account) NetWorth() decimal.Decimal {
	return a.Dinks.Add(a.Invested).Add(a.Profit)
}

// CappedValue is the quantity bounded by the economy cap, given a bitcoin quote
func (a *Account) CappedValue(bitcoinPrice decimal.Decimal) decimal.Decimal {
	return a.NetWorth().Add(a.Bitcoins.Mul(bitcoinPrice))
}

// UpgradeTrack names one of the three upgradeable bank levels
type UpgradeTrack string

const (
	UpgradeTrackInterest UpgradeTrack = "interest"
	UpgradeTrackCapacity UpgradeTrack = "capacity"
	UpgradeTrackRob      UpgradeTrack = "rob"
)

// UpgradeTracks lists every track in display order
var UpgradeTracks = []UpgradeTrack{UpgradeTrackInterest, UpgradeTrackCapacity, UpgradeTrackRob}

// Level returns the account's current level on the given track
func (a *Account) Level(track UpgradeTrack) int {
	switch track {
	case UpgradeTrackInterest:
		return a.InterestLevel
	case UpgradeTrackCapacity:
		return a.CapacityLevel
	case UpgradeTrackRob:
		return a.RobLevel
	}
	return 0
}

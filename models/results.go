package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClaimResult describes what a bank claim paid out
type ClaimResult struct {
	ProfitClaimed     decimal.Decimal
	PrincipalReturned decimal.Decimal
	Account           *Account
}

// Total is the amount credited to dinks by the claim
func (r *ClaimResult) Total() decimal.Decimal {
	return r.ProfitClaimed.Add(r.PrincipalReturned)
}

// UpgradeOption is one track's current level and the price of the next one
type UpgradeOption struct {
	Track     UpgradeTrack
	Level     int
	NextPrice decimal.Decimal
}

// UpgradeResult describes a purchased bank level
type UpgradeResult struct {
	Track    UpgradeTrack
	NewLevel int
	Price    decimal.Decimal
	Account  *Account
}

// RobOutcome is the branch a rob attempt ended in
type RobOutcome string

const (
	RobOutcomeSuccess    RobOutcome = "success"
	RobOutcomeLeftBehind RobOutcome = "left_behind"
	RobOutcomeCaught     RobOutcome = "caught"
	RobOutcomeEscaped    RobOutcome = "escaped"
)

// RobResult is the full record of one rob attempt
type RobResult struct {
	AttackerID int64
	TargetID   int64
	Outcome    RobOutcome
	Roll       int
	Threshold  int
	Fate       int // zero on success

	// Stolen is what the attacker took on success
	Stolen decimal.Decimal
	// Paid is the punishment the attacker handed to the target
	Paid decimal.Decimal
	// Prison is set when the attempt ended in a sentence
	Prison *PrisonRecord
}

// WagerResult is the outcome of the shared wager primitive
type WagerResult struct {
	Amount     decimal.Decimal
	Won        bool
	Multiplier decimal.Decimal
	Payout     decimal.Decimal
	NewBalance decimal.Decimal
}

// Net is the change to the player's dinks
func (r *WagerResult) Net() decimal.Decimal {
	return r.Payout.Sub(r.Amount)
}

// CoinSide is heads or tails
type CoinSide string

const (
	CoinHeads CoinSide = "heads"
	CoinTails CoinSide = "tails"
)

// CoinflipResult is a settled coinflip
type CoinflipResult struct {
	Guess  CoinSide
	Landed CoinSide
	WagerResult
}

// DiceResult is a settled dice roll
type DiceResult struct {
	Guess  int
	Rolled int
	WagerResult
}

// SlotsResult is a settled slots spin
type SlotsResult struct {
	Reels []string
	WagerResult
}

// GambleStats are the bot-wide gambling counters
type GambleStats struct {
	TotalLost decimal.Decimal
	TotalWon  decimal.Decimal
}

// NightlyResult is a claimed nightly reward
type NightlyResult struct {
	Reward     decimal.Decimal
	Streak     int
	NewBalance decimal.Decimal
}

// BitcoinTrade is a settled bitcoin buy or sell
type BitcoinTrade struct {
	Coins   decimal.Decimal
	Dinks   decimal.Decimal
	Price   decimal.Decimal
	Account *Account
}

// AccrualResult summarizes one run of the interest engine
type AccrualResult struct {
	RunDate           time.Time
	AlreadyRan        bool
	AccountsAccrued   int
	AccountsCapped    int
	AccountsSkipped   int
	TotalInterest     decimal.Decimal
	PrisonersReleased int
}

// LeaderboardEntry is one ranked account
type LeaderboardEntry struct {
	Rank     int
	UserID   int64
	NetWorth decimal.Decimal
}

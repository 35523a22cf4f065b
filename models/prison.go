package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PrisonRecord exists only while a user is jailed
type PrisonRecord struct {
	UserID        int64           `db:"user_id"`
	Debt          decimal.Decimal `db:"debt"`
	DaysRemaining int             `db:"days_remaining"`
	DailyPayment  decimal.Decimal `db:"daily_payment"`
	CreatedAt     time.Time       `db:"created_at"`
}

// PrisonTickResult summarizes one daily decrement of every sentence
type PrisonTickResult struct {
	Decremented int
	Released    []int64
}

package service

import (
	"time"
)

// AccrualDate is the UTC calendar day a timestamp belongs to
func AccrualDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextResetTime is the next UTC midnight after now. Interest accrual and
// the nightly reward both roll over then.
func NextResetTime(now time.Time) time.Time {
	return AccrualDate(now).AddDate(0, 0, 1)
}

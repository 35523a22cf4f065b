package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InterestRun records one calendar day of interest accrual. Its unique
// run date is what keeps a day from being applied twice.
type InterestRun struct {
	ID                       int64           `db:"id"`
	RunDate                  time.Time       `db:"run_date"`
	TotalInterestDistributed decimal.Decimal `db:"total_interest_distributed"`
	UsersAffected            int             `db:"users_affected"`
	ExecutionSummary         map[string]any  `db:"execution_summary"`
	CreatedAt                time.Time       `db:"created_at"`
}

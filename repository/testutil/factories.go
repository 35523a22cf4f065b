package testutil

import (
	"time"

	"dinks/models"

	"github.com/shopspring/decimal"
)

// CreateTestAccount creates an in-memory account with default levels
func CreateTestAccount(userID int64) *models.Account {
	now := time.Now()
	return &models.Account{
		UserID:        userID,
		Dinks:         decimal.NewFromInt(1000),
		Invested:      decimal.Zero,
		Profit:        decimal.Zero,
		Bitcoins:      decimal.Zero,
		RobStolen:     decimal.Zero,
		InterestLevel: 1,
		CapacityLevel: 1,
		RobLevel:      1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// CreateTestAccountWithDinks creates an in-memory account holding dinks
func CreateTestAccountWithDinks(userID int64, dinks string) *models.Account {
	account := CreateTestAccount(userID)
	account.Dinks = decimal.RequireFromString(dinks)
	return account
}

// CreateTestBalanceHistory creates a test balance history entry
func CreateTestBalanceHistory(userID int64, transactionType models.TransactionType) *models.BalanceHistory {
	return &models.BalanceHistory{
		UserID:          userID,
		BalanceBefore:   decimal.NewFromInt(1000),
		BalanceAfter:    decimal.NewFromInt(900),
		ChangeAmount:    decimal.NewFromInt(-100),
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
		CreatedAt: time.Now(),
	}
}

// CreateTestInterestRun creates a test interest run
func CreateTestInterestRun(runDate time.Time) *models.InterestRun {
	return &models.InterestRun{
		RunDate:                  runDate,
		TotalInterestDistributed: decimal.RequireFromString("50.25"),
		UsersAffected:            10,
		ExecutionSummary: map[string]any{
			"accounts_capped":    float64(1),
			"prisoners_released": float64(0),
		},
		CreatedAt: time.Now(),
	}
}

// CreateTestInterestRunWithDetails creates a test interest run with specific details
func CreateTestInterestRunWithDetails(runDate time.Time, total string, users int) *models.InterestRun {
	run := CreateTestInterestRun(runDate)
	run.TotalInterestDistributed = decimal.RequireFromString(total)
	run.UsersAffected = users
	return run
}

// CreateTestPrisonRecord creates a prison record serving a short sentence
func CreateTestPrisonRecord(userID int64) *models.PrisonRecord {
	return &models.PrisonRecord{
		UserID:        userID,
		Debt:          decimal.NewFromInt(100),
		DaysRemaining: 2,
		DailyPayment:  decimal.NewFromInt(50),
	}
}

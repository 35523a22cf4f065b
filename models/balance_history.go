package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the type of balance change
type TransactionType string

const (
	TransactionTypeInitial        TransactionType = "initial"
	TransactionTypeAdjustment     TransactionType = "adjustment"
	TransactionTypeTransferIn     TransactionType = "transfer_in"
	TransactionTypeTransferOut    TransactionType = "transfer_out"
	TransactionTypeInvest         TransactionType = "invest"
	TransactionTypeClaim          TransactionType = "claim"
	TransactionTypeUpgrade        TransactionType = "upgrade"
	TransactionTypeRobGain        TransactionType = "rob_gain"
	TransactionTypeRobLoss        TransactionType = "rob_loss"
	TransactionTypeRobPenaltyPaid TransactionType = "rob_penalty_paid"
	TransactionTypeRobPenaltyGain TransactionType = "rob_penalty_received"
	TransactionTypeBail           TransactionType = "bail"
	TransactionTypeGambleWin      TransactionType = "gamble_win"
	TransactionTypeGambleLoss     TransactionType = "gamble_loss"
	TransactionTypeNightly        TransactionType = "nightly"
	TransactionTypeBitcoinBuy     TransactionType = "bitcoin_buy"
	TransactionTypeBitcoinSell    TransactionType = "bitcoin_sell"
)

// BalanceHistory is one audit row per change of an account's dinks
type BalanceHistory struct {
	ID                  int64           `db:"id"`
	UserID              int64           `db:"user_id"`
	BalanceBefore       decimal.Decimal `db:"balance_before"`
	BalanceAfter        decimal.Decimal `db:"balance_after"`
	ChangeAmount        decimal.Decimal `db:"change_amount"`
	TransactionType     TransactionType `db:"transaction_type"`
	TransactionMetadata map[string]any  `db:"transaction_metadata"`
	CreatedAt           time.Time       `db:"created_at"`
}

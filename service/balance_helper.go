package service

import (
	"context"
	"fmt"
	"sort"

	"dinks/events"
	"dinks/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// RecordBalanceChange records a balance history entry and queues the matching
// event on the unit of work. Every change to dinks goes through here.
func RecordBalanceChange(ctx context.Context, uow UnitOfWork, history *models.BalanceHistory) error {
	if err := uow.BalanceHistoryRepository().Record(ctx, history); err != nil {
		return fmt.Errorf("failed to record balance history: %w", err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          history.UserID,
		OldBalance:      history.BalanceBefore,
		NewBalance:      history.BalanceAfter,
		ChangeAmount:    history.ChangeAmount,
		TransactionType: history.TransactionType,
	})
	return nil
}

// recordDinksChange is RecordBalanceChange for a before/after pair, skipping no-ops
func recordDinksChange(ctx context.Context, uow UnitOfWork, userID int64, before, after decimal.Decimal, txType models.TransactionType, metadata map[string]any) error {
	if before.Equal(after) {
		return nil
	}
	return RecordBalanceChange(ctx, uow, &models.BalanceHistory{
		UserID:              userID,
		BalanceBefore:       before,
		BalanceAfter:        after,
		ChangeAmount:        after.Sub(before),
		TransactionType:     txType,
		TransactionMetadata: metadata,
	})
}

// getOrCreateAccount loads an account, creating it on first reference
func getOrCreateAccount(ctx context.Context, uow UnitOfWork, userID int64) (*models.Account, error) {
	account, created, err := uow.AccountRepository().GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", userID, err)
	}
	if created {
		uow.EventBus().Publish(events.AccountCreatedEvent{UserID: userID})
	}
	return account, nil
}

// updateAccounts writes accounts in ascending user id order so that two
// transactions touching the same pair never lock them in opposite order.
func updateAccounts(ctx context.Context, uow UnitOfWork, accounts ...*models.Account) error {
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].UserID < accounts[j].UserID })
	for _, a := range accounts {
		if err := uow.AccountRepository().Update(ctx, a); err != nil {
			return fmt.Errorf("failed to update account %d: %w", a.UserID, err)
		}
	}
	return nil
}

// capQuote values bitcoin holdings for cap checks. Without a known price the
// holdings cannot be valued, so credits to holders are refused.
type capQuote struct {
	price decimal.Decimal
	known bool
}

// guard fails with ErrPriceUnavailable when any account holds bitcoin that
// the quote cannot value
func (q capQuote) guard(accounts ...*models.Account) error {
	if q.known {
		return nil
	}
	for _, a := range accounts {
		if a.Bitcoins.IsPositive() {
			return ErrPriceUnavailable
		}
	}
	return nil
}

// bitcoinQuote prefers the live price and falls back to the last known one
// at any age. With no price source configured nobody can buy bitcoin, so a
// zero price is exact.
func bitcoinQuote(ctx context.Context, prices PriceSource) capQuote {
	if prices == nil {
		return capQuote{price: decimal.Zero, known: true}
	}
	price, err := prices.BitcoinPrice(ctx)
	if err == nil && price.IsPositive() {
		return capQuote{price: price, known: true}
	}

	if cached, ok := prices.(LastPriceSource); ok {
		if last, ok := cached.LastPrice(); ok && last.IsPositive() {
			log.WithError(err).Warn("Bitcoin price unavailable, checking cap with last known quote")
			return capQuote{price: last, known: true}
		}
	}
	log.WithError(err).Warn("Bitcoin price never quoted, refusing credits to bitcoin holders")
	return capQuote{price: decimal.Zero}
}

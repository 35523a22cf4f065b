package service

import (
	"context"
	"fmt"

	"dinks/config"
	"dinks/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type ledgerService struct {
	uowFactory UnitOfWorkFactory
	economy    config.Economy
	prices     PriceSource
}

// NewLedgerService creates a new ledger service
func NewLedgerService(uowFactory UnitOfWorkFactory, economy config.Economy, prices PriceSource) LedgerService {
	return &ledgerService{
		uowFactory: uowFactory,
		economy:    economy,
		prices:     prices,
	}
}

func (s *ledgerService) GetBalance(ctx context.Context, userID int64) (*models.Account, error) {
	var account *models.Account
	err := inTransaction(ctx, s.uowFactory, s.economy.TransactionRetries, func(uow UnitOfWork) error {
		var err error
		account, err = getOrCreateAccount(ctx, uow, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *ledgerService) Add(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	amount, err := validAmount(s.economy, amount)
	if err != nil {
		return decimal.Zero, err
	}
	quote := bitcoinQuote(ctx, s.prices)

	var balance decimal.Decimal
	err = inTransaction(ctx, s.uowFactory, s.economy.TransactionRetries, func(uow UnitOfWork) error {
		account, err := getOrCreateAccount(ctx, uow, userID)
		if err != nil {
			return err
		}
		if err := quote.guard(account); err != nil {
			return err
		}

		before, after, err := uow.AccountRepository().AddDinks(ctx, userID, amount, s.economy.Cap, quote.price)
		if err != nil {
			return fmt.Errorf("failed to add dinks: %w", err)
		}
		balance = after

		return recordDinksChange(ctx, uow, userID, before, after, models.TransactionTypeAdjustment, map[string]any{
			"requested": amount.String(),
		})
	})
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

func (s *ledgerService) Subtract(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	amount, err := validAmount(s.economy, amount)
	if err != nil {
		return decimal.Zero, err
	}

	var balance decimal.Decimal
	err = inTransaction(ctx, s.uowFactory, s.economy.TransactionRetries, func(uow UnitOfWork) error {
		if _, err := getOrCreateAccount(ctx, uow, userID); err != nil {
			return err
		}

		before, after, err := uow.AccountRepository().SubtractDinks(ctx, userID, amount)
		if err != nil {
			return err
		}
		balance = after

		return recordDinksChange(ctx, uow, userID, before, after, models.TransactionTypeAdjustment, nil)
	})
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

func (s *ledgerService) Transfer(ctx context.Context, fromUserID, toUserID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	if fromUserID == toUserID {
		return decimal.Zero, ErrSelfTarget
	}
	amount, err := validAmount(s.economy, amount)
	if err != nil {
		return decimal.Zero, err
	}
	quote := bitcoinQuote(ctx, s.prices)

	var sent decimal.Decimal
	err = inTransaction(ctx, s.uowFactory, s.economy.TransactionRetries, func(uow UnitOfWork) error {
		from, err := getOrCreateAccount(ctx, uow, fromUserID)
		if err != nil {
			return err
		}
		to, err := getOrCreateAccount(ctx, uow, toUserID)
		if err != nil {
			return err
		}

		if from.Dinks.LessThan(amount) {
			return ErrInsufficientFunds
		}
		if err := quote.guard(to); err != nil {
			return err
		}
		// Only what the recipient can hold leaves the sender
		sent = clampCredit(s.economy, to, quote.price, amount)
		if !sent.IsPositive() {
			return ErrCapReached
		}

		fromBefore, toBefore := from.Dinks, to.Dinks
		from.Dinks = from.Dinks.Sub(sent)
		to.Dinks = to.Dinks.Add(sent)

		if err := updateAccounts(ctx, uow, from, to); err != nil {
			return err
		}
		if err := recordDinksChange(ctx, uow, fromUserID, fromBefore, from.Dinks, models.TransactionTypeTransferOut, map[string]any{
			"recipient_id": toUserID,
		}); err != nil {
			return err
		}
		return recordDinksChange(ctx, uow, toUserID, toBefore, to.Dinks, models.TransactionTypeTransferIn, map[string]any{
			"sender_id": fromUserID,
		})
	})
	if err != nil {
		return decimal.Zero, err
	}

	log.WithFields(log.Fields{
		"from":   fromUserID,
		"to":     toUserID,
		"amount": sent.String(),
	}).Info("Transferred dinks")
	return sent, nil
}

func (s *ledgerService) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	var entries []*models.LeaderboardEntry
	err := readOnly(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		entries, err = uow.AccountRepository().Leaderboard(ctx, limit)
		if err != nil {
			return fmt.Errorf("failed to get leaderboard: %w", err)
		}
		return nil
	})
	return entries, err
}

func (s *ledgerService) History(ctx context.Context, userID int64, limit int) ([]*models.BalanceHistory, error) {
	var history []*models.BalanceHistory
	err := readOnly(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		history, err = uow.BalanceHistoryRepository().GetByUser(ctx, userID, limit)
		if err != nil {
			return fmt.Errorf("failed to get balance history: %w", err)
		}
		return nil
	})
	return history, err
}

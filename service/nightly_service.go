package service

import (
	"context"
	"time"

	"dinks/config"
	"dinks/models"

	"github.com/shopspring/decimal"
)

type nightlyService struct {
	uowFactory UnitOfWorkFactory
	economy    config.Economy
	prices     PriceSource
	now        func() time.Time
}

// NewNightlyService creates a new nightly reward service. now defaults to time.Now.
func NewNightlyService(uowFactory UnitOfWorkFactory, economy config.Economy, prices PriceSource, now func() time.Time) NightlyService {
	if now == nil {
		now = time.Now
	}
	return &nightlyService{
		uowFactory: uowFactory,
		economy:    economy,
		prices:     prices,
		now:        now,
	}
}

func (s *nightlyService) Claim(ctx context.Context, userID int64) (*models.NightlyResult, error) {
	today := AccrualDate(s.now())
	quote := bitcoinQuote(ctx, s.prices)

	var result *models.NightlyResult
	err := inTransaction(ctx, s.uowFactory, s.economy.TransactionRetries, func(uow UnitOfWork) error {
		account, err := getOrCreateAccount(ctx, uow, userID)
		if err != nil {
			return err
		}

		streak := 1
		if last := account.NightlyClaimedAt; last != nil {
			lastDay := AccrualDate(*last)
			if lastDay.Equal(today) {
				return ErrAlreadyClaimed
			}
			if lastDay.Equal(today.AddDate(0, 0, -1)) {
				streak = account.NightlyStreak + 1
			}
		}

		reward := s.economy.NightlyBase.Add(s.economy.NightlyStreakBonus.Mul(decimal.NewFromInt(int64(streak))))
		if err := quote.guard(account); err != nil {
			return err
		}
		reward = clampCredit(s.economy, account, quote.price, money(s.economy, reward))

		before := account.Dinks
		account.Dinks = account.Dinks.Add(reward)
		account.NightlyStreak = streak
		account.NightlyClaimedAt = &today

		if err := updateAccounts(ctx, uow, account); err != nil {
			return err
		}
		if err := recordDinksChange(ctx, uow, userID, before, account.Dinks, models.TransactionTypeNightly, map[string]any{
			"streak": streak,
		}); err != nil {
			return err
		}

		result = &models.NightlyResult{Reward: reward, Streak: streak, NewBalance: account.Dinks}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

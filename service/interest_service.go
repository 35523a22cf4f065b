package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dinks/config"
	"dinks/events"
	"dinks/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type interestService struct {
	uowFactory UnitOfWorkFactory
	economy    config.Economy
	prices     PriceSource
}

// NewInterestService creates a new interest accrual service
func NewInterestService(uowFactory UnitOfWorkFactory, economy config.Economy, prices PriceSource) InterestService {
	return &interestService{
		uowFactory: uowFactory,
		economy:    economy,
		prices:     prices,
	}
}

func (s *interestService) Accrue(ctx context.Context, now time.Time) (*models.AccrualResult, error) {
	runDate := AccrualDate(now)
	quote := bitcoinQuote(ctx, s.prices)

	var result *models.AccrualResult
	err := inTransaction(ctx, s.uowFactory, s.economy.TransactionRetries, func(uow UnitOfWork) error {
		result = &models.AccrualResult{RunDate: runDate, TotalInterest: decimal.Zero}

		existing, err := uow.InterestRunRepository().GetByDate(ctx, runDate)
		if err != nil {
			return fmt.Errorf("failed to check interest run: %w", err)
		}
		if existing != nil {
			result.AlreadyRan = true
			return nil
		}

		// Claim the day first so a concurrent runner blocks on the unique date
		run := &models.InterestRun{RunDate: runDate, TotalInterestDistributed: decimal.Zero}
		if err := uow.InterestRunRepository().Create(ctx, run); err != nil {
			if errors.Is(err, ErrInterestAlreadyApplied) {
				result.AlreadyRan = true
				return nil
			}
			return fmt.Errorf("failed to create interest run: %w", err)
		}

		accounts, err := uow.AccountRepository().ListAccruing(ctx)
		if err != nil {
			return fmt.Errorf("failed to list accruing accounts: %w", err)
		}

		for _, account := range accounts {
			if err := quote.guard(account); err != nil {
				result.AccountsSkipped++
				continue
			}
			gained, capped := s.accrueAccount(account, quote.price)
			if err := updateAccounts(ctx, uow, account); err != nil {
				return err
			}
			result.AccountsAccrued++
			result.TotalInterest = result.TotalInterest.Add(gained)
			if capped {
				result.AccountsCapped++
			}
		}

		tick, err := tickPrison(ctx, uow)
		if err != nil {
			return err
		}
		result.PrisonersReleased = len(tick.Released)

		run.TotalInterestDistributed = result.TotalInterest
		run.UsersAffected = result.AccountsAccrued
		run.ExecutionSummary = map[string]any{
			"accounts_capped":    result.AccountsCapped,
			"sentences_served":   tick.Decremented,
			"prisoners_released": result.PrisonersReleased,
			"accounts_skipped":   result.AccountsSkipped,
			"bitcoin_price":      quote.price.String(),
		}
		if err := uow.InterestRunRepository().Finalize(ctx, run); err != nil {
			return fmt.Errorf("failed to finalize interest run: %w", err)
		}

		uow.EventBus().Publish(events.InterestAccruedEvent{
			RunDate:           runDate,
			AccountsAccrued:   result.AccountsAccrued,
			TotalInterest:     result.TotalInterest,
			PrisonersReleased: result.PrisonersReleased,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.AlreadyRan {
		log.WithFields(log.Fields{
			"runDate":           runDate.Format(time.DateOnly),
			"accountsAccrued":   result.AccountsAccrued,
			"accountsCapped":    result.AccountsCapped,
			"totalInterest":     result.TotalInterest.String(),
			"prisonersReleased": result.PrisonersReleased,
		}).Info("Interest accrued")
	}
	return result, nil
}

// accrueAccount applies one day of interest in memory. The day counter
// advances even when the cap leaves no room for more profit.
func (s *interestService) accrueAccount(account *models.Account, price decimal.Decimal) (gained decimal.Decimal, capped bool) {
	account.InvestedDays++

	delta := AccruedProfit(s.economy, account).Sub(account.Profit)
	limited := clampCredit(s.economy, account, price, delta)
	if limited.LessThan(delta) {
		capped = true
	}
	if !limited.IsPositive() {
		return decimal.Zero, capped
	}

	account.Profit = account.Profit.Add(limited)
	return limited, capped
}

func (s *interestService) LastRun(ctx context.Context) (*models.InterestRun, error) {
	var run *models.InterestRun
	err := readOnly(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		run, err = uow.InterestRunRepository().GetLatest(ctx)
		if err != nil {
			return fmt.Errorf("failed to get latest interest run: %w", err)
		}
		return nil
	})
	return run, err
}

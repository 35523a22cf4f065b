package service

import (
	"context"
	"fmt"

	"dinks/config"
	"dinks/events"
	"dinks/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type prisonService struct {
	uowFactory UnitOfWorkFactory
	economy    config.Economy
}

// NewPrisonService creates a new prison service
func NewPrisonService(uowFactory UnitOfWorkFactory, economy config.Economy) PrisonService {
	return &prisonService{
		uowFactory: uowFactory,
		economy:    economy,
	}
}

// newPrisonRecord spreads debt evenly over the sentence
func newPrisonRecord(e config.Economy, userID int64, debt decimal.Decimal, days int) *models.PrisonRecord {
	return &models.PrisonRecord{
		UserID:        userID,
		Debt:          money(e, debt),
		DaysRemaining: days,
		DailyPayment:  money(e, debt.Div(decimal.NewFromInt(int64(days)))),
	}
}

// imprison creates the record inside an open unit of work
func imprison(ctx context.Context, uow UnitOfWork, record *models.PrisonRecord, reason events.PrisonReason) error {
	if err := uow.PrisonRepository().Create(ctx, record); err != nil {
		return err
	}
	uow.EventBus().Publish(events.PrisonStateChangeEvent{
		UserID: record.UserID,
		Jailed: true,
		Reason: reason,
		Debt:   record.Debt,
		Days:   record.DaysRemaining,
	})
	return nil
}

// tickPrison serves one day of every sentence and releases whoever is done.
// Remaining debt of released prisoners is forgiven.
func tickPrison(ctx context.Context, uow UnitOfWork) (*models.PrisonTickResult, error) {
	decremented, err := uow.PrisonRepository().DecrementAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to decrement sentences: %w", err)
	}
	released, err := uow.PrisonRepository().ReleaseServed(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to release prisoners: %w", err)
	}

	for _, userID := range released {
		uow.EventBus().Publish(events.PrisonStateChangeEvent{
			UserID: userID,
			Jailed: false,
			Reason: events.PrisonReasonServed,
		})
	}
	return &models.PrisonTickResult{Decremented: decremented, Released: released}, nil
}

func (s *prisonService) Imprison(ctx context.Context, userID int64, debt decimal.Decimal, days int) (*models.PrisonRecord, error) {
	if err := CheckAmountMagnitude(debt); err != nil {
		return nil, err
	}
	if debt.IsNegative() || days <= 0 {
		return nil, ErrInvalidAmount
	}

	record := newPrisonRecord(s.economy, userID, debt, days)
	err := inTransaction(ctx, s.uowFactory, s.economy.TransactionRetries, func(uow UnitOfWork) error {
		if _, err := getOrCreateAccount(ctx, uow, userID); err != nil {
			return err
		}
		return imprison(ctx, uow, record, events.PrisonReasonCaught)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *prisonService) Status(ctx context.Context, userID int64) (*models.PrisonRecord, error) {
	var record *models.PrisonRecord
	err := readOnly(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		record, err = uow.PrisonRepository().Get(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to get prison record: %w", err)
		}
		return nil
	})
	return record, err
}

func (s *prisonService) Bail(ctx context.Context, userID int64) (*models.PrisonRecord, error) {
	var record *models.PrisonRecord
	err := inTransaction(ctx, s.uowFactory, s.economy.TransactionRetries, func(uow UnitOfWork) error {
		var err error
		record, err = uow.PrisonRepository().Get(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to get prison record: %w", err)
		}
		if record == nil {
			return ErrNotImprisoned
		}

		account, err := getOrCreateAccount(ctx, uow, userID)
		if err != nil {
			return err
		}
		if account.Dinks.LessThan(record.Debt) {
			return ErrInsufficientFunds
		}

		before := account.Dinks
		account.Dinks = account.Dinks.Sub(record.Debt)
		if err := updateAccounts(ctx, uow, account); err != nil {
			return err
		}

		removed, err := uow.PrisonRepository().Delete(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to release prisoner: %w", err)
		}
		if !removed {
			// Released by the daily tick between our read and delete
			return ErrVersionConflict
		}

		if err := recordDinksChange(ctx, uow, userID, before, account.Dinks, models.TransactionTypeBail, map[string]any{
			"days_remaining": record.DaysRemaining,
		}); err != nil {
			return err
		}
		uow.EventBus().Publish(events.PrisonStateChangeEvent{
			UserID: userID,
			Jailed: false,
			Reason: events.PrisonReasonBail,
			Debt:   record.Debt,
			Days:   record.DaysRemaining,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"userID": userID,
		"debt":   record.Debt.String(),
	}).Info("Prisoner bailed out")
	return record, nil
}

func (s *prisonService) List(ctx context.Context, limit int) ([]*models.PrisonRecord, error) {
	var records []*models.PrisonRecord
	err := readOnly(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		records, err = uow.PrisonRepository().List(ctx, limit)
		if err != nil {
			return fmt.Errorf("failed to list prisoners: %w", err)
		}
		return nil
	})
	return records, err
}

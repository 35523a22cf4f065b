package repository

import (
	"context"
	"errors"
	"fmt"

	"dinks/database"
	"dinks/events"
	"dinks/service"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	defaultLevel     int
	transactionalBus *events.TransactionalBus

	accountRepo        service.AccountRepository
	prisonRepo         service.PrisonRepository
	interestRunRepo    service.InterestRunRepository
	economyStatsRepo   service.EconomyStatsRepository
	balanceHistoryRepo service.BalanceHistoryRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory. New accounts start
// every upgrade track at defaultLevel.
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus, defaultLevel int) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:           db,
		eventBus:     eventBus,
		defaultLevel: defaultLevel,
	}
}

type unitOfWorkFactory struct {
	db           *database.DB
	eventBus     *events.Bus
	defaultLevel int
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		defaultLevel:     f.defaultLevel,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.accountRepo = newAccountRepositoryWithTx(tx, u.defaultLevel)
	u.prisonRepo = newPrisonRepositoryWithTx(tx)
	u.interestRunRepo = newInterestRunRepositoryWithTx(tx)
	u.economyStatsRepo = newEconomyStatsRepositoryWithTx(tx)
	u.balanceHistoryRepo = newBalanceHistoryRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	u.tx = nil
	if err != nil {
		u.transactionalBus.Discard()
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	// Flush pending events after successful commit
	u.transactionalBus.Flush(u.ctx)

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	u.tx = nil

	// Discard pending events on rollback
	u.transactionalBus.Discard()

	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// AccountRepository returns the account repository for this unit of work
func (u *unitOfWork) AccountRepository() service.AccountRepository {
	if u.accountRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.accountRepo
}

// PrisonRepository returns the prison repository for this unit of work
func (u *unitOfWork) PrisonRepository() service.PrisonRepository {
	if u.prisonRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.prisonRepo
}

// InterestRunRepository returns the interest run repository for this unit of work
func (u *unitOfWork) InterestRunRepository() service.InterestRunRepository {
	if u.interestRunRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.interestRunRepo
}

// EconomyStatsRepository returns the economy stats repository for this unit of work
func (u *unitOfWork) EconomyStatsRepository() service.EconomyStatsRepository {
	if u.economyStatsRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.economyStatsRepo
}

// BalanceHistoryRepository returns the balance history repository for this unit of work
func (u *unitOfWork) BalanceHistoryRepository() service.BalanceHistoryRepository {
	if u.balanceHistoryRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.balanceHistoryRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
)

var conflictObserver atomic.Pointer[func()]

// ObserveConflictRetries registers fn to run every time a unit of work is
// retried after a version conflict. Passing nil removes the observer.
func ObserveConflictRetries(fn func()) {
	if fn == nil {
		conflictObserver.Store(nil)
		return
	}
	conflictObserver.Store(&fn)
}

// newConflictBackOff is short: conflicts clear as soon as the competing
// transaction commits.
func newConflictBackOff(ctx context.Context, retries int) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 5 * time.Millisecond
	b.MaxInterval = 100 * time.Millisecond
	b.MaxElapsedTime = 2 * time.Second
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}

// inTransaction runs fn in a fresh unit of work and commits it. A version
// conflict anywhere in fn rolls back and reruns fn from scratch, up to
// retries extra times, before surfacing ErrConcurrencyConflict. Every
// other error rolls back and is returned as is.
func inTransaction(ctx context.Context, factory UnitOfWorkFactory, retries int, fn func(uow UnitOfWork) error) error {
	attempt := 0
	operation := func() error {
		attempt++
		uow := factory.Create()
		if err := uow.Begin(ctx); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to begin transaction: %w", err))
		}
		defer uow.Rollback()

		if err := fn(uow); err != nil {
			if errors.Is(err, ErrVersionConflict) {
				return err
			}
			return backoff.Permanent(err)
		}

		if err := uow.Commit(); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to commit transaction: %w", err))
		}
		return nil
	}

	notify := func(err error, wait time.Duration) {
		log.WithFields(log.Fields{
			"attempt": attempt,
			"wait":    wait,
		}).Debug("Retrying unit of work after version conflict")
		if observer := conflictObserver.Load(); observer != nil {
			(*observer)()
		}
	}

	err := backoff.RetryNotify(operation, newConflictBackOff(ctx, retries), notify)
	if errors.Is(err, ErrVersionConflict) {
		log.WithField("attempts", attempt).Warn("Giving up after repeated version conflicts")
		return ErrConcurrencyConflict
	}
	return err
}

// readOnly runs fn in a unit of work that is always rolled back
func readOnly(ctx context.Context, factory UnitOfWorkFactory, fn func(uow UnitOfWork) error) error {
	uow := factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()
	return fn(uow)
}

package application

import (
	"context"
	"sync"
	"time"

	"dinks/service"

	log "github.com/sirupsen/logrus"
)

// InterestAccrualWorker wakes up on a fixed interval and runs the daily
// accrual once the UTC calendar day has moved past the last persisted run
type InterestAccrualWorker struct {
	interest service.InterestService
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	lastRun time.Time // UTC date of the last run this worker knows about
}

// NewInterestAccrualWorker creates a worker that checks every interval
func NewInterestAccrualWorker(interest service.InterestService, interval time.Duration) *InterestAccrualWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &InterestAccrualWorker{
		interest: interest,
		interval: interval,
		now:      time.Now,
	}
}

// Start runs a first check immediately, then one per interval. The returned
// function stops the worker.
func (w *InterestAccrualWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})
	var once sync.Once

	go func() {
		log.WithField("interval", w.interval).Info("Interest accrual worker started")

		w.Tick(ctx)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Interest accrual worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Interest accrual worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				w.Tick(ctx)
			}
		}
	}()

	return func() {
		once.Do(func() { close(stopChan) })
	}
}

// Tick accrues interest when the day changed since the last known run.
// It reports whether an accrual was applied.
func (w *InterestAccrualWorker) Tick(ctx context.Context) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	today := service.AccrualDate(now)

	if w.lastRun.IsZero() {
		last, err := w.interest.LastRun(ctx)
		if err != nil {
			log.WithError(err).Error("Failed to load last interest run")
		} else if last != nil {
			w.lastRun = service.AccrualDate(last.RunDate)
		}
	}

	if !w.lastRun.IsZero() && !today.After(w.lastRun) {
		log.WithField("lastRun", w.lastRun.Format("2006-01-02")).Debug("Interest already accrued today")
		return false
	}

	result, err := w.interest.Accrue(ctx, now)
	if err != nil {
		log.WithFields(log.Fields{
			"runDate": today.Format("2006-01-02"),
			"error":   err,
		}).Error("Interest accrual failed")
		return false
	}

	w.lastRun = today
	if result.AlreadyRan {
		log.WithField("runDate", today.Format("2006-01-02")).Info("Interest run already recorded by another runner")
		return false
	}

	log.WithFields(log.Fields{
		"runDate":           today.Format("2006-01-02"),
		"accountsAccrued":   result.AccountsAccrued,
		"accountsCapped":    result.AccountsCapped,
		"totalInterest":     result.TotalInterest.String(),
		"prisonersReleased": result.PrisonersReleased,
	}).Info("Daily interest accrued")
	return true
}

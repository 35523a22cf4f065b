package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"dinks/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockInterestService struct {
	mock.Mock
}

func (m *mockInterestService) Accrue(ctx context.Context, now time.Time) (*models.AccrualResult, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AccrualResult), args.Error(1)
}

func (m *mockInterestService) LastRun(ctx context.Context) (*models.InterestRun, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InterestRun), args.Error(1)
}

func date(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func accrued(day time.Time) *models.AccrualResult {
	return &models.AccrualResult{RunDate: day, AccountsAccrued: 3, TotalInterest: decimal.NewFromInt(12)}
}

func TestTick_RunsOncePerDay(t *testing.T) {
	ctx := context.Background()
	svc := new(mockInterestService)
	worker := NewInterestAccrualWorker(svc, time.Hour)

	now := date(2024, 3, 10, 1)
	worker.now = func() time.Time { return now }

	svc.On("LastRun", ctx).Return(&models.InterestRun{RunDate: date(2024, 3, 9, 0)}, nil).Once()
	svc.On("Accrue", ctx, now).Return(accrued(date(2024, 3, 10, 0)), nil).Once()

	assert.True(t, worker.Tick(ctx))

	// Later the same day nothing happens
	now = date(2024, 3, 10, 23)
	assert.False(t, worker.Tick(ctx))

	// Next day accrues again without re-reading the last run
	now = date(2024, 3, 11, 0)
	svc.On("Accrue", ctx, now).Return(accrued(date(2024, 3, 11, 0)), nil).Once()
	assert.True(t, worker.Tick(ctx))

	svc.AssertExpectations(t)
}

func TestTick_SkipsWhenPersistedRunIsToday(t *testing.T) {
	ctx := context.Background()
	svc := new(mockInterestService)
	worker := NewInterestAccrualWorker(svc, time.Hour)
	worker.now = func() time.Time { return date(2024, 3, 10, 5) }

	svc.On("LastRun", ctx).Return(&models.InterestRun{RunDate: date(2024, 3, 10, 0)}, nil).Once()

	assert.False(t, worker.Tick(ctx))
	svc.AssertNotCalled(t, "Accrue", mock.Anything, mock.Anything)
}

func TestTick_FirstRunEver(t *testing.T) {
	ctx := context.Background()
	svc := new(mockInterestService)
	worker := NewInterestAccrualWorker(svc, time.Hour)
	now := date(2024, 1, 1, 0)
	worker.now = func() time.Time { return now }

	svc.On("LastRun", ctx).Return(nil, nil).Once()
	svc.On("Accrue", ctx, now).Return(accrued(now), nil).Once()

	assert.True(t, worker.Tick(ctx))
	svc.AssertExpectations(t)
}

func TestTick_FailureIsRetriedNextTick(t *testing.T) {
	ctx := context.Background()
	svc := new(mockInterestService)
	worker := NewInterestAccrualWorker(svc, time.Hour)
	now := date(2024, 3, 10, 0)
	worker.now = func() time.Time { return now }

	svc.On("LastRun", ctx).Return(&models.InterestRun{RunDate: date(2024, 3, 9, 0)}, nil).Once()
	svc.On("Accrue", ctx, now).Return(nil, errors.New("db down")).Once()
	assert.False(t, worker.Tick(ctx))

	now = date(2024, 3, 10, 1)
	svc.On("Accrue", ctx, now).Return(accrued(date(2024, 3, 10, 0)), nil).Once()
	assert.True(t, worker.Tick(ctx))
	svc.AssertExpectations(t)
}

func TestTick_AlreadyRanElsewhere(t *testing.T) {
	ctx := context.Background()
	svc := new(mockInterestService)
	worker := NewInterestAccrualWorker(svc, time.Hour)
	now := date(2024, 3, 10, 0)
	worker.now = func() time.Time { return now }

	svc.On("LastRun", ctx).Return(&models.InterestRun{RunDate: date(2024, 3, 9, 0)}, nil).Once()
	svc.On("Accrue", ctx, now).Return(&models.AccrualResult{RunDate: now, AlreadyRan: true}, nil).Once()

	assert.False(t, worker.Tick(ctx))
	// The day is remembered, so later ticks do not call Accrue again
	now = date(2024, 3, 10, 6)
	assert.False(t, worker.Tick(ctx))
	svc.AssertExpectations(t)
}

func TestStart_StopsOnCancel(t *testing.T) {
	svc := new(mockInterestService)
	worker := NewInterestAccrualWorker(svc, time.Hour)
	now := date(2024, 3, 10, 0)
	worker.now = func() time.Time { return now }

	ran := make(chan struct{})
	svc.On("LastRun", mock.Anything).Return(nil, nil).Once()
	svc.On("Accrue", mock.Anything, now).Run(func(mock.Arguments) { close(ran) }).Return(accrued(now), nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	stop := worker.Start(ctx)

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not run the first tick")
	}
	cancel()
	stop()
	stop()
	svc.AssertExpectations(t)
}

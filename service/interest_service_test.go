package service

import (
	"context"
	"testing"
	"time"

	"dinks/events"
	"dinks/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAccrualDate(t *testing.T) {
	zone := time.FixedZone("UTC-5", -5*60*60)
	got := AccrualDate(time.Date(2024, 3, 1, 22, 0, 0, 0, zone))
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), got)
}

func TestInterestService_Accrue(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 13, 45, 0, 0, time.UTC)
	runDate := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("compounds every accruing account", func(t *testing.T) {
		uow := newTestUoW()
		uow.InterestRuns().On("GetByDate", mock.Anything, runDate).Return(nil, nil)
		uow.InterestRuns().On("Create", mock.Anything, mock.AnythingOfType("*models.InterestRun")).Return(nil)
		uow.InterestRuns().On("Finalize", mock.Anything, mock.AnythingOfType("*models.InterestRun")).Return(nil)

		first := testAccount(1, "500")
		first.Invested = d("500")
		second := testAccount(2, "0")
		second.Invested = d("1000")
		second.Profit = d("10")
		second.InterestLevel = 2
		uow.Accounts().On("ListAccruing", mock.Anything).Return([]*models.Account{first, second}, nil)
		expectUpdate(uow)
		uow.Prison().On("DecrementAll", mock.Anything).Return(1, nil)
		uow.Prison().On("ReleaseServed", mock.Anything).Return([]int64{9}, nil)

		svc := NewInterestService(factoryFor(uow), testEconomy(), nil)
		result, err := svc.Accrue(ctx, now)
		require.NoError(t, err)

		assert.False(t, result.AlreadyRan)
		assert.Equal(t, 2, result.AccountsAccrued)
		assert.Equal(t, 1, result.PrisonersReleased)
		assertDecimal(t, "5", first.Profit)
		assert.Equal(t, 1, first.InvestedDays)
		// 10 + (1010 * 1.02 - 1000) = 40.2
		assertDecimal(t, "40.2", second.Profit)
		assertDecimal(t, "35.2", result.TotalInterest)

		uow.InterestRuns().AssertCalled(t, "Finalize", mock.Anything, mock.MatchedBy(func(run *models.InterestRun) bool {
			return run.UsersAffected == 2 && run.TotalInterestDistributed.Equal(d("35.2"))
		}))
		uow.Events().AssertCalled(t, "Publish", mock.MatchedBy(func(e events.InterestAccruedEvent) bool {
			return e.AccountsAccrued == 2
		}))
	})

	t.Run("cap stops profit but the day still counts", func(t *testing.T) {
		e := testEconomy()
		e.Cap = d("1002")

		uow := newTestUoW()
		uow.InterestRuns().On("GetByDate", mock.Anything, runDate).Return(nil, nil)
		uow.InterestRuns().On("Create", mock.Anything, mock.Anything).Return(nil)
		uow.InterestRuns().On("Finalize", mock.Anything, mock.Anything).Return(nil)

		account := testAccount(1, "500")
		account.Invested = d("500")
		uow.Accounts().On("ListAccruing", mock.Anything).Return([]*models.Account{account}, nil)
		expectUpdate(uow)
		uow.Prison().On("DecrementAll", mock.Anything).Return(0, nil)
		uow.Prison().On("ReleaseServed", mock.Anything).Return([]int64{}, nil)

		svc := NewInterestService(factoryFor(uow), e, nil)
		result, err := svc.Accrue(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, 1, result.AccountsCapped)
		assertDecimal(t, "2", account.Profit)
		assert.Equal(t, 1, account.InvestedDays)

		// Already at the cap: nothing more, still a day served
		_, capped := svc.(*interestService).accrueAccount(account, d("0"))
		assert.True(t, capped)
		assertDecimal(t, "2", account.Profit)
		assert.Equal(t, 2, account.InvestedDays)
	})

	t.Run("second run on the same day does nothing", func(t *testing.T) {
		uow := newTestUoW()
		uow.InterestRuns().On("GetByDate", mock.Anything, runDate).Return(&models.InterestRun{ID: 1, RunDate: runDate}, nil)

		svc := NewInterestService(factoryFor(uow), testEconomy(), nil)
		result, err := svc.Accrue(ctx, now)
		require.NoError(t, err)
		assert.True(t, result.AlreadyRan)
		uow.Accounts().AssertNotCalled(t, "ListAccruing", mock.Anything)
	})

	t.Run("losing the race for the day", func(t *testing.T) {
		uow := newTestUoW()
		uow.InterestRuns().On("GetByDate", mock.Anything, runDate).Return(nil, nil)
		uow.InterestRuns().On("Create", mock.Anything, mock.Anything).Return(ErrInterestAlreadyApplied)

		svc := NewInterestService(factoryFor(uow), testEconomy(), nil)
		result, err := svc.Accrue(ctx, now)
		require.NoError(t, err)
		assert.True(t, result.AlreadyRan)
		uow.Accounts().AssertNotCalled(t, "ListAccruing", mock.Anything)
	})
}

func TestInterestService_LastRun(t *testing.T) {
	ctx := context.Background()
	uow := newTestUoW()
	run := &models.InterestRun{ID: 3}
	uow.InterestRuns().On("GetLatest", mock.Anything).Return(run, nil)

	svc := NewInterestService(factoryFor(uow), testEconomy(), nil)
	got, err := svc.LastRun(ctx)
	require.NoError(t, err)
	assert.Same(t, run, got)
}

func TestNextResetTime(t *testing.T) {
	now := time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), NextResetTime(now))
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), NextResetTime(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)))
}

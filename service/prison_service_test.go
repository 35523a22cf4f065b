package service

import (
	"context"
	"testing"

	"dinks/events"
	"dinks/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func jailed(userID int64, debt string, days int) *models.PrisonRecord {
	return newPrisonRecord(testEconomy(), userID, d(debt), days)
}

func TestPrisonService_Imprison(t *testing.T) {
	ctx := context.Background()

	t.Run("spreads the debt over the sentence", func(t *testing.T) {
		uow := newTestUoW()
		expectAccount(uow, testAccount(1, "0"))
		uow.Prison().On("Create", mock.Anything, mock.AnythingOfType("*models.PrisonRecord")).Return(nil)

		svc := NewPrisonService(factoryFor(uow), testEconomy())
		record, err := svc.Imprison(ctx, 1, d("100"), 3)
		require.NoError(t, err)
		assertDecimal(t, "100", record.Debt)
		assertDecimal(t, "33.33", record.DailyPayment)
		assert.Equal(t, 3, record.DaysRemaining)

		uow.Events().AssertCalled(t, "Publish", mock.MatchedBy(func(e events.PrisonStateChangeEvent) bool {
			return e.UserID == 1 && e.Jailed
		}))
	})

	t.Run("already imprisoned", func(t *testing.T) {
		uow := newTestUoW()
		expectAccount(uow, testAccount(1, "0"))
		uow.Prison().On("Create", mock.Anything, mock.Anything).Return(ErrAlreadyImprisoned)

		svc := NewPrisonService(factoryFor(uow), testEconomy())
		_, err := svc.Imprison(ctx, 1, d("100"), 3)
		assert.ErrorIs(t, err, ErrAlreadyImprisoned)
	})

	t.Run("invalid sentence", func(t *testing.T) {
		svc := NewPrisonService(new(MockUnitOfWorkFactory), testEconomy())
		for _, tc := range []struct {
			debt string
			days int
		}{
			{"100", 0},
			{"-5", 3},
			{"1e2000000000", 3},
		} {
			_, err := svc.Imprison(ctx, 1, d(tc.debt), tc.days)
			assert.ErrorIs(t, err, ErrInvalidAmount, tc.debt)
		}
	})
}

func TestPrisonService_Bail(t *testing.T) {
	ctx := context.Background()

	t.Run("pays the debt and releases", func(t *testing.T) {
		uow := newTestUoW()
		uow.Prison().On("Get", mock.Anything, int64(1)).Return(jailed(1, "60", 2), nil)
		account := testAccount(1, "100")
		expectAccount(uow, account)
		expectUpdate(uow)
		uow.Prison().On("Delete", mock.Anything, int64(1)).Return(true, nil)

		svc := NewPrisonService(factoryFor(uow), testEconomy())
		record, err := svc.Bail(ctx, 1)
		require.NoError(t, err)
		assertDecimal(t, "60", record.Debt)
		assertDecimal(t, "40", account.Dinks)

		history := recordedHistory(uow)
		require.Len(t, history, 1)
		assert.Equal(t, models.TransactionTypeBail, history[0].TransactionType)
		uow.Events().AssertCalled(t, "Publish", mock.MatchedBy(func(e events.PrisonStateChangeEvent) bool {
			return !e.Jailed && e.Reason == events.PrisonReasonBail
		}))
	})

	t.Run("not imprisoned", func(t *testing.T) {
		uow := newTestUoW()
		uow.Prison().On("Get", mock.Anything, int64(1)).Return(nil, nil)

		svc := NewPrisonService(factoryFor(uow), testEconomy())
		_, err := svc.Bail(ctx, 1)
		assert.ErrorIs(t, err, ErrNotImprisoned)
	})

	t.Run("cannot afford", func(t *testing.T) {
		uow := newTestUoW()
		uow.Prison().On("Get", mock.Anything, int64(1)).Return(jailed(1, "60", 2), nil)
		expectAccount(uow, testAccount(1, "59.99"))

		svc := NewPrisonService(factoryFor(uow), testEconomy())
		_, err := svc.Bail(ctx, 1)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
	})

	t.Run("released by the tick meanwhile", func(t *testing.T) {
		raced := newTestUoW()
		raced.Prison().On("Get", mock.Anything, int64(1)).Return(jailed(1, "60", 1), nil)
		expectAccount(raced, testAccount(1, "100"))
		expectUpdate(raced)
		raced.Prison().On("Delete", mock.Anything, int64(1)).Return(false, nil)

		after := newTestUoW()
		after.Prison().On("Get", mock.Anything, int64(1)).Return(nil, nil)

		svc := NewPrisonService(factoryFor(raced, after), testEconomy())
		_, err := svc.Bail(ctx, 1)
		assert.ErrorIs(t, err, ErrNotImprisoned)
		raced.AssertNotCalled(t, "Commit")
	})
}

func TestTickPrison(t *testing.T) {
	ctx := context.Background()
	uow := newTestUoW()
	uow.Prison().On("DecrementAll", mock.Anything).Return(3, nil)
	uow.Prison().On("ReleaseServed", mock.Anything).Return([]int64{4, 9}, nil)

	result, err := tickPrison(ctx, uow)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Decremented)
	assert.Equal(t, []int64{4, 9}, result.Released)

	for _, id := range []int64{4, 9} {
		uow.Events().AssertCalled(t, "Publish", events.PrisonStateChangeEvent{
			UserID: id,
			Jailed: false,
			Reason: events.PrisonReasonServed,
		})
	}
}

func TestPrisonService_StatusAndList(t *testing.T) {
	ctx := context.Background()
	uow := newTestUoW()
	record := jailed(1, "10", 1)
	uow.Prison().On("Get", mock.Anything, int64(1)).Return(record, nil)
	uow.Prison().On("List", mock.Anything, 5).Return([]*models.PrisonRecord{record}, nil)

	factory := new(MockUnitOfWorkFactory)
	factory.On("Create").Return(uow)

	svc := NewPrisonService(factory, testEconomy())
	got, err := svc.Status(ctx, 1)
	require.NoError(t, err)
	assert.Same(t, record, got)

	list, err := svc.List(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

package service

import (
	"context"
	"errors"
	"testing"

	"dinks/events"
	"dinks/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLedgerService_GetBalanceCreatesAccount(t *testing.T) {
	ctx := context.Background()
	uow := newTestUoW()
	uow.Accounts().On("GetOrCreate", mock.Anything, int64(1)).Return(testAccount(1, "0"), true, nil)

	svc := NewLedgerService(factoryFor(uow), testEconomy(), nil)
	account, err := svc.GetBalance(ctx, 1)
	require.NoError(t, err)
	assert.True(t, account.Dinks.IsZero())

	uow.Events().AssertCalled(t, "Publish", events.AccountCreatedEvent{UserID: 1})
	uow.AssertCalled(t, "Commit")
}

func TestLedgerService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("credits through the capped statement", func(t *testing.T) {
		uow := newTestUoW()
		expectAccount(uow, testAccount(1, "10"))
		prices := new(MockPriceSource)
		prices.On("BitcoinPrice", mock.Anything).Return(d("30000"), nil)

		e := testEconomy()
		uow.Accounts().On("AddDinks", mock.Anything, int64(1), d("25.50"), e.Cap, d("30000")).
			Return(d("10"), d("35.50"), nil)

		svc := NewLedgerService(factoryFor(uow), e, prices)
		balance, err := svc.Add(ctx, 1, d("25.509"))
		require.NoError(t, err)
		assertDecimal(t, "35.50", balance)

		history := recordedHistory(uow)
		require.Len(t, history, 1)
		assert.Equal(t, models.TransactionTypeAdjustment, history[0].TransactionType)
		assertDecimal(t, "25.50", history[0].ChangeAmount)
	})

	t.Run("price outage still credits accounts without bitcoin", func(t *testing.T) {
		uow := newTestUoW()
		expectAccount(uow, testAccount(1, "10"))
		prices := new(MockPriceSource)
		prices.On("BitcoinPrice", mock.Anything).Return(decimal.Zero, errors.New("feed down"))

		e := testEconomy()
		uow.Accounts().On("AddDinks", mock.Anything, int64(1), d("5"), e.Cap, decimal.Zero).
			Return(d("10"), d("15"), nil)

		svc := NewLedgerService(factoryFor(uow), e, prices)
		_, err := svc.Add(ctx, 1, d("5"))
		require.NoError(t, err)
	})

	t.Run("clamped to nothing records no history", func(t *testing.T) {
		uow := newTestUoW()
		expectAccount(uow, testAccount(1, "10"))
		uow.Accounts().On("AddDinks", mock.Anything, int64(1), d("5"), mock.Anything, mock.Anything).
			Return(d("10"), d("10"), nil)

		svc := NewLedgerService(factoryFor(uow), testEconomy(), nil)
		balance, err := svc.Add(ctx, 1, d("5"))
		require.NoError(t, err)
		assertDecimal(t, "10", balance)
		assert.Empty(t, recordedHistory(uow))
	})

	t.Run("rejects invalid amounts before touching storage", func(t *testing.T) {
		factory := new(MockUnitOfWorkFactory)
		svc := NewLedgerService(factory, testEconomy(), nil)

		_, err := svc.Add(ctx, 1, d("-1"))
		assert.ErrorIs(t, err, ErrInvalidAmount)
		factory.AssertNotCalled(t, "Create")
	})
}

func TestLedgerService_Subtract(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		uow := newTestUoW()
		expectAccount(uow, testAccount(1, "150"))
		uow.Accounts().On("SubtractDinks", mock.Anything, int64(1), d("100")).Return(d("150"), d("50"), nil)

		svc := NewLedgerService(factoryFor(uow), testEconomy(), nil)
		balance, err := svc.Subtract(ctx, 1, d("100"))
		require.NoError(t, err)
		assertDecimal(t, "50", balance)
	})

	t.Run("insufficient funds rolls back", func(t *testing.T) {
		uow := newTestUoW()
		expectAccount(uow, testAccount(1, "50"))
		uow.Accounts().On("SubtractDinks", mock.Anything, int64(1), d("100")).
			Return(decimal.Zero, decimal.Zero, ErrInsufficientFunds)

		svc := NewLedgerService(factoryFor(uow), testEconomy(), nil)
		_, err := svc.Subtract(ctx, 1, d("100"))
		assert.ErrorIs(t, err, ErrInsufficientFunds)
		uow.AssertNotCalled(t, "Commit")
		uow.AssertCalled(t, "Rollback")
	})
}

func TestLedgerService_Transfer(t *testing.T) {
	ctx := context.Background()

	t.Run("moves dinks and records both sides", func(t *testing.T) {
		uow := newTestUoW()
		from, to := testAccount(2, "100"), testAccount(1, "5")
		expectAccount(uow, from)
		expectAccount(uow, to)
		expectUpdate(uow)

		svc := NewLedgerService(factoryFor(uow), testEconomy(), nil)
		sent, err := svc.Transfer(ctx, 2, 1, d("40"))
		require.NoError(t, err)
		assertDecimal(t, "40", sent)
		assertDecimal(t, "60", from.Dinks)
		assertDecimal(t, "45", to.Dinks)

		// Lower user id is written first
		updates := uow.Accounts().Calls
		var order []int64
		for _, call := range updates {
			if call.Method == "Update" {
				order = append(order, call.Arguments.Get(1).(*models.Account).UserID)
			}
		}
		assert.Equal(t, []int64{1, 2}, order)

		history := recordedHistory(uow)
		require.Len(t, history, 2)
		assert.Equal(t, models.TransactionTypeTransferOut, history[0].TransactionType)
		assert.Equal(t, models.TransactionTypeTransferIn, history[1].TransactionType)
	})

	t.Run("recipient near the cap receives only what fits", func(t *testing.T) {
		e := testEconomy()
		e.Cap = d("1000")

		uow := newTestUoW()
		from, to := testAccount(1, "100"), testAccount(2, "990")
		expectAccount(uow, from)
		expectAccount(uow, to)
		expectUpdate(uow)

		svc := NewLedgerService(factoryFor(uow), e, nil)
		sent, err := svc.Transfer(ctx, 1, 2, d("40"))
		require.NoError(t, err)
		assertDecimal(t, "10", sent)
		assertDecimal(t, "90", from.Dinks)
		assertDecimal(t, "1000", to.Dinks)
	})

	t.Run("recipient at the cap", func(t *testing.T) {
		e := testEconomy()
		e.Cap = d("1000")

		uow := newTestUoW()
		expectAccount(uow, testAccount(1, "100"))
		expectAccount(uow, testAccount(2, "1000"))

		svc := NewLedgerService(factoryFor(uow), e, nil)
		_, err := svc.Transfer(ctx, 1, 2, d("40"))
		assert.ErrorIs(t, err, ErrCapReached)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		uow := newTestUoW()
		expectAccount(uow, testAccount(1, "10"))
		expectAccount(uow, testAccount(2, "0"))

		svc := NewLedgerService(factoryFor(uow), testEconomy(), nil)
		_, err := svc.Transfer(ctx, 1, 2, d("40"))
		assert.ErrorIs(t, err, ErrInsufficientFunds)
	})

	t.Run("self transfer", func(t *testing.T) {
		svc := NewLedgerService(new(MockUnitOfWorkFactory), testEconomy(), nil)
		_, err := svc.Transfer(ctx, 1, 1, d("40"))
		assert.ErrorIs(t, err, ErrSelfTarget)
	})
}

func TestLedgerService_ReadOnlyQueries(t *testing.T) {
	ctx := context.Background()
	uow := newTestUoW()
	entries := []*models.LeaderboardEntry{{Rank: 1, UserID: 7, NetWorth: d("100")}}
	uow.Accounts().On("Leaderboard", mock.Anything, 10).Return(entries, nil)

	svc := NewLedgerService(factoryFor(uow), testEconomy(), nil)
	got, err := svc.Leaderboard(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
	uow.AssertNotCalled(t, "Commit")
	uow.AssertCalled(t, "Rollback")
}

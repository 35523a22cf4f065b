package service

import (
	"context"
	"errors"
	"testing"

	"dinks/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestBankService_Invest(t *testing.T) {
	ctx := context.Background()

	t.Run("moves dinks into the bank", func(t *testing.T) {
		uow := newTestUoW()
		account := testAccount(1, "1000")
		expectAccount(uow, account)
		expectUpdate(uow)

		svc := NewBankService(factoryFor(uow), testEconomy(), nil)
		moved, got, err := svc.Invest(ctx, 1, d("500"))
		require.NoError(t, err)
		assertDecimal(t, "500", moved)
		assertDecimal(t, "500", got.Dinks)
		assertDecimal(t, "500", got.Invested)

		history := recordedHistory(uow)
		require.Len(t, history, 1)
		assert.Equal(t, models.TransactionTypeInvest, history[0].TransactionType)
	})

	t.Run("caps the amount at the balance", func(t *testing.T) {
		uow := newTestUoW()
		expectAccount(uow, testAccount(1, "30"))
		expectUpdate(uow)

		svc := NewBankService(factoryFor(uow), testEconomy(), nil)
		moved, got, err := svc.Invest(ctx, 1, d("500"))
		require.NoError(t, err)
		assertDecimal(t, "30", moved)
		assert.True(t, got.Dinks.IsZero())
	})

	t.Run("nothing to invest", func(t *testing.T) {
		uow := newTestUoW()
		expectAccount(uow, testAccount(1, "0"))

		svc := NewBankService(factoryFor(uow), testEconomy(), nil)
		_, _, err := svc.Invest(ctx, 1, d("500"))
		assert.ErrorIs(t, err, ErrInsufficientFunds)
	})
}

func TestBankService_Claim(t *testing.T) {
	ctx := context.Background()

	invested := func() *models.Account {
		account := testAccount(1, "500")
		account.Invested = d("500")
		account.Profit = d("5")
		account.InvestedDays = 1
		return account
	}

	t.Run("partial claim leaves the principal", func(t *testing.T) {
		uow := newTestUoW()
		expectAccount(uow, invested())
		expectUpdate(uow)

		svc := NewBankService(factoryFor(uow), testEconomy(), nil)
		result, err := svc.Claim(ctx, 1, d("5"))
		require.NoError(t, err)
		assertDecimal(t, "5", result.ProfitClaimed)
		assert.True(t, result.PrincipalReturned.IsZero())
		assertDecimal(t, "505", result.Account.Dinks)
		assertDecimal(t, "500", result.Account.Invested)
		assert.True(t, result.Account.Profit.IsZero())
		assert.Equal(t, 1, result.Account.InvestedDays)
	})

	t.Run("claim more than the profit takes only the profit", func(t *testing.T) {
		uow := newTestUoW()
		expectAccount(uow, invested())
		expectUpdate(uow)

		svc := NewBankService(factoryFor(uow), testEconomy(), nil)
		result, err := svc.Claim(ctx, 1, d("50"))
		require.NoError(t, err)
		assertDecimal(t, "5", result.ProfitClaimed)
		assertDecimal(t, "500", result.Account.Invested)
	})

	t.Run("no profit", func(t *testing.T) {
		uow := newTestUoW()
		expectAccount(uow, testAccount(1, "500"))

		svc := NewBankService(factoryFor(uow), testEconomy(), nil)
		_, err := svc.Claim(ctx, 1, d("5"))
		assert.ErrorIs(t, err, ErrInsufficientFunds)
	})

	t.Run("claim all withdraws everything", func(t *testing.T) {
		uow := newTestUoW()
		expectAccount(uow, invested())
		expectUpdate(uow)

		svc := NewBankService(factoryFor(uow), testEconomy(), nil)
		result, err := svc.ClaimAll(ctx, 1)
		require.NoError(t, err)
		assertDecimal(t, "5", result.ProfitClaimed)
		assertDecimal(t, "500", result.PrincipalReturned)
		assertDecimal(t, "505", result.Total())
		assertDecimal(t, "1005", result.Account.Dinks)
		assert.True(t, result.Account.Invested.IsZero())
		assert.True(t, result.Account.Profit.IsZero())
		assert.Zero(t, result.Account.InvestedDays)
	})

	t.Run("claim all with an empty bank", func(t *testing.T) {
		uow := newTestUoW()
		expectAccount(uow, testAccount(1, "500"))

		svc := NewBankService(factoryFor(uow), testEconomy(), nil)
		_, err := svc.ClaimAll(ctx, 1)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
	})
}

func TestBankService_Upgrade(t *testing.T) {
	ctx := context.Background()

	t.Run("buys the next level", func(t *testing.T) {
		uow := newTestUoW()
		expectAccount(uow, testAccount(1, "400"))
		expectUpdate(uow)

		svc := NewBankService(factoryFor(uow), testEconomy(), nil)
		result, err := svc.Upgrade(ctx, 1, models.UpgradeTrackInterest)
		require.NoError(t, err)
		assert.Equal(t, 2, result.NewLevel)
		assertDecimal(t, "384", result.Price)
		assertDecimal(t, "16", result.Account.Dinks)
		assert.Equal(t, 1, result.Account.CapacityLevel)
	})

	t.Run("cannot afford", func(t *testing.T) {
		uow := newTestUoW()
		expectAccount(uow, testAccount(1, "383.99"))

		svc := NewBankService(factoryFor(uow), testEconomy(), nil)
		_, err := svc.Upgrade(ctx, 1, models.UpgradeTrackInterest)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
	})

	t.Run("unknown track", func(t *testing.T) {
		svc := NewBankService(new(MockUnitOfWorkFactory), testEconomy(), nil)
		_, err := svc.Upgrade(ctx, 1, models.UpgradeTrack("luck"))
		assert.ErrorIs(t, err, ErrInvalidTrack)
	})

	t.Run("lists every track", func(t *testing.T) {
		uow := newTestUoW()
		account := testAccount(1, "0")
		account.RobLevel = 2
		expectAccount(uow, account)

		svc := NewBankService(factoryFor(uow), testEconomy(), nil)
		options, err := svc.Upgrades(ctx, 1)
		require.NoError(t, err)
		require.Len(t, options, 3)
		assert.Equal(t, models.UpgradeTrackRob, options[2].Track)
		assert.Equal(t, 2, options[2].Level)
		assertDecimal(t, "245", options[2].NextPrice)
	})
}

func TestBankService_Bitcoin(t *testing.T) {
	ctx := context.Background()

	priced := func(price string) *MockPriceSource {
		prices := new(MockPriceSource)
		prices.On("BitcoinPrice", mock.Anything).Return(d(price), nil)
		return prices
	}

	t.Run("buy", func(t *testing.T) {
		uow := newTestUoW()
		expectAccount(uow, testAccount(1, "1000"))
		expectUpdate(uow)

		svc := NewBankService(factoryFor(uow), testEconomy(), priced("30000"))
		trade, err := svc.BuyBitcoin(ctx, 1, d("300"))
		require.NoError(t, err)
		assertDecimal(t, "0.01", trade.Coins)
		assertDecimal(t, "700", trade.Account.Dinks)
		assertDecimal(t, "0.01", trade.Account.Bitcoins)
	})

	t.Run("buy keeps eight decimals", func(t *testing.T) {
		uow := newTestUoW()
		expectAccount(uow, testAccount(1, "1000"))
		expectUpdate(uow)

		svc := NewBankService(factoryFor(uow), testEconomy(), priced("30000"))
		trade, err := svc.BuyBitcoin(ctx, 1, d("1"))
		require.NoError(t, err)
		assertDecimal(t, "0.00003333", trade.Coins)
	})

	t.Run("sell", func(t *testing.T) {
		uow := newTestUoW()
		account := testAccount(1, "0")
		account.Bitcoins = d("0.5")
		expectAccount(uow, account)
		expectUpdate(uow)

		svc := NewBankService(factoryFor(uow), testEconomy(), priced("30000"))
		trade, err := svc.SellBitcoin(ctx, 1, d("0.25"))
		require.NoError(t, err)
		assertDecimal(t, "7500", trade.Dinks)
		assertDecimal(t, "0.25", trade.Account.Bitcoins)
	})

	t.Run("sell more than held", func(t *testing.T) {
		uow := newTestUoW()
		expectAccount(uow, testAccount(1, "0"))

		svc := NewBankService(factoryFor(uow), testEconomy(), priced("30000"))
		_, err := svc.SellBitcoin(ctx, 1, d("1"))
		assert.ErrorIs(t, err, ErrInsufficientFunds)
	})

	t.Run("price unavailable", func(t *testing.T) {
		prices := new(MockPriceSource)
		prices.On("BitcoinPrice", mock.Anything).Return(decimal.Zero, errors.New("timeout"))

		svc := NewBankService(new(MockUnitOfWorkFactory), testEconomy(), prices)
		_, err := svc.BuyBitcoin(ctx, 1, d("10"))
		assert.ErrorIs(t, err, ErrPriceUnavailable)

		_, err = NewBankService(new(MockUnitOfWorkFactory), testEconomy(), nil).BitcoinPrice(ctx)
		assert.ErrorIs(t, err, ErrPriceUnavailable)
	})
}

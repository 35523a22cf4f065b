package service

import (
	"context"
	"testing"

	"dinks/events"
	"dinks/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func gamblingUoW(account *models.Account) *MockUnitOfWork {
	uow := newTestUoW()
	expectAccount(uow, account)
	expectUpdate(uow)
	uow.EconomyStats().On("Increment", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	return uow
}

func TestGamblingService_Wager(t *testing.T) {
	ctx := context.Background()

	t.Run("loss debits and counts as lost", func(t *testing.T) {
		account := testAccount(1, "100")
		uow := gamblingUoW(account)

		svc := NewGamblingService(factoryFor(uow), testEconomy(), nil, newSequenceRandom())
		result, err := svc.Wager(ctx, 1, GameCoinflip, d("40"), d("2"), false)
		require.NoError(t, err)
		assert.False(t, result.Won)
		assert.True(t, result.Payout.IsZero())
		assertDecimal(t, "60", result.NewBalance)
		assertDecimal(t, "-40", result.Net())

		uow.EconomyStats().AssertCalled(t, "Increment", mock.Anything, StatTotalLost, d("40"))
		history := recordedHistory(uow)
		require.Len(t, history, 1)
		assert.Equal(t, models.TransactionTypeGambleLoss, history[0].TransactionType)
	})

	t.Run("win credits the multiplied stake", func(t *testing.T) {
		account := testAccount(1, "100")
		uow := gamblingUoW(account)

		svc := NewGamblingService(factoryFor(uow), testEconomy(), nil, newSequenceRandom())
		result, err := svc.Wager(ctx, 1, GameDice, d("10"), d("6"), true)
		require.NoError(t, err)
		assertDecimal(t, "60", result.Payout)
		assertDecimal(t, "150", result.NewBalance)
		assertDecimal(t, "50", result.Net())

		uow.EconomyStats().AssertCalled(t, "Increment", mock.Anything, StatTotalWon, mock.MatchedBy(func(v decimal.Decimal) bool {
			return v.Equal(d("50"))
		}))
		uow.Events().AssertCalled(t, "Publish", mock.MatchedBy(func(e events.GamblePlayedEvent) bool {
			return e.Game == GameDice && e.Won
		}))
	})

	t.Run("win payout is clamped at the cap", func(t *testing.T) {
		e := testEconomy()
		e.Cap = d("120")
		account := testAccount(1, "100")
		uow := gamblingUoW(account)

		svc := NewGamblingService(factoryFor(uow), e, nil, newSequenceRandom())
		result, err := svc.Wager(ctx, 1, GameCoinflip, d("50"), d("2"), true)
		require.NoError(t, err)
		assertDecimal(t, "70", result.Payout)
		assertDecimal(t, "120", result.NewBalance)
	})

	t.Run("cannot stake more than the balance", func(t *testing.T) {
		uow := newTestUoW()
		expectAccount(uow, testAccount(1, "5"))

		svc := NewGamblingService(factoryFor(uow), testEconomy(), nil, newSequenceRandom())
		_, err := svc.Wager(ctx, 1, GameCoinflip, d("10"), d("2"), true)
		assert.ErrorIs(t, err, ErrInsufficientFunds)
	})
}

func TestGamblingService_Games(t *testing.T) {
	ctx := context.Background()

	t.Run("coinflip guessed right", func(t *testing.T) {
		uow := gamblingUoW(testAccount(1, "100"))
		svc := NewGamblingService(factoryFor(uow), testEconomy(), nil, newSequenceRandom(1))

		result, err := svc.Coinflip(ctx, 1, d("10"), models.CoinTails)
		require.NoError(t, err)
		assert.Equal(t, models.CoinTails, result.Landed)
		assert.True(t, result.Won)
		assertDecimal(t, "110", result.NewBalance)
	})

	t.Run("coinflip bad guess", func(t *testing.T) {
		svc := NewGamblingService(new(MockUnitOfWorkFactory), testEconomy(), nil, newSequenceRandom())
		_, err := svc.Coinflip(ctx, 1, d("10"), models.CoinSide("edge"))
		assert.ErrorIs(t, err, ErrInvalidGuess)
	})

	t.Run("astronomical stake is refused before touching storage", func(t *testing.T) {
		svc := NewGamblingService(new(MockUnitOfWorkFactory), testEconomy(), nil, newSequenceRandom(0))
		_, err := svc.Coinflip(ctx, 1, d("1e2000000000"), models.CoinHeads)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("dice miss", func(t *testing.T) {
		uow := gamblingUoW(testAccount(1, "100"))
		svc := NewGamblingService(factoryFor(uow), testEconomy(), nil, newSequenceRandom(2))

		result, err := svc.Dice(ctx, 1, d("10"), 4)
		require.NoError(t, err)
		assert.Equal(t, 3, result.Rolled)
		assert.False(t, result.Won)
		assertDecimal(t, "90", result.NewBalance)
	})

	t.Run("dice out of range", func(t *testing.T) {
		svc := NewGamblingService(new(MockUnitOfWorkFactory), testEconomy(), nil, newSequenceRandom())
		_, err := svc.Dice(ctx, 1, d("10"), 7)
		assert.ErrorIs(t, err, ErrInvalidGuess)
	})

	t.Run("slots pair of cherries", func(t *testing.T) {
		uow := gamblingUoW(testAccount(1, "100"))
		// weights 30/25/20/12/8/5: draws 0 and 29 are cherries, 30 is a lemon
		svc := NewGamblingService(factoryFor(uow), testEconomy(), nil, newSequenceRandom(0, 30, 29))

		result, err := svc.Slots(ctx, 1, d("10"))
		require.NoError(t, err)
		assert.Equal(t, []string{"🍒", "🍋", "🍒"}, result.Reels)
		assert.True(t, result.Won)
		assertDecimal(t, "1.5", result.Multiplier)
		assertDecimal(t, "105", result.NewBalance)
	})

	t.Run("slots all distinct", func(t *testing.T) {
		uow := gamblingUoW(testAccount(1, "100"))
		svc := NewGamblingService(factoryFor(uow), testEconomy(), nil, newSequenceRandom(0, 30, 55))

		result, err := svc.Slots(ctx, 1, d("10"))
		require.NoError(t, err)
		assert.False(t, result.Won)
		assertDecimal(t, "90", result.NewBalance)
	})
}

func TestGamblingService_Stats(t *testing.T) {
	ctx := context.Background()
	uow := newTestUoW()
	uow.EconomyStats().On("Get", mock.Anything, StatTotalLost).Return(d("120.5"), nil)
	uow.EconomyStats().On("Get", mock.Anything, StatTotalWon).Return(d("80"), nil)

	svc := NewGamblingService(factoryFor(uow), testEconomy(), nil, newSequenceRandom())
	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assertDecimal(t, "120.5", stats.TotalLost)
	assertDecimal(t, "80", stats.TotalWon)
}

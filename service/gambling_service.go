package service

import (
	"context"
	"fmt"

	"dinks/config"
	"dinks/events"
	"dinks/models"

	"github.com/shopspring/decimal"
)

// Names of the bot-wide gambling counters
const (
	StatTotalLost = "total_lost"
	StatTotalWon  = "total_won"
)

// Game names carried on events and history metadata
const (
	GameCoinflip = "coinflip"
	GameDice     = "dice"
	GameSlots    = "slots"
)

const slotReels = 3

type gamblingService struct {
	uowFactory UnitOfWorkFactory
	economy    config.Economy
	prices     PriceSource
	rng        RandomSource
}

// NewGamblingService creates a new gambling service
func NewGamblingService(uowFactory UnitOfWorkFactory, economy config.Economy, prices PriceSource, rng RandomSource) GamblingService {
	return &gamblingService{
		uowFactory: uowFactory,
		economy:    economy,
		prices:     prices,
		rng:        rng,
	}
}

func (s *gamblingService) Wager(ctx context.Context, userID int64, game string, amount, multiplier decimal.Decimal, won bool) (*models.WagerResult, error) {
	amount, err := validAmount(s.economy, amount)
	if err != nil {
		return nil, err
	}
	quote := bitcoinQuote(ctx, s.prices)

	var result *models.WagerResult
	err = inTransaction(ctx, s.uowFactory, s.economy.TransactionRetries, func(uow UnitOfWork) error {
		account, err := getOrCreateAccount(ctx, uow, userID)
		if err != nil {
			return err
		}
		if account.Dinks.LessThan(amount) {
			return ErrInsufficientFunds
		}
		// Checked before the outcome is applied so a refusal never depends on winning
		if err := quote.guard(account); err != nil {
			return err
		}

		before := account.Dinks
		account.Dinks = account.Dinks.Sub(amount)

		payout := decimal.Zero
		if won {
			payout = clampCredit(s.economy, account, quote.price, money(s.economy, amount.Mul(multiplier)))
			account.Dinks = account.Dinks.Add(payout)
		}

		if err := updateAccounts(ctx, uow, account); err != nil {
			return err
		}

		result = &models.WagerResult{
			Amount:     amount,
			Won:        won,
			Multiplier: multiplier,
			Payout:     payout,
			NewBalance: account.Dinks,
		}

		stat, statAmount := StatTotalLost, amount
		txType := models.TransactionTypeGambleLoss
		if won {
			stat, statAmount = StatTotalWon, result.Net()
			txType = models.TransactionTypeGambleWin
		}
		if statAmount.IsPositive() {
			if err := uow.EconomyStatsRepository().Increment(ctx, stat, statAmount); err != nil {
				return fmt.Errorf("failed to update %s: %w", stat, err)
			}
		}

		if err := recordDinksChange(ctx, uow, userID, before, account.Dinks, txType, map[string]any{
			"game":       game,
			"amount":     amount.String(),
			"multiplier": multiplier.String(),
		}); err != nil {
			return err
		}

		uow.EventBus().Publish(events.GamblePlayedEvent{
			UserID: userID,
			Game:   game,
			Amount: amount,
			Won:    won,
			Payout: payout,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *gamblingService) Coinflip(ctx context.Context, userID int64, amount decimal.Decimal, guess models.CoinSide) (*models.CoinflipResult, error) {
	if guess != models.CoinHeads && guess != models.CoinTails {
		return nil, ErrInvalidGuess
	}

	landed := models.CoinHeads
	if s.rng.IntN(2) == 1 {
		landed = models.CoinTails
	}

	multiplier := decimal.NewFromFloat(s.economy.CoinflipMultiplier)
	wager, err := s.Wager(ctx, userID, GameCoinflip, amount, multiplier, guess == landed)
	if err != nil {
		return nil, err
	}
	return &models.CoinflipResult{Guess: guess, Landed: landed, WagerResult: *wager}, nil
}

func (s *gamblingService) Dice(ctx context.Context, userID int64, amount decimal.Decimal, guess int) (*models.DiceResult, error) {
	if guess < 1 || guess > s.economy.DiceSides {
		return nil, ErrInvalidGuess
	}

	rolled := rollBetween(s.rng, 1, s.economy.DiceSides)

	multiplier := decimal.NewFromFloat(s.economy.DiceMultiplier)
	wager, err := s.Wager(ctx, userID, GameDice, amount, multiplier, guess == rolled)
	if err != nil {
		return nil, err
	}
	return &models.DiceResult{Guess: guess, Rolled: rolled, WagerResult: *wager}, nil
}

func (s *gamblingService) Slots(ctx context.Context, userID int64, amount decimal.Decimal) (*models.SlotsResult, error) {
	symbols := s.economy.SlotSymbols
	weights := make([]int, len(symbols))
	for i, symbol := range symbols {
		weights[i] = symbol.Weight
	}

	draw := make([]int, slotReels)
	reels := make([]string, slotReels)
	for i := range draw {
		draw[i] = weightedPick(s.rng, weights)
		reels[i] = symbols[draw[i]].Emoji
	}

	multiplier, won := SlotsMultiplier(symbols, draw)
	wager, err := s.Wager(ctx, userID, GameSlots, amount, multiplier, won)
	if err != nil {
		return nil, err
	}
	return &models.SlotsResult{Reels: reels, WagerResult: *wager}, nil
}

func (s *gamblingService) Stats(ctx context.Context) (*models.GambleStats, error) {
	stats := &models.GambleStats{}
	err := readOnly(ctx, s.uowFactory, func(uow UnitOfWork) error {
		var err error
		if stats.TotalLost, err = uow.EconomyStatsRepository().Get(ctx, StatTotalLost); err != nil {
			return fmt.Errorf("failed to get %s: %w", StatTotalLost, err)
		}
		if stats.TotalWon, err = uow.EconomyStatsRepository().Get(ctx, StatTotalWon); err != nil {
			return fmt.Errorf("failed to get %s: %w", StatTotalWon, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

package service

import (
	"fmt"

	"dinks/config"
)

// Games lists every game the gambling service offers
var Games = []string{GameCoinflip, GameDice, GameSlots}

// ExpectedReturn is the exact average payout per dink staked on game,
// computed from the economy's odds and multipliers. Values above 1 favour
// the player.
func ExpectedReturn(e config.Economy, game string) (float64, error) {
	switch game {
	case GameCoinflip:
		return e.CoinflipMultiplier / 2, nil
	case GameDice:
		return e.DiceMultiplier / float64(e.DiceSides), nil
	case GameSlots:
		return slotsExpectedReturn(e.SlotSymbols), nil
	default:
		return 0, fmt.Errorf("unknown game %q", game)
	}
}

// slotsExpectedReturn enumerates every reel combination weighted by its
// probability.
func slotsExpectedReturn(symbols []config.SlotSymbol) float64 {
	total := 0
	for _, s := range symbols {
		total += s.Weight
	}
	if total == 0 {
		return 0
	}

	var expected float64
	draw := make([]int, slotReels)
	var walk func(reel int, probability float64)
	walk = func(reel int, probability float64) {
		if reel == slotReels {
			if multiplier, won := SlotsMultiplier(symbols, draw); won {
				expected += probability * multiplier.InexactFloat64()
			}
			return
		}
		for i, s := range symbols {
			draw[reel] = i
			walk(reel+1, probability*float64(s.Weight)/float64(total))
		}
	}
	walk(0, 1)
	return expected
}

// SimulationResult summarizes repeated plays of one game with a unit stake
type SimulationResult struct {
	Game       string
	Rounds     int
	Wins       int
	Returned   float64
	Expected   float64
	WinRate    float64
	ReturnRate float64
}

// Simulate plays game rounds times against rng using the same draws as the
// live service, always guessing heads or one.
func Simulate(e config.Economy, game string, rounds int, rng RandomSource) (*SimulationResult, error) {
	expected, err := ExpectedReturn(e, game)
	if err != nil {
		return nil, err
	}
	if rounds <= 0 {
		return nil, fmt.Errorf("rounds must be positive, got %d", rounds)
	}

	weights := make([]int, len(e.SlotSymbols))
	for i, s := range e.SlotSymbols {
		weights[i] = s.Weight
	}

	result := &SimulationResult{Game: game, Rounds: rounds, Expected: expected}
	draw := make([]int, slotReels)
	for range rounds {
		switch game {
		case GameCoinflip:
			// zero lands heads, matching Coinflip
			if rng.IntN(2) == 0 {
				result.Wins++
				result.Returned += e.CoinflipMultiplier
			}
		case GameDice:
			if rollBetween(rng, 1, e.DiceSides) == 1 {
				result.Wins++
				result.Returned += e.DiceMultiplier
			}
		case GameSlots:
			for i := range draw {
				draw[i] = weightedPick(rng, weights)
			}
			if multiplier, won := SlotsMultiplier(e.SlotSymbols, draw); won {
				result.Wins++
				result.Returned += multiplier.InexactFloat64()
			}
		}
	}

	result.WinRate = float64(result.Wins) / float64(rounds)
	result.ReturnRate = result.Returned / float64(rounds)
	return result, nil
}

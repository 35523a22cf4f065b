package cmd

import (
	"fmt"
	"io"
	"os"

	"dinks/config"
	"dinks/service"
)

// Simulate plays every game rounds times with a unit stake and prints the
// observed win and return rates next to the exact expected return.
func Simulate(w io.Writer, rounds int) error {
	economy := config.DefaultEconomy()
	if path := os.Getenv("ECONOMY_CONFIG"); path != "" {
		loaded, err := config.LoadEconomy(path)
		if err != nil {
			return err
		}
		economy = loaded
	}

	rng := service.NewRandomSource()
	fmt.Fprintf(w, "%-10s %10s %10s %10s %10s\n", "game", "rounds", "win rate", "return", "expected")
	for _, game := range service.Games {
		result, err := service.Simulate(economy, game, rounds, rng)
		if err != nil {
			return fmt.Errorf("simulate %s: %w", game, err)
		}
		fmt.Fprintf(w, "%-10s %10d %9.2f%% %9.2f%% %9.2f%%\n",
			result.Game, result.Rounds, result.WinRate*100, result.ReturnRate*100, result.Expected*100)
	}
	return nil
}

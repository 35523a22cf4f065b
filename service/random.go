package service

import "math/rand/v2"

type globalRandom struct{}

// NewRandomSource returns a goroutine-safe source backed by math/rand/v2
func NewRandomSource() RandomSource {
	return globalRandom{}
}

func (globalRandom) IntN(n int) int {
	return rand.IntN(n)
}

// rollBetween draws uniformly from [lo, hi]. A floor above hi collapses to hi.
func rollBetween(rng RandomSource, lo, hi int) int {
	if lo > hi {
		lo = hi
	}
	return lo + rng.IntN(hi-lo+1)
}

// weightedPick returns an index drawn proportionally to weights
func weightedPick(rng RandomSource, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	n := rng.IntN(total)
	for i, w := range weights {
		if n < w {
			return i
		}
		n -= w
	}
	return len(weights) - 1
}

package player

import (
	"fmt"
	"math"
	"sort"

	"github.com/samber/lo"
	"golang.org/x/exp/rand"
)

// adjustTemperature turns visit counts into move probabilities. Temperatures
// below 1 sharpen the distribution toward the most visited moves.
func adjustTemperature[M comparable](visits map[M]int, temperature float64) map[M]float64 {
	exponent := 1.0 / temperature
	sum := 0.0
	policy := make(map[M]float64, len(visits))
	for move, visit := range visits {
		prob := math.Pow(float64(visit), exponent)
		sum += prob
		policy[move] = prob
	}
	if sum == 0 {
		for move := range policy {
			policy[move] = 1 / float64(len(policy))
		}
		return policy
	}
	// Normalize
	for move := range policy {
		policy[move] /= sum
	}
	return policy
}

// sample draws a move from policy. Moves are walked in a fixed order so a
// seeded rng gives the same move every run.
func sample[M comparable](policy map[M]float64, rng *rand.Rand) M {
	moves := lo.Keys(policy)
	sort.Slice(moves, func(i, j int) bool {
		return fmt.Sprint(moves[i]) < fmt.Sprint(moves[j])
	})

	sampled := rng.Float64()
	cumulative := 0.0
	var lastMove M
	for _, move := range moves {
		lastMove = move
		cumulative += policy[move]
		if sampled < cumulative {
			return move
		}
	}
	return lastMove // Fallback in case of rounding errors
}

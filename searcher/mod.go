package searcher

import (
	"math"
	"time"

	"golang.org/x/exp/rand"
)

// Hyperparameters for MCTS

const CSquared = 2.0 // Exploration constant: UCT = w/n + sqrt(c^2*ln(t)/n)

const DefaultPlayouts = 200

func ucb1(rewards float64, visits int, c2LnN float64) float64 {
	// Prioritize unexplored nodes
	if visits == 0 {
		return math.Inf(1)
	}

	return rewards/float64(visits) + math.Sqrt(c2LnN/float64(visits))
}

// NewRand returns a random source seeded with seed, or with the clock when seed is 0.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewSource(seed))
}

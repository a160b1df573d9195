package searcher

import (
	"errors"
	"fmt"
	"gametree/experiments/metrics"
	"gametree/game"
	"math"
	"time"

	"golang.org/x/exp/rand"
)

var ErrInvalidDepth = errors.New("search depth must be at least 1")

// Decision is the result of an alpha-beta search at the root.
type Decision[M comparable] struct {
	Move  M
	Score float64
	Ties  int // root moves sharing the best score
}

type alphaBeta[S any, M comparable] struct {
	game      game.Game[S, M]
	heuristic game.Heuristic[S]
	nodes     int
}

// ChooseBestMove searches depth plies below every root move and returns the
// best one for the maximizing (SideA) or minimizing side. Moves with equal
// scores are chosen between uniformly with rng. state is mutated during the
// search and restored before returning.
func ChooseBestMove[S any, M comparable](g game.Game[S, M], state S, heuristic game.Heuristic[S], depth int, maximizing bool, rng *rand.Rand) (Decision[M], metrics.SearchMetric, error) {
	var decision Decision[M]
	if depth < 1 {
		return decision, metrics.SearchMetric{}, fmt.Errorf("failed to choose move at depth %d: %w", depth, ErrInvalidDepth)
	}
	if status := g.Status(state); status != game.InProgress {
		return decision, metrics.SearchMetric{}, fmt.Errorf("failed to choose move, game is %v: %w", status, game.ErrNoLegalMoves)
	}
	moves := game.LegalMoves(g, state)
	if len(moves) == 0 {
		return decision, metrics.SearchMetric{}, fmt.Errorf("failed to choose move: %w", game.ErrNoLegalMoves)
	}

	start := time.Now()
	s := &alphaBeta[S, M]{game: g, heuristic: heuristic}
	best := math.Inf(1)
	if maximizing {
		best = math.Inf(-1)
	}
	var candidates []M
	for _, move := range moves {
		score := s.child(state, move, depth, math.Inf(-1), math.Inf(1), !maximizing)
		switch {
		case score == best:
			candidates = append(candidates, move)
		case (maximizing && score > best) || (!maximizing && score < best):
			best = score
			candidates = append(candidates[:0], move)
		}
	}
	if len(candidates) == 0 {
		panic("no candidate moves")
	}

	decision = Decision[M]{
		Move:  candidates[rng.Intn(len(candidates))],
		Score: best,
		Ties:  len(candidates),
	}
	metric := metrics.SearchMetric{Duration: time.Since(start), Nodes: s.nodes}
	return decision, metric, nil
}

// Evaluate returns the minimax value of state searched to depth plies.
// state is restored before returning.
func Evaluate[S any, M comparable](g game.Game[S, M], state S, heuristic game.Heuristic[S], depth int, maximizing bool) float64 {
	s := &alphaBeta[S, M]{game: g, heuristic: heuristic}
	return s.search(state, depth, math.Inf(-1), math.Inf(1), maximizing)
}

// child scores move by applying it, searching, and undoing it on every exit.
func (s *alphaBeta[S, M]) child(state S, move M, depth int, alpha, beta float64, maximizing bool) float64 {
	s.game.Apply(move, state)
	defer s.game.Undo(move, state)
	return s.search(state, depth, alpha, beta, maximizing)
}

func (s *alphaBeta[S, M]) search(state S, depth int, alpha, beta float64, maximizing bool) float64 {
	s.nodes++
	if depth <= 1 || s.game.Status(state) != game.InProgress {
		return s.heuristic(state)
	}
	moves := game.LegalMoves(s.game, state)
	if len(moves) == 0 {
		return s.heuristic(state)
	}

	if maximizing {
		value := math.Inf(-1)
		for _, move := range moves {
			value = math.Max(value, s.child(state, move, depth-1, alpha, beta, false))
			alpha = math.Max(alpha, value)
			if alpha >= beta {
				break
			}
		}
		return value
	}

	value := math.Inf(1)
	for _, move := range moves {
		value = math.Min(value, s.child(state, move, depth-1, alpha, beta, true))
		beta = math.Min(beta, value)
		if alpha >= beta {
			break
		}
	}
	return value
}

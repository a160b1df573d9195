package player

import (
	"fmt"
	"gametree/experiments/metrics"
	"gametree/game"
	"gametree/searcher"
	"io"

	"golang.org/x/exp/rand"
)

// MCTS plays the move its search tree picks and keeps the tree between moves.
type MCTS[S any, M comparable] struct {
	game        game.Game[S, M]
	tree        *searcher.MCTS[S, M]
	rng         *rand.Rand
	temperature float64
}

// NewMCTS builds a UCT tree with uniform random playouts capped at
// playoutLength plies (0 plays out to the end).
func NewMCTS[S any, M comparable](g game.Game[S, M], state S, playoutLength int, rng *rand.Rand, options ...searcher.Option) *MCTS[S, M] {
	options = append([]searcher.Option{searcher.WithRand(rng)}, options...)
	tree := searcher.NewMCTSFromState[S, M](
		g,
		state,
		searcher.NewUCT[S, M](),
		searcher.UniformRandomPlayout[S, M]{MaxLength: playoutLength},
		options...,
	)
	return &MCTS[S, M]{game: g, tree: tree, rng: rng}
}

// WithTemperature makes the player sample its move from the root visit
// counts instead of playing the best child. Used to diversify self-play.
func (p *MCTS[S, M]) WithTemperature(temperature float64) *MCTS[S, M] {
	p.temperature = temperature
	return p
}

func (p *MCTS[S, M]) Name() string {
	return "mcts"
}

func (p *MCTS[S, M]) Tree() *searcher.MCTS[S, M] {
	return p.tree
}

func (p *MCTS[S, M]) Status() game.Status {
	return p.tree.Status()
}

func (p *MCTS[S, M]) ChooseMove() (M, metrics.SearchMetric, error) {
	move, metric, err := p.tree.ChooseBestMove()
	if err != nil || p.temperature <= 0 {
		return move, metric, err
	}

	visits := make(map[M]int, len(p.tree.Root().Children()))
	for _, child := range p.tree.Root().Children() {
		visits[child.Move()] = child.Playouts()
	}
	return sample(adjustTemperature(visits, p.temperature), p.rng), metric, nil
}

func (p *MCTS[S, M]) ApplyMove(move M) {
	p.tree.ApplyMove(move)
}

func (p *MCTS[S, M]) Show(w io.Writer) error {
	return Render(p.game, w, p.tree.State())
}

// AlphaBeta plays the move a fixed-depth alpha-beta search picks for the side to move.
type AlphaBeta[S any, M comparable] struct {
	tracker[S, M]
	heuristic game.Heuristic[S]
	depth     int
	rng       *rand.Rand
}

func NewAlphaBeta[S any, M comparable](g game.Game[S, M], state S, heuristic game.Heuristic[S], depth int, rng *rand.Rand) *AlphaBeta[S, M] {
	return &AlphaBeta[S, M]{
		tracker:   newTracker(g, state),
		heuristic: heuristic,
		depth:     depth,
		rng:       rng,
	}
}

func (p *AlphaBeta[S, M]) Name() string {
	return fmt.Sprintf("alphabeta(%d)", p.depth)
}

func (p *AlphaBeta[S, M]) ChooseMove() (M, metrics.SearchMetric, error) {
	maximizing := p.game.Turn(p.state) == game.SideA
	decision, metric, err := searcher.ChooseBestMove(p.game, p.state, p.heuristic, p.depth, maximizing, p.rng)
	return decision.Move, metric, err
}

package searcher

import (
	"fmt"
	"gametree/experiments/metrics"
	"gametree/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

type Option func(o *options)

type options struct {
	playouts  int
	rng       *rand.Rand
	bestChild BestChildPolicy
	metrics   metrics.Collector
}

func WithPlayouts(playouts int) Option {
	return func(o *options) {
		if playouts > 0 {
			o.playouts = playouts
		}
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		if rng != nil {
			o.rng = rng
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.rng = NewRand(seed)
	}
}

func WithBestChild(policy BestChildPolicy) Option {
	return func(o *options) {
		o.bestChild = policy
	}
}

func WithMetrics() Option {
	return func(o *options) {
		o.metrics = metrics.NewCollector()
	}
}

// MCTS owns a search tree rooted at the current position of the game it
// follows. The tree survives between moves: ApplyMove promotes the matching
// child to root so its statistics keep counting.
type MCTS[S any, M comparable] struct {
	game     game.Game[S, M]
	selector SelectPolicy[S, M]
	playout  PlayoutPolicy[S, M]
	root     *Node[S, M]
	reused   bool
	options
}

func NewMCTS[S any, M comparable](g game.Game[S, M], selector SelectPolicy[S, M], playout PlayoutPolicy[S, M], opts ...Option) *MCTS[S, M] {
	return NewMCTSFromState(g, g.InitialState(), selector, playout, opts...)
}

// NewMCTSFromState roots the tree at a copy of state.
func NewMCTSFromState[S any, M comparable](g game.Game[S, M], state S, selector SelectPolicy[S, M], playout PlayoutPolicy[S, M], opts ...Option) *MCTS[S, M] {
	m := &MCTS[S, M]{
		game:     g,
		selector: selector,
		playout:  playout,
		options: options{ // Default values
			playouts:  DefaultPlayouts,
			bestChild: BestChildHighestWeight,
			metrics:   metrics.NewDummyCollector(),
		},
	}
	for _, opt := range opts {
		opt(&m.options)
	}
	if m.rng == nil {
		m.rng = NewRand(0)
	}

	var none M
	m.root = newNode(g.Copy(state), none, nil)
	return m
}

func (m *MCTS[S, M]) Root() *Node[S, M] {
	return m.root
}

// State returns the root position. Callers must not modify it.
func (m *MCTS[S, M]) State() S {
	return m.root.state
}

func (m *MCTS[S, M]) Status() game.Status {
	return m.game.Status(m.root.state)
}

// Size counts the nodes in the tree.
func (m *MCTS[S, M]) Size() int {
	return m.root.size()
}

// ApplyMove advances the root by move. A matching child keeps its subtree and
// the rest of the old tree is released; otherwise a fresh root is built.
func (m *MCTS[S, M]) ApplyMove(move M) {
	for _, child := range m.root.children {
		if child.move == move {
			child.parent = nil
			m.root.children = nil
			m.root = child
			m.reused = true
			log.Debug().Msgf("reused subtree for move %v with %d playouts", move, child.playouts)
			return
		}
	}

	state := m.game.Copy(m.root.state)
	m.game.Apply(move, state)
	m.root.children = nil
	m.root = newNode(state, move, nil)
	m.reused = false
	log.Debug().Msgf("rebuilt tree after unexplored move %v", move)
}

// ChooseBestMove runs the configured number of iterations from the root and
// returns the best child's move. It fails with game.ErrNoLegalMoves when the
// root position is over.
func (m *MCTS[S, M]) ChooseBestMove() (M, metrics.SearchMetric, error) {
	var none M
	if status := m.Status(); status != game.InProgress {
		return none, metrics.SearchMetric{}, fmt.Errorf("failed to choose move, game is %v: %w", status, game.ErrNoLegalMoves)
	}

	m.metrics.Start()
	m.metrics.SetTreeReused(m.reused)
	for i := 0; i < m.playouts; i++ {
		m.simulate()
		m.metrics.AddEpisode()
	}
	metric := m.metrics.Complete()

	best := m.root.bestChild(m.bestChild, m.rng)
	if best == nil {
		return none, metric, fmt.Errorf("failed to choose move: %w", game.ErrNoLegalMoves)
	}
	log.Debug().Msgf("chose %v with weight %.3f over %d playouts", best.move, best.Weight(), best.playouts)
	return best.move, metric, nil
}

// simulate runs one select, expand, playout and backup iteration.
func (m *MCTS[S, M]) simulate() {
	leaf := m.selector.Select(m.root)
	if len(leaf.children) == 0 && m.game.Status(leaf.state) == game.InProgress {
		m.metrics.AddNodes(leaf.expand(m.game))
	}

	node := leaf
	if len(leaf.children) > 0 {
		node = leaf.randomChild(m.rng)
	}

	result, _ := m.playout.Playout(m.game, node.state, m.rng)
	if result != game.InProgress {
		m.metrics.AddFullPlayout()
	}
	node.rollouts++
	backup(node, result, m.game.Score)
}

func backup[S any, M comparable](leaf *Node[S, M], result game.Status, score func(game.Status, S) float64) {
	for node := leaf; node != nil; {
		node = node.backup(result, score)
	}
}

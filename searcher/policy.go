package searcher

import (
	"gametree/game"
	"math"

	"golang.org/x/exp/rand"
)

// SelectPolicy walks down from the root and returns the node to expand.
type SelectPolicy[S any, M comparable] interface {
	Select(root *Node[S, M]) *Node[S, M]
}

// PlayoutPolicy plays a game out from state and reports how it ended and how
// many plies it took. It must not modify state.
type PlayoutPolicy[S any, M comparable] interface {
	Playout(g game.Game[S, M], state S, rng *rand.Rand) (game.Status, int)
}

// UCT descends through the child with the highest upper confidence bound
// until it reaches a node without children.
type UCT[S any, M comparable] struct {
	CSquared float64
}

func NewUCT[S any, M comparable]() *UCT[S, M] {
	return &UCT[S, M]{CSquared: CSquared}
}

func (u *UCT[S, M]) Select(root *Node[S, M]) *Node[S, M] {
	node := root
	for len(node.children) > 0 {
		node = u.pick(node)
	}
	return node
}

// pick returns the first child with the highest score.
func (u *UCT[S, M]) pick(parent *Node[S, M]) *Node[S, M] {
	var best *Node[S, M]
	maxScore := math.Inf(-1)
	for _, child := range parent.children {
		score := u.Score(child)
		if best == nil || score > maxScore {
			best = child
			maxScore = score
		}
	}
	return best
}

// Score is w/n + sqrt(c^2 * ln(N) / n) for a child with wins w and playouts n
// under a parent with playouts N. Unvisited children score +Inf.
func (u *UCT[S, M]) Score(child *Node[S, M]) float64 {
	if child.parent == nil {
		panic("root has no UCT score")
	}
	return ucb1(child.wins, child.playouts, u.CSquared*math.Log(float64(child.parent.playouts)))
}

// UniformRandomPlayout plays uniformly random legal moves on a copy of the
// state. A positive MaxLength caps the number of plies; a capped playout
// reports game.InProgress.
type UniformRandomPlayout[S any, M comparable] struct {
	MaxLength int
}

func (p UniformRandomPlayout[S, M]) Playout(g game.Game[S, M], state S, rng *rand.Rand) (game.Status, int) {
	s := g.Copy(state)
	plies := 0
	status := g.Status(s)
	for status == game.InProgress {
		if p.MaxLength > 0 && plies >= p.MaxLength {
			break
		}
		moves := game.LegalMoves(g, s)
		if len(moves) == 0 {
			panic("game in progress without legal moves")
		}
		g.Apply(moves[rng.Intn(len(moves))], s)
		plies++
		status = g.Status(s)
	}
	return status, plies
}

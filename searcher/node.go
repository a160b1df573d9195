package searcher

import (
	"gametree/game"

	"github.com/samber/lo"
	"golang.org/x/exp/rand"
)

// BestChildPolicy decides which root child is played once the search ends.
type BestChildPolicy int

const (
	BestChildHighestWeight BestChildPolicy = iota // max wins/playouts
	BestChildMostVisits
)

// Node is an MCTS tree node. It owns its state and children; parent is a
// back-reference. wins is the accumulated score of the player whose move led
// here, so a parent prefers children with high weight.
type Node[S any, M comparable] struct {
	state    S
	move     M
	parent   *Node[S, M]
	children []*Node[S, M]
	playouts int
	wins     float64
	rollouts int // simulations started at this node
}

func newNode[S any, M comparable](state S, move M, parent *Node[S, M]) *Node[S, M] {
	return &Node[S, M]{
		state:  state,
		move:   move,
		parent: parent,
	}
}

func (n *Node[S, M]) State() S                { return n.state }
func (n *Node[S, M]) Move() M                 { return n.move }
func (n *Node[S, M]) Parent() *Node[S, M]     { return n.parent }
func (n *Node[S, M]) Children() []*Node[S, M] { return n.children }
func (n *Node[S, M]) Playouts() int           { return n.playouts }
func (n *Node[S, M]) Wins() float64           { return n.wins }
func (n *Node[S, M]) Rollouts() int           { return n.rollouts }

// Weight is the win ratio, 0 for a node never played out.
func (n *Node[S, M]) Weight() float64 {
	if n.playouts == 0 {
		return 0
	}
	return n.wins / float64(n.playouts)
}

// expand adds one child per legal move and returns how many were added.
func (n *Node[S, M]) expand(g game.Game[S, M]) int {
	if len(n.children) > 0 {
		panic("node is already expanded")
	}

	moves := game.LegalMoves(g, n.state)
	n.children = make([]*Node[S, M], 0, len(moves))
	for _, move := range moves {
		state := g.Copy(n.state)
		g.Apply(move, state)
		n.children = append(n.children, newNode(state, move, n))
	}
	return len(n.children)
}

func (n *Node[S, M]) randomChild(rng *rand.Rand) *Node[S, M] {
	return n.children[rng.Intn(len(n.children))]
}

// backup records one playout and returns the parent to continue with.
func (n *Node[S, M]) backup(result game.Status, score func(game.Status, S) float64) *Node[S, M] {
	n.playouts++
	n.wins += score(result, n.state)
	return n.parent
}

// bestChild picks uniformly among the children tied on the policy's value.
// Returns nil for a node without children.
func (n *Node[S, M]) bestChild(policy BestChildPolicy, rng *rand.Rand) *Node[S, M] {
	if len(n.children) == 0 {
		return nil
	}

	value := func(c *Node[S, M]) float64 {
		if policy == BestChildMostVisits {
			return float64(c.playouts)
		}
		return c.Weight()
	}

	best := lo.MaxBy(n.children, func(a, b *Node[S, M]) bool {
		return value(a) > value(b)
	})
	candidates := lo.Filter(n.children, func(c *Node[S, M], _ int) bool {
		return value(c) == value(best)
	})
	if len(candidates) == 0 {
		panic("no candidate children")
	}
	return candidates[rng.Intn(len(candidates))]
}

func (n *Node[S, M]) size() int {
	size := 1
	for _, child := range n.children {
		size += child.size()
	}
	return size
}

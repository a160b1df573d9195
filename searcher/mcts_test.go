package searcher

import (
	"bytes"
	"gametree/game"
	"gametree/game/tictactoe"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func requireConserved(t *testing.T, node *tttNode) {
	t.Helper()
	sum := node.Rollouts()
	for _, child := range node.Children() {
		require.Same(t, node, child.Parent(), "Child should point back to its parent")
		sum += child.Playouts()
		requireConserved(t, child)
	}
	require.Equal(t, node.Playouts(), sum, "Playouts should equal rollouts started here plus children's playouts")
	require.GreaterOrEqual(t, node.Wins(), 0.0)
	require.LessOrEqual(t, node.Wins(), float64(node.Playouts()))
}

func TestMCTSChooseBestMove(t *testing.T) {
	t.Run("finds the only winning move", func(t *testing.T) {
		for seed := uint64(1); seed <= 3; seed++ {
			s := position(tictactoe.O,
				"xx.",
				"oo.",
				"xo.",
			)
			m := newSearch(s, WithPlayouts(1000), WithSeed(seed))

			move, _, err := m.ChooseBestMove()

			require.NoError(t, err)
			require.Equal(t, tictactoe.Move{Row: 2, Col: 2, Mark: tictactoe.X}, move, "seed %d", seed)
		}
	})

	t.Run("counts every playout", func(t *testing.T) {
		m := newSearch(tictactoe.New().InitialState(), WithPlayouts(300), WithSeed(5), WithMetrics())

		_, metric, err := m.ChooseBestMove()

		require.NoError(t, err)
		require.Equal(t, 300, m.Root().Playouts())
		require.Equal(t, 300, metric.Episodes)
		require.Equal(t, 300, metric.FullPlayouts, "Tic-tac-toe playouts always finish")
		require.Equal(t, m.Size()-1, metric.Nodes, "Every node but the root was created by the search")
		require.False(t, metric.IsTreeReused)
		requireConserved(t, m.Root())
	})

	t.Run("does not modify the caller's state", func(t *testing.T) {
		s := tictactoe.New().InitialState()
		before := *s
		m := newSearch(s, WithPlayouts(50), WithSeed(1))

		_, _, err := m.ChooseBestMove()

		require.NoError(t, err)
		require.Equal(t, before, *s)
	})

	t.Run("finished game has no moves", func(t *testing.T) {
		s := position(tictactoe.X,
			"xxx",
			"oo.",
			"...",
		)
		m := newSearch(s, WithSeed(1))

		_, _, err := m.ChooseBestMove()

		require.ErrorIs(t, err, game.ErrNoLegalMoves)
		require.Equal(t, game.SideAWin, m.Status())
	})
}

func TestMCTSApplyMove(t *testing.T) {
	t.Run("explored move reuses the subtree", func(t *testing.T) {
		m := newSearch(tictactoe.New().InitialState(), WithPlayouts(200), WithSeed(2), WithMetrics())
		move, _, err := m.ChooseBestMove()
		require.NoError(t, err)

		oldRoot := m.Root()
		var chosen *tttNode
		for _, child := range oldRoot.Children() {
			if child.Move() == move {
				chosen = child
			}
		}
		require.NotNil(t, chosen)
		playouts := chosen.Playouts()

		m.ApplyMove(move)

		require.Same(t, chosen, m.Root(), "Matching child should become the root")
		require.Nil(t, m.Root().Parent(), "New root should be detached")
		require.Nil(t, oldRoot.Children(), "Old root should release its subtree")
		require.Equal(t, playouts, m.Root().Playouts(), "Statistics should be kept")

		_, metric, err := m.ChooseBestMove()
		require.NoError(t, err)
		require.True(t, metric.IsTreeReused)
		require.Equal(t, playouts+200, m.Root().Playouts())
		requireConserved(t, m.Root())
	})

	t.Run("unexplored move builds a fresh root", func(t *testing.T) {
		s := tictactoe.New().InitialState()
		m := newSearch(s, WithSeed(1))
		move := tictactoe.Move{Row: 1, Col: 1, Mark: tictactoe.X}

		m.ApplyMove(move)

		require.Equal(t, 1, m.Size())
		require.Equal(t, 0, m.Root().Playouts())
		require.Nil(t, m.Root().Parent())
		require.Equal(t, move, m.Root().Move())
		require.Equal(t, tictactoe.X, m.State().Board[1][1])
		require.Equal(t, tictactoe.X, m.State().Last)
		require.Equal(t, tictactoe.Empty, s.Board[1][1], "Caller's state should not change")
	})

	t.Run("opponent replies keep the search going", func(t *testing.T) {
		m := newSearch(tictactoe.New().InitialState(), WithPlayouts(100), WithSeed(4))
		for m.Status() == game.InProgress {
			move, _, err := m.ChooseBestMove()
			require.NoError(t, err)
			m.ApplyMove(move)
			requireConserved(t, m.Root())
		}
		require.NotEqual(t, game.InProgress, m.Status())
	})
}

func TestMCTSDump(t *testing.T) {
	m := newSearch(tictactoe.New().InitialState(), WithPlayouts(50), WithSeed(1))
	_, _, err := m.ChooseBestMove()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, m.Dump(&buf, 1))

	var got dumpNode
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, 50, got.Playouts)
	require.Empty(t, got.Move, "Root has no move")
	require.NotEmpty(t, got.Children)
	for _, child := range got.Children {
		require.NotEmpty(t, child.Move)
		require.Empty(t, child.Children, "Dump should stop at the requested depth")
	}
}

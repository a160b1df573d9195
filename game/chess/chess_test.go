package chess

import (
	"bytes"
	"gametree/game"
	"strings"
	"testing"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func mustState(t *testing.T, fen string) *State {
	t.Helper()
	s, err := NewState(fen)
	require.NoError(t, err)
	return s
}

func play(t *testing.T, g *Game, s *State, moves ...string) {
	t.Helper()
	for _, token := range moves {
		m, err := g.ParseMove(s, token)
		require.NoError(t, err)
		g.Apply(m, s)
	}
}

func TestMoves(t *testing.T) {
	g := New()
	s := g.InitialState()

	require.Equal(t, game.SideA, g.Turn(s))
	require.Len(t, g.Moves(s, game.SideA), 20, "White should have twenty opening moves")
	require.Empty(t, g.Moves(s, game.SideB), "Only the side to move has moves")
}

func TestApplyUndoRoundTrip(t *testing.T) {
	g := New()
	s := g.InitialState()
	rng := rand.New(rand.NewSource(7))

	for ply := 0; ply < 60 && g.Status(s) == game.InProgress; ply++ {
		moves := game.LegalMoves[*State, Move](g, s)
		for _, m := range moves {
			before := s.String()
			depth := len(s.Played())
			g.Apply(m, s)
			g.Undo(m, s)
			require.Equal(t, before, s.String(), "Undo should restore the position after %v", m)
			require.Len(t, s.Played(), depth)
		}
		g.Apply(moves[rng.Intn(len(moves))], s)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	g := New()
	s := g.InitialState()
	cp := g.Copy(s)

	play(t, g, cp, "e2e4")

	require.Equal(t, chess.StartingPosition().String(), s.String())
	require.Len(t, s.Played(), 0)
	require.Len(t, cp.Played(), 1)
}

func TestUndoMismatchPanics(t *testing.T) {
	g := New()
	s := g.InitialState()
	play(t, g, s, "e2e4")

	require.Panics(t, func() {
		g.Undo(Move{From: chess.D2, To: chess.D4}, s)
	})
	require.Panics(t, func() {
		g.Undo(Move{From: chess.E2, To: chess.E4}, g.InitialState())
	})
}

func TestStatus(t *testing.T) {
	g := New()

	t.Run("fool's mate", func(t *testing.T) {
		s := g.InitialState()
		play(t, g, s, "f2f3", "e7e5", "g2g4", "d8h4")

		require.Equal(t, game.SideBWin, g.Status(s))
		require.Equal(t, 1.0, g.Score(game.SideBWin, s), "Black delivered mate")
		require.Equal(t, -float64(MateScore), EvaluatePositionBias(s))
	})

	t.Run("stalemate", func(t *testing.T) {
		s := mustState(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
		require.Equal(t, game.Draw, g.Status(s))
	})

	t.Run("insufficient material", func(t *testing.T) {
		s := mustState(t, "8/8/8/4k3/8/8/2B5/4K3 w - - 0 1")
		require.Equal(t, game.Draw, g.Status(s))
	})

	t.Run("threefold repetition", func(t *testing.T) {
		s := g.InitialState()
		play(t, g, s, "g1f3", "g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1")
		require.Equal(t, game.InProgress, g.Status(s))

		play(t, g, s, "f6g8")
		require.Equal(t, game.Draw, g.Status(s))
	})

	t.Run("opening is in progress", func(t *testing.T) {
		require.Equal(t, game.InProgress, g.Status(g.InitialState()))
	})
}

func TestScore(t *testing.T) {
	g := New()

	t.Run("draw uses the configured constant", func(t *testing.T) {
		require.Equal(t, 0.25, g.Score(game.Draw, g.InitialState()))
	})

	t.Run("unfinished game favoring the last mover", func(t *testing.T) {
		// Black's queen is missing and White has just moved
		s := mustState(t, "rnb1kbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1")
		require.Equal(t, 0.5, g.Score(game.InProgress, s))
	})

	t.Run("unfinished game against the last mover", func(t *testing.T) {
		s := mustState(t, "rnb1kbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
		require.Equal(t, 0.0, g.Score(game.InProgress, s))
	})

	t.Run("loss", func(t *testing.T) {
		require.Equal(t, 0.0, g.Score(game.SideAWin, mustState(t, "rnb1kbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")))
	})
}

func TestEvaluate(t *testing.T) {
	require.Equal(t, 0.0, EvaluatePositionBias(New().InitialState()), "Starting position is symmetric")
	require.Equal(t, 0.0, EvaluateMaterial(New().InitialState()))

	s := mustState(t, "rnb1kbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.Greater(t, EvaluatePositionBias(s), 80.0)
	require.Equal(t, 90.0, EvaluateMaterial(s))
}

func TestParseMove(t *testing.T) {
	g := New()
	s := g.InitialState()

	m, err := g.ParseMove(s, "e2e4")
	require.NoError(t, err)
	require.Equal(t, Move{From: chess.E2, To: chess.E4}, m)
	require.Equal(t, "e2e4", m.String())

	_, err = g.ParseMove(s, "zz")
	require.Error(t, err)

	promo := Move{From: chess.E7, To: chess.E8, Promo: chess.Queen}
	require.Equal(t, "e7e8q", promo.String())
}

func TestRender(t *testing.T) {
	g := New()
	g.Colors = false
	var buf bytes.Buffer

	require.NoError(t, g.Render(&buf, g.InitialState()))

	lines := strings.Split(buf.String(), "\n")
	require.Equal(t, "  a b c d e f g h ", lines[0])
	require.Equal(t, "8 r n b q k b n r ", lines[1])
	require.Equal(t, "1 R N B Q K B N R ", lines[8])
}

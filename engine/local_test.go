package engine

import (
	"bytes"
	"context"
	"gametree/experiments/metrics"
	"gametree/game"
	"gametree/game/chess"
	"gametree/game/tictactoe"
	"gametree/player"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

type TTTState = *tictactoe.State
type TTTMove = tictactoe.Move

// stubPlayer always proposes the same move.
type stubPlayer struct {
	move TTTMove
}

func (p *stubPlayer) Name() string        { return "stub" }
func (p *stubPlayer) Status() game.Status { return game.InProgress }
func (p *stubPlayer) ApplyMove(TTTMove)   {}
func (p *stubPlayer) Show(io.Writer) error {
	return nil
}
func (p *stubPlayer) ChooseMove() (TTTMove, metrics.SearchMetric, error) {
	return p.move, metrics.SearchMetric{}, nil
}

func randomPlayer(g *tictactoe.Game, seed uint64) player.Player[TTTMove] {
	return player.NewRandom[TTTState, TTTMove](g, g.InitialState(), rand.New(rand.NewSource(seed)))
}

func TestLocalEngineRun(t *testing.T) {
	t.Run("random players finish a game", func(t *testing.T) {
		g := tictactoe.New()
		e := NewLocalEngine[TTTState, TTTMove](g, g.InitialState(), randomPlayer(g, 1), randomPlayer(g, 2))

		gameMetric, moveMetrics, err := e.Run(context.Background())

		require.NoError(t, err)
		require.NotEqual(t, game.InProgress.String(), gameMetric.Result)
		require.GreaterOrEqual(t, gameMetric.TotalMoves, 5)
		require.LessOrEqual(t, gameMetric.TotalMoves, 9)
		require.Len(t, moveMetrics, gameMetric.TotalMoves)
		for i, m := range moveMetrics {
			require.Equal(t, i+1, m.Step)
			want := game.SideA.String()
			if i%2 == 1 {
				want = game.SideB.String()
			}
			require.Equal(t, want, m.Player, "Sides should alternate")
		}
		if gameMetric.Result == game.Draw.String() {
			require.Empty(t, gameMetric.Winner)
		} else {
			require.NotEmpty(t, gameMetric.Winner)
		}
	})

	t.Run("perfect play draws", func(t *testing.T) {
		g := tictactoe.New()
		a := player.NewAlphaBeta[TTTState, TTTMove](g, g.InitialState(), tictactoe.Evaluate, 9, rand.New(rand.NewSource(1)))
		b := player.NewAlphaBeta[TTTState, TTTMove](g, g.InitialState(), tictactoe.Evaluate, 9, rand.New(rand.NewSource(2)))
		e := NewLocalEngine[TTTState, TTTMove](g, g.InitialState(), a, b)

		gameMetric, moveMetrics, err := e.Run(context.Background())

		require.NoError(t, err)
		require.Equal(t, game.Draw.String(), gameMetric.Result)
		require.Len(t, moveMetrics, 9)
		require.Positive(t, moveMetrics[0].Nodes, "Alpha-beta reports visited nodes")
	})

	t.Run("illegal move is rejected", func(t *testing.T) {
		g := tictactoe.New()
		s := g.InitialState()
		g.Apply(TTTMove{Row: 0, Col: 0, Mark: tictactoe.X}, s)
		cheater := &stubPlayer{move: TTTMove{Row: 0, Col: 0, Mark: tictactoe.O}}
		e := NewLocalEngine[TTTState, TTTMove](g, s, randomPlayer(g, 1), cheater)

		_, _, err := e.Run(context.Background())

		require.ErrorIs(t, err, ErrIllegalMove)
	})

	t.Run("turn limit", func(t *testing.T) {
		g := chess.New()
		a := player.NewRandom[*chess.State, chess.Move](g, g.InitialState(), rand.New(rand.NewSource(1)))
		b := player.NewRandom[*chess.State, chess.Move](g, g.InitialState(), rand.New(rand.NewSource(2)))
		e := NewLocalEngine[*chess.State, chess.Move](g, g.InitialState(), a, b, WithMaxTurns(6))

		gameMetric, moveMetrics, err := e.Run(context.Background())

		require.NoError(t, err)
		require.Equal(t, game.InProgress.String(), gameMetric.Result)
		require.Empty(t, gameMetric.Winner)
		require.Len(t, moveMetrics, 6)
	})

	t.Run("canceled context", func(t *testing.T) {
		g := tictactoe.New()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		e := NewLocalEngine[TTTState, TTTMove](g, g.InitialState(), randomPlayer(g, 1), randomPlayer(g, 2))

		_, moveMetrics, err := e.Run(ctx)

		require.ErrorIs(t, err, context.Canceled)
		require.Empty(t, moveMetrics)
	})

	t.Run("shows the board after each move", func(t *testing.T) {
		g := tictactoe.New()
		g.Colors = false
		var out bytes.Buffer
		e := NewLocalEngine[TTTState, TTTMove](g, g.InitialState(), randomPlayer(g, 3), randomPlayer(g, 4), WithOutput(&out))

		_, moveMetrics, err := e.Run(context.Background())

		require.NoError(t, err)
		require.Equal(t, len(moveMetrics), bytes.Count(out.Bytes(), []byte("  a b c \n")))
	})
}

func TestWinner(t *testing.T) {
	require.Equal(t, "A", Winner(game.SideAWin))
	require.Equal(t, "B", Winner(game.SideBWin))
	require.Empty(t, Winner(game.Draw))
	require.Empty(t, Winner(game.InProgress))
}

package engine

import (
	"context"
	"fmt"
	"gametree/experiments/metrics"
	"gametree/game"
	"gametree/player"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

type Option func(o *options)

type options struct {
	maxTurns int
	out      io.Writer
}

func WithMaxTurns(turns int) Option {
	return func(o *options) {
		if turns > 0 {
			o.maxTurns = turns
		}
	}
}

// WithOutput shows the board on w after every move.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// localEngine referees a game between two in-process players. It keeps the
// reference state, checks every proposed move against it, and mirrors the
// move into both players.
type localEngine[S any, M comparable] struct {
	game    game.Game[S, M]
	state   S
	players [2]player.Player[M] // Indexed by game.Side
	options
}

func NewLocalEngine[S any, M comparable](g game.Game[S, M], state S, sideA, sideB player.Player[M], opts ...Option) Engine {
	e := &localEngine[S, M]{
		game:    g,
		state:   g.Copy(state),
		players: [2]player.Player[M]{sideA, sideB},
		options: options{maxTurns: MaxTurns},
	}
	for _, opt := range opts {
		opt(&e.options)
	}
	return e
}

// Run executes the entire game loop until the game ends.
func (e *localEngine[S, M]) Run(ctx context.Context) (metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{StartTime: time.Now()}
	var moveMetrics []metrics.MoveMetric

	log.Info().Msgf("%s (%v) vs %s (%v)", e.players[game.SideA].Name(), game.SideA, e.players[game.SideB].Name(), game.SideB)

	status := e.game.Status(e.state)
	for step := 1; status == game.InProgress && step <= e.maxTurns; step++ {
		if err := ctx.Err(); err != nil {
			return gameMetric, moveMetrics, err
		}

		side := e.game.Turn(e.state)
		current := e.players[side]
		move, searchMetric, err := current.ChooseMove()
		if err != nil {
			return gameMetric, moveMetrics, fmt.Errorf("%s (%v) failed to choose move: %w", current.Name(), side, err)
		}
		if !lo.Contains(game.LegalMoves(e.game, e.state), move) {
			return gameMetric, moveMetrics, fmt.Errorf("%s (%v) played %v: %w", current.Name(), side, move, ErrIllegalMove)
		}

		e.game.Apply(move, e.state)
		e.players[game.SideA].ApplyMove(move)
		if e.players[game.SideB] != e.players[game.SideA] {
			e.players[game.SideB].ApplyMove(move)
		}
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       side.String(),
			Move:         fmt.Sprint(move),
			SearchMetric: searchMetric,
		})
		log.Debug().Msgf("step %d: %s (%v) played %v", step, current.Name(), side, move)

		if e.out != nil {
			fmt.Fprintf(e.out, "%v plays %v\n", side, move)
			if err := player.Render(e.game, e.out, e.state); err != nil {
				return gameMetric, moveMetrics, fmt.Errorf("failed to show board: %w", err)
			}
		}

		status = e.game.Status(e.state)
		if mirrored := current.Status(); mirrored != status {
			log.Warn().Msgf("%s reports %v but the game is %v", current.Name(), mirrored, status)
		}
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)
	gameMetric.Result = status.String()
	gameMetric.Winner = Winner(status)

	if status == game.InProgress {
		log.Info().Msgf("stopped after %d moves (no result yet)", len(moveMetrics))
	} else {
		log.Info().Msgf("game over after %d moves: %v", len(moveMetrics), status)
	}
	return gameMetric, moveMetrics, nil
}

// Winner names the winning side, or returns "" for a draw or an unfinished game.
func Winner(status game.Status) string {
	switch status {
	case game.SideAWin:
		return game.SideA.String()
	case game.SideBWin:
		return game.SideB.String()
	}
	return ""
}

package player

import (
	"fmt"
	"gametree/experiments/metrics"
	"gametree/game"
	"io"

	"golang.org/x/exp/rand"
)

// Player keeps its own view of a game and picks moves for whichever side is
// to move in it. Drivers feed every played move, its own included, to
// ApplyMove.
type Player[M comparable] interface {
	Name() string
	Status() game.Status
	ChooseMove() (M, metrics.SearchMetric, error)
	ApplyMove(move M)
	Show(w io.Writer) error
}

// tracker holds a player's private copy of the position.
type tracker[S any, M comparable] struct {
	game  game.Game[S, M]
	state S
}

func newTracker[S any, M comparable](g game.Game[S, M], state S) tracker[S, M] {
	return tracker[S, M]{game: g, state: g.Copy(state)}
}

func (t *tracker[S, M]) Status() game.Status {
	return t.game.Status(t.state)
}

func (t *tracker[S, M]) ApplyMove(move M) {
	t.game.Apply(move, t.state)
}

func (t *tracker[S, M]) Show(w io.Writer) error {
	return Render(t.game, w, t.state)
}

// Render displays state with the game's renderer, or with fmt when it has none.
func Render[S any, M comparable](g game.Game[S, M], w io.Writer, state S) error {
	if r, ok := g.(game.Renderer[S]); ok {
		return r.Render(w, state)
	}
	_, err := fmt.Fprintf(w, "%v\n", state)
	return err
}

// Random plays a uniformly random legal move.
type Random[S any, M comparable] struct {
	tracker[S, M]
	rng *rand.Rand
}

func NewRandom[S any, M comparable](g game.Game[S, M], state S, rng *rand.Rand) *Random[S, M] {
	return &Random[S, M]{tracker: newTracker(g, state), rng: rng}
}

func (p *Random[S, M]) Name() string {
	return "random"
}

func (p *Random[S, M]) ChooseMove() (M, metrics.SearchMetric, error) {
	var none M
	if status := p.Status(); status != game.InProgress {
		return none, metrics.SearchMetric{}, fmt.Errorf("failed to choose move, game is %v: %w", status, game.ErrNoLegalMoves)
	}
	moves := game.LegalMoves(p.game, p.state)
	if len(moves) == 0 {
		return none, metrics.SearchMetric{}, fmt.Errorf("failed to choose move: %w", game.ErrNoLegalMoves)
	}
	return moves[p.rng.Intn(len(moves))], metrics.SearchMetric{}, nil
}

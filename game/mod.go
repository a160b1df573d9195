package game

import (
	"errors"
	"io"
)

// Status classifies a position. The engines propagate it but never decide it.
type Status int

const (
	InProgress Status = iota
	Draw
	SideAWin
	SideBWin
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in progress"
	case Draw:
		return "draw"
	case SideAWin:
		return "side A win"
	case SideBWin:
		return "side B win"
	default:
		return "unknown"
	}
}

// Side is one of the two players. SideA moves first and is the maximizing side
// for heuristics (White in chess, X in tic-tac-toe).
type Side int

const (
	SideA Side = iota
	SideB
)

func (s Side) Opponent() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

func (s Side) String() string {
	if s == SideA {
		return "A"
	}
	return "B"
}

// Winner returns the status reporting a win for side.
func Winner(side Side) Status {
	if side == SideA {
		return SideAWin
	}
	return SideBWin
}

var (
	ErrNoLegalMoves           = errors.New("no legal moves")
	ErrInvalidMoveApplication = errors.New("undo does not match the last applied move")
)

// Game is the contract a concrete game implements to be searchable. States are
// mutable and owned by the adapter: Apply and Undo must be exact inverses on the
// same instance when called in LIFO order.
type Game[S any, M comparable] interface {
	// Moves returns every legal move for side in a deterministic order
	Moves(state S, side Side) []M
	Apply(move M, state S)
	// Undo restores state to the configuration before the matching Apply.
	// Adapters panic with ErrInvalidMoveApplication on a mismatch.
	Undo(move M, state S)
	Status(state S) Status
	// Score normalizes result to [0, 1] from the perspective of the player whose
	// move produced state: 1 is a win, 0 a loss, draws and unfinished games fall in between
	Score(result Status, state S) float64
	// Turn returns the side to move
	Turn(state S) Side
	InitialState() S
	Copy(state S) S
}

// Heuristic evaluates a position from SideA's perspective, unbounded.
type Heuristic[S any] func(S) float64

// MoveParser is implemented by games that accept textual moves from humans.
type MoveParser[S any, M comparable] interface {
	ParseMove(state S, token string) (M, error)
}

// Renderer is implemented by games that can display a position.
type Renderer[S any] interface {
	Render(w io.Writer, state S) error
}

// LegalMoves returns the moves available to the side to move.
func LegalMoves[S any, M comparable](g Game[S, M], state S) []M {
	return g.Moves(state, g.Turn(state))
}

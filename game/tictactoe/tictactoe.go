package tictactoe

import (
	"fmt"
	"gametree/game"
)

type Mark byte

const (
	Empty Mark = ' '
	X     Mark = 'x'
	O     Mark = 'o'
)

func (m Mark) Opposite() Mark {
	switch m {
	case X:
		return O
	case O:
		return X
	}
	return m
}

func (m Mark) side() game.Side {
	if m == X {
		return game.SideA
	}
	return game.SideB
}

func markOf(side game.Side) Mark {
	if side == game.SideA {
		return X
	}
	return O
}

const Size = 3

type Board [Size][Size]Mark

// State is a board plus the mark that made the last move. X moves first, so a
// fresh state records O as the last mover.
type State struct {
	Board Board
	Last  Mark
}

type Move struct {
	Row  int
	Col  int
	Mark Mark
}

func (m Move) String() string {
	return fmt.Sprintf("%c%c%c", m.Mark, 'a'+m.Col, '1'+m.Row)
}

var lines = [8][3][2]int{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},

	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},

	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Game implements game.Game for tic-tac-toe. DrawScore and InProgressScore are
// the values Score assigns to draws and to unfinished (capped) playouts.
type Game struct {
	DrawScore       float64
	InProgressScore float64
	Colors          bool // ANSI colors in Render
}

func New() *Game {
	return &Game{DrawScore: 0.5, InProgressScore: 0, Colors: true}
}

func (g *Game) InitialState() *State {
	s := &State{Last: O}
	for r := range s.Board {
		for c := range s.Board[r] {
			s.Board[r][c] = Empty
		}
	}
	return s
}

func (g *Game) Copy(state *State) *State {
	cp := *state
	return &cp
}

func (g *Game) Turn(state *State) game.Side {
	return state.Last.Opposite().side()
}

func (g *Game) Moves(state *State, side game.Side) []Move {
	mark := markOf(side)
	moves := make([]Move, 0, Size*Size)
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if state.Board[r][c] == Empty {
				moves = append(moves, Move{Row: r, Col: c, Mark: mark})
			}
		}
	}
	return moves
}

func (g *Game) Apply(move Move, state *State) {
	if state.Board[move.Row][move.Col] != Empty {
		panic(fmt.Sprintf("cell %v is already taken", move))
	}
	state.Board[move.Row][move.Col] = move.Mark
	state.Last = move.Mark
}

func (g *Game) Undo(move Move, state *State) {
	if state.Board[move.Row][move.Col] != move.Mark || state.Last != move.Mark {
		panic(fmt.Errorf("undo %v: %w", move, game.ErrInvalidMoveApplication))
	}
	state.Board[move.Row][move.Col] = Empty
	state.Last = move.Mark.Opposite()
}

func (g *Game) Status(state *State) game.Status {
	for _, l := range lines {
		a := state.Board[l[0][0]][l[0][1]]
		if a == Empty {
			continue
		}
		if a == state.Board[l[1][0]][l[1][1]] && a == state.Board[l[2][0]][l[2][1]] {
			return game.Winner(a.side())
		}
	}
	if state.empties() == 0 {
		return game.Draw
	}
	return game.InProgress
}

func (g *Game) Score(result game.Status, state *State) float64 {
	switch result {
	case game.Draw:
		return g.DrawScore
	case game.InProgress:
		return g.InProgressScore
	case game.Winner(state.Last.side()):
		return 1
	default:
		return 0
	}
}

func (s *State) empties() int {
	n := 0
	for _, row := range s.Board {
		for _, m := range row {
			if m == Empty {
				n++
			}
		}
	}
	return n
}

// Evaluate is a terminal-aware heuristic from X's perspective. Wins are worth
// more the earlier they happen, so a search prefers the quickest win and the
// slowest loss.
func Evaluate(state *State) float64 {
	switch New().Status(state) {
	case game.SideAWin:
		return float64(10 + state.empties())
	case game.SideBWin:
		return -float64(10 + state.empties())
	}
	return 0
}

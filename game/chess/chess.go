package chess

import (
	"fmt"
	"gametree/game"
	"strings"

	"github.com/notnil/chess"
)

// Move identifies a chess move by its squares and promotion piece so that moves
// generated from different positions compare equal.
type Move struct {
	From  chess.Square
	To    chess.Square
	Promo chess.PieceType
}

var promoLetters = map[chess.PieceType]string{
	chess.Queen:  "q",
	chess.Rook:   "r",
	chess.Bishop: "b",
	chess.Knight: "n",
}

// String returns the move in UCI notation.
func (m Move) String() string {
	return m.From.String() + m.To.String() + promoLetters[m.Promo]
}

func fromLibrary(m *chess.Move) Move {
	return Move{From: m.S1(), To: m.S2(), Promo: m.Promo()}
}

// State is a stack of positions. Positions are immutable, so Undo pops and Copy
// shares them.
type State struct {
	positions []*chess.Position
	keys      []string
	played    []Move
}

func newState(pos *chess.Position) *State {
	return &State{positions: []*chess.Position{pos}, keys: []string{repetitionKey(pos)}}
}

func (s *State) push(pos *chess.Position, move Move) {
	s.positions = append(s.positions, pos)
	s.keys = append(s.keys, repetitionKey(pos))
	s.played = append(s.played, move)
}

// NewState parses a FEN record. An empty string yields the starting position.
func NewState(fen string) (*State, error) {
	if fen == "" {
		return newState(chess.StartingPosition()), nil
	}
	pos := &chess.Position{}
	if err := pos.UnmarshalText([]byte(fen)); err != nil {
		return nil, fmt.Errorf("failed to parse fen %q: %w", fen, err)
	}
	return newState(pos), nil
}

func (s *State) Position() *chess.Position {
	return s.positions[len(s.positions)-1]
}

// Played returns the moves applied since the state was created.
func (s *State) Played() []Move {
	return s.played
}

func (s *State) String() string {
	return s.Position().String()
}

// Game implements game.Game for chess. DrawScore and InProgressAhead are the
// values Score assigns to draws and to unfinished playouts where the position
// heuristic favors the last mover.
type Game struct {
	DrawScore       float64
	InProgressAhead float64
	Colors          bool
}

func New() *Game {
	return &Game{DrawScore: 0.25, InProgressAhead: 0.5, Colors: true}
}

func (g *Game) InitialState() *State {
	s, _ := NewState("")
	return s
}

func (g *Game) Copy(state *State) *State {
	return &State{
		positions: append([]*chess.Position(nil), state.positions...),
		keys:      append([]string(nil), state.keys...),
		played:    append([]Move(nil), state.played...),
	}
}

func side(c chess.Color) game.Side {
	if c == chess.White {
		return game.SideA
	}
	return game.SideB
}

func (g *Game) Turn(state *State) game.Side {
	return side(state.Position().Turn())
}

// Moves only generates moves for the side to move; the other side has none.
func (g *Game) Moves(state *State, s game.Side) []Move {
	pos := state.Position()
	if side(pos.Turn()) != s {
		return nil
	}
	valid := pos.ValidMoves()
	moves := make([]Move, len(valid))
	for i, m := range valid {
		moves[i] = fromLibrary(m)
	}
	return moves
}

func (g *Game) Apply(move Move, state *State) {
	pos := state.Position()
	for _, m := range pos.ValidMoves() {
		if fromLibrary(m) == move {
			state.push(pos.Update(m), move)
			return
		}
	}
	panic(fmt.Sprintf("illegal move %v in position %v", move, pos))
}

func (g *Game) Undo(move Move, state *State) {
	n := len(state.played)
	if n == 0 || state.played[n-1] != move {
		panic(fmt.Errorf("undo %v: %w", move, game.ErrInvalidMoveApplication))
	}
	state.played = state.played[:n-1]
	state.positions = state.positions[:n]
	state.keys = state.keys[:n]
}

func (g *Game) Status(state *State) game.Status {
	pos := state.Position()
	switch pos.Status() {
	case chess.Checkmate:
		// the side to move is mated
		return game.Winner(side(pos.Turn()).Opponent())
	case chess.Stalemate:
		return game.Draw
	}
	if insufficientMaterial(pos.Board()) || repeated(state, 3) {
		return game.Draw
	}
	return game.InProgress
}

func (g *Game) Score(result game.Status, state *State) float64 {
	mover := side(state.Position().Turn()).Opponent()
	switch result {
	case game.Winner(mover):
		return 1
	case game.Draw:
		return g.DrawScore
	case game.InProgress:
		score := EvaluatePositionBias(state)
		if (score > 0 && mover == game.SideA) || (score < 0 && mover == game.SideB) {
			return g.InProgressAhead
		}
		return 0
	default:
		return 0
	}
}

// insufficientMaterial reports bare kings, or a single minor piece against a bare king.
func insufficientMaterial(b *chess.Board) bool {
	minors := 0
	for sq := chess.A1; sq <= chess.H8; sq++ {
		switch b.Piece(sq).Type() {
		case chess.NoPieceType, chess.King:
		case chess.Knight, chess.Bishop:
			minors++
		default:
			return false
		}
	}
	return minors <= 1
}

// repeated reports whether the current position occurred at least n times.
func repeated(state *State, n int) bool {
	if len(state.keys) < 2*n-1 {
		return false
	}
	current := state.keys[len(state.keys)-1]
	count := 0
	for i := len(state.keys) - 1; i >= 0; i -= 2 {
		if state.keys[i] == current {
			count++
			if count >= n {
				return true
			}
		}
	}
	return false
}

// repetitionKey is the FEN without the move counters.
func repetitionKey(pos *chess.Position) string {
	fields := strings.Fields(pos.String())
	if len(fields) > 4 {
		fields = fields[:4]
	}
	return strings.Join(fields, " ")
}

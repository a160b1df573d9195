package chess

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
	"github.com/notnil/chess"
)

var pieceLetters = map[chess.PieceType]string{
	chess.Pawn:   "P",
	chess.Knight: "N",
	chess.Bishop: "B",
	chess.Rook:   "R",
	chess.Queen:  "Q",
	chess.King:   "K",
}

// Render prints the board with rank 8 at the top. With Colors set, White pieces
// are blue and Black pieces green; otherwise Black pieces are lower case.
func (g *Game) Render(w io.Writer, state *State) error {
	board := state.Position().Board()
	var b strings.Builder
	b.WriteString("  ")
	for f := 0; f < 8; f++ {
		fmt.Fprintf(&b, "%c ", 'a'+f)
	}
	b.WriteString("\n")
	for r := 7; r >= 0; r-- {
		fmt.Fprintf(&b, "%d ", r+1)
		for f := 0; f < 8; f++ {
			b.WriteString(g.square(board.Piece(chess.Square(8*r + f))))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (g *Game) square(piece chess.Piece) string {
	if piece == chess.NoPiece {
		return "."
	}
	letter := pieceLetters[piece.Type()]
	switch {
	case g.Colors && piece.Color() == chess.White:
		return termenv.String(letter).Foreground(termenv.ANSIBlue).String()
	case g.Colors:
		return termenv.String(letter).Foreground(termenv.ANSIGreen).String()
	case piece.Color() == chess.Black:
		return strings.ToLower(letter)
	default:
		return letter
	}
}

// ParseMove decodes a move in UCI notation ("e2e4", "e7e8q") against the current position.
func (g *Game) ParseMove(state *State, token string) (Move, error) {
	m, err := chess.UCINotation{}.Decode(state.Position(), strings.TrimSpace(token))
	if err != nil {
		return Move{}, fmt.Errorf("invalid move %q: %w", token, err)
	}
	return fromLibrary(m), nil
}

package tictactoe

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// Render prints the board with rank 3 at the top, coloring marks when Colors is set.
func (g *Game) Render(w io.Writer, state *State) error {
	var b strings.Builder
	b.WriteString("  ")
	for c := 0; c < Size; c++ {
		fmt.Fprintf(&b, "%c ", 'a'+c)
	}
	b.WriteString("\n")
	for r := Size - 1; r >= 0; r-- {
		fmt.Fprintf(&b, "%d ", r+1)
		for c := 0; c < Size; c++ {
			b.WriteString(g.cell(state.Board[r][c]))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (g *Game) cell(m Mark) string {
	if m == Empty {
		return "."
	}
	s := string(rune(m))
	if !g.Colors {
		return s
	}
	if m == X {
		return termenv.String(s).Foreground(termenv.ANSIBlue).String()
	}
	return termenv.String(s).Foreground(termenv.ANSIGreen).String()
}

// ParseMove reads a column letter and a row digit ("b2") and assigns the mark
// of the side to move.
func (g *Game) ParseMove(state *State, token string) (Move, error) {
	token = strings.TrimSpace(strings.ToLower(token))
	if len(token) != 2 {
		return Move{}, fmt.Errorf("invalid move %q: expected a column and a row, e.g. b2", token)
	}
	c := int(token[0]) - 'a'
	r := int(token[1]) - '1'
	if c < 0 || c >= Size || r < 0 || r >= Size {
		return Move{}, fmt.Errorf("invalid move %q: off the board", token)
	}
	return Move{Row: r, Col: c, Mark: markOf(g.Turn(state))}, nil
}

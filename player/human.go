package player

import (
	"bufio"
	"errors"
	"fmt"
	"gametree/experiments/metrics"
	"gametree/game"
	"io"
	"strings"

	"github.com/samber/lo"
)

var ErrNoInput = errors.New("input closed")

// Human reads moves from a line-oriented input, prompting again until it gets
// a legal one.
type Human[S any, M comparable] struct {
	tracker[S, M]
	parser game.MoveParser[S, M]
	in     *bufio.Scanner
	out    io.Writer
}

func NewHuman[S any, M comparable](g game.Game[S, M], parser game.MoveParser[S, M], state S, in io.Reader, out io.Writer) *Human[S, M] {
	return &Human[S, M]{
		tracker: newTracker(g, state),
		parser:  parser,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

func (p *Human[S, M]) Name() string {
	return "human"
}

func (p *Human[S, M]) ChooseMove() (M, metrics.SearchMetric, error) {
	var none M
	if status := p.Status(); status != game.InProgress {
		return none, metrics.SearchMetric{}, fmt.Errorf("failed to choose move, game is %v: %w", status, game.ErrNoLegalMoves)
	}
	legal := game.LegalMoves(p.game, p.state)

	for {
		fmt.Fprint(p.out, "your move: ")
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return none, metrics.SearchMetric{}, fmt.Errorf("failed to read move: %w", err)
			}
			return none, metrics.SearchMetric{}, ErrNoInput
		}
		token := strings.TrimSpace(p.in.Text())
		if token == "" {
			continue
		}

		move, err := p.parser.ParseMove(p.state, token)
		if err != nil {
			fmt.Fprintf(p.out, "%v\n", err)
			continue
		}
		if !lo.Contains(legal, move) {
			fmt.Fprintf(p.out, "illegal move %v\n", move)
			continue
		}
		return move, metrics.SearchMetric{}, nil
	}
}

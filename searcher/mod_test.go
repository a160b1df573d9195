package searcher

import (
	"gametree/game/tictactoe"
)

type tttNode = Node[*tictactoe.State, tictactoe.Move]

// position builds a tic-tac-toe state from rows written top (rank 3) to bottom.
func position(last tictactoe.Mark, rows ...string) *tictactoe.State {
	s := tictactoe.New().InitialState()
	for i, row := range rows {
		r := tictactoe.Size - 1 - i
		for c := 0; c < tictactoe.Size; c++ {
			if row[c] != '.' {
				s.Board[r][c] = tictactoe.Mark(row[c])
			}
		}
	}
	s.Last = last
	return s
}

func newSearch(state *tictactoe.State, options ...Option) *MCTS[*tictactoe.State, tictactoe.Move] {
	return NewMCTSFromState[*tictactoe.State, tictactoe.Move](
		tictactoe.New(),
		state,
		NewUCT[*tictactoe.State, tictactoe.Move](),
		UniformRandomPlayout[*tictactoe.State, tictactoe.Move]{},
		options...,
	)
}

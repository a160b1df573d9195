package metrics

import (
	"gametree/game"
	"sort"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// Summary tallies the games of one match-up.
type Summary struct {
	MatchUp        int
	AgentA         int
	AgentB         int
	Games          int
	WinsA          int
	WinsB          int
	Draws          int
	Unfinished     int
	MeanMoves      float64
	StdMoves       float64
	MeanMoveMillis float64
}

// Summarize groups game records by match-up, in match-up order.
func Summarize(games []GameRecord, moves []MoveRecord) []Summary {
	movesByGame := lo.GroupBy(moves, func(m MoveRecord) int { return m.Game })
	byMatchUp := lo.GroupBy(games, func(g GameRecord) int { return g.MatchUp })
	matchUps := lo.Keys(byMatchUp)
	sort.Ints(matchUps)

	summaries := make([]Summary, 0, len(matchUps))
	for _, id := range matchUps {
		records := byMatchUp[id]
		s := Summary{
			MatchUp: id,
			AgentA:  records[0].AgentA,
			AgentB:  records[0].AgentB,
			Games:   len(records),
		}

		lengths := make([]float64, 0, len(records))
		var durations []float64
		for _, record := range records {
			switch {
			case record.Winner == game.SideA.String():
				s.WinsA++
			case record.Winner == game.SideB.String():
				s.WinsB++
			case record.Result == game.Draw.String():
				s.Draws++
			default:
				s.Unfinished++
			}
			lengths = append(lengths, float64(record.TotalMoves))
			for _, m := range movesByGame[record.ID] {
				durations = append(durations, float64(m.Duration.Microseconds())/1000)
			}
		}

		s.MeanMoves, s.StdMoves = meanStdDev(lengths)
		s.MeanMoveMillis, _ = meanStdDev(durations)
		summaries = append(summaries, s)
	}
	return summaries
}

func meanStdDev(x []float64) (float64, float64) {
	switch len(x) {
	case 0:
		return 0, 0
	case 1:
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}

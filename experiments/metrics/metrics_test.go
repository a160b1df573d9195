package metrics

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCollector(t *testing.T) {
	t.Run("counts between start and complete", func(t *testing.T) {
		c := NewCollector()
		c.Start()
		c.SetTreeReused(true)
		c.AddEpisode()
		c.AddEpisode()
		c.AddFullPlayout()
		c.AddNodes(9)

		metric := c.Complete()

		require.Equal(t, 2, metric.Episodes)
		require.Equal(t, 1, metric.FullPlayouts)
		require.Equal(t, 9, metric.Nodes)
		require.True(t, metric.IsTreeReused)
	})

	t.Run("start resets counts", func(t *testing.T) {
		c := NewCollector()
		c.Start()
		c.AddEpisode()
		c.Start()

		require.Zero(t, c.Complete().Episodes)
	})

	t.Run("dummy collects nothing", func(t *testing.T) {
		c := NewDummyCollector()
		c.Start()
		c.AddEpisode()
		require.Equal(t, SearchMetric{}, c.Complete())
	})
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "unit")
	require.NoError(t, err)

	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	games := []GameRecord{{
		ID: 1, MatchUp: 1, AgentA: 1, AgentB: 2,
		GameMetric: GameMetric{Winner: "A", Result: "side A win", StartTime: start, EndTime: start.Add(time.Second), Duration: time.Second, TotalMoves: 7},
	}}
	moves := []MoveRecord{{
		Game:       1,
		MoveMetric: MoveMetric{Step: 1, Player: "A", Move: "xb2", SearchMetric: SearchMetric{Duration: time.Millisecond, Episodes: 200, FullPlayouts: 200, Nodes: 40}},
	}}

	require.NoError(t, w.WriteAgentConfigs([]AgentConfig{{ID: 1, Kind: "mcts", Playouts: 200}, {ID: 2, Kind: "alphabeta", Depth: 2}}))
	require.NoError(t, w.WriteGameRecords(games))
	require.NoError(t, w.WriteMoveRecords(moves))
	require.NoError(t, w.WriteSummaries(Summarize(games, moves)))

	configs := readCSV(t, filepath.Join(w.Dir(), "agent_configs.csv"))
	require.Len(t, configs, 3)
	require.Equal(t, []string{"2", "alphabeta", "0", "0", "2", "0"}, configs[2])

	gameRows := readCSV(t, filepath.Join(w.Dir(), "game_records.csv"))
	require.Equal(t, []string{"1", "1", "1", "2", "side A win", "A", "2024-01-02T03:04:05Z", "2024-01-02T03:04:06Z", "1s", "7"}, gameRows[1])

	moveRows := readCSV(t, filepath.Join(w.Dir(), "move_records.csv"))
	require.Equal(t, []string{"1", "1", "A", "xb2", "1ms", "200", "200", "40", "false"}, moveRows[1])

	summary := readCSV(t, filepath.Join(w.Dir(), "summary.csv"))
	require.Equal(t, "1", summary[1][4], "One win for side A")
}

func TestSummarize(t *testing.T) {
	game := func(id, matchUp int, winner, result string, moves int) GameRecord {
		return GameRecord{ID: id, MatchUp: matchUp, AgentA: matchUp, AgentB: matchUp + 10, GameMetric: GameMetric{Winner: winner, Result: result, TotalMoves: moves}}
	}
	games := []GameRecord{
		game(1, 2, "A", "side A win", 5),
		game(2, 1, "B", "side B win", 6),
		game(3, 1, "", "draw", 9),
		game(4, 1, "", "in progress", 7),
		game(5, 1, "A", "side A win", 8),
	}
	moves := []MoveRecord{
		{Game: 2, MoveMetric: MoveMetric{SearchMetric: SearchMetric{Duration: 2 * time.Millisecond}}},
		{Game: 3, MoveMetric: MoveMetric{SearchMetric: SearchMetric{Duration: 4 * time.Millisecond}}},
	}

	summaries := Summarize(games, moves)

	require.Len(t, summaries, 2)
	first := summaries[0]
	require.Equal(t, 1, first.MatchUp, "Summaries should be ordered by match-up")
	require.Equal(t, 11, first.AgentB)
	require.Equal(t, 4, first.Games)
	require.Equal(t, 1, first.WinsA)
	require.Equal(t, 1, first.WinsB)
	require.Equal(t, 1, first.Draws)
	require.Equal(t, 1, first.Unfinished)
	require.InDelta(t, 7.5, first.MeanMoves, 1e-9)
	require.InDelta(t, 1.290994, first.StdMoves, 1e-6)
	require.InDelta(t, 3.0, first.MeanMoveMillis, 1e-9)

	second := summaries[1]
	require.Equal(t, 1, second.Games)
	require.Equal(t, 5.0, second.MeanMoves)
	require.Zero(t, second.StdMoves, "A single game has no spread")
}

func TestRenderCharts(t *testing.T) {
	var buf bytes.Buffer

	err := RenderCharts(&buf, "unit", []Summary{{MatchUp: 1, AgentA: 1, AgentB: 2, Games: 3, WinsA: 2, Draws: 1, MeanMoves: 7}})

	require.NoError(t, err)
	require.Contains(t, buf.String(), "<html")
	require.Contains(t, buf.String(), "side A wins")
}

package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// AgentConfig describes one competitor in an experiment.
type AgentConfig struct {
	ID            int     `yaml:"id"`
	Kind          string  `yaml:"kind"` // mcts, alphabeta or random
	Playouts      int     `yaml:"playouts"`
	PlayoutLength int     `yaml:"playout_length"`
	Depth         int     `yaml:"depth"`
	Temperature   float64 `yaml:"temperature"`
}

type GameRecord struct {
	ID      int
	MatchUp int
	AgentA  int // AgentConfig.ID playing side A
	AgentB  int // AgentConfig.ID playing side B
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates a subfolder of root named by the experiment and the
// current timestamp.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "kind", "playouts", "playout_length", "depth", "temperature"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Kind,
			strconv.Itoa(config.Playouts),
			strconv.Itoa(config.PlayoutLength),
			strconv.Itoa(config.Depth),
			strconv.FormatFloat(config.Temperature, 'f', -1, 64),
		})
	}
	return w.writeCSV("agent_configs.csv", "agent configs", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "match_up", "agent_a", "agent_b", "result", "winner", "start_time", "end_time", "duration", "total_moves"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.MatchUp),
			strconv.Itoa(record.AgentA),
			strconv.Itoa(record.AgentB),
			record.Result,
			record.Winner,
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.TotalMoves),
		})
	}
	return w.writeCSV("game_records.csv", "game records", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "move", "duration", "episodes", "full_playouts", "nodes", "is_tree_reused"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			record.Player,
			record.Move,
			record.Duration.String(),
			strconv.Itoa(record.Episodes),
			strconv.Itoa(record.FullPlayouts),
			strconv.Itoa(record.Nodes),
			strconv.FormatBool(record.IsTreeReused),
		})
	}
	return w.writeCSV("move_records.csv", "move records", header, rows)
}

func (w *Writer) WriteSummaries(summaries []Summary) error {
	header := []string{"match_up", "agent_a", "agent_b", "games", "wins_a", "wins_b", "draws", "unfinished", "mean_moves", "std_moves", "mean_move_duration_ms"}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			strconv.Itoa(s.MatchUp),
			strconv.Itoa(s.AgentA),
			strconv.Itoa(s.AgentB),
			strconv.Itoa(s.Games),
			strconv.Itoa(s.WinsA),
			strconv.Itoa(s.WinsB),
			strconv.Itoa(s.Draws),
			strconv.Itoa(s.Unfinished),
			strconv.FormatFloat(s.MeanMoves, 'f', 3, 64),
			strconv.FormatFloat(s.StdMoves, 'f', 3, 64),
			strconv.FormatFloat(s.MeanMoveMillis, 'f', 3, 64),
		})
	}
	return w.writeCSV("summary.csv", "summary", header, rows)
}

func (w *Writer) writeCSV(file, what string, header []string, rows [][]string) error {
	// Create a file
	path := filepath.Join(w.baseDir, file)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s file: %w", what, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	// Write header
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", what, err)
	}

	// Write each row
	for _, row := range rows {
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write %s row: %w", what, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", what, err)
	}
	return nil
}

package experiments

import (
	"context"
	"fmt"
	"gametree/engine"
	"gametree/experiments/metrics"
	"gametree/game"
	"gametree/game/chess"
	"gametree/game/tictactoe"
	"gametree/player"
	"gametree/searcher"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Result holds the records of a finished experiment.
type Result struct {
	Games     []metrics.GameRecord
	Moves     []metrics.MoveRecord
	Summaries []metrics.Summary
	Dir       string // Output directory, empty when nothing was written
}

type gameTask struct {
	id      int
	matchUp int
	agentA  metrics.AgentConfig
	agentB  metrics.AgentConfig
	seed    uint64
}

type gameOutcome struct {
	gameMetric  metrics.GameMetric
	moveMetrics []metrics.MoveMetric
}

// Run plays every match-up config.Games times, with up to config.Concurrency
// games at once, and writes the records when config.Output is set.
func Run(ctx context.Context, config *Config) (*Result, error) {
	agents := config.agentsByID()
	baseSeed := config.Seed
	if baseSeed == 0 {
		baseSeed = searcher.NewRand(0).Uint64()
	}

	var tasks []gameTask
	for mi, matchUp := range config.MatchUps {
		for i := 0; i < config.Games; i++ {
			id := len(tasks) + 1
			tasks = append(tasks, gameTask{
				id:      id,
				matchUp: mi + 1,
				agentA:  agents[matchUp[0]],
				agentB:  agents[matchUp[1]],
				seed:    baseSeed + uint64(2*id),
			})
		}
	}

	log.Info().Msgf("starting %s experiment with %d games...", config.Name, len(tasks))

	outcomes := make([]gameOutcome, len(tasks))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(config.Concurrency)
	for i, task := range tasks {
		i, task := i, task
		group.Go(func() error {
			log.Info().Msgf("starting match-up %d game %d: agent %d vs agent %d", task.matchUp, task.id, task.agentA.ID, task.agentB.ID)
			gameMetric, moveMetrics, err := runGame(ctx, config, task)
			if err != nil {
				return fmt.Errorf("game %d: %w", task.id, err)
			}
			outcomes[i] = gameOutcome{gameMetric: gameMetric, moveMetrics: moveMetrics}
			log.Info().Msgf("completed match-up %d game %d: %s", task.matchUp, task.id, gameMetric.Result)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	result := &Result{}
	for i, task := range tasks {
		result.Games = append(result.Games, metrics.GameRecord{
			ID:         task.id,
			MatchUp:    task.matchUp,
			AgentA:     task.agentA.ID,
			AgentB:     task.agentB.ID,
			GameMetric: outcomes[i].gameMetric,
		})
		for _, mm := range outcomes[i].moveMetrics {
			result.Moves = append(result.Moves, metrics.MoveRecord{
				Game:       task.id,
				MoveMetric: mm,
			})
		}
	}
	result.Summaries = metrics.Summarize(result.Games, result.Moves)
	for _, s := range result.Summaries {
		log.Info().Msgf("match-up %d (agent %d vs agent %d): A %d, B %d, draws %d, unfinished %d", s.MatchUp, s.AgentA, s.AgentB, s.WinsA, s.WinsB, s.Draws, s.Unfinished)
	}
	log.Info().Msgf("completed %s experiment", config.Name)

	if config.Output != "" {
		dir, err := write(config, result)
		if err != nil {
			return nil, err
		}
		result.Dir = dir
	}
	return result, nil
}

func runGame(ctx context.Context, config *Config, task gameTask) (metrics.GameMetric, []metrics.MoveMetric, error) {
	switch config.Game {
	case GameTicTacToe:
		return playGame[*tictactoe.State, tictactoe.Move](ctx, tictactoe.New(), tictactoe.Evaluate, task, config.MaxTurns)
	case GameChess:
		return playGame[*chess.State, chess.Move](ctx, chess.New(), chess.EvaluatePositionBias, task, config.MaxTurns)
	}
	return metrics.GameMetric{}, nil, fmt.Errorf("unknown game %q", config.Game)
}

func playGame[S any, M comparable](ctx context.Context, g game.Game[S, M], heuristic game.Heuristic[S], task gameTask, maxTurns int) (metrics.GameMetric, []metrics.MoveMetric, error) {
	state := g.InitialState()
	a, err := player.New(g, state, heuristic, playerConfig(task.agentA), searcher.NewRand(task.seed))
	if err != nil {
		return metrics.GameMetric{}, nil, err
	}
	b, err := player.New(g, state, heuristic, playerConfig(task.agentB), searcher.NewRand(task.seed+1))
	if err != nil {
		return metrics.GameMetric{}, nil, err
	}
	return engine.NewLocalEngine(g, state, a, b, engine.WithMaxTurns(maxTurns)).Run(ctx)
}

func write(config *Config, result *Result) (string, error) {
	writer, err := metrics.NewWriter(config.Output, config.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	// Store experiment metadata
	err = writer.WriteAgentConfigs(config.Agents)
	if err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	// Store experiment results
	err = writer.WriteGameRecords(result.Games)
	if err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	err = writer.WriteMoveRecords(result.Moves)
	if err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")

	err = writer.WriteSummaries(result.Summaries)
	if err != nil {
		return "", fmt.Errorf("failed to write summary: %w", err)
	}

	f, err := os.Create(filepath.Join(writer.Dir(), "charts.html"))
	if err != nil {
		return "", fmt.Errorf("failed to create charts file: %w", err)
	}
	defer f.Close()
	if err := metrics.RenderCharts(f, config.Name, result.Summaries); err != nil {
		return "", err
	}
	log.Info().Msgf("stored results in %s", writer.Dir())

	return writer.Dir(), nil
}

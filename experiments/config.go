package experiments

import (
	"gametree/experiments/metrics"
	"gametree/meta"
	"gametree/player"
	"os"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const (
	GameTicTacToe = "tictactoe"
	GameChess     = "chess"
)

// Config is an experiment: a set of agents and the match-ups between them.
// Each match-up lists the agent playing side A first.
type Config struct {
	Name        string                `yaml:"name"`
	Game        string                `yaml:"game"`
	Games       int                   `yaml:"games"` // Per match-up
	Seed        uint64                `yaml:"seed"`
	MaxTurns    int                   `yaml:"max_turns"`
	Concurrency int                   `yaml:"concurrency"`
	Output      string                `yaml:"output"`
	Agents      []metrics.AgentConfig `yaml:"agents"`
	MatchUps    [][2]int              `yaml:"matchups"`
}

// LoadConfig reads a YAML experiment file and fills in defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read experiment config %s", path)
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (*Config, error) {
	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "failed to parse experiment config")
	}
	config.setDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) setDefaults() {
	if c.Name == "" {
		c.Name = c.Game
	}
	if c.Games <= 0 {
		c.Games = meta.GAMES
	}
	if c.MaxTurns <= 0 {
		c.MaxTurns = meta.MAX_TURNS
	}
	if c.Concurrency <= 0 {
		c.Concurrency = meta.CONCURRENCY
	}
	for i := range c.Agents {
		agent := &c.Agents[i]
		if agent.Kind == player.KindMCTS && agent.Playouts <= 0 {
			agent.Playouts = meta.PLAYOUTS
		}
		if agent.Kind == player.KindMCTS && agent.PlayoutLength <= 0 {
			agent.PlayoutLength = meta.PLAYOUT_LENGTH
		}
		if agent.Kind == player.KindAlphaBeta && agent.Depth <= 0 {
			agent.Depth = meta.DEPTH
		}
	}
}

func (c *Config) Validate() error {
	if c.Game != GameTicTacToe && c.Game != GameChess {
		return errors.Errorf("unknown game %q", c.Game)
	}
	if len(c.MatchUps) == 0 {
		return errors.New("no match-ups")
	}

	duplicates := lo.FindDuplicates(lo.Map(c.Agents, func(a metrics.AgentConfig, _ int) int { return a.ID }))
	if len(duplicates) > 0 {
		return errors.Errorf("duplicate agent ids %v", duplicates)
	}
	for _, agent := range c.Agents {
		switch agent.Kind {
		case player.KindMCTS, player.KindAlphaBeta, player.KindRandom:
		default:
			return errors.Errorf("agent %d: unknown kind %q", agent.ID, agent.Kind)
		}
	}

	agents := c.agentsByID()
	for i, matchUp := range c.MatchUps {
		for _, id := range matchUp {
			if _, ok := agents[id]; !ok {
				return errors.Errorf("match-up %d: unknown agent %d", i+1, id)
			}
		}
	}
	return nil
}

func (c *Config) agentsByID() map[int]metrics.AgentConfig {
	return lo.KeyBy(c.Agents, func(a metrics.AgentConfig) int { return a.ID })
}

func playerConfig(agent metrics.AgentConfig) player.Config {
	return player.Config{
		Kind:          agent.Kind,
		Playouts:      agent.Playouts,
		PlayoutLength: agent.PlayoutLength,
		Depth:         agent.Depth,
		Temperature:   agent.Temperature,
	}
}

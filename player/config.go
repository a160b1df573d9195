package player

import (
	"gametree/game"
	"gametree/meta"
	"gametree/searcher"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

const (
	KindMCTS      = "mcts"
	KindAlphaBeta = "alphabeta"
	KindRandom    = "random"
	KindHuman     = "human"
)

// Config selects and tunes an AI player.
type Config struct {
	Kind          string
	Playouts      int
	PlayoutLength int
	Depth         int
	Temperature   float64
}

func DefaultConfig(kind string) Config {
	return Config{
		Kind:          kind,
		Playouts:      meta.PLAYOUTS,
		PlayoutLength: meta.PLAYOUT_LENGTH,
		Depth:         meta.DEPTH,
	}
}

// ParseConfig reads a player description: the kind followed by an optional
// colon and comma-separated key=value parameters, e.g.
// "mcts:playouts=500,playout_length=50" or "alphabeta:depth=3". Parameters
// not given keep their value from defaults.
func ParseConfig(spec string, defaults Config) (Config, error) {
	kind, params, _ := strings.Cut(strings.TrimSpace(spec), ":")
	switch kind {
	case KindMCTS, KindAlphaBeta, KindRandom, KindHuman:
	default:
		return Config{}, errors.Errorf("unknown player %q", kind)
	}

	config := defaults
	config.Kind = kind
	if params == "" {
		return config, nil
	}
	for _, part := range strings.Split(params, ",") {
		key, value, _ := strings.Cut(part, "=")
		var err error
		switch key {
		case "playouts":
			config.Playouts, err = strconv.Atoi(value)
		case "playout_length":
			config.PlayoutLength, err = strconv.Atoi(value)
		case "depth":
			config.Depth, err = strconv.Atoi(value)
		case "temperature":
			config.Temperature, err = strconv.ParseFloat(value, 64)
		default:
			return Config{}, errors.Errorf("unknown parameter %q for player %q", key, kind)
		}
		if err != nil {
			return Config{}, errors.Wrapf(err, "failed to parse configuration %s=%q", key, value)
		}
	}
	return config, nil
}

// New builds the AI player described by config. Human players need an input
// and are built with NewHuman.
func New[S any, M comparable](g game.Game[S, M], state S, heuristic game.Heuristic[S], config Config, rng *rand.Rand) (Player[M], error) {
	switch config.Kind {
	case KindMCTS:
		p := NewMCTS(g, state, config.PlayoutLength, rng, searcher.WithPlayouts(config.Playouts), searcher.WithMetrics())
		return p.WithTemperature(config.Temperature), nil
	case KindAlphaBeta:
		if config.Depth < 1 {
			return nil, errors.Wrapf(searcher.ErrInvalidDepth, "alpha-beta depth %d", config.Depth)
		}
		return NewAlphaBeta(g, state, heuristic, config.Depth, rng), nil
	case KindRandom:
		return NewRandom(g, state, rng), nil
	}
	return nil, errors.Errorf("cannot build %q player", config.Kind)
}

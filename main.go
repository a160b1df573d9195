package main

import (
	"context"
	"flag"
	"fmt"
	"gametree/engine"
	"gametree/experiments"
	"gametree/experiments/metrics"
	"gametree/game"
	"gametree/game/chess"
	"gametree/game/tictactoe"
	"gametree/meta"
	"gametree/player"
	"gametree/searcher"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type options struct {
	mode     string
	white    player.Config
	black    player.Config
	games    int
	seed     uint64
	dump     int
	maxTurns int
}

func main() {
	mode := flag.String("mode", "play", "play (one game on the board), selfplay or experiment")
	gameName := flag.String("game", experiments.GameTicTacToe, "tictactoe or chess")
	fen := flag.String("fen", "", "chess starting position in FEN")
	white := flag.String("white", player.KindHuman, "side A player: human, mcts, alphabeta or random, with optional parameters, e.g. mcts:playouts=500")
	black := flag.String("black", player.KindMCTS, "side B player, same format as -white")
	playouts := flag.Int("playouts", meta.PLAYOUTS, "default MCTS playouts per move")
	depth := flag.Int("depth", meta.DEPTH, "default alpha-beta search depth")
	playoutLength := flag.Int("playout-len", meta.PLAYOUT_LENGTH, "default MCTS playout length cap, 0 plays to the end")
	games := flag.Int("games", 1, "number of self-play games")
	maxTurns := flag.Int("max-turns", meta.MAX_TURNS, "stop a game after this many moves")
	seed := flag.Uint64("seed", 0, "random seed, 0 seeds from the clock")
	configPath := flag.String("config", "", "experiment config (YAML)")
	logLevel := flag.String("log-level", "info", "trace, debug, info, warn or error")
	dump := flag.Int("dump", 0, "print the MCTS tree to this depth after each search")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	zerolog.SetGlobalLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *mode == "experiment" {
		if err := runExperiment(ctx, *configPath); err != nil {
			log.Fatal().Err(err).Msg("experiment failed")
		}
		return
	}
	if *mode != "play" && *mode != "selfplay" {
		log.Fatal().Msgf("unknown mode %q", *mode)
	}

	defaults := player.Config{Playouts: *playouts, PlayoutLength: *playoutLength, Depth: *depth}
	opts := options{mode: *mode, games: *games, seed: *seed, dump: *dump, maxTurns: *maxTurns}
	if opts.white, err = player.ParseConfig(*white, defaults); err != nil {
		log.Fatal().Err(err).Msg("invalid -white")
	}
	if opts.black, err = player.ParseConfig(*black, defaults); err != nil {
		log.Fatal().Err(err).Msg("invalid -black")
	}
	if opts.seed == 0 {
		opts.seed = uint64(time.Now().UnixNano())
	}
	log.Debug().Msgf("seed %d", opts.seed)

	switch *gameName {
	case experiments.GameTicTacToe:
		g := tictactoe.New()
		err = run[*tictactoe.State, tictactoe.Move](ctx, g, g, tictactoe.Evaluate, g.InitialState(), opts)
	case experiments.GameChess:
		g := chess.New()
		state, perr := chess.NewState(*fen)
		if perr != nil {
			log.Fatal().Err(perr).Msg("invalid -fen")
		}
		err = run[*chess.State, chess.Move](ctx, g, g, chess.EvaluatePositionBias, state, opts)
	default:
		log.Fatal().Msgf("unknown game %q", *gameName)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("game failed")
	}
}

func runExperiment(ctx context.Context, path string) error {
	if path == "" {
		return fmt.Errorf("experiment mode needs -config")
	}
	config, err := experiments.LoadConfig(path)
	if err != nil {
		return err
	}
	_, err = experiments.Run(ctx, config)
	return err
}

// run plays opts.games games and tallies the results.
func run[S any, M comparable](ctx context.Context, g game.Game[S, M], parser game.MoveParser[S, M], heuristic game.Heuristic[S], state S, opts options) error {
	tally := map[game.Status]int{}
	for i := 0; i < opts.games; i++ {
		a, err := newPlayer(g, parser, heuristic, state, opts.white, opts, opts.seed+uint64(2*i))
		if err != nil {
			return err
		}
		b, err := newPlayer(g, parser, heuristic, state, opts.black, opts, opts.seed+uint64(2*i+1))
		if err != nil {
			return err
		}

		engineOptions := []engine.Option{engine.WithMaxTurns(opts.maxTurns)}
		if opts.mode == "play" {
			fmt.Println()
			if err := player.Render(g, os.Stdout, state); err != nil {
				return err
			}
			engineOptions = append(engineOptions, engine.WithOutput(os.Stdout))
		}

		gameMetric, _, err := engine.NewLocalEngine(g, state, a, b, engineOptions...).Run(ctx)
		if err != nil {
			return err
		}
		switch gameMetric.Result {
		case game.SideAWin.String():
			tally[game.SideAWin]++
		case game.SideBWin.String():
			tally[game.SideBWin]++
		case game.Draw.String():
			tally[game.Draw]++
		default:
			tally[game.InProgress]++
		}
		log.Info().Msgf("game %d of %d: %s in %d moves", i+1, opts.games, gameMetric.Result, gameMetric.TotalMoves)
	}

	log.Info().Msgf("%s (A) wins %d, %s (B) wins %d, draws %d, unfinished %d",
		opts.white.Kind, tally[game.SideAWin], opts.black.Kind, tally[game.SideBWin], tally[game.Draw], tally[game.InProgress])
	return nil
}

func newPlayer[S any, M comparable](g game.Game[S, M], parser game.MoveParser[S, M], heuristic game.Heuristic[S], state S, config player.Config, opts options, seed uint64) (player.Player[M], error) {
	if config.Kind == player.KindHuman {
		return player.NewHuman(g, parser, state, os.Stdin, os.Stdout), nil
	}
	p, err := player.New(g, state, heuristic, config, searcher.NewRand(seed))
	if err != nil {
		return nil, err
	}
	if mcts, ok := p.(*player.MCTS[S, M]); ok && opts.dump > 0 {
		return &dumper[S, M]{MCTS: mcts, depth: opts.dump, w: os.Stdout}, nil
	}
	return p, nil
}

// dumper prints the search tree after every move an MCTS player chooses.
type dumper[S any, M comparable] struct {
	*player.MCTS[S, M]
	depth int
	w     io.Writer
}

func (d *dumper[S, M]) ChooseMove() (M, metrics.SearchMetric, error) {
	move, metric, err := d.MCTS.ChooseMove()
	if err != nil {
		return move, metric, err
	}
	if err := d.Tree().Dump(d.w, d.depth); err != nil {
		log.Warn().Err(err).Msg("failed to dump tree")
	}
	return move, metric, nil
}

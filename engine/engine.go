package engine

import (
	"context"
	"errors"
	"gametree/experiments/metrics"
)

const MaxTurns = 500

var ErrIllegalMove = errors.New("illegal move")

type Engine interface {
	// Run plays a game till it ends or a max number of turns is reached
	Run(ctx context.Context) (gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}

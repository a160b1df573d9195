package metrics

import (
	"sync/atomic"
	"time"
)

// SearchMetric describes one search. Alpha-beta fills Nodes with the positions
// it visited; MCTS fills Nodes with the tree nodes it created.
type SearchMetric struct {
	Duration     time.Duration
	Episodes     int
	FullPlayouts int
	Nodes        int
	IsTreeReused bool
}

type MoveMetric struct {
	Step   int
	Player string // Side name
	Move   string
	SearchMetric
}

type GameMetric struct {
	Winner     string // Side name, empty for a draw or an unfinished game
	Result     string
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
}

type Collector interface {
	Start()
	SetTreeReused(value bool)
	AddFullPlayout()
	AddEpisode()
	AddNodes(n int)
	Complete() SearchMetric
}

type collector struct {
	startTime    time.Time
	episodes     atomic.Int32
	fullPlayouts atomic.Int32
	nodes        atomic.Int32
	isTreeReused atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) SetTreeReused(value bool) {
	m.isTreeReused.Store(value)
}

func (m *collector) Start() {
	m.startTime = time.Now()
	m.episodes.Store(0)
	m.fullPlayouts.Store(0)
	m.nodes.Store(0)
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) AddNodes(n int) {
	m.nodes.Add(int32(n))
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Duration:     time.Since(m.startTime),
		Episodes:     int(m.episodes.Load()),
		FullPlayouts: int(m.fullPlayouts.Load()),
		Nodes:        int(m.nodes.Load()),
		IsTreeReused: m.isTreeReused.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                   {}
func (m *dummyCollector) SetTreeReused(value bool) {}
func (m *dummyCollector) AddFullPlayout()          {}
func (m *dummyCollector) AddEpisode()              {}
func (m *dummyCollector) AddNodes(n int)           {}
func (m *dummyCollector) Complete() SearchMetric   { return SearchMetric{} }

package metrics

import (
	"sync/atomic"
	"time"

	"tictactoe3d/game"
)

type SearchMetric struct {
	Depth      int
	Workers    int
	Candidates int // Root moves actually searched
	Sampled    bool
	Nodes      int64
	Prunes     int64
	Score      int
	Duration   time.Duration
}

type MoveMetric struct {
	Step int
	Mark game.Mark
	Cell game.Cell
	SearchMetric
}

type GameMetric struct {
	Difficulty game.Difficulty
	Winner     game.Mark // Empty on a draw
	Status     game.Status
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
}

type Collector interface {
	Start(depth, workers int)
	AddCandidates(n int, sampled bool)
	AddNode()
	AddPrune()
	Complete(score int) SearchMetric
}

type collector struct {
	depth      int
	workers    int
	startTime  time.Time
	candidates atomic.Int32
	sampled    atomic.Bool
	nodes      atomic.Int64
	prunes     atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(depth, workers int) {
	m.startTime = time.Now()
	m.depth = depth
	m.workers = workers
}

func (m *collector) AddCandidates(n int, sampled bool) {
	m.candidates.Add(int32(n))
	if sampled {
		m.sampled.Store(true)
	}
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) AddPrune() {
	m.prunes.Add(1)
}

func (m *collector) Complete(score int) SearchMetric {
	return SearchMetric{
		Depth:      m.depth,
		Workers:    m.workers,
		Candidates: int(m.candidates.Load()),
		Sampled:    m.sampled.Load(),
		Nodes:      m.nodes.Load(),
		Prunes:     m.prunes.Load(),
		Score:      score,
		Duration:   time.Since(m.startTime),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(depth, workers int)          {}
func (m *dummyCollector) AddCandidates(n int, sampled bool) {}
func (m *dummyCollector) AddNode()                          {}
func (m *dummyCollector) AddPrune()                         {}
func (m *dummyCollector) Complete(score int) SearchMetric   { return SearchMetric{Score: score} }

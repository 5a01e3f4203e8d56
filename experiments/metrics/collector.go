package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Tier           string
	MaxDepth       int
	CompletedDepth int
	Nodes          int
	Duration       time.Duration
	TimeLimit      time.Duration
	Fallback       bool // Action came from the fallback chain
}

// Overrun returns how far the search ran past its time limit, or 0.
func (m SearchMetric) Overrun() time.Duration {
	if m.TimeLimit <= 0 || m.Duration <= m.TimeLimit {
		return 0
	}
	return m.Duration - m.TimeLimit
}

type MoveMetric struct {
	Step   int
	Player string // Seat name
	Action string
	SearchMetric
}

type GameMetric struct {
	Seed           uint64
	StartingPlayer string // Seat name
	Winner         string // Seat name, "" for a draw
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type Collector interface {
	Start(maxDepth int, timeLimit time.Duration)
	AddNode()
	CompleteDepth(depth int)
	Complete() SearchMetric
}

type collector struct {
	maxDepth       int
	timeLimit      time.Duration
	startTime      time.Time
	nodes          atomic.Int64
	completedDepth atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(maxDepth int, timeLimit time.Duration) {
	m.startTime = time.Now()
	m.maxDepth = maxDepth
	m.timeLimit = timeLimit
	m.nodes.Store(0)
	m.completedDepth.Store(0)
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) CompleteDepth(depth int) {
	m.completedDepth.Store(int32(depth))
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		MaxDepth:       m.maxDepth,
		CompletedDepth: int(m.completedDepth.Load()),
		Nodes:          int(m.nodes.Load()),
		Duration:       time.Since(m.startTime),
		TimeLimit:      m.timeLimit,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(maxDepth int, timeLimit time.Duration) {}
func (m *dummyCollector) AddNode()                                    {}
func (m *dummyCollector) CompleteDepth(depth int)                     {}
func (m *dummyCollector) Complete() SearchMetric                      { return SearchMetric{} }

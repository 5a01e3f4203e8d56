package agent

import (
	"darkchess/experiments/metrics"
	"darkchess/game"
)

type Agent interface {
	// FindMove returns the chosen action and performance metrics (if collected) from the selection process
	FindMove(b *game.Board) (game.Action, metrics.SearchMetric)
}

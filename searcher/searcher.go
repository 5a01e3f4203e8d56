package searcher

import (
	"math"
	"time"

	"darkchess/experiments/metrics"
	"darkchess/game"

	"github.com/rs/zerolog/log"
)

type Option func(s *Searcher)

// Clock returns the current time. Tests replace it to drive the deadline.
type Clock func() time.Time

// Searcher runs depth-limited minimax with alpha-beta pruning. A Searcher is
// cheap to build and is not safe for concurrent use.
type Searcher struct {
	maxDepth int
	duration time.Duration
	evaluate game.Evaluate
	metrics  metrics.Collector
	now      Clock
}

func WithMaxDepth(depth int) Option {
	return func(s *Searcher) {
		if depth > 0 {
			s.maxDepth = depth
		}
	}
}

// WithDuration sets the time budget checked between iterative deepening depths.
func WithDuration(duration time.Duration) Option {
	return func(s *Searcher) {
		if duration > 0 {
			s.duration = duration
		}
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(s *Searcher) {
		if evaluate != nil {
			s.evaluate = evaluate
		}
	}
}

func WithMetrics() Option {
	return func(s *Searcher) {
		s.metrics = metrics.NewCollector()
	}
}

func WithClock(now Clock) Option {
	return func(s *Searcher) {
		if now != nil {
			s.now = now
		}
	}
}

var materialOnly = game.Evaluator{{Name: game.TermMaterial, Weight: 1}}

func New(options ...Option) *Searcher {
	s := &Searcher{ // Default values
		evaluate: materialOnly.Score,
		metrics:  metrics.NewDummyCollector(),
		now:      time.Now,
	}
	for _, option := range options {
		option(s)
	}
	if s.maxDepth <= 0 {
		panic("Must specify search depth")
	}
	return s
}

// Minimax returns the best action for the side to move at depth plies, scored for
// the fixed reference color ref. Ties keep the first action in generator order.
// found is false at leaves and on boards without legal actions.
func (s *Searcher) Minimax(b *game.Board, depth int, alpha, beta float64, maximizing bool, ref game.Color) (best game.Action, found bool, score float64) {
	s.metrics.AddNode()
	if depth == 0 || b.GameOver {
		return game.Action{}, false, s.evaluate(b, ref)
	}
	actions := b.LegalActions()
	if len(actions) == 0 {
		return game.Action{}, false, s.evaluate(b, ref)
	}

	if maximizing {
		score = math.Inf(-1)
	} else {
		score = math.Inf(1)
	}
	for _, action := range actions {
		_, _, value := s.Minimax(b.Play(action), depth-1, alpha, beta, !maximizing, ref)
		if maximizing {
			if !found || value > score {
				best, found, score = action, true, value
			}
			alpha = math.Max(alpha, score)
		} else {
			if !found || value < score {
				best, found, score = action, true, value
			}
			beta = math.Min(beta, score)
		}
		if alpha >= beta {
			break
		}
	}
	return best, found, score
}

// IterativeDeepening searches depth 1, 2, ... up to the maximum depth and returns
// the action of the last completed depth. Elapsed time is only checked between
// depths, so a search can run past its budget by up to one full depth. Depth 1
// always runs.
func (s *Searcher) IterativeDeepening(b *game.Board) (game.Action, bool, metrics.SearchMetric) {
	s.metrics.Start(s.maxDepth, s.duration)
	ref := b.SideToMove
	start := s.now()

	var best game.Action
	found := false
	for depth := 1; depth <= s.maxDepth; depth++ {
		if depth > 1 && s.duration > 0 {
			if elapsed := s.now().Sub(start); elapsed >= s.duration {
				log.Debug().Msgf("search budget %v spent after depth %d (%v elapsed)", s.duration, depth-1, elapsed)
				break
			}
		}

		action, ok, score := s.Minimax(b, depth, math.Inf(-1), math.Inf(1), true, ref)
		if ok {
			best, found = action, true
		}
		s.metrics.CompleteDepth(depth)
		log.Debug().Int("depth", depth).Str("action", action.String()).Float64("score", score).Msg("completed search depth")
	}
	return best, found, s.metrics.Complete()
}

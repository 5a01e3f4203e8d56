package agent

import (
	"darkchess/experiments/metrics"
	"darkchess/game"
	"darkchess/searcher"
	"darkchess/utils"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Selector picks actions for any tier. It owns a seeded RNG and is not safe for concurrent use.
type Selector struct {
	rng   *rand.Rand
	clock searcher.Clock
}

func NewSelector(seed uint64) *Selector {
	return &Selector{rng: rand.New(rand.NewSource(seed))}
}

// WithClock makes the selector's searches read time from clock.
func (s *Selector) WithClock(clock searcher.Clock) *Selector {
	s.clock = clock
	return s
}

// SelectMove chooses an action for the side to move. found is false only when the
// board has no legal actions, which callers are expected to check first.
func (s *Selector) SelectMove(b *game.Board, tier Tier, tiers Tiers) (action game.Action, metric metrics.SearchMetric, found bool) {
	metric = metrics.SearchMetric{Tier: tier.Name, MaxDepth: tier.MaxDepth, TimeLimit: tier.TimeLimit}
	actions := b.LegalActions()
	if len(actions) == 0 {
		return game.Action{}, metric, false
	}

	// Before the first flip every action is a flip and no color can be evaluated.
	if b.SideToMove == game.NoColor {
		return actions[s.rng.Intn(len(actions))], metric, true
	}

	if tier.Search {
		action, found, searched := s.search(b, tier)
		searched.Tier = tier.Name
		if found {
			return action, searched, true
		}
		metric = searched
	} else if action, ok := s.heuristic(b, actions, tier); ok {
		return action, metric, true
	}

	log.Warn().Msgf("tier %s produced no action, falling back to %q", tier.Name, tier.Fallback)
	metric.Fallback = true
	return s.fallback(b, actions, tier, tiers), metric, true
}

func (s *Selector) search(b *game.Board, tier Tier) (game.Action, bool, metrics.SearchMetric) {
	sr := searcher.New(
		searcher.WithMaxDepth(tier.MaxDepth),
		searcher.WithDuration(tier.TimeLimit),
		searcher.WithEvaluationFn(tier.Terms.Score),
		searcher.WithClock(s.clock),
		searcher.WithMetrics(),
	)
	return sr.IterativeDeepening(b)
}

// fallback walks the chain of weaker tiers, ending in a uniform random choice.
func (s *Selector) fallback(b *game.Board, actions []game.Action, tier Tier, tiers Tiers) game.Action {
	visited := map[string]bool{tier.Name: true}
	for name := tier.Fallback; name != "" && !visited[name]; {
		visited[name] = true
		next, err := tiers.Lookup(name)
		if err != nil {
			log.Warn().Msgf("fallback tier: %v", err)
			break
		}
		if action, ok := s.heuristic(b, actions, next); ok {
			return action
		}
		name = next.Fallback
	}
	return s.random(actions)
}

func (s *Selector) heuristic(b *game.Board, actions []game.Action, tier Tier) (game.Action, bool) {
	if len(actions) == 0 {
		return game.Action{}, false
	}
	switch tier.Heuristic {
	case CaptureFirst:
		return s.captureFirst(b, actions, tier.CaptureBias), true
	case Greedy:
		return greedy(b, actions, tier.Terms), true
	case Random:
		return s.random(actions), true
	default:
		return game.Action{}, false
	}
}

// captureFirst prefers captures (the most valuable one with probability bias),
// then a random flip, then a random move.
func (s *Selector) captureFirst(b *game.Board, actions []game.Action, bias float64) game.Action {
	ofType := func(t game.ActionType) func(game.Action) bool {
		return func(a game.Action) bool { return a.Type == t }
	}
	captures := utils.Filter(actions, ofType(game.CaptureAction))
	flips := utils.Filter(actions, ofType(game.FlipAction))
	moves := utils.Filter(actions, ofType(game.MoveAction))

	switch {
	case len(captures) > 0:
		if s.rng.Float64() < bias {
			return mostValuable(b, captures)
		}
		return s.random(captures)
	case len(flips) > 0:
		return s.random(flips)
	default:
		return s.random(moves)
	}
}

func mostValuable(b *game.Board, captures []game.Action) game.Action {
	best := captures[0]
	bestValue := -1.0
	for _, a := range captures {
		target, _ := b.At(a.To)
		if v := game.Value(target.Type); v > bestValue {
			best, bestValue = a, v
		}
	}
	return best
}

// greedy returns the first action with the best one-ply evaluation.
func greedy(b *game.Board, actions []game.Action, terms game.Evaluator) game.Action {
	ref := b.SideToMove
	best := actions[0]
	bestScore := 0.0
	for i, a := range actions {
		if score := terms.Score(b.Play(a), ref); i == 0 || score > bestScore {
			best, bestScore = a, score
		}
	}
	return best
}

func (s *Selector) random(actions []game.Action) game.Action {
	return actions[s.rng.Intn(len(actions))]
}

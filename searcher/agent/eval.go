package agent

import (
	"fmt"

	"darkchess/experiments/metrics"
	"darkchess/game"
)

type tierAgent struct {
	tier     Tier
	tiers    Tiers
	selector *Selector
}

// NewTierAgent returns an agent that plays at the given tier. Its random choices are
// reproducible from seed.
func NewTierAgent(tier Tier, tiers Tiers, seed uint64) Agent {
	return tierAgent{tier: tier, tiers: tiers, selector: NewSelector(seed)}
}

// NewNamedTierAgent looks the tier up by name.
func NewNamedTierAgent(name string, tiers Tiers, seed uint64) (Agent, error) {
	tier, err := tiers.Lookup(name)
	if err != nil {
		return nil, err
	}
	return NewTierAgent(tier, tiers, seed), nil
}

func (a tierAgent) FindMove(b *game.Board) (game.Action, metrics.SearchMetric) {
	action, metric, found := a.selector.SelectMove(b, a.tier, a.tiers)
	if !found {
		panic(fmt.Sprintf("tier %s asked to move on a board without legal actions", a.tier.Name))
	}
	return action, metric
}

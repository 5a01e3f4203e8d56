package agent

import (
	"math"

	"darkchess/experiments/metrics"
	"darkchess/game"

	"golang.org/x/exp/rand"
)

type samplingAgent struct {
	terms       game.Evaluator
	temperature float64
	rng         *rand.Rand
}

// NewSamplingAgent returns an agent that samples actions in proportion to their
// temperature-adjusted one-ply evaluation. It produces varied games for experiments.
func NewSamplingAgent(terms game.Evaluator, temperature float64, seed uint64) Agent {
	if temperature <= 0 {
		temperature = 1
	}
	return &samplingAgent{terms: terms, temperature: temperature, rng: rand.New(rand.NewSource(seed))}
}

func (a *samplingAgent) FindMove(b *game.Board) (game.Action, metrics.SearchMetric) {
	actions := b.LegalActions()
	if b.SideToMove == game.NoColor {
		return actions[a.rng.Intn(len(actions))], metrics.SearchMetric{}
	}
	scores := make([]float64, len(actions))
	for i, action := range actions {
		scores[i] = a.terms.Score(b.Play(action), b.SideToMove)
	}
	policy := adjustTemperature(scores, a.temperature)
	return actions[sample(policy, a.rng.Float64())], metrics.SearchMetric{CompletedDepth: 1}
}

// adjustTemperature turns scores into a softmax distribution.
func adjustTemperature(scores []float64, temperature float64) []float64 {
	maxScore := math.Inf(-1)
	for _, s := range scores {
		maxScore = math.Max(maxScore, s)
	}
	sum := 0.0
	policy := make([]float64, len(scores))
	for i, s := range scores {
		policy[i] = math.Exp((s - maxScore) / temperature)
		sum += policy[i]
	}
	// Normalize
	for i := range policy {
		policy[i] /= sum
	}
	return policy
}

func sample(policy []float64, sampled float64) int {
	cumulative := 0.0
	for i, prob := range policy {
		cumulative += prob
		if sampled < cumulative {
			return i
		}
	}
	return len(policy) - 1
}

package experiments

import (
	"context"
	"fmt"

	"darkchess/experiments/metrics"
	"darkchess/game"
	"darkchess/searcher/agent"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// LatencyOptions configures the latency experiment.
type LatencyOptions struct {
	Tiers     agent.Tiers
	Positions int // Positions sampled per tier
	Seed      uint64
	OutDir    string
	Workers   int
}

const samplingTemperature = 20.0

// RunLatencyExperiment measures, per tier, how long move selection takes against its
// nominal time limit. Iterative deepening only checks the clock between depths, so
// the recorded overrun is bounded by one extra depth rather than by the limit.
func RunLatencyExperiment(ctx context.Context, opts LatencyOptions) ([]metrics.LatencyRecord, error) {
	if opts.Tiers == nil {
		return nil, fmt.Errorf("latency experiment: no tiers")
	}
	positions := SamplePositions(opts.Seed, opts.Positions)
	log.Info().Msgf("starting latency experiment on %d positions...", len(positions))

	workers := opts.Workers
	if workers <= 0 {
		workers = len(opts.Tiers)
	}
	records := make([]metrics.LatencyRecord, len(opts.Tiers)*len(positions))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for ti, tier := range opts.Tiers {
		ti, tier := ti, tier
		g.Go(func() error {
			selector := agent.NewSelector(opts.Seed + uint64(ti))
			for pi, b := range positions {
				if err := ctx.Err(); err != nil {
					return err
				}
				_, metric, _ := selector.SelectMove(b, tier, opts.Tiers)
				records[ti*len(positions)+pi] = metrics.LatencyRecord{Position: pi, FaceDown: b.FaceDownCount(), SearchMetric: metric}
			}
			log.Info().Msgf("measured tier %s", tier.Name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("latency experiment: %w", err)
	}

	for _, tier := range opts.Tiers {
		worst := metrics.SearchMetric{}
		for _, r := range records {
			if r.Tier == tier.Name && r.Overrun() > worst.Overrun() {
				worst = r.SearchMetric
			}
		}
		log.Info().Msgf("tier %s: worst overrun %v past %v", tier.Name, worst.Overrun(), tier.TimeLimit)
	}

	if opts.OutDir != "" {
		writer, err := metrics.NewWriter(opts.OutDir, "latency")
		if err != nil {
			return records, fmt.Errorf("failed to create experiment writer: %w", err)
		}
		if err := writer.WriteLatencyRecords(records); err != nil {
			return records, fmt.Errorf("failed to write latency records: %w", err)
		}
		log.Info().Msgf("stored latency records in %s", writer.Dir())
	}
	return records, nil
}

// SamplePositions plays varied self-play games and keeps undecided positions where a
// side is already determined.
func SamplePositions(seed uint64, n int) []*game.Board {
	var positions []*game.Board
	terms := agent.DefaultTiers()[len(agent.DefaultTiers())-1].Terms
	for g := uint64(0); len(positions) < n && g < uint64(n)+16; g++ {
		sampler := agent.NewSamplingAgent(terms, samplingTemperature, seed+g)
		b := game.NewBoard(seed + g)
		for ply := 0; ply < 200 && !b.GameOver && len(positions) < n; ply++ {
			if ply > 0 && ply%8 == 0 {
				positions = append(positions, b.Copy())
			}
			action, _ := sampler.FindMove(b)
			b = b.Play(action)
		}
	}
	return positions
}

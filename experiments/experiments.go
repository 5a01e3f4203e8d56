package experiments

import (
	"context"
	"fmt"

	"darkchess/engine"
	"darkchess/experiments/metrics"
	"darkchess/meta"
	"darkchess/searcher/agent"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Options configures a tournament. Zero Games means meta.GAMES per matchup.
type Options struct {
	Tiers   agent.Tiers
	Games   int
	Seed    uint64
	OutDir  string // Empty skips writing CSV files
	Workers int    // Zero means meta.GO_ROUTINES
}

// Summary tallies the games of one matchup.
type Summary struct {
	Agent1 metrics.AgentConfig
	Agent2 metrics.AgentConfig
	Wins1  int
	Wins2  int
	Draws  int
}

// RunLadder pits every tier against the next stronger one.
func RunLadder(ctx context.Context, opts Options) ([]Summary, error) {
	configs := agentConfigs(opts.Tiers)
	matchUps := [][]metrics.AgentConfig{}
	for i := 1; i < len(configs); i++ {
		matchUps = append(matchUps, []metrics.AgentConfig{configs[i-1], configs[i]})
	}
	return runExperiment(ctx, "ladder", opts, configs, matchUps)
}

// RunRoundRobin pits every tier against every other tier.
func RunRoundRobin(ctx context.Context, opts Options) ([]Summary, error) {
	configs := agentConfigs(opts.Tiers)
	matchUps := [][]metrics.AgentConfig{}
	for i := range configs {
		for j := i + 1; j < len(configs); j++ {
			matchUps = append(matchUps, []metrics.AgentConfig{configs[i], configs[j]})
		}
	}
	return runExperiment(ctx, "round_robin", opts, configs, matchUps)
}

func agentConfigs(tiers agent.Tiers) []metrics.AgentConfig {
	configs := make([]metrics.AgentConfig, len(tiers))
	for i, t := range tiers {
		configs[i] = metrics.AgentConfig{ID: i + 1, Tier: t.Name}
	}
	return configs
}

type gameResult struct {
	record metrics.GameRecord
	moves  []metrics.MoveMetric
}

func runExperiment(ctx context.Context, name string, opts Options, configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig) ([]Summary, error) {
	if opts.Tiers == nil {
		return nil, fmt.Errorf("%s experiment: no tiers", name)
	}
	games := opts.Games
	if games <= 0 {
		games = meta.GAMES
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = meta.GO_ROUTINES
	}

	log.Info().Msgf("starting %s experiment with %d matchups of %d games...", name, len(matchUps), games)

	// Every game writes only its own slot, so results need no locking.
	results := make([]gameResult, len(matchUps)*games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for mi, matchup := range matchUps {
		mi := mi
		for i := 0; i < games; i++ {
			i := i
			id := mi*games + i
			// Alternate the opening seat between the two agents
			seat0, seat1 := matchup[0], matchup[1]
			if i%2 == 1 {
				seat0, seat1 = seat1, seat0
			}
			seed := opts.Seed + uint64(id)
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				result, err := runGame(opts.Tiers, seat0, seat1, seed)
				if err != nil {
					return err
				}
				result.record.ID = id + 1
				results[id] = result
				log.Info().Msgf("completed matchup %d of %d game %d of %d with winner: %q", mi+1, len(matchUps), i+1, games, result.record.Winner)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s experiment: %w", name, err)
	}

	log.Info().Msgf("completed %s experiment", name)

	summaries := summarize(matchUps, games, results)
	for _, s := range summaries {
		log.Info().Msgf("%s vs %s: %d-%d (%d draws)", s.Agent1.Tier, s.Agent2.Tier, s.Wins1, s.Wins2, s.Draws)
	}

	if opts.OutDir != "" {
		if err := store(opts.OutDir, name, configs, results); err != nil {
			return summaries, err
		}
	}
	return summaries, nil
}

// runGame executes a single game between two agents and returns its records
func runGame(tiers agent.Tiers, config1, config2 metrics.AgentConfig, seed uint64) (gameResult, error) {
	players := []string{playerName(config1), playerName(config2)}
	agent1, err := agent.NewNamedTierAgent(config1.Tier, tiers, seed*2+1)
	if err != nil {
		return gameResult{}, err
	}
	agent2, err := agent.NewNamedTierAgent(config2.Tier, tiers, seed*2+2)
	if err != nil {
		return gameResult{}, err
	}

	e := engine.LocalEngine(players, []agent.Agent{agent1, agent2}, seed)
	_, gameMetric, moveMetrics := e.Run()

	return gameResult{
		record: metrics.GameRecord{Agent1: config1.ID, Agent2: config2.ID, GameMetric: gameMetric},
		moves:  moveMetrics,
	}, nil
}

func playerName(config metrics.AgentConfig) string {
	return fmt.Sprintf("%d:%s", config.ID, config.Tier)
}

func summarize(matchUps [][]metrics.AgentConfig, games int, results []gameResult) []Summary {
	summaries := make([]Summary, len(matchUps))
	for mi, matchup := range matchUps {
		s := Summary{Agent1: matchup[0], Agent2: matchup[1]}
		for _, r := range results[mi*games : (mi+1)*games] {
			switch r.record.Winner {
			case playerName(matchup[0]):
				s.Wins1++
			case playerName(matchup[1]):
				s.Wins2++
			default:
				s.Draws++
			}
		}
		summaries[mi] = s
	}
	return summaries
}

func store(outDir, name string, configs []metrics.AgentConfig, results []gameResult) error {
	// Store experiment metadata
	writer, err := metrics.NewWriter(outDir, name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	// Store experiment results
	gameRecords := make([]metrics.GameRecord, 0, len(results))
	moveRecords := []metrics.MoveRecord{}
	for _, r := range results {
		gameRecords = append(gameRecords, r.record)
		for _, mm := range r.moves {
			moveRecords = append(moveRecords, metrics.MoveRecord{Game: r.record.ID, MoveMetric: mm})
		}
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msgf("stored move records in %s", writer.Dir())
	return nil
}

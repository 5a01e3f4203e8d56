package experiments

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"darkchess/game"
	"darkchess/searcher/agent"

	"github.com/stretchr/testify/require"
)

// fastTiers keeps search shallow so tournaments finish quickly.
func fastTiers() agent.Tiers {
	tiers := agent.DefaultTiers()[:3]
	tiers[1].MaxDepth, tiers[1].TimeLimit = 2, 200*time.Millisecond
	tiers[2].MaxDepth, tiers[2].TimeLimit = 3, 300*time.Millisecond
	return tiers
}

func TestRunLadder(t *testing.T) {
	out := t.TempDir()
	summaries, err := RunLadder(context.Background(), Options{Tiers: fastTiers()[:2], Games: 2, Seed: 1, OutDir: out, Workers: 2})
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	s := summaries[0]
	require.Equal(t, "easy", s.Agent1.Tier)
	require.Equal(t, "medium", s.Agent2.Tier)
	require.Equal(t, 2, s.Wins1+s.Wins2+s.Draws)

	dirs, err := filepath.Glob(filepath.Join(out, "ladder", "*", "game_records.csv"))
	require.NoError(t, err)
	require.Len(t, dirs, 1)
	data, err := os.ReadFile(dirs[0])
	require.NoError(t, err)
	require.Contains(t, string(data), "1:easy")
}

func TestRunRoundRobinPairs(t *testing.T) {
	tiers := agent.DefaultTiers()[:1]
	tiers = append(tiers, agent.Tier{Name: "chaos", MaxDepth: 2, TimeLimit: time.Second, Heuristic: agent.Random,
		Terms: append(tiers[0].Terms[:len(tiers[0].Terms):len(tiers[0].Terms)], game.Term{Name: game.TermThreats, Weight: 1})})
	tiers = append(tiers, agent.Tier{Name: "greedy", MaxDepth: 3, TimeLimit: 2 * time.Second, Heuristic: agent.Greedy,
		Terms: append(tiers[1].Terms[:len(tiers[1].Terms):len(tiers[1].Terms)], game.Term{Name: game.TermForks, Weight: 1})})
	require.NoError(t, tiers.Validate())

	summaries, err := RunRoundRobin(context.Background(), Options{Tiers: tiers, Games: 2, Seed: 3})
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	for _, s := range summaries {
		require.Equal(t, 2, s.Wins1+s.Wins2+s.Draws)
	}
}

func TestRunExperimentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunLadder(ctx, Options{Tiers: fastTiers()[:2], Games: 2})
	require.ErrorIs(t, err, context.Canceled)

	_, err = RunLadder(context.Background(), Options{})
	require.Error(t, err)
}

func TestLatencyExperiment(t *testing.T) {
	positions := SamplePositions(5, 6)
	require.Len(t, positions, 6)
	for _, b := range positions {
		require.False(t, b.GameOver)
		require.NotEqual(t, game.NoColor, b.SideToMove)
	}

	out := t.TempDir()
	tiers := fastTiers()[:2]
	records, err := RunLatencyExperiment(context.Background(), LatencyOptions{Tiers: tiers, Positions: 4, Seed: 5, OutDir: out})
	require.NoError(t, err)
	require.Len(t, records, 8)
	for _, r := range records[4:] {
		require.Equal(t, "medium", r.Tier)
		require.GreaterOrEqual(t, r.CompletedDepth, 1)
	}
	files, err := filepath.Glob(filepath.Join(out, "latency", "*", "latency_records.csv"))
	require.NoError(t, err)
	require.Len(t, files, 1)
}

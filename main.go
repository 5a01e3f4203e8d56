package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"darkchess/communication/client"
	"darkchess/communication/server"
	"darkchess/engine"
	"darkchess/experiments"
	"darkchess/game"
	"darkchess/gamemaster"
	"darkchess/player"
	"darkchess/searcher/agent"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type config struct {
	mode      string
	session   string
	tiersPath string
	tier1     string
	tier2     string
	addr      string
	seed      uint64
	games     int
	positions int
	workers   int
	out       string
}

func main() {
	cfg := config{}
	flag.StringVar(&cfg.mode, "mode", "play", "play, match, ladder, roundrobin, latency, serve or remote")
	flag.StringVar(&cfg.session, "session", string(gamemaster.HumanVsComputer), "Session mode for play: pvc, pvp or cvc")
	flag.StringVar(&cfg.tiersPath, "tiers", "", "YAML file with difficulty tiers (defaults to the built-in ladder)")
	flag.StringVar(&cfg.tier1, "tier1", "easy", "Tier of the first (or only) computer player")
	flag.StringVar(&cfg.tier2, "tier2", "expert", "Tier of the second computer player")
	flag.StringVar(&cfg.addr, "addr", ":8080", "Listen address for serve, server URL for remote")
	flag.Uint64Var(&cfg.seed, "seed", 0, "Deal seed (0 picks a random one)")
	flag.IntVar(&cfg.games, "games", 0, "Games per match-up")
	flag.IntVar(&cfg.positions, "positions", 50, "Positions sampled by the latency experiment")
	flag.IntVar(&cfg.workers, "workers", 0, "Concurrent games")
	flag.StringVar(&cfg.out, "out", "results", "Directory for experiment CSV files")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msgf("%s failed", cfg.mode)
	}
}

func run(ctx context.Context, cfg config) error {
	tiers := agent.DefaultTiers()
	if cfg.tiersPath != "" {
		loaded, err := agent.LoadTiers(cfg.tiersPath)
		if err != nil {
			return err
		}
		tiers = loaded
	}
	if cfg.seed == 0 {
		cfg.seed = game.RandomSeed()
	}

	switch cfg.mode {
	case "play":
		return play(cfg, tiers)
	case "match":
		return match(cfg, tiers)
	case "ladder":
		summaries, err := experiments.RunLadder(ctx, experimentOptions(cfg, tiers))
		printSummaries(summaries)
		return err
	case "roundrobin":
		summaries, err := experiments.RunRoundRobin(ctx, experimentOptions(cfg, tiers))
		printSummaries(summaries)
		return err
	case "latency":
		_, err := experiments.RunLatencyExperiment(ctx, experiments.LatencyOptions{
			Tiers:     tiers,
			Positions: cfg.positions,
			Seed:      cfg.seed,
			OutDir:    cfg.out,
			Workers:   cfg.workers,
		})
		return err
	case "serve":
		return server.New(tiers).ListenAndServe(ctx, cfg.addr)
	case "remote":
		return remote(ctx, cfg, tiers)
	default:
		return fmt.Errorf("unknown mode %q", cfg.mode)
	}
}

func play(cfg config, tiers agent.Tiers) error {
	session, getUpdate, err := gamemaster.NewSession(gamemaster.Context{
		Mode:  gamemaster.Mode(cfg.session),
		Tier:  cfg.tier1,
		Tiers: tiers,
		Seed:  &cfg.seed,
	})
	if err != nil {
		return err
	}
	fmt.Printf("seed %d, commands: flip c r | move c r c r | targets c r | quit\n", session.Seed())
	return player.NewConsoleController(session, getUpdate, os.Stdin, os.Stdout).Run()
}

func match(cfg config, tiers agent.Tiers) error {
	agent1, err := agent.NewNamedTierAgent(cfg.tier1, tiers, cfg.seed*2+1)
	if err != nil {
		return err
	}
	agent2, err := agent.NewNamedTierAgent(cfg.tier2, tiers, cfg.seed*2+2)
	if err != nil {
		return err
	}
	return runGame(cfg, []agent.Agent{agent1, agent2})
}

func remote(ctx context.Context, cfg config, tiers agent.Tiers) error {
	local, err := agent.NewNamedTierAgent(cfg.tier1, tiers, cfg.seed*2+1)
	if err != nil {
		return err
	}
	opponent := client.NewRemoteAgent(cfg.addr, cfg.tier2)
	if err := opponent.Ping(ctx); err != nil {
		return fmt.Errorf("server at %s unreachable: %w", cfg.addr, err)
	}
	return runGame(cfg, []agent.Agent{local, opponent})
}

func runGame(cfg config, agents []agent.Agent) error {
	players := []string{"1:" + cfg.tier1, "2:" + cfg.tier2}
	e := engine.LocalEngine(players, agents, cfg.seed)
	winner, gameMetric, _ := e.Run()
	fmt.Printf("Game over after %d moves (%s). Winner: %s\n", gameMetric.TotalMoves, gameMetric.Duration, winner)
	return nil
}

func experimentOptions(cfg config, tiers agent.Tiers) experiments.Options {
	return experiments.Options{
		Tiers:   tiers,
		Games:   cfg.games,
		Seed:    cfg.seed,
		OutDir:  cfg.out,
		Workers: cfg.workers,
	}
}

func printSummaries(summaries []experiments.Summary) {
	for _, s := range summaries {
		fmt.Printf("%s vs %s: %d-%d (%d draws)\n", s.Agent1.Tier, s.Agent2.Tier, s.Wins1, s.Wins2, s.Draws)
	}
}

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/angeloszaimis/game-loadsim/config"
	"github.com/angeloszaimis/game-loadsim/internal/delay"
	"github.com/angeloszaimis/game-loadsim/internal/dispatch"
	"github.com/angeloszaimis/game-loadsim/internal/driver"
	"github.com/angeloszaimis/game-loadsim/internal/metrics"
	"github.com/angeloszaimis/game-loadsim/internal/pool"
	"github.com/angeloszaimis/game-loadsim/internal/report"
	"github.com/angeloszaimis/game-loadsim/internal/strategy"
	"github.com/angeloszaimis/game-loadsim/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "game-loadsim",
		Short:        "Simulate a round-robin load balancer distributing player requests across game servers",
		SilenceUsage: true,
		RunE:         run,
	}

	flags := cmd.Flags()
	flags.Int("servers", 0, "number of game servers in the pool")
	flags.Int("players", 0, "number of player requests to simulate")
	flags.Int("concurrency", 0, "maximum in-flight dispatches (default: number of players)")
	flags.String("interval", "", "pause between request submissions (e.g. 500ms)")
	flags.String("timeout", "", "overall run timeout, 0s for none")
	flags.Int64("seed", 0, "random seed for the delay sampler")
	flags.String("strategy", "", "selection strategy: round-robin or random")
	flags.String("csv", "", "metrics CSV output path")

	bindings := map[string]string{
		"simulation.server_count":      "servers",
		"simulation.num_players":       "players",
		"simulation.concurrency_limit": "concurrency",
		"simulation.request_interval":  "interval",
		"simulation.timeout":           "timeout",
		"simulation.seed":              "seed",
		"strategy.type":                "strategy",
		"output.metrics_csv":           "csv",
	}
	for key, flagName := range bindings {
		if err := viper.BindPFlag(key, flags.Lookup(flagName)); err != nil {
			panic(err)
		}
	}

	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, false, cfg.Logging.Environment)

	dispatchLog := log
	if cfg.Logging.File != "" {
		dispatchLog = logger.NewRotating(cfg.Logging.File, cfg.Logging.Level, cfg.Logging.Environment)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	serverPool, err := pool.New(cfg.Simulation.ServerCount)
	if err != nil {
		return fmt.Errorf("failed to create server pool: %w", err)
	}

	minDelay, maxDelay := cfg.ProcessingTimeBounds()
	sampler, err := delay.NewUniform(minDelay, maxDelay, cfg.Simulation.Seed)
	if err != nil {
		return fmt.Errorf("failed to create delay sampler: %w", err)
	}

	selector := createStrategy(log, cfg.Strategy.Type, serverPool.Size())
	sink := metrics.NewSink()
	dispatcher := dispatch.NewDispatcher(dispatchLog, selector, serverPool, sampler, sink)
	exporter := report.NewCSVExporter(cfg.Output.MetricsCSV, log)

	drv, err := driver.New(log, dispatcher, sink, exporter, driver.Config{
		NumPlayers:       cfg.Simulation.NumPlayers,
		ConcurrencyLimit: cfg.Simulation.ConcurrencyLimit,
		RequestInterval:  cfg.RequestIntervalDuration(),
		Timeout:          cfg.TimeoutDuration(),
	})
	if err != nil {
		return fmt.Errorf("failed to create driver: %w", err)
	}

	log.Info("starting simulation",
		slog.Int("servers", cfg.Simulation.ServerCount),
		slog.Int("players", cfg.Simulation.NumPlayers),
		slog.String("strategy", cfg.Strategy.Type))

	summary, runErr := drv.Run(ctx)

	runSummary := report.Summarize(serverPool.Snapshot(), sink.Drain())
	if err := report.WriteText(os.Stdout, runSummary); err != nil {
		log.Error("failed to write summary", slog.Any("err", err))
	}

	log.Info("simulation finished",
		slog.Int("dispatched", summary.Dispatched),
		slog.Int("failed", summary.Failed),
		slog.Duration("elapsed", summary.Elapsed))

	if runErr != nil {
		return runErr
	}

	if summary.Failed > 0 {
		return fmt.Errorf("run completed with %d failed dispatches", summary.Failed)
	}

	return nil
}

func createStrategy(logger *slog.Logger, strategyType string, poolSize int) strategy.Strategy {
	switch strategyType {
	case config.StrategyRoundRobin:
		return strategy.NewRoundRobinStrategy(poolSize)
	case config.StrategyRandom:
		return strategy.NewRandomStrategy(poolSize)
	default:
		logger.Warn("Unknown strategy, defaulting to round-robin", slog.String("requested", strategyType))
		return strategy.NewRoundRobinStrategy(poolSize)
	}
}

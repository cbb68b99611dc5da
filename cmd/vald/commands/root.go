// Package commands wires the vald CLI.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ampyfin/vald/internal/adapters"
	"github.com/ampyfin/vald/internal/contracts"
	"github.com/ampyfin/vald/internal/pipeline"
	"github.com/ampyfin/vald/internal/storage"
	"github.com/ampyfin/vald/internal/strategies"
	"github.com/ampyfin/vald/pkg/config"
	"github.com/ampyfin/vald/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "vald",
	Short: "Fair-value engine: multi-strategy equity valuation with consensus aggregation",
	Long: `vald runs a set of independent valuation models over a ticker universe,
fuses the per-strategy fair values into a median consensus with P25/P75
dispersion bounds, and reports each name's discount to market price.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI.
func Execute() error {
	rootCmd.AddCommand(runCmd, serveCmd, strategiesCmd)
	return rootCmd.Execute()
}

// app bundles everything a command needs after wiring.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	registry *strategies.Registry
	pipeline *pipeline.Pipeline
	repo     *storage.PostgresRepository // nil when persistence is disabled
}

// buildApp loads configuration and assembles the pipeline with the
// configured ticker universe, metric source and optional persistence.
func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	reg := strategies.NewRegistry()

	var tickers contracts.TickerSource
	if len(cfg.Tickers) > 0 {
		tickers = adapters.NewStaticTickers(cfg.Tickers)
	} else {
		tickers = adapters.NewWikiSP500Tickers(log)
	}

	var metrics contracts.MetricSource
	switch cfg.Adapter {
	case "fmp":
		metrics = adapters.NewFMPSource(log, cfg.FMP)
	default:
		metrics = adapters.NewMockSource(log)
	}

	var opts []pipeline.Option
	var repo *storage.PostgresRepository
	if cfg.DatabaseURL != "" {
		repo, err = storage.NewPostgresRepository(ctx, log, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("setting up storage: %w", err)
		}
		opts = append(opts, pipeline.WithRepository(repo))
	}

	return &app{
		cfg:      cfg,
		log:      log,
		registry: reg,
		pipeline: pipeline.New(log, reg, tickers, metrics, opts...),
		repo:     repo,
	}, nil
}

func (a *app) close() {
	if a.repo != nil {
		a.repo.Close()
	}
}

// Package pipeline orchestrates one valuation run: fetch metrics for the
// ticker universe, run every enabled strategy over every ticker, and fuse
// the per-strategy fair values into consensus records.
package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/ampyfin/vald/internal/consensus"
	"github.com/ampyfin/vald/internal/contracts"
	"github.com/ampyfin/vald/internal/strategies"
	"github.com/ampyfin/vald/pkg/logger"
)

// Pipeline wires the stages together. The registry is an explicit dependency
// of the run, not package state; two pipelines with different registries are
// fully independent.
type Pipeline struct {
	log      *logger.Logger
	registry *strategies.Registry
	tickers  contracts.TickerSource
	metrics  contracts.MetricSource
	repo     contracts.RunRepository // nil disables persistence

	overrides map[string]strategies.Params
	workers   int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRepository enables run persistence.
func WithRepository(repo contracts.RunRepository) Option {
	return func(p *Pipeline) { p.repo = repo }
}

// WithWorkers sets the process-stage worker count.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// New builds a Pipeline over the given registry and data sources.
func New(log *logger.Logger, reg *strategies.Registry, tickers contracts.TickerSource, metrics contracts.MetricSource, opts ...Option) *Pipeline {
	p := &Pipeline{
		log:       log,
		registry:  reg,
		tickers:   tickers,
		metrics:   metrics,
		overrides: make(map[string]strategies.Params),
		workers:   runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetOverrides installs runtime hyperparameter overrides, merged per strategy
// with new values taking precedence over previously stored ones. Every
// strategy name is validated against the registry before any merge happens.
func (p *Pipeline) SetOverrides(overrides map[string]strategies.Params) error {
	for name := range overrides {
		if _, err := p.registry.New(name); err != nil {
			return err
		}
	}
	for name, params := range overrides {
		merged, ok := p.overrides[name]
		if !ok {
			merged = make(strategies.Params, len(params))
			p.overrides[name] = merged
		}
		for k, v := range params {
			merged[k] = v
		}
	}
	return nil
}

// RunOnce executes a full fetch-process-aggregate cycle and returns the run's
// data product. Individual ticker or strategy failures never abort the run.
func (p *Pipeline) RunOnce(ctx context.Context) (*contracts.RunResult, error) {
	started := time.Now()

	tickers, err := p.tickers.Tickers(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving ticker universe: %w", err)
	}
	if len(tickers) == 0 {
		return nil, fmt.Errorf("ticker universe is empty")
	}

	fetched, fetchErrs := p.runFetch(ctx, tickers)

	strategyNames := p.registry.Enabled()
	fairValues, strategyErrs := p.runProcess(ctx, tickers, strategyNames, fetched)

	result := &contracts.RunResult{
		RunID:         fmt.Sprintf("run-%d", started.UnixNano()),
		GeneratedAt:   started.UTC(),
		Tickers:       tickers,
		StrategyNames: strategyNames,
		ByTicker:      make(map[string]*contracts.ConsensusRecord, len(tickers)),
		FetchErrors:   fetchErrs,
		StrategyErrs:  strategyErrs,
	}

	for _, tk := range tickers {
		var price *float64
		if v, ok := fetched[tk].Get(contracts.MetricCurrentPrice); ok {
			price = &v
		}
		result.ByTicker[tk] = consensus.Aggregate(tk, fairValues[tk], price)
	}

	p.log.WithFields(map[string]interface{}{
		"tickers":    len(tickers),
		"strategies": len(strategyNames),
		"elapsed":    time.Since(started).String(),
	}).Info("valuation run complete")

	if p.repo != nil {
		if err := p.repo.SaveRun(ctx, result); err != nil {
			p.log.WithError(err).Error("persisting run failed")
		}
	}

	return result, nil
}

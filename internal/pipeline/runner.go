package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ampyfin/vald/internal/contracts"
	"github.com/ampyfin/vald/pkg/logger"
)

// Runner schedules repeated pipeline runs. It fires one run immediately on
// Start and then one per interval; overlapping runs are prevented by the
// scheduler, so a slow fetch never stacks up concurrent runs.
type Runner struct {
	log      *logger.Logger
	pipeline *Pipeline
	interval time.Duration
	cron     *cron.Cron

	// OnResult, when set, receives every completed run. Used by the API
	// layer to refresh its cache and broadcast to websocket clients.
	OnResult func(*contracts.RunResult)
}

// NewRunner builds a Runner firing every interval.
func NewRunner(log *logger.Logger, p *Pipeline, interval time.Duration) *Runner {
	return &Runner{
		log:      log,
		pipeline: p,
		interval: interval,
	}
}

// Start begins the schedule and blocks until ctx is cancelled.
func (r *Runner) Start(ctx context.Context) error {
	r.runOnce(ctx)

	r.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))
	spec := fmt.Sprintf("@every %s", r.interval)
	if _, err := r.cron.AddFunc(spec, func() { r.runOnce(ctx) }); err != nil {
		return fmt.Errorf("scheduling runs: %w", err)
	}

	r.cron.Start()
	r.log.Infof("scheduler started, running every %s", r.interval)

	<-ctx.Done()

	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
	r.log.Info("scheduler stopped")
	return nil
}

func (r *Runner) runOnce(ctx context.Context) {
	result, err := r.pipeline.RunOnce(ctx)
	if err != nil {
		r.log.WithError(err).Error("valuation run failed")
		return
	}
	if r.OnResult != nil {
		r.OnResult(result)
	}
}

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ampyfin/vald/internal/contracts"
	"github.com/ampyfin/vald/internal/strategies"
)

type job struct {
	ticker   string
	strategy string
}

type outcome struct {
	ticker   string
	strategy string
	fv       *float64
	errMsg   string
}

// runProcess evaluates every (ticker, enabled strategy) pair over a bounded
// worker pool. Each invocation gets its own parameter map, so workers share
// nothing; results are collected over a channel. A strategy failure is data
// (nil fair value plus a reason), never a run abort, and a panicking strategy
// is contained the same way.
func (p *Pipeline) runProcess(ctx context.Context, tickers, strategyNames []string, fetched map[string]contracts.Metrics) (map[string]map[string]*float64, map[string]map[string]string) {
	jobs := make(chan job)
	outcomes := make(chan outcome)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				outcomes <- p.evaluate(j, fetched[j.ticker])
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, tk := range tickers {
			for _, sname := range strategyNames {
				select {
				case jobs <- job{ticker: tk, strategy: sname}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	fairValues := make(map[string]map[string]*float64, len(tickers))
	errs := make(map[string]map[string]string)
	for _, tk := range tickers {
		perTicker := make(map[string]*float64, len(strategyNames))
		for _, sname := range strategyNames {
			perTicker[sname] = nil
		}
		fairValues[tk] = perTicker
	}

	for out := range outcomes {
		fairValues[out.ticker][out.strategy] = out.fv
		if out.errMsg != "" {
			if errs[out.ticker] == nil {
				errs[out.ticker] = make(map[string]string)
			}
			errs[out.ticker][out.strategy] = out.errMsg
		}
	}

	if len(errs) == 0 {
		errs = nil
	}
	return fairValues, errs
}

// evaluate runs one strategy over one ticker's metrics.
//
// Parameter precedence: runtime overrides win over fetched metrics, and
// strategy defaults only fill keys nothing else supplied. A fetched metric is
// never shadowed by a default.
func (p *Pipeline) evaluate(j job, metrics contracts.Metrics) (out outcome) {
	out = outcome{ticker: j.ticker, strategy: j.strategy}

	defer func() {
		if r := recover(); r != nil {
			out.fv = nil
			out.errMsg = fmt.Sprintf("unexpected error: %v", r)
		}
	}()

	strat, err := p.registry.New(j.strategy)
	if err != nil {
		out.errMsg = err.Error()
		return out
	}

	params := make(strategies.Params, len(metrics)+8)
	for k, v := range metrics {
		params[k] = v
	}
	for k, v := range p.registry.DefaultHyperparams(j.strategy) {
		if _, present := params[k]; !present {
			params[k] = v
		}
	}
	for k, v := range p.overrides[j.strategy] {
		params[k] = v
	}

	fv, err := strat.Run(params)
	if err != nil {
		var inputErr *strategies.InputError
		if errors.As(err, &inputErr) {
			out.errMsg = err.Error()
		} else {
			out.errMsg = fmt.Sprintf("unexpected error: %v", err)
		}
		return out
	}

	out.fv = &fv
	return out
}

package pipeline

import (
	"context"

	"github.com/ampyfin/vald/internal/contracts"
)

// runFetch pulls the fetch-set (union of enabled strategies' required
// metrics, plus current_price) for every ticker. Per-metric failures are
// recorded and never abort the ticker; a ticker that yields nothing still
// gets an empty metrics map so the process stage can report it properly.
func (p *Pipeline) runFetch(ctx context.Context, tickers []string) (map[string]contracts.Metrics, map[string]map[string]string) {
	keys := p.registry.FetchSet()

	byTicker := make(map[string]contracts.Metrics, len(tickers))
	errs := make(map[string]map[string]string)

	for _, tk := range tickers {
		if ctx.Err() != nil {
			byTicker[tk] = contracts.Metrics{}
			continue
		}
		metrics, perTickerErrs := p.metrics.FetchMetrics(ctx, tk, keys)
		if metrics == nil {
			metrics = contracts.Metrics{}
		}
		byTicker[tk] = metrics
		if len(perTickerErrs) > 0 {
			errs[tk] = perTickerErrs
			p.log.WithFields(map[string]interface{}{
				"ticker":  tk,
				"missing": len(perTickerErrs),
			}).Debug("some metrics unavailable")
		}
	}

	if len(errs) == 0 {
		errs = nil
	}
	return byTicker, errs
}

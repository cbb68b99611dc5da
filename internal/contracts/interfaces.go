package contracts

import "context"

// TickerSource supplies the universe of tickers to evaluate.
type TickerSource interface {
	Tickers(ctx context.Context) ([]string, error)
}

// MetricSource fetches fundamental metrics for one ticker. Implementations
// return whatever subset of keys they could obtain; fetch failures for
// individual metrics are reported in the error map, keyed by metric,
// and never abort the ticker.
type MetricSource interface {
	Name() string
	FetchMetrics(ctx context.Context, ticker string, keys []string) (Metrics, map[string]string)
}

// RunRepository persists completed pipeline runs.
type RunRepository interface {
	SaveRun(ctx context.Context, result *RunResult) error
	LatestRun(ctx context.Context) (*RunResult, error)
}

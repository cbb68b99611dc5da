package pipeline

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampyfin/vald/internal/contracts"
	"github.com/ampyfin/vald/internal/strategies"
	"github.com/ampyfin/vald/pkg/logger"
)

type stubTickers struct {
	tickers []string
	err     error
}

func (s stubTickers) Tickers(ctx context.Context) ([]string, error) {
	return s.tickers, s.err
}

type stubMetrics struct {
	byTicker map[string]contracts.Metrics
	errs     map[string]map[string]string
}

func (s stubMetrics) Name() string { return "stub" }

func (s stubMetrics) FetchMetrics(ctx context.Context, ticker string, keys []string) (contracts.Metrics, map[string]string) {
	return s.byTicker[ticker].Clone(), s.errs[ticker]
}

// probeStrategy records every merged parameter map it is handed.
type probeStrategy struct {
	mu   *sync.Mutex
	seen *[]strategies.Params
}

func newProbe() probeStrategy {
	return probeStrategy{mu: &sync.Mutex{}, seen: &[]strategies.Params{}}
}

func (p probeStrategy) Name() string { return "probe" }

func (p probeStrategy) Run(params strategies.Params) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	*p.seen = append(*p.seen, params)
	return 1.0, nil
}

func (p probeStrategy) recorded() []strategies.Params {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]strategies.Params, len(*p.seen))
	copy(out, *p.seen)
	return out
}

type panicStrategy struct{}

func (panicStrategy) Name() string { return "panicky" }

func (panicStrategy) Run(params strategies.Params) (float64, error) {
	panic("boom")
}

func newTestPipeline(t *testing.T, reg *strategies.Registry, tickers []string, metrics map[string]contracts.Metrics, opts ...Option) *Pipeline {
	t.Helper()
	return New(logger.Nop(), reg,
		stubTickers{tickers: tickers},
		stubMetrics{byTicker: metrics},
		opts...)
}

func TestRunOnce_EndToEnd(t *testing.T) {
	reg := strategies.NewRegistry()
	require.NoError(t, reg.SetEnabled([]string{"peter_lynch"}))

	p := newTestPipeline(t, reg,
		[]string{"AAA", "BBB"},
		map[string]contracts.Metrics{
			"AAA": {"current_price": 20.0, "eps_ttm": 2.0, "eps_cagr_5y": 0.20},
			"BBB": {"current_price": 50.0, "eps_ttm": 5.0, "eps_cagr_5y": 0.10},
		})

	result, err := p.RunOnce(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, []string{"AAA", "BBB"}, result.Tickers)
	assert.Equal(t, []string{"peter_lynch"}, result.StrategyNames)
	assert.Nil(t, result.FetchErrors)
	assert.Nil(t, result.StrategyErrs)

	aaa := result.ByTicker["AAA"]
	require.NotNil(t, aaa)
	require.NotNil(t, aaa.StrategyFairValues["peter_lynch"])
	assert.InDelta(t, 40.0, *aaa.StrategyFairValues["peter_lynch"], 1e-9)
	require.NotNil(t, aaa.ConsensusFairValue)
	assert.InDelta(t, 40.0, *aaa.ConsensusFairValue, 1e-9)
	require.NotNil(t, aaa.ConsensusDiscount)
	assert.InDelta(t, 1.0, *aaa.ConsensusDiscount, 1e-9)

	bbb := result.ByTicker["BBB"]
	require.NotNil(t, bbb)
	require.NotNil(t, bbb.StrategyFairValues["peter_lynch"])
	assert.InDelta(t, 50.0, *bbb.StrategyFairValues["peter_lynch"], 1e-9)
}

func TestRunOnce_FailuresAreData(t *testing.T) {
	reg := strategies.NewRegistry()
	require.NoError(t, reg.SetEnabled([]string{"peter_lynch"}))

	// BBB has no earnings data at all, AAA is complete. The run must succeed
	// with a nil fair value and a recorded reason for BBB.
	p := newTestPipeline(t, reg,
		[]string{"AAA", "BBB"},
		map[string]contracts.Metrics{
			"AAA": {"current_price": 20.0, "eps_ttm": 2.0, "eps_cagr_5y": 0.20},
			"BBB": {"current_price": 50.0},
		})

	result, err := p.RunOnce(context.Background())
	require.NoError(t, err)

	require.NotNil(t, result.ByTicker["AAA"].StrategyFairValues["peter_lynch"])

	bbb := result.ByTicker["BBB"]
	assert.Nil(t, bbb.StrategyFairValues["peter_lynch"])
	assert.Nil(t, bbb.ConsensusFairValue)
	assert.Nil(t, bbb.ConsensusDiscount)
	require.NotNil(t, result.StrategyErrs)
	assert.Contains(t, result.StrategyErrs["BBB"]["peter_lynch"], "peter_lynch")
}

func TestRunOnce_PanicIsolation(t *testing.T) {
	reg := strategies.NewRegistry()
	require.NoError(t, reg.Register("panicky",
		func() strategies.Strategy { return panicStrategy{} }, nil, nil))
	require.NoError(t, reg.SetEnabled([]string{"peter_lynch", "panicky"}))

	p := newTestPipeline(t, reg,
		[]string{"AAA"},
		map[string]contracts.Metrics{
			"AAA": {"current_price": 20.0, "eps_ttm": 2.0, "eps_cagr_5y": 0.20},
		})

	result, err := p.RunOnce(context.Background())
	require.NoError(t, err)

	aaa := result.ByTicker["AAA"]
	assert.Nil(t, aaa.StrategyFairValues["panicky"])
	assert.Equal(t, "unexpected error: boom", result.StrategyErrs["AAA"]["panicky"])

	// The healthy strategy still contributes.
	require.NotNil(t, aaa.StrategyFairValues["peter_lynch"])
	assert.InDelta(t, 40.0, *aaa.StrategyFairValues["peter_lynch"], 1e-9)
}

func TestRunOnce_OverridesBeatMetricsAndDefaults(t *testing.T) {
	probe := newProbe()

	reg := strategies.NewRegistry()
	require.NoError(t, reg.Register("probe",
		func() strategies.Strategy { return probe },
		[]string{"knob"},
		strategies.Params{"knob": 1.0, "tuning_only": 7.0}))
	require.NoError(t, reg.SetEnabled([]string{"probe"}))

	// AAA fetches knob as a metric, BBB does not; the override must win in
	// both cases, and the default must still fill the untouched key.
	p := newTestPipeline(t, reg,
		[]string{"AAA", "BBB"},
		map[string]contracts.Metrics{
			"AAA": {"knob": 2.0},
			"BBB": {},
		})

	require.NoError(t, p.SetOverrides(map[string]strategies.Params{
		"probe": {"knob": 3.0},
	}))

	_, err := p.RunOnce(context.Background())
	require.NoError(t, err)

	seen := probe.recorded()
	require.Len(t, seen, 2)
	for _, params := range seen {
		assert.Equal(t, 3.0, params["knob"])
		assert.Equal(t, 7.0, params["tuning_only"])
	}
}

func TestEvaluate_MetricBeatsDefault(t *testing.T) {
	probe := newProbe()

	reg := strategies.NewRegistry()
	require.NoError(t, reg.Register("probe",
		func() strategies.Strategy { return probe },
		[]string{"knob"},
		strategies.Params{"knob": 1.0}))

	p := newTestPipeline(t, reg, nil, nil)

	out := p.evaluate(job{ticker: "AAA", strategy: "probe"},
		contracts.Metrics{"knob": 2.0})
	assert.Empty(t, out.errMsg)

	seen := probe.recorded()
	require.Len(t, seen, 1)
	// A fetched metric is never shadowed by a default.
	assert.Equal(t, 2.0, seen[0]["knob"])
}

func TestSetOverrides(t *testing.T) {
	reg := strategies.NewRegistry()
	p := newTestPipeline(t, reg, nil, nil)

	t.Run("unknown strategy rejected before any merge", func(t *testing.T) {
		err := p.SetOverrides(map[string]strategies.Params{
			"no_such_strategy": {"x": 1.0},
		})
		require.Error(t, err)
		var unknown *strategies.UnknownStrategyError
		assert.ErrorAs(t, err, &unknown)
		assert.Empty(t, p.overrides)
	})

	t.Run("later calls merge per strategy", func(t *testing.T) {
		require.NoError(t, p.SetOverrides(map[string]strategies.Params{
			"peter_lynch": {"max_growth_pe": 30.0, "min_growth_pe": 4.0},
		}))
		require.NoError(t, p.SetOverrides(map[string]strategies.Params{
			"peter_lynch": {"max_growth_pe": 25.0},
		}))
		assert.Equal(t, 25.0, p.overrides["peter_lynch"]["max_growth_pe"])
		assert.Equal(t, 4.0, p.overrides["peter_lynch"]["min_growth_pe"])
	})
}

func TestRunOnce_EmptyUniverse(t *testing.T) {
	reg := strategies.NewRegistry()
	p := newTestPipeline(t, reg, nil, nil)

	_, err := p.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestRunOnce_FetchErrorsRecorded(t *testing.T) {
	reg := strategies.NewRegistry()
	require.NoError(t, reg.SetEnabled([]string{"peter_lynch"}))

	p := New(logger.Nop(), reg,
		stubTickers{tickers: []string{"AAA"}},
		stubMetrics{
			byTicker: map[string]contracts.Metrics{
				"AAA": {"current_price": 20.0, "eps_ttm": 2.0, "eps_cagr_5y": 0.20},
			},
			errs: map[string]map[string]string{
				"AAA": {"rule40_score": "no feed for metric"},
			},
		})

	result, err := p.RunOnce(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result.FetchErrors)
	assert.Equal(t, "no feed for metric", result.FetchErrors["AAA"]["rule40_score"])

	// A partial fetch never blocks strategies whose inputs did arrive.
	require.NotNil(t, result.ByTicker["AAA"].StrategyFairValues["peter_lynch"])
}

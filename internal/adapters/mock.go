// Package adapters provides the data sources the pipeline consumes: ticker
// universes and per-ticker fundamental metrics.
package adapters

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"

	"github.com/ampyfin/vald/internal/contracts"
	"github.com/ampyfin/vald/pkg/logger"
)

// MockSource serves deterministic pseudo-random fundamentals, seeded per
// ticker, so offline runs and tests always see the same numbers for the same
// symbol. Negative EPS and net-cash balance sheets are deliberately in range
// so the "not applicable" strategy paths get exercised.
type MockSource struct {
	log *logger.Logger
}

// NewMockSource builds the offline metric source.
func NewMockSource(log *logger.Logger) *MockSource {
	return &MockSource{log: log}
}

func (m *MockSource) Name() string { return "mock" }

// FetchMetrics synthesizes every requested canonical metric except
// rule40_score, which has no mock feed and stays absent.
func (m *MockSource) FetchMetrics(_ context.Context, ticker string, keys []string) (contracts.Metrics, map[string]string) {
	rng := rand.New(rand.NewSource(seed(ticker)))

	price := round2(5 + rng.Float64()*495)
	eps := round2(-2.0 + rng.Float64()*14.0) // negative EPS allowed
	shares := math.Floor(10_000_000 + rng.Float64()*4_990_000_000)
	salesPerShare := round2(1.0 + rng.Float64()*199.0)
	revenue := salesPerShare * shares

	// Margins keyed off revenue so the statement lines stay coherent.
	grossMargin := 0.25 + rng.Float64()*0.60
	ebitMargin := 0.02 + rng.Float64()*0.28
	daPct := 0.02 + rng.Float64()*0.06

	all := contracts.Metrics{
		contracts.MetricCurrentPrice:      price,
		contracts.MetricEPSTTM:            eps,
		contracts.MetricEPSCAGR5Y:         round4(-0.05 + rng.Float64()*0.40),
		contracts.MetricRevenueTTM:        revenue,
		contracts.MetricRevTTMYoYGrowth:   round4(-0.10 + rng.Float64()*0.50),
		contracts.MetricNetDebt:           round2((rng.Float64() - 0.35) * 0.5 * revenue), // net cash possible
		contracts.MetricSharesOutstanding: shares,
		contracts.MetricBookValuePerShare: round2(0.5 + rng.Float64()*80.0),
		contracts.MetricDividendTTM:       round2(rng.Float64() * math.Max(0, eps) * 0.6),
		contracts.MetricEBITTTM:           round2(revenue * ebitMargin),
		contracts.MetricEBITDATTM:         round2(revenue * (ebitMargin + daPct)),
		contracts.MetricDATTM:             round2(revenue * daPct),
		contracts.MetricGrossProfitTTM:    round2(revenue * grossMargin),
		contracts.MetricFCFTTM:            round2(revenue * ebitMargin * (0.4 + rng.Float64()*0.5)),
		contracts.MetricRDTTM:             round2(revenue * rng.Float64() * 0.15),
		contracts.MetricSGATTM:            round2(revenue * (0.05 + rng.Float64()*0.25)),
	}

	out := make(contracts.Metrics, len(keys))
	errs := make(map[string]string)
	for _, k := range keys {
		if v, ok := all[k]; ok {
			out[k] = v
		} else {
			errs[k] = "mock: no feed for metric"
		}
	}
	if len(errs) == 0 {
		errs = nil
	}
	return out, errs
}

// PSHistory returns a deterministic historical P/S series for the ticker,
// usable as input to the fair-P/S median derivation.
func (m *MockSource) PSHistory(ticker string) []float64 {
	rng := rand.New(rand.NewSource(seed(ticker) ^ 0x9e3779b9))
	out := make([]float64, 12)
	for i := range out {
		out[i] = round2(1.0 + rng.Float64()*14.0)
	}
	return out
}

func seed(ticker string) int64 {
	h := fnv.New64a()
	h.Write([]byte(ticker))
	return int64(h.Sum64() & 0x7fffffffffffffff)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }

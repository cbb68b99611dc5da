package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampyfin/vald/internal/contracts"
	"github.com/ampyfin/vald/pkg/logger"
)

func TestMockSource_Deterministic(t *testing.T) {
	src := NewMockSource(logger.Nop())
	keys := []string{
		contracts.MetricCurrentPrice,
		contracts.MetricEPSTTM,
		contracts.MetricRevenueTTM,
		contracts.MetricSharesOutstanding,
	}

	first, errs := src.FetchMetrics(context.Background(), "AAPL", keys)
	require.Nil(t, errs)
	second, _ := src.FetchMetrics(context.Background(), "AAPL", keys)

	assert.Equal(t, first, second, "same ticker must always yield the same fundamentals")

	other, _ := src.FetchMetrics(context.Background(), "MSFT", keys)
	assert.NotEqual(t, first, other, "different tickers must diverge")
}

func TestMockSource_CoherentStatements(t *testing.T) {
	src := NewMockSource(logger.Nop())
	keys := []string{
		contracts.MetricRevenueTTM,
		contracts.MetricGrossProfitTTM,
		contracts.MetricEBITTTM,
		contracts.MetricEBITDATTM,
		contracts.MetricDATTM,
		contracts.MetricSharesOutstanding,
		contracts.MetricCurrentPrice,
	}

	for _, tk := range []string{"AAPL", "MSFT", "NVDA", "KO", "XOM"} {
		m, errs := src.FetchMetrics(context.Background(), tk, keys)
		require.Nil(t, errs, tk)

		rev := m[contracts.MetricRevenueTTM]
		assert.Positive(t, rev, tk)
		assert.Positive(t, m[contracts.MetricSharesOutstanding], tk)
		assert.Positive(t, m[contracts.MetricCurrentPrice], tk)

		assert.Less(t, m[contracts.MetricGrossProfitTTM], rev, tk)
		assert.Less(t, m[contracts.MetricEBITTTM], rev, tk)
		assert.InDelta(t, m[contracts.MetricEBITDATTM],
			m[contracts.MetricEBITTTM]+m[contracts.MetricDATTM], 0.05, tk)
	}
}

func TestMockSource_NoRule40Feed(t *testing.T) {
	src := NewMockSource(logger.Nop())

	m, errs := src.FetchMetrics(context.Background(), "AAPL",
		[]string{contracts.MetricCurrentPrice, contracts.MetricRule40Score})

	assert.Contains(t, m, contracts.MetricCurrentPrice)
	assert.NotContains(t, m, contracts.MetricRule40Score)
	require.NotNil(t, errs)
	assert.Equal(t, "mock: no feed for metric", errs[contracts.MetricRule40Score])
}

func TestMockSource_PSHistory(t *testing.T) {
	src := NewMockSource(logger.Nop())

	hist := src.PSHistory("AAPL")
	require.Len(t, hist, 12)
	for _, v := range hist {
		assert.Positive(t, v)
	}
	assert.Equal(t, hist, src.PSHistory("AAPL"))
	assert.NotEqual(t, hist, src.PSHistory("MSFT"))
}

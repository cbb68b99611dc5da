package strategies

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDCFGordon_Run(t *testing.T) {
	s := DCFGordon{}

	t.Run("known one-year projection", func(t *testing.T) {
		got, err := s.Run(Params{
			"fcf_ttm":             100.0,
			"shares_outstanding":  10.0,
			"net_debt":            0.0,
			"dcf_growth_rate":     0.0,
			"dcf_years":           1,
			"dcf_discount_rate":   0.10,
			"dcf_terminal_growth": 0.0,
		})
		require.NoError(t, err)
		// Year 1 FCF 100 discounted: 90.909...; TV = 100/0.10 = 1000,
		// PV = 909.09...; EV = 1000, per share 100.
		want := (100.0/1.1 + (100.0/0.10)/1.1) / 10.0
		assert.InDelta(t, want, got, 1e-9)
	})

	t.Run("rate at or below terminal growth rejected", func(t *testing.T) {
		_, err := s.Run(Params{
			"fcf_ttm":             100.0,
			"shares_outstanding":  10.0,
			"dcf_discount_rate":   0.05,
			"dcf_terminal_growth": 0.05,
		})
		require.Error(t, err)
		var inputErr *InputError
		require.ErrorAs(t, err, &inputErr)
	})

	t.Run("negative equity excluded by default", func(t *testing.T) {
		_, err := s.Run(Params{
			"fcf_ttm":            10.0,
			"shares_outstanding": 10.0,
			"net_debt":           1e9,
		})
		require.Error(t, err)
	})

	t.Run("negative equity zero policy", func(t *testing.T) {
		got, err := s.Run(Params{
			"fcf_ttm":                      10.0,
			"shares_outstanding":           10.0,
			"net_debt":                     1e9,
			"dcf_negative_equity_handling": "zero",
		})
		require.NoError(t, err)
		assert.Zero(t, got)
	})

	t.Run("negative equity allow policy returns negative", func(t *testing.T) {
		got, err := s.Run(Params{
			"fcf_ttm":                      10.0,
			"shares_outstanding":           10.0,
			"net_debt":                     1e9,
			"dcf_negative_equity_handling": "allow",
		})
		require.NoError(t, err)
		assert.Less(t, got, 0.0)
	})

	t.Run("growth falls back to eps_cagr_5y", func(t *testing.T) {
		withCAGR, err := s.Run(Params{
			"fcf_ttm":            100.0,
			"shares_outstanding": 10.0,
			"eps_cagr_5y":        0.20,
		})
		require.NoError(t, err)

		withDefault, err := s.Run(Params{
			"fcf_ttm":            100.0,
			"shares_outstanding": 10.0,
		})
		require.NoError(t, err)

		// 20% growth must value higher than the flat 8% fallback.
		assert.Greater(t, withCAGR, withDefault)
	})
}

func TestGordonFamily_RateVsTerminalGrowth(t *testing.T) {
	// Perpetuity-style models refuse r <= gT when the clamps allow collision.
	cases := []struct {
		name   string
		strat  Strategy
		params Params
	}{
		{
			name:  "ddm_two_stage",
			strat: DDMTwoStage{},
			params: Params{
				"dividend_ttm":        2.0,
				"ddm_discount_rate":   0.05,
				"ddm_terminal_growth": 0.05,
			},
		},
		{
			name:  "residual_income",
			strat: ResidualIncome{},
			params: Params{
				"eps_ttm":              5.0,
				"book_value_per_share": 20.0,
				"ri_discount_rate":     0.05,
				"ri_terminal_growth":   0.05,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.strat.Run(tc.params)
			require.Error(t, err)
			var inputErr *InputError
			require.ErrorAs(t, err, &inputErr)
		})
	}
}

func TestHModelDividend_Run(t *testing.T) {
	s := HModelDividend{}

	t.Run("closed-form fade pricing", func(t *testing.T) {
		got, err := s.Run(Params{
			"dividend_ttm":       2.0,
			"h_discount_rate":    0.10,
			"h_long_run_growth":  0.02,
			"h_short_run_growth": 0.10,
			"h_fade_years":       8,
		})
		require.NoError(t, err)
		// P0 = [D0*(1+gL) + D0*H*(gS-gL)] / (r-gL), H = 4
		want := (2.0*1.02 + 2.0*4.0*(0.10-0.02)) / (0.10 - 0.02)
		assert.InDelta(t, want, got, 1e-9)
	})

	t.Run("rate and growth clamps keep the denominator positive", func(t *testing.T) {
		// r floors at 0.06 and gL caps at 0.04, so even colliding inputs
		// price rather than reject.
		got, err := s.Run(Params{
			"dividend_ttm":      2.0,
			"h_discount_rate":   0.01,
			"h_long_run_growth": 0.50,
		})
		require.NoError(t, err)
		assert.Positive(t, got)
	})

	t.Run("non-positive dividend not applicable", func(t *testing.T) {
		_, err := s.Run(Params{"dividend_ttm": 0.0})
		require.Error(t, err)
		var inputErr *InputError
		require.ErrorAs(t, err, &inputErr)
	})
}

func TestClampHelpers(t *testing.T) {
	assert.Equal(t, 5.0, clamp(3.0, 5.0, 10.0))
	assert.Equal(t, 10.0, clamp(12.0, 5.0, 10.0))
	assert.Equal(t, 7.0, clamp(7.0, 5.0, 10.0))

	assert.Equal(t, 1, clampInt(0, 1, 10))
	assert.Equal(t, 10, clampInt(99, 1, 10))

	// NaN and infinities are unavailable, not values.
	_, ok := toFloat(math.NaN())
	assert.False(t, ok)
	_, ok = toFloat(math.Inf(1))
	assert.False(t, ok)
}

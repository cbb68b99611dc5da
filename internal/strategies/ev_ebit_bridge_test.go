package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEVEBITBridge_Run(t *testing.T) {
	s := EVEBITBridge{}

	t.Run("bridges enterprise value to per-share equity", func(t *testing.T) {
		got, err := s.Run(Params{
			"ebit_ttm":           100.0,
			"net_debt":           200.0,
			"shares_outstanding": 50.0,
			"target_ev_ebit":     12.0,
		})
		require.NoError(t, err)
		// EV = 1200, equity = 1000, per share = 20
		assert.InDelta(t, 20.0, got, 1e-9)
	})

	t.Run("net cash adds to equity", func(t *testing.T) {
		got, err := s.Run(Params{
			"ebit_ttm":           100.0,
			"net_debt":           -100.0,
			"shares_outstanding": 50.0,
			"target_ev_ebit":     12.0,
		})
		require.NoError(t, err)
		assert.InDelta(t, 26.0, got, 1e-9)
	})

	t.Run("target multiple clamped to band", func(t *testing.T) {
		low, err := s.Run(Params{
			"ebit_ttm":           100.0,
			"net_debt":           0.0,
			"shares_outstanding": 100.0,
			"target_ev_ebit":     1.0, // below min 6
		})
		require.NoError(t, err)
		assert.InDelta(t, 6.0, low, 1e-9)

		high, err := s.Run(Params{
			"ebit_ttm":           100.0,
			"net_debt":           0.0,
			"shares_outstanding": 100.0,
			"target_ev_ebit":     99.0, // above max 20
		})
		require.NoError(t, err)
		assert.InDelta(t, 20.0, high, 1e-9)
	})

	t.Run("non-positive EBIT rejected", func(t *testing.T) {
		_, err := s.Run(Params{
			"ebit_ttm":           -10.0,
			"net_debt":           0.0,
			"shares_outstanding": 50.0,
		})
		require.Error(t, err)
	})
}

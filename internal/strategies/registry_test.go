package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Defaults(t *testing.T) {
	reg := NewRegistry()

	all := reg.ListAll()
	assert.Len(t, all, 22)

	enabled := reg.Enabled()
	assert.Len(t, enabled, 20)
	assert.NotContains(t, enabled, "rule40_evs")
	assert.NotContains(t, enabled, "ddm_two_stage")

	// Every registered name must produce a working instance whose Name()
	// round-trips.
	for _, name := range all {
		s, err := reg.New(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, s.Name())
	}
}

func TestRegistry_SetEnabledRoundTrip(t *testing.T) {
	reg := NewRegistry()

	want := []string{"graham_number", "peter_lynch", "fcf_yield"}
	require.NoError(t, reg.SetEnabled(want))
	assert.Equal(t, want, reg.Enabled())
}

func TestRegistry_SetEnabledAtomic(t *testing.T) {
	reg := NewRegistry()
	before := reg.Enabled()

	err := reg.SetEnabled([]string{"peter_lynch", "no_such_strategy"})
	require.Error(t, err)
	var unknown *UnknownStrategyError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "no_such_strategy", unknown.Name)

	// A failed update must leave the previous set untouched.
	assert.Equal(t, before, reg.Enabled())
}

func TestRegistry_UnknownLookups(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.New("nope")
	assert.Error(t, err)

	_, err = reg.RequiredMetrics("nope")
	assert.Error(t, err)

	// Defaults lookup is permissive: unknown names yield an empty map.
	assert.Empty(t, reg.DefaultHyperparams("nope"))
}

func TestRegistry_DefaultHyperparamsCopied(t *testing.T) {
	reg := NewRegistry()

	hp := reg.DefaultHyperparams("peter_lynch")
	require.Equal(t, 5.0, hp["min_growth_pe"])

	hp["min_growth_pe"] = 99.0
	assert.Equal(t, 5.0, reg.DefaultHyperparams("peter_lynch")["min_growth_pe"],
		"mutating a returned map must not affect the registry")
}

func TestRegistry_FetchSet(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.SetEnabled([]string{"peter_lynch", "psales_reversion"}))

	got := reg.FetchSet()
	assert.Equal(t, []string{
		"current_price",
		"eps_ttm", "eps_cagr_5y",
		"revenue_ttm", "shares_outstanding",
	}, got, "fetch set is the ordered union of enabled strategies' metrics, price first")
}

func TestRegistry_FetchSetDeduplicates(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.SetEnabled([]string{"ev_ebit_bridge", "epv_ebit"}))

	got := reg.FetchSet()
	seen := make(map[string]int)
	for _, k := range got {
		seen[k]++
	}
	for k, n := range seen {
		assert.Equal(t, 1, n, "metric %s appears %d times", k, n)
	}
	assert.Contains(t, got, "ebit_ttm")
	assert.Contains(t, got, "current_price")
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register("peter_lynch", func() Strategy { return PeterLynch{} }, nil, nil)
	assert.Error(t, err)
}

package consensus

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64 { return &v }

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
		ok     bool
	}{
		{"odd count", []float64{10, 20, 30}, 20, true},
		{"even count averages middle pair", []float64{10, 20, 30, 40}, 25, true},
		{"unsorted input", []float64{30, 10, 20}, 20, true},
		{"single value", []float64{7}, 7, true},
		{"empty", nil, 0, false},
		{"nan ignored", []float64{10, math.NaN(), 30}, 20, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Median(tt.values)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestPercentile(t *testing.T) {
	values := []float64{10, 20, 30, 40}

	p25, ok := Percentile(values, 0.25)
	require.True(t, ok)
	assert.InDelta(t, 17.5, p25, 1e-9)

	p75, ok := Percentile(values, 0.75)
	require.True(t, ok)
	assert.InDelta(t, 32.5, p75, 1e-9)

	p50, ok := Percentile(values, 0.50)
	require.True(t, ok)
	assert.InDelta(t, 25.0, p50, 1e-9)

	// Bounds
	p0, _ := Percentile(values, 0.0)
	assert.InDelta(t, 10.0, p0, 1e-9)
	p100, _ := Percentile(values, 1.0)
	assert.InDelta(t, 40.0, p100, 1e-9)

	// Out-of-range p is clamped, not rejected.
	pNeg, _ := Percentile(values, -0.5)
	assert.InDelta(t, 10.0, pNeg, 1e-9)

	_, ok = Percentile(nil, 0.25)
	assert.False(t, ok)

	single, ok := Percentile([]float64{42}, 0.75)
	require.True(t, ok)
	assert.InDelta(t, 42.0, single, 1e-9)
}

func TestAggregate(t *testing.T) {
	t.Run("full record", func(t *testing.T) {
		rec := Aggregate("ACME", map[string]*float64{
			"a": fp(10), "b": fp(20), "c": fp(30), "d": fp(40),
		}, fp(20))

		require.NotNil(t, rec.ConsensusFairValue)
		assert.InDelta(t, 25.0, *rec.ConsensusFairValue, 1e-9)
		require.NotNil(t, rec.ConsensusP25)
		assert.InDelta(t, 17.5, *rec.ConsensusP25, 1e-9)
		require.NotNil(t, rec.ConsensusP75)
		assert.InDelta(t, 32.5, *rec.ConsensusP75, 1e-9)
		require.NotNil(t, rec.ConsensusDiscount)
		assert.InDelta(t, 0.25, *rec.ConsensusDiscount, 1e-9)
	})

	t.Run("nil strategy outputs excluded", func(t *testing.T) {
		rec := Aggregate("ACME", map[string]*float64{
			"a": fp(10), "b": nil, "c": fp(30),
		}, fp(10))

		require.NotNil(t, rec.ConsensusFairValue)
		assert.InDelta(t, 20.0, *rec.ConsensusFairValue, 1e-9)
	})

	t.Run("no outputs yields all-nil consensus", func(t *testing.T) {
		rec := Aggregate("ACME", map[string]*float64{"a": nil, "b": nil}, fp(10))
		assert.Nil(t, rec.ConsensusFairValue)
		assert.Nil(t, rec.ConsensusP25)
		assert.Nil(t, rec.ConsensusP75)
		assert.Nil(t, rec.ConsensusDiscount)
	})

	t.Run("nil price nullifies discount only", func(t *testing.T) {
		rec := Aggregate("ACME", map[string]*float64{"a": fp(10)}, nil)
		require.NotNil(t, rec.ConsensusFairValue)
		assert.Nil(t, rec.ConsensusDiscount)
	})

	t.Run("zero price nullifies discount", func(t *testing.T) {
		rec := Aggregate("ACME", map[string]*float64{"a": fp(10)}, fp(0))
		assert.Nil(t, rec.ConsensusDiscount)
	})
}

func TestDiscount(t *testing.T) {
	got := Discount(fp(120), fp(100))
	require.NotNil(t, got)
	assert.InDelta(t, 0.2, *got, 1e-9)

	assert.Nil(t, Discount(nil, fp(100)))
	assert.Nil(t, Discount(fp(120), nil))
	assert.Nil(t, Discount(fp(120), fp(0)))
}

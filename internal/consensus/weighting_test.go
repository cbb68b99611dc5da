package consensus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlendWeights(t *testing.T) {
	cfg := DefaultWeightingConfig()

	tests := []struct {
		name       string
		in         BlendInputs
		wantLynch  float64
		wantPSales float64
	}{
		{
			name:       "no signals keeps base weights",
			in:         BlendInputs{},
			wantLynch:  0.5,
			wantPSales: 0.5,
		},
		{
			name:       "thin margin favors sales method",
			in:         BlendInputs{NetMargin: fp(0.02)},
			wantLynch:  0.2,
			wantPSales: 0.8,
		},
		{
			name:       "fat margin favors earnings method",
			in:         BlendInputs{NetMargin: fp(0.15)},
			wantLynch:  0.8,
			wantPSales: 0.2,
		},
		{
			name:       "mid margin leans earnings",
			in:         BlendInputs{NetMargin: fp(0.07)},
			wantLynch:  0.6,
			wantPSales: 0.4,
		},
		{
			name:       "negative growth shifts toward sales",
			in:         BlendInputs{GrowthPct: fp(-5)},
			wantLynch:  0.2, // 0.5 - 0.3
			wantPSales: 0.8,
		},
		{
			name:       "high growth shifts toward earnings",
			in:         BlendInputs{GrowthPct: fp(25)},
			wantLynch:  0.7, // 0.5 + 0.2
			wantPSales: 0.3,
		},
		{
			name:       "negative growth on thin margin clamps at 0.1",
			in:         BlendInputs{NetMargin: fp(0.02), GrowthPct: fp(-5)},
			wantLynch:  0.1,
			wantPSales: 0.9,
		},
		{
			name:       "negative EPS overrides everything",
			in:         BlendInputs{NetMargin: fp(0.15), GrowthPct: fp(25), EPSTTM: fp(-1)},
			wantLynch:  0.1,
			wantPSales: 0.9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lynch, psales := BlendWeights(tt.in, cfg)
			assert.InDelta(t, tt.wantLynch, lynch, 1e-9)
			assert.InDelta(t, tt.wantPSales, psales, 1e-9)
			assert.InDelta(t, 1.0, lynch+psales, 1e-9, "weights must sum to 1")
		})
	}
}

func TestWeightedFairValue(t *testing.T) {
	t.Run("both present blends", func(t *testing.T) {
		got := WeightedFairValue(fp(100), fp(50), 0.8, 0.2)
		require.NotNil(t, got)
		assert.InDelta(t, 90.0, *got, 1e-9)
	})

	t.Run("single estimate used unweighted", func(t *testing.T) {
		got := WeightedFairValue(fp(100), nil, 0.3, 0.7)
		require.NotNil(t, got)
		assert.InDelta(t, 100.0, *got, 1e-9)

		got = WeightedFairValue(nil, fp(50), 0.3, 0.7)
		require.NotNil(t, got)
		assert.InDelta(t, 50.0, *got, 1e-9)
	})

	t.Run("neither present yields nil", func(t *testing.T) {
		assert.Nil(t, WeightedFairValue(nil, nil, 0.5, 0.5))
	})
}

func TestFairPSFromHistory(t *testing.T) {
	got, err := FairPSFromHistory([]float64{1, 2, 10, 4, 5})
	require.NoError(t, err)
	assert.InDelta(t, 4.0, got, 1e-9)

	_, err = FairPSFromHistory(nil)
	require.ErrorIs(t, err, ErrEmptyHistory)
}

package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeterLynch_Run(t *testing.T) {
	s := PeterLynch{}

	tests := []struct {
		name    string
		params  Params
		want    float64
		wantErr bool
	}{
		{
			name:   "growth inside clamp band",
			params: Params{"eps_ttm": 2.0, "eps_cagr_5y": 0.20},
			want:   40.0, // 20% growth -> PE 20
		},
		{
			name:   "growth below min_pe floors at 5",
			params: Params{"eps_ttm": 2.0, "eps_cagr_5y": 0.02},
			want:   10.0, // PE clamped up to 5
		},
		{
			name:   "growth above max_pe caps at 35",
			params: Params{"eps_ttm": 1.0, "eps_cagr_5y": 0.80},
			want:   35.0,
		},
		{
			name:   "negative growth uses negative_growth_pe",
			params: Params{"eps_ttm": 3.0, "eps_cagr_5y": -0.10},
			want:   15.0,
		},
		{
			name:    "non-positive EPS rejected",
			params:  Params{"eps_ttm": -1.0, "eps_cagr_5y": 0.10},
			wantErr: true,
		},
		{
			name:    "missing growth rejected",
			params:  Params{"eps_ttm": 2.0},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Run(tt.params)
			if tt.wantErr {
				require.Error(t, err)
				var inputErr *InputError
				require.ErrorAs(t, err, &inputErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestPeterLynch_Deterministic(t *testing.T) {
	s := PeterLynch{}
	p := Params{"eps_ttm": 4.2, "eps_cagr_5y": 0.17}

	first, err := s.Run(p)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := s.Run(p)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

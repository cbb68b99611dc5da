package consensus

import (
	"errors"
	"math"
)

// WeightingConfig tunes the two-strategy blend between the earnings-based
// Peter Lynch estimate and the sales-based P/S reversion estimate.
type WeightingConfig struct {
	LowMarginThreshold    float64
	HighMarginThreshold   float64
	NegativeGrowthPenalty float64
	HighGrowthBoost       float64
	DefaultLynchWeight    float64
	DefaultPSalesWeight   float64
}

// DefaultWeightingConfig mirrors the tuned production defaults.
func DefaultWeightingConfig() WeightingConfig {
	return WeightingConfig{
		LowMarginThreshold:    0.05,
		HighMarginThreshold:   0.10,
		NegativeGrowthPenalty: 0.3,
		HighGrowthBoost:       0.2,
		DefaultLynchWeight:    0.5,
		DefaultPSalesWeight:   0.5,
	}
}

// BlendInputs carries the company characteristics the weighting reads.
// Nil means the signal is unavailable and the corresponding adjustment is
// skipped. GrowthPct is in percent units (15 means +15%).
type BlendInputs struct {
	NetMargin *float64
	GrowthPct *float64
	EPSTTM    *float64
}

// BlendWeights computes (lynchWeight, psalesWeight), summing to 1.0, from
// margin, growth and earnings-sign heuristics. Thin-margin or loss-making
// names lean on the sales-based method; high-margin, high-growth names lean
// on the earnings-based method.
func BlendWeights(in BlendInputs, cfg WeightingConfig) (float64, float64) {
	lynch := cfg.DefaultLynchWeight
	psales := cfg.DefaultPSalesWeight

	if in.NetMargin != nil {
		switch {
		case *in.NetMargin < cfg.LowMarginThreshold:
			lynch, psales = 0.2, 0.8
		case *in.NetMargin > cfg.HighMarginThreshold:
			lynch, psales = 0.8, 0.2
		default:
			lynch, psales = 0.6, 0.4
		}
	}

	if in.GrowthPct != nil {
		if *in.GrowthPct < 0 {
			lynch = math.Max(0.1, lynch-cfg.NegativeGrowthPenalty)
			psales = math.Min(0.9, psales+cfg.NegativeGrowthPenalty)
		} else if *in.GrowthPct > 15 {
			lynch = math.Min(0.9, lynch+cfg.HighGrowthBoost)
			psales = math.Max(0.1, psales-cfg.HighGrowthBoost)
		}
	}

	if in.EPSTTM != nil && *in.EPSTTM <= 0 {
		lynch, psales = 0.1, 0.9
	}

	if total := lynch + psales; total > 0 {
		lynch /= total
		psales /= total
	}

	return lynch, psales
}

// WeightedFairValue blends the two estimates with the given weights. When
// only one estimate is present it is used unweighted; when neither is, the
// result is nil.
func WeightedFairValue(lynchFV, psalesFV *float64, lynchWeight, psalesWeight float64) *float64 {
	switch {
	case lynchFV != nil && psalesFV != nil:
		v := *lynchFV*lynchWeight + *psalesFV*psalesWeight
		return &v
	case lynchFV != nil:
		return lynchFV
	case psalesFV != nil:
		return psalesFV
	}
	return nil
}

// ErrEmptyHistory reports that a historical series had no usable points.
var ErrEmptyHistory = errors.New("empty history")

// FairPSFromHistory derives a fair price-to-sales multiple as the median of
// a historical P/S series. An empty series is an error, never zero.
func FairPSFromHistory(history []float64) (float64, error) {
	m, ok := Median(history)
	if !ok {
		return 0, ErrEmptyHistory
	}
	return m, nil
}

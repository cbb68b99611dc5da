// Package consensus fuses heterogeneous per-strategy fair values into a
// single central estimate with dispersion bounds.
package consensus

import (
	"math"
	"sort"

	"github.com/ampyfin/vald/internal/contracts"
)

// Median returns the statistical median of values: the middle element for
// odd counts, the average of the two middle elements for even counts.
// Returns false for an empty slice.
func Median(values []float64) (float64, bool) {
	xs := finite(values)
	n := len(xs)
	if n == 0 {
		return 0, false
	}
	sort.Float64s(xs)
	if n%2 == 1 {
		return xs[n/2], true
	}
	return (xs[n/2-1] + xs[n/2]) / 2.0, true
}

// Percentile computes the p-th percentile (p in [0,1]) with linear
// interpolation between closest ranks: index = (n-1)*p. Returns false for an
// empty slice.
func Percentile(values []float64, p float64) (float64, bool) {
	xs := finite(values)
	n := len(xs)
	if n == 0 {
		return 0, false
	}
	sort.Float64s(xs)
	if n == 1 {
		return xs[0], true
	}
	p = math.Max(0.0, math.Min(1.0, p))
	idx := float64(n-1) * p
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return xs[lo], true
	}
	frac := idx - float64(lo)
	return xs[lo] + (xs[hi]-xs[lo])*frac, true
}

// Aggregate builds the ConsensusRecord for one ticker from its per-strategy
// fair values and current price. Nil strategy outputs are excluded from the
// statistics; a ticker with no usable output yields all-nil consensus fields.
func Aggregate(ticker string, fairValues map[string]*float64, currentPrice *float64) *contracts.ConsensusRecord {
	rec := &contracts.ConsensusRecord{
		Ticker:             ticker,
		CurrentPrice:       currentPrice,
		StrategyFairValues: fairValues,
	}

	var xs []float64
	for _, fv := range fairValues {
		if fv != nil && !math.IsNaN(*fv) && !math.IsInf(*fv, 0) {
			xs = append(xs, *fv)
		}
	}

	if cons, ok := Median(xs); ok {
		rec.ConsensusFairValue = &cons
	}
	if p25, ok := Percentile(xs, 0.25); ok {
		rec.ConsensusP25 = &p25
	}
	if p75, ok := Percentile(xs, 0.75); ok {
		rec.ConsensusP75 = &p75
	}
	rec.ConsensusDiscount = Discount(rec.ConsensusFairValue, currentPrice)

	return rec
}

// Discount returns fair/price - 1, or nil when either operand is missing or
// the price is zero.
func Discount(fair, price *float64) *float64 {
	if fair == nil || price == nil || *price == 0 {
		return nil
	}
	d := *fair / *price - 1.0
	return &d
}

func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

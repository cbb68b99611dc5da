package strategies

import "math"

// GrahamNumber is Benjamin Graham's conservative fair value:
//
//	FV = sqrt(pe_cap * pb_cap * EPS * BVPS)   (classically sqrt(22.5 * EPS * BVPS))
//
// Undefined for non-positive EPS or BVPS, in which case the model reports
// "not applicable" for the ticker.
type GrahamNumber struct{}

func (GrahamNumber) Name() string { return "graham_number" }

func (s GrahamNumber) Run(p Params) (float64, error) {
	eps, ok := optFloat(p, "eps_ttm")
	if !ok || eps <= 0 {
		return 0, inputErr(s.Name(), "EPS must be > 0")
	}
	bvps, ok := optFloat(p, "book_value_per_share")
	if !ok || bvps <= 0 {
		return 0, inputErr(s.Name(), "BVPS must be > 0")
	}

	mult, ok := optFloat(p, "graham_multiplier")
	if !ok {
		peCap := clamp(floatOr(p, "graham_pe_cap", 15.0), 1.0, 40.0)
		pbCap := clamp(floatOr(p, "graham_pb_cap", 1.5), 0.2, 10.0)
		mult = peCap * pbCap
	}

	if mult <= 0 {
		return 0, inputErr(s.Name(), "invalid multiplier")
	}

	return math.Sqrt(mult * eps * bvps), nil
}

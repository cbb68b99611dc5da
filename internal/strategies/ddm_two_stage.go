package strategies

import "math"

// DDMTwoStage is the classic two-stage dividend discount model:
// N years of dividends grown at a high rate, then a Gordon terminal value
// at a stable growth rate.
type DDMTwoStage struct{}

func (DDMTwoStage) Name() string { return "ddm_two_stage" }

func (s DDMTwoStage) Run(p Params) (float64, error) {
	d0, ok := optFloat(p, "dividend_ttm")
	if !ok || d0 <= 0 {
		return 0, inputErr(s.Name(), "missing/invalid dividend_ttm")
	}

	n := clampInt(intOr(p, "ddm_high_years", 5), 1, 15)
	r := clamp(floatOr(p, "ddm_discount_rate", 0.09), 0.05, 0.20)

	g1, ok := optFloat(p, "ddm_high_growth_rate")
	if !ok {
		g1, ok = optFloat(p, "eps_cagr_5y") // fallback proxy
	}
	if !ok {
		g1 = 0.05
	}
	g1 = clamp(g1, -0.05, 0.20)

	gT := clamp(floatOr(p, "ddm_terminal_growth", 0.02), -0.02, 0.05)

	if r <= gT {
		return 0, inputErr(s.Name(), "discount_rate must be > terminal_growth")
	}

	// PV of high-growth dividends.
	fv := 0.0
	dT := d0
	for t := 1; t <= n; t++ {
		dT *= 1.0 + g1
		fv += dT / math.Pow(1.0+r, float64(t))
	}

	// Terminal value as of year N, discounted back.
	tvN := dT * (1.0 + gT) / (r - gT)
	tvPV := tvN / math.Pow(1.0+r, float64(n))

	return fv + tvPV, nil
}

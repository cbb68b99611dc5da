package strategies

// HModelDividend is the classic H-Model dividend valuation:
//
//	P0 = [ D0*(1+gL) + D0*H*(gS-gL) ] / (r - gL),  H = fade_years / 2
//
// Near-term growth gS fades linearly to the long-run rate gL over the fade
// horizon; the H approximation prices that fade in closed form.
type HModelDividend struct{}

func (HModelDividend) Name() string { return "hmodel_dividend" }

func (s HModelDividend) Run(p Params) (float64, error) {
	d0, ok := optFloat(p, "dividend_ttm")
	if !ok || d0 <= 0 {
		return 0, inputErr(s.Name(), "dividend_ttm must be > 0")
	}

	r := clamp(floatOr(p, "h_discount_rate", 0.10), 0.06, 0.20)
	gL := clamp(floatOr(p, "h_long_run_growth", 0.02), -0.01, 0.04)

	gS, ok := optFloat(p, "h_short_run_growth")
	if !ok {
		gS, ok = optFloat(p, "eps_cagr_5y")
	}
	if !ok {
		gS = 0.10
	}
	gS = clamp(gS, 0.00, 0.25)

	n := clampInt(intOr(p, "h_fade_years", 8), 2, 20)
	h := 0.5 * float64(n)

	if r <= gL {
		return 0, inputErr(s.Name(), "discount_rate must exceed long-run growth (r=%.3f, gL=%.3f)", r, gL)
	}

	return (d0*(1.0+gL) + d0*h*(gS-gL)) / (r - gL), nil
}

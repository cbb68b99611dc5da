package strategies

// JustifiedPEROE prices off the leading-P/E Gordon identity:
//
//	P0/E1 = payout / (r - g), with g = retention * ROE
//	FV    = E1 * payout / (r - g)
//
// Retention is taken from jpe_retention_ratio when supplied; otherwise the
// payout is inferred from dividend_ttm/eps, floored, and retention derived
// from it. Unlike the stricter perpetuity models, g is pulled just below r
// when the two collide, since high-quality compounders can legitimately
// approach r.
type JustifiedPEROE struct{}

func (JustifiedPEROE) Name() string { return "justified_pe_roe" }

func (s JustifiedPEROE) Run(p Params) (float64, error) {
	eps, ok := optFloat(p, "eps_ttm")
	if !ok || eps <= 0 {
		return 0, inputErr(s.Name(), "EPS must be > 0")
	}
	bvps, ok := optFloat(p, "book_value_per_share")
	if !ok || bvps <= 0 {
		return 0, inputErr(s.Name(), "BVPS must be > 0")
	}

	r := clamp(floatOr(p, "jpe_discount_rate", 0.10), 0.05, 0.20)

	roe := eps / bvps

	var b, payout float64
	if br, ok := optFloat(p, "jpe_retention_ratio"); ok {
		b = clamp(br, 0.0, 1.0)
		payout = 1.0 - b
	} else {
		payout = -1.0
		if div, hasDiv := optFloat(p, "dividend_ttm"); hasDiv {
			payout = div / eps
		}
		if payout < 0 {
			payout = floatOr(p, "jpe_default_payout", 0.30)
		}
		payoutFloor := floatOr(p, "jpe_floor_payout", 0.05)
		payout = clamp(payout, payoutFloor, 1.0)
		b = 1.0 - payout
	}

	gCap := clamp(floatOr(p, "jpe_max_long_run_g", 0.12), -0.02, 0.15)
	g := clamp(b*roe, -0.02, gCap)

	if r <= g {
		// Keep a small buffer instead of rejecting: growth near r is
		// plausible for quality names but explodes the denominator.
		g = r - 0.01
	}

	e1 := eps
	if boolOr(p, "jpe_use_forward_eps", true) {
		e1 = eps * (1.0 + g)
	}

	return e1 * payout / (r - g), nil
}

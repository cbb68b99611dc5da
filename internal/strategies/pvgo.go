package strategies

// PVGO prices via the growth-opportunities decomposition P0 = E1/r + PVGO,
// collapsed to the justified forward P/E formula with the ROE-retention
// growth link g = b*ROE:
//
//	P0 = E1 * payout / (r - g)
//
// ROE is approximated per share as EPS/BVPS and capped; growth is capped
// conservatively to avoid g approaching r.
type PVGO struct{}

func (PVGO) Name() string { return "pvgo" }

func (s PVGO) Run(p Params) (float64, error) {
	eps, ok := optFloat(p, "eps_ttm")
	if !ok || eps <= 0 {
		return 0, inputErr(s.Name(), "EPS must be > 0")
	}
	bvps, ok := optFloat(p, "book_value_per_share")
	if !ok || bvps <= 0 {
		return 0, inputErr(s.Name(), "BVPS must be > 0")
	}

	r := clamp(floatOr(p, "pvgo_discount_rate", 0.10), 0.05, 0.20)

	roeCap := clamp(floatOr(p, "pvgo_cap_roe", 0.35), 0.05, 0.60)
	roe := eps / bvps
	if roe > roeCap {
		roe = roeCap
	}

	var payout float64
	if div, hasDiv := optFloat(p, "dividend_ttm"); hasDiv {
		payout = clamp(div/eps, 0.0, 1.0)
	} else {
		payoutFloor := floatOr(p, "pvgo_floor_payout", 0.05)
		payout = clamp(floatOr(p, "pvgo_default_payout", 0.30), payoutFloor, 1.0)
	}
	b := 1.0 - payout

	gCap := clamp(floatOr(p, "pvgo_cap_g", 0.12), -0.02, 0.15)
	g := clamp(b*roe, -0.02, gCap)

	if r <= g {
		return 0, inputErr(s.Name(), "discount_rate must exceed growth (r=%.3f, g=%.3f)", r, g)
	}

	e1 := eps
	if boolOr(p, "pvgo_use_forward_eps", true) {
		e1 = eps * (1.0 + g)
	}

	return e1 * payout / (r - g), nil
}

package strategies

// JustifiedPBROE applies the residual-income steady-state identity for a
// justified price-to-book multiple:
//
//	P0/B0 = (ROE - g) / (r - g)   =>   FV = BVPS * (ROE - g) / (r - g)
//
// ROE is approximated per share as EPS / BVPS. Growth selection order:
// explicit jpbr_growth_rate, then eps_cagr_5y, then retention*ROE inferred
// from dividends, then a conservative 0.03.
type JustifiedPBROE struct{}

func (JustifiedPBROE) Name() string { return "justified_pb_roe" }

func (s JustifiedPBROE) Run(p Params) (float64, error) {
	eps, ok := optFloat(p, "eps_ttm")
	if !ok || eps <= 0 {
		return 0, inputErr(s.Name(), "EPS must be > 0")
	}
	bvps, ok := optFloat(p, "book_value_per_share")
	if !ok || bvps <= 0 {
		return 0, inputErr(s.Name(), "BVPS must be > 0")
	}

	roe := eps / bvps

	r := clamp(floatOr(p, "jpbr_discount_rate", 0.10), 0.05, 0.20)

	g, ok := optFloat(p, "jpbr_growth_rate")
	if !ok {
		g, ok = optFloat(p, "eps_cagr_5y")
	}
	if !ok {
		if div, hasDiv := optFloat(p, "dividend_ttm"); hasDiv {
			payout := clamp(div/eps, 0.0, 1.0)
			g = (1.0 - payout) * roe
			ok = true
		}
	}
	if !ok {
		g = 0.03 // conservative fallback
	}
	g = clamp(g, -0.02, 0.08)

	// Avoid negative or undefined justified multiples.
	if r <= g {
		return 0, inputErr(s.Name(), "discount_rate must exceed growth (r=%.3f, g=%.3f)", r, g)
	}
	if roe <= g {
		return 0, inputErr(s.Name(), "ROE must exceed growth (roe=%.3f, g=%.3f)", roe, g)
	}

	justifiedPB := (roe - g) / (r - g)
	return bvps * justifiedPB, nil
}

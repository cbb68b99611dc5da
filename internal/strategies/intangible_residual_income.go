package strategies

import "math"

// IntangibleResidualIncome is a residual income model with R&D and a portion
// of SG&A capitalized as intangible assets (steady-state approximation):
//
//	adj_BVPS = BVPS + rd_ttm*rd_life/shares + sga_ttm*brand_pct*brand_life/shares
//	adj_EPS  = EPS + (rd_ttm/shares)*(1-1/rd_life) + (sga_ttm*brand_pct/shares)*(1-1/brand_life)
//
// followed by a finite-horizon RI model with continuing terminal value on the
// adjusted figures. With zero R&D and SG&A it degrades to plain residual
// income rather than failing.
type IntangibleResidualIncome struct{}

func (IntangibleResidualIncome) Name() string { return "intangible_residual_income" }

func (s IntangibleResidualIncome) Run(p Params) (float64, error) {
	shares, ok := optFloat(p, "shares_outstanding")
	if !ok || shares <= 0 {
		return 0, inputErr(s.Name(), "shares_outstanding must be > 0")
	}
	eps, ok := optFloat(p, "eps_ttm")
	if !ok || eps <= 0 {
		return 0, inputErr(s.Name(), "eps_ttm must be > 0")
	}
	bvps, ok := optFloat(p, "book_value_per_share")
	if !ok || bvps <= 0 {
		return 0, inputErr(s.Name(), "book_value_per_share must be > 0")
	}

	rdTTM := floatOr(p, "rd_ttm", 0.0)
	if rdTTM < 0 {
		rdTTM = 0.0
	}
	sgaTTM := floatOr(p, "sga_ttm", 0.0)
	if sgaTTM < 0 {
		sgaTTM = 0.0
	}

	r := clamp(floatOr(p, "iri_discount_rate", 0.10), 0.06, 0.18)
	n := clampInt(intOr(p, "iri_horizon_years", 8), 3, 15)
	gT := clamp(floatOr(p, "iri_terminal_growth", 0.02), -0.01, 0.03)
	if r <= gT {
		return 0, inputErr(s.Name(), "discount_rate must exceed terminal growth (r=%.3f, gT=%.3f)", r, gT)
	}

	gEPS, ok := optFloat(p, "iri_eps_growth")
	if !ok {
		gEPS, ok = optFloat(p, "eps_cagr_5y")
	}
	if !ok {
		gEPS = 0.10
	}
	gEPS = clamp(gEPS, 0.00, 0.25)

	payoutFloor := clamp(floatOr(p, "iri_div_payout_floor", 0.10), 0.0, 0.6)

	rdLife := clampInt(intOr(p, "rd_life_years", 5), 2, 8)
	brandPct := clamp(floatOr(p, "brand_pct_of_sga", 0.30), 0.0, 0.7)
	brandLife := clampInt(intOr(p, "brand_life_years", 5), 2, 10)

	rdAssetPS := rdTTM * float64(rdLife) / shares
	brandAssetPS := sgaTTM * brandPct * float64(brandLife) / shares
	adjBVPS := bvps + rdAssetPS + brandAssetPS

	rdAddbackPS := (rdTTM / shares) * (1.0 - 1.0/float64(rdLife))
	brandAddbackPS := (sgaTTM * brandPct / shares) * (1.0 - 1.0/float64(brandLife))
	adjEPS0 := eps + rdAddbackPS + brandAddbackPS

	payout := payoutFloor
	if div, hasDiv := optFloat(p, "dividend_ttm"); hasDiv && div >= 0 {
		payout = clamp(div/eps, payoutFloor, 1.0)
	}
	retention := 1.0 - payout

	pv := 0.0
	bv := adjBVPS
	epsT := adjEPS0
	for t := 1; t <= n; t++ {
		if t > 1 {
			epsT *= 1.0 + gEPS
		}
		riT := epsT - r*bv // off beginning book value
		pv += riT / math.Pow(1.0+r, float64(t))
		bv += epsT * retention
	}

	epsN1 := epsT * (1.0 + gT)
	riN1 := epsN1 - r*bv
	pv += riN1 / (r - gT) / math.Pow(1.0+r, float64(n))

	return adjBVPS + pv, nil
}

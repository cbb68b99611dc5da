package strategies

import "math"

// SaaSGrowthEVSRegression estimates a fair EV/Sales multiple from growth and
// margin signals, with a Rule of 40 style bonus:
//
//	EV/S = base + beta_g*growth + beta_gm*(GM - GM_ref) + beta_r40*max(0, growth+GM-1)
//
// The multiple is hard-clamped; enterprise value then bridges to equity per
// share. Growth prefers rev_ttm_yoy_growth and falls back to eps_cagr_5y.
type SaaSGrowthEVSRegression struct{}

func (SaaSGrowthEVSRegression) Name() string { return "saas_growth_evs_regression" }

func (s SaaSGrowthEVSRegression) Run(p Params) (float64, error) {
	rev, ok := optFloat(p, "revenue_ttm")
	if !ok || rev <= 0 {
		return 0, inputErr(s.Name(), "revenue_ttm must be > 0")
	}
	shares, ok := optFloat(p, "shares_outstanding")
	if !ok || shares <= 0 {
		return 0, inputErr(s.Name(), "shares_outstanding must be > 0")
	}
	netDebt := floatOr(p, "net_debt", 0.0)

	gp, ok := optFloat(p, "gross_profit_ttm")
	if !ok || gp < 0 {
		return 0, inputErr(s.Name(), "gross_profit_ttm missing")
	}

	growth, ok := optFloat(p, "rev_ttm_yoy_growth")
	if !ok {
		growth, ok = optFloat(p, "eps_cagr_5y")
	}
	if !ok {
		return 0, inputErr(s.Name(), "growth metric missing (rev_ttm_yoy_growth or eps_cagr_5y)")
	}

	gm := clamp(gp/rev, 0.0, 1.0)

	base := clamp(floatOr(p, "sg_base_multiple", 3.0), 0.5, 20.0)
	betaG := clamp(floatOr(p, "sg_beta_growth", 8.0), 0.0, 20.0)
	betaGM := clamp(floatOr(p, "sg_beta_gm", 3.0), 0.0, 10.0)
	gmRef := clamp(floatOr(p, "sg_gm_ref", 0.70), 0.30, 0.90)
	betaR40 := clamp(floatOr(p, "sg_beta_rule40", 2.0), 0.0, 10.0)

	multMin := floatOr(p, "sg_min_multiple", 0.5)
	multMax := floatOr(p, "sg_max_multiple", 25.0)
	if multMin >= multMax {
		multMin, multMax = 0.5, 25.0
	}

	r40Excess := math.Max(0.0, growth+gm-1.0)

	evs := clamp(base+betaG*growth+betaGM*(gm-gmRef)+betaR40*r40Excess, multMin, multMax)

	evFair := rev * evs
	return (evFair - netDebt) / shares, nil
}

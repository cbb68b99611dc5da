package strategies

import "math"

// DCFFCFFThreeStage is a Damodaran-style three-stage FCFF DCF, enterprise
// first and then to equity per share.
//
// Stage 1 grows revenue at a constant near-term rate, stage 2 fades the
// growth linearly to the terminal rate, and the EBIT margin fades linearly
// from the current margin to an optional target over the whole horizon.
// Each year:
//
//	EBIT_t     = Revenue_t * Margin_t
//	NOPAT_t    = EBIT_t * (1 - tax)
//	Reinvest_t = dRevenue_t / sales_to_capital   (capped vs NOPAT)
//	FCFF_t     = NOPAT_t - Reinvest_t
//
// Terminal value is Gordon on FCFF_{N+1}. Reinvestment is capped at 80% of
// NOPAT on the upside and, when negative reinvestment is allowed, floored at
// -50% of NOPAT to keep divestment assumptions sane.
type DCFFCFFThreeStage struct{}

func (DCFFCFFThreeStage) Name() string { return "dcf_fcff_three_stage" }

func (s DCFFCFFThreeStage) Run(p Params) (float64, error) {
	rev0, ok := optFloat(p, "revenue_ttm")
	if !ok || rev0 <= 0 {
		return 0, inputErr(s.Name(), "revenue_ttm must be > 0")
	}
	ebit0, ok := optFloat(p, "ebit_ttm")
	if !ok {
		return 0, inputErr(s.Name(), "ebit_ttm missing")
	}
	shares, ok := optFloat(p, "shares_outstanding")
	if !ok || shares <= 0 {
		return 0, inputErr(s.Name(), "shares_outstanding must be > 0")
	}
	netDebt := floatOr(p, "net_debt", 0.0)

	margin0 := ebit0 / rev0
	if ebit0 <= 0 {
		return 0, inputErr(s.Name(), "EBIT must be positive for DCF (EBIT=%.0f, margin=%.1f%%)", ebit0, margin0*100)
	}
	if margin0 < -0.5 || margin0 > 1.0 {
		return 0, inputErr(s.Name(), "EBIT margin out of reasonable bounds (margin=%.1f%%)", margin0*100)
	}

	wacc := clamp(floatOr(p, "dcf_wacc", 0.10), 0.06, 0.18)
	tax := clamp(floatOr(p, "dcf_tax_rate", 0.21), 0.00, 0.35)
	s2c := clamp(floatOr(p, "dcf_sales_to_capital", 2.5), 0.5, 10.0)
	n1 := clampInt(intOr(p, "dcf_stage1_years", 5), 1, 7)
	n2 := clampInt(intOr(p, "dcf_stage2_years", 5), 1, 10)

	gS, ok := optFloat(p, "dcf_g_short")
	if !ok {
		gS, ok = optFloat(p, "eps_cagr_5y")
	}
	if !ok {
		gS = 0.08
	}
	gS = clamp(gS, 0.00, 0.25)

	gT := clamp(floatOr(p, "dcf_g_terminal", 0.02), -0.01, 0.03)

	allowNegReinv := boolOr(p, "dcf_allow_negative_reinvestment", false)

	if wacc <= gT {
		return 0, inputErr(s.Name(), "WACC must exceed terminal growth (WACC=%.3f, gT=%.3f)", wacc, gT)
	}

	targetMargin, hasTarget := optFloat(p, "dcf_target_ebit_margin")
	if !hasTarget {
		targetMargin = margin0 // hold flat when no target
	}
	targetMargin = clamp(targetMargin, 0.01, 0.40)

	n := n1 + n2
	revenues := make([]float64, 0, n)
	margins := make([]float64, 0, n)
	rev := rev0
	for t := 1; t <= n; t++ {
		gt := gS
		if t > n1 {
			// linear fade gS -> gT across stage 2
			frac := clamp(float64(t-n1)/float64(n2), 0.0, 1.0)
			gt = gS + (gT-gS)*frac
		}
		rev *= 1.0 + gt
		revenues = append(revenues, rev)
		margins = append(margins, margin0+(targetMargin-margin0)*(float64(t)/float64(n)))
	}

	capReinvest := func(reinvest, nopat float64) float64 {
		maxReinvest := math.Max(0.0, nopat*0.8)
		if !allowNegReinv {
			return math.Max(0.0, math.Min(reinvest, maxReinvest))
		}
		minReinvest := math.Min(0.0, nopat*-0.5)
		return math.Max(minReinvest, math.Min(reinvest, maxReinvest))
	}

	evPV := 0.0
	prevRev := rev0
	for t := 0; t < n; t++ {
		ebitT := revenues[t] * margins[t]
		nopatT := ebitT * (1.0 - tax)
		reinvestT := capReinvest((revenues[t]-prevRev)/s2c, nopatT)
		fcffT := nopatT - reinvestT
		evPV += fcffT / math.Pow(1.0+wacc, float64(t+1))
		prevRev = revenues[t]
	}

	// Terminal year built off year N revenue and margin.
	revN := revenues[n-1]
	mN := margins[n-1]
	nopatN1 := revN * (1.0 + gT) * mN * (1.0 - tax)
	reinvestN1 := capReinvest(revN*gT/s2c, nopatN1)
	fcffN1 := nopatN1 - reinvestN1

	if fcffN1 <= 0 {
		return 0, inputErr(s.Name(), "terminal FCFF must be positive (FCFF_N+1=%.0f)", fcffN1)
	}

	tv := fcffN1 / (wacc - gT)
	ev := evPV + tv/math.Pow(1.0+wacc, float64(n))

	if ev <= 0 {
		return 0, inputErr(s.Name(), "enterprise value must be positive (EV=%.0f)", ev)
	}

	equity := ev - netDebt
	if equity <= 0 {
		return 0, inputErr(s.Name(), "equity value negative due to high net debt (EV=%.0f, net_debt=%.0f)", ev, netDebt)
	}

	return equity / shares, nil
}

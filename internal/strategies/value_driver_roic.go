package strategies

import "math"

// ValueDriverROIC is a McKinsey-style two-stage value-driver DCF built on the
// identity FCFF_t = NOPAT_t * (1 - g_t/ROIC_t), with growth and ROIC both
// fading linearly to stable terminal levels over the explicit horizon.
//
// Invested capital is inferred as BVPS*shares + max(0, net_debt) unless
// overridden, and ROIC0 = NOPAT0/IC0 when not supplied.
type ValueDriverROIC struct{}

func (ValueDriverROIC) Name() string { return "value_driver_roic" }

func (s ValueDriverROIC) Run(p Params) (float64, error) {
	shares, ok := optFloat(p, "shares_outstanding")
	if !ok || shares <= 0 {
		return 0, inputErr(s.Name(), "shares_outstanding must be > 0")
	}
	ebit0, ok := optFloat(p, "ebit_ttm")
	if !ok {
		return 0, inputErr(s.Name(), "ebit_ttm missing")
	}
	if ebit0 <= 0 {
		return 0, inputErr(s.Name(), "EBIT must be positive for value-driver model (EBIT=%.0f)", ebit0)
	}
	rev0, ok := optFloat(p, "revenue_ttm")
	if !ok || rev0 <= 0 {
		return 0, inputErr(s.Name(), "revenue_ttm must be > 0")
	}
	netDebt := floatOr(p, "net_debt", 0.0)

	wacc := clamp(floatOr(p, "vdr_wacc", 0.10), 0.06, 0.18)
	tax := clamp(floatOr(p, "vdr_tax_rate", 0.21), 0.00, 0.35)
	n := clampInt(intOr(p, "vdr_stage_years", 8), 3, 12)

	gS, ok := optFloat(p, "vdr_g_start")
	if !ok {
		gS, ok = optFloat(p, "vdr_eps_cagr_fallback")
	}
	if !ok {
		gS, ok = optFloat(p, "eps_cagr_5y")
	}
	if !ok {
		gS = 0.12
	}
	gS = clamp(gS, 0.00, 0.30)

	gT := clamp(floatOr(p, "vdr_g_terminal", 0.02), -0.01, 0.03)
	if wacc <= gT {
		return 0, inputErr(s.Name(), "WACC must exceed terminal growth (WACC=%.3f, gT=%.3f)", wacc, gT)
	}

	roicTerm := clamp(floatOr(p, "vdr_roic_terminal", 0.12), 0.06, 0.25)

	nopat0 := ebit0 * (1.0 - tax)

	roicStart, hasROICStart := optFloat(p, "vdr_roic_start")

	var ic0 float64
	if override, ok := optFloat(p, "vdr_ic_override"); ok && override > 0 {
		ic0 = override
	} else if bvps, ok := optFloat(p, "book_value_per_share"); ok && bvps > 0 {
		ic0 = bvps*shares + math.Max(0.0, netDebt)
	} else if hasROICStart && roicStart > 0 {
		ic0 = math.Max(1.0, nopat0/roicStart)
	} else {
		// Assume a 12% ROIC to back into invested capital.
		ic0 = math.Max(1.0, nopat0/0.12)
	}
	if ic0 <= 0 {
		return 0, inputErr(s.Name(), "could not infer invested capital (IC0)")
	}

	if !hasROICStart || roicStart <= 0 {
		roicStart = clamp(nopat0/ic0, 0.02, 0.60)
	}

	evPV := 0.0
	nopat := nopat0
	roicN := roicStart
	for t := 1; t <= n; t++ {
		frac := float64(t) / float64(n)
		gt := gS + (gT-gS)*frac
		roicT := math.Max(0.02, roicStart+(roicTerm-roicStart)*frac)
		nopat *= 1.0 + gt
		fcffT := nopat * (1.0 - gt/roicT)
		evPV += fcffT / math.Pow(1.0+wacc, float64(t))
		roicN = roicT
	}

	fcffN1 := nopat * (1.0 + gT) * (1.0 - gT/roicN)
	tv := fcffN1 / (wacc - gT)
	ev := evPV + tv/math.Pow(1.0+wacc, float64(n))

	return (ev - netDebt) / shares, nil
}

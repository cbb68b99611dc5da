package strategies

import "math"

// EconomicValueAdded values the enterprise as invested capital plus the
// present value of future EVA:
//
//	EVA_t  = (ROIC_t - WACC) * IC_{t-1}
//	EV_ops = IC_0 + sum PV(EVA_t) + PV(terminal EVA perpetuity)
//	FV     = (EV_ops - net_debt) / shares
//
// Capital growth fades linearly from a starting rate to the terminal rate,
// and ROIC fades from its inferred starting level to a stable terminal level.
type EconomicValueAdded struct{}

func (EconomicValueAdded) Name() string { return "economic_value_added" }

func (s EconomicValueAdded) Run(p Params) (float64, error) {
	shares, ok := optFloat(p, "shares_outstanding")
	if !ok || shares <= 0 {
		return 0, inputErr(s.Name(), "shares_outstanding must be > 0")
	}
	ebit, ok := optFloat(p, "ebit_ttm")
	if !ok {
		return 0, inputErr(s.Name(), "ebit_ttm missing")
	}
	bvps, ok := optFloat(p, "book_value_per_share")
	if !ok || bvps <= 0 {
		return 0, inputErr(s.Name(), "book_value_per_share must be > 0")
	}
	netDebt := floatOr(p, "net_debt", 0.0)

	wacc := clamp(floatOr(p, "eva_wacc", 0.10), 0.06, 0.18)
	tax := clamp(floatOr(p, "eva_tax_rate", 0.21), 0.00, 0.35)
	n := clampInt(intOr(p, "eva_horizon_years", 8), 3, 15)

	gStart, ok := optFloat(p, "eva_g_capital_start")
	if !ok {
		gStart, ok = optFloat(p, "eps_cagr_5y")
	}
	if !ok {
		gStart = 0.10
	}
	gStart = clamp(gStart, 0.00, 0.25)

	gT := clamp(floatOr(p, "eva_g_terminal", 0.02), -0.01, 0.03)
	if wacc <= gT {
		return 0, inputErr(s.Name(), "WACC must exceed terminal growth (WACC=%.3f, g_T=%.3f)", wacc, gT)
	}

	roicTerm := clamp(floatOr(p, "eva_roic_terminal", 0.12), 0.04, 0.30)

	nopat0 := ebit * (1.0 - tax)

	ic0 := bvps*shares + math.Max(0.0, netDebt)
	if ic0 <= 0 {
		return 0, inputErr(s.Name(), "inferred invested capital (IC0) non-positive")
	}

	roicStart, hasROICStart := optFloat(p, "eva_roic_start")
	if !hasROICStart || roicStart <= 0 {
		roicStart = clamp(nopat0/ic0, 0.02, 0.60)
	}

	icPrev := ic0
	pvEVA := 0.0
	for t := 1; t <= n; t++ {
		frac := float64(t) / float64(n)
		roicT := math.Max(0.02, roicStart+(roicTerm-roicStart)*frac)
		evaT := (roicT - wacc) * icPrev
		pvEVA += evaT / math.Pow(1.0+wacc, float64(t))

		gIT := gStart + (gT-gStart)*frac
		icPrev *= 1.0 + gIT
		if icPrev <= 0 {
			return 0, inputErr(s.Name(), "invested capital became non-positive during projection")
		}
	}

	evaN1 := (math.Max(0.02, roicTerm) - wacc) * (icPrev * (1.0 + gT))
	pvTV := evaN1 / (wacc - gT) / math.Pow(1.0+wacc, float64(n))

	evOps := ic0 + pvEVA + pvTV
	return (evOps - netDebt) / shares, nil
}

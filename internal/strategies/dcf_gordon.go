package strategies

import "math"

// DCFGordon is a single-stage discounted cash flow with a Gordon Growth
// terminal value:
//
//	EV = sum_{t=1..N} [ FCF_t / (1+r)^t ] + [ FCF_{N+1} / (r - gT) ] / (1+r)^N
//	  where FCF_t = FCF_{t-1} * (1+g) and FCF_{N+1} = FCF_N * (1+gT)
//
//	Equity = EV - NetDebt; fair value = Equity / SharesOutstanding
//
// Hyperparameters:
//   - dcf_years (default 5, clamp 1..10)
//   - dcf_discount_rate (default 0.10, clamp 0.05..0.20)
//   - dcf_terminal_growth (default 0.03, clamp -0.02..0.05; must be < r)
//   - dcf_growth_rate (optional; falls back to eps_cagr_5y, then 0.08; clamp -0.10..0.35)
//   - dcf_negative_equity_handling ("exclude" | "zero" | "allow"; default "exclude")
type DCFGordon struct{}

func (DCFGordon) Name() string { return "dcf_gordon" }

func (s DCFGordon) Run(p Params) (float64, error) {
	fcf0, ok := optFloat(p, "fcf_ttm")
	if !ok {
		return 0, inputErr(s.Name(), "missing fcf_ttm")
	}
	sh, ok := optFloat(p, "shares_outstanding")
	if !ok || sh <= 0 {
		return 0, inputErr(s.Name(), "missing/invalid shares_outstanding")
	}
	netDebt, ok := optFloat(p, "net_debt")
	if !ok {
		netDebt = 0.0
	}

	// Growth: explicit override first, then the fetched CAGR, then a flat 8%.
	g, ok := optFloat(p, "dcf_growth_rate")
	if !ok {
		g, ok = optFloat(p, "eps_cagr_5y")
	}
	if !ok {
		g = 0.08
	}
	g = clamp(g, -0.10, 0.35)

	years := clampInt(intOr(p, "dcf_years", 5), 1, 10)
	r := clamp(floatOr(p, "dcf_discount_rate", 0.10), 0.05, 0.20)
	gT := clamp(floatOr(p, "dcf_terminal_growth", 0.03), -0.02, 0.05)

	if r <= gT {
		return 0, inputErr(s.Name(), "discount_rate must be > terminal_growth")
	}

	// Project and discount FCFs.
	evPV := 0.0
	fcf := fcf0
	for t := 1; t <= years; t++ {
		fcf *= 1.0 + g
		evPV += fcf / math.Pow(1.0+r, float64(t))
	}

	// Terminal value at year N, then PV to today.
	fcfN1 := fcf * (1.0 + gT)
	tvN := fcfN1 / (r - gT)
	tvPV := tvN / math.Pow(1.0+r, float64(years))

	ev := evPV + tvPV
	equity := ev - netDebt

	if equity <= 0 {
		switch stringOr(p, "dcf_negative_equity_handling", "exclude") {
		case "zero":
			return 0.0, nil
		case "allow":
			// fall through to the negative per-share value
		default:
			return 0, inputErr(s.Name(), "negative equity under assumptions (ev=%.2f, net_debt=%.2f)", ev, netDebt)
		}
	}

	return equity / sh, nil
}

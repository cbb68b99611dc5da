package strategies

import "math"

// ResidualIncome is a per-share residual income model with clean-surplus
// book value accounting:
//
//	IV = BVPS_0 + sum_{t=1..N} [ RI_t / (1+r)^t ] + TV / (1+r)^N
//	  RI_t   = EPS_t - r * BVPS_{t-1}
//	  BVPS_t = BVPS_{t-1} + EPS_t * (1 - payout)
//	  TV     = RI_{N+1} / (r - gT), with EPS_{N+1} grown at gT
//
// Being per-share, there is no EV/net-debt bridge here.
type ResidualIncome struct{}

func (ResidualIncome) Name() string { return "residual_income" }

func (s ResidualIncome) Run(p Params) (float64, error) {
	eps0, ok := optFloat(p, "eps_ttm")
	if !ok {
		return 0, inputErr(s.Name(), "missing eps_ttm")
	}
	bvps0, ok := optFloat(p, "book_value_per_share")
	if !ok || bvps0 <= 0 {
		return 0, inputErr(s.Name(), "missing/invalid book_value_per_share")
	}

	g, ok := optFloat(p, "ri_eps_growth_rate")
	if !ok {
		g, ok = optFloat(p, "eps_cagr_5y")
	}
	if !ok {
		g = 0.06 // conservative fallback when no growth hint
	}
	g = clamp(g, -0.10, 0.25)

	years := clampInt(intOr(p, "ri_years", 5), 1, 10)
	r := clamp(floatOr(p, "ri_discount_rate", 0.10), 0.05, 0.20)
	gT := clamp(floatOr(p, "ri_terminal_growth", 0.03), -0.02, 0.05)

	if r <= gT {
		return 0, inputErr(s.Name(), "discount_rate must be > terminal_growth")
	}

	payout := clamp(floatOr(p, "ri_payout_ratio", 0.30), 0.0, 1.0)

	pvRI := 0.0
	epsT := eps0
	bvps := bvps0
	for t := 1; t <= years; t++ {
		epsT *= 1.0 + g
		riT := epsT - r*bvps // residual income off beginning book value
		pvRI += riT / math.Pow(1.0+r, float64(t))
		bvps += epsT * (1.0 - payout) // clean surplus
	}

	epsN1 := epsT * (1.0 + gT)
	riN1 := epsN1 - r*bvps
	tvRI := riN1 / (r - gT)
	tvPV := tvRI / math.Pow(1.0+r, float64(years))

	intrinsic := bvps0 + pvRI + tvPV

	if intrinsic <= 0 {
		return 0, inputErr(s.Name(), "intrinsic value <= 0 from residual income model")
	}

	return intrinsic, nil
}

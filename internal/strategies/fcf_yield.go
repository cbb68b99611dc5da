package strategies

// FCFYield prices the share so that it implies a target free-cash-flow yield:
//
//	fcf_per_share = fcf_ttm / shares_outstanding
//	fair_value    = fcf_per_share / target_fcf_yield
type FCFYield struct{}

func (FCFYield) Name() string { return "fcf_yield" }

func (s FCFYield) Run(p Params) (float64, error) {
	fcfTTM, err := reqFloat(s.Name(), p, "fcf_ttm")
	if err != nil {
		return 0, err
	}
	sharesOut, err := reqFloat(s.Name(), p, "shares_outstanding")
	if err != nil {
		return 0, err
	}

	if sharesOut <= 0 {
		return 0, inputErr(s.Name(), "shares_outstanding must be positive")
	}
	if fcfTTM <= 0 {
		// If FCF is <= 0, a yield-based fair value is not meaningful.
		return 0, inputErr(s.Name(), "fcf_ttm must be positive")
	}

	targetYield := floatOr(p, "target_fcf_yield", 0.065)
	minYield := floatOr(p, "min_fcf_yield", 0.02)
	maxYield := floatOr(p, "max_fcf_yield", 0.12)
	if minYield <= 0 || maxYield <= 0 || minYield > maxYield {
		return 0, inputErr(s.Name(), "invalid FCF yield clamps: ensure 0 < min_fcf_yield <= max_fcf_yield")
	}

	targetYield = clamp(targetYield, minYield, maxYield)

	fcfPerShare := fcfTTM / sharesOut
	return fcfPerShare / targetYield, nil
}

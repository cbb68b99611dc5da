package strategies

// PSalesReversion values a ticker by reverting to a target price-to-sales
// multiple:
//
//	sales_per_share = revenue_ttm / shares_outstanding
//	fair_value      = sales_per_share * clamp(target_ps, min_ps_fair, max_ps_fair)
type PSalesReversion struct{}

func (PSalesReversion) Name() string { return "psales_reversion" }

func (s PSalesReversion) Run(p Params) (float64, error) {
	revenueTTM, err := reqFloat(s.Name(), p, "revenue_ttm")
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
	if revenueTTM <= 0 {
		return 0, inputErr(s.Name(), "revenue_ttm must be positive")
	}

	targetPS := floatOr(p, "target_ps", 3.0)
	minPSFair := floatOr(p, "min_ps_fair", 0.3)
	maxPSFair := floatOr(p, "max_ps_fair", 8.0)
	if minPSFair <= 0 || maxPSFair <= 0 || minPSFair > maxPSFair {
		return 0, inputErr(s.Name(), "invalid P/S clamps: ensure 0 < min_ps_fair <= max_ps_fair")
	}

	targetPS = clamp(targetPS, minPSFair, maxPSFair)

	salesPerShare := revenueTTM / sharesOut
	return salesPerShare * targetPS, nil
}

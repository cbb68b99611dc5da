package strategies

// EVEBITDAReversion reverts to a target EV/EBITDA multiple:
//
//	EV_fair = EBITDA_TTM * target
//	FV      = (EV_fair - net_debt) / shares
//
// When ebitda_ttm is missing it is rebuilt as ebit_ttm + da_ttm, and as a
// last resort D&A is estimated as a configurable percentage of revenue.
type EVEBITDAReversion struct{}

func (EVEBITDAReversion) Name() string { return "ev_ebitda_reversion" }

func (s EVEBITDAReversion) Run(p Params) (float64, error) {
	shares, ok := optFloat(p, "shares_outstanding")
	if !ok || shares <= 0 {
		return 0, inputErr(s.Name(), "shares_outstanding must be > 0")
	}
	netDebt := floatOr(p, "net_debt", 0.0)

	ebitda, hasEBITDA := optFloat(p, "ebitda_ttm")
	if !hasEBITDA {
		ebit, hasEBIT := optFloat(p, "ebit_ttm")
		if da, hasDA := optFloat(p, "da_ttm"); hasEBIT && hasDA {
			ebitda = ebit + da
			hasEBITDA = true
		} else if rev, hasRev := optFloat(p, "revenue_ttm"); hasEBIT && hasRev {
			if daPct, hasPct := optFloat(p, "ev_ebitda_da_pct_of_revenue"); hasPct {
				ebitda = ebit + rev*daPct
				hasEBITDA = true
			}
		}
	}
	if !hasEBITDA || ebitda <= 0 {
		return 0, inputErr(s.Name(), "EBITDA TTM unavailable or non-positive")
	}

	mult := clamp(floatOr(p, "ev_ebitda_target_multiple", 10.0), 3.0, 25.0)

	evFair := ebitda * mult
	return (evFair - netDebt) / shares, nil
}

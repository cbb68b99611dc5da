package strategies

// EVSalesReversion reverts to a target EV/Sales multiple, optionally scaled
// by gross margin relative to a reference margin:
//
//	EV_fair = Revenue_TTM * multiple [* GM/ref_GM]
//	FV      = (EV_fair - net_debt) / shares
type EVSalesReversion struct{}

func (EVSalesReversion) Name() string { return "ev_sales_reversion" }

func (s EVSalesReversion) Run(p Params) (float64, error) {
	rev, ok := optFloat(p, "revenue_ttm")
	if !ok || rev <= 0 {
		return 0, inputErr(s.Name(), "revenue_ttm must be > 0")
	}
	shares, ok := optFloat(p, "shares_outstanding")
	if !ok || shares <= 0 {
		return 0, inputErr(s.Name(), "shares_outstanding must be > 0")
	}
	netDebt := floatOr(p, "net_debt", 0.0)

	minMult := floatOr(p, "evs_min_multiple", 0.5)
	maxMult := floatOr(p, "evs_max_multiple", 15.0)
	mult := clamp(floatOr(p, "evs_target_multiple", 3.0), minMult, maxMult)

	// Optional gross margin scaling; missing gross profit falls back to the
	// unadjusted multiple.
	if boolOr(p, "evs_gm_adjust_enabled", false) {
		if gp, hasGP := optFloat(p, "gross_profit_ttm"); hasGP {
			gm := clamp(gp/rev, 0.0, 1.0)
			refGM := clamp(floatOr(p, "evs_ref_gm", 0.70), 0.10, 0.95)
			mult *= gm / refGM
		}
	}

	evFair := rev * mult
	return (evFair - netDebt) / shares, nil
}

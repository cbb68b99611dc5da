package strategies

// GPMultipleReversion is the EV/GP (gross profit) variant of the
// multiple-reversion family.
type GPMultipleReversion struct{}

func (GPMultipleReversion) Name() string { return "gp_multiple_reversion" }

func (s GPMultipleReversion) Run(p Params) (float64, error) {
	gpTTM, err := reqFloat(s.Name(), p, "gross_profit_ttm")
	if err != nil {
		return 0, err
	}
	netDebt, err := reqFloat(s.Name(), p, "net_debt")
	if err != nil {
		return 0, err
	}
	sharesOut, err := reqFloat(s.Name(), p, "shares_outstanding")
	if err != nil {
		return 0, err
	}

	if gpTTM <= 0 {
		return 0, inputErr(s.Name(), "gross_profit_ttm must be positive")
	}
	if sharesOut <= 0 {
		return 0, inputErr(s.Name(), "shares_outstanding must be positive")
	}

	targetEVGP := floatOr(p, "target_ev_gp", 12.0)
	minEVGP := floatOr(p, "min_ev_gp", 6.0)
	maxEVGP := floatOr(p, "max_ev_gp", 20.0)
	if minEVGP <= 0 || maxEVGP <= 0 || minEVGP > maxEVGP {
		return 0, inputErr(s.Name(), "invalid EV/GP clamps: ensure 0 < min_ev_gp <= max_ev_gp")
	}

	targetEVGP = clamp(targetEVGP, minEVGP, maxEVGP)

	enterpriseValue := targetEVGP * gpTTM
	equityValue := enterpriseValue - netDebt
	return equityValue / sharesOut, nil
}

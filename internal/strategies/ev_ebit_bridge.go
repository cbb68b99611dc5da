package strategies

// EVEBITBridge computes fair value via a target EV/EBIT multiple, then
// bridges enterprise value to equity:
//
//	enterprise_value = target_ev_ebit * ebit_ttm
//	equity_value     = enterprise_value - net_debt
//	fair_value       = equity_value / shares_outstanding
type EVEBITBridge struct{}

func (EVEBITBridge) Name() string { return "ev_ebit_bridge" }

func (s EVEBITBridge) Run(p Params) (float64, error) {
	ebitTTM, err := reqFloat(s.Name(), p, "ebit_ttm")
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

	if sharesOut <= 0 {
		return 0, inputErr(s.Name(), "shares_outstanding must be positive")
	}
	if ebitTTM <= 0 {
		// Negative/zero EBIT makes an EV/EBIT-based fair value meaningless.
		return 0, inputErr(s.Name(), "ebit_ttm must be positive")
	}

	targetEVEBIT := floatOr(p, "target_ev_ebit", 12.0)
	minEVEBIT := floatOr(p, "min_ev_ebit", 6.0)
	maxEVEBIT := floatOr(p, "max_ev_ebit", 20.0)
	if minEVEBIT <= 0 || maxEVEBIT <= 0 || minEVEBIT > maxEVEBIT {
		return 0, inputErr(s.Name(), "invalid EV/EBIT clamps: ensure 0 < min_ev_ebit <= max_ev_ebit")
	}

	targetEVEBIT = clamp(targetEVEBIT, minEVEBIT, maxEVEBIT)

	enterpriseValue := targetEVEBIT * ebitTTM
	equityValue := enterpriseValue - netDebt // net_debt < 0 adds cash to equity
	return equityValue / sharesOut, nil
}

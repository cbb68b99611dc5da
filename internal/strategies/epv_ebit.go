package strategies

// EPVEBIT is Greenwald-style Earnings Power Value: sustainable after-tax
// operating earnings capitalized at a required return, no growth assumed.
//
//	EV = (EBIT * (1 - tax) * adj) / cost_of_capital
//	Equity = EV - NetDebt; fair value = Equity / Shares
type EPVEBIT struct{}

func (EPVEBIT) Name() string { return "epv_ebit" }

func (s EPVEBIT) Run(p Params) (float64, error) {
	ebit, ok := optFloat(p, "ebit_ttm")
	if !ok {
		return 0, inputErr(s.Name(), "missing ebit_ttm")
	}
	sh, ok := optFloat(p, "shares_outstanding")
	if !ok || sh <= 0 {
		return 0, inputErr(s.Name(), "missing/invalid shares_outstanding")
	}
	netDebt, ok := optFloat(p, "net_debt")
	if !ok {
		netDebt = 0.0
	}

	tax := clamp(floatOr(p, "epv_tax_rate", 0.21), 0.0, 0.5)
	k := clamp(floatOr(p, "epv_cost_of_capital", 0.10), 0.05, 0.20)
	// adj is an optional haircut for maintenance capex and cyclicality.
	adj := clamp(floatOr(p, "epv_adjustment_factor", 1.0), 0.7, 1.1)

	ebitAfterTax := ebit * (1.0 - tax) * adj

	ev := ebitAfterTax / k
	equity := ev - netDebt
	return equity / sh, nil
}

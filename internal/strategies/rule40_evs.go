package strategies

// Rule40EVS maps a Rule-of-40 score (growth% + operating margin%, 0..100)
// to an EV/S multiple bucket, then applies the standard EV -> equity bridge.
//
//	score < 30  -> evs_low
//	30..50      -> evs_mid
//	score > 50  -> evs_high
type Rule40EVS struct{}

func (Rule40EVS) Name() string { return "rule40_evs" }

func mapRule40ToEVS(score, evsLow, evsMid, evsHigh float64) float64 {
	if score < 30 {
		return evsLow
	}
	if score <= 50 {
		return evsMid
	}
	return evsHigh
}

func (s Rule40EVS) Run(p Params) (float64, error) {
	revenueTTM, err := reqFloat(s.Name(), p, "revenue_ttm")
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
	rule40Score, err := reqFloat(s.Name(), p, "rule40_score")
	if err != nil {
		return 0, err
	}

	if revenueTTM <= 0 {
		return 0, inputErr(s.Name(), "revenue_ttm must be positive")
	}
	if sharesOut <= 0 {
		return 0, inputErr(s.Name(), "shares_outstanding must be positive")
	}

	evsLow := floatOr(p, "evs_low", 2.0)
	evsMid := floatOr(p, "evs_mid", 4.0)
	evsHigh := floatOr(p, "evs_high", 6.0)
	minEVS := floatOr(p, "min_evs", 0.5)
	maxEVS := floatOr(p, "max_evs", 20.0)
	if minEVS <= 0 || maxEVS <= 0 || minEVS > maxEVS {
		return 0, inputErr(s.Name(), "invalid EV/S clamps: ensure 0 < min_evs <= max_evs")
	}

	targetEVS := clamp(mapRule40ToEVS(rule40Score, evsLow, evsMid, evsHigh), minEVS, maxEVS)

	enterpriseValue := targetEVS * revenueTTM
	equityValue := enterpriseValue - netDebt
	return equityValue / sharesOut, nil
}

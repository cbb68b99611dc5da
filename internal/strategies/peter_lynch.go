package strategies

// PeterLynch implements the classic Lynch growth-multiple heuristic:
// a fair P/E roughly equal to the earnings growth percentage, capped to a
// sane band, applied to trailing EPS.
//
// Required inputs:
//   - eps_ttm (must be > 0)
//   - eps_cagr_5y (decimal, e.g. 0.15 for 15%)
//
// Hyperparameters:
//   - min_growth_pe (default 5.0)
//   - max_growth_pe (default 35.0)
//   - negative_growth_pe (default 5.0), used when growth <= 0
type PeterLynch struct{}

func (PeterLynch) Name() string { return "peter_lynch" }

func (s PeterLynch) Run(p Params) (float64, error) {
	epsTTM, err := reqFloat(s.Name(), p, "eps_ttm")
	if err != nil {
		return 0, err
	}
	epsCAGR, err := reqFloat(s.Name(), p, "eps_cagr_5y")
	if err != nil {
		return 0, err
	}

	if epsTTM <= 0 {
		// A negative or zero EPS makes a Lynch fair value meaningless.
		return 0, inputErr(s.Name(), "eps_ttm must be positive")
	}

	minGrowthPE := floatOr(p, "min_growth_pe", 5.0)
	maxGrowthPE := floatOr(p, "max_growth_pe", 35.0)
	negativeGrowthPE := floatOr(p, "negative_growth_pe", 5.0)

	var growthPE float64
	if epsCAGR <= 0 {
		growthPE = negativeGrowthPE
	} else {
		growthPct := epsCAGR * 100.0 // decimal -> percent
		growthPE = clamp(growthPct, minGrowthPE, maxGrowthPE)
	}

	return epsTTM * growthPE, nil
}

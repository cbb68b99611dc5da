package strategies

import (
	"fmt"
	"sync"
)

// UnknownStrategyError reports a name that is not registered.
type UnknownStrategyError struct {
	Name string
}

func (e *UnknownStrategyError) Error() string {
	return fmt.Sprintf("unknown strategy: %s", e.Name)
}

type spec struct {
	factory         func() Strategy
	requiredMetrics []string
	defaults        Params
}

// Registry maps strategy names to factories, the canonical metric keys each
// strategy needs, and its default hyperparameters. The fetch stage asks the
// registry which strategies are enabled and which metrics to pull for them.
//
// A Registry is an explicit value handed to the pipeline, not process-global
// state. Enabled-set changes are atomic: either every name validates and the
// whole list is installed, or nothing changes.
type Registry struct {
	mu      sync.RWMutex
	specs   map[string]spec
	order   []string // registration order, for stable listings
	enabled []string
}

// NewRegistry returns a registry with every built-in valuation strategy
// registered and the default set enabled.
func NewRegistry() *Registry {
	r := &Registry{specs: make(map[string]spec)}

	r.register("peter_lynch", func() Strategy { return PeterLynch{} },
		[]string{"eps_ttm", "eps_cagr_5y"},
		Params{
			"min_growth_pe":      5.0,
			"max_growth_pe":      35.0,
			"negative_growth_pe": 5.0,
		})
	r.register("psales_reversion", func() Strategy { return PSalesReversion{} },
		[]string{"revenue_ttm", "shares_outstanding"},
		Params{
			"target_ps":   3.0,
			"min_ps_fair": 0.3,
			"max_ps_fair": 8.0,
		})
	r.register("ev_ebit_bridge", func() Strategy { return EVEBITBridge{} },
		[]string{"ebit_ttm", "net_debt", "shares_outstanding"},
		Params{
			"target_ev_ebit": 12.0,
			"min_ev_ebit":    6.0,
			"max_ev_ebit":    20.0,
		})
	r.register("fcf_yield", func() Strategy { return FCFYield{} },
		[]string{"fcf_ttm", "shares_outstanding"},
		Params{
			"target_fcf_yield": 0.065,
			"min_fcf_yield":    0.02,
			"max_fcf_yield":    0.12,
		})
	r.register("rule40_evs", func() Strategy { return Rule40EVS{} },
		[]string{"revenue_ttm", "net_debt", "shares_outstanding", "rule40_score"},
		Params{
			"evs_low":  2.0,
			"evs_mid":  4.0,
			"evs_high": 6.0,
			"min_evs":  0.5,
			"max_evs":  20.0,
		})
	r.register("gp_multiple_reversion", func() Strategy { return GPMultipleReversion{} },
		[]string{"gross_profit_ttm", "net_debt", "shares_outstanding"},
		Params{
			"target_ev_gp": 12.0,
			"min_ev_gp":    6.0,
			"max_ev_gp":    20.0,
		})
	// eps_cagr_5y is optional for dcf_gordon but listed so the fetch stage
	// pulls it when available.
	r.register("dcf_gordon", func() Strategy { return DCFGordon{} },
		[]string{"fcf_ttm", "shares_outstanding", "net_debt", "eps_cagr_5y"},
		Params{
			"dcf_years":           5,
			"dcf_discount_rate":   0.10,
			"dcf_terminal_growth": 0.03,
		})
	r.register("epv_ebit", func() Strategy { return EPVEBIT{} },
		[]string{"ebit_ttm", "net_debt", "shares_outstanding"},
		Params{
			"epv_tax_rate":          0.21,
			"epv_cost_of_capital":   0.10,
			"epv_adjustment_factor": 1.0,
		})
	r.register("residual_income", func() Strategy { return ResidualIncome{} },
		[]string{"eps_ttm", "book_value_per_share", "eps_cagr_5y"},
		Params{
			"ri_years":           5,
			"ri_discount_rate":   0.10,
			"ri_terminal_growth": 0.03,
			"ri_payout_ratio":    0.30,
		})
	r.register("ddm_two_stage", func() Strategy { return DDMTwoStage{} },
		[]string{"dividend_ttm", "eps_cagr_5y"},
		Params{
			"ddm_high_years":      5,
			"ddm_discount_rate":   0.09,
			"ddm_terminal_growth": 0.02,
		})
	r.register("graham_number", func() Strategy { return GrahamNumber{} },
		[]string{"eps_ttm", "book_value_per_share"},
		Params{
			"graham_pe_cap": 15.0,
			"graham_pb_cap": 1.5,
		})
	r.register("justified_pb_roe", func() Strategy { return JustifiedPBROE{} },
		[]string{"eps_ttm", "book_value_per_share", "dividend_ttm", "eps_cagr_5y"},
		Params{
			"jpbr_discount_rate": 0.10,
		})
	r.register("justified_pe_roe", func() Strategy { return JustifiedPEROE{} },
		[]string{"eps_ttm", "book_value_per_share", "dividend_ttm"},
		Params{
			"jpe_discount_rate":   0.10,
			"jpe_default_payout":  0.30,
			"jpe_floor_payout":    0.05,
			"jpe_use_forward_eps": true,
			"jpe_max_long_run_g":  0.12,
		})
	r.register("dcf_fcff_three_stage", func() Strategy { return DCFFCFFThreeStage{} },
		[]string{"revenue_ttm", "ebit_ttm", "shares_outstanding", "net_debt", "eps_cagr_5y"},
		Params{
			"dcf_wacc":                        0.10,
			"dcf_tax_rate":                    0.21,
			"dcf_sales_to_capital":            3.0,
			"dcf_stage1_years":                5,
			"dcf_stage2_years":                5,
			"dcf_g_terminal":                  0.025,
			"dcf_allow_negative_reinvestment": true,
		})
	r.register("ev_ebitda_reversion", func() Strategy { return EVEBITDAReversion{} },
		[]string{
			"shares_outstanding", "net_debt",
			"ebitda_ttm",          // preferred
			"ebit_ttm", "da_ttm",  // fallback path (EBIT + D&A)
			"revenue_ttm",         // last-resort D&A estimate
		},
		Params{
			"ev_ebitda_target_multiple":   10.0,
			"ev_ebitda_da_pct_of_revenue": 0.04,
		})
	r.register("ev_sales_reversion", func() Strategy { return EVSalesReversion{} },
		[]string{
			"revenue_ttm", "net_debt", "shares_outstanding",
			"gross_profit_ttm", // optional GM adjustment
		},
		Params{
			"evs_target_multiple":   3.0,
			"evs_gm_adjust_enabled": false,
			"evs_ref_gm":            0.70,
			"evs_min_multiple":      0.5,
			"evs_max_multiple":      15.0,
		})
	r.register("hmodel_dividend", func() Strategy { return HModelDividend{} },
		[]string{"dividend_ttm", "eps_cagr_5y"},
		Params{
			"h_discount_rate":   0.10,
			"h_long_run_growth": 0.02,
			"h_fade_years":      8,
		})
	r.register("pvgo", func() Strategy { return PVGO{} },
		[]string{"eps_ttm", "book_value_per_share", "dividend_ttm"},
		Params{
			"pvgo_discount_rate":   0.12,
			"pvgo_default_payout":  0.30,
			"pvgo_floor_payout":    0.05,
			"pvgo_use_forward_eps": true,
			"pvgo_cap_roe":         0.35,
			"pvgo_cap_g":           0.10,
		})
	r.register("value_driver_roic", func() Strategy { return ValueDriverROIC{} },
		[]string{
			"revenue_ttm", "ebit_ttm", "shares_outstanding", "net_debt",
			"book_value_per_share", "eps_cagr_5y",
		},
		Params{
			"vdr_wacc":          0.10,
			"vdr_tax_rate":      0.21,
			"vdr_stage_years":   8,
			"vdr_g_terminal":    0.02,
			"vdr_roic_terminal": 0.12,
		})
	r.register("intangible_residual_income", func() Strategy { return IntangibleResidualIncome{} },
		[]string{
			"eps_ttm", "book_value_per_share", "shares_outstanding",
			"rd_ttm", "sga_ttm", "dividend_ttm", "eps_cagr_5y",
		},
		Params{
			"iri_discount_rate":    0.10,
			"iri_horizon_years":    8,
			"iri_terminal_growth":  0.02,
			"iri_div_payout_floor": 0.10,
			"rd_life_years":        5,
			"brand_pct_of_sga":     0.30,
			"brand_life_years":     5,
		})
	r.register("economic_value_added", func() Strategy { return EconomicValueAdded{} },
		[]string{
			"ebit_ttm", "shares_outstanding", "book_value_per_share", "net_debt",
			"eps_cagr_5y", // g_start fallback
		},
		Params{
			"eva_wacc":          0.10,
			"eva_tax_rate":      0.21,
			"eva_horizon_years": 8,
			"eva_g_terminal":    0.02,
			"eva_roic_terminal": 0.12,
		})
	r.register("saas_growth_evs_regression", func() Strategy { return SaaSGrowthEVSRegression{} },
		[]string{
			"revenue_ttm", "shares_outstanding", "net_debt",
			"gross_profit_ttm",
			"rev_ttm_yoy_growth", // primary growth signal
			"eps_cagr_5y",        // fallback growth signal
		},
		Params{
			"sg_base_multiple": 3.0,
			"sg_beta_growth":   8.0,
			"sg_beta_gm":       3.0,
			"sg_gm_ref":        0.70,
			"sg_beta_rule40":   2.0,
			"sg_min_multiple":  0.5,
			"sg_max_multiple":  25.0,
		})

	// rule40_evs needs a rule40_score feed; ddm_two_stage punishes low-payout
	// names far below market. Both stay registered but disabled by default.
	r.enabled = []string{
		"peter_lynch",
		"psales_reversion",
		"ev_ebit_bridge",
		"fcf_yield",
		"gp_multiple_reversion",
		"dcf_gordon",
		"epv_ebit",
		"residual_income",
		"graham_number",
		"justified_pb_roe",
		"justified_pe_roe",
		"dcf_fcff_three_stage",
		"ev_ebitda_reversion",
		"ev_sales_reversion",
		"hmodel_dividend",
		"pvgo",
		"value_driver_roic",
		"intangible_residual_income",
		"economic_value_added",
		"saas_growth_evs_regression",
	}

	return r
}

// Register adds a strategy to the registry. Registering does not enable it;
// use SetEnabled to change the lineup. Duplicate names are rejected.
func (r *Registry) Register(name string, factory func() Strategy, required []string, defaults Params) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.specs[name]; exists {
		return fmt.Errorf("strategy already registered: %s", name)
	}
	r.register(name, factory, required, defaults)
	return nil
}

func (r *Registry) register(name string, factory func() Strategy, required []string, defaults Params) {
	r.specs[name] = spec{factory: factory, requiredMetrics: required, defaults: defaults}
	r.order = append(r.order, name)
}

// ListAll returns every registered strategy name in registration order,
// regardless of enabled state.
func (r *Registry) ListAll() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Enabled returns the enabled strategy names, order preserved.
func (r *Registry) Enabled() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.enabled))
	copy(out, r.enabled)
	return out
}

// SetEnabled replaces the enabled set with the given names, preserving the
// caller's order. Validation is all-or-nothing: the first unknown name aborts
// the whole update and the previous set stays in effect.
func (r *Registry) SetEnabled(names []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range names {
		if _, ok := r.specs[n]; !ok {
			return &UnknownStrategyError{Name: n}
		}
	}
	r.enabled = make([]string, len(names))
	copy(r.enabled, names)
	return nil
}

// New constructs a fresh instance of the named strategy.
func (r *Registry) New(name string) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sp, ok := r.specs[name]
	if !ok {
		return nil, &UnknownStrategyError{Name: name}
	}
	return sp.factory(), nil
}

// RequiredMetrics returns the canonical metric keys the named strategy reads.
func (r *Registry) RequiredMetrics(name string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sp, ok := r.specs[name]
	if !ok {
		return nil, &UnknownStrategyError{Name: name}
	}
	out := make([]string, len(sp.requiredMetrics))
	copy(out, sp.requiredMetrics)
	return out, nil
}

// DefaultHyperparams returns a copy of the strategy's default tuning knobs.
// Unknown names yield an empty map, mirroring permissive lookup for defaults.
func (r *Registry) DefaultHyperparams(name string) Params {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(Params)
	if sp, ok := r.specs[name]; ok {
		for k, v := range sp.defaults {
			out[k] = v
		}
	}
	return out
}

// FetchSet returns the union of every enabled strategy's required metrics.
// current_price is always included so consensus can compute discounts.
func (r *Registry) FetchSet() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := map[string]bool{"current_price": true}
	out := []string{"current_price"}
	for _, name := range r.enabled {
		sp, ok := r.specs[name]
		if !ok {
			continue
		}
		for _, key := range sp.requiredMetrics {
			if !seen[key] {
				seen[key] = true
				out = append(out, key)
			}
		}
	}
	return out
}

package contracts

// Canonical metric keys. Every value flowing between the fetch stage, the
// strategies and the aggregator is addressed by one of these strings.
// Metric values are plain floats; an absent key means "unavailable",
// never zero or a sentinel.
const (
	MetricCurrentPrice      = "current_price"
	MetricEPSTTM            = "eps_ttm"
	MetricEPSCAGR5Y         = "eps_cagr_5y"
	MetricRevenueTTM        = "revenue_ttm"
	MetricRevTTMYoYGrowth   = "rev_ttm_yoy_growth"
	MetricNetDebt           = "net_debt"
	MetricSharesOutstanding = "shares_outstanding"
	MetricBookValuePerShare = "book_value_per_share"
	MetricDividendTTM       = "dividend_ttm"
	MetricEBITTTM           = "ebit_ttm"
	MetricEBITDATTM         = "ebitda_ttm"
	MetricDATTM             = "da_ttm"
	MetricGrossProfitTTM    = "gross_profit_ttm"
	MetricFCFTTM            = "fcf_ttm"
	MetricRDTTM             = "rd_ttm"
	MetricSGATTM            = "sga_ttm"
	MetricRule40Score       = "rule40_score"
)

// Metrics maps canonical metric keys to fetched values for one ticker.
// Absence of a key signals the metric could not be obtained.
type Metrics map[string]float64

// Get returns the metric value and whether it is available.
func (m Metrics) Get(key string) (float64, bool) {
	v, ok := m[key]
	return v, ok
}

// Clone returns a shallow copy. Strategy invocations each receive their own
// parameter map, so fetched metrics are never shared mutable state.
func (m Metrics) Clone() Metrics {
	out := make(Metrics, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

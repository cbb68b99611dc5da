package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/ampyfin/vald/internal/contracts"
	"github.com/ampyfin/vald/pkg/config"
	"github.com/ampyfin/vald/pkg/logger"
)

// FMPSource fetches fundamentals from the Financial Modeling Prep REST API.
// Each ticker costs a handful of requests (key metrics, quote, income and
// cash flow statements), throttled by a shared rate limiter so batch runs
// stay under the plan's request ceiling.
type FMPSource struct {
	log     *logger.Logger
	cfg     config.FMPConfig
	client  *http.Client
	limiter *rate.Limiter
}

// NewFMPSource builds the FMP-backed metric source.
func NewFMPSource(log *logger.Logger, cfg config.FMPConfig) *FMPSource {
	return &FMPSource{
		log:     log,
		cfg:     cfg,
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
	}
}

func (f *FMPSource) Name() string { return "fmp" }

// FetchMetrics pulls the requested canonical metrics for one ticker.
// Endpoint failures degrade to missing metrics, reported per key; they never
// fail the ticker outright.
func (f *FMPSource) FetchMetrics(ctx context.Context, ticker string, keys []string) (contracts.Metrics, map[string]string) {
	wanted := make(map[string]bool, len(keys))
	for _, k := range keys {
		wanted[k] = true
	}

	found := contracts.Metrics{}
	errs := make(map[string]string)

	// quote: price
	if wanted[contracts.MetricCurrentPrice] {
		var quotes []struct {
			Price *float64 `json:"price"`
		}
		if err := f.getJSON(ctx, "/quote/"+ticker, nil, &quotes); err != nil {
			errs[contracts.MetricCurrentPrice] = err.Error()
		} else if len(quotes) > 0 && quotes[0].Price != nil {
			found[contracts.MetricCurrentPrice] = *quotes[0].Price
		}
	}

	// key-metrics-ttm: most per-share and TTM figures in one call
	var km []struct {
		EPSTTM            *float64 `json:"epsTTM"`
		EPSDilutedTTM     *float64 `json:"epsDilutedTTM"`
		RevenuePerShare   *float64 `json:"revenuePerShareTTM"`
		BookValuePerShare *float64 `json:"bookValuePerShareTTM"`
		DividendPerShare  *float64 `json:"dividendPerShareTTM"`
		NetDebtToEBITDA   *float64 `json:"netDebtToEBITDATTM"`
		SharesOutstanding *float64 `json:"sharesOutstandingTTM"`
		FreeCashFlowTTM   *float64 `json:"freeCashFlowPerShareTTM"`
	}
	if err := f.getJSON(ctx, "/key-metrics-ttm/"+ticker, nil, &km); err != nil {
		f.log.WithError(err).WithField("ticker", ticker).Debug("key-metrics-ttm failed")
	}
	if len(km) > 0 {
		row := km[0]
		putFirst(found, contracts.MetricEPSTTM, row.EPSTTM, row.EPSDilutedTTM)
		putFirst(found, contracts.MetricBookValuePerShare, row.BookValuePerShare)
		putFirst(found, contracts.MetricDividendTTM, row.DividendPerShare)
		putFirst(found, contracts.MetricSharesOutstanding, row.SharesOutstanding)
	}

	// profile: shares fallback
	if wanted[contracts.MetricSharesOutstanding] {
		if _, ok := found[contracts.MetricSharesOutstanding]; !ok {
			var prof []struct {
				SharesOutstanding *float64 `json:"sharesOutstanding"`
			}
			if err := f.getJSON(ctx, "/profile/"+ticker, nil, &prof); err == nil && len(prof) > 0 {
				putFirst(found, contracts.MetricSharesOutstanding, prof[0].SharesOutstanding)
			}
		}
	}

	// income statement: revenue, EBIT, gross profit, D&A, R&D, SG&A
	var income []struct {
		Revenue         *float64 `json:"revenue"`
		OperatingIncome *float64 `json:"operatingIncome"`
		GrossProfit     *float64 `json:"grossProfit"`
		DepAmortization *float64 `json:"depreciationAndAmortization"`
		EBITDA          *float64 `json:"ebitda"`
		RDExpenses      *float64 `json:"researchAndDevelopmentExpenses"`
		SGAExpenses     *float64 `json:"sellingGeneralAndAdministrativeExpenses"`
	}
	if err := f.getJSON(ctx, "/income-statement/"+ticker, url.Values{"limit": {"2"}}, &income); err != nil {
		f.log.WithError(err).WithField("ticker", ticker).Debug("income-statement failed")
	}
	if len(income) > 0 {
		row := income[0]
		putFirst(found, contracts.MetricRevenueTTM, row.Revenue)
		putFirst(found, contracts.MetricEBITTTM, row.OperatingIncome)
		putFirst(found, contracts.MetricGrossProfitTTM, row.GrossProfit)
		putFirst(found, contracts.MetricDATTM, row.DepAmortization)
		putFirst(found, contracts.MetricEBITDATTM, row.EBITDA)
		putFirst(found, contracts.MetricRDTTM, row.RDExpenses)
		putFirst(found, contracts.MetricSGATTM, row.SGAExpenses)

		// YoY revenue growth from the two most recent annual statements.
		if len(income) > 1 && row.Revenue != nil && income[1].Revenue != nil && *income[1].Revenue > 0 {
			found[contracts.MetricRevTTMYoYGrowth] = *row.Revenue / *income[1].Revenue - 1.0
		}
	}

	// balance sheet: net debt
	if wanted[contracts.MetricNetDebt] {
		var balance []struct {
			NetDebt   *float64 `json:"netDebt"`
			TotalDebt *float64 `json:"totalDebt"`
			Cash      *float64 `json:"cashAndCashEquivalents"`
		}
		if err := f.getJSON(ctx, "/balance-sheet-statement/"+ticker, url.Values{"limit": {"1"}}, &balance); err != nil {
			errs[contracts.MetricNetDebt] = err.Error()
		} else if len(balance) > 0 {
			row := balance[0]
			if row.NetDebt != nil {
				found[contracts.MetricNetDebt] = *row.NetDebt
			} else if row.TotalDebt != nil && row.Cash != nil {
				found[contracts.MetricNetDebt] = *row.TotalDebt - *row.Cash
			}
		}
	}

	// cash flow: FCF
	if wanted[contracts.MetricFCFTTM] {
		var cashflow []struct {
			FreeCashFlow *float64 `json:"freeCashFlow"`
		}
		if err := f.getJSON(ctx, "/cash-flow-statement/"+ticker, url.Values{"limit": {"1"}}, &cashflow); err != nil {
			errs[contracts.MetricFCFTTM] = err.Error()
		} else if len(cashflow) > 0 {
			putFirst(found, contracts.MetricFCFTTM, cashflow[0].FreeCashFlow)
		}
	}

	// EPS CAGR from up to six annual income statements.
	if wanted[contracts.MetricEPSCAGR5Y] {
		var hist []struct {
			EPS *float64 `json:"eps"`
		}
		if err := f.getJSON(ctx, "/income-statement/"+ticker, url.Values{"limit": {"6"}}, &hist); err == nil && len(hist) >= 3 {
			// Data arrives newest first.
			newest, oldest := hist[0].EPS, hist[len(hist)-1].EPS
			if newest != nil && oldest != nil && *newest > 0 && *oldest > 0 {
				years := float64(len(hist) - 1)
				found[contracts.MetricEPSCAGR5Y] = math.Pow(*newest / *oldest, 1.0/years) - 1.0
			}
		}
	}

	out := make(contracts.Metrics, len(keys))
	for _, k := range keys {
		if v, ok := found[k]; ok && !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[k] = v
		} else if _, reported := errs[k]; !reported {
			errs[k] = "fmp: metric unavailable"
		}
	}
	if len(errs) == 0 {
		errs = nil
	}
	return out, errs
}

func (f *FMPSource) getJSON(ctx context.Context, path string, params url.Values, dst any) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return err
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", f.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.cfg.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fmp: %s returned HTTP %d", path, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(dst)
}

// putFirst stores the first non-nil candidate under key.
func putFirst(m contracts.Metrics, key string, candidates ...*float64) {
	if _, ok := m[key]; ok {
		return
	}
	for _, c := range candidates {
		if c != nil && !math.IsNaN(*c) && !math.IsInf(*c, 0) {
			m[key] = *c
			return
		}
	}
}

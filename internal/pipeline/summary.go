package pipeline

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ampyfin/vald/internal/contracts"
)

// WriteSummary renders a run as a console table: per-ticker price, consensus
// fair value, discount and the P25/P75 dispersion band, followed by the five
// most undervalued names by consensus discount.
func WriteSummary(w io.Writer, result *contracts.RunResult) {
	fmt.Fprintf(w, "\n==== vald valuation results ====\n")
	fmt.Fprintf(w, "Run at: %s\n", result.GeneratedAt.Format("2006-01-02T15:04:05Z"))
	fmt.Fprintf(w, "Strategies: %s\n", strings.Join(result.StrategyNames, ", "))
	line := strings.Repeat("-", 84)
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "%-8s %12s %16s %12s %12s %12s\n", "Ticker", "Price", "Consensus FV", "Discount%", "P25 FV", "P75 FV")
	fmt.Fprintln(w, line)

	for _, tk := range result.Tickers {
		rec := result.ByTicker[tk]
		if rec == nil {
			continue
		}
		fmt.Fprintf(w, "%-8s %12s %16s %12s %12s %12s\n",
			tk,
			fmtFloat(rec.CurrentPrice),
			fmtFloat(rec.ConsensusFairValue),
			fmtPct(rec.ConsensusDiscount),
			fmtFloat(rec.ConsensusP25),
			fmtFloat(rec.ConsensusP75),
		)
	}
	fmt.Fprintln(w, line)

	type scored struct {
		ticker   string
		discount float64
	}
	var top []scored
	for _, tk := range result.Tickers {
		if rec := result.ByTicker[tk]; rec != nil && rec.ConsensusDiscount != nil {
			top = append(top, scored{ticker: tk, discount: *rec.ConsensusDiscount})
		}
	}
	sort.Slice(top, func(i, j int) bool { return top[i].discount > top[j].discount })
	if len(top) > 0 {
		fmt.Fprintln(w, "Top (potentially) undervalued by consensus:")
		for i, s := range top {
			if i == 5 {
				break
			}
			fmt.Fprintf(w, "  %s: %.1f%%\n", s.ticker, s.discount*100)
		}
	}
	fmt.Fprintln(w)
}

func fmtFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func fmtPct(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", *v*100)
}

package adapters

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ampyfin/vald/pkg/logger"
)

// StaticTickers serves a fixed ticker universe from configuration.
type StaticTickers struct {
	symbols []string
}

// NewStaticTickers builds a fixed-universe source.
func NewStaticTickers(symbols []string) *StaticTickers {
	return &StaticTickers{symbols: symbols}
}

func (s *StaticTickers) Tickers(_ context.Context) ([]string, error) {
	if len(s.symbols) == 0 {
		return nil, fmt.Errorf("static ticker list is empty")
	}
	out := make([]string, len(s.symbols))
	copy(out, s.symbols)
	return out, nil
}

const wikiSP500URL = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"

// WikiSP500Tickers scrapes the S&P 500 constituents table from Wikipedia.
// Symbols are returned verbatim (BRK.B keeps its dot); provider-specific
// normalization belongs to the metric source.
type WikiSP500Tickers struct {
	log    *logger.Logger
	client *http.Client
	url    string
}

// NewWikiSP500Tickers builds the scraper.
func NewWikiSP500Tickers(log *logger.Logger) *WikiSP500Tickers {
	return &WikiSP500Tickers{
		log:    log,
		client: &http.Client{Timeout: 15 * time.Second},
		url:    wikiSP500URL,
	}
}

func (w *WikiSP500Tickers) Tickers(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "vald/1.0 (+https://github.com/ampyfin/vald)")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching constituents page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("constituents page returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing constituents page: %w", err)
	}

	// The constituents table carries id=constituents; first column is the
	// symbol. Fall back to the first wikitable if the id ever changes.
	table := doc.Find("table#constituents")
	if table.Length() == 0 {
		table = doc.Find("table.wikitable").First()
	}

	seen := make(map[string]bool)
	var symbols []string
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cell := row.Find("td").First()
		sym := strings.ToUpper(strings.TrimSpace(cell.Text()))
		if sym != "" && !seen[sym] {
			seen[sym] = true
			symbols = append(symbols, sym)
		}
	})

	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbols parsed from constituents table")
	}

	w.log.Infof("scraped %d S&P 500 constituents", len(symbols))
	return symbols, nil
}

package classifier

import (
	"fmt"
	"regexp"
	"strings"
)

type watchPattern struct {
	symbol  string
	company string
	re      *regexp.Regexp
}

// Watchlist finds known companies in free text. Entries keep their
// configured order.
type Watchlist struct {
	patterns []watchPattern
}

func NewWatchlist(entries []WatchEntry) (*Watchlist, error) {
	w := &Watchlist{patterns: make([]watchPattern, 0, len(entries))}

	for _, e := range entries {
		symbol := strings.ToUpper(strings.TrimSpace(e.Symbol))
		if symbol == "" {
			return nil, fmt.Errorf("watchlist entry without symbol")
		}

		names := make([]string, 0, len(e.Aliases)+1)
		if e.Company != "" {
			names = append(names, regexp.QuoteMeta(e.Company))
		}
		for _, a := range e.Aliases {
			if a = strings.TrimSpace(a); a != "" {
				names = append(names, regexp.QuoteMeta(a))
			}
		}
		if len(names) == 0 {
			names = append(names, regexp.QuoteMeta(symbol))
		}

		re, err := regexp.Compile(`(?i)\b(?:` + strings.Join(names, "|") + `)\b`)
		if err != nil {
			return nil, fmt.Errorf("watchlist %s: %w", symbol, err)
		}

		company := e.Company
		if company == "" {
			company = symbol
		}
		w.patterns = append(w.patterns, watchPattern{symbol: symbol, company: company, re: re})
	}

	return w, nil
}

// Match returns every watchlist symbol found in text, with company names in
// the same order.
func (w *Watchlist) Match(text string) (tickers, companies []string) {
	tickers = []string{}
	companies = []string{}
	for _, p := range w.patterns {
		if p.re.MatchString(text) {
			tickers = append(tickers, p.symbol)
			companies = append(companies, p.company)
		}
	}
	return tickers, companies
}

// Primary is the first watchlist entry that matches, or nil.
func (w *Watchlist) Primary(text string) *string {
	for _, p := range w.patterns {
		if p.re.MatchString(text) {
			s := p.symbol
			return &s
		}
	}
	return nil
}

func (w *Watchlist) Symbols() []string {
	out := make([]string, len(w.patterns))
	for i, p := range w.patterns {
		out[i] = p.symbol
	}
	return out
}

package feed

import (
	"sort"
	"strings"
)

// Normalize returns a copy of the article with tickers and investor types
// deduplicated and sorted. The market update category is left as is.
// Normalize(Normalize(a)) == Normalize(a).
func Normalize(a Article) Article {
	a.Tickers = normalizeTickers(a.Tickers)
	a.InvestorTypes = normalizeLabels(a.InvestorTypes)
	return a
}

// NormalizeAnalysis applies the same rules to a raw extraction result. When a
// ticker repeats, the first occurrence wins.
func NormalizeAnalysis(a Analysis) Analysis {
	seen := make(map[string]bool, len(a.Stocks))
	stocks := make([]Ticker, 0, len(a.Stocks))
	for _, s := range a.Stocks {
		symbol := canonicalSymbol(s.Symbol)
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true
		stocks = append(stocks, Ticker{Symbol: symbol})
	}
	sort.SliceStable(stocks, func(i, j int) bool { return stocks[i].Symbol < stocks[j].Symbol })

	a.Stocks = stocks
	a.InvestorTypes = normalizeLabels(a.InvestorTypes)
	return a
}

func (a Analysis) Symbols() []string {
	symbols := make([]string, 0, len(a.Stocks))
	for _, s := range a.Stocks {
		symbols = append(symbols, s.Symbol)
	}
	return symbols
}

func canonicalSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func normalizeTickers(tickers []string) []string {
	seen := make(map[string]bool, len(tickers))
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		symbol := canonicalSymbol(t)
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true
		out = append(out, symbol)
	}
	sort.Strings(out)
	return out
}

func normalizeLabels(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		label := strings.TrimSpace(l)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

package sentiment

import (
	"regexp"
	"strings"
)

// wordRun matches maximal runs of Unicode word characters. A symbol only
// counts when its whole run is uppercase ASCII, so "ÉAAPL" is not a
// standalone token.
var (
	wordRun        = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	explicitTicker = regexp.MustCompile(`^[A-Z]{1,5}$`)
)

// ExtractTicker returns the stock symbol mentioned in text.
//
// Explicit uppercase tokens from the priority list win first, in scan
// order. Otherwise the lower-cased text is searched for company names by
// plain substring containment, which also catches multi-word names such
// as "coca cola" (and, as a known false positive, "apple pie").
func ExtractTicker(text string) (string, bool) {
	for _, word := range wordRun.FindAllString(text, -1) {
		if !explicitTicker.MatchString(word) {
			continue
		}
		if _, ok := prioritySymbols[word]; ok {
			return word, true
		}
	}

	lower := strings.ToLower(text)
	for _, c := range companyTickers {
		if strings.Contains(lower, c.name) {
			return c.symbol, true
		}
	}
	return "", false
}

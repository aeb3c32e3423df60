// Package utils provides common utility functions for FinSense.
package utils

import (
	"regexp"
	"strings"
)

// Share-class and vendor spellings that Yahoo Finance lists under a
// different symbol.
var tickerAliases = map[string]string{
	"BRK.B": "BRK-B",
	"BRKB":  "BRK-B",
	"BRK.A": "BRK-A",
	"BRKA":  "BRK-A",
	"FB":    "META",
}

var tickerPattern = regexp.MustCompile(`^[A-Z]{1,5}(-[A-Z])?$`)

// NormalizeTicker normalizes a user-input ticker to the canonical Yahoo Finance
// symbol. It handles aliases, uppercasing, whitespace and a leading "$".
func NormalizeTicker(ticker string) string {
	ticker = strings.TrimSpace(strings.ToUpper(ticker))

	// Remove $ prefix if present (cashtags)
	ticker = strings.TrimPrefix(ticker, "$")

	if canonical, ok := tickerAliases[ticker]; ok {
		return canonical
	}
	return ticker
}

// IsValidTicker reports whether s looks like a listed equity symbol:
// one to five letters with an optional share-class suffix ("BRK-B").
func IsValidTicker(s string) bool {
	return tickerPattern.MatchString(NormalizeTicker(s))
}

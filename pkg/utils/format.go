package utils

import (
	"fmt"
	"math"
)

// FormatUSD formats a price with a dollar sign and thousands separators
// ($1,234.56).
func FormatUSD(amount float64) string {
	negative := amount < 0
	amount = math.Abs(amount)

	intPart := int64(amount)
	cents := int64(math.Round((amount - float64(intPart)) * 100))
	if cents == 100 {
		intPart++
		cents = 0
	}

	s := fmt.Sprintf("$%s.%02d", groupThousands(intPart), cents)
	if negative {
		return "-" + s
	}
	return s
}

// FormatCompact formats large values with K/M/B/T suffixes ($2.87T).
func FormatCompact(amount float64) string {
	prefix := "$"
	if amount < 0 {
		prefix = "-$"
		amount = -amount
	}
	switch {
	case amount >= 1e12:
		return fmt.Sprintf("%s%.2fT", prefix, amount/1e12)
	case amount >= 1e9:
		return fmt.Sprintf("%s%.2fB", prefix, amount/1e9)
	case amount >= 1e6:
		return fmt.Sprintf("%s%.2fM", prefix, amount/1e6)
	case amount >= 1e3:
		return fmt.Sprintf("%s%.2fK", prefix, amount/1e3)
	default:
		return fmt.Sprintf("%s%.2f", prefix, amount)
	}
}

// FormatPct formats a percentage with sign: +2.35%, -1.20%.
func FormatPct(pct float64) string {
	if pct >= 0 {
		return fmt.Sprintf("+%.2f%%", pct)
	}
	return fmt.Sprintf("%.2f%%", pct)
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	pre := len(s) % 3
	if pre > 0 {
		out = append(out, s[:pre]...)
	}
	for i := pre; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}

package utils

import (
	"strconv"
	"unicode/utf8"
)

// Truncate returns at most n characters (runes) of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// CharLen returns the number of characters (runes) in s.
func CharLen(s string) int {
	return utf8.RuneCountInString(s)
}

// Round rounds x to the given number of decimal places. The decimal
// expansion of x is rounded exactly and ties go to the even digit, so
// Round(2.675, 2) is 2.67 and Round(0.125, 2) is 0.12.
func Round(x float64, places int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil || r == 0 {
		return 0
	}
	return r
}

// RoundAll rounds every element of xs, returning a new slice.
func RoundAll(xs []float64, places int) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = Round(x, places)
	}
	return out
}

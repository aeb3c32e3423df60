package utils

import "time"

// ET is the US Eastern time zone the NYSE and NASDAQ trade in.
var ET *time.Location

func init() {
	var err error
	ET, err = time.LoadLocation("America/New_York")
	if err != nil {
		// Fallback: fixed EST if tz database is not available
		ET = time.FixedZone("EST", -5*60*60)
	}
}

// NowET returns the current time in US Eastern time.
func NowET() time.Time {
	return time.Now().In(ET)
}

// FormatDate formats t as "2006-01-02" in US Eastern time.
func FormatDate(t time.Time) string {
	return t.In(ET).Format("2006-01-02")
}

// FormatDateTimeET formats t as "2006-01-02 15:04:05 ET".
func FormatDateTimeET(t time.Time) string {
	return t.In(ET).Format("2006-01-02 15:04:05") + " ET"
}

// MarketStatusAt returns the regular-session status of US equity markets
// at t. Exchange holidays are not tracked.
func MarketStatusAt(t time.Time) string {
	t = t.In(ET)
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return "CLOSED (Weekend)"
	}

	preOpen := time.Date(t.Year(), t.Month(), t.Day(), 4, 0, 0, 0, ET)
	open := time.Date(t.Year(), t.Month(), t.Day(), 9, 30, 0, 0, ET)
	closing := time.Date(t.Year(), t.Month(), t.Day(), 16, 0, 0, 0, ET)
	postClose := time.Date(t.Year(), t.Month(), t.Day(), 20, 0, 0, 0, ET)

	switch {
	case t.Before(preOpen):
		return "CLOSED"
	case t.Before(open):
		return "PRE-MARKET"
	case t.Before(closing):
		return "OPEN"
	case t.Before(postClose):
		return "AFTER-HOURS"
	default:
		return "CLOSED"
	}
}

// MarketStatus returns the current market status string.
func MarketStatus() string {
	return MarketStatusAt(NowET())
}

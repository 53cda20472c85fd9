package parser

import (
	"strconv"
	"strings"
	"time"
)

// expandTwoDigitYear maps a 2-digit year to a 4-digit one per spec §4.1:
// YY <= 69 maps to 2000+YY, else 1900+YY.
func expandTwoDigitYear(year int) int {
	if year >= 100 {
		return year
	}
	if year <= 69 {
		return 2000 + year
	}
	return 1900 + year
}

// to24Hour converts a 12-hour clock reading plus an optional AM/PM token
// into 24-hour form. An empty ampm token leaves hour unchanged (already 24h).
func to24Hour(hour int, ampm string) int {
	ampm = strings.ToUpper(strings.TrimSpace(ampm))
	switch ampm {
	case "AM":
		if hour == 12 {
			return 0
		}
		return hour
	case "PM":
		if hour == 12 {
			return 12
		}
		return hour + 12
	default:
		return hour
	}
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// buildUTC constructs a UTC instant from individually parsed fields. Per
// spec §4.1, naive timestamps with no IANA zone information are assumed to
// already be UTC.
func buildUTC(year, month, day, hour, minute, second int) time.Time {
	return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
}

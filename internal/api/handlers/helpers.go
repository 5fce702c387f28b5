package handlers

import (
	"fmt"
	"time"
)

// parseLocalTime accepts RFC3339 or a zone-less local timestamp, resolving
// the latter in the market timezone.
func parseLocalTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q (expected RFC3339 or 2006-01-02T15:04:05)", s)
}

// parseDateParam parses a required YYYY-MM-DD query parameter in the market
// timezone.
func parseDateParam(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("date query parameter is required")
	}
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return t, nil
}

package market

import (
	"fmt"
	"time"
)

// Timezone is the ERCOT market timezone.
const Timezone = "America/Chicago"

// DA order entry closes at 11:00 market time on the trading date.
const (
	DefaultCutoffHour   = 11
	DefaultCutoffMinute = 0
)

// CutoffStatus reports whether new-bid submission is still open for a
// trading date. "Now" moves, so callers poll; there is no push.
type CutoffStatus struct {
	CutoffTime     time.Time
	CurrentTime    time.Time
	IsCutoffPassed bool
	DisplayText    string
}

// CutoffCalculator computes the order-entry cutoff for a trading date.
// Now is injectable for tests and defaults to time.Now.
type CutoffCalculator struct {
	Location *time.Location
	Hour     int
	Minute   int
	Now      func() time.Time
}

func NewCutoffCalculator(loc *time.Location) *CutoffCalculator {
	return &CutoffCalculator{
		Location: loc,
		Hour:     DefaultCutoffHour,
		Minute:   DefaultCutoffMinute,
		Now:      time.Now,
	}
}

// Status evaluates the cutoff for tradingDate. A date-only input is
// interpreted as that calendar date in market-local time before the cutoff
// offset is applied. The comparison is strict: exactly at the cutoff minute
// order entry is still open.
func (c *CutoffCalculator) Status(tradingDate time.Time) CutoffStatus {
	// The calendar date is read as the caller expressed it, so a bare
	// "YYYY-MM-DD" parsed in any zone still means that trading date.
	y, m, d := tradingDate.Date()
	cutoff := time.Date(y, m, d, c.Hour, c.Minute, 0, 0, c.Location)
	now := c.Now().In(c.Location)

	passed := now.After(cutoff)
	text := fmt.Sprintf("Order entry open until %02d:%02d CT", c.Hour, c.Minute)
	if passed {
		text = "Order entry closed"
	}

	return CutoffStatus{
		CutoffTime:     cutoff,
		CurrentTime:    now,
		IsCutoffPassed: passed,
		DisplayText:    text,
	}
}

package model

import "time"

// HourlyClear is the clearing result for one delivery hour.
//
// DAPrice and AvgRTPrice are nil when no quote/sample exists for the hour;
// callers must branch on presence before reading them. ClearedQty is the
// signed net position: positive = net long, negative = net short, zero =
// flat. Results are recomputed from scratch on every clearing run and never
// mutated incrementally.
type HourlyClear struct {
	HourStart  time.Time
	DAPrice    *float64
	AvgRTPrice *float64
	ClearedQty float64
	PnL        float64
}

// ClearingSummary is a pure aggregate over a sequence of HourlyClear.
type ClearingSummary struct {
	TotalPnL float64

	// TotalVolume is the sum of absolute cleared quantities (MWh).
	TotalVolume float64
	LongVolume  float64
	ShortVolume float64

	HoursWithPosition int
	HoursWithPnL      int

	// AvgPnLPerActiveHour is TotalPnL / HoursWithPnL, or 0 when no hour has
	// nonzero P&L.
	AvgPnLPerActiveHour float64
}

package model

import "time"

// PricePoint is one market-price observation at a settlement point.
// Timestamp is market-local: hour-aligned for DA points, sub-hour-aligned
// (nominally every 5 minutes) for RT points. Price is $/MWh and may be
// negative.
type PricePoint struct {
	Timestamp       time.Time
	SettlementPoint string
	Price           float64
}

// HourlyAverage is the reduction of one clock hour of RT samples to a single
// unweighted mean price.
type HourlyAverage struct {
	HourStart       time.Time
	SettlementPoint string
	AvgPrice        float64
}

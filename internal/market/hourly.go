// Package market implements the market-time primitives of the simulator:
// hourly bucketing of sub-hourly real-time prices and the day-ahead
// order-entry cutoff.
package market

import (
	"sort"
	"time"

	"virtual-energy-trader/internal/model"
)

// HourStart truncates t to the start of its containing wall-clock hour in
// t's own location.
//
// Subtracting the sub-hour components as a duration (rather than rebuilding
// the time with time.Date) keeps the two 1 AM hours of a fall-back day
// distinct: each sample lands in the hour that was actually on the clock
// when it was observed.
func HourStart(t time.Time) time.Time {
	d := time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
	return t.Add(-d)
}

// AverageToHourly reduces an unordered sequence of RT price samples to one
// record per wall-clock hour, with AvgPrice the unweighted arithmetic mean
// of the hour's samples. Input order never affects the result.
//
// Precondition (caller-enforced): all samples in one hour share a settlement
// point. The bucket takes its SettlementPoint from the first sample seen;
// mixed-point hours are unspecified.
//
// Empty input yields empty output, and an hour with no samples is simply
// never produced.
func AverageToHourly(samples []model.PricePoint) []model.HourlyAverage {
	type bucket struct {
		hourStart time.Time
		point     string
		sum       float64
		n         int
	}

	// Keyed by the hour start's Unix second: canonical and comparable,
	// unambiguous across a DST transition.
	buckets := map[int64]*bucket{}
	for _, s := range samples {
		hs := HourStart(s.Timestamp)
		key := hs.Unix()
		b := buckets[key]
		if b == nil {
			b = &bucket{hourStart: hs, point: s.SettlementPoint}
			buckets[key] = b
		}
		b.sum += s.Price
		b.n++
	}

	out := make([]model.HourlyAverage, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, model.HourlyAverage{
			HourStart:       b.hourStart,
			SettlementPoint: b.point,
			AvgPrice:        b.sum / float64(b.n),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].HourStart.Before(out[j].HourStart)
	})
	return out
}

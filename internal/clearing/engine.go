// Package clearing implements the clearing & settlement engine: the
// deterministic transformation from {bids, DA prices, RT hourly averages} to
// {per-hour clearing results, aggregate summary}.
package clearing

import (
	"math"
	"sort"
	"time"

	"virtual-energy-trader/internal/market"
	"virtual-energy-trader/internal/model"
)

// Engine clears virtual bids against DA settlement prices and marks the
// cleared position against the hourly RT average. It is stateless: both
// methods are total, deterministic, side-effect-free transforms, safe to
// call from any number of goroutines.
type Engine struct{}

func New() *Engine { return &Engine{} }

// Clear runs one full clearing pass.
//
// The output contains one row per hour in (hours with at least one bid) ∪
// (hours with a DA price), ascending by hour start. Hours with only RT data
// are excluded: an RT price alone can produce neither a clearing decision
// nor a position. Duplicate DA points for the same hour resolve
// last-value-wins.
//
// Missing inputs are not errors: absent prices surface as nil fields and
// zero quantities. The ≤10-bids-per-hour cap is the store's invariant, not
// re-checked here; the engine sums whatever bids it is given.
func (e *Engine) Clear(bids []model.Bid, daPrices []model.PricePoint, rtAverages []model.HourlyAverage) []model.HourlyClear {
	bidsByHour := map[int64][]model.Bid{}
	hours := map[int64]time.Time{}
	for _, b := range bids {
		hs := market.HourStart(b.HourStart)
		k := hs.Unix()
		bidsByHour[k] = append(bidsByHour[k], b)
		hours[k] = hs
	}

	daByHour := map[int64]float64{}
	for _, p := range daPrices {
		hs := market.HourStart(p.Timestamp)
		k := hs.Unix()
		daByHour[k] = p.Price
		hours[k] = hs
	}

	rtByHour := map[int64]float64{}
	for _, a := range rtAverages {
		rtByHour[market.HourStart(a.HourStart).Unix()] = a.AvgPrice
	}

	keys := make([]int64, 0, len(hours))
	for k := range hours {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	out := make([]model.HourlyClear, 0, len(keys))
	for _, k := range keys {
		hc := model.HourlyClear{HourStart: hours[k]}

		da, hasDA := daByHour[k]
		if hasDA {
			v := da
			hc.DAPrice = &v
		}
		if rt, ok := rtByHour[k]; ok {
			v := rt
			hc.AvgRTPrice = &v
		}

		// Without a DA settlement price nothing clears, whatever the bids say.
		if hasDA {
			for _, b := range bidsByHour[k] {
				if clears(b, da) {
					hc.ClearedQty += b.SignedQuantity()
				}
			}
		}

		if hc.DAPrice != nil && hc.AvgRTPrice != nil && hc.ClearedQty != 0 {
			hc.PnL = hc.ClearedQty * (*hc.AvgRTPrice - *hc.DAPrice)
		}

		out = append(out, hc)
	}
	return out
}

// clears applies the limit-order-vs-clearing-price rule. Ties are inclusive:
// a bid priced exactly at the settlement price fills. There are no partial
// fills.
func clears(b model.Bid, daPrice float64) bool {
	switch b.Side {
	case model.SideBuy:
		return b.Price >= daPrice
	case model.SideSell:
		return b.Price <= daPrice
	}
	return false
}

// Summarize reduces a clear list to aggregate statistics. It holds no state
// and recomputes fully on every call.
func (e *Engine) Summarize(clears []model.HourlyClear) model.ClearingSummary {
	var s model.ClearingSummary
	for _, c := range clears {
		s.TotalPnL += c.PnL
		s.TotalVolume += math.Abs(c.ClearedQty)
		switch {
		case c.ClearedQty > 0:
			s.LongVolume += c.ClearedQty
		case c.ClearedQty < 0:
			s.ShortVolume += -c.ClearedQty
		}
		if c.ClearedQty != 0 {
			s.HoursWithPosition++
		}
		if c.PnL != 0 {
			s.HoursWithPnL++
		}
	}
	if s.HoursWithPnL > 0 {
		s.AvgPnLPerActiveHour = s.TotalPnL / float64(s.HoursWithPnL)
	}
	return s
}

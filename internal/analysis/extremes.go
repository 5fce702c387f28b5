// Package analysis derives reporting statistics from clearing runs. Nothing
// here feeds back into clearing; it exists for ranking and display.
package analysis

import (
	"math"

	"virtual-energy-trader/internal/model"
)

// HourExtremes summarizes the standout hours of a clearing run.
// Spread fields only consider hours where both DA and RT prices are present.
type HourExtremes struct {
	// Best and Worst are the hours with the highest and lowest P&L among
	// hours holding a position. Nil when no hour has a position.
	Best  *model.HourlyClear
	Worst *model.HourlyClear

	// MaxSpreadHour is the hour with the largest |avgRT - DA| gap, whether
	// or not anything cleared there. Nil when no hour has both prices.
	MaxSpreadHour *model.HourlyClear
	MaxSpread     float64
}

// ComputeExtremes scans a clear list in one pass. An empty input yields a
// zero value with all nil hours.
func ComputeExtremes(clears []model.HourlyClear) HourExtremes {
	var x HourExtremes
	for i := range clears {
		c := clears[i]
		if c.ClearedQty != 0 {
			if x.Best == nil || c.PnL > x.Best.PnL {
				cp := c
				x.Best = &cp
			}
			if x.Worst == nil || c.PnL < x.Worst.PnL {
				cp := c
				x.Worst = &cp
			}
		}
		if c.DAPrice != nil && c.AvgRTPrice != nil {
			spread := math.Abs(*c.AvgRTPrice - *c.DAPrice)
			if x.MaxSpreadHour == nil || spread > x.MaxSpread {
				cp := c
				x.MaxSpreadHour = &cp
				x.MaxSpread = spread
			}
		}
	}
	return x
}

package model

import "time"

// GridStatusLMPResponse matches the JSON envelope returned by the Grid
// Status query endpoints (and our JSON fixtures).
//
// Example:
// {
//   "status_code": 200,
//   "data": [ ... ]
// }
type GridStatusLMPResponse struct {
	StatusCode int           `json:"status_code"`
	Data       []LMPInterval `json:"data"`
}

// LMPInterval represents one interval row from a Grid Status price dataset.
// Rows are hourly for the DA settlement-point-price dataset and 5-minute for
// the RT LMP dataset. All timestamps arrive as RFC3339 strings with offsets.
type LMPInterval struct {
	IntervalStartLocal time.Time `json:"interval_start_local"`
	IntervalStartUTC   time.Time `json:"interval_start_utc"`
	IntervalEndLocal   time.Time `json:"interval_end_local"`
	IntervalEndUTC     time.Time `json:"interval_end_utc"`

	Market       string `json:"market"`
	Location     string `json:"location"`
	LocationType string `json:"location_type"`

	// Prices in $/MWh.
	LMP        float64 `json:"lmp"`
	Energy     float64 `json:"energy"`
	Congestion float64 `json:"congestion"`
	Loss       float64 `json:"loss"`
}

func (i LMPInterval) Duration() time.Duration {
	// Prefer UTC fields because they're unambiguous and consistent.
	if !i.IntervalEndUTC.IsZero() && !i.IntervalStartUTC.IsZero() {
		return i.IntervalEndUTC.Sub(i.IntervalStartUTC)
	}
	return i.IntervalEndLocal.Sub(i.IntervalStartLocal)
}

// PricePoint converts the interval to the core observation type. The local
// interval start carries the market timezone, which the hour bucketing
// relies on.
func (i LMPInterval) PricePoint() PricePoint {
	ts := i.IntervalStartLocal
	if ts.IsZero() {
		ts = i.IntervalStartUTC
	}
	return PricePoint{
		Timestamp:       ts,
		SettlementPoint: i.Location,
		Price:           i.LMP,
	}
}

// ToPricePoints flattens a response into core price observations.
// A nil or empty response yields an empty slice, never an error: "no data
// for that date/point" is a valid upstream outcome.
func ToPricePoints(resp *GridStatusLMPResponse) []PricePoint {
	if resp == nil {
		return nil
	}
	out := make([]PricePoint, 0, len(resp.Data))
	for _, it := range resp.Data {
		out = append(out, it.PricePoint())
	}
	return out
}

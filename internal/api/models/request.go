package models

// CreateBidRequest represents the request body for submitting a bid.
type CreateBidRequest struct {
	HourStart string  `json:"hour_start" binding:"required"` // RFC3339 or "2006-01-02T15:04:05"
	Side      string  `json:"side" binding:"required"`       // "BUY" or "SELL"
	Price     float64 `json:"price" binding:"required"`      // $/MWh
	Quantity  float64 `json:"quantity" binding:"required"`   // MWh
}

// SimulateRequest represents the request body for running a clearing
// simulation. Prices are either fetched from Grid Status (api_key required)
// or supplied inline, which bypasses the fetch entirely.
type SimulateRequest struct {
	Date            string `json:"date" binding:"required"` // YYYY-MM-DD
	SettlementPoint string `json:"settlement_point,omitempty"`
	APIKey          string `json:"api_key,omitempty"`

	// Inline fixtures. When set, no upstream request is made.
	DAPrices []PriceInput `json:"da_prices,omitempty"`
	RTPrices []PriceInput `json:"rt_prices,omitempty"`
}

// UsesInlinePrices reports whether the request carries its own price data.
func (r SimulateRequest) UsesInlinePrices() bool {
	return len(r.DAPrices) > 0 || len(r.RTPrices) > 0
}

// PriceInput is one inline price observation.
type PriceInput struct {
	Timestamp       string  `json:"timestamp" binding:"required"`
	SettlementPoint string  `json:"settlement_point,omitempty"`
	Price           float64 `json:"price"`
}

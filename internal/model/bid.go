package model

import "time"

// Side is the direction of a bid.
// Keep these values stable; they are persisted and served over the API.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Bid is a single hourly limit order for one delivery hour of a trading date.
// Units:
// - Price: $/MWh, > 0
// - Quantity: MWh, > 0
//
// Bids are immutable once created; the store only ever inserts and deletes.
// HourStart is the start of the delivery hour in market-local time.
type Bid struct {
	ID        string
	HourStart time.Time
	Side      Side
	Price     float64
	Quantity  float64
}

// SignedQuantity is the position contribution if the bid clears:
// +Quantity for a BUY (net long), -Quantity for a SELL (net short).
func (b Bid) SignedQuantity() float64 {
	if b.Side == SideSell {
		return -b.Quantity
	}
	return b.Quantity
}

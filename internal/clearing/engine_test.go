package clearing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtual-energy-trader/internal/model"
)

func chicago(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)
	return loc
}

func bid(hour time.Time, side model.Side, price, qty float64) model.Bid {
	return model.Bid{HourStart: hour, Side: side, Price: price, Quantity: qty}
}

func daPoint(hour time.Time, price float64) model.PricePoint {
	return model.PricePoint{Timestamp: hour, SettlementPoint: "HB_NORTH", Price: price}
}

func rtAvg(hour time.Time, price float64) model.HourlyAverage {
	return model.HourlyAverage{HourStart: hour, SettlementPoint: "HB_NORTH", AvgPrice: price}
}

// The reference scenario: a partially-filled hour 8 (BUY clears, SELL does
// not) and a fully-cleared hour 9.
func TestClearReferenceScenario(t *testing.T) {
	t.Parallel()
	loc := chicago(t)
	h8 := time.Date(2025, 7, 15, 8, 0, 0, 0, loc)
	h9 := time.Date(2025, 7, 15, 9, 0, 0, 0, loc)

	bids := []model.Bid{
		bid(h8, model.SideBuy, 60, 100),
		bid(h8, model.SideSell, 50, 50),
		bid(h9, model.SideBuy, 40, 75),
	}
	da := []model.PricePoint{daPoint(h8, 55), daPoint(h9, 35)}
	rt := []model.HourlyAverage{rtAvg(h8, 60), rtAvg(h9, 40)}

	engine := New()
	clears := engine.Clear(bids, da, rt)
	require.Len(t, clears, 2)

	// Hour 8: BUY@60 clears against 55 (+100); SELL@50 does not (50 < 55).
	assert.True(t, clears[0].HourStart.Equal(h8))
	assert.InDelta(t, 50.0, clears[0].ClearedQty, 1e-9)
	assert.InDelta(t, 250.0, clears[0].PnL, 1e-9)

	// Hour 9: BUY@40 clears against 35 (+75); pnl = 75 * (40-35).
	assert.True(t, clears[1].HourStart.Equal(h9))
	assert.InDelta(t, 75.0, clears[1].ClearedQty, 1e-9)
	assert.InDelta(t, 375.0, clears[1].PnL, 1e-9)

	summary := engine.Summarize(clears)
	assert.InDelta(t, 625.0, summary.TotalPnL, 1e-9)
	assert.InDelta(t, 125.0, summary.LongVolume, 1e-9)
	assert.InDelta(t, 0.0, summary.ShortVolume, 1e-9)
	assert.Equal(t, 2, summary.HoursWithPosition)
	assert.Equal(t, 2, summary.HoursWithPnL)
	assert.InDelta(t, 312.5, summary.AvgPnLPerActiveHour, 1e-9)
}

func TestClearTieBreakIsInclusive(t *testing.T) {
	t.Parallel()
	loc := chicago(t)
	h := time.Date(2025, 7, 15, 8, 0, 0, 0, loc)

	tests := []struct {
		name    string
		side    model.Side
		price   float64
		wantQty float64
	}{
		{"buy at exactly DA clears", model.SideBuy, 55, 10},
		{"buy below DA does not clear", model.SideBuy, 54.99, 0},
		{"sell at exactly DA clears", model.SideSell, 55, -10},
		{"sell above DA does not clear", model.SideSell, 55.01, 0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			clears := New().Clear(
				[]model.Bid{bid(h, tt.side, tt.price, 10)},
				[]model.PricePoint{daPoint(h, 55)},
				nil,
			)
			require.Len(t, clears, 1)
			assert.InDelta(t, tt.wantQty, clears[0].ClearedQty, 1e-9)
		})
	}
}

func TestClearEmptyBidsWithDAPrices(t *testing.T) {
	t.Parallel()
	loc := chicago(t)
	h8 := time.Date(2025, 7, 15, 8, 0, 0, 0, loc)
	h9 := time.Date(2025, 7, 15, 9, 0, 0, 0, loc)

	clears := New().Clear(nil, []model.PricePoint{daPoint(h8, 55), daPoint(h9, 35)}, nil)
	require.Len(t, clears, 2)
	for _, c := range clears {
		require.NotNil(t, c.DAPrice)
		assert.Nil(t, c.AvgRTPrice)
		assert.Zero(t, c.ClearedQty)
		assert.Zero(t, c.PnL)
	}
}

func TestClearNoDAPriceMeansNothingClears(t *testing.T) {
	t.Parallel()
	loc := chicago(t)
	h := time.Date(2025, 7, 15, 8, 0, 0, 0, loc)

	// Aggressive bid, RT data present, but no DA quote for the hour.
	clears := New().Clear(
		[]model.Bid{bid(h, model.SideBuy, 9999, 100)},
		nil,
		[]model.HourlyAverage{rtAvg(h, 60)},
	)
	require.Len(t, clears, 1)
	assert.Nil(t, clears[0].DAPrice)
	require.NotNil(t, clears[0].AvgRTPrice)
	assert.Zero(t, clears[0].ClearedQty)
	assert.Zero(t, clears[0].PnL)
}

func TestClearEmptyPriceDataWithBids(t *testing.T) {
	t.Parallel()
	loc := chicago(t)
	h8 := time.Date(2025, 7, 15, 8, 0, 0, 0, loc)
	h9 := time.Date(2025, 7, 15, 9, 0, 0, 0, loc)

	clears := New().Clear(
		[]model.Bid{bid(h8, model.SideBuy, 60, 100), bid(h9, model.SideSell, 50, 25)},
		nil,
		nil,
	)
	require.Len(t, clears, 2)
	for _, c := range clears {
		assert.Nil(t, c.DAPrice)
		assert.Nil(t, c.AvgRTPrice)
		assert.Zero(t, c.ClearedQty)
		assert.Zero(t, c.PnL)
	}
}

func TestClearRTOnlyHourIsExcluded(t *testing.T) {
	t.Parallel()
	loc := chicago(t)
	h8 := time.Date(2025, 7, 15, 8, 0, 0, 0, loc)
	h9 := time.Date(2025, 7, 15, 9, 0, 0, 0, loc)

	clears := New().Clear(
		nil,
		[]model.PricePoint{daPoint(h8, 55)},
		[]model.HourlyAverage{rtAvg(h8, 60), rtAvg(h9, 40)},
	)
	// Hour 9 has RT data only: no clearing decision can come out of it.
	require.Len(t, clears, 1)
	assert.True(t, clears[0].HourStart.Equal(h8))
}

func TestClearDuplicateDALastValueWins(t *testing.T) {
	t.Parallel()
	loc := chicago(t)
	h := time.Date(2025, 7, 15, 8, 0, 0, 0, loc)

	clears := New().Clear(
		[]model.Bid{bid(h, model.SideBuy, 50, 10)},
		[]model.PricePoint{daPoint(h, 60), daPoint(h, 45)},
		nil,
	)
	require.Len(t, clears, 1)
	require.NotNil(t, clears[0].DAPrice)
	assert.InDelta(t, 45.0, *clears[0].DAPrice, 1e-9)
	// Against the corrected price the bid clears.
	assert.InDelta(t, 10.0, clears[0].ClearedQty, 1e-9)
}

func TestClearNetsLongAndShortInOneHour(t *testing.T) {
	t.Parallel()
	loc := chicago(t)
	h := time.Date(2025, 7, 15, 8, 0, 0, 0, loc)

	clears := New().Clear(
		[]model.Bid{
			bid(h, model.SideBuy, 100, 30),
			bid(h, model.SideSell, 10, 30),
		},
		[]model.PricePoint{daPoint(h, 50)},
		[]model.HourlyAverage{rtAvg(h, 70)},
	)
	require.Len(t, clears, 1)
	// Both clear and net to flat; a flat hour earns no P&L.
	assert.Zero(t, clears[0].ClearedQty)
	assert.Zero(t, clears[0].PnL)

	summary := New().Summarize(clears)
	assert.Equal(t, 0, summary.HoursWithPosition)
}

func TestClearNegativePrices(t *testing.T) {
	t.Parallel()
	loc := chicago(t)
	h := time.Date(2025, 7, 15, 3, 0, 0, 0, loc)

	// Negative DA: a SELL at -10 clears against -5 (-10 <= -5).
	clears := New().Clear(
		[]model.Bid{bid(h, model.SideSell, -10, 20)},
		[]model.PricePoint{daPoint(h, -5)},
		[]model.HourlyAverage{rtAvg(h, -15)},
	)
	require.Len(t, clears, 1)
	assert.InDelta(t, -20.0, clears[0].ClearedQty, 1e-9)
	// pnl = -20 * (-15 - (-5)) = +200: short into a falling RT price.
	assert.InDelta(t, 200.0, clears[0].PnL, 1e-9)
}

func TestClearIdempotent(t *testing.T) {
	t.Parallel()
	loc := chicago(t)
	h8 := time.Date(2025, 7, 15, 8, 0, 0, 0, loc)
	h9 := time.Date(2025, 7, 15, 9, 0, 0, 0, loc)

	bids := []model.Bid{
		bid(h8, model.SideBuy, 60, 100),
		bid(h9, model.SideSell, 30, 40),
	}
	da := []model.PricePoint{daPoint(h8, 55), daPoint(h9, 35)}
	rt := []model.HourlyAverage{rtAvg(h8, 60), rtAvg(h9, 40)}

	engine := New()
	first := engine.Clear(bids, da, rt)
	second := engine.Clear(bids, da, rt)
	assert.Equal(t, first, second)
}

func TestClearAllEmpty(t *testing.T) {
	t.Parallel()
	clears := New().Clear(nil, nil, nil)
	assert.Empty(t, clears)
}

func TestSummarize(t *testing.T) {
	t.Parallel()
	loc := chicago(t)
	h := func(hr int) time.Time { return time.Date(2025, 7, 15, hr, 0, 0, 0, loc) }
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name   string
		clears []model.HourlyClear
		want   model.ClearingSummary
	}{
		{
			name:   "empty clears yield zero summary",
			clears: nil,
			want:   model.ClearingSummary{},
		},
		{
			name: "mixed long and short hours",
			clears: []model.HourlyClear{
				{HourStart: h(8), DAPrice: f(55), AvgRTPrice: f(60), ClearedQty: 50, PnL: 250},
				{HourStart: h(9), DAPrice: f(35), AvgRTPrice: f(30), ClearedQty: -40, PnL: 200},
				{HourStart: h(10), DAPrice: f(20), ClearedQty: 10, PnL: 0},
				{HourStart: h(11)},
			},
			want: model.ClearingSummary{
				TotalPnL:            450,
				TotalVolume:         100,
				LongVolume:          60,
				ShortVolume:         40,
				HoursWithPosition:   3,
				HoursWithPnL:        2,
				AvgPnLPerActiveHour: 225,
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := New().Summarize(tt.clears)
			assert.InDelta(t, tt.want.TotalPnL, got.TotalPnL, 1e-9)
			assert.InDelta(t, tt.want.TotalVolume, got.TotalVolume, 1e-9)
			assert.InDelta(t, tt.want.LongVolume, got.LongVolume, 1e-9)
			assert.InDelta(t, tt.want.ShortVolume, got.ShortVolume, 1e-9)
			assert.Equal(t, tt.want.HoursWithPosition, got.HoursWithPosition)
			assert.Equal(t, tt.want.HoursWithPnL, got.HoursWithPnL)
			assert.InDelta(t, tt.want.AvgPnLPerActiveHour, got.AvgPnLPerActiveHour, 1e-9)
		})
	}
}

// Summary totals always reconcile with the per-hour rows they reduce.
func TestSummarizeReconcilesWithClears(t *testing.T) {
	t.Parallel()
	loc := chicago(t)
	h8 := time.Date(2025, 7, 15, 8, 0, 0, 0, loc)
	h9 := time.Date(2025, 7, 15, 9, 0, 0, 0, loc)
	h10 := time.Date(2025, 7, 15, 10, 0, 0, 0, loc)

	engine := New()
	clears := engine.Clear(
		[]model.Bid{
			bid(h8, model.SideBuy, 70, 100),
			bid(h9, model.SideSell, 20, 60),
			bid(h10, model.SideBuy, 10, 5),
		},
		[]model.PricePoint{daPoint(h8, 55), daPoint(h9, 35), daPoint(h10, 90)},
		[]model.HourlyAverage{rtAvg(h8, 61.5), rtAvg(h9, 28.25), rtAvg(h10, 95)},
	)

	var totalPnL, long, short float64
	for _, c := range clears {
		totalPnL += c.PnL
		if c.ClearedQty > 0 {
			long += c.ClearedQty
		} else {
			short += -c.ClearedQty
		}
	}

	summary := engine.Summarize(clears)
	assert.InDelta(t, totalPnL, summary.TotalPnL, 1e-9)
	assert.InDelta(t, long, summary.LongVolume, 1e-9)
	assert.InDelta(t, short, summary.ShortVolume, 1e-9)
	assert.InDelta(t, long+short, summary.TotalVolume, 1e-9)
}

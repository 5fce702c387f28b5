package market

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

func sample(t time.Time, price float64) model.PricePoint {
	return model.PricePoint{Timestamp: t, SettlementPoint: "HB_NORTH", Price: price}
}

func TestAverageToHourly(t *testing.T) {
	t.Parallel()
	loc := chicago(t)
	h8 := time.Date(2025, 7, 15, 8, 0, 0, 0, loc)
	h9 := time.Date(2025, 7, 15, 9, 0, 0, 0, loc)

	tests := []struct {
		name    string
		samples []model.PricePoint
		want    []model.HourlyAverage
	}{
		{
			name:    "empty input yields empty output",
			samples: nil,
			want:    []model.HourlyAverage{},
		},
		{
			name: "three samples average exactly",
			samples: []model.PricePoint{
				sample(h8.Add(5*time.Minute), 50),
				sample(h8.Add(10*time.Minute), 60),
				sample(h8.Add(15*time.Minute), 70),
			},
			want: []model.HourlyAverage{
				{HourStart: h8, SettlementPoint: "HB_NORTH", AvgPrice: 60.0},
			},
		},
		{
			name: "samples split across hours, sorted ascending",
			samples: []model.PricePoint{
				sample(h9.Add(30*time.Minute), 40),
				sample(h8, 20),
				sample(h9, 44),
				sample(h8.Add(55*time.Minute), 30),
			},
			want: []model.HourlyAverage{
				{HourStart: h8, SettlementPoint: "HB_NORTH", AvgPrice: 25.0},
				{HourStart: h9, SettlementPoint: "HB_NORTH", AvgPrice: 42.0},
			},
		},
		{
			name: "negative prices average like any other",
			samples: []model.PricePoint{
				sample(h8, -10),
				sample(h8.Add(5*time.Minute), -20),
			},
			want: []model.HourlyAverage{
				{HourStart: h8, SettlementPoint: "HB_NORTH", AvgPrice: -15.0},
			},
		},
		{
			name: "irregular sample counts are unweighted",
			samples: []model.PricePoint{
				sample(h8, 100),
				sample(h9, 10),
				sample(h9.Add(5*time.Minute), 20),
				sample(h9.Add(10*time.Minute), 30),
				sample(h9.Add(20*time.Minute), 40),
			},
			want: []model.HourlyAverage{
				{HourStart: h8, SettlementPoint: "HB_NORTH", AvgPrice: 100.0},
				{HourStart: h9, SettlementPoint: "HB_NORTH", AvgPrice: 25.0},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := AverageToHourly(tt.samples)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.True(t, got[i].HourStart.Equal(tt.want[i].HourStart),
					"hour %d: got %v want %v", i, got[i].HourStart, tt.want[i].HourStart)
				assert.Equal(t, tt.want[i].SettlementPoint, got[i].SettlementPoint)
				assert.InDelta(t, tt.want[i].AvgPrice, got[i].AvgPrice, 1e-9)
			}
		})
	}
}

func TestAverageToHourlyOrderInvariant(t *testing.T) {
	t.Parallel()
	loc := chicago(t)
	base := time.Date(2025, 7, 15, 0, 0, 0, 0, loc)

	var forward []model.PricePoint
	for i := 0; i < 24*12; i++ {
		forward = append(forward, sample(base.Add(time.Duration(i)*5*time.Minute), float64(i%17)-3))
	}
	reversed := make([]model.PricePoint, len(forward))
	for i, s := range forward {
		reversed[len(forward)-1-i] = s
	}

	assert.Equal(t, AverageToHourly(forward), AverageToHourly(reversed))
}

func TestAverageToHourlyFallBackDay(t *testing.T) {
	t.Parallel()
	loc := chicago(t)

	// 2025-11-02: CDT ends at 02:00, the 1 AM wall-clock hour occurs twice,
	// and the trading day spans 25 absolute hours.
	start := time.Date(2025, 11, 2, 0, 0, 0, 0, loc)
	var samples []model.PricePoint
	for i := 0; i < 25; i++ {
		hs := start.Add(time.Duration(i) * time.Hour)
		samples = append(samples, sample(hs.Add(5*time.Minute), float64(i)))
	}

	got := AverageToHourly(samples)
	require.Len(t, got, 25)

	// The repeated wall-clock hour shows up as two distinct buckets.
	ones := 0
	for _, a := range got {
		if a.HourStart.Hour() == 1 {
			ones++
		}
	}
	assert.Equal(t, 2, ones)

	// Strictly increasing in absolute time.
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].HourStart.Before(got[i].HourStart))
	}
}

func TestHourStart(t *testing.T) {
	t.Parallel()
	loc := chicago(t)

	ts := time.Date(2025, 7, 15, 8, 42, 17, 500, loc)
	got := HourStart(ts)
	assert.True(t, got.Equal(time.Date(2025, 7, 15, 8, 0, 0, 0, loc)))

	// Already aligned input is unchanged.
	aligned := time.Date(2025, 7, 15, 8, 0, 0, 0, loc)
	assert.True(t, HourStart(aligned).Equal(aligned))
}

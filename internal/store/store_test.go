package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtual-energy-trader/internal/model"
)

func openTestStore(t *testing.T) (*BidStore, *time.Location) {
	t.Helper()
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	s, err := Open(filepath.Join(t.TempDir(), "bids.db"), loc)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, loc
}

func TestAddAndListByDate(t *testing.T) {
	t.Parallel()
	s, loc := openTestStore(t)
	h8 := time.Date(2025, 7, 15, 8, 0, 0, 0, loc)
	h9 := time.Date(2025, 7, 15, 9, 0, 0, 0, loc)
	otherDay := time.Date(2025, 7, 16, 8, 0, 0, 0, loc)

	b1, err := s.Add(model.Bid{HourStart: h9, Side: model.SideSell, Price: 50, Quantity: 25})
	require.NoError(t, err)
	require.NotEmpty(t, b1.ID)

	b2, err := s.Add(model.Bid{HourStart: h8, Side: model.SideBuy, Price: 60, Quantity: 100})
	require.NoError(t, err)
	assert.NotEqual(t, b1.ID, b2.ID)

	_, err = s.Add(model.Bid{HourStart: otherDay, Side: model.SideBuy, Price: 40, Quantity: 10})
	require.NoError(t, err)

	bids, err := s.ListByDate(time.Date(2025, 7, 15, 0, 0, 0, 0, loc))
	require.NoError(t, err)
	require.Len(t, bids, 2)

	// Ordered by hour start.
	assert.True(t, bids[0].HourStart.Equal(h8))
	assert.Equal(t, model.SideBuy, bids[0].Side)
	assert.True(t, bids[1].HourStart.Equal(h9))
	assert.Equal(t, model.SideSell, bids[1].Side)
	assert.InDelta(t, 25.0, bids[1].Quantity, 1e-9)
}

func TestAddValidation(t *testing.T) {
	t.Parallel()
	s, loc := openTestStore(t)
	h := time.Date(2025, 7, 15, 8, 0, 0, 0, loc)

	tests := []struct {
		name    string
		bid     model.Bid
		wantErr error
	}{
		{"bad side", model.Bid{HourStart: h, Side: "HOLD", Price: 50, Quantity: 10}, ErrInvalidSide},
		{"zero price", model.Bid{HourStart: h, Side: model.SideBuy, Price: 0, Quantity: 10}, ErrNonPositivePrice},
		{"negative price", model.Bid{HourStart: h, Side: model.SideBuy, Price: -5, Quantity: 10}, ErrNonPositivePrice},
		{"zero quantity", model.Bid{HourStart: h, Side: model.SideSell, Price: 50, Quantity: 0}, ErrNonPositiveQuantity},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Add(tt.bid)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAddEnforcesHourCap(t *testing.T) {
	t.Parallel()
	s, loc := openTestStore(t)
	h := time.Date(2025, 7, 15, 8, 0, 0, 0, loc)

	for i := 0; i < MaxBidsPerHour; i++ {
		_, err := s.Add(model.Bid{HourStart: h, Side: model.SideBuy, Price: float64(40 + i), Quantity: 10})
		require.NoError(t, err)
	}

	_, err := s.Add(model.Bid{HourStart: h, Side: model.SideBuy, Price: 99, Quantity: 10})
	assert.ErrorIs(t, err, ErrHourFull)

	// The cap is per hour, not per day.
	_, err = s.Add(model.Bid{HourStart: h.Add(time.Hour), Side: model.SideBuy, Price: 99, Quantity: 10})
	assert.NoError(t, err)
}

func TestAddTruncatesHourStart(t *testing.T) {
	t.Parallel()
	s, loc := openTestStore(t)

	b, err := s.Add(model.Bid{
		HourStart: time.Date(2025, 7, 15, 8, 42, 30, 0, loc),
		Side:      model.SideBuy,
		Price:     60,
		Quantity:  10,
	})
	require.NoError(t, err)
	assert.True(t, b.HourStart.Equal(time.Date(2025, 7, 15, 8, 0, 0, 0, loc)))
}

func TestDelete(t *testing.T) {
	t.Parallel()
	s, loc := openTestStore(t)
	h := time.Date(2025, 7, 15, 8, 0, 0, 0, loc)

	b, err := s.Add(model.Bid{HourStart: h, Side: model.SideBuy, Price: 60, Quantity: 10})
	require.NoError(t, err)

	require.NoError(t, s.Delete(b.ID))

	bids, err := s.ListByDate(h)
	require.NoError(t, err)
	assert.Empty(t, bids)

	assert.ErrorIs(t, s.Delete(b.ID), ErrNotFound)
	assert.ErrorIs(t, s.Delete("no-such-id"), ErrNotFound)
}

// Package store persists the bid set. It is the order-entry collaborator of
// the clearing pipeline: bid validation (price/quantity positivity, side,
// per-hour cap) happens here at creation time, never inside the engine.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"virtual-energy-trader/internal/id"
	"virtual-energy-trader/internal/market"
	"virtual-energy-trader/internal/model"
)

// MaxBidsPerHour caps how many bids may exist for a single delivery hour.
const MaxBidsPerHour = 10

var (
	ErrInvalidSide         = errors.New("side must be BUY or SELL")
	ErrNonPositivePrice    = errors.New("price must be > 0")
	ErrNonPositiveQuantity = errors.New("quantity must be > 0")
	ErrHourFull            = fmt.Errorf("hour already has %d bids", MaxBidsPerHour)
	ErrNotFound            = errors.New("bid not found")
)

// BidStore is a SQLite-backed bid set. Hour starts are stored as Unix
// seconds and rehydrated into the market timezone on read.
type BidStore struct {
	db  *sql.DB
	loc *time.Location
}

// Open opens (or creates) the bid database at path.
func Open(path string, loc *time.Location) (*BidStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // single writer; WAL allows concurrent readers
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &BidStore{db: db, loc: loc}, nil
}

func (s *BidStore) Close() error {
	return s.db.Close()
}

// Add validates and inserts a bid, assigning it a fresh ID. The insert and
// the per-hour count run in one transaction so the cap holds under
// concurrent writers.
func (s *BidStore) Add(b model.Bid) (model.Bid, error) {
	if !b.Side.Valid() {
		return model.Bid{}, ErrInvalidSide
	}
	if b.Price <= 0 {
		return model.Bid{}, ErrNonPositivePrice
	}
	if b.Quantity <= 0 {
		return model.Bid{}, ErrNonPositiveQuantity
	}

	b.HourStart = market.HourStart(b.HourStart)
	b.ID = id.New()

	tx, err := s.db.Begin()
	if err != nil {
		return model.Bid{}, err
	}
	defer tx.Rollback()

	var count int
	err = tx.QueryRow(`SELECT COUNT(*) FROM bids WHERE hour_start = ?`, b.HourStart.Unix()).Scan(&count)
	if err != nil {
		return model.Bid{}, err
	}
	if count >= MaxBidsPerHour {
		return model.Bid{}, ErrHourFull
	}

	_, err = tx.Exec(`
		INSERT INTO bids (id, hour_start, side, price, quantity, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		b.ID, b.HourStart.Unix(), string(b.Side), b.Price, b.Quantity, time.Now().Unix(),
	)
	if err != nil {
		return model.Bid{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Bid{}, err
	}
	return b, nil
}

// ListByDate returns the bids whose delivery hour falls on the given
// market-local calendar date, ordered by hour start then ID.
func (s *BidStore) ListByDate(tradingDate time.Time) ([]model.Bid, error) {
	y, m, d := tradingDate.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, s.loc)
	to := from.AddDate(0, 0, 1)

	rows, err := s.db.Query(`
		SELECT id, hour_start, side, price, quantity
		FROM bids
		WHERE hour_start >= ? AND hour_start < ?
		ORDER BY hour_start, id`,
		from.Unix(), to.Unix(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bids []model.Bid
	for rows.Next() {
		var b model.Bid
		var hourStart int64
		var side string
		if err := rows.Scan(&b.ID, &hourStart, &side, &b.Price, &b.Quantity); err != nil {
			return nil, err
		}
		b.HourStart = time.Unix(hourStart, 0).In(s.loc)
		b.Side = model.Side(side)
		bids = append(bids, b)
	}
	return bids, rows.Err()
}

// Delete removes a bid by ID.
func (s *BidStore) Delete(bidID string) error {
	res, err := s.db.Exec(`DELETE FROM bids WHERE id = ?`, bidID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

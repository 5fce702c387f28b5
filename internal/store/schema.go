package store

// Schema is applied on open; statements are idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS bids (
	id         TEXT PRIMARY KEY,
	hour_start INTEGER NOT NULL,
	side       TEXT    NOT NULL,
	price      REAL    NOT NULL,
	quantity   REAL    NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_bids_hour_start ON bids(hour_start);
`

// Package store provides the instrument-metadata cache backing the chain
// adapters. The cache is time-boxed and injected into callers; there is no
// global mutable state.
package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"mcx-signals/internal/models"
)

// InstrumentStore caches instrument metadata in SQLite with a TTL refresh
// policy. The clock is injected so staleness is testable with a fake.
type InstrumentStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
	mu  sync.RWMutex
}

// NewInstrumentStore opens the cache at dbPath. A nil now falls back to
// time.Now.
func NewInstrumentStore(dbPath string, ttl time.Duration, now func() time.Time) (*InstrumentStore, error) {
	if now == nil {
		now = time.Now
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	s := &InstrumentStore{db: db, ttl: ttl, now: now}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *InstrumentStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS instruments (
		symbol TEXT NOT NULL,
		exchange TEXT NOT NULL,
		instrument_id TEXT NOT NULL,
		name TEXT,
		segment TEXT,
		instrument_type TEXT,
		expiry DATETIME,
		strike REAL,
		lot_size INTEGER NOT NULL,
		tick_size REAL NOT NULL,
		fetched_at DATETIME NOT NULL,
		PRIMARY KEY (symbol, exchange, instrument_id)
	);

	CREATE INDEX IF NOT EXISTS idx_instruments_symbol
		ON instruments(symbol, exchange);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Put replaces the cached instruments for one symbol/exchange and stamps the
// fetch time.
func (s *InstrumentStore) Put(symbol, exchange string, instruments []models.Instrument) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM instruments WHERE symbol = ? AND exchange = ?`, symbol, exchange); err != nil {
		return fmt.Errorf("failed to clear stale instruments: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO instruments
			(symbol, exchange, instrument_id, name, segment, instrument_type,
			 expiry, strike, lot_size, tick_size, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	fetchedAt := s.now().UTC()
	for _, inst := range instruments {
		_, err := stmt.Exec(symbol, exchange, inst.InstrumentID, inst.Name,
			inst.Segment, inst.InstrType, inst.Expiry, inst.Strike,
			inst.LotSize, inst.TickSize, fetchedAt)
		if err != nil {
			return fmt.Errorf("failed to insert instrument %s: %w", inst.InstrumentID, err)
		}
	}

	return tx.Commit()
}

// Get returns the cached instruments for a symbol/exchange, or ok=false when
// the cache is empty or past its TTL. Expired rows stay on disk until the
// next Put; the caller decides when to refresh.
func (s *InstrumentStore) Get(symbol, exchange string) ([]models.Instrument, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT instrument_id, name, segment, instrument_type, expiry, strike,
		       lot_size, tick_size, fetched_at
		FROM instruments
		WHERE symbol = ? AND exchange = ?
		ORDER BY expiry, strike`, symbol, exchange)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query instruments: %w", err)
	}
	defer rows.Close()

	var instruments []models.Instrument
	var fetchedAt time.Time

	for rows.Next() {
		var inst models.Instrument
		var expiry sql.NullTime
		if err := rows.Scan(&inst.InstrumentID, &inst.Name, &inst.Segment,
			&inst.InstrType, &expiry, &inst.Strike,
			&inst.LotSize, &inst.TickSize, &fetchedAt); err != nil {
			return nil, false, fmt.Errorf("failed to scan instrument: %w", err)
		}
		if expiry.Valid {
			inst.Expiry = expiry.Time
		}
		inst.Symbol = symbol
		inst.Exchange = models.Exchange(exchange)
		instruments = append(instruments, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}

	if len(instruments) == 0 {
		return nil, false, nil
	}
	if s.now().UTC().Sub(fetchedAt) > s.ttl {
		return instruments, false, nil
	}

	return instruments, true, nil
}

// Refresh returns the cached instruments when still within the TTL, otherwise
// invokes load and stores its result. When load fails and stale rows exist on
// disk the stale rows are returned instead of the error, so a flaky source
// never empties a cache that still has usable data.
func (s *InstrumentStore) Refresh(symbol, exchange string, load func() ([]models.Instrument, error)) ([]models.Instrument, error) {
	cached, fresh, err := s.Get(symbol, exchange)
	if err != nil {
		return nil, err
	}
	if fresh {
		return cached, nil
	}

	loaded, err := load()
	if err != nil {
		if len(cached) > 0 {
			return cached, nil
		}
		return nil, fmt.Errorf("failed to load instruments: %w", err)
	}

	if err := s.Put(symbol, exchange, loaded); err != nil {
		return nil, err
	}
	return loaded, nil
}

// Close closes the underlying database.
func (s *InstrumentStore) Close() error {
	return s.db.Close()
}

package storage

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists snapshots to SQLite, suitable for
// single-process runs whose snapshots exceed memory or must survive a
// crash.
type SQLiteStore struct {
	db     *sql.DB
	slots  int
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore creates a SQLite store with capacity slots.
// The path should be a file path (e.g. "./snapshots.db") or ":memory:"
// for testing.
func NewSQLiteStore(path string, slots int) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			slot INTEGER PRIMARY KEY,
			step INTEGER NOT NULL,
			timestamp TEXT NOT NULL,
			data BLOB NOT NULL,
			writes INTEGER NOT NULL DEFAULT 0,
			reads INTEGER NOT NULL DEFAULT 0
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteStore{db: db, slots: slots}, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(slot, step int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	if slot < 0 || slot >= s.slots {
		return ErrSlotRange
	}

	_, err := s.db.Exec(`
		INSERT INTO snapshots (slot, step, timestamp, data, writes, reads)
		VALUES (?, ?, ?, ?, 1, 0)
		ON CONFLICT(slot) DO UPDATE SET
			step = excluded.step,
			timestamp = excluded.timestamp,
			data = excluded.data,
			writes = writes + 1
	`, slot, step, time.Now().UTC().Format(time.RFC3339Nano), data)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load implements Store.
func (s *SQLiteStore) Load(slot int) ([]byte, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, 0, ErrStoreClosed
	}
	if slot < 0 || slot >= s.slots {
		return nil, 0, ErrSlotRange
	}

	var data []byte
	var step int
	err := s.db.QueryRow(`
		SELECT data, step FROM snapshots WHERE slot = ?
	`, slot).Scan(&data, &step)
	if err == sql.ErrNoRows {
		return nil, 0, ErrNotFound
	}
	if err != nil {
		return nil, 0, fmt.Errorf("load snapshot: %w", err)
	}
	if _, err := s.db.Exec(`UPDATE snapshots SET reads = reads + 1 WHERE slot = ?`, slot); err != nil {
		return nil, 0, fmt.Errorf("count snapshot read: %w", err)
	}
	return data, step, nil
}

// List implements Store.
func (s *SQLiteStore) List() ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT slot, step, timestamp, LENGTH(data), writes, reads
		FROM snapshots
		ORDER BY slot
	`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var infos []Info
	for rows.Next() {
		var info Info
		var timestamp string
		if err := rows.Scan(&info.Slot, &info.Step, &timestamp, &info.Size, &info.Writes, &info.Reads); err != nil {
			return nil, fmt.Errorf("scan snapshot info: %w", err)
		}
		info.Timestamp, _ = time.Parse(time.RFC3339Nano, timestamp)
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return infos, nil
}

// Slots implements Store.
func (s *SQLiteStore) Slots() int { return s.slots }

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

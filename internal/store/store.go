// Package store provides SQLite persistence for the MasterHand snap-event
// log. Only observability data lives here; classifier state is never
// persisted and always boots zeroed.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite connection for the event log.
type Store struct {
	db   *sql.DB
	path string
}

// New opens (creating if needed) the event-log database at dbPath,
// enables foreign keys, and runs migrations.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// runMigrations creates the event-log schema.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per daemon run
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			snap_policy TEXT NOT NULL,
			started_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Snap events table - one row per fired snap
		`CREATE TABLE IF NOT EXISTS snap_events (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			hand TEXT NOT NULL CHECK(hand IN ('Left', 'Right')),
			policy TEXT NOT NULL,
			velocity REAL NOT NULL DEFAULT 0,
			fired_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_snap_events_session_id ON snap_events(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_snap_events_fired_at ON snap_events(fired_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}
	return nil
}

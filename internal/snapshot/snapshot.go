// Package snapshot provides the SQLite last-known-good cache of raw source
// payloads. It is the final fallback location for each tabular source: when
// every configured location fails, the engine can still serve the data it
// fetched last time. It holds upstream payloads only, never user state.
package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	_ "modernc.org/sqlite"
)

// TimeFormat is the fixed-width RFC3339 format used for fetch timestamps.
// Fixed width keeps lexicographic ordering aligned with chronological order.
const TimeFormat = "2006-01-02T15:04:05.000000000Z"

// ErrNotFound marks a source with no cached payload.
var ErrNotFound = errors.New("snapshot: not found")

// Store wraps a SQLite database connection.
type Store struct {
	db *sql.DB
}

// Open opens the snapshot database with WAL mode and busy_timeout.
// The path should be an absolute path to the database file.
func Open(path string) (*Store, error) {
	// URL-escape the path to handle special characters (?, #, spaces, etc.)
	escapedPath := url.PathEscape(path)

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", escapedPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// One writer at a time is plenty; reads happen only during load.
	db.SetMaxOpenConns(2)

	store := &Store{db: db}

	if err := store.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS snapshots (
		source     TEXT PRIMARY KEY,
		payload    BLOB NOT NULL,
		fetched_at TEXT NOT NULL
	);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create snapshots table: %w", err)
	}
	return nil
}

// Save upserts the raw payload for a named source.
func (s *Store) Save(ctx context.Context, source string, payload []byte, fetchedAt time.Time) error {
	const query = `
	INSERT INTO snapshots (source, payload, fetched_at)
	VALUES (?, ?, ?)
	ON CONFLICT(source) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at
	`
	if _, err := s.db.ExecContext(ctx, query, source, payload, fetchedAt.UTC().Format(TimeFormat)); err != nil {
		return fmt.Errorf("save snapshot %q: %w", source, err)
	}
	return nil
}

// Load returns the cached payload and fetch time for a named source.
// Returns ErrNotFound when the source was never cached.
func (s *Store) Load(ctx context.Context, source string) ([]byte, time.Time, error) {
	const query = `SELECT payload, fetched_at FROM snapshots WHERE source = ?`

	var (
		payload []byte
		fetched string
	)
	err := s.db.QueryRowContext(ctx, query, source).Scan(&payload, &fetched)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, ErrNotFound
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load snapshot %q: %w", source, err)
	}

	t, err := time.Parse(TimeFormat, fetched)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("parse fetched_at %q: %w", fetched, err)
	}

	return payload, t, nil
}

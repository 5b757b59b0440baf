// Package reportcache stores backend posture reports in SQLite so repeat
// lookups within the TTL skip the backend round trip.
package reportcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/mailposture/internal/backend"
)

// Store is a TTL cache keyed by normalized domain.
type Store struct {
	db  *sql.DB
	ttl time.Duration
	mu  sync.RWMutex
	now func() time.Time
}

// New opens (or creates) the cache database. Use ":memory:" for an
// in-memory cache, or a file path for persistence across restarts.
func New(dbPath string, ttl time.Duration) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db, ttl: ttl, now: time.Now}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reports (
		domain TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		fetched_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_fetched_at ON reports(fetched_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Get returns the cached report for domain, or ok=false when absent or stale.
// Stale rows are left in place for Prune to collect.
func (s *Store) Get(ctx context.Context, domain string) (*backend.Report, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload []byte
	var fetchedAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT payload, fetched_at FROM reports WHERE domain = ?", domain,
	).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query report: %w", err)
	}

	if s.now().Unix()-fetchedAt > int64(s.ttl.Seconds()) {
		return nil, false, nil
	}

	var report backend.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, false, fmt.Errorf("decode cached report: %w", err)
	}
	return &report, true, nil
}

// Put stores or replaces the report for domain.
func (s *Store) Put(ctx context.Context, domain string, report *backend.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO reports (domain, payload, fetched_at) VALUES (?, ?, ?) "+
			"ON CONFLICT(domain) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at",
		domain, payload, s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// Prune deletes rows older than the TTL and returns how many went away.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Unix() - int64(s.ttl.Seconds())
	res, err := s.db.ExecContext(ctx, "DELETE FROM reports WHERE fetched_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune reports: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune rows affected: %w", err)
	}
	return n, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

package reportcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mailposture/internal/backend"
)

func newTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	s, err := New(":memory:", ttl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_PutGetRoundTrip(t *testing.T) {
	s := newTestStore(t, time.Hour)
	ctx := context.Background()

	report := &backend.Report{
		Domain: "example.com",
		DMARC:  backend.Section{Valid: true, Record: "v=DMARC1; p=none", Description: "See RFC 7489."},
	}
	require.NoError(t, s.Put(ctx, "example.com", report))

	got, ok, err := s.Get(ctx, "example.com")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, report, got)
}

func TestStore_MissOnUnknownDomain(t *testing.T) {
	s := newTestStore(t, time.Hour)
	_, ok, err := s.Get(context.Background(), "unknown.example")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStore_PutReplacesExisting(t *testing.T) {
	s := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "example.com", &backend.Report{Domain: "example.com"}))
	updated := &backend.Report{Domain: "example.com", SPF: backend.Section{Valid: true}}
	require.NoError(t, s.Put(ctx, "example.com", updated))

	got, ok, err := s.Get(ctx, "example.com")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, got.SPF.Valid)
}

func TestStore_StaleEntriesMiss(t *testing.T) {
	s := newTestStore(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "example.com", &backend.Report{Domain: "example.com"}))

	// Move the clock past the TTL.
	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, ok, err := s.Get(ctx, "example.com")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStore_PruneRemovesOnlyStaleRows(t *testing.T) {
	s := newTestStore(t, time.Hour)
	ctx := context.Background()

	base := time.Now()
	s.now = func() time.Time { return base.Add(-2 * time.Hour) }
	require.NoError(t, s.Put(ctx, "old.example", &backend.Report{Domain: "old.example"}))

	s.now = func() time.Time { return base }
	require.NoError(t, s.Put(ctx, "fresh.example", &backend.Report{Domain: "fresh.example"}))

	n, err := s.Prune(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	_, ok, err := s.Get(ctx, "fresh.example")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestPruner_StartStop(t *testing.T) {
	s := newTestStore(t, time.Hour)
	p, err := NewPruner(s, time.Minute)
	require.NoError(t, err)
	p.Start()
	require.NoError(t, p.Stop())
}

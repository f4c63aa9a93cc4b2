package social

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DeBrosOfficial/social/pkg/config"
	"github.com/DeBrosOfficial/social/pkg/database"
)

const (
	alice = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	bob   = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	carol = "0xcccccccccccccccccccccccccccccccccccccccc"
)

// tickClock advances one millisecond per call so ordering by created_at is
// deterministic.
type tickClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTickClock() *tickClock {
	return &tickClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *tickClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Millisecond)
	return c.t
}

func openDB(t *testing.T) *database.Client {
	t.Helper()
	cfg := config.DatabaseConfig{
		Driver:       database.DriverSQLite,
		DSN:          filepath.Join(t.TempDir(), "social.db"),
		MaxOpenConns: 8,
	}
	db, err := database.Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db, cfg.DSN, nil))
	return db
}

type stores struct {
	db         *database.Client
	identities *IdentityStore
	content    *ContentStore
	graph      *GraphStore
}

func newStores(t *testing.T) stores {
	t.Helper()
	db := openDB(t)
	clock := newTickClock()
	return stores{
		db:         db,
		identities: NewIdentityStore(db, WithClock(clock.Now)),
		content:    NewContentStore(db, WithClock(clock.Now)),
		graph:      NewGraphStore(db, WithClock(clock.Now)),
	}
}

func (s stores) post(t *testing.T, author string) Post {
	t.Helper()
	p, err := s.content.CreatePost(context.Background(), author, NewPost{MediaURL: "https://cdn.example.com/p.png"})
	require.NoError(t, err)
	return p
}

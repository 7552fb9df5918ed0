package config

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/david/shipment-tracker/internal/extract"
)

// Cached wraps a provider with a read-through, TTL-expiring cache. Reads go
// through an immutable snapshot behind an atomic pointer: callers never
// block on a refresh, and a stale entry keeps being served until a refresh
// lands. Concurrent refreshes of the same key are idempotent; last writer
// wins with the same eventual value.
type Cached struct {
	inner    extract.ConfigProvider
	ttl      time.Duration
	snapshot atomic.Pointer[snapshot]
	mu       sync.Mutex // serializes snapshot swaps, not reads
	now      func() time.Time
}

type cacheKey struct {
	category   extract.SenderCategory
	sourceType extract.SourceType
}

type cacheEntry struct {
	entries   []extract.ConfigEntry
	fetchedAt time.Time
}

type snapshot struct {
	entries map[cacheKey]cacheEntry
}

const DefaultTTL = 5 * time.Minute

func NewCached(inner extract.ConfigProvider, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cached{inner: inner, ttl: ttl, now: time.Now}
	c.snapshot.Store(&snapshot{entries: map[cacheKey]cacheEntry{}})
	return c
}

// Entries returns cached rows when fresh. On a miss or expiry it queries the
// inner provider; if that fails but a stale entry exists, the stale entry is
// returned — stale-but-present always beats an error.
func (c *Cached) Entries(ctx context.Context, category extract.SenderCategory, sourceType extract.SourceType) ([]extract.ConfigEntry, error) {
	key := cacheKey{category, sourceType}
	snap := c.snapshot.Load()

	cached, ok := snap.entries[key]
	if ok && c.now().Sub(cached.fetchedAt) < c.ttl {
		return cached.entries, nil
	}

	fresh, err := c.inner.Entries(ctx, category, sourceType)
	if err != nil {
		if ok {
			return cached.entries, nil
		}
		return nil, err
	}

	c.store(key, fresh)
	return fresh, nil
}

// Invalidate drops every cached entry; the next read per key refetches.
func (c *Cached) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot.Store(&snapshot{entries: map[cacheKey]cacheEntry{}})
}

// store builds a new snapshot containing the updated key and swaps it in.
// Existing entries are carried over untouched.
func (c *Cached) store(key cacheKey, entries []extract.ConfigEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.snapshot.Load()
	next := &snapshot{entries: make(map[cacheKey]cacheEntry, len(old.entries)+1)}
	for k, v := range old.entries {
		next.entries[k] = v
	}
	next.entries[key] = cacheEntry{entries: entries, fetchedAt: c.now()}
	c.snapshot.Store(next)
}

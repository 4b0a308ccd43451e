// Package cache provides a time-boxed in-memory memoization cache for
// computed analysis results. Entries expire a fixed TTL after insertion;
// expiry is checked on read, with an optional periodic sweep. There is no
// eviction beyond TTL.
//
// Keys are deterministic strings built from every input that affects the
// result (see Key), so logically identical requests always collide and
// different requests never do.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// DefaultTTL is the default entry lifetime from insertion.
const DefaultTTL = 30 * time.Minute

// DefaultSweepInterval is how often the active sweep runs when enabled.
const DefaultSweepInterval = 5 * time.Minute

// Stats reports cache effectiveness.
type Stats struct {
	Keys   int
	Hits   int64
	Misses int64
}

type entry struct {
	value   any
	expires time.Time
}

// Cache is a TTL memoization cache safe for concurrent use.
// Entries are always fully replaced, never partially updated.
type Cache struct {
	mu            sync.RWMutex
	entries       map[string]entry
	ttl           time.Duration
	sweepInterval time.Duration
	hits          int64
	misses        int64

	now func() time.Time // test hook
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides the default entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithSweepInterval overrides how often StartSweep drops expired entries.
func WithSweepInterval(interval time.Duration) Option {
	return func(c *Cache) { c.sweepInterval = interval }
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries:       make(map[string]entry),
		ttl:           DefaultTTL,
		sweepInterval: DefaultSweepInterval,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached value for key, if present and not expired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && c.now().Before(e.expires) {
		c.mu.Lock()
		c.hits++
		c.mu.Unlock()
		return e.value, true
	}

	c.mu.Lock()
	c.misses++
	if ok {
		// Passive expiry: drop the stale entry on read.
		if e2, still := c.entries[key]; still && e2.expires.Equal(e.expires) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
	return nil, false
}

// Set stores value under key with the configured TTL from now.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Clear removes all entries. Hit/miss counters are preserved.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Stats returns a snapshot of the current counters.
// Keys counts stored entries, including any not yet swept.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{Keys: len(c.entries), Hits: c.hits, Misses: c.misses}
}

// TTL returns the configured entry lifetime.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Sweep removes all expired entries and returns how many were dropped.
func (c *Cache) Sweep() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	var dropped int
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
			dropped++
		}
	}
	return dropped
}

// StartSweep runs Sweep at the configured interval until ctx is canceled.
func (c *Cache) StartSweep(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(c.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Sweep()
			}
		}
	}()
}

// Key builds a deterministic cache key from a namespace and the full set of
// parameters that determine the result.
func Key(namespace string, parts ...string) string {
	return namespace + ":" + strings.Join(parts, ":")
}

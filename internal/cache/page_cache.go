// Package cache memoizes listing pages for a short, fixed time-to-live.
package cache

import (
	"context"
	"sync"
	"time"
)

const DefaultTTL = 30 * time.Second

// PageCache is an in-memory TTL map shared by all listing requests. Expired entries
// are treated as absent on read; PurgeExpired or the janitor reclaims their memory.
// Concurrent misses on the same key are not coalesced.
type PageCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

type entry struct {
	value     any
	expiresAt time.Time
}

type Option func(*PageCache)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *PageCache) {
		if now != nil {
			c.now = now
		}
	}
}

func New(ttl time.Duration, opts ...Option) *PageCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &PageCache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL is the default lifetime used by callers that do not pick their own.
func (c *PageCache) TTL() time.Duration { return c.ttl }

func (c *PageCache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key. A non-positive ttl falls back to the cache default.
func (c *PageCache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
}

func (c *PageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// PurgeExpired drops expired entries and reports how many were removed.
func (c *PageCache) PurgeExpired() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// StartJanitor purges expired entries every interval until ctx is done.
func (c *PageCache) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.PurgeExpired()
			}
		}
	}()
}

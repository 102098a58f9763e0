// Package feedcache holds fetched feed payloads keyed by feed and request
// parameters, with a freshness window per feed. Concurrent misses for the
// same key share one upstream fetch.
package feedcache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/tphakala/astral-forecast/internal/errors"
	"github.com/tphakala/astral-forecast/internal/logger"
	"github.com/tphakala/astral-forecast/internal/observability/metrics"
)

// Entry is a cached payload with the time it was fetched.
type Entry struct {
	Value     any
	FetchedAt time.Time
}

// Fresh reports whether the entry is younger than ttl at now.
func (e Entry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.FetchedAt) < ttl
}

// Cache is a TTL cache for feed payloads. Safe for concurrent use.
type Cache struct {
	store *cache.Cache
	group singleflight.Group
	now   func() time.Time

	metricsMu sync.RWMutex
	metrics   *metrics.FeedMetrics
}

// New returns an empty cache. Expired items are purged every cleanupInterval.
func New(cleanupInterval time.Duration) *Cache {
	return &Cache{
		store: cache.New(cache.NoExpiration, cleanupInterval),
		now:   time.Now,
	}
}

func getLogger() logger.Logger {
	return logger.Global().Module("feedcache")
}

// SetMetrics enables hit, miss and error accounting.
func (c *Cache) SetMetrics(m *metrics.FeedMetrics) {
	c.metricsMu.Lock()
	defer c.metricsMu.Unlock()
	c.metrics = m
}

func (c *Cache) getMetrics() *metrics.FeedMetrics {
	c.metricsMu.RLock()
	defer c.metricsMu.RUnlock()
	return c.metrics
}

// Key builds a cache key from a feed name and its request parameters.
func Key(feed string, params ...string) string {
	if len(params) == 0 {
		return feed
	}
	return feed + ":" + strings.Join(params, "|")
}

// Get returns the entry under key if it is younger than ttl.
func (c *Cache) Get(key string, ttl time.Duration) (Entry, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		return Entry{}, false
	}
	entry, ok := v.(Entry)
	if !ok || !entry.Fresh(c.now(), ttl) {
		return Entry{}, false
	}
	return entry, true
}

// Set stores value under key. The underlying item is kept for twice ttl so
// the janitor can reclaim it after it has gone stale.
func (c *Cache) Set(key string, value any, ttl time.Duration) Entry {
	entry := Entry{Value: value, FetchedAt: c.now()}
	c.store.Set(key, entry, 2*ttl)
	if m := c.getMetrics(); m != nil {
		m.SetCacheEntries(c.store.ItemCount())
	}
	return entry
}

// Delete removes key from the cache.
func (c *Cache) Delete(key string) {
	c.store.Delete(key)
}

// Flush removes every entry.
func (c *Cache) Flush() {
	c.store.Flush()
	if m := c.getMetrics(); m != nil {
		m.SetCacheEntries(0)
	}
}

// ItemCount returns the number of stored items, including stale ones not yet purged.
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}

// GetOrFetch returns the fresh value under key, or calls fetch once for all
// concurrent callers of the same key and caches its result. Errors are not
// cached. The returned time is when the value was fetched.
//
// fetch runs detached from the caller's cancellation so that one caller
// giving up does not fail the others waiting on the same key.
func GetOrFetch[T any](ctx context.Context, c *Cache, feed, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, time.Time, error) {
	var zero T
	m := c.getMetrics()

	if entry, ok := c.Get(key, ttl); ok {
		if v, ok := entry.Value.(T); ok {
			if m != nil {
				m.RecordCacheHit(feed)
			}
			return v, entry.FetchedAt, nil
		}
	}
	if m != nil {
		m.RecordCacheMiss(feed)
	}

	ch := c.group.DoChan(key, func() (any, error) {
		// another caller may have filled the key while we queued
		if entry, ok := c.Get(key, ttl); ok {
			return entry, nil
		}
		start := time.Now()
		v, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		getLogger().Debug("feed refreshed",
			logger.String("feed", feed),
			logger.String("key", key),
			logger.Duration("duration", time.Since(start)))
		return c.Set(key, v, ttl), nil
	})

	select {
	case <-ctx.Done():
		return zero, time.Time{}, errors.New(ctx.Err()).
			Component("feedcache").
			Category(errors.CategoryCancellation).
			Context("feed", feed).
			Build()
	case res := <-ch:
		if res.Err != nil {
			if m != nil {
				category := string(errors.CategoryGeneric)
				var ee *errors.EnhancedError
				if errors.As(res.Err, &ee) {
					category = ee.GetCategory()
				}
				m.RecordFetchError(feed, category)
			}
			return zero, time.Time{}, res.Err
		}
		entry := res.Val.(Entry)
		v, ok := entry.Value.(T)
		if !ok {
			return zero, time.Time{}, errors.Newf("cached value for %s has type %T", key, entry.Value).
				Component("feedcache").
				Category(errors.CategoryCache).
				Context("feed", feed).
				Build()
		}
		return v, entry.FetchedAt, nil
	}
}

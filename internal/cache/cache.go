// Package cache provides a TTL cache for fetched payloads with
// pluggable storage backends.
package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// Entry is a cached payload with its fetch timestamp.
type Entry struct {
	Payload   []byte    `json:"payload"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Store persists cache entries by key.
type Store interface {
	// Get returns the entry for key and whether it exists.
	Get(key string) (Entry, bool)
	// Put stores the entry for key.
	Put(key string, entry Entry) error
}

// FetchFunc produces a fresh payload when the cache misses.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Cache is a read-through TTL cache. Concurrent fetches for the same
// key are collapsed into a single upstream call.
type Cache struct {
	store Store
	group singleflight.Group
	now   func() time.Time
}

// New creates a cache backed by store.
func New(store Store) *Cache {
	return &Cache{
		store: store,
		now:   time.Now,
	}
}

// Get returns the cached payload for key if it is younger than ttl,
// otherwise it calls fetch, stores the result, and returns it. The
// boolean reports whether the payload came from the cache. A failed
// fetch leaves any stale entry in place and returns the fetch error.
func (c *Cache) Get(ctx context.Context, key string, ttl time.Duration, fetch FetchFunc) ([]byte, bool, error) {
	if entry, ok := c.store.Get(key); ok {
		if c.now().Sub(entry.FetchedAt) < ttl {
			return entry.Payload, true, nil
		}
	}

	payload, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Re-check under the flight: another caller may have
		// refreshed the entry while we waited.
		if entry, ok := c.store.Get(key); ok {
			if c.now().Sub(entry.FetchedAt) < ttl {
				return entry.Payload, nil
			}
		}

		data, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		if err := c.store.Put(key, Entry{Payload: data, FetchedAt: c.now()}); err != nil {
			return nil, err
		}
		return data, nil
	})
	if err != nil {
		return nil, false, err
	}

	return payload.([]byte), false, nil
}

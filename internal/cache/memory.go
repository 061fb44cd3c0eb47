package cache

import (
	"github.com/dgraph-io/ristretto"
)

// MemoryStore is an in-process Store backed by ristretto.
type MemoryStore struct {
	cache *ristretto.Cache
}

// NewMemoryStore creates an in-memory store.
func NewMemoryStore() (*MemoryStore, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1 << 12, // track ~4k keys for admission
		MaxCost:     1 << 26, // 64 MiB of payloads
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &MemoryStore{cache: c}, nil
}

// Get returns the entry for key.
func (s *MemoryStore) Get(key string) (Entry, bool) {
	v, ok := s.cache.Get(key)
	if !ok {
		return Entry{}, false
	}
	entry, ok := v.(Entry)
	return entry, ok
}

// Put stores the entry for key.
func (s *MemoryStore) Put(key string, entry Entry) error {
	cost := int64(len(entry.Payload))
	if cost == 0 {
		cost = 1
	}
	s.cache.Set(key, entry, cost)
	// Set is async; wait so the entry is visible to the next Get.
	s.cache.Wait()
	return nil
}

// Close releases the store's resources.
func (s *MemoryStore) Close() {
	s.cache.Close()
}

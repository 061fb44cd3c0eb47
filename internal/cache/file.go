package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefaultFilePath returns the default location of the file store.
func DefaultFilePath() string {
	return filepath.Join(os.TempDir(), "yield_scout_cache.json")
}

// FileStore is a Store persisted as a single JSON document on disk.
// It survives process restarts, so repeated CLI invocations within
// the TTL share one upstream fetch.
type FileStore struct {
	mu      sync.Mutex
	path    string
	entries map[string]Entry
}

// NewFileStore opens (or creates) a file store at path. An empty path
// uses DefaultFilePath. A missing or unreadable file starts cold.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultFilePath()
	}

	s := &FileStore{
		path:    path,
		entries: make(map[string]Entry),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	// A corrupt cache file is treated as a cold cache.
	if err := json.Unmarshal(data, &s.entries); err != nil {
		s.entries = make(map[string]Entry)
	}
	return s
}

// Get returns the entry for key.
func (s *FileStore) Get(key string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	return entry, ok
}

// Put stores the entry for key and persists the document atomically.
func (s *FileStore) Put(key string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry

	data, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace cache file: %w", err)
	}
	return nil
}

// Path returns the location of the backing file.
func (s *FileStore) Path() string {
	return s.path
}

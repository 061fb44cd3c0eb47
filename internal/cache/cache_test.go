package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type mapStore struct {
	entries map[string]Entry
}

func newMapStore() *mapStore {
	return &mapStore{entries: make(map[string]Entry)}
}

func (s *mapStore) Get(key string) (Entry, bool) {
	e, ok := s.entries[key]
	return e, ok
}

func (s *mapStore) Put(key string, entry Entry) error {
	s.entries[key] = entry
	return nil
}

func TestCache_GetWithinTTL(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	c := New(newMapStore())
	c.now = func() time.Time { return now }

	fetches := 0
	fetch := func(ctx context.Context) ([]byte, error) {
		fetches++
		return []byte(`{"status":"success"}`), nil
	}

	payload, hit, err := c.Get(context.Background(), "pools", 15*time.Minute, fetch)
	if err != nil {
		t.Fatalf("first Get failed: %v", err)
	}
	if hit {
		t.Error("first Get should miss")
	}
	if string(payload) != `{"status":"success"}` {
		t.Errorf("unexpected payload: %s", payload)
	}

	// 10 minutes later, still within TTL.
	now = now.Add(10 * time.Minute)

	payload, hit, err = c.Get(context.Background(), "pools", 15*time.Minute, fetch)
	if err != nil {
		t.Fatalf("second Get failed: %v", err)
	}
	if !hit {
		t.Error("second Get should hit")
	}
	if string(payload) != `{"status":"success"}` {
		t.Errorf("unexpected cached payload: %s", payload)
	}
	if fetches != 1 {
		t.Errorf("expected 1 fetch, got %d", fetches)
	}
}

func TestCache_GetAfterExpiry(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	c := New(newMapStore())
	c.now = func() time.Time { return now }

	fetches := 0
	fetch := func(ctx context.Context) ([]byte, error) {
		fetches++
		return []byte("v"), nil
	}

	if _, _, err := c.Get(context.Background(), "pools", 15*time.Minute, fetch); err != nil {
		t.Fatalf("first Get failed: %v", err)
	}

	now = now.Add(16 * time.Minute)

	_, hit, err := c.Get(context.Background(), "pools", 15*time.Minute, fetch)
	if err != nil {
		t.Fatalf("second Get failed: %v", err)
	}
	if hit {
		t.Error("expired entry should not hit")
	}
	if fetches != 2 {
		t.Errorf("expected 2 fetches, got %d", fetches)
	}
}

func TestCache_FetchErrorKeepsStaleEntry(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	store := newMapStore()
	c := New(store)
	c.now = func() time.Time { return now }

	fetch := func(ctx context.Context) ([]byte, error) {
		return []byte("stale"), nil
	}
	if _, _, err := c.Get(context.Background(), "pools", 15*time.Minute, fetch); err != nil {
		t.Fatalf("seed Get failed: %v", err)
	}

	now = now.Add(time.Hour)

	wantErr := errors.New("upstream down")
	_, _, err := c.Get(context.Background(), "pools", 15*time.Minute, func(ctx context.Context) ([]byte, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected fetch error, got %v", err)
	}

	entry, ok := store.Get("pools")
	if !ok {
		t.Fatal("stale entry was dropped")
	}
	if string(entry.Payload) != "stale" {
		t.Errorf("stale entry overwritten: %s", entry.Payload)
	}
}

func TestCache_KeysAreIndependent(t *testing.T) {
	c := New(newMapStore())

	fetch := func(v string) FetchFunc {
		return func(ctx context.Context) ([]byte, error) {
			return []byte(v), nil
		}
	}

	a, _, err := c.Get(context.Background(), "pools", time.Minute, fetch("a"))
	if err != nil {
		t.Fatalf("Get pools failed: %v", err)
	}
	b, _, err := c.Get(context.Background(), "history/abc", time.Minute, fetch("b"))
	if err != nil {
		t.Fatalf("Get history failed: %v", err)
	}

	if string(a) != "a" || string(b) != "b" {
		t.Errorf("keys collided: %s %s", a, b)
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	s := NewFileStore(path)
	entry := Entry{Payload: []byte(`[1,2,3]`), FetchedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	if err := s.Put("pools", entry); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Reopen as a fresh store to exercise the on-disk document.
	reopened := NewFileStore(path)
	got, ok := reopened.Get("pools")
	if !ok {
		t.Fatal("entry missing after reopen")
	}
	if string(got.Payload) != `[1,2,3]` {
		t.Errorf("unexpected payload: %s", got.Payload)
	}
	if !got.FetchedAt.Equal(entry.FetchedAt) {
		t.Errorf("unexpected FetchedAt: %v", got.FetchedAt)
	}
}

func TestFileStore_CorruptFileStartsCold(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	s := NewFileStore(path)
	if _, ok := s.Get("pools"); ok {
		t.Error("corrupt store should start cold")
	}

	// A Put must recover the file.
	if err := s.Put("pools", Entry{Payload: []byte("x"), FetchedAt: time.Now()}); err != nil {
		t.Fatalf("Put after corruption failed: %v", err)
	}
	if _, ok := NewFileStore(path).Get("pools"); !ok {
		t.Error("store did not recover after Put")
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	s, err := NewMemoryStore()
	if err != nil {
		t.Fatalf("NewMemoryStore failed: %v", err)
	}
	defer s.Close()

	entry := Entry{Payload: []byte("v"), FetchedAt: time.Now()}
	if err := s.Put("pools", entry); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok := s.Get("pools")
	if !ok {
		t.Fatal("entry missing")
	}
	if string(got.Payload) != "v" {
		t.Errorf("unexpected payload: %s", got.Payload)
	}
}

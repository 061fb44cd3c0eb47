package app

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/defiscout/yieldscout/business/yield/domain"
	"github.com/defiscout/yieldscout/internal/apperror"
	"github.com/defiscout/yieldscout/internal/cache"
	"github.com/defiscout/yieldscout/internal/logger"
)

type fakeProvider struct {
	pools        []domain.Pool
	history      map[string][]domain.HistoryPoint
	poolFetches  int
	chartFetches int
	err          error
}

func (f *fakeProvider) FetchPools(ctx context.Context) ([]domain.Pool, error) {
	f.poolFetches++
	if f.err != nil {
		return nil, f.err
	}
	return f.pools, nil
}

func (f *fakeProvider) FetchHistory(ctx context.Context, poolID string) ([]domain.HistoryPoint, error) {
	f.chartFetches++
	if f.err != nil {
		return nil, f.err
	}
	return f.history[poolID], nil
}

type mapStore struct {
	entries map[string]cache.Entry
}

func (s *mapStore) Get(key string) (cache.Entry, bool) {
	e, ok := s.entries[key]
	return e, ok
}

func (s *mapStore) Put(key string, entry cache.Entry) error {
	s.entries[key] = entry
	return nil
}

func newTestService(provider SourceProvider) *Service {
	log := logger.New(io.Discard, logger.LevelInfo, "test", nil)
	c := cache.New(&mapStore{entries: make(map[string]cache.Entry)})
	return NewService(log, provider, c, 15*time.Minute, domain.DefaultRegistry(), domain.DefaultCostPolicy())
}

func TestService_ScanUsesCache(t *testing.T) {
	provider := &fakeProvider{pools: testUniverse()}
	svc := newTestService(provider)

	first, err := svc.Scan(context.Background(), Filters{})
	if err != nil {
		t.Fatalf("first Scan failed: %v", err)
	}
	second, err := svc.Scan(context.Background(), Filters{})
	if err != nil {
		t.Fatalf("second Scan failed: %v", err)
	}

	if provider.poolFetches != 1 {
		t.Errorf("expected 1 upstream fetch, got %d", provider.poolFetches)
	}
	if len(first) != len(second) {
		t.Errorf("scan results differ between cached calls: %d vs %d", len(first), len(second))
	}
}

func TestService_ScanPropagatesSourceFailure(t *testing.T) {
	provider := &fakeProvider{err: apperror.New(apperror.CodeSourceUnavailable)}
	svc := newTestService(provider)

	_, err := svc.Scan(context.Background(), Filters{})
	if err == nil {
		t.Fatal("expected error when source is down")
	}
	if !apperror.IsCode(err, apperror.CodeSourceUnavailable) {
		t.Errorf("unexpected code: %s", apperror.GetCode(err))
	}
}

func TestService_BreakevenResolvesPrefixIDs(t *testing.T) {
	provider := &fakeProvider{pools: testUniverse()}
	svc := newTestService(provider)

	result, err := svc.Breakeven(context.Background(), "pool-a", "pool-b...", decimal.NewFromInt(10_000))
	if err != nil {
		t.Fatalf("Breakeven failed: %v", err)
	}

	if result.From.ID != "pool-a" || result.To.ID != "pool-b" {
		t.Errorf("resolved wrong pools: %s -> %s", result.From.ID, result.To.ID)
	}
	if !result.SameChain {
		t.Error("Base -> Base should be same-chain")
	}
}

func TestService_BreakevenUnknownPool(t *testing.T) {
	provider := &fakeProvider{pools: testUniverse()}
	svc := newTestService(provider)

	_, err := svc.Breakeven(context.Background(), "pool-a", "nope", decimal.NewFromInt(10_000))
	if err == nil {
		t.Fatal("expected error for unknown pool")
	}
	if !apperror.IsCode(err, apperror.CodePoolNotFound) {
		t.Errorf("unexpected code: %s", apperror.GetCode(err))
	}
}

func TestService_History(t *testing.T) {
	points := series(
		[]string{"4.0", "4.1", "4.2"},
		[]int64{10_000_000, 10_100_000, 10_200_000},
	)
	provider := &fakeProvider{history: map[string][]domain.HistoryPoint{"pool-a": points}}
	svc := newTestService(provider)

	summary, err := svc.History(context.Background(), "pool-a")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if summary.Days != 3 {
		t.Errorf("Days = %d, want 3", summary.Days)
	}

	// Second call within TTL must not refetch.
	if _, err := svc.History(context.Background(), "pool-a"); err != nil {
		t.Fatalf("cached History failed: %v", err)
	}
	if provider.chartFetches != 1 {
		t.Errorf("expected 1 chart fetch, got %d", provider.chartFetches)
	}
}

func TestService_Protocols(t *testing.T) {
	svc := newTestService(&fakeProvider{})

	protocols := svc.Protocols()
	if len(protocols) != 11 {
		t.Fatalf("expected 11 protocols, got %d", len(protocols))
	}

	info, err := svc.Protocol("morpho-v1")
	if err != nil {
		t.Fatalf("Protocol lookup failed: %v", err)
	}
	if info.Name != "Morpho" {
		t.Errorf("unexpected protocol name: %s", info.Name)
	}
}

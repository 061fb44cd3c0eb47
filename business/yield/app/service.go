package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/defiscout/yieldscout/business/yield/domain"
	"github.com/defiscout/yieldscout/internal/apperror"
	"github.com/defiscout/yieldscout/internal/cache"
	"github.com/defiscout/yieldscout/internal/logger"
)

// Cache keys for source payloads.
const (
	cacheKeyPools      = "pools"
	cacheKeyHistoryFmt = "history/"
)

// Service is the application facade over the yield analysis
// operations: scan, breakeven, history and protocols.
type Service struct {
	log        logger.LoggerInterface
	provider   SourceProvider
	cache      *cache.Cache
	cacheTTL   time.Duration
	registry   *domain.Registry
	ranker     *Ranker
	calculator *BreakevenCalculator
	analyzer   *HistoryAnalyzer
}

// NewService wires the yield service.
func NewService(
	log logger.LoggerInterface,
	provider SourceProvider,
	c *cache.Cache,
	cacheTTL time.Duration,
	registry *domain.Registry,
	costs domain.CostPolicy,
) *Service {
	return &Service{
		log:        log,
		provider:   provider,
		cache:      c,
		cacheTTL:   cacheTTL,
		registry:   registry,
		ranker:     NewRanker(registry),
		calculator: NewBreakevenCalculator(costs),
		analyzer:   NewHistoryAnalyzer(),
	}
}

// Scan returns the ranked USDC opportunities matching the filters.
func (s *Service) Scan(ctx context.Context, filters Filters) ([]domain.Pool, error) {
	pools, err := s.loadPools(ctx)
	if err != nil {
		return nil, err
	}
	return s.ranker.Rank(pools, filters), nil
}

// Breakeven analyzes moving amount from one pool to another. Pool IDs
// may be truncated prefixes as printed by scan.
func (s *Service) Breakeven(ctx context.Context, fromID, toID string, amount decimal.Decimal) (*domain.BreakevenResult, error) {
	pools, err := s.loadPools(ctx)
	if err != nil {
		return nil, err
	}

	from, err := findPool(pools, fromID)
	if err != nil {
		return nil, err
	}
	to, err := findPool(pools, toID)
	if err != nil {
		return nil, err
	}

	return s.calculator.Evaluate(from, to, amount)
}

// History returns the 30-day APY/TVL summary for a pool.
func (s *Service) History(ctx context.Context, poolID string) (*domain.HistorySummary, error) {
	payload, hit, err := s.cache.Get(ctx, cacheKeyHistoryFmt+poolID, s.cacheTTL, func(ctx context.Context) ([]byte, error) {
		points, err := s.provider.FetchHistory(ctx, poolID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(points)
	})
	if err != nil {
		return nil, err
	}

	var points []domain.HistoryPoint
	if err := json.Unmarshal(payload, &points); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeCacheCorrupt, "decoding cached history payload")
	}

	s.log.Debug(ctx, "loaded pool history", "pool", poolID, "points", len(points), "cache_hit", hit)

	return s.analyzer.Summarize(poolID, points)
}

// Protocols returns the vetted protocol metadata sorted by slug.
func (s *Service) Protocols() []domain.ProtocolInfo {
	return s.registry.All()
}

// Protocol returns a single vetted protocol by slug.
func (s *Service) Protocol(slug string) (domain.ProtocolInfo, error) {
	return s.registry.Lookup(slug)
}

// loadPools returns the normalized pool universe, served from the
// cache when fresh.
func (s *Service) loadPools(ctx context.Context) ([]domain.Pool, error) {
	payload, hit, err := s.cache.Get(ctx, cacheKeyPools, s.cacheTTL, func(ctx context.Context) ([]byte, error) {
		pools, err := s.provider.FetchPools(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(pools)
	})
	if err != nil {
		return nil, err
	}

	var pools []domain.Pool
	if err := json.Unmarshal(payload, &pools); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeCacheCorrupt, "decoding cached pools payload")
	}

	s.log.Debug(ctx, "loaded pool universe", "pools", len(pools), "cache_hit", hit)

	return pools, nil
}

// findPool locates a pool by exact ID or truncated prefix.
func findPool(pools []domain.Pool, query string) (domain.Pool, error) {
	for _, p := range pools {
		if p.MatchesID(query) {
			return p, nil
		}
	}
	return domain.Pool{}, apperror.New(
		apperror.CodePoolNotFound,
		apperror.WithContext(fmt.Sprintf("could not find pool %q", query)),
	)
}

// Package app contains application services and port definitions for the yield context.
package app

import (
	"context"

	"github.com/defiscout/yieldscout/business/yield/domain"
)

// SourceProvider fetches pool data from a yield aggregator.
type SourceProvider interface {
	// FetchPools returns every pool the source knows about, normalized
	// to domain pools. Records the source cannot parse are dropped.
	FetchPools(ctx context.Context) ([]domain.Pool, error)

	// FetchHistory returns the daily APY/TVL history for a pool,
	// oldest first.
	FetchHistory(ctx context.Context, poolID string) ([]domain.HistoryPoint, error)
}

package app

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/defiscout/yieldscout/business/yield/domain"
)

// Filters narrows a scan to a chain, protocol, or minimum TVL.
// Zero values leave the corresponding dimension unfiltered; Top <= 0
// returns the full result set (callers apply their own default).
type Filters struct {
	Chain    string
	Protocol string
	MinTVL   decimal.Decimal
	Top      int
}

// Ranker filters and orders pools for scan output.
type Ranker struct {
	registry *domain.Registry
}

// NewRanker creates a ranker over the given protocol whitelist.
func NewRanker(registry *domain.Registry) *Ranker {
	return &Ranker{registry: registry}
}

// Rank returns the whitelisted USDC pools matching the filters,
// scored for risk and ordered best-first: APY descending, then TVL
// descending, then pool ID for a stable order.
func (r *Ranker) Rank(pools []domain.Pool, filters Filters) []domain.Pool {
	results := make([]domain.Pool, 0, len(pools))

	for _, p := range pools {
		if !p.IsUSDC() {
			continue
		}
		if !r.registry.Contains(p.Protocol) {
			continue
		}
		if filters.Chain != "" && !strings.EqualFold(p.Chain, filters.Chain) {
			continue
		}
		if filters.Protocol != "" && p.Protocol != filters.Protocol {
			continue
		}
		if p.TVLUsd.LessThan(filters.MinTVL) {
			continue
		}

		info, err := r.registry.Lookup(p.Protocol)
		if err != nil {
			continue
		}
		p.Risk = domain.ScoreRisk(p, info.BaseRisk)
		results = append(results, p)
	}

	sort.Slice(results, func(i, j int) bool {
		if !results[i].APY.Equal(results[j].APY) {
			return results[i].APY.GreaterThan(results[j].APY)
		}
		if !results[i].TVLUsd.Equal(results[j].TVLUsd) {
			return results[i].TVLUsd.GreaterThan(results[j].TVLUsd)
		}
		return results[i].ID < results[j].ID
	})

	if filters.Top > 0 && len(results) > filters.Top {
		results = results[:filters.Top]
	}

	return results
}

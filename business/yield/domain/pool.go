package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Pool is a single USDC yield opportunity.
type Pool struct {
	ID             string          `json:"pool"`
	Protocol       string          `json:"project"`
	Chain          string          `json:"chain"`
	Symbol         string          `json:"symbol"`
	APY            decimal.Decimal `json:"apy"`
	APYBase        decimal.Decimal `json:"apyBase"`
	APYReward      decimal.Decimal `json:"apyReward"`
	TVLUsd         decimal.Decimal `json:"tvlUsd"`
	Stablecoin     bool            `json:"stablecoin"`
	Exposure       string          `json:"exposure"`
	ILRisk         string          `json:"ilRisk"`
	PredictedClass string          `json:"predictedClass,omitempty"`
	Risk           RiskTier        `json:"-"`
}

// TVL thresholds for risk escalation, in USD.
var (
	tvlHighRiskBelow   = decimal.NewFromInt(500_000)
	tvlMediumRiskBelow = decimal.NewFromInt(5_000_000)
)

// ScoreRisk derives the pool's risk tier from the protocol's base
// tier, escalated by pool-level signals: thin TVL, impermanent loss
// exposure, or a predicted APY drop.
func ScoreRisk(p Pool, base RiskTier) RiskTier {
	if p.TVLUsd.LessThan(tvlHighRiskBelow) || p.ILRisk == "yes" {
		return RiskHigh
	}
	if p.TVLUsd.LessThan(tvlMediumRiskBelow) || p.PredictedClass == "Down" || p.PredictedClass == "" {
		return base.Escalate(RiskMedium)
	}
	return base
}

// MatchesID reports whether query identifies this pool. Scan output
// truncates pool IDs, so a prefix (with or without a trailing "...")
// also matches.
func (p Pool) MatchesID(query string) bool {
	query = strings.TrimSuffix(query, "...")
	query = strings.TrimRight(query, ".")
	if query == "" {
		return false
	}
	return p.ID == query || strings.HasPrefix(p.ID, query)
}

// ShortID returns the pool ID truncated for display.
func (p Pool) ShortID() string {
	if len(p.ID) > 12 {
		return p.ID[:12] + "..."
	}
	return p.ID
}

// IsUSDC reports whether the pool is a single-exposure USDC
// stablecoin pool on a supported chain.
func (p Pool) IsUSDC() bool {
	supported := false
	for _, chain := range SupportedChains {
		if p.Chain == chain {
			supported = true
			break
		}
	}
	if !supported {
		return false
	}

	if !p.Stablecoin {
		return false
	}
	if !strings.Contains(strings.ToUpper(p.Symbol), "USDC") {
		return false
	}
	// Multi-asset LPs carry price exposure beyond the stablecoin.
	if p.Exposure == "multi" {
		return false
	}
	return true
}

// HistoryPoint is one day of a pool's APY and TVL history.
type HistoryPoint struct {
	Timestamp time.Time       `json:"timestamp"`
	APY       decimal.Decimal `json:"apy"`
	TVLUsd    decimal.Decimal `json:"tvl"`
}

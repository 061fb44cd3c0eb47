package domain

import (
	"github.com/shopspring/decimal"
)

// Stability classifies APY steadiness over the analysis window.
type Stability string

const (
	StabilityStable   Stability = "STABLE"
	StabilityModerate Stability = "MODERATE"
	StabilityVolatile Stability = "VOLATILE"
	StabilityUnknown  Stability = "N/A"
)

// Coefficient-of-variation cutoffs for the stability labels.
var (
	cvStableBelow   = decimal.RequireFromString("0.1")
	cvModerateBelow = decimal.RequireFromString("0.3")
)

// StabilityForCV maps a coefficient of variation to its label.
func StabilityForCV(cv decimal.Decimal) Stability {
	if cv.LessThan(cvStableBelow) {
		return StabilityStable
	}
	if cv.LessThan(cvModerateBelow) {
		return StabilityModerate
	}
	return StabilityVolatile
}

// TrendDirection is the direction of the TVL trend over the window.
type TrendDirection string

const (
	TrendUp   TrendDirection = "UP"
	TrendDown TrendDirection = "DOWN"
	TrendFlat TrendDirection = "FLAT"
)

// TVL changes within this band are considered noise.
var trendTolerancePct = decimal.NewFromInt(5)

// TrendForChange maps a TVL percentage change to a direction, with a
// flat band of +/-5%.
func TrendForChange(changePct decimal.Decimal) TrendDirection {
	if changePct.GreaterThan(trendTolerancePct) {
		return TrendUp
	}
	if changePct.LessThan(trendTolerancePct.Neg()) {
		return TrendDown
	}
	return TrendFlat
}

// HistorySummary aggregates a pool's recent APY and TVL history.
type HistorySummary struct {
	PoolID         string          `json:"pool"`
	Days           int             `json:"days"`
	CurrentAPY     decimal.Decimal `json:"currentApy"`
	AvgAPY         decimal.Decimal `json:"avgApy"`
	MinAPY         decimal.Decimal `json:"minApy"`
	MaxAPY         decimal.Decimal `json:"maxApy"`
	StdDev         decimal.Decimal `json:"stdDev"`
	CV             decimal.Decimal `json:"cv"`
	Stability      Stability       `json:"stability"`
	StabilityScore decimal.Decimal `json:"stabilityScore"`
	TVLCurrent     decimal.Decimal `json:"tvlCurrent"`
	TVLChangePct   decimal.Decimal `json:"tvlChangePct"`
	Trend          TrendDirection  `json:"tvlTrend"`
	Points         []HistoryPoint  `json:"points,omitempty"`
}

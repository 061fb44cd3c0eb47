package app

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/defiscout/yieldscout/business/yield/domain"
	"github.com/defiscout/yieldscout/internal/apperror"
)

// historyWindow is how many trailing daily points are analyzed.
const historyWindow = 30

// HistoryAnalyzer summarizes a pool's recent APY and TVL history.
type HistoryAnalyzer struct{}

// NewHistoryAnalyzer creates a history analyzer.
func NewHistoryAnalyzer() *HistoryAnalyzer {
	return &HistoryAnalyzer{}
}

// Summarize aggregates the trailing 30-day window of points into a
// summary: APY statistics, a stability classification, and the TVL
// trend. Points must be ordered oldest first.
func (a *HistoryAnalyzer) Summarize(poolID string, points []domain.HistoryPoint) (*domain.HistorySummary, error) {
	if len(points) == 0 {
		return nil, apperror.New(
			apperror.CodeInsufficientData,
			apperror.WithContext(fmt.Sprintf("no history points for pool %s", poolID)),
		)
	}

	if len(points) > historyWindow {
		points = points[len(points)-historyWindow:]
	}

	apys := make([]decimal.Decimal, len(points))
	for i, p := range points {
		apys[i] = p.APY
	}

	avg := mean(apys)
	stdDev := stddev(apys, avg)

	summary := &domain.HistorySummary{
		PoolID:         poolID,
		Days:           len(points),
		CurrentAPY:     apys[len(apys)-1],
		AvgAPY:         avg,
		MinAPY:         minOf(apys),
		MaxAPY:         maxOf(apys),
		StdDev:         stdDev,
		StabilityScore: stabilityScore(stdDev),
		TVLCurrent:     points[len(points)-1].TVLUsd,
		Points:         points,
	}

	// Coefficient of variation needs a positive mean and more than
	// one point to mean anything.
	if avg.GreaterThan(decimal.Zero) && len(apys) > 1 {
		summary.CV = stdDev.Div(avg)
		summary.Stability = domain.StabilityForCV(summary.CV)
	} else {
		summary.Stability = domain.StabilityUnknown
	}

	if len(points) >= 2 {
		start := points[0].TVLUsd
		if start.IsZero() {
			start = decimal.NewFromInt(1)
		}
		summary.TVLChangePct = points[len(points)-1].TVLUsd.Sub(points[0].TVLUsd).
			Div(start).Mul(hundred)
		summary.Trend = domain.TrendForChange(summary.TVLChangePct)
	} else {
		summary.Trend = domain.TrendFlat
	}

	return summary, nil
}

// stabilityScore maps the APY standard deviation to a 0-100 score,
// 100 meaning a perfectly flat series.
func stabilityScore(stdDev decimal.Decimal) decimal.Decimal {
	score := hundred.Div(decimal.NewFromInt(1).Add(stdDev))
	if score.GreaterThan(hundred) {
		return hundred
	}
	if score.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return score
}

func mean(values []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum.Div(decimal.NewFromInt(int64(len(values))))
}

// stddev is the population standard deviation. Decimal has no square
// root, so the variance is computed in decimal and rooted via float64;
// APY precision is well within float range.
func stddev(values []decimal.Decimal, avg decimal.Decimal) decimal.Decimal {
	if len(values) < 2 {
		return decimal.Zero
	}

	variance := decimal.Zero
	for _, v := range values {
		d := v.Sub(avg)
		variance = variance.Add(d.Mul(d))
	}
	variance = variance.Div(decimal.NewFromInt(int64(len(values))))

	f, _ := variance.Float64()
	return decimal.NewFromFloat(math.Sqrt(f))
}

func minOf(values []decimal.Decimal) decimal.Decimal {
	m := values[0]
	for _, v := range values[1:] {
		if v.LessThan(m) {
			m = v
		}
	}
	return m
}

func maxOf(values []decimal.Decimal) decimal.Decimal {
	m := values[0]
	for _, v := range values[1:] {
		if v.GreaterThan(m) {
			m = v
		}
	}
	return m
}

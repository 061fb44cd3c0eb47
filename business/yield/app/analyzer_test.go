package app

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/defiscout/yieldscout/business/yield/domain"
	"github.com/defiscout/yieldscout/internal/apperror"
)

func series(apys []string, tvls []int64) []domain.HistoryPoint {
	start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	points := make([]domain.HistoryPoint, len(apys))
	for i := range apys {
		points[i] = domain.HistoryPoint{
			Timestamp: start.AddDate(0, 0, i),
			APY:       decimal.RequireFromString(apys[i]),
			TVLUsd:    decimal.NewFromInt(tvls[i]),
		}
	}
	return points
}

func TestHistoryAnalyzer_ConstantSeries(t *testing.T) {
	a := NewHistoryAnalyzer()

	points := series(
		[]string{"5.0", "5.0", "5.0", "5.0", "5.0"},
		[]int64{10_000_000, 10_000_000, 10_000_000, 10_000_000, 10_000_000},
	)

	summary, err := a.Summarize("pool-a", points)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if summary.Days != 5 {
		t.Errorf("Days = %d, want 5", summary.Days)
	}
	if !summary.AvgAPY.Equal(decimal.RequireFromString("5.0")) {
		t.Errorf("AvgAPY = %s, want 5.0", summary.AvgAPY)
	}
	if !summary.StdDev.IsZero() {
		t.Errorf("StdDev = %s, want 0", summary.StdDev)
	}
	if summary.Stability != domain.StabilityStable {
		t.Errorf("Stability = %s, want STABLE", summary.Stability)
	}
	if !summary.StabilityScore.Equal(decimal.NewFromInt(100)) {
		t.Errorf("StabilityScore = %s, want 100", summary.StabilityScore)
	}
	if summary.Trend != domain.TrendFlat {
		t.Errorf("Trend = %s, want FLAT", summary.Trend)
	}
}

func TestHistoryAnalyzer_VolatileSeries(t *testing.T) {
	a := NewHistoryAnalyzer()

	points := series(
		[]string{"2.0", "9.0", "1.0", "12.0", "3.0"},
		[]int64{10_000_000, 11_000_000, 12_000_000, 13_000_000, 14_000_000},
	)

	summary, err := a.Summarize("pool-a", points)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if summary.Stability != domain.StabilityVolatile {
		t.Errorf("Stability = %s, want VOLATILE", summary.Stability)
	}
	if !summary.MinAPY.Equal(decimal.RequireFromString("1.0")) {
		t.Errorf("MinAPY = %s", summary.MinAPY)
	}
	if !summary.MaxAPY.Equal(decimal.RequireFromString("12.0")) {
		t.Errorf("MaxAPY = %s", summary.MaxAPY)
	}
	if !summary.CurrentAPY.Equal(decimal.RequireFromString("3.0")) {
		t.Errorf("CurrentAPY = %s", summary.CurrentAPY)
	}
	// TVL grew 40%, well past the flat band.
	if summary.Trend != domain.TrendUp {
		t.Errorf("Trend = %s, want UP", summary.Trend)
	}
}

func TestHistoryAnalyzer_TVLDrain(t *testing.T) {
	a := NewHistoryAnalyzer()

	points := series(
		[]string{"5.0", "5.1"},
		[]int64{10_000_000, 8_000_000},
	)

	summary, err := a.Summarize("pool-a", points)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if summary.Trend != domain.TrendDown {
		t.Errorf("Trend = %s, want DOWN", summary.Trend)
	}
	if !summary.TVLChangePct.Equal(decimal.NewFromInt(-20)) {
		t.Errorf("TVLChangePct = %s, want -20", summary.TVLChangePct)
	}
}

func TestHistoryAnalyzer_WindowTruncation(t *testing.T) {
	a := NewHistoryAnalyzer()

	apys := make([]string, 45)
	tvls := make([]int64, 45)
	for i := range apys {
		apys[i] = "5.0"
		tvls[i] = 10_000_000
	}

	summary, err := a.Summarize("pool-a", series(apys, tvls))
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary.Days != 30 {
		t.Errorf("Days = %d, want trailing 30", summary.Days)
	}
}

func TestHistoryAnalyzer_ZeroMeanHasUnknownStability(t *testing.T) {
	a := NewHistoryAnalyzer()

	summary, err := a.Summarize("pool-a", series(
		[]string{"0", "0", "0"},
		[]int64{1_000_000, 1_000_000, 1_000_000},
	))
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary.Stability != domain.StabilityUnknown {
		t.Errorf("Stability = %s, want N/A", summary.Stability)
	}
}

func TestHistoryAnalyzer_EmptySeries(t *testing.T) {
	a := NewHistoryAnalyzer()

	_, err := a.Summarize("pool-a", nil)
	if err == nil {
		t.Fatal("expected error for empty series")
	}
	if !apperror.IsCode(err, apperror.CodeInsufficientData) {
		t.Errorf("unexpected code: %s", apperror.GetCode(err))
	}
}

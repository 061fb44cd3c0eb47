package llama

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/defiscout/yieldscout/internal/apperror"
	"github.com/defiscout/yieldscout/internal/logger"
)

func testProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultProviderConfig()
	cfg.BaseURL = server.URL
	cfg.RequestsPerMinute = 60_000 // no throttling in tests

	log := logger.New(io.Discard, logger.LevelInfo, "test", nil)
	p, err := NewProvider(cfg, log)
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	return p
}

const poolsPayload = `{
	"status": "success",
	"data": [
		{
			"pool": "aa70268e-4b52-42bf-a116-608b370f9501",
			"chain": "Base",
			"project": "aave-v3",
			"symbol": "USDC",
			"tvlUsd": 125000000.5,
			"apy": 5.23,
			"apyBase": 5.0,
			"apyReward": 0.23,
			"stablecoin": true,
			"exposure": "single",
			"ilRisk": "no",
			"predictions": {"predictedClass": "Stable/Up"}
		},
		{
			"pool": "bb80379f-5c63-53cf-b227-719c481f0612",
			"chain": "Arbitrum",
			"project": "compound-v3",
			"symbol": "USDC",
			"tvlUsd": null,
			"apy": null,
			"stablecoin": true,
			"ilRisk": "no"
		},
		{
			"pool": "",
			"chain": "Base",
			"project": "morpho-v1"
		}
	]
}`

func TestProvider_FetchPools(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pools" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, poolsPayload)
	})

	pools, err := p.FetchPools(context.Background())
	if err != nil {
		t.Fatalf("FetchPools failed: %v", err)
	}

	// The record without a pool ID is dropped.
	if len(pools) != 2 {
		t.Fatalf("got %d pools, want 2", len(pools))
	}

	first := pools[0]
	if first.ID != "aa70268e-4b52-42bf-a116-608b370f9501" {
		t.Errorf("unexpected ID: %s", first.ID)
	}
	if first.Protocol != "aave-v3" || first.Chain != "Base" {
		t.Errorf("unexpected protocol/chain: %s/%s", first.Protocol, first.Chain)
	}
	if !first.APY.Equal(decimal.RequireFromString("5.23")) {
		t.Errorf("APY = %s, want 5.23", first.APY)
	}
	if first.PredictedClass != "Stable/Up" {
		t.Errorf("PredictedClass = %q", first.PredictedClass)
	}

	// Null numerics normalize to zero, missing exposure to single.
	second := pools[1]
	if !second.APY.IsZero() || !second.TVLUsd.IsZero() {
		t.Errorf("null numerics: apy=%s tvl=%s", second.APY, second.TVLUsd)
	}
	if second.Exposure != "single" {
		t.Errorf("Exposure = %q, want single", second.Exposure)
	}
}

func TestProvider_FetchPoolsServerError(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})

	_, err := p.FetchPools(context.Background())
	if err == nil {
		t.Fatal("expected error for HTTP 502")
	}
	if !apperror.IsCode(err, apperror.CodeSourceUnavailable) {
		t.Errorf("unexpected code: %s", apperror.GetCode(err))
	}
}

func TestProvider_FetchPoolsMalformedBody(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status": "success", "data": [{`)
	})

	_, err := p.FetchPools(context.Background())
	if err == nil {
		t.Fatal("expected error for malformed body")
	}
	if !apperror.IsCode(err, apperror.CodeMalformedData) {
		t.Errorf("unexpected code: %s", apperror.GetCode(err))
	}
}

func TestProvider_FetchPoolsUnexpectedStatus(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status": "error", "data": []}`)
	})

	_, err := p.FetchPools(context.Background())
	if err == nil {
		t.Fatal("expected error for non-success status")
	}
	if !apperror.IsCode(err, apperror.CodeMalformedData) {
		t.Errorf("unexpected code: %s", apperror.GetCode(err))
	}
}

func TestProvider_FetchHistory(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chart/aa70268e-4b52-42bf-a116-608b370f9501" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"status": "success",
			"data": [
				{"timestamp": "2026-07-01T00:00:00.000Z", "apy": 4.1, "tvlUsd": 100000000},
				{"timestamp": "2026-07-02T00:00:00.000Z", "apy": 4.3, "tvlUsd": 101000000},
				{"timestamp": "not-a-date", "apy": 4.4, "tvlUsd": 102000000}
			]
		}`)
	})

	points, err := p.FetchHistory(context.Background(), "aa70268e-4b52-42bf-a116-608b370f9501")
	if err != nil {
		t.Fatalf("FetchHistory failed: %v", err)
	}

	// The unparseable timestamp is dropped.
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	if points[0].Timestamp.Day() != 1 || points[1].Timestamp.Day() != 2 {
		t.Errorf("points out of order or misparsed: %v, %v", points[0].Timestamp, points[1].Timestamp)
	}
	if !points[1].APY.Equal(decimal.RequireFromString("4.3")) {
		t.Errorf("APY = %s, want 4.3", points[1].APY)
	}
}

func TestProvider_FetchHistoryCapsTrailingWindow(t *testing.T) {
	// A long-lived pool's chart spans far more than the analysis
	// window; only the trailing 30 points may come back (and be
	// cached downstream).
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	var records []string
	for i := 0; i < 40; i++ {
		day := start.AddDate(0, 0, i)
		records = append(records, fmt.Sprintf(
			`{"timestamp": %q, "apy": %d.0, "tvlUsd": 100000000}`,
			day.Format("2006-01-02T15:04:05.000Z"), i))
	}
	payload := `{"status": "success", "data": [` + strings.Join(records, ",") + `]}`

	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, payload)
	})

	points, err := p.FetchHistory(context.Background(), "some-pool")
	if err != nil {
		t.Fatalf("FetchHistory failed: %v", err)
	}

	if len(points) != 30 {
		t.Fatalf("got %d points, want 30", len(points))
	}
	// The window keeps the most recent points, oldest first.
	if !points[0].Timestamp.Equal(start.AddDate(0, 0, 10)) {
		t.Errorf("window start = %v, want day 10", points[0].Timestamp)
	}
	if !points[29].Timestamp.Equal(start.AddDate(0, 0, 39)) {
		t.Errorf("window end = %v, want day 39", points[29].Timestamp)
	}
	if !points[29].APY.Equal(decimal.NewFromInt(39)) {
		t.Errorf("last APY = %s, want 39", points[29].APY)
	}
}

func TestProvider_CircuitOpensAfterConsecutiveFailures(t *testing.T) {
	p := testProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})

	// The breaker trips after its consecutive-failure threshold.
	for i := 0; i < 6; i++ {
		if _, err := p.FetchPools(context.Background()); err == nil {
			t.Fatal("expected failures while tripping the breaker")
		}
	}

	_, err := p.FetchPools(context.Background())
	if !apperror.IsCode(err, apperror.CodeCircuitOpen) {
		t.Errorf("expected CIRCUIT_OPEN after repeated failures, got %s", apperror.GetCode(err))
	}
}

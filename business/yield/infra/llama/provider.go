package llama

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/defiscout/yieldscout/business/yield/domain"
	"github.com/defiscout/yieldscout/internal/apperror"
	"github.com/defiscout/yieldscout/internal/httpclient"
	"github.com/defiscout/yieldscout/internal/logger"
	"github.com/defiscout/yieldscout/internal/ratelimit"
)

const (
	// DeFiLlama yields API
	BaseAPIURL = "https://yields.llama.fi"

	// Endpoints
	poolsEndpoint = "/pools"
	chartEndpoint = "/chart/%s"

	// Default HTTP client settings
	httpTimeout = 10 * time.Second

	// The chart endpoint covers a pool's full lifetime; only the
	// trailing daily points are kept and cached.
	maxHistoryPoints = 30

	tracerName = "llama_provider"

	statusSuccess = "success"
)

// ProviderConfig holds configuration for the DeFiLlama provider.
type ProviderConfig struct {
	BaseURL            string        // API base URL (empty = default)
	Timeout            time.Duration // Request timeout
	RequestsPerMinute  int           // Client-side rate limit
	BreakerMaxRequests uint32        // Probes allowed while half-open
	BreakerInterval    time.Duration // Counter reset interval while closed
	BreakerTimeout     time.Duration // Open period before probing
}

// DefaultProviderConfig returns sensible defaults.
func DefaultProviderConfig() ProviderConfig {
	return ProviderConfig{
		BaseURL:            BaseAPIURL,
		Timeout:            httpTimeout,
		RequestsPerMinute:  30,
		BreakerMaxRequests: 1,
		BreakerInterval:    60 * time.Second,
		BreakerTimeout:     30 * time.Second,
	}
}

// Provider fetches pool data from the DeFiLlama yields API.
type Provider struct {
	client  httpclient.Client
	config  ProviderConfig
	logger  logger.LoggerInterface
	tracer  trace.Tracer
	limiter *ratelimit.Limiter

	poolsCB *gobreaker.CircuitBreaker[[]domain.Pool]
	chartCB *gobreaker.CircuitBreaker[[]domain.HistoryPoint]
}

// NewProvider creates a DeFiLlama provider.
func NewProvider(cfg ProviderConfig, log logger.LoggerInterface) (*Provider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = BaseAPIURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = httpTimeout
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 30
	}

	tracer := otel.Tracer(tracerName)

	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("defillama"),
		httpclient.WithBaseURL(baseURL),
		httpclient.WithRequestTimeout(timeout),
		httpclient.WithTracer(tracer),
		httpclient.WithHeaders(map[string]string{
			"Accept": "application/json",
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	p := &Provider{
		client:  client,
		config:  cfg,
		logger:  log,
		tracer:  tracer,
		limiter: ratelimit.New(rpm),
	}

	p.poolsCB = gobreaker.NewCircuitBreaker[[]domain.Pool](p.breakerSettings("llama-pools", log))
	p.chartCB = gobreaker.NewCircuitBreaker[[]domain.HistoryPoint](p.breakerSettings("llama-chart", log))

	return p, nil
}

func (p *Provider) breakerSettings(name string, log logger.LoggerInterface) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: p.config.BreakerMaxRequests,
		Interval:    p.config.BreakerInterval,
		Timeout:     p.config.BreakerTimeout,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info(context.Background(), "circuit breaker state change",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	}
}

// FetchPools returns every pool the API reports, normalized to domain
// pools. Records missing identifying fields are dropped and counted.
func (p *Provider) FetchPools(ctx context.Context) ([]domain.Pool, error) {
	ctx, span := p.tracer.Start(ctx, "llama.fetch_pools")
	defer span.End()

	pools, err := p.poolsCB.Execute(func() ([]domain.Pool, error) {
		return p.fetchPools(ctx)
	})
	if err != nil {
		span.RecordError(err)
		return nil, p.mapBreakerErr(err)
	}

	span.SetAttributes(attribute.Int("pools", len(pools)))
	return pools, nil
}

func (p *Provider) fetchPools(ctx context.Context) ([]domain.Pool, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeRateLimitExceeded, "waiting for rate limiter")
	}

	var result poolsResponse
	resp, err := p.client.NewRequestWithOptions(
		httpclient.WithLabels(
			httpclient.NewLabel("endpoint", "pools"),
		),
		httpclient.WithResponseErrorHandler(llamaErrorHandler),
	).
		SetResult(&result).
		Get(ctx, poolsEndpoint)

	if err != nil {
		// A decode failure on a 2xx response means the payload is
		// malformed, not that the source is down.
		if resp != nil && resp.IsSuccess() {
			return nil, apperror.New(apperror.CodeMalformedData,
				apperror.WithCause(err),
				apperror.WithContext("failed to decode pools response"))
		}
		return nil, apperror.New(apperror.CodeSourceUnavailable,
			apperror.WithCause(err),
			apperror.WithContext("failed to fetch pools"))
	}

	if resp.IsError() {
		return nil, apperror.New(apperror.CodeSourceUnavailable,
			apperror.WithContext(fmt.Sprintf("HTTP %d from pools endpoint", resp.StatusCode)))
	}

	if result.Status != statusSuccess {
		return nil, apperror.New(apperror.CodeMalformedData,
			apperror.WithContext(fmt.Sprintf("unexpected response status %q", result.Status)))
	}

	pools := make([]domain.Pool, 0, len(result.Data))
	dropped := 0
	for _, record := range result.Data {
		pool, ok := record.toPool()
		if !ok {
			dropped++
			continue
		}
		pools = append(pools, pool)
	}

	p.logger.Debug(ctx, "fetched pools",
		"total", len(result.Data),
		"normalized", len(pools),
		"dropped", dropped)

	return pools, nil
}

// FetchHistory returns the trailing daily APY/TVL history for a pool,
// oldest first, capped at the last 30 points.
func (p *Provider) FetchHistory(ctx context.Context, poolID string) ([]domain.HistoryPoint, error) {
	ctx, span := p.tracer.Start(ctx, "llama.fetch_history",
		trace.WithAttributes(attribute.String("pool", poolID)),
	)
	defer span.End()

	points, err := p.chartCB.Execute(func() ([]domain.HistoryPoint, error) {
		return p.fetchHistory(ctx, poolID)
	})
	if err != nil {
		span.RecordError(err)
		return nil, p.mapBreakerErr(err)
	}

	span.SetAttributes(attribute.Int("points", len(points)))
	return points, nil
}

func (p *Provider) fetchHistory(ctx context.Context, poolID string) ([]domain.HistoryPoint, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, apperror.Wrap(err, apperror.CodeRateLimitExceeded, "waiting for rate limiter")
	}

	var result chartResponse
	resp, err := p.client.NewRequestWithOptions(
		httpclient.WithLabels(
			httpclient.NewLabel("endpoint", "chart"),
		),
		httpclient.WithResponseErrorHandler(llamaErrorHandler),
	).
		SetResult(&result).
		Get(ctx, fmt.Sprintf(chartEndpoint, poolID))

	if err != nil {
		if resp != nil && resp.IsSuccess() {
			return nil, apperror.New(apperror.CodeMalformedData,
				apperror.WithCause(err),
				apperror.WithContext("failed to decode chart response"))
		}
		return nil, apperror.New(apperror.CodeSourceUnavailable,
			apperror.WithCause(err),
			apperror.WithContext("failed to fetch pool history"))
	}

	if resp.IsError() {
		return nil, apperror.New(apperror.CodeSourceUnavailable,
			apperror.WithContext(fmt.Sprintf("HTTP %d from chart endpoint", resp.StatusCode)))
	}

	if result.Status != statusSuccess {
		return nil, apperror.New(apperror.CodeMalformedData,
			apperror.WithContext(fmt.Sprintf("unexpected response status %q", result.Status)))
	}

	points := make([]domain.HistoryPoint, 0, len(result.Data))
	dropped := 0
	for _, record := range result.Data {
		point, ok := record.toHistoryPoint()
		if !ok {
			dropped++
			continue
		}
		points = append(points, point)
	}

	if len(points) > maxHistoryPoints {
		points = points[len(points)-maxHistoryPoints:]
	}

	p.logger.Debug(ctx, "fetched pool history",
		"pool", poolID,
		"points", len(points),
		"dropped", dropped)

	return points, nil
}

// mapBreakerErr translates circuit breaker errors, passing through
// everything else.
func (p *Provider) mapBreakerErr(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return apperror.New(apperror.CodeCircuitOpen, apperror.WithCause(err))
	}
	return err
}

// llamaErrorHandler surfaces non-2xx responses as errors before the
// body is decoded.
func llamaErrorHandler(statusCode int, body []byte) error {
	if statusCode >= 400 {
		return fmt.Errorf("HTTP %d: %s", statusCode, truncate(body, 200))
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}

// Package main is the entry point for the Yield Scout CLI.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/defiscout/yieldscout/business/yield/app"
	"github.com/defiscout/yieldscout/business/yield/domain"
	"github.com/defiscout/yieldscout/business/yield/infra/llama"
	"github.com/defiscout/yieldscout/business/yield/infra/render"
	"github.com/defiscout/yieldscout/internal/apm"
	"github.com/defiscout/yieldscout/internal/cache"
	"github.com/defiscout/yieldscout/internal/config"
	"github.com/defiscout/yieldscout/internal/health"
	"github.com/defiscout/yieldscout/internal/logger"
	"github.com/defiscout/yieldscout/internal/metrics"
	"github.com/defiscout/yieldscout/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

const usage = `Yield Scout - USDC yield analysis across Base and Arbitrum

Usage:
  yieldscout <command> [flags]

Commands:
  scan        Rank USDC opportunities across vetted protocols
  breakeven   Analyze whether moving funds between two pools pays off
  history     Summarize a pool's 30-day APY and TVL history
  protocols   List the vetted protocols
  watch       Live dashboard that refreshes the scan on an interval

Run 'yieldscout <command> -h' for command flags.
`

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	var err error
	switch os.Args[1] {
	case "scan":
		err = cmdScan(ctx, os.Args[2:])
	case "breakeven":
		err = cmdBreakeven(ctx, os.Args[2:])
	case "history":
		err = cmdHistory(ctx, os.Args[2:])
	case "protocols":
		err = cmdProtocols(ctx, os.Args[2:])
	case "watch":
		err = cmdWatch(ctx, os.Args[2:])
	case "version", "-version", "--version":
		fmt.Printf("yieldscout %s (commit: %s, built: %s)\n", version, commit, buildDate)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// runtime bundles everything a subcommand needs.
type runtime struct {
	cfg     *config.Config
	log     *logger.Logger
	service *app.Service
	stop    func()
}

// setup loads config and wires the service graph.
func setup(configPath string, quiet bool) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}

	var log *logger.Logger
	if quiet {
		log = logger.New(io.Discard, logLevel, cfg.App.Name, nil)
	} else {
		log = logger.New(os.Stderr, logLevel, cfg.App.Name, apm.TraceID)
	}

	stop := func() {}
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		traceProvider := apm.NewTraceProvider(log,
			apm.WithServiceName(cfg.Telemetry.ServiceName),
			apm.WithEndpoint(cfg.Telemetry.OTLPEndpoint),
			apm.WithProvider(traceProviderName(cfg.Telemetry.TraceProvider), log),
		)

		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.NewPrometheusConfig()),
		)
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(cfg.Telemetry.PrometheusPort)))

		stop = func() { traceProvider.Stop() }
	}

	store, err := newStore(cfg)
	if err != nil {
		stop()
		return nil, err
	}

	provider, err := llama.NewProvider(llama.ProviderConfig{
		BaseURL:            cfg.Source.BaseURL,
		Timeout:            cfg.Source.RequestTimeout,
		RequestsPerMinute:  cfg.Source.RequestsPerMinute,
		BreakerMaxRequests: cfg.Source.BreakerMaxRequests,
		BreakerInterval:    cfg.Source.BreakerInterval,
		BreakerTimeout:     cfg.Source.BreakerTimeout,
	}, log)
	if err != nil {
		stop()
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	costs := domain.CostPolicy{
		SameChain:  cfg.Breakeven.SameChainCostDecimal(),
		CrossChain: cfg.Breakeven.CrossChainCostDecimal(),
	}

	service := app.NewService(
		log,
		provider,
		cache.New(store),
		cfg.Cache.TTL,
		domain.DefaultRegistry(),
		costs,
	)

	return &runtime{cfg: cfg, log: log, service: service, stop: stop}, nil
}

func traceProviderName(name string) apm.Provider {
	switch strings.ToLower(name) {
	case "zipkin":
		return apm.ZipkinProvider
	case "otlp":
		return apm.OTLPProvider
	case "console":
		return apm.ConsoleProvider
	}
	return apm.EmptyProvider
}

func newStore(cfg *config.Config) (cache.Store, error) {
	if cfg.Cache.Backend == "memory" {
		return cache.NewMemoryStore()
	}
	return cache.NewFileStore(cfg.Cache.Path), nil
}

func cmdScan(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file")
	chain := fs.String("chain", "", "Filter by chain (Base or Arbitrum)")
	protocol := fs.String("protocol", "", "Filter by protocol slug")
	minTVL := fs.Float64("min-tvl", 0, "Minimum TVL in USD")
	top := fs.Int("top", 0, "Number of pools to show")
	asJSON := fs.Bool("json", false, "Output JSON")
	fs.Parse(args)

	rt, err := setup(*configPath, *asJSON)
	if err != nil {
		return err
	}
	defer rt.stop()

	filters := app.Filters{
		Chain:    *chain,
		Protocol: *protocol,
		MinTVL:   decimal.NewFromFloat(*minTVL),
		Top:      *top,
	}
	if filters.MinTVL.IsZero() && rt.cfg.Scan.MinTVL > 0 {
		filters.MinTVL = decimal.NewFromFloat(rt.cfg.Scan.MinTVL)
	}
	if filters.Top == 0 {
		filters.Top = rt.cfg.Scan.Top
	}

	pools, err := rt.service.Scan(ctx, filters)
	if err != nil {
		return err
	}

	if *asJSON {
		return printJSON(scanRows(pools))
	}

	render.NewConsoleReporter().ReportScan(pools, *chain)
	return nil
}

// scanRow is the JSON shape of one scan result.
type scanRow struct {
	Pool      string          `json:"pool"`
	Project   string          `json:"project"`
	Chain     string          `json:"chain"`
	Symbol    string          `json:"symbol"`
	APY       decimal.Decimal `json:"apy"`
	APYBase   decimal.Decimal `json:"apyBase"`
	APYReward decimal.Decimal `json:"apyReward"`
	TVLUsd    decimal.Decimal `json:"tvlUsd"`
	Risk      string          `json:"risk"`
}

func scanRows(pools []domain.Pool) []scanRow {
	rows := make([]scanRow, len(pools))
	for i, p := range pools {
		rows[i] = scanRow{
			Pool:      p.ID,
			Project:   p.Protocol,
			Chain:     p.Chain,
			Symbol:    p.Symbol,
			APY:       p.APY,
			APYBase:   p.APYBase,
			APYReward: p.APYReward,
			TVLUsd:    p.TVLUsd,
			Risk:      p.Risk.String(),
		}
	}
	return rows
}

func cmdBreakeven(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("breakeven", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file")
	fromPool := fs.String("from-pool", "", "Pool ID (or prefix) funds move from")
	toPool := fs.String("to-pool", "", "Pool ID (or prefix) funds move to")
	amount := fs.Float64("amount", 0, "Amount in USD (default from config)")
	asJSON := fs.Bool("json", false, "Output JSON")
	fs.Parse(args)

	if *fromPool == "" || *toPool == "" {
		return fmt.Errorf("both -from-pool and -to-pool are required")
	}

	rt, err := setup(*configPath, *asJSON)
	if err != nil {
		return err
	}
	defer rt.stop()

	amt := decimal.NewFromFloat(*amount)
	if amt.IsZero() {
		amt = rt.cfg.Breakeven.DefaultAmountDecimal()
	}

	result, err := rt.service.Breakeven(ctx, *fromPool, *toPool, amt)
	if err != nil {
		return err
	}

	if *asJSON {
		return printJSON(result)
	}

	render.NewConsoleReporter().ReportBreakeven(result)
	return nil
}

func cmdHistory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file")
	pool := fs.String("pool", "", "Pool ID")
	asJSON := fs.Bool("json", false, "Output JSON")
	fs.Parse(args)

	if *pool == "" {
		return fmt.Errorf("-pool is required")
	}

	rt, err := setup(*configPath, *asJSON)
	if err != nil {
		return err
	}
	defer rt.stop()

	summary, err := rt.service.History(ctx, *pool)
	if err != nil {
		return err
	}

	if *asJSON {
		return printJSON(summary)
	}

	render.NewConsoleReporter().ReportHistory(summary)
	return nil
}

func cmdProtocols(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("protocols", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file")
	asJSON := fs.Bool("json", false, "Output JSON")
	fs.Parse(args)

	rt, err := setup(*configPath, *asJSON)
	if err != nil {
		return err
	}
	defer rt.stop()

	protocols := rt.service.Protocols()

	if *asJSON {
		return printJSON(protocols)
	}

	render.NewConsoleReporter().ReportProtocols(protocols)
	return nil
}

func cmdWatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file")
	chain := fs.String("chain", "", "Filter by chain (Base or Arbitrum)")
	top := fs.Int("top", 0, "Number of pools to show")
	fs.Parse(args)

	// The TUI owns the terminal, so logs are discarded.
	rt, err := setup(*configPath, true)
	if err != nil {
		return err
	}
	defer rt.stop()

	filters := app.Filters{Chain: *chain, Top: *top}
	if filters.Top == 0 {
		filters.Top = rt.cfg.Scan.Top
	}

	// Watch mode serves health endpoints; the freshness check goes
	// degraded when refreshes stop landing.
	tracker := health.NewFreshnessTracker(3 * rt.cfg.Watch.Interval)
	healthServer := health.NewServer(rt.cfg.Watch.HealthPort, version)
	healthServer.RegisterCheck("scan_freshness", tracker.Check)
	if err := healthServer.Start(); err == nil {
		defer healthServer.Stop(ctx)
	}

	scan := func(ctx context.Context) ([]domain.Pool, error) {
		return rt.service.Scan(ctx, filters)
	}

	label := *chain
	if label == "" {
		label = strings.Join(domain.SupportedChains, " + ")
	}

	model := ui.New(scan, rt.cfg.Watch.Interval,
		ui.WithChainLabel(label),
		ui.WithOnRefresh(tracker.MarkRefreshed),
	)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

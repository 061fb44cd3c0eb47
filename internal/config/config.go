// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Source    SourceConfig    `mapstructure:"source"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Scan      ScanConfig      `mapstructure:"scan"`
	Breakeven BreakevenConfig `mapstructure:"breakeven"`
	Watch     WatchConfig     `mapstructure:"watch"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// SourceConfig holds yield data provider configuration.
type SourceConfig struct {
	BaseURL            string        `mapstructure:"base_url"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout"`
	RequestsPerMinute  int           `mapstructure:"requests_per_minute"`
	BreakerMaxRequests uint32        `mapstructure:"breaker_max_requests"`
	BreakerInterval    time.Duration `mapstructure:"breaker_interval"`
	BreakerTimeout     time.Duration `mapstructure:"breaker_timeout"`
}

// CacheConfig holds TTL cache configuration.
type CacheConfig struct {
	Backend string        `mapstructure:"backend"` // "file" or "memory"
	Path    string        `mapstructure:"path"`    // file backend only; empty = tempdir default
	TTL     time.Duration `mapstructure:"ttl"`
}

// ScanConfig holds default scan filter settings.
type ScanConfig struct {
	Top    int     `mapstructure:"top"`
	MinTVL float64 `mapstructure:"min_tvl"`
}

// BreakevenConfig holds migration cost assumptions.
type BreakevenConfig struct {
	SameChainCost  float64 `mapstructure:"same_chain_cost"`  // fraction of amount
	CrossChainCost float64 `mapstructure:"cross_chain_cost"` // fraction of amount
	DefaultAmount  float64 `mapstructure:"default_amount"`   // USD
}

// SameChainCostDecimal returns the same-chain cost fraction as decimal.Decimal.
func (c *BreakevenConfig) SameChainCostDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.SameChainCost)
}

// CrossChainCostDecimal returns the cross-chain cost fraction as decimal.Decimal.
func (c *BreakevenConfig) CrossChainCostDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.CrossChainCost)
}

// DefaultAmountDecimal returns the default transfer amount as decimal.Decimal.
func (c *BreakevenConfig) DefaultAmountDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.DefaultAmount)
}

// WatchConfig holds watch-mode settings.
type WatchConfig struct {
	Interval   time.Duration `mapstructure:"interval"`
	HealthPort int           `mapstructure:"health_port"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	TraceProvider  string `mapstructure:"trace_provider"` // console, zipkin, otlp
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("SCOUT")
	v.AutomaticEnv()

	// Bind env vars to config keys
	bindEnvVars(v)

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "SCOUT_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "SCOUT_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "SCOUT_LOG_LEVEL", "LOG_LEVEL")

	// Source
	v.BindEnv("source.base_url", "SCOUT_SOURCE_URL")
	v.BindEnv("source.request_timeout", "SCOUT_SOURCE_TIMEOUT")

	// Cache
	v.BindEnv("cache.backend", "SCOUT_CACHE_BACKEND")
	v.BindEnv("cache.path", "SCOUT_CACHE_PATH")
	v.BindEnv("cache.ttl", "SCOUT_CACHE_TTL")

	// Telemetry
	v.BindEnv("telemetry.enabled", "SCOUT_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "SCOUT_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "SCOUT_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "yield-scout")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Source defaults
	v.SetDefault("source.base_url", "https://yields.llama.fi")
	v.SetDefault("source.request_timeout", "10s")
	v.SetDefault("source.requests_per_minute", 30)
	v.SetDefault("source.breaker_max_requests", 1)
	v.SetDefault("source.breaker_interval", "60s")
	v.SetDefault("source.breaker_timeout", "30s")

	// Cache defaults
	v.SetDefault("cache.backend", "file")
	v.SetDefault("cache.path", "") // empty = <tempdir>/yield_scout_cache.json
	v.SetDefault("cache.ttl", "15m")

	// Scan defaults
	v.SetDefault("scan.top", 20)
	v.SetDefault("scan.min_tvl", 0)

	// Breakeven defaults
	v.SetDefault("breakeven.same_chain_cost", 0.01)
	v.SetDefault("breakeven.cross_chain_cost", 0.03)
	v.SetDefault("breakeven.default_amount", 10000)

	// Watch defaults
	v.SetDefault("watch.interval", "60s")
	v.SetDefault("watch.health_port", 8081)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "yield-scout")
	v.SetDefault("telemetry.trace_provider", "console")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Source.BaseURL == "" {
		return fmt.Errorf("source.base_url is required")
	}
	if c.Source.RequestTimeout <= 0 {
		return fmt.Errorf("source.request_timeout must be positive")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	if c.Cache.Backend != "file" && c.Cache.Backend != "memory" {
		return fmt.Errorf("cache.backend must be \"file\" or \"memory\", got %q", c.Cache.Backend)
	}
	if c.Breakeven.SameChainCost < 0 || c.Breakeven.CrossChainCost < 0 {
		return fmt.Errorf("breakeven cost fractions cannot be negative")
	}
	if c.Watch.Interval <= 0 {
		return fmt.Errorf("watch.interval must be positive")
	}
	return nil
}

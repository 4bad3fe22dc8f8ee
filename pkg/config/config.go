package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const maxDefaultConcurrency = 6

// Config holds the application configuration.
type Config struct {
	CatalogBaseURL  string `mapstructure:"CATALOG_BASE_URL"`
	CatalogAPIToken string `mapstructure:"CATALOG_API_TOKEN"`
	PublicBaseURL   string `mapstructure:"PUBLIC_BASE_URL"`
	RetryURLPrefix  string `mapstructure:"RETRY_URL_PREFIX"`

	StaleThresholdDays   int `mapstructure:"STALE_THRESHOLD_DAYS"`
	MaxRetries           int `mapstructure:"MAX_RETRIES"`
	Concurrency          int `mapstructure:"CONCURRENCY"`
	VisitTimeoutSeconds  int `mapstructure:"VISIT_TIMEOUT_SECONDS"`
	DiagnosticFailureCap int `mapstructure:"DIAGNOSTIC_FAILURE_CAP"`

	LogDir    string `mapstructure:"LOG_DIR"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisDB        int    `mapstructure:"REDIS_DB"`
	LedgerTTLHours int    `mapstructure:"LEDGER_TTL_HOURS"`

	PostgresURL string `mapstructure:"POSTGRES_URL"`
	MetricsAddr string `mapstructure:"METRICS_ADDR"`

	DeadPageMarkers string `mapstructure:"DEAD_PAGE_MARKERS"`
	ProxyURLs       string `mapstructure:"PROXY_URLS"`
	UserAgents      string `mapstructure:"USER_AGENTS"`
}

// Load reads configuration from an env-style file and the environment.
// A missing file is not an error, so production can rely purely on env vars.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = ".env"
	}
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("CATALOG_BASE_URL", "https://dash.bunkr.cr/api")
	v.SetDefault("CATALOG_API_TOKEN", "")
	v.SetDefault("PUBLIC_BASE_URL", "https://bunkr.pk")
	v.SetDefault("RETRY_URL_PREFIX", "https://bunkr.pk/f/")
	v.SetDefault("STALE_THRESHOLD_DAYS", 7)
	v.SetDefault("MAX_RETRIES", 3)
	v.SetDefault("CONCURRENCY", 0)
	v.SetDefault("VISIT_TIMEOUT_SECONDS", 120)
	v.SetDefault("DIAGNOSTIC_FAILURE_CAP", 10)
	v.SetDefault("LOG_DIR", "~/reviver_logs")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LEDGER_TTL_HOURS", 12)
	v.SetDefault("POSTGRES_URL", "")
	v.SetDefault("METRICS_ADDR", "")
	v.SetDefault("DEAD_PAGE_MARKERS", "")
	v.SetDefault("PROXY_URLS", "")
	v.SetDefault("USER_AGENTS", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.StaleThresholdDays < 0:
		return fmt.Errorf("STALE_THRESHOLD_DAYS must not be negative, got %d", c.StaleThresholdDays)
	case c.MaxRetries < 1:
		return fmt.Errorf("MAX_RETRIES must be at least 1, got %d", c.MaxRetries)
	case c.Concurrency < 0:
		return fmt.Errorf("CONCURRENCY must not be negative, got %d", c.Concurrency)
	case c.VisitTimeoutSeconds < 1:
		return fmt.Errorf("VISIT_TIMEOUT_SECONDS must be at least 1, got %d", c.VisitTimeoutSeconds)
	case c.DiagnosticFailureCap < 1:
		return fmt.Errorf("DIAGNOSTIC_FAILURE_CAP must be at least 1, got %d", c.DiagnosticFailureCap)
	}
	return nil
}

func (c *Config) StaleThreshold() time.Duration {
	return time.Duration(c.StaleThresholdDays) * 24 * time.Hour
}

func (c *Config) VisitTimeout() time.Duration {
	return time.Duration(c.VisitTimeoutSeconds) * time.Second
}

func (c *Config) LedgerTTL() time.Duration {
	return time.Duration(c.LedgerTTLHours) * time.Hour
}

// WorkerCount returns the configured pool size, defaulting to min(6, NumCPU).
func (c *Config) WorkerCount() int {
	if c.Concurrency > 0 {
		return c.Concurrency
	}
	return min(maxDefaultConcurrency, runtime.NumCPU())
}

// ResolvedLogDir expands a leading "~" to the user's home directory.
func (c *Config) ResolvedLogDir() (string, error) {
	dir := c.LogDir
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	return dir, nil
}

func (c *Config) DeadPageMarkerList() []string { return splitList(c.DeadPageMarkers) }
func (c *Config) ProxyURLList() []string       { return splitList(c.ProxyURLs) }
func (c *Config) UserAgentList() []string      { return splitList(c.UserAgents) }

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

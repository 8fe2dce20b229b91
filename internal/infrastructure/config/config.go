// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	url := cfg.Source.URL
//	dbPath := cfg.Storage.DatabasePath
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eshaffer321/order-analytics/internal/domain/filter"
)

// Config represents the entire application configuration
type Config struct {
	Source        SourceConfig        `yaml:"source"`
	Storage       StorageConfig       `yaml:"storage"`
	Dashboard     DashboardConfig     `yaml:"dashboard"`
	Server        ServerConfig        `yaml:"server"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// SourceConfig locates the order export
type SourceConfig struct {
	URL          string        `yaml:"url"`
	File         string        `yaml:"file"`
	Timeout      time.Duration `yaml:"timeout"`
	Retries      int           `yaml:"retries"`
	RetryWaitMin time.Duration `yaml:"retry_wait_min"`
	RetryWaitMax time.Duration `yaml:"retry_wait_max"`
}

// StorageConfig holds cache store configuration
type StorageConfig struct {
	Driver       string `yaml:"driver"` // sqlite or bunt
	DatabasePath string `yaml:"database_path"`
	BuntPath     string `yaml:"bunt_path"`
	CacheKey     string `yaml:"cache_key"`
}

// DashboardConfig holds view defaults
type DashboardConfig struct {
	Timezone           string        `yaml:"timezone"`
	DefaultPeriod      string        `yaml:"default_period"`
	TopProductsLimit   int           `yaml:"top_products_limit"`
	ChartProductsLimit int           `yaml:"chart_products_limit"`
	NoticeTTL          time.Duration `yaml:"notice_ttl"`
	RefreshTimeout     time.Duration `yaml:"refresh_timeout"`
	JobRetention       time.Duration `yaml:"job_retention"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig toggles the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Defaults
const (
	DefaultDatabasePath     = "analytics.db"
	DefaultBuntPath         = "analytics.bunt"
	DefaultCacheKey         = "cached_orders"
	DefaultPort             = 8085
	DefaultTopProducts      = 10
	DefaultChartProducts    = 5
	DefaultNoticeTTL        = 7 * time.Second
	DefaultSourceTimeout    = 30 * time.Second
	DefaultRefreshTimeout   = 2 * time.Minute
	DefaultJobRetention     = time.Hour
	DefaultDashboardPeriod  = "month"
	DefaultStorageDriver    = "sqlite"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultAllowedOriginDev = "http://localhost:3000"
)

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${ORDERS_URL})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	cfg := &Config{
		Source: SourceConfig{
			URL:     os.Getenv("ANALYTICS_SOURCE_URL"),
			File:    os.Getenv("ANALYTICS_SOURCE_FILE"),
			Timeout: getEnvDuration("ANALYTICS_SOURCE_TIMEOUT", DefaultSourceTimeout),
			Retries: getEnvInt("ANALYTICS_SOURCE_RETRIES", 2),
		},
		Storage: StorageConfig{
			Driver:       getEnv("ANALYTICS_STORAGE_DRIVER", DefaultStorageDriver),
			DatabasePath: getEnv("ANALYTICS_DB_PATH", DefaultDatabasePath),
			BuntPath:     getEnv("ANALYTICS_BUNT_PATH", DefaultBuntPath),
			CacheKey:     getEnv("ANALYTICS_CACHE_KEY", DefaultCacheKey),
		},
		Dashboard: DashboardConfig{
			Timezone:           os.Getenv("ANALYTICS_TIMEZONE"),
			DefaultPeriod:      getEnv("ANALYTICS_DEFAULT_PERIOD", DefaultDashboardPeriod),
			TopProductsLimit:   getEnvInt("ANALYTICS_TOP_PRODUCTS", DefaultTopProducts),
			ChartProductsLimit: getEnvInt("ANALYTICS_CHART_PRODUCTS", DefaultChartProducts),
			NoticeTTL:          getEnvDuration("ANALYTICS_NOTICE_TTL", DefaultNoticeTTL),
		},
		Server: ServerConfig{
			Port: getEnvInt("ANALYTICS_PORT", DefaultPort),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", DefaultLogLevel),
				Format: getEnv("LOG_FORMAT", DefaultLogFormat),
			},
			Metrics: MetricsConfig{
				Enabled: getEnvBool("ANALYTICS_METRICS_ENABLED", true),
			},
		},
	}
	if origins := os.Getenv("ANALYTICS_ALLOWED_ORIGINS"); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.Server.AllowedOrigins = append(cfg.Server.AllowedOrigins, origin)
			}
		}
	}

	cfg.ApplyDefaults()
	return cfg
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from specified path, falls back to environment variables
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// ApplyDefaults fills every unset value
func (c *Config) ApplyDefaults() {
	if c.Source.Timeout <= 0 {
		c.Source.Timeout = DefaultSourceTimeout
	}
	if c.Source.Retries < 0 {
		c.Source.Retries = 0
	}

	if c.Storage.Driver == "" {
		c.Storage.Driver = DefaultStorageDriver
	}
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = DefaultDatabasePath
	}
	if c.Storage.BuntPath == "" {
		c.Storage.BuntPath = DefaultBuntPath
	}
	if c.Storage.CacheKey == "" {
		c.Storage.CacheKey = DefaultCacheKey
	}

	if c.Dashboard.DefaultPeriod == "" {
		c.Dashboard.DefaultPeriod = DefaultDashboardPeriod
	}
	if c.Dashboard.TopProductsLimit <= 0 {
		c.Dashboard.TopProductsLimit = DefaultTopProducts
	}
	if c.Dashboard.ChartProductsLimit <= 0 {
		c.Dashboard.ChartProductsLimit = DefaultChartProducts
	}
	if c.Dashboard.NoticeTTL <= 0 {
		c.Dashboard.NoticeTTL = DefaultNoticeTTL
	}
	if c.Dashboard.RefreshTimeout <= 0 {
		c.Dashboard.RefreshTimeout = DefaultRefreshTimeout
	}
	if c.Dashboard.JobRetention <= 0 {
		c.Dashboard.JobRetention = DefaultJobRetention
	}

	if c.Server.Port <= 0 {
		c.Server.Port = DefaultPort
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{DefaultAllowedOriginDev}
	}

	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = DefaultLogLevel
	}
	if c.Observability.Logging.Format == "" {
		c.Observability.Logging.Format = DefaultLogFormat
	}
}

// Validate reports configuration that cannot work
func (c *Config) Validate() error {
	if c.Source.URL == "" && c.Source.File == "" {
		return fmt.Errorf("source: either url or file must be set")
	}
	switch c.Storage.Driver {
	case "sqlite", "bunt":
	default:
		return fmt.Errorf("storage: unknown driver %q", c.Storage.Driver)
	}
	switch c.Observability.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("observability.logging: unknown format %q", c.Observability.Logging.Format)
	}
	if _, err := filter.ParsePeriod(c.Dashboard.DefaultPeriod); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the dashboard timezone. Empty means the host's local
// zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Dashboard.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Dashboard.Timezone)
	if err != nil {
		return nil, fmt.Errorf("dashboard: invalid timezone %q: %w", c.Dashboard.Timezone, err)
	}
	return loc, nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if result, err := strconv.Atoi(val); err == nil {
			return result
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if result, err := strconv.ParseBool(val); err == nil {
			return result
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if result, err := time.ParseDuration(val); err == nil {
			return result
		}
	}
	return fallback
}

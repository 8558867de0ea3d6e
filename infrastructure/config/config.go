// Package config loads settings for the stockdash binaries from the
// environment, an optional .env file and an optional config file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting used by the dashboard, the inventory API and
// the seeder. Each binary only reads the parts it needs.
type Config struct {
	Dashboard DashboardConfig
	API       APIConfig
	Logging   LoggingConfig
}

type DashboardConfig struct {
	// Addr is the dashboard listen address (DASHBOARD_ADDR, default :8080).
	Addr string
	// RemoteURL is the inventory API base URL (INVENTORY_API_URL).
	RemoteURL string
	// Timeout bounds each API call (API_TIMEOUT, default 0 = none).
	Timeout time.Duration
	// PageSize is the number of rows per table page (PAGE_SIZE, default 5).
	PageSize int
	// MetricsSource is "remote" (use /alerts and /metrics) or "local".
	MetricsSource string
}

type APIConfig struct {
	// Addr is the inventory API listen address (API_ADDR, default :8000).
	Addr string
	// SQLitePath is the store file (SQLITE_PATH, default inventory.db).
	SQLitePath string
	// MigrationsDir overrides the embedded migrations when set.
	MigrationsDir string
}

type LoggingConfig struct {
	Level  string
	Format string
}

// LocalMetrics reports whether the dashboard derives alerts and metrics itself.
func (c DashboardConfig) LocalMetrics() bool {
	return strings.EqualFold(c.MetricsSource, "local")
}

var defaults = map[string]any{
	"DASHBOARD_ADDR":    ":8080",
	"INVENTORY_API_URL": "http://127.0.0.1:8000",
	"API_TIMEOUT":       "0s",
	"PAGE_SIZE":         5,
	"METRICS_SOURCE":    "remote",
	"API_ADDR":          ":8000",
	"SQLITE_PATH":       "inventory.db",
	"MIGRATIONS_DIR":    "",
	"LOG_LEVEL":         "info",
	"LOG_FORMAT":        "text",
}

// Load reads .env (if present, without overriding the real environment),
// then the file named by STOCKDASH_CONFIG (if set), then the environment,
// and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config load: read .env: %w", err)
	}
	return LoadFrom(viper.New(), os.Getenv("STOCKDASH_CONFIG"))
}

// LoadFrom populates a Config from v. file may be empty.
func LoadFrom(v *viper.Viper, file string) (*Config, error) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config load: read %s: %w", file, err)
		}
	}

	timeout, err := time.ParseDuration(v.GetString("API_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("config load: invalid API_TIMEOUT=%q: %w", v.GetString("API_TIMEOUT"), err)
	}

	cfg := &Config{
		Dashboard: DashboardConfig{
			Addr:          v.GetString("DASHBOARD_ADDR"),
			RemoteURL:     v.GetString("INVENTORY_API_URL"),
			Timeout:       timeout,
			PageSize:      v.GetInt("PAGE_SIZE"),
			MetricsSource: v.GetString("METRICS_SOURCE"),
		},
		API: APIConfig{
			Addr:          v.GetString("API_ADDR"),
			SQLitePath:    v.GetString("SQLITE_PATH"),
			MigrationsDir: v.GetString("MIGRATIONS_DIR"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid setting in a single error.
func (c *Config) Validate() error {
	var errs []string

	if u, err := url.Parse(c.Dashboard.RemoteURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("INVENTORY_API_URL (%q) must be an absolute URL", c.Dashboard.RemoteURL))
	}
	if c.Dashboard.Timeout < 0 {
		errs = append(errs, "API_TIMEOUT must be non-negative")
	}
	if c.Dashboard.PageSize <= 0 {
		errs = append(errs, fmt.Sprintf("PAGE_SIZE (%d) must be positive", c.Dashboard.PageSize))
	}
	switch strings.ToLower(c.Dashboard.MetricsSource) {
	case "remote", "local":
	default:
		errs = append(errs, fmt.Sprintf("METRICS_SOURCE (%q) must be one of: remote, local", c.Dashboard.MetricsSource))
	}
	if strings.TrimSpace(c.Dashboard.Addr) == "" {
		errs = append(errs, "DASHBOARD_ADDR is required")
	}
	if strings.TrimSpace(c.API.Addr) == "" {
		errs = append(errs, "API_ADDR is required")
	}
	if strings.TrimSpace(c.API.SQLitePath) == "" {
		errs = append(errs, "SQLITE_PATH is required")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

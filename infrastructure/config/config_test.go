package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(viper.New(), "")
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Dashboard.Addr != ":8080" {
		t.Errorf("Dashboard.Addr = %q, want %q", cfg.Dashboard.Addr, ":8080")
	}
	if cfg.Dashboard.RemoteURL != "http://127.0.0.1:8000" {
		t.Errorf("Dashboard.RemoteURL = %q", cfg.Dashboard.RemoteURL)
	}
	if cfg.Dashboard.PageSize != 5 {
		t.Errorf("Dashboard.PageSize = %d, want 5", cfg.Dashboard.PageSize)
	}
	if cfg.Dashboard.Timeout != 0 {
		t.Errorf("Dashboard.Timeout = %v, want 0", cfg.Dashboard.Timeout)
	}
	if cfg.Dashboard.LocalMetrics() {
		t.Errorf("expected remote metrics by default")
	}
	if cfg.API.SQLitePath != "inventory.db" {
		t.Errorf("API.SQLitePath = %q", cfg.API.SQLitePath)
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	t.Setenv("PAGE_SIZE", "10")
	t.Setenv("API_TIMEOUT", "1m30s")
	t.Setenv("METRICS_SOURCE", "local")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadFrom(viper.New(), "")
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Dashboard.PageSize != 10 {
		t.Errorf("Dashboard.PageSize = %d, want 10", cfg.Dashboard.PageSize)
	}
	if cfg.Dashboard.Timeout != 90*time.Second {
		t.Errorf("Dashboard.Timeout = %v, want 90s", cfg.Dashboard.Timeout)
	}
	if !cfg.Dashboard.LocalMetrics() {
		t.Errorf("expected local metrics")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoadFrom_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stockdash.yaml")
	if err := os.WriteFile(path, []byte("inventory_api_url: http://inventory.internal:9000\nsqlite_path: /var/lib/stock.db\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFrom(viper.New(), path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Dashboard.RemoteURL != "http://inventory.internal:9000" {
		t.Errorf("Dashboard.RemoteURL = %q", cfg.Dashboard.RemoteURL)
	}
	if cfg.API.SQLitePath != "/var/lib/stock.db" {
		t.Errorf("API.SQLitePath = %q", cfg.API.SQLitePath)
	}
}

func TestLoadFrom_BadDuration(t *testing.T) {
	t.Setenv("API_TIMEOUT", "soon")
	if _, err := LoadFrom(viper.New(), ""); err == nil || !strings.Contains(err.Error(), "API_TIMEOUT") {
		t.Fatalf("expected API_TIMEOUT error, got %v", err)
	}
}

func validConfig() *Config {
	return &Config{
		Dashboard: DashboardConfig{Addr: ":8080", RemoteURL: "http://localhost:8000", PageSize: 5, MetricsSource: "remote"},
		API:       APIConfig{Addr: ":8000", SQLitePath: "inventory.db"},
		Logging:   LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantKey string
	}{
		{"relative url", func(c *Config) { c.Dashboard.RemoteURL = "inventory" }, "INVENTORY_API_URL"},
		{"zero page size", func(c *Config) { c.Dashboard.PageSize = 0 }, "PAGE_SIZE"},
		{"metrics source", func(c *Config) { c.Dashboard.MetricsSource = "both" }, "METRICS_SOURCE"},
		{"negative timeout", func(c *Config) { c.Dashboard.Timeout = -time.Second }, "API_TIMEOUT"},
		{"log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"sqlite path", func(c *Config) { c.API.SQLitePath = " " }, "SQLITE_PATH"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("Validate() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantKey) {
				t.Errorf("error should mention %s: %v", tt.wantKey, err)
			}
		})
	}

	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

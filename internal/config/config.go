// Package config loads application configuration from an optional YAML
// file overlaid with FUNDPANEL_* environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database" envconfig:"DATABASE"`
	Sync     SyncConfig     `yaml:"sync" envconfig:"SYNC"`
	Sources  SourcesConfig  `yaml:"sources" envconfig:"SOURCES"`
	Metrics  MetricsConfig  `yaml:"metrics" envconfig:"METRICS"`
}

// DatabaseConfig contains PostgreSQL connection configuration.
type DatabaseConfig struct {
	DSN string `yaml:"dsn" envconfig:"DSN"`
}

// SyncConfig contains synchronization configuration.
type SyncConfig struct {
	StartYear        int      `yaml:"start_year" envconfig:"START_YEAR"`
	SafetyMarginDays int      `yaml:"safety_margin_days" envconfig:"SAFETY_MARGIN_DAYS"`
	FundFilter       []string `yaml:"fund_filter" envconfig:"FUND_FILTER"`
}

// SourcesConfig contains upstream data source configuration.
type SourcesConfig struct {
	FundMonthURL       string        `yaml:"fund_month_url" envconfig:"FUND_MONTH_URL"`
	FundArchiveURL     string        `yaml:"fund_archive_url" envconfig:"FUND_ARCHIVE_URL"`
	ArchiveCutoverYear int           `yaml:"archive_cutover_year" envconfig:"ARCHIVE_CUTOVER_YEAR"`
	BenchmarkURL       string        `yaml:"benchmark_url" envconfig:"BENCHMARK_URL"`
	RiskfreeURL        string        `yaml:"riskfree_url" envconfig:"RISKFREE_URL"`
	RequestsPerSecond  float64       `yaml:"requests_per_second" envconfig:"REQUESTS_PER_SECOND"`
	Timeout            time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
}

// MetricsConfig contains the Prometheus exposition endpoint configuration.
type MetricsConfig struct {
	ListenAddr string `yaml:"listen_addr" envconfig:"LISTEN_ADDR"`
}

// Load loads configuration from the YAML file at path (skipped when path
// is empty or the file does not exist), then overlays FUNDPANEL_*
// environment variables and fills remaining defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := envconfig.Process("FUNDPANEL", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Sync.StartYear == 0 {
		c.Sync.StartYear = 2005
	}
	if c.Sync.SafetyMarginDays == 0 {
		c.Sync.SafetyMarginDays = 2
	}
	if c.Sources.FundMonthURL == "" {
		c.Sources.FundMonthURL = "https://dados.cvm.gov.br/dados/FI/DOC/INF_DIARIO/DADOS/inf_diario_fi_%04d%02d.csv"
	}
	if c.Sources.FundArchiveURL == "" {
		c.Sources.FundArchiveURL = "https://dados.cvm.gov.br/dados/FI/DOC/INF_DIARIO/DADOS/HIST/inf_diario_fi_%04d.zip"
	}
	if c.Sources.ArchiveCutoverYear == 0 {
		c.Sources.ArchiveCutoverYear = 2017
	}
	if c.Sources.BenchmarkURL == "" {
		c.Sources.BenchmarkURL = "https://query1.finance.yahoo.com/v8/finance/chart/%5EBVSP"
	}
	if c.Sources.RiskfreeURL == "" {
		c.Sources.RiskfreeURL = "https://api.bcb.gov.br/dados/serie/bcdata.sgs.12/dados"
	}
	if c.Sources.RequestsPerSecond == 0 {
		c.Sources.RequestsPerSecond = 2
	}
	if c.Sources.Timeout == 0 {
		c.Sources.Timeout = 5 * time.Minute
	}
	if c.Metrics.ListenAddr == "" {
		c.Metrics.ListenAddr = ":9090"
	}
}

func (c *Config) validate() error {
	if c.Sync.StartYear < 1990 || c.Sync.StartYear > time.Now().Year() {
		return fmt.Errorf("sync start year %d out of range", c.Sync.StartYear)
	}
	if c.Sync.SafetyMarginDays < 0 {
		return fmt.Errorf("safety margin days must not be negative, got %d", c.Sync.SafetyMarginDays)
	}
	if c.Sources.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests per second must be positive, got %g", c.Sources.RequestsPerSecond)
	}
	return nil
}

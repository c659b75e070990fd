package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Sync.StartYear != 2005 {
		t.Errorf("StartYear = %d, want 2005", cfg.Sync.StartYear)
	}
	if cfg.Sync.SafetyMarginDays != 2 {
		t.Errorf("SafetyMarginDays = %d, want 2", cfg.Sync.SafetyMarginDays)
	}
	if cfg.Sources.ArchiveCutoverYear != 2017 {
		t.Errorf("ArchiveCutoverYear = %d, want 2017", cfg.Sources.ArchiveCutoverYear)
	}
	if cfg.Sources.RequestsPerSecond != 2 {
		t.Errorf("RequestsPerSecond = %g, want 2", cfg.Sources.RequestsPerSecond)
	}
	if cfg.Sources.Timeout != 5*time.Minute {
		t.Errorf("Timeout = %v, want 5m", cfg.Sources.Timeout)
	}
	if cfg.Metrics.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q, want :9090", cfg.Metrics.ListenAddr)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
database:
  dsn: postgres://localhost/panel
sync:
  start_year: 2010
  fund_filter: ["f1", "f2"]
sources:
  requests_per_second: 0.5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database.DSN != "postgres://localhost/panel" {
		t.Errorf("DSN = %q", cfg.Database.DSN)
	}
	if cfg.Sync.StartYear != 2010 {
		t.Errorf("StartYear = %d, want 2010", cfg.Sync.StartYear)
	}
	if len(cfg.Sync.FundFilter) != 2 || cfg.Sync.FundFilter[0] != "f1" {
		t.Errorf("FundFilter = %v", cfg.Sync.FundFilter)
	}
	if cfg.Sources.RequestsPerSecond != 0.5 {
		t.Errorf("RequestsPerSecond = %g, want 0.5", cfg.Sources.RequestsPerSecond)
	}
	// Untouched keys still fall back to defaults.
	if cfg.Sync.SafetyMarginDays != 2 {
		t.Errorf("SafetyMarginDays = %d, want 2", cfg.Sync.SafetyMarginDays)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("sync:\n  start_year: 2010\n"), 0o644); err != nil {
		t.Fatalf("write config file failed: %v", err)
	}
	t.Setenv("FUNDPANEL_SYNC_START_YEAR", "2015")
	t.Setenv("FUNDPANEL_DATABASE_DSN", "postgres://env/panel")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Sync.StartYear != 2015 {
		t.Errorf("StartYear = %d, want env override 2015", cfg.Sync.StartYear)
	}
	if cfg.Database.DSN != "postgres://env/panel" {
		t.Errorf("DSN = %q, want env value", cfg.Database.DSN)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Sync.StartYear != 2005 {
		t.Errorf("StartYear = %d, want 2005", cfg.Sync.StartYear)
	}
}

func TestValidationRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"start year too early", "sync:\n  start_year: 1980\n"},
		{"negative safety margin", "sync:\n  safety_margin_days: -1\n"},
		{"negative request rate", "sources:\n  requests_per_second: -1\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tc.yaml), 0o644); err != nil {
				t.Fatalf("write config file failed: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Fatal("Load succeeded, want validation error")
			}
		})
	}
}

// Package main generates the fund performance report from stored data and
// writes REPORT.md, fund_summary.csv and fund_series.csv.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fundpanel/internal/config"
	"fundpanel/internal/observability"
	"fundpanel/internal/reporting"
	pgstore "fundpanel/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (overrides config)")
	funds := flag.String("funds", "", "Comma-separated fund IDs to report on (defaults to all)")
	outputDir := flag.String("output-dir", "reports", "Output directory for generated files")
	flag.Parse()

	logger := log.New(os.Stdout, "[report] ", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Config error: %v", err)
	}
	dsn := cfg.Database.DSN
	if *postgresDSN != "" {
		dsn = *postgresDSN
	}
	if dsn == "" {
		logger.Fatal("No PostgreSQL DSN. Use --postgres-dsn or FUNDPANEL_DATABASE_DSN")
	}

	var fundFilter []string
	if *funds != "" {
		fundFilter = strings.Split(*funds, ",")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, dsn)
	if err != nil {
		logger.Fatalf("PostgreSQL connection error: %v", err)
	}
	defer pool.Close()

	gen := reporting.NewGenerator(pgstore.NewDB(pool), fundFilter).
		WithMetrics(observability.NewMetrics(""))
	report, err := gen.Generate(ctx)
	if err != nil {
		logger.Fatalf("Report error: %v", err)
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		logger.Fatalf("Output directory error: %v", err)
	}

	outputs := map[string]string{
		"REPORT.md":        reporting.RenderMarkdown(report),
		"fund_summary.csv": reporting.RenderSummaryCSV(report.Summary),
		"fund_series.csv":  reporting.RenderSeriesCSV(report.Series),
	}
	for name, content := range outputs {
		path := filepath.Join(*outputDir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			logger.Fatalf("Write error for %s: %v", path, err)
		}
		logger.Printf("Wrote %s", path)
	}
	logger.Printf("Report covers %d funds from %s to %s",
		report.FundCount,
		report.RangeStart.Format("2006-01-02"),
		report.RangeEnd.Format("2006-01-02"))
}

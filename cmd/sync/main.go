// Package main runs one synchronization cycle: refresh fund quotas, the
// benchmark index and the daily risk-free rate, then append a checkpoint.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fundpanel/internal/config"
	"fundpanel/internal/ingest"
	"fundpanel/internal/observability"
	"fundpanel/internal/storage/migrations"
	pgstore "fundpanel/internal/storage/postgres"
	"fundpanel/internal/syncer"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (overrides config)")
	asOfFlag := flag.String("as-of", "", "Synchronization time (RFC3339, defaults to now)")
	funds := flag.String("funds", "", "Comma-separated fund IDs to restrict ingestion (overrides config)")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (overrides config, empty keeps config value)")
	migrate := flag.Bool("migrate", true, "Run schema migrations before syncing")
	flag.Parse()

	logger := log.New(os.Stdout, "[sync] ", log.LstdFlags)

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

	fundFilter := cfg.Sync.FundFilter
	if *funds != "" {
		fundFilter = strings.Split(*funds, ",")
	}

	asOf := time.Now().UTC()
	if *asOfFlag != "" {
		if asOf, err = time.Parse(time.RFC3339, *asOfFlag); err != nil {
			logger.Fatalf("Bad --as-of value: %v", err)
		}
	}

	metrics := observability.NewMetrics("")
	addr := cfg.Metrics.ListenAddr
	if *metricsAddr != "" {
		addr = *metricsAddr
	}
	if addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", addr)
			if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, cancelling sync...", sig)
		cancel()
	}()

	pool, err := pgstore.NewPool(ctx, dsn)
	if err != nil {
		logger.Fatalf("PostgreSQL connection error: %v", err)
	}
	defer pool.Close()

	if *migrate {
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatalf("Migration error: %v", err)
		}
	}

	client := ingest.NewClient(cfg.Sources.Timeout, cfg.Sources.RequestsPerSecond)
	s := syncer.New(syncer.Options{
		DB:               pgstore.NewDB(pool),
		Funds:            ingest.NewCVMFundSource(client, cfg.Sources.FundMonthURL, cfg.Sources.FundArchiveURL, cfg.Sources.ArchiveCutoverYear),
		Benchmark:        ingest.NewCandleBenchmarkSource(client, cfg.Sources.BenchmarkURL),
		Riskfree:         ingest.NewSGSRiskfreeSource(client, cfg.Sources.RiskfreeURL),
		FundFilter:       fundFilter,
		StartYear:        cfg.Sync.StartYear,
		SafetyMarginDays: cfg.Sync.SafetyMarginDays,
		Logger:           logger,
		Metrics:          metrics,
	})

	result, err := s.Sync(ctx, asOf)
	if err != nil {
		logger.Fatalf("Sync error: %v", err)
	}

	logger.Printf("Window start: %s (full build: %v)", result.WindowStart.Format("2006-01-02"), result.FullBuild)
	logger.Printf("Fund rows: %d ingested, %d deleted", result.FundRows, result.FundRowsDeleted)
	logger.Printf("Benchmark rows: %d ingested, %d deleted", result.BenchmarkRows, result.BenchmarkRowsDeleted)
	logger.Printf("Riskfree rows: %d ingested, %d deleted", result.RiskfreeRows, result.RiskfreeRowsDeleted)
	if result.PeriodsSkipped > 0 {
		logger.Printf("Periods skipped: %d", result.PeriodsSkipped)
	}
	logger.Printf("Checkpoint %d appended at %s", result.Checkpoint.Sequence, result.Checkpoint.Timestamp.Format(time.RFC3339))
}

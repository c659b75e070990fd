// Package main creates the PostgreSQL schema for the fund price panel.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"fundpanel/internal/config"
	"fundpanel/internal/storage/migrations"
	pgstore "fundpanel/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (overrides config)")
	flag.Parse()

	logger := log.New(os.Stdout, "[initdb] ", log.LstdFlags)

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

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, dsn)
	if err != nil {
		logger.Fatalf("PostgreSQL connection error: %v", err)
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		logger.Fatalf("Migration error: %v", err)
	}
	logger.Println("Schema is up to date")
}

// Package memory provides map-backed stores used in tests and for dry runs.
// Transact emulates the transactional unit of work by snapshotting every
// store and restoring the snapshots when the callback fails.
package memory

import (
	"context"
	"sync"

	"fundpanel/internal/storage"
)

// DB bundles the in-memory stores behind storage.DB.
type DB struct {
	txMu sync.Mutex // serializes Transact; single-process only

	fundQuotes  *FundQuoteStore
	benchmark   *BenchmarkStore
	riskfree    *RiskfreeStore
	checkpoints *CheckpointStore
}

// NewDB creates an empty in-memory database.
func NewDB() *DB {
	return &DB{
		fundQuotes:  NewFundQuoteStore(),
		benchmark:   NewBenchmarkStore(),
		riskfree:    NewRiskfreeStore(),
		checkpoints: NewCheckpointStore(),
	}
}

var _ storage.DB = (*DB)(nil)

func (db *DB) FundQuotes() storage.FundQuoteStore   { return db.fundQuotes }
func (db *DB) Benchmark() storage.BenchmarkStore    { return db.benchmark }
func (db *DB) Riskfree() storage.RiskfreeStore      { return db.riskfree }
func (db *DB) Checkpoints() storage.CheckpointStore { return db.checkpoints }

// Transact runs fn against the database, rolling every store back to its
// pre-transaction state if fn returns an error.
func (db *DB) Transact(_ context.Context, fn func(storage.DB) error) error {
	db.txMu.Lock()
	defer db.txMu.Unlock()

	quotes := db.fundQuotes.snapshot()
	bench := db.benchmark.snapshot()
	rates := db.riskfree.snapshot()
	log := db.checkpoints.snapshot()

	if err := fn(db); err != nil {
		db.fundQuotes.restore(quotes)
		db.benchmark.restore(bench)
		db.riskfree.restore(rates)
		db.checkpoints.restore(log)
		return err
	}
	return nil
}

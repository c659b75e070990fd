// Package postgres implements the panel stores on PostgreSQL via pgx. The
// synchronizer's delete-append-checkpoint cycle runs inside a single database
// transaction, so a crash mid-cycle leaves neither a partial refresh window
// nor a dangling checkpoint.
package postgres

import (
	"context"
	"fmt"

	"fundpanel/internal/storage"
)

// DB implements storage.DB on a pgx pool.
type DB struct {
	pool *Pool
	q    querier
	inTx bool
}

// NewDB creates a postgres-backed database handle.
func NewDB(pool *Pool) *DB {
	return &DB{pool: pool, q: pool.Pool}
}

var _ storage.DB = (*DB)(nil)

func (db *DB) FundQuotes() storage.FundQuoteStore   { return &FundQuoteStore{q: db.q} }
func (db *DB) Benchmark() storage.BenchmarkStore    { return &BenchmarkStore{q: db.q} }
func (db *DB) Riskfree() storage.RiskfreeStore      { return &RiskfreeStore{q: db.q} }
func (db *DB) Checkpoints() storage.CheckpointStore { return &CheckpointStore{q: db.q} }

// Transact runs fn against a transaction-scoped view. Nested calls reuse the
// surrounding transaction.
func (db *DB) Transact(ctx context.Context, fn func(storage.DB) error) error {
	if db.inTx {
		return fn(db)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&DB{pool: db.pool, q: tx, inTx: true}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

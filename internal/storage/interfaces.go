package storage

import (
	"context"
	"time"

	"fundpanel/internal/domain"
)

// FundQuoteStore provides access to daily_quotas storage.
type FundQuoteStore interface {
	// InsertBulk adds multiple quotes. Returns ErrDuplicateKey if any
	// (fund_id, quote_date) already exists; the batch fails as a whole.
	InsertBulk(ctx context.Context, quotes []*domain.FundQuote) error

	// GetByFund retrieves all quotes for a fund, ordered by date ASC.
	GetByFund(ctx context.Context, fundID string) ([]*domain.FundQuote, error)

	// GetAll retrieves quotes ordered by (fund_id, date). A non-empty
	// filter restricts the result to the listed funds.
	GetAll(ctx context.Context, fundFilter []string) ([]*domain.FundQuote, error)

	// DeleteFrom removes all quotes with date >= cutoff and returns the
	// number of rows removed.
	DeleteFrom(ctx context.Context, cutoff time.Time) (int64, error)

	// Count returns the total number of stored quotes.
	Count(ctx context.Context) (int64, error)
}

// BenchmarkStore provides access to benchmark_quotes storage.
type BenchmarkStore interface {
	// InsertBulk adds multiple quotes. Fails the whole batch on any
	// duplicate date.
	InsertBulk(ctx context.Context, quotes []*domain.BenchmarkQuote) error

	// GetAll retrieves all benchmark quotes ordered by date ASC.
	GetAll(ctx context.Context) ([]*domain.BenchmarkQuote, error)

	// DeleteFrom removes all quotes with date >= cutoff.
	DeleteFrom(ctx context.Context, cutoff time.Time) (int64, error)

	Count(ctx context.Context) (int64, error)
}

// RiskfreeStore provides access to riskfree_rates storage.
type RiskfreeStore interface {
	// InsertBulk adds multiple rates. Fails the whole batch on any
	// duplicate date.
	InsertBulk(ctx context.Context, rates []*domain.RiskfreeRate) error

	// GetAll retrieves all rates ordered by date ASC.
	GetAll(ctx context.Context) ([]*domain.RiskfreeRate, error)

	// DeleteFrom removes all rates with date >= cutoff.
	DeleteFrom(ctx context.Context, cutoff time.Time) (int64, error)

	// LastBefore returns the latest rate with date < cutoff, for chaining
	// the cumulative index across a refresh window. Returns ErrNotFound
	// if no such row exists.
	LastBefore(ctx context.Context, cutoff time.Time) (*domain.RiskfreeRate, error)

	Count(ctx context.Context) (int64, error)
}

// CheckpointStore provides the append-only synchronization log.
type CheckpointStore interface {
	// Append adds one checkpoint; the store assigns the next sequence.
	Append(ctx context.Context, cp *domain.Checkpoint) error

	// Last returns the checkpoint with the maximum timestamp. Returns
	// ErrNotFound if the log is empty.
	Last(ctx context.Context) (*domain.Checkpoint, error)

	Count(ctx context.Context) (int64, error)
}

// DB groups the panel stores and provides the synchronizer's unit of work.
type DB interface {
	FundQuotes() FundQuoteStore
	Benchmark() BenchmarkStore
	Riskfree() RiskfreeStore
	Checkpoints() CheckpointStore

	// Transact runs fn against a transactional view of the store. If fn
	// returns an error, every mutation made through the view is rolled
	// back; the synchronizer relies on this so a failed cycle never
	// leaves a deleted tail, partial rows, or a dangling checkpoint.
	Transact(ctx context.Context, fn func(DB) error) error
}

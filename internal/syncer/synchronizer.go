// Package syncer drives incremental, checkpointed synchronization of the
// fund price panel: fund quotas, the benchmark index and the daily
// risk-free rate are refreshed from their sources inside a single unit of
// work, then a checkpoint is appended.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"fundpanel/internal/calendar"
	"fundpanel/internal/domain"
	"fundpanel/internal/ingest"
	"fundpanel/internal/observability"
	"fundpanel/internal/storage"
)

// DefaultStartYear is the first year fetched when the checkpoint log is
// empty and no start year is configured.
const DefaultStartYear = 2005

// DefaultSafetyMarginDays is the number of trading days subtracted from the
// last checkpoint when computing the refresh window, so late source
// restatements are re-ingested.
const DefaultSafetyMarginDays = 2

// Options contains configuration for creating a Synchronizer.
type Options struct {
	DB storage.DB

	Funds     ingest.FundSource
	Benchmark ingest.BenchmarkSource
	Riskfree  ingest.RiskfreeSource

	// Calendar decides which days count toward the safety margin.
	// Defaults to weekday-only trading days.
	Calendar calendar.Trading

	// FundFilter restricts fund ingestion to the listed fund IDs when
	// non-empty.
	FundFilter []string

	StartYear        int
	SafetyMarginDays int

	Logger  *log.Logger
	Metrics *observability.Metrics
}

// Synchronizer performs one synchronization cycle per Sync call.
type Synchronizer struct {
	db storage.DB

	funds     ingest.FundSource
	benchmark ingest.BenchmarkSource
	riskfree  ingest.RiskfreeSource

	cal        calendar.Trading
	fundFilter []string
	startYear  int
	margin     int

	logger  *log.Logger
	metrics *observability.Metrics
}

// Result summarizes one synchronization cycle.
type Result struct {
	// WindowStart is the first date refreshed; every stored row with a
	// date at or after it was deleted and re-ingested.
	WindowStart time.Time

	// FullBuild reports whether the cycle ran against an empty
	// checkpoint log and rebuilt history from the start year.
	FullBuild bool

	FundRows      int
	BenchmarkRows int
	RiskfreeRows  int

	FundRowsDeleted      int64
	BenchmarkRowsDeleted int64
	RiskfreeRowsDeleted  int64

	// PeriodsSkipped counts monthly fund periods whose fetch failed and
	// was skipped.
	PeriodsSkipped int

	Checkpoint *domain.Checkpoint
}

// New creates a Synchronizer with the provided sources and store.
func New(opts Options) *Synchronizer {
	cal := opts.Calendar
	if cal == nil {
		cal = calendar.NewWeekdays()
	}
	startYear := opts.StartYear
	if startYear == 0 {
		startYear = DefaultStartYear
	}
	margin := opts.SafetyMarginDays
	if margin == 0 {
		margin = DefaultSafetyMarginDays
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[syncer] ", log.LstdFlags)
	}
	return &Synchronizer{
		db:         opts.DB,
		funds:      opts.Funds,
		benchmark:  opts.Benchmark,
		riskfree:   opts.Riskfree,
		cal:        cal,
		fundFilter: opts.FundFilter,
		startYear:  startYear,
		margin:     margin,
		logger:     logger,
		metrics:    opts.Metrics,
	}
}

// Sync runs one cycle as of the given time. The refresh window starts at
// the last checkpoint minus the safety margin in trading days, or at
// January 1st of the start year when no checkpoint exists. All deletes,
// inserts and the new checkpoint commit together or not at all.
func (s *Synchronizer) Sync(ctx context.Context, asOf time.Time) (*Result, error) {
	started := time.Now()

	result, err := s.sync(ctx, asOf)
	if err != nil {
		s.metrics.RecordSyncRun("failure", time.Since(started).Seconds())
		return nil, err
	}

	s.metrics.RecordSyncRun("success", time.Since(started).Seconds())
	s.metrics.RecordRows("daily_quotas", int64(result.FundRows), result.FundRowsDeleted)
	s.metrics.RecordRows("benchmark_quotes", int64(result.BenchmarkRows), result.BenchmarkRowsDeleted)
	s.metrics.RecordRows("riskfree_rates", int64(result.RiskfreeRows), result.RiskfreeRowsDeleted)
	if result.FullBuild {
		s.metrics.RecordFullBuild()
	}
	s.metrics.MarkSyncSuccess(asOf.Unix())

	s.logger.Printf("sync complete: window=%s funds=%d benchmark=%d riskfree=%d skipped=%d full_build=%v",
		result.WindowStart.Format("2006-01-02"), result.FundRows, result.BenchmarkRows,
		result.RiskfreeRows, result.PeriodsSkipped, result.FullBuild)
	return result, nil
}

func (s *Synchronizer) sync(ctx context.Context, asOf time.Time) (*Result, error) {
	end := domain.DayOf(asOf)

	result := &Result{}

	last, err := s.db.Checkpoints().Last(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		result.FullBuild = true
		result.WindowStart = domain.Date(s.startYear, time.January, 1)
	case err != nil:
		return nil, fmt.Errorf("read last checkpoint: %w", err)
	default:
		result.WindowStart = s.cal.SubTradingDays(domain.DayOf(last.Timestamp), s.margin)
	}
	if result.WindowStart.After(end) {
		result.WindowStart = end
	}
	window := result.WindowStart

	err = s.db.Transact(ctx, func(tx storage.DB) error {
		// Deleted unconditionally: a full build over a store that already
		// holds rows but no checkpoint (a crash before the first
		// checkpoint committed, or a migrated table) supersedes them
		// instead of colliding on insert.
		var err error
		if result.FundRowsDeleted, err = tx.FundQuotes().DeleteFrom(ctx, window); err != nil {
			s.metrics.RecordDBError("delete_tail")
			return fmt.Errorf("delete fund tail: %w", err)
		}
		if result.BenchmarkRowsDeleted, err = tx.Benchmark().DeleteFrom(ctx, window); err != nil {
			s.metrics.RecordDBError("delete_tail")
			return fmt.Errorf("delete benchmark tail: %w", err)
		}
		if result.RiskfreeRowsDeleted, err = tx.Riskfree().DeleteFrom(ctx, window); err != nil {
			s.metrics.RecordDBError("delete_tail")
			return fmt.Errorf("delete riskfree tail: %w", err)
		}

		if err := s.syncFunds(ctx, tx, window, end, result); err != nil {
			return err
		}

		var benchRows []*domain.BenchmarkQuote
		var rates []*domain.RiskfreeRate
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			if benchRows, err = s.benchmark.Fetch(gctx, window, end); err != nil {
				s.metrics.RecordSourceError("benchmark")
				return fmt.Errorf("fetch benchmark: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			if rates, err = s.riskfree.Fetch(gctx, window, end); err != nil {
				s.metrics.RecordSourceError("riskfree")
				return fmt.Errorf("fetch riskfree: %w", err)
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			return err
		}

		if len(benchRows) > 0 {
			if err := tx.Benchmark().InsertBulk(ctx, benchRows); err != nil {
				s.metrics.RecordDBError("insert")
				return fmt.Errorf("insert benchmark: %w", err)
			}
		}
		result.BenchmarkRows = len(benchRows)

		if err := s.chainRiskfree(ctx, tx, window, rates); err != nil {
			return err
		}
		if len(rates) > 0 {
			if err := tx.Riskfree().InsertBulk(ctx, rates); err != nil {
				s.metrics.RecordDBError("insert")
				return fmt.Errorf("insert riskfree: %w", err)
			}
		}
		result.RiskfreeRows = len(rates)

		cp := &domain.Checkpoint{Timestamp: asOf.UTC()}
		if err := tx.Checkpoints().Append(ctx, cp); err != nil {
			s.metrics.RecordDBError("append_checkpoint")
			return fmt.Errorf("append checkpoint: %w", err)
		}
		result.Checkpoint = cp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// syncFunds re-ingests every monthly period overlapping [window, end].
// A period whose fetch fails is logged and skipped; rows outside the
// window are dropped so re-fetched months never collide with history
// kept before the window start.
func (s *Synchronizer) syncFunds(ctx context.Context, tx storage.DB, window, end time.Time, result *Result) error {
	endPeriod := ingest.PeriodOf(end)
	for p := ingest.PeriodOf(window); !p.After(endPeriod); p = p.Next() {
		quotes, err := s.funds.Fetch(ctx, p, s.fundFilter)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Printf("skipping fund period %s: %v", p, err)
			result.PeriodsSkipped++
			s.metrics.RecordSourceError("funds")
			s.metrics.RecordPeriodSkipped()
			continue
		}

		kept := quotes[:0]
		for _, q := range quotes {
			if q.Date.Before(window) || q.Date.After(end) {
				continue
			}
			kept = append(kept, q)
		}
		if len(kept) == 0 {
			continue
		}
		if err := tx.FundQuotes().InsertBulk(ctx, kept); err != nil {
			s.metrics.RecordDBError("insert")
			return fmt.Errorf("insert fund quotes for %s: %w", p, err)
		}
		result.FundRows += len(kept)
	}
	return nil
}

// chainRiskfree fills in the cumulative index for freshly fetched rates,
// continuing from the last stored index before the window (1.0 when the
// table holds no earlier history).
func (s *Synchronizer) chainRiskfree(ctx context.Context, tx storage.DB, window time.Time, rates []*domain.RiskfreeRate) error {
	index := 1.0
	prev, err := tx.Riskfree().LastBefore(ctx, window)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// no history before the window, chain from 1.0
	case err != nil:
		return fmt.Errorf("read riskfree index base: %w", err)
	default:
		index = prev.Index
	}

	sort.Slice(rates, func(i, j int) bool { return rates[i].Date.Before(rates[j].Date) })
	for _, r := range rates {
		index *= 1 + r.Rate
		r.Index = index
	}
	return nil
}

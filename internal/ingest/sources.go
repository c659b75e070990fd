// Package ingest adapts external data portals into the internal row shape.
// Sources are batch HTTP: monthly fund quota reports (CSV, yearly ZIP
// archives for old years), daily benchmark candles (JSON) and the policy-rate
// series (JSON). The synchronizer treats ErrUnavailable as "skip this
// period": a failed fetch leaves that period out of the current cycle and the
// next run's refresh window picks it up.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fundpanel/internal/domain"
)

// ErrUnavailable marks a transient source failure: the requested period is
// not yet published or the portal did not respond.
var ErrUnavailable = errors.New("source unavailable for requested period")

// Period is one calendar month, the fund source's publication unit.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the period containing a date.
func PeriodOf(t time.Time) Period {
	y, m, _ := t.UTC().Date()
	return Period{Year: y, Month: m}
}

// Next returns the following month.
func (p Period) Next() Period {
	if p.Month == time.December {
		return Period{Year: p.Year + 1, Month: time.January}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

// After reports whether p is a later month than q.
func (p Period) After(q Period) bool {
	return p.Year > q.Year || (p.Year == q.Year && p.Month > q.Month)
}

// Start returns the first day of the period.
func (p Period) Start() time.Time {
	return domain.Date(p.Year, p.Month, 1)
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// FundSource produces the daily fund quote rows published for one period.
// An empty result is a valid outcome (nothing published for the period yet).
type FundSource interface {
	Fetch(ctx context.Context, period Period, fundFilter []string) ([]*domain.FundQuote, error)
}

// BenchmarkSource produces benchmark index candles for a date range.
type BenchmarkSource interface {
	Fetch(ctx context.Context, from, to time.Time) ([]*domain.BenchmarkQuote, error)
}

// RiskfreeSource produces policy-rate observations for a date range. The
// cumulative index is not the source's concern; the synchronizer chains it.
type RiskfreeSource interface {
	Fetch(ctx context.Context, from, to time.Time) ([]*domain.RiskfreeRate, error)
}

package stub

import (
	"context"
	"time"

	"fundpanel/internal/domain"
	"fundpanel/internal/ingest"
)

// StubFundSource returns fixed in-memory fund quotes for testing.
// Periods can be marked unavailable to exercise skip semantics.
// Implements ingest.FundSource interface.
type StubFundSource struct {
	quotes      []*domain.FundQuote
	unavailable map[ingest.Period]bool

	// FetchedPeriods records every Fetch call in order.
	FetchedPeriods []ingest.Period
}

// NewStubFundSource creates a new stub fund source with the given quotes.
func NewStubFundSource(quotes []*domain.FundQuote) *StubFundSource {
	return &StubFundSource{
		quotes:      quotes,
		unavailable: make(map[ingest.Period]bool),
	}
}

// MarkUnavailable makes Fetch return ErrUnavailable for the given period.
func (s *StubFundSource) MarkUnavailable(p ingest.Period) {
	s.unavailable[p] = true
}

// Fetch returns quotes falling inside the period, filtered to fundFilter
// when non-empty. Returns copies to prevent mutation.
func (s *StubFundSource) Fetch(_ context.Context, period ingest.Period, fundFilter []string) ([]*domain.FundQuote, error) {
	s.FetchedPeriods = append(s.FetchedPeriods, period)
	if s.unavailable[period] {
		return nil, ingest.ErrUnavailable
	}

	wanted := make(map[string]bool, len(fundFilter))
	for _, id := range fundFilter {
		wanted[id] = true
	}

	var result []*domain.FundQuote
	for _, q := range s.quotes {
		if ingest.PeriodOf(q.Date) != period {
			continue
		}
		if len(wanted) > 0 && !wanted[q.FundID] {
			continue
		}
		copy := *q
		result = append(result, &copy)
	}
	return result, nil
}

// StubBenchmarkSource returns fixed in-memory benchmark quotes for testing.
// Implements ingest.BenchmarkSource interface.
type StubBenchmarkSource struct {
	quotes []*domain.BenchmarkQuote
	err    error
}

// NewStubBenchmarkSource creates a new stub benchmark source.
func NewStubBenchmarkSource(quotes []*domain.BenchmarkQuote) *StubBenchmarkSource {
	return &StubBenchmarkSource{quotes: quotes}
}

// Fail makes every Fetch return the given error.
func (s *StubBenchmarkSource) Fail(err error) {
	s.err = err
}

// Fetch returns quotes with dates in [from, to].
func (s *StubBenchmarkSource) Fetch(_ context.Context, from, to time.Time) ([]*domain.BenchmarkQuote, error) {
	if s.err != nil {
		return nil, s.err
	}
	var result []*domain.BenchmarkQuote
	for _, q := range s.quotes {
		if q.Date.Before(from) || q.Date.After(to) {
			continue
		}
		copy := *q
		result = append(result, &copy)
	}
	return result, nil
}

// StubRiskfreeSource returns fixed in-memory daily rates for testing.
// Implements ingest.RiskfreeSource interface.
type StubRiskfreeSource struct {
	rates []*domain.RiskfreeRate
	err   error
}

// NewStubRiskfreeSource creates a new stub risk-free rate source.
func NewStubRiskfreeSource(rates []*domain.RiskfreeRate) *StubRiskfreeSource {
	return &StubRiskfreeSource{rates: rates}
}

// Fail makes every Fetch return the given error.
func (s *StubRiskfreeSource) Fail(err error) {
	s.err = err
}

// Fetch returns rates with dates in [from, to]. Index is left zero; the
// synchronizer chains it against stored history.
func (s *StubRiskfreeSource) Fetch(_ context.Context, from, to time.Time) ([]*domain.RiskfreeRate, error) {
	if s.err != nil {
		return nil, s.err
	}
	var result []*domain.RiskfreeRate
	for _, r := range s.rates {
		if r.Date.Before(from) || r.Date.After(to) {
			continue
		}
		copy := *r
		copy.Index = 0
		result = append(result, &copy)
	}
	return result, nil
}

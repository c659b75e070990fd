package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"fundpanel/internal/domain"
	"fundpanel/internal/storage"
)

// FundQuoteStore is an in-memory implementation of storage.FundQuoteStore.
type FundQuoteStore struct {
	mu   sync.RWMutex
	data map[string]*domain.FundQuote // keyed by (fund_id, date)
}

// NewFundQuoteStore creates a new in-memory fund quote store.
func NewFundQuoteStore() *FundQuoteStore {
	return &FundQuoteStore{data: make(map[string]*domain.FundQuote)}
}

var _ storage.FundQuoteStore = (*FundQuoteStore)(nil)

func quoteKey(fundID string, date time.Time) string {
	return fmt.Sprintf("%s|%s", fundID, date.UTC().Format("2006-01-02"))
}

// InsertBulk adds multiple quotes. Fails the whole batch on any duplicate.
func (s *FundQuoteStore) InsertBulk(_ context.Context, quotes []*domain.FundQuote) error {
	if len(quotes) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(quotes))
	for _, q := range quotes {
		if q == nil || q.FundID == "" {
			return storage.ErrInvalidInput
		}
		key := quoteKey(q.FundID, q.Date)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, q := range quotes {
		quoteCopy := *q
		s.data[quoteKey(q.FundID, q.Date)] = &quoteCopy
	}
	return nil
}

// GetByFund retrieves all quotes for a fund, ordered by date ASC.
func (s *FundQuoteStore) GetByFund(_ context.Context, fundID string) ([]*domain.FundQuote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.FundQuote
	for _, q := range s.data {
		if q.FundID == fundID {
			quoteCopy := *q
			result = append(result, &quoteCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

// GetAll retrieves quotes ordered by (fund_id, date), optionally filtered.
func (s *FundQuoteStore) GetAll(_ context.Context, fundFilter []string) ([]*domain.FundQuote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keep map[string]struct{}
	if len(fundFilter) > 0 {
		keep = make(map[string]struct{}, len(fundFilter))
		for _, f := range fundFilter {
			keep[f] = struct{}{}
		}
	}

	var result []*domain.FundQuote
	for _, q := range s.data {
		if keep != nil {
			if _, ok := keep[q.FundID]; !ok {
				continue
			}
		}
		quoteCopy := *q
		result = append(result, &quoteCopy)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].FundID != result[j].FundID {
			return result[i].FundID < result[j].FundID
		}
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

// DeleteFrom removes all quotes with date >= cutoff.
func (s *FundQuoteStore) DeleteFrom(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for key, q := range s.data {
		if !q.Date.Before(cutoff) {
			delete(s.data, key)
			n++
		}
	}
	return n, nil
}

// Count returns the total number of stored quotes.
func (s *FundQuoteStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.data)), nil
}

func (s *FundQuoteStore) snapshot() map[string]*domain.FundQuote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*domain.FundQuote, len(s.data))
	for k, v := range s.data {
		quoteCopy := *v
		out[k] = &quoteCopy
	}
	return out
}

func (s *FundQuoteStore) restore(data map[string]*domain.FundQuote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
}

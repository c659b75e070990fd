package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"fundpanel/internal/domain"
	"fundpanel/internal/storage"
)

// BenchmarkStore is an in-memory implementation of storage.BenchmarkStore.
type BenchmarkStore struct {
	mu   sync.RWMutex
	data map[time.Time]*domain.BenchmarkQuote
}

// NewBenchmarkStore creates a new in-memory benchmark store.
func NewBenchmarkStore() *BenchmarkStore {
	return &BenchmarkStore{data: make(map[time.Time]*domain.BenchmarkQuote)}
}

var _ storage.BenchmarkStore = (*BenchmarkStore)(nil)

// InsertBulk adds multiple quotes. Fails the whole batch on any duplicate.
func (s *BenchmarkStore) InsertBulk(_ context.Context, quotes []*domain.BenchmarkQuote) error {
	if len(quotes) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[time.Time]struct{}, len(quotes))
	for _, q := range quotes {
		if q == nil {
			return storage.ErrInvalidInput
		}
		key := q.Date.UTC()
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
		s.data[q.Date.UTC()] = &quoteCopy
	}
	return nil
}

// GetAll retrieves all benchmark quotes ordered by date ASC.
func (s *BenchmarkStore) GetAll(_ context.Context) ([]*domain.BenchmarkQuote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.BenchmarkQuote, 0, len(s.data))
	for _, q := range s.data {
		quoteCopy := *q
		result = append(result, &quoteCopy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

// DeleteFrom removes all quotes with date >= cutoff.
func (s *BenchmarkStore) DeleteFrom(_ context.Context, cutoff time.Time) (int64, error) {
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

// Count returns the number of stored quotes.
func (s *BenchmarkStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.data)), nil
}

func (s *BenchmarkStore) snapshot() map[time.Time]*domain.BenchmarkQuote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[time.Time]*domain.BenchmarkQuote, len(s.data))
	for k, v := range s.data {
		quoteCopy := *v
		out[k] = &quoteCopy
	}
	return out
}

func (s *BenchmarkStore) restore(data map[time.Time]*domain.BenchmarkQuote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
}

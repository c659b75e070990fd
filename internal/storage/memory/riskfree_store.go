package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"fundpanel/internal/domain"
	"fundpanel/internal/storage"
)

// RiskfreeStore is an in-memory implementation of storage.RiskfreeStore.
type RiskfreeStore struct {
	mu   sync.RWMutex
	data map[time.Time]*domain.RiskfreeRate
}

// NewRiskfreeStore creates a new in-memory risk-free rate store.
func NewRiskfreeStore() *RiskfreeStore {
	return &RiskfreeStore{data: make(map[time.Time]*domain.RiskfreeRate)}
}

var _ storage.RiskfreeStore = (*RiskfreeStore)(nil)

// InsertBulk adds multiple rates. Fails the whole batch on any duplicate.
func (s *RiskfreeStore) InsertBulk(_ context.Context, rates []*domain.RiskfreeRate) error {
	if len(rates) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[time.Time]struct{}, len(rates))
	for _, r := range rates {
		if r == nil {
			return storage.ErrInvalidInput
		}
		key := r.Date.UTC()
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, r := range rates {
		rateCopy := *r
		s.data[r.Date.UTC()] = &rateCopy
	}
	return nil
}

// GetAll retrieves all rates ordered by date ASC.
func (s *RiskfreeStore) GetAll(_ context.Context) ([]*domain.RiskfreeRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.RiskfreeRate, 0, len(s.data))
	for _, r := range s.data {
		rateCopy := *r
		result = append(result, &rateCopy)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

// DeleteFrom removes all rates with date >= cutoff.
func (s *RiskfreeStore) DeleteFrom(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for key, r := range s.data {
		if !r.Date.Before(cutoff) {
			delete(s.data, key)
			n++
		}
	}
	return n, nil
}

// LastBefore returns the latest rate with date < cutoff.
func (s *RiskfreeStore) LastBefore(_ context.Context, cutoff time.Time) (*domain.RiskfreeRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var last *domain.RiskfreeRate
	for _, r := range s.data {
		if r.Date.Before(cutoff) && (last == nil || r.Date.After(last.Date)) {
			last = r
		}
	}
	if last == nil {
		return nil, storage.ErrNotFound
	}
	rateCopy := *last
	return &rateCopy, nil
}

// Count returns the number of stored rates.
func (s *RiskfreeStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.data)), nil
}

func (s *RiskfreeStore) snapshot() map[time.Time]*domain.RiskfreeRate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[time.Time]*domain.RiskfreeRate, len(s.data))
	for k, v := range s.data {
		rateCopy := *v
		out[k] = &rateCopy
	}
	return out
}

func (s *RiskfreeStore) restore(data map[time.Time]*domain.RiskfreeRate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
}

package memory

import (
	"context"
	"sync"

	"fundpanel/internal/domain"
	"fundpanel/internal/storage"
)

// CheckpointStore is an in-memory implementation of storage.CheckpointStore.
type CheckpointStore struct {
	mu  sync.RWMutex
	log []domain.Checkpoint
}

// NewCheckpointStore creates a new in-memory checkpoint log.
func NewCheckpointStore() *CheckpointStore {
	return &CheckpointStore{}
}

var _ storage.CheckpointStore = (*CheckpointStore)(nil)

// Append adds one checkpoint, assigning the next sequence number.
func (s *CheckpointStore) Append(_ context.Context, cp *domain.Checkpoint) error {
	if cp == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp.Sequence = int64(len(s.log)) + 1
	s.log = append(s.log, *cp)
	return nil
}

// Last returns the checkpoint with the maximum timestamp.
func (s *CheckpointStore) Last(_ context.Context) (*domain.Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.log) == 0 {
		return nil, storage.ErrNotFound
	}
	last := s.log[0]
	for _, cp := range s.log[1:] {
		if cp.Timestamp.After(last.Timestamp) {
			last = cp
		}
	}
	return &last, nil
}

// Count returns the number of logged checkpoints.
func (s *CheckpointStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.log)), nil
}

func (s *CheckpointStore) snapshot() []domain.Checkpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Checkpoint, len(s.log))
	copy(out, s.log)
	return out
}

func (s *CheckpointStore) restore(log []domain.Checkpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = log
}

package postgres

import (
	"context"
	"fmt"

	"fundpanel/internal/domain"
	"fundpanel/internal/storage"
)

// CheckpointStore implements storage.CheckpointStore using PostgreSQL.
type CheckpointStore struct {
	q querier
}

var _ storage.CheckpointStore = (*CheckpointStore)(nil)

// Append adds one checkpoint; the sequence comes from the table's bigserial.
func (s *CheckpointStore) Append(ctx context.Context, cp *domain.Checkpoint) error {
	if cp == nil {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO sync_checkpoints (sync_time)
		VALUES ($1)
		RETURNING sequence
	`
	if err := s.q.QueryRow(ctx, query, cp.Timestamp).Scan(&cp.Sequence); err != nil {
		return fmt.Errorf("append checkpoint: %w", err)
	}
	return nil
}

// Last returns the checkpoint with the maximum timestamp.
func (s *CheckpointStore) Last(ctx context.Context) (*domain.Checkpoint, error) {
	query := `
		SELECT sequence, sync_time
		FROM sync_checkpoints
		ORDER BY sync_time DESC, sequence DESC
		LIMIT 1
	`
	var cp domain.Checkpoint
	err := s.q.QueryRow(ctx, query).Scan(&cp.Sequence, &cp.Timestamp)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("query last checkpoint: %w", err)
	}
	return &cp, nil
}

// Count returns the number of logged checkpoints.
func (s *CheckpointStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.q.QueryRow(ctx, `SELECT count(*) FROM sync_checkpoints`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count checkpoints: %w", err)
	}
	return n, nil
}

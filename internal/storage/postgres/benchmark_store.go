package postgres

import (
	"context"
	"fmt"
	"time"

	"fundpanel/internal/domain"
	"fundpanel/internal/storage"
)

// BenchmarkStore implements storage.BenchmarkStore using PostgreSQL.
type BenchmarkStore struct {
	q querier
}

var _ storage.BenchmarkStore = (*BenchmarkStore)(nil)

// InsertBulk adds multiple quotes. Fails the whole batch on any duplicate.
func (s *BenchmarkStore) InsertBulk(ctx context.Context, quotes []*domain.BenchmarkQuote) error {
	if len(quotes) == 0 {
		return nil
	}

	query := `
		INSERT INTO benchmark_quotes (quote_date, open, high, low, close, volume)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, q := range quotes {
		if q == nil {
			return storage.ErrInvalidInput
		}
		_, err := s.q.Exec(ctx, query, q.Date, q.Open, q.High, q.Low, q.Close, q.Volume)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert benchmark quote: %w", err)
		}
	}
	return nil
}

// GetAll retrieves all benchmark quotes ordered by date ASC.
func (s *BenchmarkStore) GetAll(ctx context.Context) ([]*domain.BenchmarkQuote, error) {
	query := `
		SELECT quote_date, open, high, low, close, volume
		FROM benchmark_quotes
		ORDER BY quote_date ASC
	`
	rows, err := s.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query benchmark quotes: %w", err)
	}
	defer rows.Close()

	var result []*domain.BenchmarkQuote
	for rows.Next() {
		var q domain.BenchmarkQuote
		if err := rows.Scan(&q.Date, &q.Open, &q.High, &q.Low, &q.Close, &q.Volume); err != nil {
			return nil, fmt.Errorf("scan benchmark quote: %w", err)
		}
		q.Date = domain.DayOf(q.Date)
		result = append(result, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate benchmark quotes: %w", err)
	}
	return result, nil
}

// DeleteFrom removes all quotes with date >= cutoff.
func (s *BenchmarkStore) DeleteFrom(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.q.Exec(ctx, `DELETE FROM benchmark_quotes WHERE quote_date >= $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete benchmark quotes: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Count returns the number of stored quotes.
func (s *BenchmarkStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.q.QueryRow(ctx, `SELECT count(*) FROM benchmark_quotes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count benchmark quotes: %w", err)
	}
	return n, nil
}

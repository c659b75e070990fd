package postgres

import (
	"context"
	"fmt"
	"time"

	"fundpanel/internal/domain"
	"fundpanel/internal/storage"
)

// RiskfreeStore implements storage.RiskfreeStore using PostgreSQL.
type RiskfreeStore struct {
	q querier
}

var _ storage.RiskfreeStore = (*RiskfreeStore)(nil)

// InsertBulk adds multiple rates. Fails the whole batch on any duplicate.
func (s *RiskfreeStore) InsertBulk(ctx context.Context, rates []*domain.RiskfreeRate) error {
	if len(rates) == 0 {
		return nil
	}

	query := `
		INSERT INTO riskfree_rates (rate_date, rate, cum_index)
		VALUES ($1, $2, $3)
	`
	for _, r := range rates {
		if r == nil {
			return storage.ErrInvalidInput
		}
		_, err := s.q.Exec(ctx, query, r.Date, r.Rate, r.Index)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert riskfree rate: %w", err)
		}
	}
	return nil
}

// GetAll retrieves all rates ordered by date ASC.
func (s *RiskfreeStore) GetAll(ctx context.Context) ([]*domain.RiskfreeRate, error) {
	query := `
		SELECT rate_date, rate, cum_index
		FROM riskfree_rates
		ORDER BY rate_date ASC
	`
	rows, err := s.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query riskfree rates: %w", err)
	}
	defer rows.Close()

	var result []*domain.RiskfreeRate
	for rows.Next() {
		var r domain.RiskfreeRate
		if err := rows.Scan(&r.Date, &r.Rate, &r.Index); err != nil {
			return nil, fmt.Errorf("scan riskfree rate: %w", err)
		}
		r.Date = domain.DayOf(r.Date)
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate riskfree rates: %w", err)
	}
	return result, nil
}

// DeleteFrom removes all rates with date >= cutoff.
func (s *RiskfreeStore) DeleteFrom(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.q.Exec(ctx, `DELETE FROM riskfree_rates WHERE rate_date >= $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete riskfree rates: %w", err)
	}
	return tag.RowsAffected(), nil
}

// LastBefore returns the latest rate with date < cutoff.
func (s *RiskfreeStore) LastBefore(ctx context.Context, cutoff time.Time) (*domain.RiskfreeRate, error) {
	query := `
		SELECT rate_date, rate, cum_index
		FROM riskfree_rates
		WHERE rate_date < $1
		ORDER BY rate_date DESC
		LIMIT 1
	`
	var r domain.RiskfreeRate
	err := s.q.QueryRow(ctx, query, cutoff).Scan(&r.Date, &r.Rate, &r.Index)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("query last riskfree rate: %w", err)
	}
	r.Date = domain.DayOf(r.Date)
	return &r, nil
}

// Count returns the number of stored rates.
func (s *RiskfreeStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.q.QueryRow(ctx, `SELECT count(*) FROM riskfree_rates`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count riskfree rates: %w", err)
	}
	return n, nil
}

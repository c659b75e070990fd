package postgres

import (
	"context"
	"fmt"
	"time"

	"fundpanel/internal/domain"
	"fundpanel/internal/storage"
)

// FundQuoteStore implements storage.FundQuoteStore using PostgreSQL.
type FundQuoteStore struct {
	q querier
}

// Compile-time interface check.
var _ storage.FundQuoteStore = (*FundQuoteStore)(nil)

// InsertBulk adds multiple quotes. Fails the whole batch on any duplicate.
func (s *FundQuoteStore) InsertBulk(ctx context.Context, quotes []*domain.FundQuote) error {
	if len(quotes) == 0 {
		return nil
	}

	query := `
		INSERT INTO daily_quotas (fund_id, quote_date, quota, net_assets, shareholders)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, q := range quotes {
		if q == nil || q.FundID == "" {
			return storage.ErrInvalidInput
		}
		_, err := s.q.Exec(ctx, query, q.FundID, q.Date, q.Quota, q.NetAssets, q.Shareholders)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert fund quote: %w", err)
		}
	}
	return nil
}

// GetByFund retrieves all quotes for a fund, ordered by date ASC.
func (s *FundQuoteStore) GetByFund(ctx context.Context, fundID string) ([]*domain.FundQuote, error) {
	query := `
		SELECT fund_id, quote_date, quota, net_assets, shareholders
		FROM daily_quotas
		WHERE fund_id = $1
		ORDER BY quote_date ASC
	`
	rows, err := s.q.Query(ctx, query, fundID)
	if err != nil {
		return nil, fmt.Errorf("query fund quotes: %w", err)
	}
	defer rows.Close()
	return scanFundQuotes(rows)
}

// GetAll retrieves quotes ordered by (fund_id, date), optionally filtered.
func (s *FundQuoteStore) GetAll(ctx context.Context, fundFilter []string) ([]*domain.FundQuote, error) {
	query := `
		SELECT fund_id, quote_date, quota, net_assets, shareholders
		FROM daily_quotas
		WHERE cardinality($1::text[]) = 0 OR fund_id = ANY($1)
		ORDER BY fund_id ASC, quote_date ASC
	`
	if fundFilter == nil {
		fundFilter = []string{}
	}
	rows, err := s.q.Query(ctx, query, fundFilter)
	if err != nil {
		return nil, fmt.Errorf("query fund quotes: %w", err)
	}
	defer rows.Close()
	return scanFundQuotes(rows)
}

// DeleteFrom removes all quotes with date >= cutoff.
func (s *FundQuoteStore) DeleteFrom(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.q.Exec(ctx, `DELETE FROM daily_quotas WHERE quote_date >= $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete fund quotes: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Count returns the total number of stored quotes.
func (s *FundQuoteStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.q.QueryRow(ctx, `SELECT count(*) FROM daily_quotas`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count fund quotes: %w", err)
	}
	return n, nil
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanFundQuotes(rows pgxRows) ([]*domain.FundQuote, error) {
	var result []*domain.FundQuote
	for rows.Next() {
		var q domain.FundQuote
		if err := rows.Scan(&q.FundID, &q.Date, &q.Quota, &q.NetAssets, &q.Shareholders); err != nil {
			return nil, fmt.Errorf("scan fund quote: %w", err)
		}
		q.Date = domain.DayOf(q.Date)
		result = append(result, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fund quotes: %w", err)
	}
	return result, nil
}

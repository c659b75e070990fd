package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"fundpanel/internal/domain"
)

// CandleBenchmarkSource fetches daily benchmark index candles from a JSON
// endpoint: {"prices":[{"formatted_date":"2020-01-02","open":...,"high":...,
// "low":...,"close":...,"adjclose":...,"volume":...},...]}. The adjusted
// close is the comparison series when present.
type CandleBenchmarkSource struct {
	client *Client

	// BaseURL receives from/to query parameters (ISO dates).
	BaseURL string
}

// NewCandleBenchmarkSource creates a benchmark source over the given client.
func NewCandleBenchmarkSource(client *Client, baseURL string) *CandleBenchmarkSource {
	return &CandleBenchmarkSource{client: client, BaseURL: baseURL}
}

var _ BenchmarkSource = (*CandleBenchmarkSource)(nil)

type candlePayload struct {
	Prices []candle `json:"prices"`
}

type candle struct {
	FormattedDate string   `json:"formatted_date"`
	Open          float64  `json:"open"`
	High          float64  `json:"high"`
	Low           float64  `json:"low"`
	Close         float64  `json:"close"`
	AdjClose      *float64 `json:"adjclose"`
	Volume        float64  `json:"volume"`
}

// Fetch returns the candles with dates in [from, to].
func (s *CandleBenchmarkSource) Fetch(ctx context.Context, from, to time.Time) ([]*domain.BenchmarkQuote, error) {
	q := url.Values{}
	q.Set("from", from.UTC().Format("2006-01-02"))
	q.Set("to", to.UTC().Format("2006-01-02"))

	resp, err := s.client.Get(ctx, s.BaseURL+"?"+q.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload candlePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode benchmark candles: %w", err)
	}

	quotes := make([]*domain.BenchmarkQuote, 0, len(payload.Prices))
	for _, c := range payload.Prices {
		date, err := time.Parse("2006-01-02", c.FormattedDate)
		if err != nil {
			return nil, fmt.Errorf("bad candle date %q: %w", c.FormattedDate, err)
		}
		close := c.Close
		if c.AdjClose != nil {
			close = *c.AdjClose
		}
		quotes = append(quotes, &domain.BenchmarkQuote{
			Date:   domain.DayOf(date),
			Open:   c.Open,
			High:   c.High,
			Low:    c.Low,
			Close:  close,
			Volume: c.Volume,
		})
	}
	return quotes, nil
}

package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"fundpanel/internal/domain"
)

// SGSRiskfreeSource fetches the policy-rate series from the central bank's
// SGS API: a JSON array of {"data":"dd/mm/yyyy","valor":"0.0159"} objects,
// the value being the percent rate for the day.
type SGSRiskfreeSource struct {
	client *Client

	// BaseURL is the series endpoint, e.g.
	// "https://api.bcb.gov.br/dados/serie/bcdata.sgs.11/dados".
	BaseURL string
}

// NewSGSRiskfreeSource creates a risk-free source over the given client.
func NewSGSRiskfreeSource(client *Client, baseURL string) *SGSRiskfreeSource {
	return &SGSRiskfreeSource{client: client, BaseURL: baseURL}
}

var _ RiskfreeSource = (*SGSRiskfreeSource)(nil)

type sgsObservation struct {
	Data  string `json:"data"`
	Valor string `json:"valor"`
}

// Fetch returns the daily rates in [from, to]. Rates come back as decimals
// (the API publishes percent); the cumulative index stays zero for the
// synchronizer to chain.
func (s *SGSRiskfreeSource) Fetch(ctx context.Context, from, to time.Time) ([]*domain.RiskfreeRate, error) {
	q := url.Values{}
	q.Set("formato", "json")
	q.Set("dataInicial", from.UTC().Format("02/01/2006"))
	q.Set("dataFinal", to.UTC().Format("02/01/2006"))

	resp, err := s.client.Get(ctx, s.BaseURL+"?"+q.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var observations []sgsObservation
	if err := json.NewDecoder(resp.Body).Decode(&observations); err != nil {
		return nil, fmt.Errorf("decode rate series: %w", err)
	}

	rates := make([]*domain.RiskfreeRate, 0, len(observations))
	for _, obs := range observations {
		date, err := time.Parse("02/01/2006", obs.Data)
		if err != nil {
			return nil, fmt.Errorf("bad rate date %q: %w", obs.Data, err)
		}
		pct, err := strconv.ParseFloat(obs.Valor, 64)
		if err != nil {
			return nil, fmt.Errorf("bad rate value %q: %w", obs.Valor, err)
		}
		rates = append(rates, &domain.RiskfreeRate{
			Date: domain.DayOf(date),
			Rate: pct / 100,
		})
	}
	return rates, nil
}

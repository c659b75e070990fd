package panel

import (
	"time"

	"fundpanel/internal/domain"
)

// Column names for tables built from stored rows. Derived columns produced by
// the metrics engine are named after these (quota_return_1d, quota_vol, ...).
const (
	ColQuota     = "quota"
	ColNetAssets = "net_assets"
	ColBenchmark = "benchmark_close"
	ColRiskfree  = "riskfree_index"
)

// FromFundQuotes builds a panel table from stored fund quotes. Rows are
// expected ordered by (fund, date); out-of-order input is tolerated.
func FromFundQuotes(quotes []*domain.FundQuote) *Table {
	t := New(ColQuota, ColNetAssets)
	for _, q := range quotes {
		t.Append(q.FundID, q.Date, map[string]float64{
			ColQuota:     q.Quota,
			ColNetAssets: q.NetAssets,
		})
	}
	return t
}

// BenchmarkSeries indexes benchmark closes by date for joining into a panel.
func BenchmarkSeries(quotes []*domain.BenchmarkQuote) map[time.Time]float64 {
	out := make(map[time.Time]float64, len(quotes))
	for _, q := range quotes {
		out[q.Date] = q.Close
	}
	return out
}

// RiskfreeSeries indexes the risk-free cumulative index by date.
func RiskfreeSeries(rates []*domain.RiskfreeRate) map[time.Time]float64 {
	out := make(map[time.Time]float64, len(rates))
	for _, r := range rates {
		out[r.Date] = r.Index
	}
	return out
}

package domain

import "time"

// FundQuote is one daily observation of a fund's quota value.
// Unique per (fund_id, quote_date). Corresponds to the daily_quotas table.
type FundQuote struct {
	FundID       string    // fund registration id (CNPJ for CVM data)
	Date         time.Time // observation date, UTC midnight
	Quota        float64   // quota (share) value; NaN when the source omitted it
	NetAssets    float64   // net asset value of the fund
	Shareholders int       // number of shareholders
}

// BenchmarkQuote is one daily observation of the benchmark index.
// Single conceptual entity; corresponds to the benchmark_quotes table.
type BenchmarkQuote struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64 // the comparison series used by the metrics engine
	Volume float64
}

// RiskfreeRate is one observation of the policy rate plus its cumulative
// index: the rate rebased to 1.0 at the first observation and compounded
// forward by each period's rate. Corresponds to the riskfree_rates table.
type RiskfreeRate struct {
	Date  time.Time
	Rate  float64 // daily rate as a decimal (source publishes percent)
	Index float64 // chained cumulative index, 1.0 * Π(1+rate)
}

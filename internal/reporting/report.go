package reporting

import (
	"time"

	"fundpanel/internal/panel"
)

// Report represents a full fund performance report.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	RangeStart  time.Time
	RangeEnd    time.Time
	FundCount   int

	// Summary holds one row per fund (sorted by fund ID).
	Summary []FundSummaryRow

	// Series is the daily panel with returns, cumulative returns,
	// drawdowns, rolling volatility and rolling correlation.
	Series *panel.Table
}

// FundSummaryRow holds the whole-period metrics for one fund.
type FundSummaryRow struct {
	FundID string
	Days   int

	TotalReturn float64
	CAGR        float64
	Volatility  float64

	Correlation float64
	Beta        float64
	Alpha       float64
	Sharpe      float64
	Sortino     float64

	CaptureBull  float64
	CaptureBear  float64
	CaptureRatio float64
}

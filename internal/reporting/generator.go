// Package reporting assembles fund performance reports from stored panel
// data and renders them as CSV and Markdown.
package reporting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fundpanel/internal/metrics"
	"fundpanel/internal/observability"
	"fundpanel/internal/panel"
	"fundpanel/internal/storage"
)

// Generator produces reports from stored data.
type Generator struct {
	db         storage.DB
	fundFilter []string
	now        func() time.Time // injectable clock for deterministic output
	metrics    *observability.Metrics
}

// NewGenerator creates a new report generator. A non-empty fund filter
// restricts the report to the listed funds.
func NewGenerator(db storage.DB, fundFilter []string) *Generator {
	return &Generator{
		db:         db,
		fundFilter: fundFilter,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// WithMetrics attaches Prometheus metrics to the generator.
func (g *Generator) WithMetrics(m *observability.Metrics) *Generator {
	g.metrics = m
	return g
}

// Generate loads the stored panel, runs the full metric pipeline and
// assembles the report: daily series with returns, cumulative returns,
// drawdowns, rolling volatility and rolling benchmark correlation, plus a
// whole-period summary row per fund with volatility, correlation, beta,
// alpha, sharpe, sortino and the bull/bear capture ratios.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	quotes, err := g.db.FundQuotes().GetAll(ctx, g.fundFilter)
	if err != nil {
		g.metrics.RecordDBError("load_panel")
		return nil, fmt.Errorf("load fund quotes: %w", err)
	}
	bench, err := g.db.Benchmark().GetAll(ctx)
	if err != nil {
		g.metrics.RecordDBError("load_panel")
		return nil, fmt.Errorf("load benchmark quotes: %w", err)
	}
	rates, err := g.db.Riskfree().GetAll(ctx)
	if err != nil {
		g.metrics.RecordDBError("load_panel")
		return nil, fmt.Errorf("load riskfree rates: %w", err)
	}

	t := panel.FromFundQuotes(quotes).
		WithSeries(panel.ColBenchmark, panel.BenchmarkSeries(bench)).
		WithSeries(panel.ColRiskfree, panel.RiskfreeSeries(rates))

	series, err := g.buildSeries(t)
	if err != nil {
		return nil, err
	}
	summary, err := g.buildSummary(t)
	if err != nil {
		return nil, err
	}

	report := &Report{
		GeneratedAt: g.now(),
		FundCount:   len(t.Entities()),
		Summary:     summary,
		Series:      series,
	}
	if rows := series.Rows(); len(rows) > 0 {
		report.RangeStart = rows[0].Date
		report.RangeEnd = rows[0].Date
		for _, r := range rows {
			if r.Date.Before(report.RangeStart) {
				report.RangeStart = r.Date
			}
			if r.Date.After(report.RangeEnd) {
				report.RangeEnd = r.Date
			}
		}
	}
	g.metrics.RecordReportGenerated()
	return report, nil
}

// buildSeries derives the daily columns: one-day returns for quota,
// benchmark and risk-free index, the cumulative quota return, quota
// drawdown, 21-day rolling volatility and 252-day rolling correlation.
func (g *Generator) buildSeries(t *panel.Table) (*panel.Table, error) {
	series, err := metrics.Returns(t, metrics.ReturnsOptions{
		Values:  []string{panel.ColQuota, panel.ColBenchmark, panel.ColRiskfree},
		Rolling: true,
	})
	if err != nil {
		return nil, fmt.Errorf("compute returns: %w", err)
	}

	quotaRet := metrics.ReturnColumn(panel.ColQuota, 1)
	benchRet := metrics.ReturnColumn(panel.ColBenchmark, 1)

	series, err = metrics.CumReturns(series, []string{panel.ColQuota})
	if err != nil {
		return nil, fmt.Errorf("compute cumulative returns: %w", err)
	}
	series, err = metrics.Drawdown(series, []string{panel.ColQuota})
	if err != nil {
		return nil, fmt.Errorf("compute drawdowns: %w", err)
	}
	series, err = metrics.Volatility(series, metrics.VolatilityOptions{
		Values:  []string{quotaRet},
		Rolling: true,
	})
	if err != nil {
		return nil, fmt.Errorf("compute rolling volatility: %w", err)
	}
	series, err = metrics.CorrBenchmark(series, metrics.CorrelationOptions{
		AssetReturns: quotaRet,
		IndexReturns: benchRet,
		Rolling:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("compute rolling correlation: %w", err)
	}
	return series, nil
}

// buildSummary computes the whole-period metrics per fund and flattens them
// into rows.
func (g *Generator) buildSummary(t *panel.Table) ([]FundSummaryRow, error) {
	quotaRet := metrics.ReturnColumn(panel.ColQuota, 1)
	benchRet := metrics.ReturnColumn(panel.ColBenchmark, 1)

	rets, err := metrics.Returns(t, metrics.ReturnsOptions{
		Values:  []string{panel.ColQuota, panel.ColBenchmark, panel.ColRiskfree},
		Rolling: true,
	})
	if err != nil {
		return nil, fmt.Errorf("compute returns: %w", err)
	}
	rets, err = metrics.Downside(rets, []string{quotaRet})
	if err != nil {
		return nil, fmt.Errorf("compute downside returns: %w", err)
	}

	totals, err := metrics.Returns(t, metrics.ReturnsOptions{
		Values: []string{panel.ColQuota, panel.ColBenchmark, panel.ColRiskfree},
	})
	if err != nil {
		return nil, fmt.Errorf("compute total returns: %w", err)
	}
	vols, err := metrics.Volatility(rets, metrics.VolatilityOptions{
		Values: []string{quotaRet, benchRet, quotaRet + "_downside"},
	})
	if err != nil {
		return nil, fmt.Errorf("compute volatility: %w", err)
	}
	corrs, err := metrics.CorrBenchmark(rets, metrics.CorrelationOptions{
		AssetReturns: quotaRet,
		IndexReturns: benchRet,
	})
	if err != nil {
		return nil, fmt.Errorf("compute correlation: %w", err)
	}
	captures, err := metrics.CaptureRatio(rets, metrics.CaptureOptions{
		AssetReturns: quotaRet,
		BenchReturns: benchRet,
	})
	if err != nil {
		return nil, fmt.Errorf("compute capture ratios: %w", err)
	}

	merged := panel.MergeByEntity(totals, vols)
	merged = panel.MergeByEntity(merged, corrs)
	merged = panel.MergeByEntity(merged, captures)

	quotaVol := quotaRet + "_vol"
	benchVol := benchRet + "_vol"
	downsideVol := quotaRet + "_downside_vol"

	merged, err = metrics.Beta(merged, quotaVol, benchVol, metrics.CorrelationColumn)
	if err != nil {
		return nil, fmt.Errorf("compute beta: %w", err)
	}
	merged, err = metrics.Alpha(merged,
		panel.ColQuota+"_cagr", panel.ColBenchmark+"_cagr", panel.ColRiskfree+"_cagr", "beta")
	if err != nil {
		return nil, fmt.Errorf("compute alpha: %w", err)
	}
	merged, err = metrics.Sharpe(merged,
		panel.ColQuota+"_cagr", panel.ColRiskfree+"_cagr", quotaVol)
	if err != nil {
		return nil, fmt.Errorf("compute sharpe: %w", err)
	}
	merged, err = metrics.Sortino(merged,
		panel.ColQuota+"_cagr", panel.ColRiskfree+"_cagr", downsideVol)
	if err != nil {
		return nil, fmt.Errorf("compute sortino: %w", err)
	}

	rows := make([]FundSummaryRow, 0, len(merged.Entities()))
	for _, entity := range merged.Entities() {
		group := merged.Group(entity)
		if len(group) == 0 {
			continue
		}
		r := group[len(group)-1]
		rows = append(rows, FundSummaryRow{
			FundID:       entity,
			Days:         int(r.Value("days")),
			TotalReturn:  r.Value(panel.ColQuota + "_cum_return"),
			CAGR:         r.Value(panel.ColQuota + "_cagr"),
			Volatility:   r.Value(quotaVol),
			Correlation:  r.Value(metrics.CorrelationColumn),
			Beta:         r.Value("beta"),
			Alpha:        r.Value("alpha"),
			Sharpe:       r.Value("sharpe"),
			Sortino:      r.Value("sortino"),
			CaptureBull:  r.Value("capture_bull"),
			CaptureBear:  r.Value("capture_bear"),
			CaptureRatio: r.Value("capture_ratio"),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].FundID < rows[j].FundID })
	return rows, nil
}

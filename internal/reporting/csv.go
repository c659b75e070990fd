package reporting

import (
	"fmt"
	"math"
	"strings"

	"fundpanel/internal/panel"
)

// RenderSummaryCSV renders the per-fund summary rows as a CSV string.
func RenderSummaryCSV(rows []FundSummaryRow) string {
	var sb strings.Builder

	sb.WriteString("fund_id,days,total_return,cagr,volatility,correlation_benchmark,")
	sb.WriteString("beta,alpha,sharpe,sortino,capture_bull,capture_bear,capture_ratio\n")

	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%s,%d,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s\n",
			r.FundID,
			r.Days,
			csvFloat(r.TotalReturn),
			csvFloat(r.CAGR),
			csvFloat(r.Volatility),
			csvFloat(r.Correlation),
			csvFloat(r.Beta),
			csvFloat(r.Alpha),
			csvFloat(r.Sharpe),
			csvFloat(r.Sortino),
			csvFloat(r.CaptureBull),
			csvFloat(r.CaptureBear),
			csvFloat(r.CaptureRatio),
		))
	}

	return sb.String()
}

// RenderSeriesCSV renders a panel table as a CSV string with entity and
// date leading columns. Missing cells render as empty fields.
func RenderSeriesCSV(t *panel.Table) string {
	var sb strings.Builder

	cols := t.Columns()
	sb.WriteString("fund_id,date")
	for _, c := range cols {
		sb.WriteString(",")
		sb.WriteString(c)
	}
	sb.WriteString("\n")

	for _, r := range t.Rows() {
		sb.WriteString(r.Entity)
		sb.WriteString(",")
		sb.WriteString(r.Date.Format("2006-01-02"))
		for _, c := range cols {
			sb.WriteString(",")
			if v := r.Value(c); !panel.IsMissing(v) {
				sb.WriteString(csvFloat(v))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// csvFloat formats a metric value, leaving missing values empty.
func csvFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return fmt.Sprintf("%.6f", v)
}

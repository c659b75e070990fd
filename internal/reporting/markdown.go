package reporting

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// RenderMarkdown renders a report as a Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# Fund Performance Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Funds: %d | Range: %s to %s\n\n",
		r.FundCount,
		r.RangeStart.Format("2006-01-02"),
		r.RangeEnd.Format("2006-01-02")))

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Fund | Days | Total Return | CAGR | Volatility | Beta | Alpha | Sharpe | Sortino | Capture Ratio |\n")
	sb.WriteString("|------|------|--------------|------|------------|------|-------|--------|---------|---------------|\n")
	for _, row := range r.Summary {
		sb.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			row.FundID,
			row.Days,
			mdPercent(row.TotalReturn),
			mdPercent(row.CAGR),
			mdPercent(row.Volatility),
			mdFloat(row.Beta),
			mdPercent(row.Alpha),
			mdFloat(row.Sharpe),
			mdFloat(row.Sortino),
			mdFloat(row.CaptureRatio),
		))
	}
	sb.WriteString("\n")

	sb.WriteString("## Benchmark Capture\n\n")
	sb.WriteString("| Fund | Correlation | Bull Capture | Bear Capture |\n")
	sb.WriteString("|------|-------------|--------------|--------------|\n")
	for _, row := range r.Summary {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			row.FundID,
			mdFloat(row.Correlation),
			mdFloat(row.CaptureBull),
			mdFloat(row.CaptureBear),
		))
	}
	sb.WriteString("\n")

	return sb.String()
}

func mdFloat(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", v)
}

func mdPercent(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", v*100)
}

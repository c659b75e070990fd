package metrics

import "fundpanel/internal/panel"

// CorrelationColumn is the derived column holding asset/benchmark
// correlations.
const CorrelationColumn = "correlation_benchmark"

// CorrelationOptions configures the CorrBenchmark operation.
type CorrelationOptions struct {
	// AssetReturns and IndexReturns name the two return columns to
	// correlate.
	AssetReturns string
	IndexReturns string
	// Rolling switches between whole-history correlation (one row per
	// entity) and a trailing-window correlation per date.
	Rolling bool
	// WindowSize is the trailing window length in rolling mode. Defaults
	// to 252.
	WindowSize int
}

// CorrBenchmark computes the Pearson correlation between an asset column and
// a benchmark column within each entity group. Rolling mode is missing until
// the trailing window holds WindowSize rows with both observations valid.
func CorrBenchmark(t *panel.Table, opts CorrelationOptions) (*panel.Table, error) {
	if err := requireColumns(t, "asset_returns", opts.AssetReturns); err != nil {
		return nil, err
	}
	if err := requireColumns(t, "index_returns", opts.IndexReturns); err != nil {
		return nil, err
	}
	window := opts.WindowSize
	if window == 0 {
		window = 252
	}
	if window < 0 {
		return nil, usageErrf("window_size", "must be positive, got %d", window)
	}

	if !opts.Rolling {
		out := panel.New(CorrelationColumn)
		for _, entity := range t.Entities() {
			rows := t.Group(entity)
			if len(rows) == 0 {
				continue
			}
			var xs, ys []float64
			for _, r := range rows {
				a, b := r.Value(opts.AssetReturns), r.Value(opts.IndexReturns)
				if panel.IsMissing(a) || panel.IsMissing(b) {
					continue
				}
				xs = append(xs, a)
				ys = append(ys, b)
			}
			out.Append(entity, rows[len(rows)-1].Date, map[string]float64{
				CorrelationColumn: pearson(xs, ys),
			})
		}
		return out, nil
	}

	out := panel.New(append(t.Columns(), CorrelationColumn)...)
	for _, entity := range t.Entities() {
		rows := t.Group(entity)
		for i, r := range rows {
			cells := r.Cells()
			cells[CorrelationColumn] = windowCorr(rows, opts.AssetReturns, opts.IndexReturns, i, window)
			out.Append(entity, r.Date, cells)
		}
	}
	return out, nil
}

// windowCorr correlates the trailing window ending at position i, missing
// unless every row in the window has both observations.
func windowCorr(rows []panel.Row, assetCol, indexCol string, i, window int) float64 {
	if i < window-1 {
		return panel.Missing()
	}
	xs := make([]float64, 0, window)
	ys := make([]float64, 0, window)
	for j := i - window + 1; j <= i; j++ {
		a, b := rows[j].Value(assetCol), rows[j].Value(indexCol)
		if panel.IsMissing(a) || panel.IsMissing(b) {
			return panel.Missing()
		}
		xs = append(xs, a)
		ys = append(ys, b)
	}
	return pearson(xs, ys)
}

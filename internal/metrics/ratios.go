package metrics

import "fundpanel/internal/panel"

// The row-wise ratio operations combine already-computed columns without any
// new grouping. Missing operands and zero denominators propagate as missing
// cells through the whole beta -> alpha -> sharpe/sortino chain.

// Beta computes beta = (asset_vol / bench_vol) * correlation per row.
func Beta(t *panel.Table, assetVol, benchVol, correlation string) (*panel.Table, error) {
	if err := requireColumns(t, "asset_vol", assetVol); err != nil {
		return nil, err
	}
	if err := requireColumns(t, "bench_vol", benchVol); err != nil {
		return nil, err
	}
	if err := requireColumns(t, "correlation", correlation); err != nil {
		return nil, err
	}
	return withRowwise(t, "beta", func(r panel.Row) float64 {
		return safeDiv(r.Value(assetVol), r.Value(benchVol)) * r.Value(correlation)
	}), nil
}

// Alpha computes alpha = asset - riskfree - beta*(bench - riskfree) per row.
func Alpha(t *panel.Table, assetReturns, benchReturns, riskfreeReturns, beta string) (*panel.Table, error) {
	if err := requireColumns(t, "asset_returns", assetReturns); err != nil {
		return nil, err
	}
	if err := requireColumns(t, "bench_returns", benchReturns); err != nil {
		return nil, err
	}
	if err := requireColumns(t, "riskfree_returns", riskfreeReturns); err != nil {
		return nil, err
	}
	if err := requireColumns(t, "beta", beta); err != nil {
		return nil, err
	}
	return withRowwise(t, "alpha", func(r panel.Row) float64 {
		rf := r.Value(riskfreeReturns)
		return r.Value(assetReturns) - rf - r.Value(beta)*(r.Value(benchReturns)-rf)
	}), nil
}

// Sharpe computes sharpe = (asset - riskfree) / asset_vol per row.
func Sharpe(t *panel.Table, assetReturns, riskfreeReturns, assetVol string) (*panel.Table, error) {
	if err := requireColumns(t, "asset_returns", assetReturns); err != nil {
		return nil, err
	}
	if err := requireColumns(t, "riskfree_returns", riskfreeReturns); err != nil {
		return nil, err
	}
	if err := requireColumns(t, "asset_vol", assetVol); err != nil {
		return nil, err
	}
	return withRowwise(t, "sharpe", func(r panel.Row) float64 {
		return safeDiv(r.Value(assetReturns)-r.Value(riskfreeReturns), r.Value(assetVol))
	}), nil
}

// Sortino computes sortino = (asset - riskfree) / downside_vol per row.
func Sortino(t *panel.Table, assetReturns, riskfreeReturns, downsideVol string) (*panel.Table, error) {
	if err := requireColumns(t, "asset_returns", assetReturns); err != nil {
		return nil, err
	}
	if err := requireColumns(t, "riskfree_returns", riskfreeReturns); err != nil {
		return nil, err
	}
	if err := requireColumns(t, "downside_vol", downsideVol); err != nil {
		return nil, err
	}
	return withRowwise(t, "sortino", func(r panel.Row) float64 {
		return safeDiv(r.Value(assetReturns)-r.Value(riskfreeReturns), r.Value(downsideVol))
	}), nil
}

// withRowwise returns a copy of the table with one added column computed per
// row.
func withRowwise(t *panel.Table, col string, fn func(panel.Row) float64) *panel.Table {
	out := panel.New(append(t.Columns(), col)...)
	for _, entity := range t.Entities() {
		for _, r := range t.Group(entity) {
			cells := r.Cells()
			cells[col] = fn(r)
			out.Append(entity, r.Date, cells)
		}
	}
	return out
}

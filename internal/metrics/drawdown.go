package metrics

import "fundpanel/internal/panel"

// Drawdown computes, per entity group, the running maximum of each value
// column and the percent distance below it: price/running_max - 1. The
// drawdown is always <= 0 and exactly 0 at a new all-time high. Rows with a
// missing price carry the previous running maximum and a missing drawdown.
func Drawdown(t *panel.Table, values []string) (*panel.Table, error) {
	if err := requireColumns(t, "values", values...); err != nil {
		return nil, err
	}

	cols := t.Columns()
	for _, v := range values {
		cols = append(cols, "cum_max_"+v, "drawdown_"+v)
	}
	out := panel.New(cols...)

	for _, entity := range t.Entities() {
		runMax := make(map[string]float64, len(values))
		for _, v := range values {
			runMax[v] = panel.Missing()
		}
		for _, r := range t.Group(entity) {
			cells := r.Cells()
			for _, v := range values {
				x := r.Value(v)
				if !panel.IsMissing(x) {
					if panel.IsMissing(runMax[v]) || x > runMax[v] {
						runMax[v] = x
					}
				}
				cells["cum_max_"+v] = runMax[v]
				if panel.IsMissing(x) || panel.IsMissing(runMax[v]) {
					cells["drawdown_"+v] = panel.Missing()
				} else {
					cells["drawdown_"+v] = safeDiv(x, runMax[v]) - 1
				}
			}
			out.Append(entity, r.Date, cells)
		}
	}
	return out, nil
}

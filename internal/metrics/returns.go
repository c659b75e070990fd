package metrics

import (
	"fmt"

	"fundpanel/internal/panel"
)

// ReturnsOptions configures the Returns operation.
type ReturnsOptions struct {
	// Values names the price columns to transform.
	Values []string
	// Rolling switches between per-date window returns (true) and the
	// whole-period summary with total compounded return and CAGR (false).
	Rolling bool
	// WindowSize is the differencing window in observations. Defaults to 1
	// and is forced to 1 in summary mode.
	WindowSize int
}

// ReturnColumn is the derived column name for a value column and window.
func ReturnColumn(col string, window int) string {
	return fmt.Sprintf("%s_return_%dd", col, window)
}

// Returns computes percent changes of the value columns within each entity
// group. In rolling mode the result is the input table plus one return column
// per value column; the first window observations of each group are missing.
// In summary mode the result holds one row per entity with the total
// compounded return, the observation count ("days") and the annualized CAGR.
func Returns(t *panel.Table, opts ReturnsOptions) (*panel.Table, error) {
	if err := requireColumns(t, "values", opts.Values...); err != nil {
		return nil, err
	}
	window := opts.WindowSize
	if window == 0 {
		window = 1
	}
	if window < 0 {
		return nil, usageErrf("window_size", "must be positive, got %d", window)
	}
	if !opts.Rolling {
		window = 1
	}

	if opts.Rolling {
		return rollingReturns(t, opts.Values, window), nil
	}
	return summaryReturns(t, opts.Values), nil
}

// periodReturns computes the per-observation percent change of one column
// within one group, after masking non-positive prices and back-filling.
func periodReturns(rows []panel.Row, col string, window int) []float64 {
	filled := backfillPositive(columnValues(rows, col))
	out := make([]float64, len(rows))
	for i := range rows {
		if i < window || panel.IsMissing(filled[i]) || panel.IsMissing(filled[i-window]) {
			out[i] = panel.Missing()
			continue
		}
		out[i] = filled[i]/filled[i-window] - 1
	}
	return out
}

func rollingReturns(t *panel.Table, values []string, window int) *panel.Table {
	cols := t.Columns()
	for _, v := range values {
		cols = append(cols, ReturnColumn(v, window))
	}
	out := panel.New(cols...)

	for _, entity := range t.Entities() {
		rows := t.Group(entity)
		rets := make(map[string][]float64, len(values))
		for _, v := range values {
			rets[v] = periodReturns(rows, v, window)
		}
		for i, r := range rows {
			cells := r.Cells()
			for _, v := range values {
				cells[ReturnColumn(v, window)] = rets[v][i]
			}
			out.Append(entity, r.Date, cells)
		}
	}
	return out
}

func summaryReturns(t *panel.Table, values []string) *panel.Table {
	cols := make([]string, 0, 2*len(values)+1)
	for _, v := range values {
		cols = append(cols, v+"_cum_return")
	}
	cols = append(cols, "days")
	for _, v := range values {
		cols = append(cols, v+"_cagr")
	}
	out := panel.New(cols...)

	for _, entity := range t.Entities() {
		rows := t.Group(entity)
		if len(rows) == 0 {
			continue
		}
		// Observation count follows the first value column.
		days := 0
		for _, r := range rows {
			if !panel.IsMissing(r.Value(values[0])) {
				days++
			}
		}
		cells := make(map[string]float64, 2*len(values)+1)
		cells["days"] = float64(days)
		for _, v := range values {
			total := compound(periodReturns(rows, v, 1)) - 1
			cells[v+"_cum_return"] = total
			cells[v+"_cagr"] = cagr(total, days, 1)
		}
		out.Append(entity, rows[len(rows)-1].Date, cells)
	}
	return out
}

// CumReturns computes the running compounded return at each date within each
// entity group: an expanding product Π(1+r)-1 restarting at every group
// boundary. Missing period returns contribute a unit factor, so the value at
// a group's first observation is 0 and the last value equals the summary
// total return. The result is the rolling one-day returns table plus one
// cumulative column per value column.
func CumReturns(t *panel.Table, values []string) (*panel.Table, error) {
	rets, err := Returns(t, ReturnsOptions{Values: values, Rolling: true, WindowSize: 1})
	if err != nil {
		return nil, err
	}

	cols := rets.Columns()
	for _, v := range values {
		cols = append(cols, v+"_cum_return")
	}
	out := panel.New(cols...)

	for _, entity := range rets.Entities() {
		rows := rets.Group(entity)
		acc := make(map[string]float64, len(values))
		for _, v := range values {
			acc[v] = 1.0
		}
		for _, r := range rows {
			cells := r.Cells()
			for _, v := range values {
				if ret := r.Value(ReturnColumn(v, 1)); !panel.IsMissing(ret) {
					acc[v] *= 1 + ret
				}
				cells[v+"_cum_return"] = acc[v] - 1
			}
			out.Append(entity, r.Date, cells)
		}
	}
	return out, nil
}

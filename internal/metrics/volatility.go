package metrics

import (
	"fmt"
	"math"

	"fundpanel/internal/panel"
)

// VolatilityOptions configures the Volatility operation.
type VolatilityOptions struct {
	// Values names the return columns to measure.
	Values []string
	// Rolling switches between the whole-period statistic (one row per
	// entity) and a trailing fixed-size window statistic per date.
	Rolling bool
	// ReturnsFrequency is the periodicity of the input returns in trading
	// days (1 daily, 5 weekly, 21 monthly); used for annualization.
	// Defaults to 1.
	ReturnsFrequency int
	// WindowSize is the trailing window length in rolling mode. Defaults
	// to 21.
	WindowSize int
}

// Volatility computes the population standard deviation (denominator N) of
// the value columns per entity group, annualized by sqrt(252/frequency).
// Rolling mode is missing until the trailing window holds WindowSize valid
// observations.
func Volatility(t *panel.Table, opts VolatilityOptions) (*panel.Table, error) {
	if err := requireColumns(t, "values", opts.Values...); err != nil {
		return nil, err
	}
	freq := opts.ReturnsFrequency
	if freq == 0 {
		freq = 1
	}
	if freq < 0 {
		return nil, usageErrf("returns_frequency", "must be positive, got %d", freq)
	}
	window := opts.WindowSize
	if window == 0 {
		window = 21
	}
	if window < 0 {
		return nil, usageErrf("window_size", "must be positive, got %d", window)
	}

	annualize := math.Sqrt(TradingDaysPerYear / float64(freq))

	if !opts.Rolling {
		cols := make([]string, len(opts.Values))
		for i, v := range opts.Values {
			cols[i] = v + "_vol"
		}
		out := panel.New(cols...)
		for _, entity := range t.Entities() {
			rows := t.Group(entity)
			if len(rows) == 0 {
				continue
			}
			cells := make(map[string]float64, len(opts.Values))
			for _, v := range opts.Values {
				var obs []float64
				for _, r := range rows {
					if x := r.Value(v); !panel.IsMissing(x) {
						obs = append(obs, x)
					}
				}
				cells[v+"_vol"] = stddevPop(obs) * annualize
			}
			out.Append(entity, rows[len(rows)-1].Date, cells)
		}
		return out, nil
	}

	cols := t.Columns()
	for _, v := range opts.Values {
		cols = append(cols, rollingVolColumn(v, window))
	}
	out := panel.New(cols...)
	for _, entity := range t.Entities() {
		rows := t.Group(entity)
		for i, r := range rows {
			cells := r.Cells()
			for _, v := range opts.Values {
				cells[rollingVolColumn(v, window)] = windowStddev(rows, v, i, window) * annualize
			}
			out.Append(entity, r.Date, cells)
		}
	}
	return out, nil
}

func rollingVolColumn(col string, window int) string {
	return fmt.Sprintf("%s_vol_%drw", col, window)
}

// windowStddev computes the population stddev over the trailing window ending
// at position i, missing unless the window is full of valid observations.
func windowStddev(rows []panel.Row, col string, i, window int) float64 {
	if i < window-1 {
		return panel.Missing()
	}
	obs := make([]float64, 0, window)
	for j := i - window + 1; j <= i; j++ {
		x := rows[j].Value(col)
		if panel.IsMissing(x) {
			return panel.Missing()
		}
		obs = append(obs, x)
	}
	return stddevPop(obs)
}

// Downside derives per-column downside return series: the return where it is
// negative, missing otherwise. Feeding the result to Volatility yields the
// downside volatility used by Sortino.
func Downside(t *panel.Table, values []string) (*panel.Table, error) {
	if err := requireColumns(t, "values", values...); err != nil {
		return nil, err
	}
	cols := t.Columns()
	for _, v := range values {
		cols = append(cols, v+"_downside")
	}
	out := panel.New(cols...)
	for _, entity := range t.Entities() {
		for _, r := range t.Group(entity) {
			cells := r.Cells()
			for _, v := range values {
				x := r.Value(v)
				if panel.IsMissing(x) || x >= 0 {
					cells[v+"_downside"] = panel.Missing()
				} else {
					cells[v+"_downside"] = x
				}
			}
			out.Append(entity, r.Date, cells)
		}
	}
	return out, nil
}

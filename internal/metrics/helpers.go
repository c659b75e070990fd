// Package metrics is the pure panel metrics engine: every operation takes a
// panel table plus typed options and returns a freshly built table, grouping
// by entity and never mutating its input. Undefined results (division by
// zero, unfilled rolling windows, empty regime partitions) are missing cells,
// not errors; malformed parameters are UsageError values.
package metrics

import (
	"math"

	"fundpanel/internal/panel"
)

// TradingDaysPerYear is the fixed annualization convention.
const TradingDaysPerYear = 252

// safeDiv divides a by b, mapping a zero denominator to the missing marker
// rather than ±Inf. NaN operands propagate as usual.
func safeDiv(a, b float64) float64 {
	if b == 0 {
		return panel.Missing()
	}
	return a / b
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return panel.Missing()
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddevPop is the population standard deviation (denominator N).
func stddevPop(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return panel.Missing()
	}
	m := mean(xs)
	ss := 0.0
	for _, x := range xs {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(n))
}

// compound returns Π(1+x) over the non-missing elements. Missing elements
// contribute a unit factor; an all-missing input compounds to 1.
func compound(xs []float64) float64 {
	p := 1.0
	for _, x := range xs {
		if panel.IsMissing(x) {
			continue
		}
		p *= 1 + x
	}
	return p
}

// cagr annualizes a total compounded return observed over n periods of the
// given trading-day frequency: (1+total)^((252/frequency)/n) - 1.
func cagr(total float64, n int, frequency int) float64 {
	if n == 0 {
		return panel.Missing()
	}
	exp := (TradingDaysPerYear / float64(frequency)) / float64(n)
	return math.Pow(1+total, exp) - 1
}

// pearson is the Pearson correlation of two equal-length series. Degenerate
// inputs (fewer than two points, zero variance on either side) are missing.
func pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return panel.Missing()
	}
	mx, my := mean(xs), mean(ys)
	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	den := math.Sqrt(sxx * syy)
	if den == 0 {
		return panel.Missing()
	}
	return sxy / den
}

// backfillPositive masks non-positive and missing observations and fills each
// gap from the next valid observation, so zero or negative prices never enter
// a percent-change denominator. Trailing gaps stay missing.
func backfillPositive(vals []float64) []float64 {
	out := make([]float64, len(vals))
	next := panel.Missing()
	for i := len(vals) - 1; i >= 0; i-- {
		v := vals[i]
		if !panel.IsMissing(v) && v > 0 {
			next = v
		}
		out[i] = next
	}
	return out
}

// columnValues extracts one column of a row group as a slice.
func columnValues(rows []panel.Row, col string) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Value(col)
	}
	return out
}

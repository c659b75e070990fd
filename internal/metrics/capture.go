package metrics

import "fundpanel/internal/panel"

// CaptureOptions configures the CaptureRatio operation.
type CaptureOptions struct {
	// AssetReturns and BenchReturns name the return columns to compare.
	AssetReturns string
	BenchReturns string
	// ReturnsFrequency is the periodicity of the input returns in trading
	// days, used for the regime CAGR. Defaults to 1.
	ReturnsFrequency int
}

// CaptureRatio partitions each entity's rows into bull (benchmark return > 0)
// and bear (benchmark return <= 0) regimes, annualizes the compounded asset
// and benchmark return within each regime, and reports
// capture = asset_cagr / bench_cagr per regime plus the bull/bear ratio.
// An entity with no observations in a regime gets a missing capture there,
// and the final ratio propagates as missing. One row per entity.
func CaptureRatio(t *panel.Table, opts CaptureOptions) (*panel.Table, error) {
	if err := requireColumns(t, "asset_returns", opts.AssetReturns); err != nil {
		return nil, err
	}
	if err := requireColumns(t, "bench_returns", opts.BenchReturns); err != nil {
		return nil, err
	}
	freq := opts.ReturnsFrequency
	if freq == 0 {
		freq = 1
	}
	if freq < 0 {
		return nil, usageErrf("returns_frequency", "must be positive, got %d", freq)
	}

	out := panel.New(
		"asset_cagr_bull", "bench_cagr_bull", "n_periods_bull", "capture_bull",
		"asset_cagr_bear", "bench_cagr_bear", "n_periods_bear", "capture_bear",
		"capture_ratio",
	)

	for _, entity := range t.Entities() {
		rows := t.Group(entity)
		if len(rows) == 0 {
			continue
		}
		var bullA, bullB, bearA, bearB []float64
		for _, r := range rows {
			a, b := r.Value(opts.AssetReturns), r.Value(opts.BenchReturns)
			if panel.IsMissing(a) || panel.IsMissing(b) {
				continue
			}
			if b > 0 {
				bullA, bullB = append(bullA, a), append(bullB, b)
			} else {
				bearA, bearB = append(bearA, a), append(bearB, b)
			}
		}

		bullAssetCAGR, bullBenchCAGR, bullCapture := regimeCapture(bullA, bullB, freq)
		bearAssetCAGR, bearBenchCAGR, bearCapture := regimeCapture(bearA, bearB, freq)

		out.Append(entity, rows[len(rows)-1].Date, map[string]float64{
			"asset_cagr_bull": bullAssetCAGR,
			"bench_cagr_bull": bullBenchCAGR,
			"n_periods_bull":  float64(len(bullA)),
			"capture_bull":    bullCapture,
			"asset_cagr_bear": bearAssetCAGR,
			"bench_cagr_bear": bearBenchCAGR,
			"n_periods_bear":  float64(len(bearA)),
			"capture_bear":    bearCapture,
			"capture_ratio":   safeDiv(bullCapture, bearCapture),
		})
	}
	return out, nil
}

// regimeCapture annualizes both series over one regime and divides. An empty
// regime yields missing values throughout.
func regimeCapture(asset, bench []float64, frequency int) (assetCAGR, benchCAGR, capture float64) {
	n := len(asset)
	if n == 0 {
		m := panel.Missing()
		return m, m, m
	}
	assetCAGR = cagr(compound(asset)-1, n, frequency)
	benchCAGR = cagr(compound(bench)-1, n, frequency)
	capture = safeDiv(assetCAGR, benchCAGR)
	return assetCAGR, benchCAGR, capture
}

package metrics

import (
	"math"
	"testing"

	"fundpanel/internal/panel"
)

// summaryRow builds a one-row table with the named summary cells.
func summaryRow(cells map[string]float64) *panel.Table {
	cols := make([]string, 0, len(cells))
	for c := range cells {
		cols = append(cols, c)
	}
	t := panel.New(cols...)
	t.Append("f1", day(1), cells)
	return t
}

func TestBeta(t *testing.T) {
	tbl := summaryRow(map[string]float64{
		"asset_vol": 0.20,
		"bench_vol": 0.10,
		"corr":      0.5,
	})

	got, err := Beta(tbl, "asset_vol", "bench_vol", "corr")
	if err != nil {
		t.Fatalf("Beta failed: %v", err)
	}
	if v := got.Group("f1")[0].Value("beta"); !approx(v, 1.0) {
		t.Errorf("Beta: got %f, want 1", v)
	}
}

func TestBeta_ZeroBenchVolIsMissing(t *testing.T) {
	tbl := summaryRow(map[string]float64{
		"asset_vol": 0.20,
		"bench_vol": 0.0,
		"corr":      0.5,
	})

	got, err := Beta(tbl, "asset_vol", "bench_vol", "corr")
	if err != nil {
		t.Fatalf("Beta failed: %v", err)
	}
	if v := got.Group("f1")[0].Value("beta"); !math.IsNaN(v) {
		t.Errorf("Expected missing beta on zero benchmark vol, got %f", v)
	}
}

func TestAlpha(t *testing.T) {
	tbl := summaryRow(map[string]float64{
		"asset_ret": 0.15,
		"bench_ret": 0.10,
		"rf_ret":    0.05,
		"beta":      1.2,
	})

	got, err := Alpha(tbl, "asset_ret", "bench_ret", "rf_ret", "beta")
	if err != nil {
		t.Fatalf("Alpha failed: %v", err)
	}
	want := 0.15 - 0.05 - 1.2*(0.10-0.05)
	if v := got.Group("f1")[0].Value("alpha"); !approx(v, want) {
		t.Errorf("Alpha: got %f, want %f", v, want)
	}
}

func TestSharpe(t *testing.T) {
	tbl := summaryRow(map[string]float64{
		"asset_ret": 0.15,
		"rf_ret":    0.05,
		"asset_vol": 0.20,
	})

	got, err := Sharpe(tbl, "asset_ret", "rf_ret", "asset_vol")
	if err != nil {
		t.Fatalf("Sharpe failed: %v", err)
	}
	if v := got.Group("f1")[0].Value("sharpe"); !approx(v, 0.5) {
		t.Errorf("Sharpe: got %f, want 0.5", v)
	}
}

func TestSortino(t *testing.T) {
	tbl := summaryRow(map[string]float64{
		"asset_ret":    0.15,
		"rf_ret":       0.05,
		"downside_vol": 0.10,
	})

	got, err := Sortino(tbl, "asset_ret", "rf_ret", "downside_vol")
	if err != nil {
		t.Fatalf("Sortino failed: %v", err)
	}
	if v := got.Group("f1")[0].Value("sortino"); !approx(v, 1.0) {
		t.Errorf("Sortino: got %f, want 1", v)
	}
}

func TestRatios_MissingPropagatesThroughChain(t *testing.T) {
	// A missing correlation poisons beta, then alpha, while sharpe (which
	// does not depend on either) stays defined.
	tbl := summaryRow(map[string]float64{
		"asset_vol": 0.20,
		"bench_vol": 0.10,
		"corr":      math.NaN(),
		"asset_ret": 0.15,
		"bench_ret": 0.10,
		"rf_ret":    0.05,
	})

	withBeta, err := Beta(tbl, "asset_vol", "bench_vol", "corr")
	if err != nil {
		t.Fatalf("Beta failed: %v", err)
	}
	withAlpha, err := Alpha(withBeta, "asset_ret", "bench_ret", "rf_ret", "beta")
	if err != nil {
		t.Fatalf("Alpha failed: %v", err)
	}
	withSharpe, err := Sharpe(withAlpha, "asset_ret", "rf_ret", "asset_vol")
	if err != nil {
		t.Fatalf("Sharpe failed: %v", err)
	}

	r := withSharpe.Group("f1")[0]
	if !math.IsNaN(r.Value("beta")) {
		t.Errorf("Expected missing beta, got %f", r.Value("beta"))
	}
	if !math.IsNaN(r.Value("alpha")) {
		t.Errorf("Expected missing alpha, got %f", r.Value("alpha"))
	}
	if !approx(r.Value("sharpe"), 0.5) {
		t.Errorf("Sharpe: got %f, want 0.5", r.Value("sharpe"))
	}
}

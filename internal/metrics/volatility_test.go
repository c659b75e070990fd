package metrics

import (
	"math"
	"testing"

	"fundpanel/internal/panel"
)

// returnsTable builds a one-entity table holding a precomputed return column.
func returnsTable(col string, rets ...float64) *panel.Table {
	t := panel.New(col)
	for i, r := range rets {
		t.Append("f1", day(i+1), map[string]float64{col: r})
	}
	return t
}

func TestVolatility_ConstantReturnsAreZero(t *testing.T) {
	tbl := returnsTable("r", 0.01, 0.01, 0.01, 0.01)

	got, err := Volatility(tbl, VolatilityOptions{Values: []string{"r"}})
	if err != nil {
		t.Fatalf("Volatility failed: %v", err)
	}

	rows := got.Group("f1")
	if len(rows) != 1 {
		t.Fatalf("Expected one summary row, got %d", len(rows))
	}
	if !approx(rows[0].Value("r_vol"), 0.0) {
		t.Errorf("Volatility of constant returns: got %f, want 0", rows[0].Value("r_vol"))
	}
}

func TestVolatility_PopulationStddevAnnualized(t *testing.T) {
	tbl := returnsTable("r", 0.01, -0.01, 0.01, -0.01)

	got, err := Volatility(tbl, VolatilityOptions{Values: []string{"r"}})
	if err != nil {
		t.Fatalf("Volatility failed: %v", err)
	}

	want := 0.01 * math.Sqrt(252)
	if v := got.Group("f1")[0].Value("r_vol"); !approx(v, want) {
		t.Errorf("Volatility: got %f, want %f", v, want)
	}
}

func TestVolatility_FrequencyScalesAnnualization(t *testing.T) {
	tbl := returnsTable("r", 0.01, -0.01, 0.01, -0.01)

	got, err := Volatility(tbl, VolatilityOptions{Values: []string{"r"}, ReturnsFrequency: 21})
	if err != nil {
		t.Fatalf("Volatility failed: %v", err)
	}

	want := 0.01 * math.Sqrt(252.0/21.0)
	if v := got.Group("f1")[0].Value("r_vol"); !approx(v, want) {
		t.Errorf("Monthly volatility: got %f, want %f", v, want)
	}
}

func TestVolatility_MissingObservationsSkipped(t *testing.T) {
	tbl := returnsTable("r", 0.01, math.NaN(), -0.01)

	got, err := Volatility(tbl, VolatilityOptions{Values: []string{"r"}})
	if err != nil {
		t.Fatalf("Volatility failed: %v", err)
	}

	want := 0.01 * math.Sqrt(252)
	if v := got.Group("f1")[0].Value("r_vol"); !approx(v, want) {
		t.Errorf("Volatility with gap: got %f, want %f", v, want)
	}
}

func TestVolatility_RollingWindowFillsLate(t *testing.T) {
	tbl := returnsTable("r", 0.01, -0.01, 0.01, -0.01, 0.01)

	got, err := Volatility(tbl, VolatilityOptions{Values: []string{"r"}, Rolling: true, WindowSize: 3})
	if err != nil {
		t.Fatalf("Volatility failed: %v", err)
	}

	col := rollingVolColumn("r", 3)
	if col != "r_vol_3rw" {
		t.Fatalf("Unexpected column name %q", col)
	}
	rows := got.Group("f1")
	for i := 0; i < 2; i++ {
		if !math.IsNaN(rows[i].Value(col)) {
			t.Errorf("Row %d: expected missing before window fills, got %f", i, rows[i].Value(col))
		}
	}
	for i := 2; i < len(rows); i++ {
		if math.IsNaN(rows[i].Value(col)) {
			t.Errorf("Row %d: expected volatility once window is full", i)
		}
	}
}

func TestVolatility_RollingWindowWithGapIsMissing(t *testing.T) {
	tbl := returnsTable("r", 0.01, math.NaN(), 0.01, -0.01, 0.01)

	got, err := Volatility(tbl, VolatilityOptions{Values: []string{"r"}, Rolling: true, WindowSize: 3})
	if err != nil {
		t.Fatalf("Volatility failed: %v", err)
	}

	col := rollingVolColumn("r", 3)
	rows := got.Group("f1")
	// Window [NaN, 0.01, -0.01] contains a gap.
	if !math.IsNaN(rows[3].Value(col)) {
		t.Errorf("Expected missing for window containing a gap, got %f", rows[3].Value(col))
	}
	// Window [0.01, -0.01, 0.01] is clean.
	if math.IsNaN(rows[4].Value(col)) {
		t.Error("Expected a value once the window is clean")
	}
}

func TestDownside_KeepsOnlyNegativeReturns(t *testing.T) {
	tbl := returnsTable("r", 0.02, -0.01, 0.0, -0.03)

	got, err := Downside(tbl, []string{"r"})
	if err != nil {
		t.Fatalf("Downside failed: %v", err)
	}

	rows := got.Group("f1")
	want := []float64{math.NaN(), -0.01, math.NaN(), -0.03}
	for i, w := range want {
		if !approx(rows[i].Value("r_downside"), w) {
			t.Errorf("Row %d: got %f, want %f", i, rows[i].Value("r_downside"), w)
		}
	}
}

package metrics

import (
	"errors"
	"math"
	"testing"

	"fundpanel/internal/panel"
)

func TestDrawdown_RunningMaxAndDistance(t *testing.T) {
	tbl := priceTable("f1", 100, 110, 99)

	got, err := Drawdown(tbl, []string{panel.ColQuota})
	if err != nil {
		t.Fatalf("Drawdown failed: %v", err)
	}

	rows := got.Group("f1")
	wantMax := []float64{100, 110, 110}
	wantDD := []float64{0, 0, 99.0/110.0 - 1}
	for i := range rows {
		if !approx(rows[i].Value("cum_max_quota"), wantMax[i]) {
			t.Errorf("Row %d cum_max: got %f, want %f", i, rows[i].Value("cum_max_quota"), wantMax[i])
		}
		if !approx(rows[i].Value("drawdown_quota"), wantDD[i]) {
			t.Errorf("Row %d drawdown: got %f, want %f", i, rows[i].Value("drawdown_quota"), wantDD[i])
		}
	}
}

func TestDrawdown_MissingPriceKeepsRunningMax(t *testing.T) {
	tbl := panel.New(panel.ColQuota)
	tbl.Append("f1", day(1), map[string]float64{panel.ColQuota: 100})
	tbl.Append("f1", day(2), map[string]float64{panel.ColQuota: panel.Missing()})
	tbl.Append("f1", day(3), map[string]float64{panel.ColQuota: 90})

	got, err := Drawdown(tbl, []string{panel.ColQuota})
	if err != nil {
		t.Fatalf("Drawdown failed: %v", err)
	}

	rows := got.Group("f1")
	if !math.IsNaN(rows[1].Value("drawdown_quota")) {
		t.Errorf("Expected missing drawdown on gap, got %f", rows[1].Value("drawdown_quota"))
	}
	if !approx(rows[1].Value("cum_max_quota"), 100) {
		t.Errorf("Running max on gap: got %f, want 100", rows[1].Value("cum_max_quota"))
	}
	if !approx(rows[2].Value("drawdown_quota"), -0.1) {
		t.Errorf("Drawdown after gap: got %f, want -0.1", rows[2].Value("drawdown_quota"))
	}
}

func TestDrawdown_PerEntityRunningMax(t *testing.T) {
	tbl := panel.New(panel.ColQuota)
	tbl.Append("f1", day(1), map[string]float64{panel.ColQuota: 1000})
	tbl.Append("f2", day(1), map[string]float64{panel.ColQuota: 10})
	tbl.Append("f2", day(2), map[string]float64{panel.ColQuota: 20})

	got, err := Drawdown(tbl, []string{panel.ColQuota})
	if err != nil {
		t.Fatalf("Drawdown failed: %v", err)
	}

	// f2's maximum must not leak from f1's much larger prices.
	if !approx(got.Group("f2")[1].Value("cum_max_quota"), 20) {
		t.Errorf("f2 cum_max: got %f, want 20", got.Group("f2")[1].Value("cum_max_quota"))
	}
}

func TestDrawdown_UnknownColumn(t *testing.T) {
	tbl := priceTable("f1", 100)

	_, err := Drawdown(tbl, []string{"nope"})
	var usage *UsageError
	if !errors.As(err, &usage) {
		t.Fatalf("Expected UsageError, got %v", err)
	}
}

package ingest

import (
	"testing"
	"time"

	"fundpanel/internal/domain"
)

func TestPeriodOf(t *testing.T) {
	p := PeriodOf(time.Date(2024, time.March, 15, 23, 0, 0, 0, time.UTC))
	if p.Year != 2024 || p.Month != time.March {
		t.Errorf("PeriodOf: got %v", p)
	}
}

func TestPeriod_NextCrossesYear(t *testing.T) {
	p := Period{Year: 2023, Month: time.December}.Next()
	if p.Year != 2024 || p.Month != time.January {
		t.Errorf("Next: got %v", p)
	}
}

func TestPeriod_After(t *testing.T) {
	jan := Period{Year: 2024, Month: time.January}
	dec := Period{Year: 2023, Month: time.December}
	if !jan.After(dec) {
		t.Error("2024-01 should be after 2023-12")
	}
	if dec.After(jan) {
		t.Error("2023-12 should not be after 2024-01")
	}
	if jan.After(jan) {
		t.Error("A period is not after itself")
	}
}

func TestPeriod_StartAndString(t *testing.T) {
	p := Period{Year: 2024, Month: time.February}
	if !p.Start().Equal(domain.Date(2024, time.February, 1)) {
		t.Errorf("Start: got %s", p.Start())
	}
	if p.String() != "2024-02" {
		t.Errorf("String: got %q", p.String())
	}
}

func TestPeriod_Iteration(t *testing.T) {
	start := Period{Year: 2023, Month: time.November}
	end := Period{Year: 2024, Month: time.February}

	var seen []string
	for p := start; !p.After(end); p = p.Next() {
		seen = append(seen, p.String())
	}
	want := []string{"2023-11", "2023-12", "2024-01", "2024-02"}
	if len(seen) != len(want) {
		t.Fatalf("Iterated %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("Step %d: got %s, want %s", i, seen[i], want[i])
		}
	}
}

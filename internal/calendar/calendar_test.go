package calendar

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekdays_IsTradingDay(t *testing.T) {
	c := NewWeekdays()

	// 2024-01-05 is a Friday, 2024-01-06 a Saturday.
	if !c.IsTradingDay(date(2024, time.January, 5)) {
		t.Error("Friday should be a trading day")
	}
	if c.IsTradingDay(date(2024, time.January, 6)) {
		t.Error("Saturday should not be a trading day")
	}
	if c.IsTradingDay(date(2024, time.January, 7)) {
		t.Error("Sunday should not be a trading day")
	}
}

func TestWeekdays_Holiday(t *testing.T) {
	newYear := date(2024, time.January, 1) // a Monday
	c := NewWeekdays(newYear)

	if c.IsTradingDay(newYear) {
		t.Error("Holiday should not be a trading day")
	}
	if !c.IsTradingDay(date(2024, time.January, 2)) {
		t.Error("Day after holiday should be a trading day")
	}
}

func TestWeekdays_SubTradingDaysSkipsWeekend(t *testing.T) {
	c := NewWeekdays()

	// Two trading days before Monday 2024-01-08 is Thursday 2024-01-04.
	got := c.SubTradingDays(date(2024, time.January, 8), 2)
	want := date(2024, time.January, 4)
	if !got.Equal(want) {
		t.Errorf("SubTradingDays: got %s, want %s", got, want)
	}
}

func TestWeekdays_SubTradingDaysSkipsHoliday(t *testing.T) {
	c := NewWeekdays(date(2024, time.January, 5))

	// One trading day before Monday 2024-01-08, with Friday a holiday,
	// is Thursday 2024-01-04.
	got := c.SubTradingDays(date(2024, time.January, 8), 1)
	want := date(2024, time.January, 4)
	if !got.Equal(want) {
		t.Errorf("SubTradingDays: got %s, want %s", got, want)
	}
}

func TestWeekdays_SubTradingDaysZero(t *testing.T) {
	c := NewWeekdays()
	day := date(2024, time.January, 8)
	if got := c.SubTradingDays(day, 0); !got.Equal(day) {
		t.Errorf("Zero margin should not move: got %s", got)
	}
}

func TestFixedDays(t *testing.T) {
	c := FixedDays{}

	got := c.SubTradingDays(date(2024, time.January, 8), 2)
	want := date(2024, time.January, 6)
	if !got.Equal(want) {
		t.Errorf("SubTradingDays: got %s, want %s", got, want)
	}
	if !c.IsTradingDay(date(2024, time.January, 6)) {
		t.Error("FixedDays treats every day as trading")
	}
}

func TestWeekdays_TruncatesTimestamps(t *testing.T) {
	c := NewWeekdays()

	late := time.Date(2024, time.January, 8, 23, 59, 0, 0, time.UTC)
	got := c.SubTradingDays(late, 1)
	want := date(2024, time.January, 5)
	if !got.Equal(want) {
		t.Errorf("SubTradingDays: got %s, want %s", got, want)
	}
}

// Package calendar provides the trading-day arithmetic behind the
// synchronizer's refresh-window safety margin. The margin policy is expressed
// in trading days; Weekdays is the default approximation (weekends plus an
// optional holiday set), FixedDays the fallback when no trading calendar
// applies.
package calendar

import "time"

// Trading decides which days trade and steps backwards over them.
type Trading interface {
	IsTradingDay(t time.Time) bool
	// SubTradingDays returns the date n trading days before t.
	SubTradingDays(t time.Time, n int) time.Time
}

// Weekdays treats Monday through Friday as trading days, minus an optional
// holiday set. This is an approximation of an exchange calendar, not a
// settlement rule; the synchronizer's margin absorbs the difference.
type Weekdays struct {
	holidays map[time.Time]struct{}
}

// NewWeekdays builds a weekday calendar with the given holidays (compared at
// day granularity, UTC).
func NewWeekdays(holidays ...time.Time) *Weekdays {
	c := &Weekdays{holidays: make(map[time.Time]struct{}, len(holidays))}
	for _, h := range holidays {
		c.holidays[dayOf(h)] = struct{}{}
	}
	return c
}

func (c *Weekdays) IsTradingDay(t time.Time) bool {
	d := dayOf(t)
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	_, holiday := c.holidays[d]
	return !holiday
}

func (c *Weekdays) SubTradingDays(t time.Time, n int) time.Time {
	d := dayOf(t)
	for n > 0 {
		d = d.AddDate(0, 0, -1)
		if c.IsTradingDay(d) {
			n--
		}
	}
	return d
}

// FixedDays subtracts plain calendar days. Used when no trading calendar is
// available; the documented approximation is a slightly wider window, never a
// narrower one.
type FixedDays struct{}

func (FixedDays) IsTradingDay(time.Time) bool { return true }

func (FixedDays) SubTradingDays(t time.Time, n int) time.Time {
	return dayOf(t).AddDate(0, 0, -n)
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

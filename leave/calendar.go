package leave

import (
	"time"

	"github.com/warp/careshift-engine/engine"
)

// =============================================================================
// HOLIDAY CALENDAR - Configured public holidays
// =============================================================================

// Calendar is a configured set of public holidays implementing
// engine.HolidayCalendar. Fixed holidays recur every year on the same
// month/day; dated holidays apply to a single date (movable feasts).
type Calendar struct {
	fixed map[[2]int]bool // month, day
	dated map[string]bool // "2006-01-02"
}

var _ engine.HolidayCalendar = (*Calendar)(nil)

// NewCalendar returns an empty calendar (no holidays).
func NewCalendar() *Calendar {
	return &Calendar{fixed: make(map[[2]int]bool), dated: make(map[string]bool)}
}

// AddFixed registers a holiday recurring every year.
func (c *Calendar) AddFixed(month time.Month, day int) *Calendar {
	c.fixed[[2]int{int(month), day}] = true
	return c
}

// AddDate registers a single-date holiday.
func (c *Calendar) AddDate(d engine.Date) *Calendar {
	c.dated[d.String()] = true
	return c
}

func (c *Calendar) IsHoliday(d engine.Date) bool {
	if c == nil {
		return false
	}
	return c.fixed[[2]int{int(d.Month()), d.Day()}] || c.dated[d.String()]
}

// FrenchCalendar returns the fixed-date French public holidays. Movable
// feasts (Easter Monday, Ascension, Whit Monday) vary by year and are
// added per-year with AddDate from configuration.
func FrenchCalendar() *Calendar {
	return NewCalendar().
		AddFixed(time.January, 1).
		AddFixed(time.May, 1).
		AddFixed(time.May, 8).
		AddFixed(time.July, 14).
		AddFixed(time.August, 15).
		AddFixed(time.November, 1).
		AddFixed(time.November, 11).
		AddFixed(time.December, 25)
}

// =============================================================================
// BUSINESS DAYS
// =============================================================================

// CountBusinessDays counts the weekdays in [start, end] that are not
// holidays on the given calendar. A nil calendar counts all weekdays.
// Used for absence-duration display.
func CountBusinessDays(start, end engine.Date, calendar engine.HolidayCalendar) int {
	if end.Before(start) {
		return 0
	}
	if calendar == nil {
		calendar = engine.NoHolidays{}
	}
	count := 0
	for d := start; d.BeforeOrEqual(end); d = d.AddDays(1) {
		if !d.IsWeekend() && !calendar.IsHoliday(d) {
			count++
		}
	}
	return count
}

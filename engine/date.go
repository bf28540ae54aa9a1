package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Day-granularity calendar date
// =============================================================================

// Date is a calendar date with day granularity, normalized to UTC midnight.
type Date struct {
	Time time.Time
}

// NewDate constructs a Date from year, month, day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses "2006-01-02".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t.UTC()}, nil
}

// Today returns the current date in UTC.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// Comparison
func (d Date) Before(other Date) bool        { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool         { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool         { return d.Time.Equal(other.Time) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{Time: d.Time.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{Time: d.Time.AddDate(0, n, 0)} }
func (d Date) AddYears(n int) Date  { return Date{Time: d.Time.AddDate(n, 0, 0)} }

// Properties
func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Date) IsZero() bool          { return d.Time.IsZero() }
func (d Date) IsSunday() bool        { return d.Weekday() == time.Sunday }

func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ISOWeek returns the ISO 8601 year and week number.
func (d Date) ISOWeek() (year, week int) { return d.Time.ISOWeek() }

// DayNumber returns the number of days since the Unix epoch. Used to place
// shifts on a single minute axis for overlap and rest-gap checks.
func (d Date) DayNumber() int {
	return int(d.Time.Unix() / 86400)
}

// DaysUntil returns the number of days from d to other (negative if other
// is earlier).
func (d Date) DaysUntil(other Date) int {
	return other.DayNumber() - d.DayNumber()
}

func (d Date) String() string { return d.Time.Format("2006-01-02") }

// =============================================================================
// PERIOD - Inclusive date range
// =============================================================================

// Period is an inclusive [Start, End] date range.
type Period struct {
	Start Date
	End   Date
}

// Contains returns true if the date falls within the period.
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Days returns the number of days in the period, inclusive.
func (p Period) Days() int {
	return p.Start.DaysUntil(p.End) + 1
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// ISOWeekOf returns the Monday-to-Sunday period containing the date.
func ISOWeekOf(d Date) Period {
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	start := d.AddDays(-offset)
	return Period{Start: start, End: start.AddDays(6)}
}

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// HolidayCalendar reports public holidays, feeding both the holiday pay
// majoration and business-day counting.
type HolidayCalendar interface {
	IsHoliday(d Date) bool
}

// NoHolidays is the calendar used when no holiday configuration exists.
type NoHolidays struct{}

func (NoHolidays) IsHoliday(Date) bool { return false }

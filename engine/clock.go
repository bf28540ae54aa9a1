/*
clock.go - Wall-clock arithmetic for shift durations and night overlap

PURPOSE:
  Minute-precision clock math underlying every other computation in the
  engine: shift duration with the midnight-crossing convention, and the
  overlap between a shift and the legal night window.

KEY CONCEPTS:
  - ClockTime: minutes since midnight (00:00 = 0, 23:59 = 1439)
  - Midnight crossing: end <= start means the shift runs into the next day
  - 24h convention: start == end denotes exactly 24 hours (guard duty)
  - NightWindow: the legal night band, itself crossing midnight (21:00-06:00)

TOTALITY:
  Duration and NightOverlap are pure, total functions. They never fail for
  any ClockTime input; malformed time strings are rejected by ParseClock at
  the boundary before the engine runs.

SEE ALSO:
  - date.go: Day-granularity dates and periods
  - guard.go: Per-segment durations using the same midnight rule
*/
package engine

import "fmt"

// =============================================================================
// CLOCK TIME - Minutes since midnight
// =============================================================================

// ClockTime is a wall-clock time of day in minutes since midnight.
// Valid values are in [0, 1440).
type ClockTime int

const minutesPerDay = 1440

// ParseClock parses "HH:MM" into a ClockTime.
func ParseClock(s string) (ClockTime, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	return ClockTime(h*60 + m), nil
}

// MustClock parses "HH:MM" and panics on failure. For constants and tests.
func MustClock(s string) ClockTime {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c ClockTime) Hour() int   { return int(c) / 60 }
func (c ClockTime) Minute() int { return int(c) % 60 }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// =============================================================================
// DURATION - Midnight-crossing shift span
// =============================================================================

// Span returns the raw minutes between start and end, applying the
// midnight-crossing rule: end <= start adds a day, so start == end is
// exactly 1440 minutes (the 24h guard-duty convention).
func Span(start, end ClockTime) int {
	e := int(end)
	if e <= int(start) {
		e += minutesPerDay
	}
	return e - int(start)
}

// Duration returns worked minutes between start and end after subtracting
// the break, floored at zero. Pure and total.
func Duration(start, end ClockTime, breakMinutes int) int {
	d := Span(start, end) - breakMinutes
	if d < 0 {
		return 0
	}
	return d
}

// =============================================================================
// NIGHT WINDOW - Legal night band, crossing midnight
// =============================================================================

// NightWindow is the band of hours legally counted as night work.
// Start is on the evening side, End on the morning side of midnight.
type NightWindow struct {
	Start ClockTime
	End   ClockTime
}

// DefaultNightWindow is the 21:00-06:00 band.
func DefaultNightWindow() NightWindow {
	return NightWindow{Start: 21 * 60, End: 6 * 60}
}

// NightOverlap returns the minutes of the shift [start, end) that fall
// inside the night window. Both the shift and the window may cross
// midnight; the shift is unrolled onto a single axis and intersected with
// the window occurrences on the surrounding days.
func NightOverlap(start, end ClockTime, w NightWindow) int {
	shiftStart := int(start)
	shiftEnd := shiftStart + Span(start, end)

	winStart := int(w.Start)
	winEnd := int(w.End)
	if winEnd <= winStart {
		winEnd += minutesPerDay
	}

	total := 0
	for _, offset := range []int{-minutesPerDay, 0, minutesPerDay} {
		lo := max(shiftStart, winStart+offset)
		hi := min(shiftEnd, winEnd+offset)
		if hi > lo {
			total += hi - lo
		}
	}
	return total
}

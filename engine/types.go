/*
Package engine implements the deterministic rules-and-pay core for home-care
shift scheduling.

PURPOSE:
  Turns a proposed or recorded shift - plus the worker's sibling shifts,
  approved absences and contract - into:
    (a) a time decomposition (duration, night overlap, guard segments)
    (b) a compliance verdict (blocking Violations vs acknowledgeable Warnings)
    (c) a monetary pay breakdown

KEY CONCEPTS IN THIS FILE (types.go):
  - ShiftType: closed variant over the four legal work categories
  - Shift: a single work period, minute precision, possibly crossing midnight
  - GuardSegment: one slice of a 24h guard duty
  - Contract / Absence: the worker-side context for compliance
  - ComputedPay: the exact decimal pay breakdown

DESIGN PRINCIPLES:
  1. Purity: every computation is a side-effect-free transform; derived
     fields are recomputed, never hand-edited
  2. Precision: decimal.Decimal for money and effective hours, no float drift
  3. Exhaustiveness: ShiftType is a closed variant so every switch handles
     all four categories
  4. Auditability: identical inputs always reproduce identical outputs

SEE ALSO:
  - classify.go: effective-hours classification and requalification
  - guard.go: 24h guard segment decomposition
  - compliance.go: rule checks against sibling shifts and absences
  - pay.go: pay breakdown
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// SHIFT TYPE - Closed variant over the legal work categories
// =============================================================================

// ShiftType is the legal category of a work period. It is a closed variant:
// adding a category is a compile-time-checked change across the engine.
type ShiftType int

const (
	// ShiftEffective is ordinary active work, counted at 100%.
	ShiftEffective ShiftType = iota
	// ShiftPresenceDay is daytime responsible presence, counted at 2/3.
	ShiftPresenceDay
	// ShiftPresenceNight is overnight presence, paid through a flat
	// allowance unless requalified into effective time.
	ShiftPresenceNight
	// ShiftGuard24h is a continuous 24-hour guard duty, internally split
	// into segments of the other three categories.
	ShiftGuard24h
)

var shiftTypeNames = map[ShiftType]string{
	ShiftEffective:     "effective",
	ShiftPresenceDay:   "presence_day",
	ShiftPresenceNight: "presence_night",
	ShiftGuard24h:      "guard_24h",
}

func (t ShiftType) String() string {
	if name, ok := shiftTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseShiftType converts a wire name into a ShiftType.
func ParseShiftType(s string) (ShiftType, error) {
	for t, name := range shiftTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, ErrInvalidShiftType
}

// =============================================================================
// SHIFT - A single work period
// =============================================================================

// ShiftStatus is the lifecycle state of a shift.
type ShiftStatus string

const (
	StatusPlanned   ShiftStatus = "planned"
	StatusCompleted ShiftStatus = "completed"
	StatusCancelled ShiftStatus = "cancelled"
	StatusAbsent    ShiftStatus = "absent"
)

// GuardSegment is one slice of a 24h guard duty. Its end is implicit: the
// next segment's start, wrapping to the first segment's start one day later.
type GuardSegment struct {
	Start        ClockTime
	Type         ShiftType // effective, presence_day or presence_night
	BreakMinutes int       // only meaningful when Type == ShiftEffective
}

// Shift is a single work period for one contract.
// Invariant: Start == End is legal only for ShiftGuard24h and denotes
// exactly 24 hours; all other types must have Start != End.
type Shift struct {
	ID         string
	ContractID string
	EmployeeID string

	Date         Date
	Start        ClockTime
	End          ClockTime
	BreakMinutes int
	Type         ShiftType

	// HasNightAction marks active intervention during night hours.
	// Only meaningful for effective shifts overlapping the night window.
	HasNightAction bool

	// NightInterventions counts call-outs during the period. Only
	// meaningful for presence_night and guard_24h; per-shift, not
	// accumulated across the calendar period.
	NightInterventions int

	// Segments is the ordered cyclic decomposition of a guard_24h shift.
	Segments []GuardSegment

	Status              ShiftStatus
	ValidatedByEmployer bool
	ValidatedByEmployee bool
}

// RawMinutes returns the shift span in minutes before break subtraction.
func (s Shift) RawMinutes() int { return Span(s.Start, s.End) }

// WorkedMinutes returns the span minus the break, floored at zero.
func (s Shift) WorkedMinutes() int { return Duration(s.Start, s.End, s.BreakMinutes) }

// Interval returns the shift as absolute minutes since the epoch,
// half-open [start, end). Midnight-crossing shifts extend into the next
// day on the same axis, which makes overlap and rest-gap checks plain
// integer comparisons.
func (s Shift) Interval() (start, end int) {
	start = s.Date.DayNumber()*minutesPerDay + int(s.Start)
	return start, start + s.RawMinutes()
}

// CheckWellFormed rejects shifts that must not reach the engine: a zero
// span outside guard duty, or a malformed guard segment list.
func (s Shift) CheckWellFormed() error {
	if s.Type != ShiftGuard24h {
		if s.Start == s.End {
			return ErrZeroSpan
		}
		return nil
	}
	return checkSegments(s.Start, s.Segments)
}

// =============================================================================
// CONTRACT AND ABSENCE - Worker-side context
// =============================================================================

// Contract binds a worker to an employer with a weekly ceiling and rate.
type Contract struct {
	ID          string
	EmployeeID  string
	WeeklyHours decimal.Decimal
	HourlyRate  decimal.Decimal
}

// AbsenceStatus is the lifecycle state of an absence request.
type AbsenceStatus string

const (
	AbsencePending  AbsenceStatus = "pending"
	AbsenceApproved AbsenceStatus = "approved"
	AbsenceRejected AbsenceStatus = "rejected"
)

// Absence is a day-granularity absence range, inclusive on both ends.
// Only approved absences participate in compliance checks.
type Absence struct {
	ID         string
	EmployeeID string
	Kind       string
	Start      Date
	End        Date
	Status     AbsenceStatus
}

// Interval returns the absence as absolute minutes since the epoch,
// covering the full days from Start midnight to the midnight after End.
func (a Absence) Interval() (start, end int) {
	return a.Start.DayNumber() * minutesPerDay, (a.End.DayNumber() + 1) * minutesPerDay
}

// =============================================================================
// COMPUTED PAY - Exact decimal pay breakdown
// =============================================================================

// ComputedPay is the pay breakdown for one shift. All components are
// non-negative and Total is their exact sum; nothing is rounded here,
// only at display time.
type ComputedPay struct {
	BasePay                decimal.Decimal
	NightMajoration        decimal.Decimal
	SundayMajoration       decimal.Decimal
	HolidayMajoration      decimal.Decimal
	OvertimeMajoration     decimal.Decimal
	PresenceResponsiblePay decimal.Decimal
	NightPresenceAllowance decimal.Decimal
	Total                  decimal.Decimal
}

func sumPay(p ComputedPay) decimal.Decimal {
	return p.BasePay.
		Add(p.NightMajoration).
		Add(p.SundayMajoration).
		Add(p.HolidayMajoration).
		Add(p.OvertimeMajoration).
		Add(p.PresenceResponsiblePay).
		Add(p.NightPresenceAllowance)
}

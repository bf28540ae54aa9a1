/*
compliance.go - Labor-rule validation of a candidate shift

PURPOSE:
  Cross-checks a candidate shift against the worker's sibling shifts and
  approved absences, producing a single aggregated ComplianceResult of
  Violations (blocking) and Warnings (acknowledgeable).

CHECKS:
  Overlap            candidate vs sibling shift intervals (same contract)
                     and approved absence day ranges        -> Violation
  Daily ceiling      effective hours on the calendar day    -> Warning at
                     the soft threshold, Violation above the legal max
  Weekly ceiling     effective hours in the ISO week, against the
                     contractual ceiling (Warning) and legal max (Violation)
  Daily rest         gap to the nearest shift on another day -> Violation
  Weekly rest        a consecutive rest window must exist in the week
                                                            -> Warning
  Mandatory break    effective block past 6h without the required break
                                                            -> Warning

  Checks run independently; evaluation order only affects display order,
  never the resulting set.

TAXONOMY (matches the error-handling design):
  Violations block persistence outright. Warnings require an explicit
  caller-side acknowledgment before submission. The validator itself never
  fails for well-formed input - every check degrades to "nothing found".
*/
package engine

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// ISSUES - Violations and Warnings
// =============================================================================

// IssueKind identifies which rule produced an issue.
type IssueKind string

const (
	IssueShiftOverlap      IssueKind = "shift_overlap"
	IssueAbsenceOverlap    IssueKind = "absence_overlap"
	IssueDailyCeiling      IssueKind = "daily_hour_ceiling"
	IssueWeeklyCeiling     IssueKind = "weekly_hour_ceiling"
	IssueDailyRest         IssueKind = "daily_rest"
	IssueWeeklyRest        IssueKind = "weekly_rest"
	IssueMissingBreak      IssueKind = "missing_break"
	IssueGuardEffectiveCap IssueKind = "guard_effective_cap"
)

// Issue is a single rule finding: which rule, what it measured, and the
// threshold it was measured against.
type Issue struct {
	Kind      IssueKind
	Message   string
	Metric    string
	Threshold decimal.Decimal
	Observed  decimal.Decimal
}

// ComplianceResult aggregates all findings for one candidate shift.
type ComplianceResult struct {
	Violations []Issue
	Warnings   []Issue
}

func (r ComplianceResult) HasErrors() bool   { return len(r.Violations) > 0 }
func (r ComplianceResult) HasWarnings() bool { return len(r.Warnings) > 0 }

func (r *ComplianceResult) violation(i Issue) { r.Violations = append(r.Violations, i) }
func (r *ComplianceResult) warning(i Issue)   { r.Warnings = append(r.Warnings, i) }

// =============================================================================
// VALIDATION
// =============================================================================

// Validate runs every compliance check on the candidate shift. Siblings
// are the worker's other shifts in the surrounding window; absences are
// filtered to approved ones internally. Cancelled siblings and the
// candidate itself (matched by ID) are ignored.
func Validate(candidate Shift, contract Contract, siblings []Shift, absences []Absence, rules RuleSet) ComplianceResult {
	var result ComplianceResult

	others := relevantSiblings(candidate, siblings)

	checkOverlaps(&result, candidate, others, absences)
	checkDailyCeiling(&result, candidate, others, rules)
	checkWeeklyCeiling(&result, candidate, others, contract, rules)
	checkDailyRest(&result, candidate, others, rules)
	checkWeeklyRest(&result, candidate, others, rules)
	checkMandatoryBreak(&result, candidate, rules)

	// Guard-internal findings (segment breaks, advisory effective cap)
	// surface in the same aggregated result.
	if candidate.Type == ShiftGuard24h {
		result.Warnings = append(result.Warnings, Decompose(candidate, rules).Warnings...)
	}

	return result
}

func relevantSiblings(candidate Shift, siblings []Shift) []Shift {
	out := make([]Shift, 0, len(siblings))
	for _, s := range siblings {
		if s.Status == StatusCancelled {
			continue
		}
		if candidate.ID != "" && s.ID == candidate.ID {
			continue
		}
		out = append(out, s)
	}
	return out
}

// intervalsOverlap is commutative: [aStart,aEnd) meets [bStart,bEnd) iff
// each starts before the other ends.
func intervalsOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

func checkOverlaps(result *ComplianceResult, candidate Shift, others []Shift, absences []Absence) {
	cStart, cEnd := candidate.Interval()

	for _, s := range others {
		if s.ContractID != candidate.ContractID {
			continue
		}
		oStart, oEnd := s.Interval()
		if intervalsOverlap(cStart, cEnd, oStart, oEnd) {
			result.violation(Issue{
				Kind: IssueShiftOverlap,
				Message: fmt.Sprintf("overlaps shift on %s from %s to %s",
					s.Date, s.Start, s.End),
				Metric: "overlap_minutes",
				Observed: decimal.NewFromInt(int64(
					min(cEnd, oEnd) - max(cStart, oStart))),
			})
		}
	}

	for _, a := range absences {
		if a.Status != AbsenceApproved || a.EmployeeID != candidate.EmployeeID {
			continue
		}
		aStart, aEnd := a.Interval()
		if intervalsOverlap(cStart, cEnd, aStart, aEnd) {
			result.violation(Issue{
				Kind:    IssueAbsenceOverlap,
				Message: fmt.Sprintf("falls within approved %s absence %s to %s", a.Kind, a.Start, a.End),
				Metric:  "absence_days",
			})
		}
	}
}

// effectiveHoursOn sums counted effective hours of shifts on one date.
func effectiveHoursOn(date Date, shifts []Shift, rules RuleSet) decimal.Decimal {
	total := decimal.Zero
	for _, s := range shifts {
		if !s.Date.Equal(date) {
			continue
		}
		cls := Classify(s, rules)
		if cls.Counted {
			total = total.Add(cls.EffectiveHours)
		}
	}
	return total
}

func checkDailyCeiling(result *ComplianceResult, candidate Shift, others []Shift, rules RuleSet) {
	day := effectiveHoursOn(candidate.Date, append(others, candidate), rules)

	switch {
	case day.GreaterThan(rules.DailyMaxHours):
		result.violation(Issue{
			Kind: IssueDailyCeiling,
			Message: fmt.Sprintf("%sh effective on %s exceeds the %sh legal daily maximum",
				day.StringFixed(2), candidate.Date, rules.DailyMaxHours),
			Metric:    "daily_effective_hours",
			Threshold: rules.DailyMaxHours,
			Observed:  day,
		})
	case day.GreaterThan(rules.DailySoftHours):
		result.warning(Issue{
			Kind: IssueDailyCeiling,
			Message: fmt.Sprintf("%sh effective on %s is above the %sh daily threshold",
				day.StringFixed(2), candidate.Date, rules.DailySoftHours),
			Metric:    "daily_effective_hours",
			Threshold: rules.DailySoftHours,
			Observed:  day,
		})
	}
}

func checkWeeklyCeiling(result *ComplianceResult, candidate Shift, others []Shift, contract Contract, rules RuleSet) {
	week := ISOWeekOf(candidate.Date)
	total := decimal.Zero
	for _, s := range append(others, candidate) {
		if !week.Contains(s.Date) {
			continue
		}
		cls := Classify(s, rules)
		if cls.Counted {
			total = total.Add(cls.EffectiveHours)
		}
	}

	soft := rules.WeeklySoftHours
	if !contract.WeeklyHours.IsZero() && contract.WeeklyHours.LessThan(soft) {
		soft = contract.WeeklyHours
	}

	switch {
	case total.GreaterThan(rules.WeeklyMaxHours):
		result.violation(Issue{
			Kind: IssueWeeklyCeiling,
			Message: fmt.Sprintf("%sh effective in week %s exceeds the %sh legal weekly maximum",
				total.StringFixed(2), week, rules.WeeklyMaxHours),
			Metric:    "weekly_effective_hours",
			Threshold: rules.WeeklyMaxHours,
			Observed:  total,
		})
	case total.GreaterThan(soft):
		result.warning(Issue{
			Kind: IssueWeeklyCeiling,
			Message: fmt.Sprintf("%sh effective in week %s is above the %sh weekly threshold",
				total.StringFixed(2), week, soft),
			Metric:    "weekly_effective_hours",
			Threshold: soft,
			Observed:  total,
		})
	}
}

// checkDailyRest enforces the minimum gap between the candidate and the
// nearest shift on another calendar day. Same-day fragmented schedules are
// normal in home care and are governed by the daily ceiling instead.
func checkDailyRest(result *ComplianceResult, candidate Shift, others []Shift, rules RuleSet) {
	cStart, cEnd := candidate.Interval()

	for _, s := range others {
		if s.EmployeeID != candidate.EmployeeID || s.Date.Equal(candidate.Date) {
			continue
		}
		oStart, oEnd := s.Interval()
		if intervalsOverlap(cStart, cEnd, oStart, oEnd) {
			continue // already a Violation via the overlap check
		}
		gap := cStart - oEnd
		if oStart >= cEnd {
			gap = oStart - cEnd
		}
		if gap < rules.DailyRestMinutes {
			result.violation(Issue{
				Kind: IssueDailyRest,
				Message: fmt.Sprintf("only %dh%02dm rest before/after the shift on %s; %dh required",
					gap/60, gap%60, s.Date, rules.DailyRestMinutes/60),
				Metric:    "rest_minutes",
				Threshold: decimal.NewFromInt(int64(rules.DailyRestMinutes)),
				Observed:  decimal.NewFromInt(int64(gap)),
			})
		}
	}
}

// checkWeeklyRest looks for at least one consecutive rest window of the
// configured length within the candidate's ISO week.
func checkWeeklyRest(result *ComplianceResult, candidate Shift, others []Shift, rules RuleSet) {
	week := ISOWeekOf(candidate.Date)
	weekStart := week.Start.DayNumber() * minutesPerDay
	weekEnd := (week.End.DayNumber() + 1) * minutesPerDay

	type interval struct{ start, end int }
	var busy []interval
	for _, s := range append(others, candidate) {
		if s.EmployeeID != candidate.EmployeeID {
			continue
		}
		start, end := s.Interval()
		if start >= weekEnd || end <= weekStart {
			continue
		}
		busy = append(busy, interval{max(start, weekStart), min(end, weekEnd)})
	}
	sort.Slice(busy, func(i, j int) bool { return busy[i].start < busy[j].start })

	longest := 0
	cursor := weekStart
	for _, b := range busy {
		if b.start-cursor > longest {
			longest = b.start - cursor
		}
		if b.end > cursor {
			cursor = b.end
		}
	}
	if weekEnd-cursor > longest {
		longest = weekEnd - cursor
	}

	if longest < rules.WeeklyRestMinutes {
		result.warning(Issue{
			Kind: IssueWeeklyRest,
			Message: fmt.Sprintf("longest rest window in week %s is %dh%02dm; %dh consecutive rest expected",
				week, longest/60, longest%60, rules.WeeklyRestMinutes/60),
			Metric:    "weekly_rest_minutes",
			Threshold: decimal.NewFromInt(int64(rules.WeeklyRestMinutes)),
			Observed:  decimal.NewFromInt(int64(longest)),
		})
	}
}

// checkMandatoryBreak flags an effective candidate running past the break
// threshold without the required break. Guard shifts are covered per
// segment by the decomposer.
func checkMandatoryBreak(result *ComplianceResult, candidate Shift, rules RuleSet) {
	if candidate.Type != ShiftEffective {
		return
	}
	span := candidate.RawMinutes()
	if span > rules.BreakAfterMinutes && candidate.BreakMinutes < rules.MinBreakMinutes {
		result.warning(Issue{
			Kind: IssueMissingBreak,
			Message: fmt.Sprintf("%dh%02dm effective block with a %dmin break; %dmin required past %dh",
				span/60, span%60, candidate.BreakMinutes, rules.MinBreakMinutes, rules.BreakAfterMinutes/60),
			Metric:    "break_minutes",
			Threshold: decimal.NewFromInt(int64(rules.MinBreakMinutes)),
			Observed:  decimal.NewFromInt(int64(candidate.BreakMinutes)),
		})
	}
}

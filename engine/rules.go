/*
rules.go - Injectable rule set for the applicable collective agreement

PURPOSE:
  Every legal threshold, coefficient and window the engine applies lives
  here rather than in code. The precise daily/weekly ceilings and rest
  minimums depend on the applicable collective agreement, so they are
  injected configuration; DefaultRuleSet carries the French home-care
  defaults the engine was written against.

SEE ALSO:
  - factory/ruleset.go: JSON collective-agreement files -> RuleSet
  - compliance.go: ceiling and rest checks consuming these values
  - pay.go: majoration rates consuming these values
*/
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RuleSet holds the legal parameters the engine validates and pays against.
type RuleSet struct {
	// Night work
	NightWindow NightWindow
	// NightRate is the majoration rate for effective night work with
	// active intervention (e.g. 0.20 = +20%).
	NightRate decimal.Decimal

	// Category coefficients
	// PresenceDayCoeff weights responsible daytime presence (2/3).
	PresenceDayCoeff decimal.Decimal
	// PresenceNightAllowanceRate is the flat allowance for non-requalified
	// night presence, applied to raw duration (0.25).
	PresenceNightAllowanceRate decimal.Decimal
	// RequalifyThreshold is the intervention count at and above which a
	// night presence flips to fully-paid effective time.
	RequalifyThreshold int

	// Majoration rates
	OvertimeRate decimal.Decimal
	SundayRate   decimal.Decimal
	HolidayRate  decimal.Decimal

	// Hour ceilings, in effective hours
	DailySoftHours  decimal.Decimal // Warning above this
	DailyMaxHours   decimal.Decimal // Violation above this
	WeeklySoftHours decimal.Decimal
	WeeklyMaxHours  decimal.Decimal

	// Rest and breaks, in minutes
	DailyRestMinutes  int // minimum gap to adjacent-day shifts
	WeeklyRestMinutes int // minimum consecutive rest within a week
	BreakAfterMinutes int // effective block length requiring a break
	MinBreakMinutes   int // the required break length

	// GuardEffectiveCapHours is the advisory cap on total effective hours
	// inside a 24h guard (non-blocking).
	GuardEffectiveCapHours decimal.Decimal
}

// DefaultRuleSet returns the French home-care defaults: night 21:00-06:00
// at +20%, presence day at 2/3, night presence allowance 25%, requalified
// at 4 interventions, daily 10h/12h, weekly 40h/48h, daily rest 11h,
// weekly rest 24h, 20-minute break past 6h, guard advisory cap 12h.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		NightWindow:                DefaultNightWindow(),
		NightRate:                  decimal.NewFromFloat(0.20),
		PresenceDayCoeff:           decimal.NewFromInt(2).Div(decimal.NewFromInt(3)),
		PresenceNightAllowanceRate: decimal.NewFromFloat(0.25),
		RequalifyThreshold:         4,
		OvertimeRate:               decimal.NewFromFloat(0.25),
		SundayRate:                 decimal.NewFromFloat(0.25),
		HolidayRate:                decimal.NewFromInt(1),
		DailySoftHours:             decimal.NewFromInt(10),
		DailyMaxHours:              decimal.NewFromInt(12),
		WeeklySoftHours:            decimal.NewFromInt(40),
		WeeklyMaxHours:             decimal.NewFromInt(48),
		DailyRestMinutes:           11 * 60,
		WeeklyRestMinutes:          24 * 60,
		BreakAfterMinutes:          6 * 60,
		MinBreakMinutes:            20,
		GuardEffectiveCapHours:     decimal.NewFromInt(12),
	}
}

// Validate rejects rule sets that would make the checks meaningless.
func (r RuleSet) Validate() error {
	if r.DailyMaxHours.LessThan(r.DailySoftHours) {
		return fmt.Errorf("daily hard ceiling %s below soft ceiling %s", r.DailyMaxHours, r.DailySoftHours)
	}
	if r.WeeklyMaxHours.LessThan(r.WeeklySoftHours) {
		return fmt.Errorf("weekly hard ceiling %s below soft ceiling %s", r.WeeklyMaxHours, r.WeeklySoftHours)
	}
	if r.RequalifyThreshold < 1 {
		return fmt.Errorf("requalification threshold must be positive, got %d", r.RequalifyThreshold)
	}
	if r.DailyRestMinutes < 0 || r.WeeklyRestMinutes < 0 || r.MinBreakMinutes < 0 {
		return fmt.Errorf("rest and break minutes must be non-negative")
	}
	return nil
}

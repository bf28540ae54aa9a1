/*
Package factory provides JSON to Go rule-set conversion.

PURPOSE:
  The legal thresholds the engine enforces (hour ceilings, rest minimums,
  majoration rates, the night window) are fixed by the applicable
  collective agreement, not by code. This package turns a JSON agreement
  file into an engine.RuleSet so deployments can swap agreements without
  recompiling.

JSON SCHEMA:
  {
    "night_window":        {"start": "21:00", "end": "06:00"},
    "night_rate":          0.20,
    "presence_night_allowance_rate": 0.25,
    "requalify_threshold": 4,
    "overtime_rate":       0.25,
    "sunday_rate":         0.25,
    "holiday_rate":        1.0,
    "daily_soft_hours":    10,
    "daily_max_hours":     12,
    "weekly_soft_hours":   40,
    "weekly_max_hours":    48,
    "daily_rest_minutes":  660,
    "weekly_rest_minutes": 1440,
    "break_after_minutes": 360,
    "min_break_minutes":   20,
    "guard_effective_cap_hours": 12
  }

  Omitted fields keep their statutory defaults. The presence_day 2/3
  coefficient is statutory and not configurable.

USAGE:
  rules, err := factory.ParseRuleSet(jsonBytes)

SEE ALSO:
  - engine/rules.go: RuleSet definition and defaults
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/careshift-engine/engine"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// RuleSetJSON is the JSON representation of a collective-agreement rule
// set. Pointer fields distinguish "omitted" from zero.
type RuleSetJSON struct {
	NightWindow *struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"night_window,omitempty"`

	NightRate                  *float64 `json:"night_rate,omitempty"`
	PresenceNightAllowanceRate *float64 `json:"presence_night_allowance_rate,omitempty"`
	RequalifyThreshold         *int     `json:"requalify_threshold,omitempty"`

	OvertimeRate *float64 `json:"overtime_rate,omitempty"`
	SundayRate   *float64 `json:"sunday_rate,omitempty"`
	HolidayRate  *float64 `json:"holiday_rate,omitempty"`

	DailySoftHours  *float64 `json:"daily_soft_hours,omitempty"`
	DailyMaxHours   *float64 `json:"daily_max_hours,omitempty"`
	WeeklySoftHours *float64 `json:"weekly_soft_hours,omitempty"`
	WeeklyMaxHours  *float64 `json:"weekly_max_hours,omitempty"`

	DailyRestMinutes  *int `json:"daily_rest_minutes,omitempty"`
	WeeklyRestMinutes *int `json:"weekly_rest_minutes,omitempty"`
	BreakAfterMinutes *int `json:"break_after_minutes,omitempty"`
	MinBreakMinutes   *int `json:"min_break_minutes,omitempty"`

	GuardEffectiveCapHours *float64 `json:"guard_effective_cap_hours,omitempty"`
}

// =============================================================================
// CONVERSION
// =============================================================================

// ParseRuleSet builds an engine.RuleSet from a JSON agreement document,
// starting from the statutory defaults and overriding what the document
// provides. The result is validated before being returned.
func ParseRuleSet(data []byte) (engine.RuleSet, error) {
	rules := engine.DefaultRuleSet()
	if len(data) == 0 {
		return rules, nil
	}

	var doc RuleSetJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return rules, fmt.Errorf("invalid rule set JSON: %w", err)
	}

	if doc.NightWindow != nil {
		start, err := engine.ParseClock(doc.NightWindow.Start)
		if err != nil {
			return rules, fmt.Errorf("night window start: %w", err)
		}
		end, err := engine.ParseClock(doc.NightWindow.End)
		if err != nil {
			return rules, fmt.Errorf("night window end: %w", err)
		}
		rules.NightWindow = engine.NightWindow{Start: start, End: end}
	}

	setRate(&rules.NightRate, doc.NightRate)
	setRate(&rules.PresenceNightAllowanceRate, doc.PresenceNightAllowanceRate)
	setRate(&rules.OvertimeRate, doc.OvertimeRate)
	setRate(&rules.SundayRate, doc.SundayRate)
	setRate(&rules.HolidayRate, doc.HolidayRate)
	setRate(&rules.DailySoftHours, doc.DailySoftHours)
	setRate(&rules.DailyMaxHours, doc.DailyMaxHours)
	setRate(&rules.WeeklySoftHours, doc.WeeklySoftHours)
	setRate(&rules.WeeklyMaxHours, doc.WeeklyMaxHours)
	setRate(&rules.GuardEffectiveCapHours, doc.GuardEffectiveCapHours)

	setInt(&rules.RequalifyThreshold, doc.RequalifyThreshold)
	setInt(&rules.DailyRestMinutes, doc.DailyRestMinutes)
	setInt(&rules.WeeklyRestMinutes, doc.WeeklyRestMinutes)
	setInt(&rules.BreakAfterMinutes, doc.BreakAfterMinutes)
	setInt(&rules.MinBreakMinutes, doc.MinBreakMinutes)

	if err := rules.Validate(); err != nil {
		return rules, fmt.Errorf("invalid rule set: %w", err)
	}
	return rules, nil
}

func setRate(dst *decimal.Decimal, src *float64) {
	if src != nil {
		*dst = decimal.NewFromFloat(*src)
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

/*
classify.go - Effective-hours classification and night-presence requalification

PURPOSE:
  Converts a shift's raw duration into legally-weighted effective hours per
  category, and owns the requalification rule: a night presence with enough
  interventions flips, all-or-nothing, from a flat allowance into fully-paid
  effective time.

CATEGORY MAPPING:
  effective                      raw worked hours, at 100%
  presence_day                   raw hours x 2/3
  presence_night (3 or fewer)    not counted (paid via forfeit allowance)
  presence_night (requalified)   raw hours, at 100%
  guard_24h                      sum over segments (see guard.go)

The requalification threshold comes from the RuleSet; crossing it is a step
function, never a partial blend.
*/
package engine

import "github.com/shopspring/decimal"

// Classification is the derived classification of one shift.
type Classification struct {
	// EffectiveHours is the legally counted work time. Counted is false
	// for a non-requalified night presence, whose time is not effective
	// work (EffectiveHours is zero in that case).
	EffectiveHours decimal.Decimal
	Counted        bool

	// IsRequalified reports whether the intervention count flipped the
	// period into fully-paid effective time.
	IsRequalified bool

	// Guard carries the per-segment decomposition for guard_24h shifts.
	Guard *GuardDecomposition
}

var minutesPerHour = decimal.NewFromInt(60)

func hoursFromMinutes(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(minutesPerHour)
}

// Requalified reports whether the intervention count reaches the rule-set
// threshold. Applies to presence_night shifts and to guard_24h shifts,
// where it governs the weighting of their presence_night segments.
func Requalified(s Shift, rules RuleSet) bool {
	switch s.Type {
	case ShiftPresenceNight, ShiftGuard24h:
		return s.NightInterventions >= rules.RequalifyThreshold
	default:
		return false
	}
}

// Classify computes the effective hours and requalification state of a
// shift. Pure; the shift must be well-formed (see Shift.CheckWellFormed).
func Classify(s Shift, rules RuleSet) Classification {
	switch s.Type {
	case ShiftEffective:
		return Classification{
			EffectiveHours: hoursFromMinutes(s.WorkedMinutes()),
			Counted:        true,
		}

	case ShiftPresenceDay:
		return Classification{
			EffectiveHours: hoursFromMinutes(s.WorkedMinutes()).Mul(rules.PresenceDayCoeff),
			Counted:        true,
		}

	case ShiftPresenceNight:
		if Requalified(s, rules) {
			return Classification{
				EffectiveHours: hoursFromMinutes(s.WorkedMinutes()),
				Counted:        true,
				IsRequalified:  true,
			}
		}
		return Classification{Counted: false}

	case ShiftGuard24h:
		guard := Decompose(s, rules)
		return Classification{
			EffectiveHours: guard.TotalEffectiveHours,
			Counted:        true,
			IsRequalified:  Requalified(s, rules),
			Guard:          &guard,
		}

	default:
		return Classification{Counted: false}
	}
}

/*
pay.go - Pay breakdown for one classified shift

PURPOSE:
  Turns a classification plus the contract rate into the exact decimal pay
  breakdown. No intermediate rounding anywhere; display rounding belongs to
  the API layer.

COMPONENTS:
  basePay                 effective hours x hourly rate, for effective and
                          requalified-presence time
  presenceResponsiblePay  the presence_day portion, with the 2/3 coefficient
                          already folded into its effective hours; carried
                          as its own component so Total stays the exact sum
  nightMajoration         night-overlap hours x rate x night rate, only for
                          effective shifts with an actual night action -
                          mere presence during night hours earns nothing
  nightPresenceAllowance  raw hours x rate x allowance rate for a
                          non-requalified night presence; zero when
                          requalified (that case pays through basePay)
  overtimeMajoration      the candidate's effective hours past the contract
                          weekly ceiling, at the statutory overtime rate
  sunday/holidayMajoration counted hours on those calendar days

  Total is always the exact decimal sum of the seven components.
*/
package engine

import "github.com/shopspring/decimal"

// WeekContext carries the effective hours the worker has already
// accumulated in the candidate's ISO week, excluding the candidate. The
// calling layer derives it from the sibling shifts it already fetched.
type WeekContext struct {
	EffectiveHoursBefore decimal.Decimal
}

// WeekContextFor sums counted effective hours of the siblings falling in
// the candidate's ISO week.
func WeekContextFor(candidate Shift, siblings []Shift, rules RuleSet) WeekContext {
	week := ISOWeekOf(candidate.Date)
	total := decimal.Zero
	for _, s := range relevantSiblings(candidate, siblings) {
		if !week.Contains(s.Date) {
			continue
		}
		cls := Classify(s, rules)
		if cls.Counted {
			total = total.Add(cls.EffectiveHours)
		}
	}
	return WeekContext{EffectiveHoursBefore: total}
}

// ComputePay produces the pay breakdown for one shift. Pure; cls must be
// the classification of s under the same rules.
func ComputePay(s Shift, cls Classification, contract Contract, week WeekContext, calendar HolidayCalendar, rules RuleSet) ComputedPay {
	if calendar == nil {
		calendar = NoHolidays{}
	}
	rate := contract.HourlyRate
	var pay ComputedPay

	base, presence := splitBaseHours(s, cls, rules)
	pay.BasePay = base.Mul(rate)
	pay.PresenceResponsiblePay = presence.Mul(rate)

	// Night majoration: effective work with an actual intervention during
	// the night window.
	if s.Type == ShiftEffective && s.HasNightAction {
		nightHours := hoursFromMinutes(NightOverlap(s.Start, s.End, rules.NightWindow))
		pay.NightMajoration = nightHours.Mul(rate).Mul(rules.NightRate)
	}

	// Forfeit allowance for non-requalified night presence, on raw
	// duration. For guards, on the raw duration of the presence_night
	// segments.
	if !cls.IsRequalified {
		switch s.Type {
		case ShiftPresenceNight:
			pay.NightPresenceAllowance = hoursFromMinutes(s.RawMinutes()).
				Mul(rate).Mul(rules.PresenceNightAllowanceRate)
		case ShiftGuard24h:
			if cls.Guard != nil {
				nightMinutes := 0
				for _, seg := range cls.Guard.Segments {
					if seg.Type == ShiftPresenceNight {
						nightMinutes += seg.Minutes
					}
				}
				pay.NightPresenceAllowance = hoursFromMinutes(nightMinutes).
					Mul(rate).Mul(rules.PresenceNightAllowanceRate)
			}
		}
	}

	// Overtime: the slice of this shift's counted hours that pushes the
	// week past the contractual ceiling, majoration portion only.
	if cls.Counted && !contract.WeeklyHours.IsZero() {
		weekTotal := week.EffectiveHoursBefore.Add(cls.EffectiveHours)
		over := weekTotal.Sub(contract.WeeklyHours)
		if over.GreaterThan(cls.EffectiveHours) {
			over = cls.EffectiveHours
		}
		if over.IsPositive() {
			pay.OvertimeMajoration = over.Mul(rate).Mul(rules.OvertimeRate)
		}
	}

	countedHours := decimal.Zero
	if cls.Counted {
		countedHours = cls.EffectiveHours
	}
	if s.Date.IsSunday() {
		pay.SundayMajoration = countedHours.Mul(rate).Mul(rules.SundayRate)
	}
	if calendar.IsHoliday(s.Date) {
		pay.HolidayMajoration = countedHours.Mul(rate).Mul(rules.HolidayRate)
	}

	pay.Total = sumPay(pay)
	return pay
}

// splitBaseHours divides counted effective hours between basePay and the
// presenceResponsiblePay component (the 2/3-weighted presence_day time).
func splitBaseHours(s Shift, cls Classification, rules RuleSet) (base, presence decimal.Decimal) {
	if !cls.Counted {
		return decimal.Zero, decimal.Zero
	}
	switch s.Type {
	case ShiftPresenceDay:
		return decimal.Zero, cls.EffectiveHours
	case ShiftGuard24h:
		if cls.Guard == nil {
			return cls.EffectiveHours, decimal.Zero
		}
		presence = decimal.Zero
		for _, seg := range cls.Guard.Segments {
			if seg.Type == ShiftPresenceDay {
				presence = presence.Add(seg.EffectiveHours)
			}
		}
		return cls.EffectiveHours.Sub(presence), presence
	default:
		return cls.EffectiveHours, decimal.Zero
	}
}

/*
accrual.go - Paid-leave accrual over the sliding leave year

PURPOSE:
  The leave year is a sliding 12-month period anchored on a fixed legal
  start date (June 1 by default). Workers acquire 2.5 days per month
  worked, rounded to the nearest tenth; the balance is
  acquired + adjustment - taken.

ACCRUAL:
  AcquiredDays(monthsWorked) = monthsWorked x (30 / 12), rounded to 0.1.
  A month counts once the worker has been under contract for the whole
  calendar month inside the leave year.

SEE ALSO:
  - calendar.go: business-day counting for absence durations
  - types.go: Balance and family-event grants
*/
package leave

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/careshift-engine/engine"
)

// Calculator computes leave years and accrued entitlements. The zero
// value is not usable; construct with NewCalculator.
type Calculator struct {
	anchorMonth time.Month
	anchorDay   int
	monthlyRate decimal.Decimal
}

// NewCalculator returns a calculator with the statutory defaults: leave
// year anchored June 1, accruing 2.5 days per month worked.
func NewCalculator() Calculator {
	return Calculator{
		anchorMonth: time.June,
		anchorDay:   1,
		monthlyRate: decimal.NewFromInt(30).Div(decimal.NewFromInt(12)),
	}
}

// NewCalculatorWithAnchor overrides the leave-year start for collective
// agreements using a different reference period.
func NewCalculatorWithAnchor(month time.Month, day int) Calculator {
	c := NewCalculator()
	c.anchorMonth = month
	c.anchorDay = day
	return c
}

// LeaveYearFor returns the sliding 12-month leave year containing the
// date: from the most recent anchor at or before it, to the day before
// the next anchor.
func (c Calculator) LeaveYearFor(d engine.Date) engine.Period {
	start := engine.NewDate(d.Year(), c.anchorMonth, c.anchorDay)
	if d.Before(start) {
		start = start.AddYears(-1)
	}
	return engine.Period{Start: start, End: start.AddYears(1).AddDays(-1)}
}

// AcquiredDays converts whole months worked into acquired leave days:
// monthsWorked x 2.5, rounded to the nearest tenth.
func (c Calculator) AcquiredDays(monthsWorked int) decimal.Decimal {
	if monthsWorked <= 0 {
		return decimal.Zero
	}
	return c.monthlyRate.Mul(decimal.NewFromInt(int64(monthsWorked))).Round(1)
}

// MonthsWorked counts the complete calendar months worked inside the
// leave year, from the later of the contract start and the year start, up
// to asOf (exclusive of the month in progress).
func (c Calculator) MonthsWorked(contractStart engine.Date, year engine.Period, asOf engine.Date) int {
	from := year.Start
	if contractStart.After(from) {
		from = contractStart
	}
	to := asOf
	if year.End.Before(to) {
		to = year.End.AddDays(1) // months through the end of the year count fully
	}
	if !to.After(from) {
		return 0
	}

	// First fully-covered month.
	if from.Day() != 1 {
		from = engine.NewDate(from.Year(), from.Month(), 1).AddMonths(1)
	}

	months := 0
	cursor := from
	for {
		monthEnd := cursor.AddMonths(1)
		if monthEnd.After(to) {
			break
		}
		months++
		cursor = monthEnd
	}
	return months
}

// BalanceFor assembles the balance for one leave year: acquisition from
// months worked, minus leave taken, plus manual adjustments.
func (c Calculator) BalanceFor(year engine.Period, contractStart, asOf engine.Date, taken, adjustment decimal.Decimal) Balance {
	acquired := c.AcquiredDays(c.MonthsWorked(contractStart, year, asOf))
	return Balance{
		Year:       year,
		Acquired:   acquired,
		Taken:      taken,
		Adjustment: adjustment,
		Remaining:  acquired.Add(adjustment).Sub(taken),
	}
}

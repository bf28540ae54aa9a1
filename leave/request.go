/*
request.go - Absence request lifecycle

PURPOSE:
  Absence requests move pending -> approved/rejected. Only approved
  absences participate in compliance checks and leave-balance debits, so
  approval is where the entitlement rules bite:
    - paid leave must fit inside the remaining balance for its leave year
    - a family-event absence cannot exceed the fixed statutory grant
  Rejection and withdrawal have no entitlement effect.
*/
package leave

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/careshift-engine/engine"
)

// RequestService applies the entitlement rules when an absence request
// changes status. The store supplies the absences already approved; the
// calculator supplies the accrual side.
type RequestService struct {
	Store      engine.AdminStore
	Calculator Calculator
	Calendar   engine.HolidayCalendar
}

// TakenInYear sums the business days of the employee's approved paid-leave
// absences overlapping the leave year, as already recorded in the store.
func (rs *RequestService) TakenInYear(ctx context.Context, employeeID string, year engine.Period) (decimal.Decimal, error) {
	absences, err := rs.Store.Absences(ctx, employeeID)
	if err != nil {
		return decimal.Zero, err
	}
	taken := 0
	for _, a := range absences {
		if a.Status != engine.AbsenceApproved || Kind(a.Kind) != KindPaidLeave {
			continue
		}
		start, end := a.Start, a.End
		if start.Before(year.Start) {
			start = year.Start
		}
		if end.After(year.End) {
			end = year.End
		}
		taken += CountBusinessDays(start, end, rs.Calendar)
	}
	return decimal.NewFromInt(int64(taken)), nil
}

// Approve transitions a pending absence to approved, enforcing the
// entitlement rules for its kind, and persists it.
func (rs *RequestService) Approve(ctx context.Context, a engine.Absence, contractStart, asOf engine.Date, adjustment decimal.Decimal) (engine.Absence, error) {
	if a.Status != engine.AbsencePending {
		return a, fmt.Errorf("absence must be pending, got %s", a.Status)
	}

	requested := decimal.NewFromInt(int64(CountBusinessDays(a.Start, a.End, rs.Calendar)))

	// Family-event absences carry the event kind directly (e.g. "birth")
	// and are capped at the fixed statutory grant, independent of accrual.
	if grant := FamilyEventDays(EventKind(a.Kind)); grant > 0 {
		if requested.GreaterThan(decimal.NewFromInt(int64(grant))) {
			return a, fmt.Errorf("%s grants %d days, requested %s", a.Kind, grant, requested)
		}
	} else if Kind(a.Kind) == KindPaidLeave {
		year := rs.Calculator.LeaveYearFor(a.Start)
		taken, err := rs.TakenInYear(ctx, a.EmployeeID, year)
		if err != nil {
			return a, err
		}
		balance := rs.Calculator.BalanceFor(year, contractStart, asOf, taken, adjustment)
		if requested.GreaterThan(balance.Remaining) {
			return a, fmt.Errorf("insufficient leave balance for %s: have %s, need %s",
				year, balance.Remaining, requested)
		}
	}

	a.Status = engine.AbsenceApproved
	if err := rs.Store.SaveAbsence(ctx, a); err != nil {
		return a, err
	}
	return a, nil
}

// Reject transitions a pending absence to rejected and persists it.
func (rs *RequestService) Reject(ctx context.Context, a engine.Absence) (engine.Absence, error) {
	if a.Status != engine.AbsencePending {
		return a, fmt.Errorf("absence must be pending, got %s", a.Status)
	}
	a.Status = engine.AbsenceRejected
	if err := rs.Store.SaveAbsence(ctx, a); err != nil {
		return a, err
	}
	return a, nil
}

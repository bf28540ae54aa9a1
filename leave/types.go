// Package leave computes paid-leave accrual, balances and family-event
// entitlements over the sliding leave year. It is independent of the shift
// engine's validation flow and is invoked when a leave-type absence is
// requested.
package leave

import (
	"github.com/shopspring/decimal"

	"github.com/warp/careshift-engine/engine"
)

// =============================================================================
// ABSENCE KINDS
// =============================================================================

// Kind is the category of an absence request.
type Kind string

const (
	KindPaidLeave   Kind = "paid_leave"
	KindUnpaid      Kind = "unpaid"
	KindSick        Kind = "sick"
	KindFamilyEvent Kind = "family_event"
)

// =============================================================================
// FAMILY EVENTS - Fixed statutory grants, independent of accrual
// =============================================================================

// EventKind is a family event opening a fixed leave entitlement.
type EventKind string

const (
	EventMarriage              EventKind = "marriage"
	EventCivilUnion            EventKind = "civil_union"
	EventChildMarriage         EventKind = "child_marriage"
	EventBirth                 EventKind = "birth"
	EventAdoption              EventKind = "adoption"
	EventChildDeath            EventKind = "child_death"
	EventSpouseDeath           EventKind = "spouse_death"
	EventParentDeath           EventKind = "parent_death"
	EventSiblingDeath          EventKind = "sibling_death"
	EventParentInLawDeath      EventKind = "parent_in_law_death"
	EventChildDisabilityNotice EventKind = "child_disability_notice"
)

var familyEventDays = map[EventKind]int{
	EventMarriage:              4,
	EventCivilUnion:            4,
	EventChildMarriage:         1,
	EventBirth:                 3,
	EventAdoption:              3,
	EventChildDeath:            5,
	EventSpouseDeath:           3,
	EventParentDeath:           3,
	EventSiblingDeath:          3,
	EventParentInLawDeath:      3,
	EventChildDisabilityNotice: 2,
}

// FamilyEventDays returns the fixed number of leave days the event grants,
// or 0 for an unknown event kind.
func FamilyEventDays(kind EventKind) int {
	return familyEventDays[kind]
}

// =============================================================================
// BALANCE
// =============================================================================

// Balance is the paid-leave position for one leave year.
// Remaining = Acquired + Adjustment - Taken.
type Balance struct {
	Year       engine.Period
	Acquired   decimal.Decimal
	Taken      decimal.Decimal
	Adjustment decimal.Decimal
	Remaining  decimal.Decimal
}

/*
errors.go - Centralized error types for the shift engine

PURPOSE:
  All engine error types in one place. These are BOUNDARY errors: they are
  returned when malformed input is rejected before computation (unparseable
  times, non-chronological segment lists, too few guard segments). The
  computations themselves (duration, overlap, classification, validation,
  pay) are total and never fail for well-formed input - a rule breach is a
  Violation or Warning in the ComplianceResult, not an error.

USAGE:
  Callers match with errors.Is():

    if errors.Is(err, engine.ErrMinGuardSegments) {
        // reject the delete, keep the segment list unchanged
    }
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidClockTime is returned when a time string is not "HH:MM".
	ErrInvalidClockTime = errors.New("invalid clock time")

	// ErrInvalidDate is returned when a date string is not "YYYY-MM-DD".
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidShiftType is returned for an unknown shift type name.
	ErrInvalidShiftType = errors.New("invalid shift type")

	// ErrZeroSpan is returned when start == end for a non-guard shift.
	// Only guard_24h may use the equal-times 24h convention.
	ErrZeroSpan = errors.New("start and end must differ for non-guard shifts")

	// ErrMinGuardSegments is returned when an operation would leave a guard
	// shift with fewer than 2 segments.
	ErrMinGuardSegments = errors.New("guard shift requires at least 2 segments")

	// ErrSegmentOrder is returned when guard segments are not anchored at
	// the shift start or not in strictly increasing cyclic order.
	ErrSegmentOrder = errors.New("guard segments out of order")

	// ErrSegmentBreak is returned when a break is set on a non-effective
	// guard segment.
	ErrSegmentBreak = errors.New("break minutes only apply to effective segments")

	// ErrSegmentNotFound is returned for an out-of-range segment index.
	ErrSegmentNotFound = errors.New("segment index out of range")

	// ErrSplitOutsideSegment is returned when a split point does not fall
	// strictly inside the target segment.
	ErrSplitOutsideSegment = errors.New("split point outside segment")

	// ErrContractNotFound is returned by stores for an unknown contract.
	ErrContractNotFound = errors.New("contract not found")

	// ErrShiftNotFound is returned by stores for an unknown shift.
	ErrShiftNotFound = errors.New("shift not found")

	// ErrAbsenceNotFound is returned by stores for an unknown absence.
	ErrAbsenceNotFound = errors.New("absence not found")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// SegmentError carries the offending segment index for boundary rejections.
type SegmentError struct {
	Index int
	Err   error
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("segment %d: %v", e.Index, e.Err)
}

func (e *SegmentError) Unwrap() error { return e.Err }

// IsClientError returns true if the error is due to invalid caller input,
// as opposed to an infrastructure failure. Used by the HTTP layer to pick
// between 400 and 500.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidClockTime) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidShiftType) ||
		errors.Is(err, ErrZeroSpan) ||
		errors.Is(err, ErrMinGuardSegments) ||
		errors.Is(err, ErrSegmentOrder) ||
		errors.Is(err, ErrSegmentBreak) ||
		errors.Is(err, ErrSegmentNotFound) ||
		errors.Is(err, ErrSplitOutsideSegment)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrContractNotFound) || errors.Is(err, ErrShiftNotFound) ||
		errors.Is(err, ErrAbsenceNotFound)
}

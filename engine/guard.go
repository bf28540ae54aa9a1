/*
guard.go - 24h guard-duty segment decomposition

PURPOSE:
  A guard_24h shift is an ordered, cyclic list of segments covering exactly
  24 hours, anchored at the shift's start time. Each segment's end is the
  next segment's start; the last segment wraps to the first segment's start
  one day later. This file owns the segment editing operations (split,
  remove, retype, set break) and the effective-hours summation over the
  decomposition.

REPRESENTATION:
  A plain slice with explicit wrap-around logic, index-based, not a circular
  linked structure. Segment starts are kept in strictly increasing cyclic
  order relative to the anchor, and the first segment always starts at the
  shift start.

INVARIANTS:
  - At least 2 segments at all times; removal below that is rejected
  - Segment starts are pairwise distinct
  - Breaks only on effective segments

WEIGHTING:
  effective        100% of duration minus break
  presence_day     2/3 of duration
  presence_night   100% if the guard shift is requalified, else 0

WARNINGS (non-blocking, reported, never silently corrected):
  - An effective segment longer than 6h without the 20-minute minimum break
  - Total effective hours above the 12h advisory cap
*/
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DECOMPOSITION RESULT
// =============================================================================

// ComputedSegment is a guard segment with its derived end and weighting.
type ComputedSegment struct {
	GuardSegment
	End            ClockTime
	Minutes        int
	EffectiveHours decimal.Decimal
}

// GuardDecomposition is the full decomposition of one guard_24h shift.
type GuardDecomposition struct {
	Segments            []ComputedSegment
	TotalEffectiveHours decimal.Decimal
	Warnings            []Issue
}

// =============================================================================
// VALIDATION (boundary)
// =============================================================================

// cyclicOffset unrolls a segment start onto the 24h axis anchored at the
// shift start: the anchor itself maps to 0, everything else to (start -
// anchor) mod 1440.
func cyclicOffset(anchor, start ClockTime) int {
	off := (int(start) - int(anchor)) % minutesPerDay
	if off < 0 {
		off += minutesPerDay
	}
	return off
}

func checkSegments(anchor ClockTime, segs []GuardSegment) error {
	if len(segs) < 2 {
		return ErrMinGuardSegments
	}
	if segs[0].Start != anchor {
		return &SegmentError{Index: 0, Err: ErrSegmentOrder}
	}
	prev := 0
	for i := 1; i < len(segs); i++ {
		off := cyclicOffset(anchor, segs[i].Start)
		if off <= prev {
			return &SegmentError{Index: i, Err: ErrSegmentOrder}
		}
		prev = off
	}
	for i, seg := range segs {
		if seg.BreakMinutes != 0 && seg.Type != ShiftEffective {
			return &SegmentError{Index: i, Err: ErrSegmentBreak}
		}
		if seg.Type == ShiftGuard24h {
			return &SegmentError{Index: i, Err: ErrInvalidShiftType}
		}
	}
	return nil
}

// =============================================================================
// SEGMENT EDITING - All return a fresh slice, inputs are never mutated
// =============================================================================

// SplitSegment inserts a split point, dividing the segment containing it
// into two. The new segment inherits the type; the break stays with the
// first half. The split point must fall strictly inside a segment.
func SplitSegment(anchor ClockTime, segs []GuardSegment, at ClockTime) ([]GuardSegment, error) {
	if err := checkSegments(anchor, segs); err != nil {
		return nil, err
	}
	atOff := cyclicOffset(anchor, at)
	if atOff == 0 {
		return nil, ErrSplitOutsideSegment
	}
	for i, seg := range segs {
		startOff := cyclicOffset(anchor, seg.Start)
		endOff := segmentEndOffset(anchor, segs, i)
		if atOff > startOff && atOff < endOff {
			out := make([]GuardSegment, 0, len(segs)+1)
			out = append(out, segs[:i+1]...)
			out = append(out, GuardSegment{Start: at, Type: seg.Type})
			out = append(out, segs[i+1:]...)
			return out, nil
		}
	}
	return nil, ErrSplitOutsideSegment
}

// RemoveSegment deletes a segment; its time is absorbed by the previous
// segment. Removing the anchor segment re-anchors the next one at the
// shift start, so the list always begins there. Rejected when fewer than
// 2 segments would remain.
func RemoveSegment(anchor ClockTime, segs []GuardSegment, index int) ([]GuardSegment, error) {
	if err := checkSegments(anchor, segs); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(segs) {
		return nil, ErrSegmentNotFound
	}
	if len(segs) <= 2 {
		return nil, ErrMinGuardSegments
	}
	if index == 0 {
		// The list stays anchored: the second segment takes over from the
		// shift start instead.
		out := make([]GuardSegment, len(segs)-1)
		copy(out, segs[1:])
		out[0].Start = anchor
		return out, nil
	}
	out := make([]GuardSegment, 0, len(segs)-1)
	out = append(out, segs[:index]...)
	out = append(out, segs[index+1:]...)
	return out, nil
}

// SetSegmentType changes a segment's category. Moving away from effective
// clears the break, since breaks only exist on effective segments.
func SetSegmentType(anchor ClockTime, segs []GuardSegment, index int, t ShiftType) ([]GuardSegment, error) {
	if err := checkSegments(anchor, segs); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(segs) {
		return nil, ErrSegmentNotFound
	}
	if t == ShiftGuard24h {
		return nil, ErrInvalidShiftType
	}
	out := make([]GuardSegment, len(segs))
	copy(out, segs)
	out[index].Type = t
	if t != ShiftEffective {
		out[index].BreakMinutes = 0
	}
	return out, nil
}

// SetSegmentBreak sets the break minutes of an effective segment.
func SetSegmentBreak(anchor ClockTime, segs []GuardSegment, index, breakMinutes int) ([]GuardSegment, error) {
	if err := checkSegments(anchor, segs); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(segs) {
		return nil, ErrSegmentNotFound
	}
	if segs[index].Type != ShiftEffective {
		return nil, &SegmentError{Index: index, Err: ErrSegmentBreak}
	}
	out := make([]GuardSegment, len(segs))
	copy(out, segs)
	out[index].BreakMinutes = breakMinutes
	return out, nil
}

// segmentEndOffset returns the unrolled end of segment i: the next
// segment's start, or 1440 (the anchor one day later) for the last one.
func segmentEndOffset(anchor ClockTime, segs []GuardSegment, i int) int {
	if i == len(segs)-1 {
		return minutesPerDay
	}
	return cyclicOffset(anchor, segs[i+1].Start)
}

// =============================================================================
// DECOMPOSITION
// =============================================================================

// Decompose computes each segment's duration and weighting and sums the
// guard's effective hours. The shift must be a well-formed guard_24h
// (CheckWellFormed); on a malformed segment list it returns an empty
// decomposition rather than failing.
func Decompose(s Shift, rules RuleSet) GuardDecomposition {
	if checkSegments(s.Start, s.Segments) != nil {
		return GuardDecomposition{TotalEffectiveHours: decimal.Zero}
	}

	requalified := Requalified(s, rules)
	result := GuardDecomposition{
		Segments:            make([]ComputedSegment, 0, len(s.Segments)),
		TotalEffectiveHours: decimal.Zero,
	}

	for i, seg := range s.Segments {
		startOff := cyclicOffset(s.Start, seg.Start)
		endOff := segmentEndOffset(s.Start, s.Segments, i)
		minutes := endOff - startOff
		end := ClockTime((int(seg.Start) + minutes) % minutesPerDay)

		var effective decimal.Decimal
		switch seg.Type {
		case ShiftEffective:
			worked := minutes - seg.BreakMinutes
			if worked < 0 {
				worked = 0
			}
			effective = hoursFromMinutes(worked)
			if minutes > rules.BreakAfterMinutes && seg.BreakMinutes < rules.MinBreakMinutes {
				result.Warnings = append(result.Warnings, Issue{
					Kind: IssueMissingBreak,
					Message: fmt.Sprintf("effective segment %s-%s runs %dmin with a %dmin break; %dmin required past %dmin",
						seg.Start, end, minutes, seg.BreakMinutes, rules.MinBreakMinutes, rules.BreakAfterMinutes),
					Metric:    "segment_break_minutes",
					Threshold: decimal.NewFromInt(int64(rules.MinBreakMinutes)),
					Observed:  decimal.NewFromInt(int64(seg.BreakMinutes)),
				})
			}
		case ShiftPresenceDay:
			effective = hoursFromMinutes(minutes).Mul(rules.PresenceDayCoeff)
		case ShiftPresenceNight:
			if requalified {
				effective = hoursFromMinutes(minutes)
			} else {
				effective = decimal.Zero
			}
		}

		result.Segments = append(result.Segments, ComputedSegment{
			GuardSegment:   seg,
			End:            end,
			Minutes:        minutes,
			EffectiveHours: effective,
		})
		result.TotalEffectiveHours = result.TotalEffectiveHours.Add(effective)
	}

	if result.TotalEffectiveHours.GreaterThan(rules.GuardEffectiveCapHours) {
		result.Warnings = append(result.Warnings, Issue{
			Kind: IssueGuardEffectiveCap,
			Message: fmt.Sprintf("guard effective hours %s exceed the %sh advisory cap",
				result.TotalEffectiveHours.StringFixed(2), rules.GuardEffectiveCapHours),
			Metric:    "guard_effective_hours",
			Threshold: rules.GuardEffectiveCapHours,
			Observed:  result.TotalEffectiveHours,
		})
	}
	return result
}

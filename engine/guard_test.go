package engine

import (
	"errors"
	"testing"
	"time"
)

func guardShift(interventions int, segs ...GuardSegment) Shift {
	return Shift{
		ID:                 "guard-1",
		ContractID:         "contract-1",
		EmployeeID:         "emp-1",
		Date:               date(2025, time.March, 10),
		Start:              segs[0].Start,
		End:                segs[0].Start,
		Type:               ShiftGuard24h,
		NightInterventions: interventions,
		Segments:           segs,
		Status:             StatusPlanned,
	}
}

// =============================================================================
// DECOMPOSITION TESTS
// =============================================================================

func TestDecompose_ThreeSegments(t *testing.T) {
	// GIVEN: guard anchored 08:00 with effective (break 30, 6h),
	//        presence_day (4h), presence_night (14h), not requalified
	// THEN: total effective hours = 5.5 + 2.67 + 0 = 8.17
	s := guardShift(0,
		GuardSegment{Start: MustClock("08:00"), Type: ShiftEffective, BreakMinutes: 30},
		GuardSegment{Start: MustClock("14:00"), Type: ShiftPresenceDay},
		GuardSegment{Start: MustClock("18:00"), Type: ShiftPresenceNight},
	)
	d := Decompose(s, DefaultRuleSet())

	if len(d.Segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(d.Segments))
	}
	wantMinutes := []int{360, 240, 840}
	for i, seg := range d.Segments {
		if seg.Minutes != wantMinutes[i] {
			t.Errorf("segment %d: expected %d minutes, got %d", i, wantMinutes[i], seg.Minutes)
		}
	}
	// Last segment wraps: 18:00 + 14h = 08:00 next day
	if d.Segments[2].End != MustClock("08:00") {
		t.Errorf("expected wrap to 08:00, got %s", d.Segments[2].End)
	}
	assertHours(t, d.TotalEffectiveHours, 8.17)
}

func TestDecompose_RequalifiedCountsNightSegments(t *testing.T) {
	// GIVEN: the same guard with 4 interventions
	// THEN: the 14h presence_night segment counts at 100%
	s := guardShift(4,
		GuardSegment{Start: MustClock("08:00"), Type: ShiftEffective, BreakMinutes: 30},
		GuardSegment{Start: MustClock("14:00"), Type: ShiftPresenceDay},
		GuardSegment{Start: MustClock("18:00"), Type: ShiftPresenceNight},
	)
	d := Decompose(s, DefaultRuleSet())
	assertHours(t, d.TotalEffectiveHours, 22.17) // 5.5 + 2.67 + 14
}

func TestDecompose_WarnsOnLongEffectiveSegmentWithoutBreak(t *testing.T) {
	// GIVEN: an 8h effective segment with no break
	// THEN: a missing-break warning, never a silent correction
	s := guardShift(0,
		GuardSegment{Start: MustClock("08:00"), Type: ShiftEffective},
		GuardSegment{Start: MustClock("16:00"), Type: ShiftPresenceNight},
	)
	d := Decompose(s, DefaultRuleSet())

	found := false
	for _, w := range d.Warnings {
		if w.Kind == IssueMissingBreak {
			found = true
		}
	}
	if !found {
		t.Error("expected a missing-break warning")
	}
	assertHours(t, d.TotalEffectiveHours, 8) // break never silently inserted
}

func TestDecompose_WarnsAboveAdvisoryCap(t *testing.T) {
	// GIVEN: 14h of effective time inside the guard
	// THEN: a non-blocking advisory-cap warning
	s := guardShift(0,
		GuardSegment{Start: MustClock("08:00"), Type: ShiftEffective, BreakMinutes: 30},
		GuardSegment{Start: MustClock("22:30"), Type: ShiftPresenceNight},
	)
	d := Decompose(s, DefaultRuleSet())

	found := false
	for _, w := range d.Warnings {
		if w.Kind == IssueGuardEffectiveCap {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an advisory-cap warning, got %+v", d.Warnings)
	}
}

// =============================================================================
// SEGMENT EDITING TESTS
// =============================================================================

func twoSegments() []GuardSegment {
	return []GuardSegment{
		{Start: MustClock("08:00"), Type: ShiftEffective},
		{Start: MustClock("20:00"), Type: ShiftPresenceNight},
	}
}

func TestSplitSegment(t *testing.T) {
	// GIVEN: a split point strictly inside the first segment
	// THEN: two segments of the same type replace it
	anchor := MustClock("08:00")
	segs, err := SplitSegment(anchor, twoSegments(), MustClock("12:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	if segs[1].Start != MustClock("12:00") || segs[1].Type != ShiftEffective {
		t.Errorf("split segment should inherit the type: %+v", segs[1])
	}
}

func TestSplitSegment_InsideWrappingSegment(t *testing.T) {
	// GIVEN: a split point after midnight, inside the wrapping last segment
	anchor := MustClock("08:00")
	segs, err := SplitSegment(anchor, twoSegments(), MustClock("02:00"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(segs) != 3 || segs[2].Start != MustClock("02:00") {
		t.Fatalf("expected the wrap segment split at 02:00, got %+v", segs)
	}
}

func TestSplitSegment_OnBoundaryRejected(t *testing.T) {
	anchor := MustClock("08:00")
	if _, err := SplitSegment(anchor, twoSegments(), MustClock("20:00")); !errors.Is(err, ErrSplitOutsideSegment) {
		t.Errorf("expected ErrSplitOutsideSegment, got %v", err)
	}
	if _, err := SplitSegment(anchor, twoSegments(), MustClock("08:00")); !errors.Is(err, ErrSplitOutsideSegment) {
		t.Errorf("expected ErrSplitOutsideSegment for the anchor, got %v", err)
	}
}

func TestRemoveSegment_NeverBelowTwo(t *testing.T) {
	// GIVEN: a guard with exactly 2 segments
	// THEN: deleting either is rejected
	anchor := MustClock("08:00")
	if _, err := RemoveSegment(anchor, twoSegments(), 1); !errors.Is(err, ErrMinGuardSegments) {
		t.Errorf("expected ErrMinGuardSegments, got %v", err)
	}
}

func TestRemoveSegment_AbsorbsTime(t *testing.T) {
	anchor := MustClock("08:00")
	three := []GuardSegment{
		{Start: MustClock("08:00"), Type: ShiftEffective},
		{Start: MustClock("14:00"), Type: ShiftPresenceDay},
		{Start: MustClock("20:00"), Type: ShiftPresenceNight},
	}

	segs, err := RemoveSegment(anchor, three, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(segs) != 2 || segs[1].Start != MustClock("20:00") {
		t.Fatalf("expected the previous segment to absorb the time, got %+v", segs)
	}

	// Removing the anchor segment re-anchors the next one.
	segs, err = RemoveSegment(anchor, three, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if segs[0].Start != anchor || segs[0].Type != ShiftPresenceDay {
		t.Fatalf("expected re-anchored presence_day segment, got %+v", segs[0])
	}
}

func TestSetSegmentType_ClearsBreak(t *testing.T) {
	anchor := MustClock("08:00")
	segs := []GuardSegment{
		{Start: MustClock("08:00"), Type: ShiftEffective, BreakMinutes: 30},
		{Start: MustClock("20:00"), Type: ShiftPresenceNight},
	}
	out, err := SetSegmentType(anchor, segs, 0, ShiftPresenceDay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0].BreakMinutes != 0 {
		t.Error("break must be cleared when leaving the effective type")
	}
}

func TestSetSegmentBreak_EffectiveOnly(t *testing.T) {
	anchor := MustClock("08:00")
	if _, err := SetSegmentBreak(anchor, twoSegments(), 1, 20); !errors.Is(err, ErrSegmentBreak) {
		t.Errorf("expected ErrSegmentBreak, got %v", err)
	}
	out, err := SetSegmentBreak(anchor, twoSegments(), 0, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0].BreakMinutes != 20 {
		t.Errorf("expected break 20, got %d", out[0].BreakMinutes)
	}
}

func TestCheckWellFormed(t *testing.T) {
	// Zero span outside guard duty is malformed.
	s := effectiveShift("09:00", "09:00", 0)
	if err := s.CheckWellFormed(); !errors.Is(err, ErrZeroSpan) {
		t.Errorf("expected ErrZeroSpan, got %v", err)
	}

	// A guard needs at least 2 segments anchored at its start.
	g := guardShift(0, twoSegments()...)
	if err := g.CheckWellFormed(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	g.Segments = g.Segments[:1]
	if err := g.CheckWellFormed(); !errors.Is(err, ErrMinGuardSegments) {
		t.Errorf("expected ErrMinGuardSegments, got %v", err)
	}
}

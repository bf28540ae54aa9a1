package leave

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/careshift-engine/engine"
)

func d(year int, month time.Month, day int) engine.Date {
	return engine.NewDate(year, month, day)
}

func TestLeaveYearFor(t *testing.T) {
	calc := NewCalculator()

	// A date after June 1 falls in the year starting that June.
	year := calc.LeaveYearFor(d(2025, time.September, 15))
	if !year.Start.Equal(d(2025, time.June, 1)) || !year.End.Equal(d(2026, time.May, 31)) {
		t.Errorf("leave year = %s to %s", year.Start, year.End)
	}

	// A date before June 1 falls in the previous year.
	year = calc.LeaveYearFor(d(2025, time.March, 10))
	if !year.Start.Equal(d(2024, time.June, 1)) || !year.End.Equal(d(2025, time.May, 31)) {
		t.Errorf("leave year = %s to %s", year.Start, year.End)
	}

	// The anchor itself starts its own year.
	year = calc.LeaveYearFor(d(2025, time.June, 1))
	if !year.Start.Equal(d(2025, time.June, 1)) {
		t.Errorf("anchor date must open its own year, got %s", year.Start)
	}
}

func TestLeaveYearFor_CustomAnchor(t *testing.T) {
	calc := NewCalculatorWithAnchor(time.January, 1)
	year := calc.LeaveYearFor(d(2025, time.March, 10))
	if !year.Start.Equal(d(2025, time.January, 1)) || !year.End.Equal(d(2025, time.December, 31)) {
		t.Errorf("leave year = %s to %s", year.Start, year.End)
	}
}

func TestAcquiredDays(t *testing.T) {
	calc := NewCalculator()

	cases := []struct {
		months int
		want   string
	}{
		{0, "0"},
		{1, "2.5"},
		{9, "22.5"},
		{12, "30"},
		{-1, "0"},
	}
	for _, c := range cases {
		got := calc.AcquiredDays(c.months)
		if !got.Equal(decimal.RequireFromString(c.want)) {
			t.Errorf("AcquiredDays(%d) = %s, want %s", c.months, got, c.want)
		}
	}
}

func TestMonthsWorked(t *testing.T) {
	calc := NewCalculator()
	year := calc.LeaveYearFor(d(2025, time.March, 10))

	// GIVEN: a contract predating the leave year, observed on 2025-03-10
	// THEN: June through February count, March is in progress
	got := calc.MonthsWorked(d(2023, time.January, 1), year, d(2025, time.March, 10))
	if got != 9 {
		t.Errorf("MonthsWorked = %d, want 9", got)
	}

	// GIVEN: a contract starting mid-month
	// THEN: the partial first month does not count
	got = calc.MonthsWorked(d(2024, time.June, 15), year, d(2025, time.March, 10))
	if got != 8 {
		t.Errorf("MonthsWorked from mid-month = %d, want 8", got)
	}

	// GIVEN: an asOf past the year end
	// THEN: the full 12 months count
	got = calc.MonthsWorked(d(2023, time.January, 1), year, d(2025, time.August, 1))
	if got != 12 {
		t.Errorf("MonthsWorked over the full year = %d, want 12", got)
	}

	// GIVEN: a contract starting after asOf
	got = calc.MonthsWorked(d(2025, time.June, 1), year, d(2025, time.March, 10))
	if got != 0 {
		t.Errorf("MonthsWorked for a future contract = %d, want 0", got)
	}
}

func TestBalanceFor(t *testing.T) {
	calc := NewCalculator()
	year := calc.LeaveYearFor(d(2025, time.March, 10))

	// 9 months worked -> 22.5 acquired; 5 taken; +1 manual adjustment.
	balance := calc.BalanceFor(year, d(2023, time.January, 1), d(2025, time.March, 10),
		decimal.NewFromInt(5), decimal.NewFromInt(1))

	if !balance.Acquired.Equal(decimal.RequireFromString("22.5")) {
		t.Errorf("Acquired = %s, want 22.5", balance.Acquired)
	}
	if !balance.Remaining.Equal(decimal.RequireFromString("18.5")) {
		t.Errorf("Remaining = %s, want 18.5", balance.Remaining)
	}
}

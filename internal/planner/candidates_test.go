package planner

import (
	"sort"
	"testing"

	"github.com/username/long-weekend-planner/pkg/dateutil"
)

func TestGenerateCandidateBlocks_Count(t *testing.T) {
	tests := []struct {
		name           string
		maxBlockLength int
		want           int
	}{
		// 52 weekends in 2026; the first weekend (Jan 3-4) loses the two
		// variants starting on Wednesday Dec 31 2025.
		{"default cap", 0, 52*12 - 2},
		{"explicit default cap", 10, 52*12 - 2},
		// (1,0) (0,1) (1,1) (2,0) (0,2) fit into four days
		{"four day cap", 4, 52 * 5},
		{"cap below any extension", 2, 0},
	}

	p := newTestPlanner("2025-06-01")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := p.GenerateCandidateBlocks(2026, nil, nil, tt.maxBlockLength)

			if len(result) != tt.want {
				t.Errorf("GenerateCandidateBlocks() returned %d candidates, want %d", len(result), tt.want)
			}
		})
	}
}

func TestGenerateCandidateBlocks_Properties(t *testing.T) {
	p := newTestPlanner("2025-06-01")
	holidays := india2026()
	natural := p.DetectLongWeekends(2026, holidays)

	result := p.GenerateCandidateBlocks(2026, holidays, natural, DefaultMaxBlockLength)

	ids := make(map[string]bool)
	for _, c := range result {
		if ids[c.ID] {
			t.Errorf("duplicate candidate id %v", c.ID)
		}
		ids[c.ID] = true

		if c.LeavesRequired < 1 || c.LeavesRequired != c.PaidLeaveDates.Len() {
			t.Errorf("%s..%s: LeavesRequired = %d, PaidLeaveDates = %d",
				c.StartDate, c.EndDate, c.LeavesRequired, c.PaidLeaveDates.Len())
		}
		if c.TotalDaysOff != c.AllDates.Len() {
			t.Errorf("%s..%s: TotalDaysOff = %d, AllDates = %d",
				c.StartDate, c.EndDate, c.TotalDaysOff, c.AllDates.Len())
		}
		if c.TotalDaysOff > DefaultMaxBlockLength {
			t.Errorf("%s..%s: %d days exceeds the cap", c.StartDate, c.EndDate, c.TotalDaysOff)
		}
		if c.StartDate < "2026-01-01" {
			t.Errorf("%s..%s starts before the effective start", c.StartDate, c.EndDate)
		}
		if want := float64(c.TotalDaysOff) / float64(c.LeavesRequired); c.Efficiency != want {
			t.Errorf("%s..%s: Efficiency = %v, want %v", c.StartDate, c.EndDate, c.Efficiency, want)
		}
		for date := range c.PaidLeaveDates {
			if !c.AllDates.Has(date) {
				t.Errorf("%s..%s: paid leave %v outside the block", c.StartDate, c.EndDate, date)
			}
			if dateutil.IsWeekend(dateutil.MustParseKey(date)) {
				t.Errorf("%s..%s: paid leave %v on a weekend", c.StartDate, c.EndDate, date)
			}
		}
		for date := range c.NaturalLongWeekendDates {
			if !c.AllDates.Has(date) {
				t.Errorf("%s..%s: natural date %v outside the block", c.StartDate, c.EndDate, date)
			}
		}
	}
}

func TestGenerateCandidateBlocks_AroundHoliday(t *testing.T) {
	p := newTestPlanner("2025-06-01")
	holidays := []Holiday{holiday("2026-01-26")}
	natural := p.DetectLongWeekends(2026, holidays)

	result := p.GenerateCandidateBlocks(2026, holidays, natural, 0)

	var found *CandidateBlock
	for i := range result {
		c := result[i]
		if c.StartDate == "2026-01-24" && c.EndDate == "2026-01-26" {
			t.Errorf("zero-leave span %s..%s must not be a candidate", c.StartDate, c.EndDate)
		}
		if c.StartDate == "2026-01-23" && c.EndDate == "2026-01-26" {
			found = &result[i]
		}
	}

	if found == nil {
		t.Fatal("candidate 2026-01-23..2026-01-26 not generated")
	}
	if found.LeavesRequired != 1 || !found.PaidLeaveDates.Has("2026-01-23") {
		t.Errorf("paid leaves = %v, want [2026-01-23]", found.PaidLeaveDates.Sorted())
	}
	if found.TotalDaysOff != 4 || found.Efficiency != 4 {
		t.Errorf("TotalDaysOff/Efficiency = %d/%v, want 4/4", found.TotalDaysOff, found.Efficiency)
	}
	wantNatural := []string{"2026-01-24", "2026-01-25", "2026-01-26"}
	gotNatural := found.NaturalLongWeekendDates.Sorted()
	if len(gotNatural) != len(wantNatural) {
		t.Fatalf("NaturalLongWeekendDates = %v, want %v", gotNatural, wantNatural)
	}
	for i := range wantNatural {
		if gotNatural[i] != wantNatural[i] {
			t.Errorf("NaturalLongWeekendDates = %v, want %v", gotNatural, wantNatural)
		}
	}
	if found.Description != "4 days off (Fri–Mon) • 1 leave" {
		t.Errorf("Description = %q", found.Description)
	}
}

func TestGenerateCandidateBlocks_PluralDescription(t *testing.T) {
	p := newTestPlanner("2025-06-01")

	result := p.GenerateCandidateBlocks(2026, nil, nil, 0)

	for _, c := range result {
		if c.StartDate == "2026-01-08" && c.EndDate == "2026-01-12" {
			if c.Description != "5 days off (Thu–Mon) • 3 leaves" {
				t.Errorf("Description = %q", c.Description)
			}
			return
		}
	}
	t.Fatal("candidate 2026-01-08..2026-01-12 not generated")
}

func TestGenerateCandidateBlocks_EffectiveStart(t *testing.T) {
	// Saturday: only the variants without leave before the weekend survive
	p := newTestPlanner("2026-01-24")

	result := p.GenerateCandidateBlocks(2026, nil, nil, 0)

	startingToday := 0
	for _, c := range result {
		if c.StartDate < "2026-01-24" {
			t.Errorf("%s..%s starts before today", c.StartDate, c.EndDate)
		}
		if c.StartDate == "2026-01-24" {
			startingToday++
		}
	}
	if startingToday != 2 {
		t.Errorf("candidates starting today = %d, want 2", startingToday)
	}
}

func TestGenerateCandidateBlocks_ElapsedYear(t *testing.T) {
	result := newTestPlanner("2027-01-05").GenerateCandidateBlocks(2026, india2026(), nil, 0)

	if result == nil || len(result) != 0 {
		t.Errorf("GenerateCandidateBlocks() = %v, want empty slice", result)
	}
}

func TestGenerateCandidateBlocks_SameContentEveryRun(t *testing.T) {
	p := newTestPlanner("2025-06-01")
	holidays := india2026()
	natural := p.DetectLongWeekends(2026, holidays)

	signature := func(blocks []CandidateBlock) []string {
		out := make([]string, 0, len(blocks))
		for _, c := range blocks {
			out = append(out, c.StartDate+".."+c.EndDate+" "+c.Description)
		}
		sort.Strings(out)
		return out
	}

	first := signature(p.GenerateCandidateBlocks(2026, holidays, natural, 0))
	second := signature(p.GenerateCandidateBlocks(2026, holidays, natural, 0))

	if len(first) != len(second) {
		t.Fatalf("runs differ in size: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("run mismatch at %d: %v vs %v", i, first[i], second[i])
		}
	}

	if holidays[0].Date != "2026-01-01" || !holidays[0].Enabled {
		t.Error("holiday input was mutated")
	}
}

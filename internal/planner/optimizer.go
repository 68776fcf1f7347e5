package planner

import (
	"math"
	"sort"

	"github.com/username/long-weekend-planner/pkg/dateutil"
)

// efficiencyTolerance treats efficiencies this close as equal
const efficiencyTolerance = 0.01

// OptimizePlan greedily selects candidate blocks under a leave budget.
//
// Candidates are ranked by efficiency (descending), ties within 0.01 broken
// by more total days off. Each candidate is accepted if it fits the remaining
// budget, overlaps no accepted block and keeps the minimum gap to every
// accepted block. There is no backtracking, so the result is a heuristic,
// not a global optimum.
func OptimizePlan(candidates []CandidateBlock, leaveBudget, minGapWeeks int) OptimizedPlan {
	if len(candidates) == 0 || leaveBudget <= 0 {
		return OptimizedPlan{
			SelectedBlocks:  []CandidateBlock{},
			RemainingLeaves: leaveBudget,
		}
	}

	sorted := make([]CandidateBlock, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if math.Abs(a.Efficiency-b.Efficiency) > efficiencyTolerance {
			return a.Efficiency > b.Efficiency
		}
		return a.TotalDaysOff > b.TotalDaysOff
	})

	minGapDays := minGapWeeks * 7
	selected := []CandidateBlock{}
	leavesUsed := 0

	for _, candidate := range sorted {
		if leavesUsed+candidate.LeavesRequired > leaveBudget {
			continue
		}
		if !fitsAlongside(candidate, selected, minGapDays) {
			continue
		}
		selected = append(selected, candidate)
		leavesUsed += candidate.LeavesRequired
	}

	sort.Slice(selected, func(i, j int) bool {
		return selected[i].StartDate < selected[j].StartDate
	})

	totalDaysOff := 0
	for _, block := range selected {
		totalDaysOff += block.TotalDaysOff
	}

	return OptimizedPlan{
		SelectedBlocks:  selected,
		TotalDaysOff:    totalDaysOff,
		TotalLeavesUsed: leavesUsed,
		RemainingLeaves: leaveBudget - leavesUsed,
	}
}

// fitsAlongside checks overlap and the minimum gap against accepted blocks.
//
// The distance on each side is the inclusive day count from the start of
// one block to the end of the other. A non-positive distance means the
// blocks are ordered the other way round on that side and is not checked.
func fitsAlongside(candidate CandidateBlock, selected []CandidateBlock, minGapDays int) bool {
	cStart, err := dateutil.ParseKey(candidate.StartDate)
	if err != nil {
		return false
	}
	cEnd, err := dateutil.ParseKey(candidate.EndDate)
	if err != nil {
		return false
	}

	for _, block := range selected {
		if candidate.StartDate <= block.EndDate && candidate.EndDate >= block.StartDate {
			return false
		}

		// accepted blocks passed the same parse above
		bStart := dateutil.MustParseKey(block.StartDate)
		bEnd := dateutil.MustParseKey(block.EndDate)

		gapBefore := dateutil.DaysBetween(cStart, bEnd) + 1
		gapAfter := dateutil.DaysBetween(bStart, cEnd) + 1

		if gapBefore > 0 && gapBefore < minGapDays {
			return false
		}
		if gapAfter > 0 && gapAfter < minGapDays {
			return false
		}
	}
	return true
}

// PaidLeaveIndex maps every paid-leave date in the plan to its block
func PaidLeaveIndex(plan OptimizedPlan) map[string]CandidateBlock {
	index := make(map[string]CandidateBlock)
	for _, block := range plan.SelectedBlocks {
		for date := range block.PaidLeaveDates {
			index[date] = block
		}
	}
	return index
}

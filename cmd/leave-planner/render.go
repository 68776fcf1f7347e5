package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/username/long-weekend-planner/internal/planner"
	"github.com/username/long-weekend-planner/internal/vacation"
)

const ruler = "═══════════════════════════════════════════════════════"

// Calendar cell markers
const (
	markLeave       = "L"
	markHoliday     = "H"
	markLongWeekend = "+"
)

func printElapsedNotice(w io.Writer, ov *vacation.Overview) bool {
	if !ov.YearElapsed {
		return false
	}
	fmt.Fprintf(w, "⚠️  %d has already ended, nothing left to plan.\n", ov.Year)
	return true
}

func printLongWeekends(w io.Writer, ov *vacation.Overview) {
	fmt.Fprintf(w, "\n🏖  Natural long weekends %d (from %s)\n", ov.Year, ov.EffectiveStart)
	fmt.Fprintln(w, ruler)
	if len(ov.LongWeekends) == 0 {
		fmt.Fprintln(w, "  No long weekends found.")
		return
	}
	for _, lw := range ov.LongWeekends {
		fmt.Fprintf(w, "  %s .. %s  %s\n", lw.StartDate, lw.EndDate, lw.Description)
	}
}

// printCandidates lists candidates best first; limit <= 0 prints all
func printCandidates(w io.Writer, ov *vacation.Overview, limit int) {
	ranked := make([]planner.CandidateBlock, len(ov.Candidates))
	copy(ranked, ov.Candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Efficiency != ranked[j].Efficiency {
			return ranked[i].Efficiency > ranked[j].Efficiency
		}
		return ranked[i].TotalDaysOff > ranked[j].TotalDaysOff
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	fmt.Fprintf(w, "\n🔎 Candidate blocks %d (%d total)\n", ov.Year, len(ov.Candidates))
	fmt.Fprintln(w, ruler)
	fmt.Fprintln(w, "  Start      | End        | Days | Leaves | Eff.")
	fmt.Fprintln(w, "  -----------+------------+------+--------+------")
	for _, c := range ranked {
		fmt.Fprintf(w, "  %s | %s | %4d | %6d | %4.2f\n",
			c.StartDate, c.EndDate, c.TotalDaysOff, c.LeavesRequired, c.Efficiency)
	}
}

func printPlan(w io.Writer, ov *vacation.Overview) {
	plan := ov.Plan
	fmt.Fprintf(w, "\n📅 Optimized plan %d (%d paid leaves, blocks at least %d weeks apart)\n",
		ov.Year, ov.PaidLeaves, ov.DistanceWeeks)
	fmt.Fprintln(w, ruler)
	if len(plan.SelectedBlocks) == 0 {
		fmt.Fprintln(w, "  No blocks fit the budget.")
	}
	for _, b := range plan.SelectedBlocks {
		fmt.Fprintf(w, "  %s .. %s  %s\n", b.StartDate, b.EndDate, b.Description)
		fmt.Fprintf(w, "      leave on: %s\n", strings.Join(b.PaidLeaveDates.Sorted(), ", "))
	}
	fmt.Fprintln(w, ruler)
	fmt.Fprintf(w, "  Days off:         %d\n", plan.TotalDaysOff)
	fmt.Fprintf(w, "  Leaves used:      %d\n", plan.TotalLeavesUsed)
	fmt.Fprintf(w, "  Leaves remaining: %d\n", plan.RemainingLeaves)
}

func printStats(w io.Writer, ov *vacation.Overview) {
	s := ov.Stats
	fmt.Fprintf(w, "\n📊 Year %d (from %s)\n", ov.Year, ov.EffectiveStart)
	fmt.Fprintln(w, ruler)
	fmt.Fprintf(w, "  Weekend days:     %d\n", s.TotalWeekends)
	fmt.Fprintf(w, "  Holidays:         %d\n", s.TotalHolidays)
	fmt.Fprintf(w, "  Total off days:   %d\n", s.TotalOffDays)
	fmt.Fprintf(w, "  Paid leaves:      %d\n", s.PaidLeavesAvailable)
}

func printHolidays(w io.Writer, y int, holidays []planner.Holiday) {
	fmt.Fprintf(w, "\n🎉 Holidays %d (%d)\n", y, len(holidays))
	fmt.Fprintln(w, ruler)
	for _, h := range holidays {
		state := "on "
		if !h.Enabled {
			state = "off"
		}
		fmt.Fprintf(w, "  [%s] %s  %-30s  %s\n", state, h.Date, h.Name, h.ID)
	}
}

// renderMonth draws a Sunday-first month grid. Paid leave days of the plan
// are marked L, enabled holidays H and natural long weekend days +.
func renderMonth(w io.Writer, ov *vacation.Overview, month time.Month) {
	holidays := make(map[string]bool, len(ov.Holidays))
	for _, h := range ov.Holidays {
		if h.Enabled {
			holidays[h.Date] = true
		}
	}
	longWeekends := planner.LongWeekendIndex(ov.LongWeekends)
	leaves := planner.PaidLeaveIndex(ov.Plan)

	fmt.Fprintf(w, "%s %d\n", month, ov.Year)
	fmt.Fprintln(w, " Su  Mo  Tu  We  Th  Fr  Sa")

	grid := planner.MonthGrid(ov.Year, month)
	for row := 0; row < len(grid); row += 7 {
		week := grid[row : row+7]
		if row > 0 && !week[0].InMonth {
			break
		}

		var line strings.Builder
		for _, day := range week {
			if !day.InMonth {
				line.WriteString("    ")
				continue
			}
			marker := " "
			if _, ok := leaves[day.Key]; ok {
				marker = markLeave
			} else if holidays[day.Key] {
				marker = markHoliday
			} else if _, ok := longWeekends[day.Key]; ok {
				marker = markLongWeekend
			}
			fmt.Fprintf(&line, " %2d%s", day.Day, marker)
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
}

func printLegend(w io.Writer) {
	fmt.Fprintf(w, "Legend: %s = paid leave, %s = holiday, %s = long weekend\n",
		markLeave, markHoliday, markLongWeekend)
}

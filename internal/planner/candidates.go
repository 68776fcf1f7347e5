package planner

import (
	"fmt"
	"math"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/username/long-weekend-planner/pkg/dateutil"
	"go.uber.org/zap"
)

// extension is the number of workdays added before and after a weekend
type extension struct {
	before, after int
}

// extensions ordered by leave cost: 1, 2, 3, 4 and 5 workdays around Sat–Sun
var extensions = []extension{
	{1, 0}, {0, 1},
	{1, 1}, {2, 0}, {0, 2},
	{2, 1}, {1, 2},
	{2, 2}, {3, 1}, {1, 3},
	{3, 2}, {2, 3},
}

// GenerateCandidateBlocks builds every viable weekend extension from the
// effective start date to the end of the year. The pool deliberately
// overlaps; OptimizePlan resolves conflicts.
//
// Blocks that need no leave at all are left out: they are natural long
// weekends. maxBlockLength <= 0 means DefaultMaxBlockLength.
func (p *Planner) GenerateCandidateBlocks(year int, holidays []Holiday, naturalLongWeekends []LongWeekend, maxBlockLength int) []CandidateBlock {
	if maxBlockLength <= 0 {
		maxBlockLength = DefaultMaxBlockLength
	}

	start := p.EffectiveStart(year)
	if dateutil.YearElapsed(year, start) {
		return []CandidateBlock{}
	}

	holidayDays := enabledHolidayDays(year, holidays, start)

	naturalDates := make(DateSet)
	for _, lw := range naturalLongWeekends {
		for date := range lw.Dates {
			naturalDates.Add(date)
		}
	}

	startDay := dateutil.EpochDay(start)
	endDay := dateutil.EpochDay(dateutil.YearEnd(year))

	candidates := []CandidateBlock{}
	processed := make(map[int]bool)

	for day := startDay; day <= endDay; day++ {
		current := dateutil.FromEpochDay(day)
		if !dateutil.IsWeekend(current) || processed[day] {
			continue
		}

		saturday := day
		if current.Weekday() == time.Sunday {
			saturday = day - 1
		}
		sunday := saturday + 1
		processed[saturday] = true
		processed[sunday] = true

		for _, ext := range extensions {
			from := saturday - ext.before
			to := sunday + ext.after

			if from < startDay {
				continue
			}
			if to-from+1 > maxBlockLength {
				continue
			}

			block, ok := buildCandidate(from, to, holidayDays, naturalDates)
			if !ok {
				continue
			}
			candidates = append(candidates, block)
		}
	}

	p.logger.Debug("Candidate blocks generated",
		zap.Int("year", year),
		zap.Int("count", len(candidates)),
		zap.Int("max_block_length", maxBlockLength))

	return candidates
}

// buildCandidate walks the span and counts the workdays that are not
// holidays. Spans needing zero leave are rejected.
func buildCandidate(from, to int, holidayDays map[int]bool, naturalDates DateSet) (CandidateBlock, bool) {
	allDates := make(DateSet, to-from+1)
	paidLeaveDates := make(DateSet)
	naturalLWDates := make(DateSet)

	for d := from; d <= to; d++ {
		date := dateutil.FromEpochDay(d)
		key := dateutil.ToKey(date)
		allDates.Add(key)

		if dateutil.IsWeekday(date) && !holidayDays[d] {
			paidLeaveDates.Add(key)
		}
		if naturalDates.Has(key) {
			naturalLWDates.Add(key)
		}
	}

	leaves := paidLeaveDates.Len()
	if leaves == 0 {
		return CandidateBlock{}, false
	}

	totalDays := allDates.Len()
	startDate := dateutil.FromEpochDay(from)
	endDate := dateutil.FromEpochDay(to)

	return CandidateBlock{
		ID:                      ulid.Make().String(),
		StartDate:               dateutil.ToKey(startDate),
		EndDate:                 dateutil.ToKey(endDate),
		TotalDaysOff:            totalDays,
		LeavesRequired:          leaves,
		Efficiency:              efficiency(totalDays, leaves),
		AllDates:                allDates,
		PaidLeaveDates:          paidLeaveDates,
		NaturalLongWeekendDates: naturalLWDates,
		Description:             candidateDescription(totalDays, leaves, startDate, endDate),
	}, true
}

func efficiency(totalDays, leaves int) float64 {
	if leaves == 0 {
		return math.Inf(1)
	}
	return float64(totalDays) / float64(leaves)
}

func candidateDescription(totalDays, leaves int, start, end time.Time) string {
	unit := "leave"
	if leaves > 1 {
		unit = "leaves"
	}
	return fmt.Sprintf("%s • %d %s", spanDescription(totalDays, start, end), leaves, unit)
}

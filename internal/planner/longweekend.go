package planner

import (
	"sort"
	"time"

	"github.com/username/long-weekend-planner/pkg/dateutil"
	"go.uber.org/zap"
)

// daySpan is an inclusive range of epoch days
type daySpan struct {
	from, to int
}

// DetectLongWeekends finds natural long weekends: spans formed by enabled
// holidays adjacent to a weekend that need no paid leave.
//
// Holidays are processed in date order. A holiday already covered by an
// accepted span is skipped. When two holidays produce spans around the same
// weekend (a Thursday and the following Monday), the spans are merged so the
// returned long weekends never share a date.
func (p *Planner) DetectLongWeekends(year int, holidays []Holiday) []LongWeekend {
	start := p.EffectiveStart(year)
	if dateutil.YearElapsed(year, start) {
		return []LongWeekend{}
	}

	holidayDays := enabledHolidayDays(year, holidays, start)
	startDay := dateutil.EpochDay(start)

	ordered := make([]int, 0, len(holidayDays))
	for day := range holidayDays {
		ordered = append(ordered, day)
	}
	sort.Ints(ordered)

	claimed := make(map[int]bool)
	bySaturday := make(map[int]int) // weekend saturday -> index in spans
	spans := []daySpan{}

	for _, day := range ordered {
		if claimed[day] {
			continue
		}

		span, ok := naturalSpan(day, holidayDays)
		if !ok {
			continue
		}
		if span.from < startDay {
			continue
		}

		saturday := weekendSaturday(span)
		if i, exists := bySaturday[saturday]; exists {
			if span.from < spans[i].from {
				spans[i].from = span.from
			}
			if span.to > spans[i].to {
				spans[i].to = span.to
			}
			p.logger.Debug("Merged holiday into long weekend",
				zap.String("holiday", dateutil.ToKey(dateutil.FromEpochDay(day))))
		} else {
			bySaturday[saturday] = len(spans)
			spans = append(spans, span)
		}

		for d := span.from; d <= span.to; d++ {
			claimed[d] = true
		}
	}

	longWeekends := make([]LongWeekend, 0, len(spans))
	for _, span := range spans {
		longWeekends = append(longWeekends, newLongWeekend(span))
	}

	sort.Slice(longWeekends, func(i, j int) bool {
		return longWeekends[i].StartDate < longWeekends[j].StartDate
	})

	return longWeekends
}

// naturalSpan expands a holiday into the off-day span it creates together
// with the adjacent weekend:
//
//	Fri → Fri..Sun   Mon → Sat..Mon
//	Thu → Thu..Sun   Tue → Sat..Tue
//	Wed → Sat..Wed
//	Sat → Fri..Sun only if Friday is a holiday too
//	Sun → Sat..Mon only if Monday is a holiday too
func naturalSpan(day int, holidayDays map[int]bool) (daySpan, bool) {
	switch dateutil.FromEpochDay(day).Weekday() {
	case time.Friday:
		return daySpan{day, day + 2}, true
	case time.Monday:
		return daySpan{day - 2, day}, true
	case time.Thursday:
		return daySpan{day, day + 3}, true
	case time.Tuesday:
		return daySpan{day - 3, day}, true
	case time.Wednesday:
		return daySpan{day - 4, day}, true
	case time.Saturday:
		if holidayDays[day-1] {
			return daySpan{day - 1, day + 1}, true
		}
	case time.Sunday:
		if holidayDays[day+1] {
			return daySpan{day - 1, day + 1}, true
		}
	}
	return daySpan{}, false
}

// weekendSaturday returns the Saturday inside span; every natural span
// contains exactly one weekend.
func weekendSaturday(span daySpan) int {
	for d := span.from; d <= span.to; d++ {
		if dateutil.FromEpochDay(d).Weekday() == time.Saturday {
			return d
		}
	}
	return span.from
}

func newLongWeekend(span daySpan) LongWeekend {
	startDate := dateutil.FromEpochDay(span.from)
	endDate := dateutil.FromEpochDay(span.to)

	dates := make(DateSet, span.to-span.from+1)
	for d := span.from; d <= span.to; d++ {
		dates.Add(dateutil.ToKey(dateutil.FromEpochDay(d)))
	}

	return LongWeekend{
		StartDate:   dateutil.ToKey(startDate),
		EndDate:     dateutil.ToKey(endDate),
		DaysOff:     dates.Len(),
		Description: spanDescription(dates.Len(), startDate, endDate),
		Dates:       dates,
	}
}

// LongWeekendIndex maps every covered date to its long weekend
func LongWeekendIndex(longWeekends []LongWeekend) map[string]LongWeekend {
	index := make(map[string]LongWeekend)
	for _, lw := range longWeekends {
		for date := range lw.Dates {
			index[date] = lw
		}
	}
	return index
}

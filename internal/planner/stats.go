package planner

import (
	"time"

	"github.com/username/long-weekend-planner/pkg/dateutil"
)

// CalculateYearStats counts the weekend days and enabled holidays left in
// the year from the effective start date. A holiday on a weekend is counted
// once in TotalOffDays. leaveCount is echoed back as PaidLeavesAvailable.
func (p *Planner) CalculateYearStats(year int, holidays []Holiday, leaveCount int) YearStats {
	stats := YearStats{PaidLeavesAvailable: leaveCount}

	start := p.EffectiveStart(year)
	if dateutil.YearElapsed(year, start) {
		return stats
	}

	offDays := make(map[int]bool)

	startDay := dateutil.EpochDay(start)
	endDay := dateutil.EpochDay(dateutil.YearEnd(year))
	for day := startDay; day <= endDay; day++ {
		if dateutil.IsWeekend(dateutil.FromEpochDay(day)) {
			stats.TotalWeekends++
			offDays[day] = true
		}
	}

	holidayDays := enabledHolidayDays(year, holidays, start)
	for day := range holidayDays {
		offDays[day] = true
	}

	stats.TotalHolidays = len(holidayDays)
	stats.TotalOffDays = len(offDays)
	return stats
}

// Day is one cell of a month grid
type Day struct {
	Key     string       `json:"key"`
	Day     int          `json:"day"`
	InMonth bool         `json:"in_month"`
	Weekend bool         `json:"weekend"`
	Weekday time.Weekday `json:"weekday"`
}

// MonthGrid returns a 6-week grid (42 cells) starting on the Sunday of the
// week containing the first of the month.
func MonthGrid(year int, month time.Month) []Day {
	first := dateutil.Date(year, month, 1)
	start := dateutil.AddDays(first, -int(first.Weekday()))

	days := make([]Day, 0, 42)
	for i := 0; i < 42; i++ {
		d := dateutil.AddDays(start, i)
		days = append(days, Day{
			Key:     dateutil.ToKey(d),
			Day:     d.Day(),
			InMonth: d.Month() == month,
			Weekend: dateutil.IsWeekend(d),
			Weekday: d.Weekday(),
		})
	}
	return days
}

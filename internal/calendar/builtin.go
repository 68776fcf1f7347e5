package calendar

import (
	"fmt"

	cal "github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"

	"github.com/username/long-weekend-planner/pkg/dateutil"
)

// Supported built-in regions
const (
	RegionIndia = "in"
	RegionUS    = "us"
)

// indiaStarterPack is a generic list of widely observed Indian holidays.
// Dates of lunar festivals vary by state; users are expected to adjust.
var indiaStarterPack = map[int][]Entry{
	2026: {
		{Date: "2026-01-01", Name: "New Year’s Day"},
		{Date: "2026-01-14", Name: "Makar Sankranti / Pongal (observed)"},
		{Date: "2026-01-26", Name: "Republic Day"},
		{Date: "2026-03-08", Name: "Holi"},
		{Date: "2026-03-29", Name: "Good Friday"},
		{Date: "2026-04-14", Name: "Dr. B. R. Ambedkar Jayanti"},
		{Date: "2026-05-01", Name: "Labour Day / May Day"},
		{Date: "2026-08-15", Name: "Independence Day"},
		{Date: "2026-10-02", Name: "Gandhi Jayanti"},
		{Date: "2026-10-20", Name: "Dussehra / Vijayadashami"},
		{Date: "2026-11-08", Name: "Diwali (Deepavali)"},
		{Date: "2026-12-25", Name: "Christmas Day"},
	},
}

// usFederal lists the US federal holidays
var usFederal = []*cal.Holiday{
	us.NewYear,
	us.MlkDay,
	us.PresidentsDay,
	us.MemorialDay,
	us.Juneteenth,
	us.IndependenceDay,
	us.LaborDay,
	us.ColumbusDay,
	us.VeteransDay,
	us.ThanksgivingDay,
	us.ChristmasDay,
}

// BuiltinSource serves compiled-in holiday lists
type BuiltinSource struct {
	region string
}

// NewBuiltinSource creates a source for region ("in" or "us")
func NewBuiltinSource(region string) (*BuiltinSource, error) {
	switch region {
	case RegionIndia, RegionUS:
		return &BuiltinSource{region: region}, nil
	default:
		return nil, fmt.Errorf("unknown holiday region: %q", region)
	}
}

// Holidays returns the built-in holidays of year. The India pack only
// covers the years it was compiled for; other years are empty.
func (s *BuiltinSource) Holidays(year int) ([]Entry, error) {
	switch s.region {
	case RegionUS:
		return usHolidays(year), nil
	default:
		return normalizeEntries(year, indiaStarterPack[year]), nil
	}
}

// usHolidays uses the observed date, so a Saturday holiday lands on Friday
// and a Sunday one on Monday. Observed dates pushed into a neighbouring
// year are dropped.
func usHolidays(year int) []Entry {
	entries := make([]Entry, 0, len(usFederal))
	for _, h := range usFederal {
		_, observed := h.Calc(year)
		if observed.IsZero() {
			continue
		}
		entries = append(entries, Entry{Date: dateutil.ToKey(observed), Name: h.Name})
	}
	return normalizeEntries(year, entries)
}

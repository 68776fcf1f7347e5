package calendar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/username/long-weekend-planner/pkg/dateutil"
)

// DefaultHolidayName is used for entries that come without a name
const DefaultHolidayName = "Holiday"

// Entry is a single public holiday offered by a source
type Entry struct {
	Date string `json:"date" toml:"date"` // YYYY-MM-DD
	Name string `json:"name" toml:"name"`
}

// Source provides the public holidays of a year
type Source interface {
	// Holidays returns the holidays within year, sorted by date
	Holidays(year int) ([]Entry, error)
}

// normalizeEntries keeps valid entries within year, fills blank names,
// drops repeated dates (first wins) and sorts by date.
func normalizeEntries(year int, entries []Entry) []Entry {
	prefix := fmt.Sprintf("%04d-", year)
	seen := make(map[string]bool, len(entries))

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !dateutil.IsValidKey(e.Date) || !strings.HasPrefix(e.Date, prefix) || seen[e.Date] {
			continue
		}
		seen[e.Date] = true

		name := strings.TrimSpace(e.Name)
		if name == "" {
			name = DefaultHolidayName
		}
		out = append(out, Entry{Date: e.Date, Name: name})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}

package planner

import (
	"encoding/json"
	"sort"
)

// Holiday is a single public holiday record owned by the holiday store.
// The planner only reads snapshots of these.
type Holiday struct {
	ID      string `json:"id"`
	Date    string `json:"date"` // YYYY-MM-DD
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// DateSet is a set of YYYY-MM-DD date keys
type DateSet map[string]struct{}

// NewDateSet builds a set from keys
func NewDateSet(keys ...string) DateSet {
	s := make(DateSet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Add inserts key into the set
func (s DateSet) Add(key string) {
	s[key] = struct{}{}
}

// Has reports whether key is in the set
func (s DateSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Len returns the number of dates in the set
func (s DateSet) Len() int {
	return len(s)
}

// Sorted returns the keys in chronological order
func (s DateSet) Sorted() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalJSON encodes the set as a sorted array of date keys
func (s DateSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes an array of date keys
func (s *DateSet) UnmarshalJSON(data []byte) error {
	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	*s = NewDateSet(keys...)
	return nil
}

// LongWeekend is a contiguous off-day span created by holidays adjacent
// to a weekend. It needs no paid leave.
type LongWeekend struct {
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	DaysOff     int     `json:"days_off"`
	Description string  `json:"description"` // e.g. "3 days off (Sat–Mon)"
	Dates       DateSet `json:"dates"`
}

// CandidateBlock is a hypothetical off-day span built by spending paid
// leave around a weekend.
type CandidateBlock struct {
	ID                      string  `json:"id"`
	StartDate               string  `json:"start_date"`
	EndDate                 string  `json:"end_date"`
	TotalDaysOff            int     `json:"total_days_off"`
	LeavesRequired          int     `json:"leaves_required"`
	Efficiency              float64 `json:"efficiency"` // TotalDaysOff / LeavesRequired
	AllDates                DateSet `json:"all_dates"`
	PaidLeaveDates          DateSet `json:"paid_leave_dates"`
	NaturalLongWeekendDates DateSet `json:"natural_long_weekend_dates"`
	Description             string  `json:"description"` // e.g. "4 days off (Fri–Mon) • 1 leave"
}

// OptimizedPlan is the chosen set of candidate blocks
type OptimizedPlan struct {
	SelectedBlocks  []CandidateBlock `json:"selected_blocks"`
	TotalDaysOff    int              `json:"total_days_off"`
	TotalLeavesUsed int              `json:"total_leaves_used"`
	RemainingLeaves int              `json:"remaining_leaves"`
}

// YearStats is a summary of off days left in the year
type YearStats struct {
	TotalWeekends       int `json:"total_weekends"`
	TotalHolidays       int `json:"total_holidays"`
	TotalOffDays        int `json:"total_off_days"` // weekends + holidays, overlaps counted once
	PaidLeavesAvailable int `json:"paid_leaves_available"`
}

// Result bundles one full pipeline run
type Result struct {
	Year           int              `json:"year"`
	EffectiveStart string           `json:"effective_start"`
	LongWeekends   []LongWeekend    `json:"long_weekends"`
	Candidates     []CandidateBlock `json:"candidates"`
	Plan           OptimizedPlan    `json:"plan"`
	Stats          YearStats        `json:"stats"`
}

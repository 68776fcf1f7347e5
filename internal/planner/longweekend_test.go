package planner

import (
	"testing"

	"github.com/username/long-weekend-planner/pkg/dateutil"
)

func TestDetectLongWeekends_SingleHoliday(t *testing.T) {
	tests := []struct {
		name      string
		holiday   string
		wantStart string
		wantEnd   string
		wantDays  int
		wantDesc  string
	}{
		{"Friday", "2026-03-06", "2026-03-06", "2026-03-08", 3, "3 days off (Fri–Sun)"},
		{"Monday", "2026-01-26", "2026-01-24", "2026-01-26", 3, "3 days off (Sat–Mon)"},
		{"Thursday", "2026-01-29", "2026-01-29", "2026-02-01", 4, "4 days off (Thu–Sun)"},
		{"Tuesday", "2026-01-20", "2026-01-17", "2026-01-20", 4, "4 days off (Sat–Tue)"},
		{"Wednesday", "2026-01-14", "2026-01-10", "2026-01-14", 5, "5 days off (Sat–Wed)"},
		{"Friday crossing the year end", "2027-12-31", "2027-12-31", "2028-01-02", 3, "3 days off (Fri–Sun)"},
	}

	p := newTestPlanner("2025-06-01")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year := dateutil.MustParseKey(tt.holiday).Year()
			result := p.DetectLongWeekends(year, []Holiday{holiday(tt.holiday)})

			if len(result) != 1 {
				t.Fatalf("DetectLongWeekends(%v) returned %d long weekends, want 1", tt.holiday, len(result))
			}

			lw := result[0]
			if lw.StartDate != tt.wantStart || lw.EndDate != tt.wantEnd {
				t.Errorf("span = %v..%v, want %v..%v", lw.StartDate, lw.EndDate, tt.wantStart, tt.wantEnd)
			}
			if lw.DaysOff != tt.wantDays {
				t.Errorf("DaysOff = %d, want %d", lw.DaysOff, tt.wantDays)
			}
			if lw.Dates.Len() != lw.DaysOff {
				t.Errorf("Dates.Len() = %d, want DaysOff %d", lw.Dates.Len(), lw.DaysOff)
			}
			if lw.Description != tt.wantDesc {
				t.Errorf("Description = %q, want %q", lw.Description, tt.wantDesc)
			}
		})
	}
}

func TestDetectLongWeekends_WeekendHolidays(t *testing.T) {
	tests := []struct {
		name      string
		holidays  []string
		wantSpans [][2]string
	}{
		{
			name:     "Saturday alone is a plain weekend",
			holidays: []string{"2026-01-03"},
		},
		{
			name:     "Sunday alone is a plain weekend",
			holidays: []string{"2026-01-04"},
		},
		{
			name:      "Friday and Saturday give one span",
			holidays:  []string{"2026-01-03", "2026-01-02"},
			wantSpans: [][2]string{{"2026-01-02", "2026-01-04"}},
		},
		{
			name:      "Sunday and Monday give one span",
			holidays:  []string{"2026-01-19", "2026-01-18"},
			wantSpans: [][2]string{{"2026-01-17", "2026-01-19"}},
		},
		{
			name:      "Thursday and Monday around one weekend are merged",
			holidays:  []string{"2026-02-02", "2026-01-29"},
			wantSpans: [][2]string{{"2026-01-29", "2026-02-02"}},
		},
		{
			name:      "Monday and Tuesday of the same week are merged",
			holidays:  []string{"2026-01-19", "2026-01-20"},
			wantSpans: [][2]string{{"2026-01-17", "2026-01-20"}},
		},
		{
			name:     "Wednesday then Thursday stay separate weekends",
			holidays: []string{"2026-01-14", "2026-01-15"},
			wantSpans: [][2]string{
				{"2026-01-10", "2026-01-14"},
				{"2026-01-15", "2026-01-18"},
			},
		},
	}

	p := newTestPlanner("2025-06-01")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			holidays := make([]Holiday, 0, len(tt.holidays))
			for _, d := range tt.holidays {
				holidays = append(holidays, holiday(d))
			}

			result := p.DetectLongWeekends(2026, holidays)

			if len(result) != len(tt.wantSpans) {
				t.Fatalf("DetectLongWeekends(%v) returned %d long weekends, want %d: %+v",
					tt.holidays, len(result), len(tt.wantSpans), result)
			}
			for i, want := range tt.wantSpans {
				if result[i].StartDate != want[0] || result[i].EndDate != want[1] {
					t.Errorf("long weekend %d = %v..%v, want %v..%v",
						i, result[i].StartDate, result[i].EndDate, want[0], want[1])
				}
			}
		})
	}
}

func TestDetectLongWeekends_Filtering(t *testing.T) {
	disabled := holiday("2026-03-06")
	disabled.Enabled = false

	tests := []struct {
		name     string
		today    string
		holidays []Holiday
		want     int
	}{
		{"disabled holiday is ignored", "2025-06-01", []Holiday{disabled}, 0},
		{"holiday of another year is ignored", "2025-06-01", []Holiday{holiday("2025-03-07")}, 0},
		{"duplicate dates count once", "2025-06-01", []Holiday{holiday("2026-03-06"), holiday("2026-03-06")}, 1},
		{"span starting before today is dropped", "2026-01-25", []Holiday{holiday("2026-01-26")}, 0},
		{"span starting today is kept", "2026-01-24", []Holiday{holiday("2026-01-26")}, 1},
		{"holiday before today is ignored", "2026-03-07", []Holiday{holiday("2026-03-06")}, 0},
		{"elapsed year", "2027-03-01", []Holiday{holiday("2026-03-06")}, 0},
		{"empty holiday list", "2025-06-01", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := newTestPlanner(tt.today).DetectLongWeekends(2026, tt.holidays)

			if result == nil {
				t.Fatal("DetectLongWeekends() returned nil, want empty slice")
			}
			if len(result) != tt.want {
				t.Errorf("DetectLongWeekends() returned %d long weekends, want %d", len(result), tt.want)
			}
		})
	}
}

func TestDetectLongWeekends_Properties(t *testing.T) {
	p := newTestPlanner("2025-06-01")

	result := p.DetectLongWeekends(2026, india2026())

	// Jan 1 Thu, Jan 14 Wed, Jan 26 Mon, Apr 14 Tue, May 1 Fri, Oct 2 Fri,
	// Oct 20 Tue, Dec 25 Fri; Mar 8, Mar 29, Aug 15 and Nov 8 fall on weekends.
	if len(result) != 8 {
		t.Fatalf("DetectLongWeekends() returned %d long weekends, want 8", len(result))
	}

	seen := make(map[string]string)
	for i, lw := range result {
		if i > 0 && result[i-1].StartDate >= lw.StartDate {
			t.Errorf("long weekends not ordered: %v before %v", result[i-1].StartDate, lw.StartDate)
		}
		if lw.Dates.Len() != lw.DaysOff {
			t.Errorf("%v: Dates.Len() = %d, DaysOff = %d", lw.StartDate, lw.Dates.Len(), lw.DaysOff)
		}

		start := dateutil.MustParseKey(lw.StartDate)
		end := dateutil.MustParseKey(lw.EndDate)
		if dateutil.DaysBetween(start, end)+1 != lw.DaysOff {
			t.Errorf("%v..%v is not contiguous with %d days", lw.StartDate, lw.EndDate, lw.DaysOff)
		}

		hasWeekend := false
		for date := range lw.Dates {
			if date < lw.StartDate || date > lw.EndDate {
				t.Errorf("%v outside %v..%v", date, lw.StartDate, lw.EndDate)
			}
			if owner, dup := seen[date]; dup {
				t.Errorf("%v appears in %v and %v", date, owner, lw.StartDate)
			}
			seen[date] = lw.StartDate
			if dateutil.IsWeekend(dateutil.MustParseKey(date)) {
				hasWeekend = true
			}
		}
		if !hasWeekend {
			t.Errorf("%v..%v has no weekend day", lw.StartDate, lw.EndDate)
		}
	}
}

func TestLongWeekendIndex(t *testing.T) {
	p := newTestPlanner("2025-06-01")
	weekends := p.DetectLongWeekends(2026, []Holiday{holiday("2026-01-14"), holiday("2026-03-06")})

	index := LongWeekendIndex(weekends)

	if len(index) != 8 {
		t.Errorf("LongWeekendIndex() has %d dates, want 8", len(index))
	}
	if lw, ok := index["2026-01-12"]; !ok || lw.StartDate != "2026-01-10" {
		t.Errorf("index[2026-01-12] = %+v, want the 2026-01-10 long weekend", lw)
	}
}

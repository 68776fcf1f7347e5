package dateutil

import (
	"fmt"
	"time"
)

// KeyLayout is the canonical YYYY-MM-DD date key layout
const KeyLayout = "2006-01-02"

var weekdayShort = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Date returns midnight UTC of the given calendar date.
// Out-of-range month/day values are normalized the way time.Date does.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// StartOfDay returns the UTC-anchored calendar date of t.
// The wall-clock date of t in its own location is kept, so a late-evening
// local time never drifts to the next day.
func StartOfDay(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// ToKey formats the date as YYYY-MM-DD
func ToKey(t time.Time) string {
	return t.Format(KeyLayout)
}

// ParseKey parses a YYYY-MM-DD key into midnight UTC
func ParseKey(key string) (time.Time, error) {
	if len(key) != len(KeyLayout) {
		return time.Time{}, fmt.Errorf("invalid date key %q: want YYYY-MM-DD", key)
	}
	t, err := time.ParseInLocation(KeyLayout, key, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return t, nil
}

// MustParseKey is ParseKey for keys known to be valid
func MustParseKey(key string) time.Time {
	t, err := ParseKey(key)
	if err != nil {
		panic(err)
	}
	return t
}

// IsValidKey reports whether key is YYYY-MM-DD and names a real calendar date.
// The parsed date is formatted back and compared, so "2026-02-30" is rejected.
func IsValidKey(key string) bool {
	t, err := ParseKey(key)
	if err != nil {
		return false
	}
	return ToKey(t) == key
}

// AddDays adds n calendar days, crossing month and year boundaries
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// DaysBetween returns the number of calendar days from a to b (b - a).
// Both dates are reduced to their calendar day first.
func DaysBetween(a, b time.Time) int {
	return EpochDay(b) - EpochDay(a)
}

// EpochDay returns the day ordinal of t's calendar date counted from 1970-01-01
func EpochDay(t time.Time) int {
	return int(StartOfDay(t).Unix() / 86400)
}

// FromEpochDay is the inverse of EpochDay
func FromEpochDay(day int) time.Time {
	return time.Unix(int64(day)*86400, 0).UTC()
}

// IsWeekday returns true if the date is Monday-Friday
func IsWeekday(date time.Time) bool {
	weekday := date.Weekday()
	return weekday >= time.Monday && weekday <= time.Friday
}

// IsWeekend returns true if the date is Saturday or Sunday
func IsWeekend(date time.Time) bool {
	weekday := date.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// WeekdayShort returns the three-letter English day name ("Sat", "Mon")
func WeekdayShort(date time.Time) string {
	return weekdayShort[date.Weekday()]
}

// IsSameDay returns true if two dates are on the same day
func IsSameDay(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

// YearStart returns January 1 of year
func YearStart(year int) time.Time {
	return Date(year, time.January, 1)
}

// YearEnd returns December 31 of year
func YearEnd(year int) time.Time {
	return Date(year, time.December, 31)
}

// ResolveEffectiveStart returns the first date planning runs from.
//
// Inside the year it is today; before the year it is January 1. Once the
// year is over it is today as well, which lies after December 31: callers
// check YearElapsed (or compare against YearEnd) and return empty results.
func ResolveEffectiveStart(year int, now time.Time) time.Time {
	today := StartOfDay(now)
	jan1 := YearStart(year)
	if today.Before(jan1) {
		return jan1
	}
	return today
}

// YearElapsed reports whether the effective start lies after December 31
func YearElapsed(year int, start time.Time) bool {
	return start.After(YearEnd(year))
}

// Today returns today's date (UTC-anchored start of day)
func Today() time.Time {
	return StartOfDay(time.Now())
}

// Package timeutil holds the small pure helpers the booking engine builds on:
// a wall-clock time-of-day value, date/time combination, half-open interval
// overlap, and slot-boundary rounding.
package timeutil

import (
	"fmt"
	"time"
)

const minutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time within a day, stored as minutes since
// midnight. The zero value is midnight.
type TimeOfDay int

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid time of day %02d:%02d", hour, minute)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// ParseTimeOfDay parses "15:04".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t TimeOfDay) Before(other TimeOfDay) bool { return t < other }

// AddMinutes returns the time of day m minutes later and whether the result
// stayed within the same day.
func (t TimeOfDay) AddMinutes(m int) (TimeOfDay, bool) {
	next := int(t) + m
	if next >= minutesPerDay {
		return TimeOfDay(next % minutesPerDay), false
	}
	return TimeOfDay(next), true
}

// At combines a calendar date with the time of day into an absolute instant in
// loc. Only the year/month/day of date are used.
func (t TimeOfDay) At(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, loc)
}

// TimeOfDayFrom extracts the wall-clock time of instant in loc.
func TimeOfDayFrom(instant time.Time, loc *time.Location) TimeOfDay {
	local := instant.In(loc)
	return TimeOfDay(local.Hour()*60 + local.Minute())
}

// RoundUpToInterval rounds t up to the next multiple of interval minutes.
// A time already on a boundary is unchanged. interval must be positive.
func RoundUpToInterval(t TimeOfDay, interval int) TimeOfDay {
	rounded := ((int(t) + interval - 1) / interval) * interval
	return TimeOfDay(rounded)
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Contains reports whether instant falls in the half-open window [start, end).
func Contains(start, end, instant time.Time) bool {
	return !instant.Before(start) && instant.Before(end)
}

// DateOf truncates instant to midnight of its calendar day in loc.
func DateOf(instant time.Time, loc *time.Location) time.Time {
	local := instant.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// SameDate reports whether a and b fall on the same calendar day in loc.
func SameDate(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

// Weekday maps a date to the scheduling convention used by operating hours:
// Monday is 0, Sunday is 6.
func Weekday(date time.Time) int {
	return (int(date.Weekday()) + 6) % 7
}

package timeutil_test

import (
	"testing"
	"time"

	"tablebook/internal/pkg/timeutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := timeutil.ParseTimeOfDay("18:30")
	require.NoError(t, err)
	assert.Equal(t, 18, tod.Hour())
	assert.Equal(t, 30, tod.Minute())
	assert.Equal(t, "18:30", tod.String())

	_, err = timeutil.ParseTimeOfDay("25:00")
	assert.Error(t, err)

	_, err = timeutil.ParseTimeOfDay("not a time")
	assert.Error(t, err)
}

func TestAddMinutes(t *testing.T) {
	tod, err := timeutil.NewTimeOfDay(23, 30)
	require.NoError(t, err)

	next, sameDay := tod.AddMinutes(15)
	assert.True(t, sameDay)
	assert.Equal(t, "23:45", next.String())

	wrapped, sameDay := tod.AddMinutes(45)
	assert.False(t, sameDay)
	assert.Equal(t, "00:15", wrapped.String())
}

func TestRoundUpToInterval(t *testing.T) {
	cases := []struct {
		name     string
		in       string
		interval int
		want     string
	}{
		{"already on boundary", "11:00", 30, "11:00"},
		{"rounds up", "11:01", 30, "11:30"},
		{"just before boundary", "11:29", 30, "11:30"},
		{"quarter hour", "09:50", 15, "10:00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in, err := timeutil.ParseTimeOfDay(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, timeutil.RoundUpToInterval(in, tc.interval).String())
		})
	}
}

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 14, 13, 0, 0, 0, time.UTC)

	cases := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{
			name:   "identical intervals",
			aStart: base, aEnd: base.Add(2 * time.Hour),
			bStart: base, bEnd: base.Add(2 * time.Hour),
			want: true,
		},
		{
			name:   "partial overlap",
			aStart: base, aEnd: base.Add(2 * time.Hour),
			bStart: base.Add(time.Hour), bEnd: base.Add(3 * time.Hour),
			want: true,
		},
		{
			name:   "touching endpoints are half-open",
			aStart: base, aEnd: base.Add(time.Hour),
			bStart: base.Add(time.Hour), bEnd: base.Add(2 * time.Hour),
			want: false,
		},
		{
			name:   "disjoint",
			aStart: base, aEnd: base.Add(time.Hour),
			bStart: base.Add(3 * time.Hour), bEnd: base.Add(4 * time.Hour),
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, timeutil.Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
			assert.Equal(t, tc.want, timeutil.Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd))
		})
	}
}

func TestContains(t *testing.T) {
	start := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	assert.True(t, timeutil.Contains(start, end, start))
	assert.True(t, timeutil.Contains(start, end, start.Add(time.Hour)))
	assert.False(t, timeutil.Contains(start, end, end))
	assert.False(t, timeutil.Contains(start, end, start.Add(-time.Minute)))
}

func TestWeekday(t *testing.T) {
	// 2026-03-16 is a Monday.
	monday := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, timeutil.Weekday(monday))
	assert.Equal(t, 6, timeutil.Weekday(monday.AddDate(0, 0, 6)))
}

func TestAtCombinesDateAndTime(t *testing.T) {
	tod, err := timeutil.ParseTimeOfDay("19:15")
	require.NoError(t, err)

	date := time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)
	instant := tod.At(date, time.UTC)

	assert.Equal(t, time.Date(2026, 7, 4, 19, 15, 0, 0, time.UTC), instant)
	assert.Equal(t, tod, timeutil.TimeOfDayFrom(instant, time.UTC))
}

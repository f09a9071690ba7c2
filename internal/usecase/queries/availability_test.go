package queries_test

import (
	"context"
	"testing"
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/domain/schedule"
	"tablebook/internal/domain/table"
	"tablebook/internal/pkg/clock"
	"tablebook/internal/pkg/timeutil"
	"tablebook/internal/usecase/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSettings struct{ settings reservation.Settings }

func (s stubSettings) GetOrDefault(_ context.Context, _ uuid.UUID) (reservation.Settings, error) {
	return s.settings, nil
}

type stubHours struct {
	hours schedule.DayHours
	found bool
}

func (s stubHours) FindForWeekday(_ context.Context, _ uuid.UUID, _ int) (schedule.DayHours, bool, error) {
	return s.hours, s.found, nil
}

type stubTables struct{ tables []table.Table }

func (s stubTables) ListActive(_ context.Context, _ uuid.UUID) ([]table.Table, error) {
	return s.tables, nil
}

type stubBlocked struct{ windows []*reservation.BlockedTime }

func (s stubBlocked) ListInWindow(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]*reservation.BlockedTime, error) {
	return s.windows, nil
}

type stubBookings struct{ bookings []queries.ActiveBooking }

func (s stubBookings) ListActiveBetween(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]queries.ActiveBooking, error) {
	return s.bookings, nil
}

type recordingCache struct {
	stored []queries.AvailabilityResult
	hit    *queries.AvailabilityResult
}

func (c *recordingCache) Get(_ context.Context, _ uuid.UUID, _ string, _ int) (*queries.AvailabilityResult, bool, error) {
	if c.hit != nil {
		return c.hit, true, nil
	}
	return nil, false, nil
}

func (c *recordingCache) Set(_ context.Context, result queries.AvailabilityResult) error {
	c.stored = append(c.stored, result)
	return nil
}

type availabilityFixture struct {
	restaurantID uuid.UUID
	settings     stubSettings
	hours        stubHours
	tables       stubTables
	blocked      stubBlocked
	bookings     stubBookings
	cache        queries.AvailabilityCache
	clock        *clock.MockClock
}

// newAvailabilityFixture mirrors the documented scenario: open 11:00-22:00,
// one table of capacity 4, current time 09:00 on the queried day.
func newAvailabilityFixture(t *testing.T) *availabilityFixture {
	t.Helper()
	rid := uuid.New()
	open, err := timeutil.NewTimeOfDay(11, 0)
	require.NoError(t, err)
	closeAt, err := timeutil.NewTimeOfDay(22, 0)
	require.NoError(t, err)

	return &availabilityFixture{
		restaurantID: rid,
		settings:     stubSettings{settings: reservation.DefaultSettings(rid)},
		hours: stubHours{
			hours: schedule.DayHours{RestaurantID: rid, OpenTime: open, CloseTime: closeAt},
			found: true,
		},
		tables: stubTables{tables: []table.Table{{
			ID:           uuid.New(),
			RestaurantID: rid,
			Number:       "T1",
			Capacity:     4,
			Status:       table.StatusAvailable,
			IsActive:     true,
		}}},
		clock: clock.NewMockClock(time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC)),
	}
}

func (f *availabilityFixture) query() queries.AvailabilityQueries {
	return queries.NewAvailabilityQueries(
		f.settings, f.hours, f.tables, f.blocked, f.bookings, f.cache, f.clock, time.UTC,
	)
}

func (f *availabilityFixture) check(t *testing.T, partySize int) *queries.AvailabilityResult {
	t.Helper()
	result, err := f.query().Check(context.Background(), f.restaurantID, f.clock.Now(), partySize)
	require.NoError(t, err)
	return result
}

func slotTimes(result *queries.AvailabilityResult) []string {
	times := make([]string, 0, len(result.Slots))
	for _, s := range result.Slots {
		times = append(times, s.Time)
	}
	return times
}

func TestCheckAvailability_FullOpenDay(t *testing.T) {
	f := newAvailabilityFixture(t)
	result := f.check(t, 4)

	assert.Equal(t, queries.AvailabilityAvailable, result.Status)

	// 09:00 + 2h lead time lands exactly on opening; every half hour up to the
	// closing-exclusive 21:30 is offered.
	expected := make([]queries.Slot, 0, 22)
	for m := 11 * 60; m < 22*60; m += 30 {
		expected = append(expected, queries.Slot{
			Time:            timeutil.TimeOfDay(m).String(),
			AvailableTables: 1,
		})
	}
	if diff := cmp.Diff(expected, result.Slots); diff != "" {
		t.Errorf("slot list mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckAvailability_SlotsStrictlyIncreasing(t *testing.T) {
	f := newAvailabilityFixture(t)
	result := f.check(t, 2)

	for i := 1; i < len(result.Slots); i++ {
		assert.Less(t, result.Slots[i-1].Time, result.Slots[i].Time)
	}
}

func TestCheckAvailability_ExistingReservationOccupiesTable(t *testing.T) {
	f := newAvailabilityFixture(t)
	tableID := f.tables.tables[0].ID
	day := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	f.bookings = stubBookings{bookings: []queries.ActiveBooking{{
		TableID:  &tableID,
		StartAt:  day.Add(13 * time.Hour),
		Duration: 2 * time.Hour,
	}}}

	times := slotTimes(f.check(t, 4))

	// The table is held 13:00-15:00, so every slot interval inside that window
	// disappears with only one table in play.
	assert.NotContains(t, times, "13:00")
	assert.NotContains(t, times, "13:30")
	assert.NotContains(t, times, "14:00")
	assert.NotContains(t, times, "14:30")
	assert.Contains(t, times, "12:30")
	assert.Contains(t, times, "15:00")
}

func TestCheckAvailability_UnassignedReservationDoesNotBlock(t *testing.T) {
	f := newAvailabilityFixture(t)
	day := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	f.bookings = stubBookings{bookings: []queries.ActiveBooking{{
		TableID:  nil,
		StartAt:  day.Add(13 * time.Hour),
		Duration: 2 * time.Hour,
	}}}

	assert.Contains(t, slotTimes(f.check(t, 4)), "13:00")
}

func TestCheckAvailability_SecondTableKeepsSlotOpen(t *testing.T) {
	f := newAvailabilityFixture(t)
	first := f.tables.tables[0]
	second := first
	second.ID = uuid.New()
	second.Number = "T2"
	f.tables.tables = append(f.tables.tables, second)

	day := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	f.bookings = stubBookings{bookings: []queries.ActiveBooking{{
		TableID:  &first.ID,
		StartAt:  day.Add(13 * time.Hour),
		Duration: 2 * time.Hour,
	}}}

	result := f.check(t, 4)
	byTime := map[string]int{}
	for _, s := range result.Slots {
		byTime[s.Time] = s.AvailableTables
	}
	assert.Equal(t, 1, byTime["13:00"])
	assert.Equal(t, 2, byTime["12:30"])
}

func TestCheckAvailability_AllTablesBlockedWindow(t *testing.T) {
	f := newAvailabilityFixture(t)
	day := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	bt, err := reservation.NewBlockedTime(
		f.restaurantID,
		day.Add(15*time.Hour), day.Add(17*time.Hour),
		nil, reservation.ReasonPrivateEvent, "", nil, false, nil, f.clock.Now(),
	)
	require.NoError(t, err)
	f.blocked = stubBlocked{windows: []*reservation.BlockedTime{bt}}

	times := slotTimes(f.check(t, 4))

	for _, excluded := range []string{"15:00", "15:30", "16:00", "16:30"} {
		assert.NotContains(t, times, excluded)
	}
	assert.Contains(t, times, "14:30")
	assert.Contains(t, times, "17:00")
}

func TestCheckAvailability_TableScopedBlock(t *testing.T) {
	f := newAvailabilityFixture(t)
	first := f.tables.tables[0]
	second := first
	second.ID = uuid.New()
	f.tables.tables = append(f.tables.tables, second)

	day := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	bt, err := reservation.NewBlockedTime(
		f.restaurantID,
		day.Add(15*time.Hour), day.Add(17*time.Hour),
		[]uuid.UUID{first.ID}, reservation.ReasonMaintenance, "", nil, false, nil, f.clock.Now(),
	)
	require.NoError(t, err)
	f.blocked = stubBlocked{windows: []*reservation.BlockedTime{bt}}

	result := f.check(t, 4)
	byTime := map[string]int{}
	for _, s := range result.Slots {
		byTime[s.Time] = s.AvailableTables
	}
	assert.Equal(t, 1, byTime["15:00"])
	assert.Equal(t, 2, byTime["14:30"])
}

func TestCheckAvailability_MinAdvanceTrimsToday(t *testing.T) {
	f := newAvailabilityFixture(t)
	// 12:10 + 2h lead = 14:10, rounded up to the 14:30 boundary.
	f.clock.Add(3*time.Hour + 10*time.Minute)

	times := slotTimes(f.check(t, 4))
	require.NotEmpty(t, times)
	assert.Equal(t, "14:30", times[0])
}

func TestCheckAvailability_FutureDateIgnoresLeadTime(t *testing.T) {
	f := newAvailabilityFixture(t)
	f.clock.Set(time.Date(2026, 3, 16, 21, 45, 0, 0, time.UTC))

	result, err := f.query().Check(context.Background(), f.restaurantID, f.clock.Now().AddDate(0, 0, 1), 4)
	require.NoError(t, err)
	require.NotEmpty(t, result.Slots)
	assert.Equal(t, "11:00", result.Slots[0].Time)
}

func TestCheckAvailability_Rejections(t *testing.T) {
	t.Run("party size outside limits", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		_, err := f.query().Check(context.Background(), f.restaurantID, f.clock.Now(), 21)
		assert.ErrorIs(t, err, reservation.ErrPartySizeOutOfRange)
	})

	t.Run("reservations switched off", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		f.settings.settings.AcceptsReservations = false
		result := f.check(t, 2)
		assert.Equal(t, queries.AvailabilityNotAccepting, result.Status)
		assert.Empty(t, result.Slots)
	})

	t.Run("date in the past", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		_, err := f.query().Check(context.Background(), f.restaurantID, f.clock.Now().AddDate(0, 0, -1), 2)
		assert.ErrorIs(t, err, queries.ErrPastDate)
	})

	t.Run("date days in the past", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		_, err := f.query().Check(context.Background(), f.restaurantID, f.clock.Now().AddDate(0, 0, -5), 2)
		assert.ErrorIs(t, err, queries.ErrPastDate)
	})

	t.Run("date beyond booking window", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		result, err := f.query().Check(context.Background(), f.restaurantID, f.clock.Now().AddDate(0, 0, 31), 2)
		require.NoError(t, err)
		assert.Equal(t, queries.AvailabilityNotAccepting, result.Status)
	})

	t.Run("closed weekday", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		f.hours.hours.IsClosed = true
		result := f.check(t, 2)
		assert.Equal(t, queries.AvailabilityClosed, result.Status)
		assert.Empty(t, result.Slots)
	})

	t.Run("no table fits the party", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		result := f.check(t, 5)
		assert.Equal(t, queries.AvailabilityAvailable, result.Status)
		assert.Empty(t, result.Slots)
	})
}

func TestCheckAvailability_DefaultHoursFallback(t *testing.T) {
	f := newAvailabilityFixture(t)
	f.hours.found = false

	result := f.check(t, 4)
	require.NotEmpty(t, result.Slots)
	assert.Equal(t, "11:00", result.Slots[0].Time)
	assert.Equal(t, "21:30", result.Slots[len(result.Slots)-1].Time)
}

func TestCheckAvailability_Cache(t *testing.T) {
	t.Run("computed result is stored", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		cache := &recordingCache{}
		f.cache = cache

		result := f.check(t, 4)
		require.Len(t, cache.stored, 1)
		assert.Equal(t, *result, cache.stored[0])
	})

	t.Run("hit short-circuits computation", func(t *testing.T) {
		f := newAvailabilityFixture(t)
		hit := &queries.AvailabilityResult{
			RestaurantID: f.restaurantID,
			Date:         "2026-03-16",
			PartySize:    4,
			Status:       queries.AvailabilityAvailable,
			Slots:        []queries.Slot{{Time: "18:00", AvailableTables: 3}},
		}
		f.cache = &recordingCache{hit: hit}

		result := f.check(t, 4)
		assert.Equal(t, hit, result)
	})
}

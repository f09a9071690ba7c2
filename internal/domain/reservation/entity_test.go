package reservation_test

import (
	"testing"
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/pkg/timeutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLoc = time.UTC

func mustTimeOfDay(t *testing.T, s string) timeutil.TimeOfDay {
	t.Helper()
	tod, err := timeutil.ParseTimeOfDay(s)
	require.NoError(t, err)
	return tod
}

func validParams(t *testing.T, now time.Time) reservation.NewReservationParams {
	t.Helper()
	return reservation.NewReservationParams{
		RestaurantID: uuid.New(),
		GuestName:    "Dana Reyes",
		GuestEmail:   "dana@example.com",
		GuestPhone:   "+15550100123",
		Date:         now.AddDate(0, 0, 3),
		Time:         mustTimeOfDay(t, "19:00"),
		PartySize:    4,
		Duration:     2 * time.Hour,
		Status:       reservation.StatusConfirmed,
		Source:       reservation.SourceWebsite,
	}
}

func newTestReservation(t *testing.T, now time.Time, mutate func(*reservation.NewReservationParams)) *reservation.Reservation {
	t.Helper()
	p := validParams(t, now)
	if mutate != nil {
		mutate(&p)
	}
	res, err := reservation.NewReservation(p, testLoc, now)
	require.NoError(t, err)
	return res
}

func TestNewReservation(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, testLoc)

	t.Run("basic success case", func(t *testing.T) {
		res := newTestReservation(t, now, nil)

		assert.NotEqual(t, uuid.Nil, res.ID())
		assert.Len(t, res.ConfirmationCode(), 8)
		assert.Equal(t, reservation.StatusConfirmed, res.Status())
		assert.Equal(t, time.Date(2026, 3, 13, 19, 0, 0, 0, testLoc), res.StartAt())
		assert.Equal(t, time.Date(2026, 3, 13, 21, 0, 0, 0, testLoc), res.EndAt())
		assert.True(t, res.IsUpcoming(now))
	})

	t.Run("validation failures", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*reservation.NewReservationParams)
			errIs  error
		}{
			{
				name:   "missing guest name",
				mutate: func(p *reservation.NewReservationParams) { p.GuestName = "  " },
				errIs:  reservation.ErrGuestInfoRequired,
			},
			{
				name:   "missing guest phone",
				mutate: func(p *reservation.NewReservationParams) { p.GuestPhone = "" },
				errIs:  reservation.ErrGuestInfoRequired,
			},
			{
				name:   "zero party size",
				mutate: func(p *reservation.NewReservationParams) { p.PartySize = 0 },
				errIs:  reservation.ErrInvalidPartySize,
			},
			{
				name:   "zero duration",
				mutate: func(p *reservation.NewReservationParams) { p.Duration = 0 },
				errIs:  reservation.ErrInvalidDuration,
			},
			{
				name:   "unknown status",
				mutate: func(p *reservation.NewReservationParams) { p.Status = "archived" },
				errIs:  reservation.ErrInvalidStatus,
			},
			{
				name:   "unknown source",
				mutate: func(p *reservation.NewReservationParams) { p.Source = "carrier_pigeon" },
				errIs:  reservation.ErrInvalidSource,
			},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				p := validParams(t, now)
				tc.mutate(&p)
				_, err := reservation.NewReservation(p, testLoc, now)
				assert.ErrorIs(t, err, tc.errIs)
			})
		}
	})

	t.Run("codes differ between reservations", func(t *testing.T) {
		a := newTestReservation(t, now, nil)
		b := newTestReservation(t, now, nil)
		assert.NotEqual(t, a.ConfirmationCode(), b.ConfirmationCode())
	})
}

func TestValidateWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, testLoc)
	settings := reservation.DefaultSettings(uuid.New())

	t.Run("inside window", func(t *testing.T) {
		res := newTestReservation(t, now, nil)
		assert.NoError(t, res.ValidateWindow(settings, now, testLoc))
	})

	t.Run("in the past", func(t *testing.T) {
		res := newTestReservation(t, now, func(p *reservation.NewReservationParams) {
			p.Date = now.AddDate(0, 0, -1)
		})
		assert.ErrorIs(t, res.ValidateWindow(settings, now, testLoc), reservation.ErrPastReservation)
	})

	t.Run("insufficient lead time", func(t *testing.T) {
		// Settings require 2h advance; 10:00 same day is only 1h out.
		res := newTestReservation(t, now, func(p *reservation.NewReservationParams) {
			p.Date = now
			p.Time = mustTimeOfDay(t, "10:00")
		})
		assert.ErrorIs(t, res.ValidateWindow(settings, now, testLoc), reservation.ErrOutsideBookingWindow)
	})

	t.Run("beyond advance booking days", func(t *testing.T) {
		res := newTestReservation(t, now, func(p *reservation.NewReservationParams) {
			p.Date = now.AddDate(0, 0, settings.AdvanceBookingDays+1)
		})
		assert.ErrorIs(t, res.ValidateWindow(settings, now, testLoc), reservation.ErrOutsideBookingWindow)
	})

	t.Run("exactly at max advance day", func(t *testing.T) {
		res := newTestReservation(t, now, func(p *reservation.NewReservationParams) {
			p.Date = now.AddDate(0, 0, settings.AdvanceBookingDays)
		})
		assert.NoError(t, res.ValidateWindow(settings, now, testLoc))
	})
}

func TestTransitions(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, testLoc)
	settings := reservation.DefaultSettings(uuid.New())
	actor := uuid.New()

	newWithStatus := func(t *testing.T, status reservation.Status) *reservation.Reservation {
		return newTestReservation(t, now, func(p *reservation.NewReservationParams) {
			p.Status = status
		})
	}

	t.Run("pending to confirmed sets metadata", func(t *testing.T) {
		res := newWithStatus(t, reservation.StatusPending)
		require.NoError(t, res.Confirm(&actor, now))

		assert.Equal(t, reservation.StatusConfirmed, res.Status())
		require.NotNil(t, res.ConfirmedAt())
		assert.Equal(t, now, *res.ConfirmedAt())
		require.NotNil(t, res.ConfirmedBy())
		assert.Equal(t, actor, *res.ConfirmedBy())
	})

	t.Run("waitlist to confirmed", func(t *testing.T) {
		res := newWithStatus(t, reservation.StatusWaitlist)
		assert.NoError(t, res.Confirm(&actor, now))
	})

	t.Run("seated then completed", func(t *testing.T) {
		res := newWithStatus(t, reservation.StatusConfirmed)
		require.NoError(t, res.MarkSeated(now))
		require.NotNil(t, res.SeatedAt())

		require.NoError(t, res.MarkCompleted(now.Add(2*time.Hour)))
		assert.Equal(t, reservation.StatusCompleted, res.Status())
		require.NotNil(t, res.CompletedAt())
	})

	t.Run("cannot complete without seating", func(t *testing.T) {
		res := newWithStatus(t, reservation.StatusConfirmed)
		assert.ErrorIs(t, res.MarkCompleted(now), reservation.ErrInvalidTransition)
	})

	t.Run("cannot seat a waitlisted reservation", func(t *testing.T) {
		res := newWithStatus(t, reservation.StatusWaitlist)
		assert.ErrorIs(t, res.MarkSeated(now), reservation.ErrInvalidTransition)
	})

	t.Run("terminal states reject every transition", func(t *testing.T) {
		for _, status := range []reservation.Status{
			reservation.StatusCompleted,
			reservation.StatusCancelled,
			reservation.StatusNoShow,
		} {
			res := newWithStatus(t, status)

			assert.ErrorIs(t, res.Confirm(&actor, now), reservation.ErrInvalidTransition, "confirm from %s", status)
			assert.ErrorIs(t, res.Cancel(&actor, "", true, settings, now), reservation.ErrInvalidTransition, "cancel from %s", status)
			assert.ErrorIs(t, res.MarkSeated(now), reservation.ErrInvalidTransition, "seat from %s", status)
			assert.ErrorIs(t, res.MarkCompleted(now), reservation.ErrInvalidTransition, "complete from %s", status)
			assert.ErrorIs(t, res.MarkNoShow(now), reservation.ErrInvalidTransition, "no-show from %s", status)
		}
	})

	t.Run("seated cannot be cancelled", func(t *testing.T) {
		res := newWithStatus(t, reservation.StatusConfirmed)
		require.NoError(t, res.MarkSeated(now))
		assert.ErrorIs(t, res.Cancel(&actor, "", true, settings, now), reservation.ErrInvalidTransition)
	})
}

func TestCancellation(t *testing.T) {
	// Reservation at 19:00 three days out; default deadline is 24h before.
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, testLoc)
	settings := reservation.DefaultSettings(uuid.New())
	actor := uuid.New()

	t.Run("customer cancel before deadline", func(t *testing.T) {
		res := newTestReservation(t, now, nil)
		require.NoError(t, res.Cancel(&actor, "change of plans", false, settings, now))

		assert.Equal(t, reservation.StatusCancelled, res.Status())
		assert.Equal(t, "change of plans", res.CancellationReason())
		require.NotNil(t, res.CancelledAt())
		require.NotNil(t, res.CancelledBy())
	})

	t.Run("customer cancel after deadline fails", func(t *testing.T) {
		res := newTestReservation(t, now, nil)
		lateNow := res.StartAt().Add(-23 * time.Hour)
		assert.ErrorIs(t, res.Cancel(&actor, "", false, settings, lateNow), reservation.ErrCancelDeadlinePassed)
	})

	t.Run("staff cancel after deadline succeeds", func(t *testing.T) {
		res := newTestReservation(t, now, nil)
		lateNow := res.StartAt().Add(-23 * time.Hour)
		assert.NoError(t, res.Cancel(&actor, "guest called in", true, settings, lateNow))
	})

	t.Run("cannot cancel once started", func(t *testing.T) {
		res := newTestReservation(t, now, nil)
		started := res.StartAt().Add(time.Minute)
		assert.ErrorIs(t, res.Cancel(&actor, "", true, settings, started), reservation.ErrNotUpcoming)
	})

	t.Run("can_cancel predicate mirrors deadline", func(t *testing.T) {
		res := newTestReservation(t, now, nil)
		assert.True(t, res.CanCancel(settings, now))
		assert.False(t, res.CanCancel(settings, res.StartAt().Add(-23*time.Hour)))
	})
}

func TestAssignTable(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, testLoc)

	t.Run("same restaurant", func(t *testing.T) {
		res := newTestReservation(t, now, nil)
		tableID := uuid.New()
		require.NoError(t, res.AssignTable(tableID, res.RestaurantID(), now))
		require.NotNil(t, res.TableID())
		assert.Equal(t, tableID, *res.TableID())
	})

	t.Run("wrong restaurant rejected", func(t *testing.T) {
		res := newTestReservation(t, now, nil)
		err := res.AssignTable(uuid.New(), uuid.New(), now)
		assert.ErrorIs(t, err, reservation.ErrTableWrongRestaurant)
		assert.Nil(t, res.TableID())
	})

	t.Run("reassignment overwrites", func(t *testing.T) {
		res := newTestReservation(t, now, nil)
		first := uuid.New()
		second := uuid.New()
		require.NoError(t, res.AssignTable(first, res.RestaurantID(), now))
		require.NoError(t, res.AssignTable(second, res.RestaurantID(), now))
		assert.Equal(t, second, *res.TableID())
	})
}

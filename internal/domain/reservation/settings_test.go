package reservation_test

import (
	"testing"
	"time"

	"tablebook/internal/domain/reservation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	rid := uuid.New()
	s := reservation.DefaultSettings(rid)

	assert.Equal(t, rid, s.RestaurantID)
	assert.True(t, s.AcceptsReservations)
	assert.Equal(t, 1, s.MinPartySize)
	assert.Equal(t, 20, s.MaxPartySize)
	assert.Equal(t, 2*time.Hour, s.ReservationDuration)
	assert.Equal(t, 30, s.AdvanceBookingDays)
	assert.Equal(t, 2, s.MinAdvanceHours)
	assert.Equal(t, 30, s.SlotIntervalMinutes)
	assert.Equal(t, 24, s.CancellationDeadlineHours)
	assert.False(t, s.RequireConfirmation)
	assert.Equal(t, 4, s.AutoConfirmThreshold)
	assert.NoError(t, s.Validate())
}

func TestSettingsValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*reservation.Settings)
		ok     bool
	}{
		{"defaults are valid", func(_ *reservation.Settings) {}, true},
		{"min greater than max", func(s *reservation.Settings) { s.MinPartySize = 10; s.MaxPartySize = 4 }, false},
		{"zero min party size", func(s *reservation.Settings) { s.MinPartySize = 0 }, false},
		{"zero slot interval", func(s *reservation.Settings) { s.SlotIntervalMinutes = 0 }, false},
		{"negative advance days", func(s *reservation.Settings) { s.AdvanceBookingDays = -1 }, false},
		{"zero duration", func(s *reservation.Settings) { s.ReservationDuration = 0 }, false},
		{"zero cancellation deadline is allowed", func(s *reservation.Settings) { s.CancellationDeadlineHours = 0 }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := reservation.DefaultSettings(uuid.New())
			tc.mutate(&s)
			err := s.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, reservation.ErrInvalidSettings)
			}
		})
	}
}

func TestInitialStatus(t *testing.T) {
	s := reservation.DefaultSettings(uuid.New())

	t.Run("no confirmation required", func(t *testing.T) {
		assert.Equal(t, reservation.StatusConfirmed, s.InitialStatus(10))
	})

	t.Run("confirmation required above threshold", func(t *testing.T) {
		s.RequireConfirmation = true
		assert.Equal(t, reservation.StatusConfirmed, s.InitialStatus(4))
		assert.Equal(t, reservation.StatusPending, s.InitialStatus(5))
	})
}

func TestAllowsPartySize(t *testing.T) {
	s := reservation.DefaultSettings(uuid.New())
	s.MinPartySize = 2
	s.MaxPartySize = 8

	assert.False(t, s.AllowsPartySize(1))
	assert.True(t, s.AllowsPartySize(2))
	assert.True(t, s.AllowsPartySize(8))
	assert.False(t, s.AllowsPartySize(9))
}

package reservation

import (
	"time"

	"github.com/google/uuid"
)

// Settings is the per-restaurant booking policy. Restaurants without an
// explicit row fall back to DefaultSettings, so every policy read goes through
// a value of this type.
type Settings struct {
	RestaurantID              uuid.UUID
	AcceptsReservations       bool
	MinPartySize              int
	MaxPartySize              int
	ReservationDuration       time.Duration
	AdvanceBookingDays        int
	MinAdvanceHours           int
	BufferMinutes             int
	SlotIntervalMinutes       int
	CancellationDeadlineHours int
	RequireConfirmation       bool
	AutoConfirmThreshold      int
	SendReminder              bool
	ReminderHoursBefore       int
	MaxDailyReservations      int
	MaxHourlyReservations     int
	UpdatedAt                 time.Time
}

func DefaultSettings(restaurantID uuid.UUID) Settings {
	return Settings{
		RestaurantID:              restaurantID,
		AcceptsReservations:       true,
		MinPartySize:              1,
		MaxPartySize:              20,
		ReservationDuration:       2 * time.Hour,
		AdvanceBookingDays:        30,
		MinAdvanceHours:           2,
		BufferMinutes:             15,
		SlotIntervalMinutes:       30,
		CancellationDeadlineHours: 24,
		RequireConfirmation:       false,
		AutoConfirmThreshold:      4,
		SendReminder:              true,
		ReminderHoursBefore:       24,
		MaxDailyReservations:      0,
		MaxHourlyReservations:     0,
	}
}

func (s Settings) Validate() error {
	if s.MinPartySize < 1 || s.MaxPartySize < 1 {
		return ErrInvalidSettings
	}
	if s.MinPartySize > s.MaxPartySize {
		return ErrInvalidSettings
	}
	if s.ReservationDuration <= 0 {
		return ErrInvalidSettings
	}
	if s.AdvanceBookingDays < 0 || s.MinAdvanceHours < 0 || s.BufferMinutes < 0 ||
		s.CancellationDeadlineHours < 0 || s.AutoConfirmThreshold < 0 ||
		s.ReminderHoursBefore < 0 || s.MaxDailyReservations < 0 || s.MaxHourlyReservations < 0 {
		return ErrInvalidSettings
	}
	if s.SlotIntervalMinutes <= 0 {
		return ErrInvalidSettings
	}
	return nil
}

func (s Settings) MinAdvance() time.Duration {
	return time.Duration(s.MinAdvanceHours) * time.Hour
}

func (s Settings) CancellationDeadline() time.Duration {
	return time.Duration(s.CancellationDeadlineHours) * time.Hour
}

func (s Settings) AllowsPartySize(size int) bool {
	return size >= s.MinPartySize && size <= s.MaxPartySize
}

// InitialStatus decides whether a newly requested reservation needs manual
// confirmation. Parties at or below the auto-confirm threshold skip it.
func (s Settings) InitialStatus(partySize int) Status {
	if !s.RequireConfirmation {
		return StatusConfirmed
	}
	if partySize <= s.AutoConfirmThreshold {
		return StatusConfirmed
	}
	return StatusPending
}

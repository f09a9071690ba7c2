package response

import (
	"time"

	"tablebook/internal/domain/reservation"

	"github.com/google/uuid"
)

type SettingsResponse struct {
	RestaurantID               uuid.UUID `json:"restaurant_id"`
	AcceptsReservations        bool      `json:"accepts_reservations"`
	MinPartySize               int       `json:"min_party_size"`
	MaxPartySize               int       `json:"max_party_size"`
	ReservationDurationMinutes int       `json:"reservation_duration_minutes"`
	AdvanceBookingDays         int       `json:"advance_booking_days"`
	MinAdvanceHours            int       `json:"min_advance_hours"`
	BufferMinutes              int       `json:"buffer_minutes"`
	SlotIntervalMinutes        int       `json:"slot_interval_minutes"`
	CancellationDeadlineHours  int       `json:"cancellation_deadline_hours"`
	RequireConfirmation        bool      `json:"require_confirmation"`
	AutoConfirmThreshold       int       `json:"auto_confirm_threshold"`
	SendReminder               bool      `json:"send_reminder"`
	ReminderHoursBefore        int       `json:"reminder_hours_before"`
	MaxDailyReservations       int       `json:"max_daily_reservations"`
	MaxHourlyReservations      int       `json:"max_hourly_reservations"`
	UpdatedAt                  time.Time `json:"updated_at"`
}

// PublicSettingsResponse is the guest-visible subset of the booking policy.
// Volume caps and staff workflow flags stay internal.
type PublicSettingsResponse struct {
	AcceptsReservations       bool `json:"accepts_reservations"`
	MinPartySize              int  `json:"min_party_size"`
	MaxPartySize              int  `json:"max_party_size"`
	AdvanceBookingDays        int  `json:"advance_booking_days"`
	MinAdvanceHours           int  `json:"min_advance_hours"`
	SlotIntervalMinutes       int  `json:"slot_interval_minutes"`
	CancellationDeadlineHours int  `json:"cancellation_deadline_hours"`
}

func FromPublicSettings(s reservation.Settings) *PublicSettingsResponse {
	return &PublicSettingsResponse{
		AcceptsReservations:       s.AcceptsReservations,
		MinPartySize:              s.MinPartySize,
		MaxPartySize:              s.MaxPartySize,
		AdvanceBookingDays:        s.AdvanceBookingDays,
		MinAdvanceHours:           s.MinAdvanceHours,
		SlotIntervalMinutes:       s.SlotIntervalMinutes,
		CancellationDeadlineHours: s.CancellationDeadlineHours,
	}
}

func FromSettings(s reservation.Settings) *SettingsResponse {
	return &SettingsResponse{
		RestaurantID:               s.RestaurantID,
		AcceptsReservations:        s.AcceptsReservations,
		MinPartySize:               s.MinPartySize,
		MaxPartySize:               s.MaxPartySize,
		ReservationDurationMinutes: int(s.ReservationDuration / time.Minute),
		AdvanceBookingDays:         s.AdvanceBookingDays,
		MinAdvanceHours:            s.MinAdvanceHours,
		BufferMinutes:              s.BufferMinutes,
		SlotIntervalMinutes:        s.SlotIntervalMinutes,
		CancellationDeadlineHours:  s.CancellationDeadlineHours,
		RequireConfirmation:        s.RequireConfirmation,
		AutoConfirmThreshold:       s.AutoConfirmThreshold,
		SendReminder:               s.SendReminder,
		ReminderHoursBefore:        s.ReminderHoursBefore,
		MaxDailyReservations:       s.MaxDailyReservations,
		MaxHourlyReservations:      s.MaxHourlyReservations,
		UpdatedAt:                  s.UpdatedAt,
	}
}

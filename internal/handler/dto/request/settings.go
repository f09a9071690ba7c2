package request

import (
	"time"

	"tablebook/internal/domain/reservation"

	"github.com/google/uuid"
)

// UpdateSettingsRequest replaces the whole booking policy; partial updates are
// not supported, the dashboard always submits the full form.
type UpdateSettingsRequest struct {
	AcceptsReservations        bool `json:"accepts_reservations"`
	MinPartySize               int  `json:"min_party_size" binding:"required,min=1"`
	MaxPartySize               int  `json:"max_party_size" binding:"required,min=1"`
	ReservationDurationMinutes int  `json:"reservation_duration_minutes" binding:"required,min=1"`
	AdvanceBookingDays         int  `json:"advance_booking_days" binding:"min=0"`
	MinAdvanceHours            int  `json:"min_advance_hours" binding:"min=0"`
	BufferMinutes              int  `json:"buffer_minutes" binding:"min=0"`
	SlotIntervalMinutes        int  `json:"slot_interval_minutes" binding:"required,min=1"`
	CancellationDeadlineHours  int  `json:"cancellation_deadline_hours" binding:"min=0"`
	RequireConfirmation        bool `json:"require_confirmation"`
	AutoConfirmThreshold       int  `json:"auto_confirm_threshold" binding:"min=0"`
	SendReminder               bool `json:"send_reminder"`
	ReminderHoursBefore        int  `json:"reminder_hours_before" binding:"min=0"`
	MaxDailyReservations       int  `json:"max_daily_reservations" binding:"min=0"`
	MaxHourlyReservations      int  `json:"max_hourly_reservations" binding:"min=0"`
}

func (r UpdateSettingsRequest) ToDomain(restaurantID uuid.UUID) reservation.Settings {
	return reservation.Settings{
		RestaurantID:              restaurantID,
		AcceptsReservations:       r.AcceptsReservations,
		MinPartySize:              r.MinPartySize,
		MaxPartySize:              r.MaxPartySize,
		ReservationDuration:       time.Duration(r.ReservationDurationMinutes) * time.Minute,
		AdvanceBookingDays:        r.AdvanceBookingDays,
		MinAdvanceHours:           r.MinAdvanceHours,
		BufferMinutes:             r.BufferMinutes,
		SlotIntervalMinutes:       r.SlotIntervalMinutes,
		CancellationDeadlineHours: r.CancellationDeadlineHours,
		RequireConfirmation:       r.RequireConfirmation,
		AutoConfirmThreshold:      r.AutoConfirmThreshold,
		SendReminder:              r.SendReminder,
		ReminderHoursBefore:       r.ReminderHoursBefore,
		MaxDailyReservations:      r.MaxDailyReservations,
		MaxHourlyReservations:     r.MaxHourlyReservations,
	}
}

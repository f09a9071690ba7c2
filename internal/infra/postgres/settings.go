package postgres

import (
	"context"
	"errors"
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SettingsRepository struct {
	db DBTX
}

func NewSettingsRepository(db DBTX) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetOrDefault returns the stored policy, or the package defaults when the
// restaurant has never saved one. Missing rows are not an error.
func (r *SettingsRepository) GetOrDefault(ctx context.Context, restaurantID uuid.UUID) (reservation.Settings, error) {
	var s reservation.Settings
	var durationMin int

	err := r.db.QueryRow(ctx, `
		SELECT restaurant_id, accepts_reservations, min_party_size, max_party_size,
		       reservation_duration_min, advance_booking_days, min_advance_hours,
		       buffer_minutes, slot_interval_minutes, cancellation_deadline_hours,
		       require_confirmation, auto_confirm_threshold, send_reminder,
		       reminder_hours_before, max_daily_reservations, max_hourly_reservations,
		       updated_at
		FROM reservation_settings
		WHERE restaurant_id = $1`,
		restaurantID,
	).Scan(
		&s.RestaurantID, &s.AcceptsReservations, &s.MinPartySize, &s.MaxPartySize,
		&durationMin, &s.AdvanceBookingDays, &s.MinAdvanceHours,
		&s.BufferMinutes, &s.SlotIntervalMinutes, &s.CancellationDeadlineHours,
		&s.RequireConfirmation, &s.AutoConfirmThreshold, &s.SendReminder,
		&s.ReminderHoursBefore, &s.MaxDailyReservations, &s.MaxHourlyReservations,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return reservation.DefaultSettings(restaurantID), nil
		}
		return reservation.Settings{}, infra.WrapRepoErr("failed to load reservation settings", err)
	}
	s.ReservationDuration = time.Duration(durationMin) * time.Minute
	return s, nil
}

func (r *SettingsRepository) Upsert(ctx context.Context, s reservation.Settings) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO reservation_settings (
			restaurant_id, accepts_reservations, min_party_size, max_party_size,
			reservation_duration_min, advance_booking_days, min_advance_hours,
			buffer_minutes, slot_interval_minutes, cancellation_deadline_hours,
			require_confirmation, auto_confirm_threshold, send_reminder,
			reminder_hours_before, max_daily_reservations, max_hourly_reservations,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (restaurant_id) DO UPDATE SET
			accepts_reservations = EXCLUDED.accepts_reservations,
			min_party_size = EXCLUDED.min_party_size,
			max_party_size = EXCLUDED.max_party_size,
			reservation_duration_min = EXCLUDED.reservation_duration_min,
			advance_booking_days = EXCLUDED.advance_booking_days,
			min_advance_hours = EXCLUDED.min_advance_hours,
			buffer_minutes = EXCLUDED.buffer_minutes,
			slot_interval_minutes = EXCLUDED.slot_interval_minutes,
			cancellation_deadline_hours = EXCLUDED.cancellation_deadline_hours,
			require_confirmation = EXCLUDED.require_confirmation,
			auto_confirm_threshold = EXCLUDED.auto_confirm_threshold,
			send_reminder = EXCLUDED.send_reminder,
			reminder_hours_before = EXCLUDED.reminder_hours_before,
			max_daily_reservations = EXCLUDED.max_daily_reservations,
			max_hourly_reservations = EXCLUDED.max_hourly_reservations,
			updated_at = EXCLUDED.updated_at`,
		s.RestaurantID, s.AcceptsReservations, s.MinPartySize, s.MaxPartySize,
		int(s.ReservationDuration.Minutes()), s.AdvanceBookingDays, s.MinAdvanceHours,
		s.BufferMinutes, s.SlotIntervalMinutes, s.CancellationDeadlineHours,
		s.RequireConfirmation, s.AutoConfirmThreshold, s.SendReminder,
		s.ReminderHoursBefore, s.MaxDailyReservations, s.MaxHourlyReservations,
		s.UpdatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to upsert reservation settings", err)
	}
	return nil
}

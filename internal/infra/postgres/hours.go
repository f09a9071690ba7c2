package postgres

import (
	"context"
	"errors"

	"tablebook/internal/domain/schedule"
	"tablebook/internal/infra"
	"tablebook/internal/pkg/timeutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type HoursRepository struct {
	db DBTX
}

func NewHoursRepository(db DBTX) *HoursRepository {
	return &HoursRepository{db: db}
}

func (r *HoursRepository) FindForWeekday(ctx context.Context, restaurantID uuid.UUID, weekday int) (schedule.DayHours, bool, error) {
	var h schedule.DayHours
	var openMinutes, closeMinutes int

	err := r.db.QueryRow(ctx, `
		SELECT restaurant_id, day_of_week, open_minutes, close_minutes, is_closed
		FROM operating_hours
		WHERE restaurant_id = $1 AND day_of_week = $2`,
		restaurantID, weekday,
	).Scan(&h.RestaurantID, &h.DayOfWeek, &openMinutes, &closeMinutes, &h.IsClosed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.DayHours{}, false, nil
		}
		return schedule.DayHours{}, false, infra.WrapRepoErr("failed to load operating hours", err)
	}
	h.OpenTime = timeutil.TimeOfDay(openMinutes)
	h.CloseTime = timeutil.TimeOfDay(closeMinutes)
	return h, true, nil
}

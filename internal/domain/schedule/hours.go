// Package schedule models per-day operating hours, an external collaborator
// the availability calculator consumes.
package schedule

import (
	"tablebook/internal/pkg/timeutil"

	"github.com/google/uuid"
)

// DayHours is the opening window for one weekday. DayOfWeek uses Monday=0.
type DayHours struct {
	RestaurantID uuid.UUID
	DayOfWeek    int
	OpenTime     timeutil.TimeOfDay
	CloseTime    timeutil.TimeOfDay
	IsClosed     bool
}

// DefaultDayHours is the fallback used when a restaurant has no hours row for
// a weekday: open 11:00-22:00.
func DefaultDayHours(restaurantID uuid.UUID, dayOfWeek int) DayHours {
	open, _ := timeutil.NewTimeOfDay(11, 0)
	closeAt, _ := timeutil.NewTimeOfDay(22, 0)
	return DayHours{
		RestaurantID: restaurantID,
		DayOfWeek:    dayOfWeek,
		OpenTime:     open,
		CloseTime:    closeAt,
		IsClosed:     false,
	}
}

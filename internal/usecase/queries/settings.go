package queries

import (
	"context"

	"tablebook/internal/domain/reservation"

	"github.com/google/uuid"
)

type SettingsQueries interface {
	Get(ctx context.Context, restaurantID uuid.UUID) (reservation.Settings, error)
}

type settingsQueriesImpl struct {
	settings SettingsReader
}

func NewSettingsQueries(settings SettingsReader) SettingsQueries {
	return &settingsQueriesImpl{settings: settings}
}

func (q *settingsQueriesImpl) Get(ctx context.Context, restaurantID uuid.UUID) (reservation.Settings, error) {
	return q.settings.GetOrDefault(ctx, restaurantID)
}

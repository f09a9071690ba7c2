package commands

import (
	"context"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/pkg/clock"
	"tablebook/internal/pkg/errs"

	"github.com/google/uuid"
)

type SettingsCommands interface {
	Update(ctx context.Context, settings reservation.Settings) (reservation.Settings, error)
}

type settingsCommandsImpl struct {
	uow         UnitOfWork
	invalidator AvailabilityInvalidator
	clock       clock.Clock
}

func NewSettingsCommands(uow UnitOfWork, invalidator AvailabilityInvalidator, clk clock.Clock) SettingsCommands {
	return &settingsCommandsImpl{uow: uow, invalidator: invalidator, clock: clk}
}

// Update replaces the restaurant's booking policy. The write is a full upsert:
// restaurants start on defaults and get a row the first time staff save.
func (c *settingsCommandsImpl) Update(ctx context.Context, settings reservation.Settings) (reservation.Settings, error) {
	if err := settings.Validate(); err != nil {
		return reservation.Settings{}, err
	}
	settings.UpdatedAt = c.clock.Now()

	err := c.uow.Within(ctx, func(ctx context.Context, tx Tx) error {
		if txErr := tx.Settings().Upsert(ctx, settings); txErr != nil {
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return reservation.Settings{}, err
	}

	c.invalidateCache(ctx, settings.RestaurantID)
	return settings, nil
}

func (c *settingsCommandsImpl) invalidateCache(ctx context.Context, restaurantID uuid.UUID) {
	if c.invalidator == nil {
		return
	}
	_ = c.invalidator.InvalidateRestaurant(ctx, restaurantID)
}

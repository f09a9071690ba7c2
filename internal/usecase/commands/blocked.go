package commands

import (
	"context"
	"encoding/json"
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/infra"
	"tablebook/internal/pkg/clock"
	"tablebook/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrBlockedTimeNotFound = errs.New("blocked time not found")

type BlockedTimeParams struct {
	RestaurantID      uuid.UUID
	StartAt           time.Time
	EndAt             time.Time
	TableIDs          []uuid.UUID
	Reason            reservation.BlockedReason
	Description       string
	IsRecurring       bool
	RecurrencePattern json.RawMessage
	ActorID           uuid.UUID
}

type BlockedTimeCommands interface {
	Create(ctx context.Context, p BlockedTimeParams) (*reservation.BlockedTime, error)
	Update(ctx context.Context, restaurantID, id uuid.UUID, p BlockedTimeParams) (*reservation.BlockedTime, error)
	Delete(ctx context.Context, restaurantID, id uuid.UUID) error
}

type blockedTimeCommandsImpl struct {
	uow         UnitOfWork
	invalidator AvailabilityInvalidator
	clock       clock.Clock
}

func NewBlockedTimeCommands(uow UnitOfWork, invalidator AvailabilityInvalidator, clk clock.Clock) BlockedTimeCommands {
	return &blockedTimeCommandsImpl{uow: uow, invalidator: invalidator, clock: clk}
}

func (c *blockedTimeCommandsImpl) Create(ctx context.Context, p BlockedTimeParams) (*reservation.BlockedTime, error) {
	actor := p.ActorID
	bt, err := reservation.NewBlockedTime(
		p.RestaurantID, p.StartAt, p.EndAt, p.TableIDs,
		p.Reason, p.Description, &actor, p.IsRecurring, p.RecurrencePattern,
		c.clock.Now(),
	)
	if err != nil {
		return nil, err
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx Tx) error {
		if txErr := tx.BlockedTimes().Create(ctx, bt); txErr != nil {
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.invalidateCache(ctx, p.RestaurantID)
	return bt, nil
}

func (c *blockedTimeCommandsImpl) Update(ctx context.Context, restaurantID, id uuid.UUID, p BlockedTimeParams) (*reservation.BlockedTime, error) {
	var updated *reservation.BlockedTime
	err := c.uow.Within(ctx, func(ctx context.Context, tx Tx) error {
		existing, txErr := tx.BlockedTimes().FindByID(ctx, restaurantID, id)
		if txErr != nil {
			if infra.IsKind(txErr, infra.KindNotFound) {
				return ErrBlockedTimeNotFound
			}
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}

		actor := p.ActorID
		replacement, txErr := reservation.NewBlockedTime(
			restaurantID, p.StartAt, p.EndAt, p.TableIDs,
			p.Reason, p.Description, &actor, p.IsRecurring, p.RecurrencePattern,
			existing.CreatedAt,
		)
		if txErr != nil {
			return txErr
		}
		replacement.ID = existing.ID
		replacement.CreatedBy = existing.CreatedBy

		if txErr := tx.BlockedTimes().Update(ctx, replacement); txErr != nil {
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}
		updated = replacement
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.invalidateCache(ctx, restaurantID)
	return updated, nil
}

func (c *blockedTimeCommandsImpl) Delete(ctx context.Context, restaurantID, id uuid.UUID) error {
	err := c.uow.Within(ctx, func(ctx context.Context, tx Tx) error {
		if txErr := tx.BlockedTimes().Delete(ctx, restaurantID, id); txErr != nil {
			if infra.IsKind(txErr, infra.KindNotFound) {
				return ErrBlockedTimeNotFound
			}
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.invalidateCache(ctx, restaurantID)
	return nil
}

func (c *blockedTimeCommandsImpl) invalidateCache(ctx context.Context, restaurantID uuid.UUID) {
	if c.invalidator == nil {
		return
	}
	_ = c.invalidator.InvalidateRestaurant(ctx, restaurantID)
}

package commands

import (
	"context"
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/domain/schedule"
	"tablebook/internal/domain/table"

	"github.com/google/uuid"
)

// BookingSnapshot is the write-side view of an active reservation's table
// hold. Keeping it here avoids a dependency on read-side query types.
type BookingSnapshot struct {
	ReservationID uuid.UUID
	TableID       *uuid.UUID
	StartAt       time.Time
	Duration      time.Duration
}

type ReservationRepository interface {
	Create(ctx context.Context, res *reservation.Reservation) error
	FindByIDForUpdate(ctx context.Context, restaurantID, id uuid.UUID) (*reservation.Reservation, error)
	FindByCodeForUpdate(ctx context.Context, restaurantID uuid.UUID, code string) (*reservation.Reservation, error)
	Save(ctx context.Context, res *reservation.Reservation) error
	ListActiveBetween(ctx context.Context, restaurantID uuid.UUID, from, to time.Time) ([]BookingSnapshot, error)
	CountActiveBetween(ctx context.Context, restaurantID uuid.UUID, from, to time.Time) (int, error)
}

type HistoryRepository interface {
	Append(ctx context.Context, entry *reservation.HistoryEntry) error
}

type SettingsRepository interface {
	GetOrDefault(ctx context.Context, restaurantID uuid.UUID) (reservation.Settings, error)
	Upsert(ctx context.Context, settings reservation.Settings) error
}

type BlockedTimeRepository interface {
	Create(ctx context.Context, bt *reservation.BlockedTime) error
	FindByID(ctx context.Context, restaurantID, id uuid.UUID) (*reservation.BlockedTime, error)
	Update(ctx context.Context, bt *reservation.BlockedTime) error
	Delete(ctx context.Context, restaurantID, id uuid.UUID) error
	ListInWindow(ctx context.Context, restaurantID uuid.UUID, from, to time.Time) ([]*reservation.BlockedTime, error)
}

type TableRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (table.Table, error)
	ListActive(ctx context.Context, restaurantID uuid.UUID) ([]table.Table, error)
}

type HoursRepository interface {
	FindForWeekday(ctx context.Context, restaurantID uuid.UUID, weekday int) (schedule.DayHours, bool, error)
}

// Tx exposes the repositories bound to one database transaction.
type Tx interface {
	Reservations() ReservationRepository
	History() HistoryRepository
	Settings() SettingsRepository
	BlockedTimes() BlockedTimeRepository
	Tables() TableRepository
	Hours() HoursRepository
}

// UnitOfWork runs a function inside a transaction. WithinSerializable is used
// where a check-then-insert race would otherwise double-book a table; the
// implementation retries serialization failures.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	WithinSerializable(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// AvailabilityInvalidator drops cached availability for a restaurant after a
// write that changes its slot picture. Invalidation is best effort.
type AvailabilityInvalidator interface {
	InvalidateRestaurant(ctx context.Context, restaurantID uuid.UUID) error
}

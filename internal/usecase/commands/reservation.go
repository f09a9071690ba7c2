package commands

import (
	"context"
	"strings"
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/domain/schedule"
	"tablebook/internal/infra"
	"tablebook/internal/pkg/clock"
	"tablebook/internal/pkg/errs"
	"tablebook/internal/pkg/timeutil"
	"tablebook/internal/usecase/queries"

	"github.com/google/uuid"
)

var (
	ErrNotAcceptingReservations = errs.New("restaurant is not accepting reservations")
	ErrReservationNotFound      = errs.New("reservation not found")
	ErrTableNotFound            = errs.New("table not found")
	ErrOutsideOpeningHours      = errs.New("requested time is outside opening hours")
	ErrSlotUnavailable          = errs.New("no table is free at the requested time")
	ErrDailyLimitReached        = errs.New("daily reservation limit reached")
	ErrHourlyLimitReached       = errs.New("hourly reservation limit reached")
	ErrTableConflict            = errs.New("table already holds an overlapping reservation")
	ErrCodeGeneration           = errs.New("could not produce a unique confirmation code")
	ErrDatabaseOperationFailed  = errs.New("database operation failed")
)

// codeRetryLimit bounds how often a confirmation-code collision restarts the
// create transaction before giving up.
const codeRetryLimit = 5

type CreateReservationParams struct {
	RestaurantID    uuid.UUID
	CustomerID      *uuid.UUID
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	Date            time.Time
	Time            timeutil.TimeOfDay
	PartySize       int
	Source          reservation.Source
	SpecialRequests string
}

// StaffCreateParams is the dashboard variant: staff pick the initial status
// themselves (walk-ins start seated, phone bookings confirmed) and are not
// bound by the customer booking window or capacity limits.
type StaffCreateParams struct {
	CreateReservationParams
	Status        reservation.Status
	TableID       *uuid.UUID
	InternalNotes string
	ActorID       uuid.UUID
}

type ReservationCommands interface {
	Create(ctx context.Context, p CreateReservationParams) (*queries.ReservationView, error)
	CreateByStaff(ctx context.Context, p StaffCreateParams) (*queries.ReservationView, error)
	Transition(ctx context.Context, restaurantID, id uuid.UUID, target reservation.Status, actor *uuid.UUID, reason string) (*queries.ReservationView, error)
	CancelByCode(ctx context.Context, restaurantID uuid.UUID, code, phoneDigits, reason string) (*queries.ReservationView, error)
	AssignTable(ctx context.Context, restaurantID, reservationID, tableID uuid.UUID, actor *uuid.UUID) (*queries.ReservationView, error)
}

type reservationCommandsImpl struct {
	uow                UnitOfWork
	reservationQueries queries.ReservationQueries
	invalidator        AvailabilityInvalidator
	clock              clock.Clock
	loc                *time.Location
}

func NewReservationCommands(
	uow UnitOfWork,
	reservationQueries queries.ReservationQueries,
	invalidator AvailabilityInvalidator,
	clk clock.Clock,
	loc *time.Location,
) ReservationCommands {
	return &reservationCommandsImpl{
		uow:                uow,
		reservationQueries: reservationQueries,
		invalidator:        invalidator,
		clock:              clk,
		loc:                loc,
	}
}

// Create is the customer-facing booking flow. The whole check-then-insert runs
// in a serializable transaction so two concurrent requests cannot both take
// the last free table; a confirmation-code collision restarts the transaction
// with a freshly generated code.
func (c *reservationCommandsImpl) Create(ctx context.Context, p CreateReservationParams) (*queries.ReservationView, error) {
	if p.Source == "" {
		p.Source = reservation.SourceWebsite
	}

	var createdID uuid.UUID
	var err error
	for attempt := 0; attempt < codeRetryLimit; attempt++ {
		err = c.uow.WithinSerializable(ctx, func(ctx context.Context, tx Tx) error {
			id, txErr := c.createValidated(ctx, tx, p)
			if txErr != nil {
				return txErr
			}
			createdID = id
			return nil
		})
		if !infra.IsKind(err, infra.KindDuplicateKey) {
			break
		}
	}
	if infra.IsKind(err, infra.KindDuplicateKey) {
		return nil, errs.Mark(err, ErrCodeGeneration)
	}
	if err != nil {
		return nil, err
	}

	c.invalidate(ctx, p.RestaurantID)
	return c.view(ctx, p.RestaurantID, createdID)
}

func (c *reservationCommandsImpl) createValidated(ctx context.Context, tx Tx, p CreateReservationParams) (uuid.UUID, error) {
	now := c.clock.Now()

	settings, err := tx.Settings().GetOrDefault(ctx, p.RestaurantID)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !settings.AcceptsReservations {
		return uuid.Nil, ErrNotAcceptingReservations
	}
	if !settings.AllowsPartySize(p.PartySize) {
		return uuid.Nil, reservation.ErrPartySizeOutOfRange
	}

	res, err := reservation.NewReservation(reservation.NewReservationParams{
		RestaurantID:    p.RestaurantID,
		CustomerID:      p.CustomerID,
		GuestName:       p.GuestName,
		GuestEmail:      p.GuestEmail,
		GuestPhone:      p.GuestPhone,
		Date:            p.Date,
		Time:            p.Time,
		PartySize:       p.PartySize,
		Duration:        settings.ReservationDuration,
		Status:          settings.InitialStatus(p.PartySize),
		Source:          p.Source,
		SpecialRequests: p.SpecialRequests,
	}, c.loc, now)
	if err != nil {
		return uuid.Nil, err
	}
	if err := res.ValidateWindow(settings, now, c.loc); err != nil {
		return uuid.Nil, err
	}

	hours, err := c.hoursFor(ctx, tx, p.RestaurantID, res.Date())
	if err != nil {
		return uuid.Nil, err
	}
	if hours.IsClosed || res.Time().Before(hours.OpenTime) || !res.Time().Before(hours.CloseTime) {
		return uuid.Nil, ErrOutsideOpeningHours
	}

	if err := c.checkVolumeLimits(ctx, tx, settings, res); err != nil {
		return uuid.Nil, err
	}
	if err := c.ensureTableFree(ctx, tx, settings, res); err != nil {
		return uuid.Nil, err
	}

	return c.persistNew(ctx, tx, res, nil)
}

// CreateByStaff records a dashboard-entered booking. Domain validation still
// applies, but the booking window, opening hours and volume limits do not;
// front-of-house overrides them routinely (walk-ins, phoned-in regulars).
func (c *reservationCommandsImpl) CreateByStaff(ctx context.Context, p StaffCreateParams) (*queries.ReservationView, error) {
	if p.Source == "" {
		p.Source = reservation.SourceWalkIn
	}
	status := p.Status
	if status == "" {
		status = reservation.StatusConfirmed
	}

	var createdID uuid.UUID
	var err error
	for attempt := 0; attempt < codeRetryLimit; attempt++ {
		err = c.uow.Within(ctx, func(ctx context.Context, tx Tx) error {
			now := c.clock.Now()

			settings, txErr := tx.Settings().GetOrDefault(ctx, p.RestaurantID)
			if txErr != nil {
				return errs.Mark(txErr, ErrDatabaseOperationFailed)
			}

			res, txErr := reservation.NewReservation(reservation.NewReservationParams{
				RestaurantID:    p.RestaurantID,
				CustomerID:      p.CustomerID,
				GuestName:       p.GuestName,
				GuestEmail:      p.GuestEmail,
				GuestPhone:      p.GuestPhone,
				Date:            p.Date,
				Time:            p.Time,
				PartySize:       p.PartySize,
				Duration:        settings.ReservationDuration,
				Status:          status,
				Source:          p.Source,
				SpecialRequests: p.SpecialRequests,
				InternalNotes:   p.InternalNotes,
			}, c.loc, now)
			if txErr != nil {
				return txErr
			}

			if p.TableID != nil {
				tbl, txErr := tx.Tables().FindByID(ctx, *p.TableID)
				if txErr != nil {
					if infra.IsKind(txErr, infra.KindNotFound) {
						return ErrTableNotFound
					}
					return errs.Mark(txErr, ErrDatabaseOperationFailed)
				}
				if txErr := res.AssignTable(tbl.ID, tbl.RestaurantID, now); txErr != nil {
					return txErr
				}
			}

			id, txErr := c.persistNew(ctx, tx, res, &p.ActorID)
			if txErr != nil {
				return txErr
			}
			createdID = id
			return nil
		})
		if !infra.IsKind(err, infra.KindDuplicateKey) {
			break
		}
	}
	if infra.IsKind(err, infra.KindDuplicateKey) {
		return nil, errs.Mark(err, ErrCodeGeneration)
	}
	if err != nil {
		return nil, err
	}

	c.invalidate(ctx, p.RestaurantID)
	return c.view(ctx, p.RestaurantID, createdID)
}

// Transition moves a reservation to the target lifecycle status under a row
// lock and appends the matching history entry in the same transaction.
func (c *reservationCommandsImpl) Transition(ctx context.Context, restaurantID, id uuid.UUID, target reservation.Status, actor *uuid.UUID, reason string) (*queries.ReservationView, error) {
	err := c.uow.Within(ctx, func(ctx context.Context, tx Tx) error {
		now := c.clock.Now()

		res, txErr := tx.Reservations().FindByIDForUpdate(ctx, restaurantID, id)
		if txErr != nil {
			if infra.IsKind(txErr, infra.KindNotFound) {
				return ErrReservationNotFound
			}
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}
		previous := res.Status()

		switch target {
		case reservation.StatusConfirmed:
			txErr = res.Confirm(actor, now)
		case reservation.StatusCancelled:
			settings, sErr := tx.Settings().GetOrDefault(ctx, restaurantID)
			if sErr != nil {
				return errs.Mark(sErr, ErrDatabaseOperationFailed)
			}
			txErr = res.Cancel(actor, reason, true, settings, now)
		case reservation.StatusSeated:
			txErr = res.MarkSeated(now)
		case reservation.StatusCompleted:
			txErr = res.MarkCompleted(now)
		case reservation.StatusNoShow:
			txErr = res.MarkNoShow(now)
		default:
			return reservation.ErrInvalidTransition
		}
		if txErr != nil {
			return txErr
		}

		if txErr := tx.Reservations().Save(ctx, res); txErr != nil {
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}
		entry := reservation.NewHistoryEntry(res.ID(), previous, res.Status(), actor, reason, now)
		if txErr := tx.History().Append(ctx, &entry); txErr != nil {
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.invalidate(ctx, restaurantID)
	return c.view(ctx, restaurantID, id)
}

// CancelByCode is the guest self-service cancellation, scoped to one
// restaurant. The caller proves ownership with the confirmation code plus the
// last digits of the booking phone number; the customer-facing deadline
// applies.
func (c *reservationCommandsImpl) CancelByCode(ctx context.Context, restaurantID uuid.UUID, code, phoneDigits, reason string) (*queries.ReservationView, error) {
	var id uuid.UUID
	err := c.uow.Within(ctx, func(ctx context.Context, tx Tx) error {
		now := c.clock.Now()

		res, txErr := tx.Reservations().FindByCodeForUpdate(ctx, restaurantID, reservation.NormalizeConfirmationCode(code))
		if txErr != nil {
			if infra.IsKind(txErr, infra.KindNotFound) {
				return queries.ErrLookupMismatch
			}
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}
		if len(phoneDigits) < 4 || !strings.HasSuffix(digitsOf(res.GuestPhone()), digitsOf(phoneDigits)) {
			return queries.ErrLookupMismatch
		}

		settings, txErr := tx.Settings().GetOrDefault(ctx, res.RestaurantID())
		if txErr != nil {
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}
		previous := res.Status()
		if txErr := res.Cancel(nil, reason, false, settings, now); txErr != nil {
			return txErr
		}

		if txErr := tx.Reservations().Save(ctx, res); txErr != nil {
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}
		entry := reservation.NewHistoryEntry(res.ID(), previous, res.Status(), nil, reason, now)
		if txErr := tx.History().Append(ctx, &entry); txErr != nil {
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}

		id = res.ID()
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.invalidate(ctx, restaurantID)
	return c.view(ctx, restaurantID, id)
}

// AssignTable binds a table to a reservation after checking the table is not
// already held for an overlapping interval.
func (c *reservationCommandsImpl) AssignTable(ctx context.Context, restaurantID, reservationID, tableID uuid.UUID, actor *uuid.UUID) (*queries.ReservationView, error) {
	err := c.uow.WithinSerializable(ctx, func(ctx context.Context, tx Tx) error {
		now := c.clock.Now()

		res, txErr := tx.Reservations().FindByIDForUpdate(ctx, restaurantID, reservationID)
		if txErr != nil {
			if infra.IsKind(txErr, infra.KindNotFound) {
				return ErrReservationNotFound
			}
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}

		tbl, txErr := tx.Tables().FindByID(ctx, tableID)
		if txErr != nil {
			if infra.IsKind(txErr, infra.KindNotFound) {
				return ErrTableNotFound
			}
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}

		bookings, txErr := tx.Reservations().ListActiveBetween(ctx, restaurantID, res.StartAt(), res.EndAt())
		if txErr != nil {
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}
		for _, bk := range bookings {
			if bk.ReservationID == res.ID() || bk.TableID == nil || *bk.TableID != tableID {
				continue
			}
			if timeutil.Overlaps(res.StartAt(), res.EndAt(), bk.StartAt, bk.StartAt.Add(bk.Duration)) {
				return ErrTableConflict
			}
		}

		if txErr := res.AssignTable(tbl.ID, tbl.RestaurantID, now); txErr != nil {
			return txErr
		}
		if txErr := tx.Reservations().Save(ctx, res); txErr != nil {
			return errs.Mark(txErr, ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.invalidate(ctx, restaurantID)
	return c.view(ctx, restaurantID, reservationID)
}

func (c *reservationCommandsImpl) hoursFor(ctx context.Context, tx Tx, restaurantID uuid.UUID, date time.Time) (schedule.DayHours, error) {
	weekday := timeutil.Weekday(date)
	hours, found, err := tx.Hours().FindForWeekday(ctx, restaurantID, weekday)
	if err != nil {
		return schedule.DayHours{}, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if !found {
		hours = schedule.DefaultDayHours(restaurantID, weekday)
	}
	return hours, nil
}

func (c *reservationCommandsImpl) checkVolumeLimits(ctx context.Context, tx Tx, settings reservation.Settings, res *reservation.Reservation) error {
	if settings.MaxDailyReservations > 0 {
		day := res.Date()
		n, err := tx.Reservations().CountActiveBetween(ctx, res.RestaurantID(), day, day.AddDate(0, 0, 1))
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if n >= settings.MaxDailyReservations {
			return ErrDailyLimitReached
		}
	}
	if settings.MaxHourlyReservations > 0 {
		local := res.StartAt().In(c.loc)
		hourStart := time.Date(local.Year(), local.Month(), local.Day(), local.Hour(), 0, 0, 0, c.loc)
		n, err := tx.Reservations().CountActiveBetween(ctx, res.RestaurantID(), hourStart, hourStart.Add(time.Hour))
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if n >= settings.MaxHourlyReservations {
			return ErrHourlyLimitReached
		}
	}
	return nil
}

// ensureTableFree re-runs the slot capacity check inside the transaction using
// the same exclusion rules as the availability calculator.
func (c *reservationCommandsImpl) ensureTableFree(ctx context.Context, tx Tx, settings reservation.Settings, res *reservation.Reservation) error {
	tables, err := tx.Tables().ListActive(ctx, res.RestaurantID())
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	free := make(map[uuid.UUID]struct{}, len(tables))
	for _, t := range tables {
		if t.IsBookable(res.PartySize()) {
			free[t.ID] = struct{}{}
		}
	}
	if len(free) == 0 {
		return ErrSlotUnavailable
	}

	day := res.Date()
	dayEnd := day.AddDate(0, 0, 1)

	blocked, err := tx.BlockedTimes().ListInWindow(ctx, res.RestaurantID(), day, dayEnd)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	for _, bt := range blocked {
		if !bt.Covers(res.StartAt()) {
			continue
		}
		if bt.IsAllTables() {
			return ErrSlotUnavailable
		}
		for _, id := range bt.TableIDs {
			delete(free, id)
		}
	}
	if len(free) == 0 {
		return ErrSlotUnavailable
	}

	slotEnd := res.StartAt().Add(time.Duration(settings.SlotIntervalMinutes) * time.Minute)
	bookings, err := tx.Reservations().ListActiveBetween(ctx, res.RestaurantID(), day, dayEnd)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	for _, bk := range bookings {
		if bk.TableID == nil {
			continue
		}
		if _, held := free[*bk.TableID]; !held {
			continue
		}
		if timeutil.Overlaps(res.StartAt(), slotEnd, bk.StartAt, bk.StartAt.Add(bk.Duration)) {
			delete(free, *bk.TableID)
		}
	}
	if len(free) == 0 {
		return ErrSlotUnavailable
	}
	return nil
}

func (c *reservationCommandsImpl) persistNew(ctx context.Context, tx Tx, res *reservation.Reservation, actor *uuid.UUID) (uuid.UUID, error) {
	if err := tx.Reservations().Create(ctx, res); err != nil {
		// Duplicate-key errors bubble up unmarked so the caller can restart
		// the transaction with a fresh confirmation code.
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return uuid.Nil, err
		}
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	entry := reservation.NewHistoryEntry(res.ID(), "", res.Status(), actor, "created", res.CreatedAt())
	if err := tx.History().Append(ctx, &entry); err != nil {
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return res.ID(), nil
}

func (c *reservationCommandsImpl) view(ctx context.Context, restaurantID, id uuid.UUID) (*queries.ReservationView, error) {
	view, _, err := c.reservationQueries.GetByID(ctx, restaurantID, id)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (c *reservationCommandsImpl) invalidate(ctx context.Context, restaurantID uuid.UUID) {
	if c.invalidator == nil {
		return
	}
	_ = c.invalidator.InvalidateRestaurant(ctx, restaurantID)
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

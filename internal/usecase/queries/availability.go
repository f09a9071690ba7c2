package queries

import (
	"context"
	"errors"
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/domain/schedule"
	"tablebook/internal/domain/table"
	"tablebook/internal/pkg/clock"
	"tablebook/internal/pkg/timeutil"

	"github.com/google/uuid"
)

// ErrPastDate rejects availability checks for days that have already passed.
var ErrPastDate = errors.New("date is in the past")

// ActiveBooking is the slice of a reservation the slot search needs: which
// table it holds and for which interval. Reservations without an assigned
// table do not consume table capacity.
type ActiveBooking struct {
	TableID  *uuid.UUID
	StartAt  time.Time
	Duration time.Duration
}

type SettingsReader interface {
	GetOrDefault(ctx context.Context, restaurantID uuid.UUID) (reservation.Settings, error)
}

type HoursReader interface {
	// FindForWeekday returns found=false when the restaurant has no hours row
	// for that weekday; callers fall back to schedule.DefaultDayHours.
	FindForWeekday(ctx context.Context, restaurantID uuid.UUID, weekday int) (schedule.DayHours, bool, error)
}

type TableReader interface {
	ListActive(ctx context.Context, restaurantID uuid.UUID) ([]table.Table, error)
}

type BlockedTimeReader interface {
	ListInWindow(ctx context.Context, restaurantID uuid.UUID, from, to time.Time) ([]*reservation.BlockedTime, error)
}

type BookingReader interface {
	ListActiveBetween(ctx context.Context, restaurantID uuid.UUID, from, to time.Time) ([]ActiveBooking, error)
}

// AvailabilityCache is a read-through cache for computed day results. A nil
// implementation is valid; cache failures degrade to recomputation.
type AvailabilityCache interface {
	Get(ctx context.Context, restaurantID uuid.UUID, date string, partySize int) (*AvailabilityResult, bool, error)
	Set(ctx context.Context, result AvailabilityResult) error
}

type AvailabilityQueries interface {
	Check(ctx context.Context, restaurantID uuid.UUID, date time.Time, partySize int) (*AvailabilityResult, error)
}

type availabilityQueriesImpl struct {
	settings SettingsReader
	hours    HoursReader
	tables   TableReader
	blocked  BlockedTimeReader
	bookings BookingReader
	cache    AvailabilityCache
	clock    clock.Clock
	loc      *time.Location
}

func NewAvailabilityQueries(
	settings SettingsReader,
	hours HoursReader,
	tables TableReader,
	blocked BlockedTimeReader,
	bookings BookingReader,
	cache AvailabilityCache,
	clk clock.Clock,
	loc *time.Location,
) AvailabilityQueries {
	return &availabilityQueriesImpl{
		settings: settings,
		hours:    hours,
		tables:   tables,
		blocked:  blocked,
		bookings: bookings,
		cache:    cache,
		clock:    clk,
		loc:      loc,
	}
}

const dateLayout = "2006-01-02"

// Check computes the bookable start times for one restaurant, day and party
// size. A slot appears in the result only when at least one table of
// sufficient capacity is neither blocked at the slot start nor held by an
// active reservation whose occupancy overlaps the slot interval.
func (q *availabilityQueriesImpl) Check(ctx context.Context, restaurantID uuid.UUID, date time.Time, partySize int) (*AvailabilityResult, error) {
	day := timeutil.DateOf(date, q.loc)
	dateStr := day.Format(dateLayout)

	now := q.clock.Now()
	today := timeutil.DateOf(now, q.loc)
	if day.Before(today) {
		return nil, ErrPastDate
	}

	if q.cache != nil {
		if cached, ok, err := q.cache.Get(ctx, restaurantID, dateStr, partySize); err == nil && ok {
			return cached, nil
		}
	}

	settings, err := q.settings.GetOrDefault(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if !settings.AllowsPartySize(partySize) {
		return nil, reservation.ErrPartySizeOutOfRange
	}

	result := &AvailabilityResult{
		RestaurantID: restaurantID,
		Date:         dateStr,
		PartySize:    partySize,
		Status:       AvailabilityAvailable,
		Slots:        []Slot{},
	}

	if !settings.AcceptsReservations ||
		day.After(today.AddDate(0, 0, settings.AdvanceBookingDays)) {
		result.Status = AvailabilityNotAccepting
		return result, nil
	}

	hours, found, err := q.hours.FindForWeekday(ctx, restaurantID, timeutil.Weekday(day))
	if err != nil {
		return nil, err
	}
	if !found {
		hours = schedule.DefaultDayHours(restaurantID, timeutil.Weekday(day))
	}
	if hours.IsClosed {
		result.Status = AvailabilityClosed
		return result, nil
	}

	first := hours.OpenTime
	if day.Equal(today) {
		earliest := now.Add(settings.MinAdvance())
		if !timeutil.SameDate(earliest, now, q.loc) {
			// The lead-time window crosses midnight; nothing today qualifies.
			q.store(ctx, result)
			return result, nil
		}
		rounded := timeutil.RoundUpToInterval(timeutil.TimeOfDayFrom(earliest, q.loc), settings.SlotIntervalMinutes)
		if first.Before(rounded) {
			first = rounded
		}
	}

	tables, err := q.tables.ListActive(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	eligible := make(map[uuid.UUID]struct{}, len(tables))
	for _, t := range tables {
		if t.IsBookable(partySize) {
			eligible[t.ID] = struct{}{}
		}
	}

	dayEnd := day.AddDate(0, 0, 1)
	blocked, err := q.blocked.ListInWindow(ctx, restaurantID, day, dayEnd)
	if err != nil {
		return nil, err
	}
	bookings, err := q.bookings.ListActiveBetween(ctx, restaurantID, day, dayEnd)
	if err != nil {
		return nil, err
	}

	interval := settings.SlotIntervalMinutes

	for slot := first; slot.Before(hours.CloseTime); {
		slotStart := slot.At(day, q.loc)
		slotEnd := slotStart.Add(time.Duration(interval) * time.Minute)

		free := make(map[uuid.UUID]struct{}, len(eligible))
		for id := range eligible {
			free[id] = struct{}{}
		}

		for _, bt := range blocked {
			if !bt.Covers(slotStart) {
				continue
			}
			if bt.IsAllTables() {
				free = map[uuid.UUID]struct{}{}
				break
			}
			for _, id := range bt.TableIDs {
				delete(free, id)
			}
		}

		if len(free) > 0 {
			for _, bk := range bookings {
				if bk.TableID == nil {
					continue
				}
				if _, held := free[*bk.TableID]; !held {
					continue
				}
				if timeutil.Overlaps(slotStart, slotEnd, bk.StartAt, bk.StartAt.Add(bk.Duration)) {
					delete(free, *bk.TableID)
				}
			}
		}

		if len(free) > 0 {
			result.Slots = append(result.Slots, Slot{Time: slot.String(), AvailableTables: len(free)})
		}

		next, sameDay := slot.AddMinutes(interval)
		if !sameDay {
			break
		}
		slot = next
	}

	q.store(ctx, result)
	return result, nil
}

func (q *availabilityQueriesImpl) store(ctx context.Context, result *AvailabilityResult) {
	if q.cache == nil {
		return
	}
	_ = q.cache.Set(ctx, *result)
}

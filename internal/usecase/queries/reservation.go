package queries

import (
	"context"
	"errors"
	"strings"
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/infra"
	"tablebook/internal/pkg/clock"
	"tablebook/internal/pkg/timeutil"

	"github.com/google/uuid"
)

// ErrLookupMismatch is returned when a confirmation-code lookup does not check
// out. It deliberately carries no detail about whether the code or the phone
// digits were wrong.
var ErrLookupMismatch = errors.New("no reservation matches the given code and phone")

const upcomingLimit = 20

type ReservationReadStore interface {
	FindByID(ctx context.Context, restaurantID, id uuid.UUID) (*ReservationView, error)
	FindByCode(ctx context.Context, restaurantID uuid.UUID, code string) (*ReservationView, error)
	Search(ctx context.Context, restaurantID uuid.UUID, filter ListFilter) ([]ReservationListItem, int, error)
	ListBetween(ctx context.Context, restaurantID uuid.UUID, from, to time.Time) ([]ReservationListItem, error)
	ListUpcoming(ctx context.Context, restaurantID uuid.UUID, from time.Time, limit int) ([]ReservationListItem, error)
	ListHistory(ctx context.Context, reservationID uuid.UUID) ([]HistoryView, error)
}

type BlockedTimeReadStore interface {
	ListForRange(ctx context.Context, restaurantID uuid.UUID, from, to time.Time) ([]BlockedTimeView, error)
}

type ReservationQueries interface {
	GetByID(ctx context.Context, restaurantID, id uuid.UUID) (*ReservationView, []HistoryView, error)
	LookupByCode(ctx context.Context, restaurantID uuid.UUID, code, phoneDigits string) (*ReservationView, error)
	List(ctx context.Context, restaurantID uuid.UUID, filter ListFilter) (*ReservationPage, error)
	Today(ctx context.Context, restaurantID uuid.UUID) ([]ReservationListItem, error)
	Upcoming(ctx context.Context, restaurantID uuid.UUID) ([]ReservationListItem, error)
	Stats(ctx context.Context, restaurantID uuid.UUID, date time.Time) (*DayStats, error)
	ListBlockedTimes(ctx context.Context, restaurantID uuid.UUID, from, to time.Time) ([]BlockedTimeView, error)
}

type reservationQueriesImpl struct {
	reservations ReservationReadStore
	blocked      BlockedTimeReadStore
	clock        clock.Clock
	loc          *time.Location
}

func NewReservationQueries(
	reservations ReservationReadStore,
	blocked BlockedTimeReadStore,
	clk clock.Clock,
	loc *time.Location,
) ReservationQueries {
	return &reservationQueriesImpl{
		reservations: reservations,
		blocked:      blocked,
		clock:        clk,
		loc:          loc,
	}
}

func (q *reservationQueriesImpl) GetByID(ctx context.Context, restaurantID, id uuid.UUID) (*ReservationView, []HistoryView, error) {
	view, err := q.reservations.FindByID(ctx, restaurantID, id)
	if err != nil {
		return nil, nil, err
	}
	history, err := q.reservations.ListHistory(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return view, history, nil
}

// LookupByCode is the guest-facing retrieval path, scoped to the restaurant
// the request came in for. The confirmation code must match; the phone suffix
// is an optional extra check and needs at least four digits when supplied.
func (q *reservationQueriesImpl) LookupByCode(ctx context.Context, restaurantID uuid.UUID, code, phoneDigits string) (*ReservationView, error) {
	normalized := reservation.NormalizeConfirmationCode(code)
	if normalized == "" {
		return nil, ErrLookupMismatch
	}
	view, err := q.reservations.FindByCode(ctx, restaurantID, normalized)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrLookupMismatch
		}
		return nil, err
	}
	if phoneDigits != "" {
		if len(phoneDigits) < 4 || !strings.HasSuffix(digitsOnly(view.GuestPhone), digitsOnly(phoneDigits)) {
			return nil, ErrLookupMismatch
		}
	}
	return view, nil
}

func (q *reservationQueriesImpl) List(ctx context.Context, restaurantID uuid.UUID, filter ListFilter) (*ReservationPage, error) {
	filter = filter.Normalize()
	items, total, err := q.reservations.Search(ctx, restaurantID, filter)
	if err != nil {
		return nil, err
	}
	return &ReservationPage{
		Items:   items,
		Total:   total,
		Page:    filter.Page,
		PerPage: filter.PerPage,
	}, nil
}

func (q *reservationQueriesImpl) Today(ctx context.Context, restaurantID uuid.UUID) ([]ReservationListItem, error) {
	day := timeutil.DateOf(q.clock.Now(), q.loc)
	return q.reservations.ListBetween(ctx, restaurantID, day, day.AddDate(0, 0, 1))
}

func (q *reservationQueriesImpl) Upcoming(ctx context.Context, restaurantID uuid.UUID) ([]ReservationListItem, error) {
	return q.reservations.ListUpcoming(ctx, restaurantID, q.clock.Now(), upcomingLimit)
}

func (q *reservationQueriesImpl) Stats(ctx context.Context, restaurantID uuid.UUID, date time.Time) (*DayStats, error) {
	day := timeutil.DateOf(date, q.loc)
	items, err := q.reservations.ListBetween(ctx, restaurantID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	stats := &DayStats{
		Date:     day,
		Total:    len(items),
		ByStatus: map[string]int{},
	}
	for _, it := range items {
		stats.ByStatus[it.Status]++
		// Guests already lost to cancellation or no-show are not expected.
		switch reservation.Status(it.Status) {
		case reservation.StatusCancelled, reservation.StatusNoShow:
		default:
			stats.ExpectedGuests += it.PartySize
		}
	}
	return stats, nil
}

func (q *reservationQueriesImpl) ListBlockedTimes(ctx context.Context, restaurantID uuid.UUID, from, to time.Time) ([]BlockedTimeView, error) {
	return q.blocked.ListForRange(ctx, restaurantID, from, to)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

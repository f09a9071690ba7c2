package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tablebook/internal/infra"
	"tablebook/internal/pkg/timeutil"
	"tablebook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const reservationViewColumns = `
	r.id, r.restaurant_id, r.customer_id, r.guest_name, r.guest_email, r.guest_phone,
	r.date, r.time_minutes, r.start_at, r.party_size, r.duration_min,
	r.table_id, t.number, r.status, r.source, r.confirmation_code,
	r.confirmed_at, r.cancelled_at, r.cancellation_reason, r.seated_at, r.completed_at,
	r.special_requests, r.internal_notes, r.created_at, r.updated_at`

const reservationViewFrom = `
	FROM reservations r
	LEFT JOIN dining_tables t ON t.id = r.table_id`

// ReservationReadStore serves the query side directly from SQL, bypassing the
// domain aggregate.
type ReservationReadStore struct {
	db DBTX
}

func NewReservationReadStore(db DBTX) *ReservationReadStore {
	return &ReservationReadStore{db: db}
}

func (s *ReservationReadStore) FindByID(ctx context.Context, restaurantID, id uuid.UUID) (*queries.ReservationView, error) {
	row := s.db.QueryRow(ctx, `
		SELECT`+reservationViewColumns+reservationViewFrom+`
		WHERE r.restaurant_id = $1 AND r.id = $2`,
		restaurantID, id,
	)
	return s.scanView(row)
}

func (s *ReservationReadStore) FindByCode(ctx context.Context, restaurantID uuid.UUID, code string) (*queries.ReservationView, error) {
	row := s.db.QueryRow(ctx, `
		SELECT`+reservationViewColumns+reservationViewFrom+`
		WHERE r.restaurant_id = $1 AND r.confirmation_code = $2`,
		restaurantID, code,
	)
	return s.scanView(row)
}

// Search applies the dashboard list filters and returns one page plus the
// total match count.
func (s *ReservationReadStore) Search(ctx context.Context, restaurantID uuid.UUID, filter queries.ListFilter) ([]queries.ReservationListItem, int, error) {
	where := []string{"r.restaurant_id = $1"}
	args := []any{restaurantID}

	addArg := func(clause string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filter.Date != nil {
		addArg("r.date = $%d", *filter.Date)
	}
	if filter.Status != "" {
		addArg("r.status = $%d", filter.Status)
	}
	if filter.Source != "" {
		addArg("r.source = $%d", filter.Source)
	}
	if filter.TableID != nil {
		addArg("r.table_id = $%d", *filter.TableID)
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(r.guest_name ILIKE $%d OR r.guest_phone ILIKE $%d OR r.guest_email ILIKE $%d OR r.confirmation_code ILIKE $%d)",
			n, n, n, n,
		))
	}

	whereSQL := " WHERE " + strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRow(ctx,
		"SELECT count(*) FROM reservations r"+whereSQL, args...,
	).Scan(&total); err != nil {
		return nil, 0, infra.WrapRepoErr("failed to count reservations", err)
	}

	args = append(args, filter.PerPage, filter.Offset())
	rows, err := s.db.Query(ctx,
		"SELECT"+reservationListColumns+reservationViewFrom+whereSQL+
			fmt.Sprintf(" ORDER BY r.start_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to search reservations", err)
	}
	defer rows.Close()

	items, err := scanListItems(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

const reservationListColumns = `
	r.id, r.guest_name, r.guest_phone, r.date, r.time_minutes, r.start_at,
	r.party_size, t.number, r.status, r.source, r.confirmation_code, r.created_at`

func (s *ReservationReadStore) ListBetween(ctx context.Context, restaurantID uuid.UUID, from, to time.Time) ([]queries.ReservationListItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT`+reservationListColumns+reservationViewFrom+`
		WHERE r.restaurant_id = $1 AND r.start_at >= $2 AND r.start_at < $3
		ORDER BY r.start_at`,
		restaurantID, from, to,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservations", err)
	}
	defer rows.Close()
	return scanListItems(rows)
}

func (s *ReservationReadStore) ListUpcoming(ctx context.Context, restaurantID uuid.UUID, from time.Time, limit int) ([]queries.ReservationListItem, error) {
	rows, err := s.db.Query(ctx, `
		SELECT`+reservationListColumns+reservationViewFrom+`
		WHERE r.restaurant_id = $1
		  AND r.status IN `+activeStatuses+`
		  AND r.start_at >= $2
		ORDER BY r.start_at
		LIMIT $3`,
		restaurantID, from, limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list upcoming reservations", err)
	}
	defer rows.Close()
	return scanListItems(rows)
}

func (s *ReservationReadStore) ListHistory(ctx context.Context, reservationID uuid.UUID) ([]queries.HistoryView, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, reservation_id, previous_status, new_status, changed_by, notes, created_at
		FROM reservation_history
		WHERE reservation_id = $1
		ORDER BY created_at`,
		reservationID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reservation history", err)
	}
	defer rows.Close()

	var entries []queries.HistoryView
	for rows.Next() {
		var h queries.HistoryView
		if err := rows.Scan(&h.ID, &h.ReservationID, &h.PreviousStatus, &h.NewStatus, &h.ChangedBy, &h.Reason, &h.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan history entry", err)
		}
		entries = append(entries, h)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read reservation history", err)
	}
	return entries, nil
}

// ListActiveBetween feeds the availability calculator with current table holds.
func (s *ReservationReadStore) ListActiveBetween(ctx context.Context, restaurantID uuid.UUID, from, to time.Time) ([]queries.ActiveBooking, error) {
	rows, err := s.db.Query(ctx, `
		SELECT table_id, start_at, duration_min
		FROM reservations
		WHERE restaurant_id = $1
		  AND status IN `+activeStatuses+`
		  AND start_at < $3
		  AND start_at + make_interval(mins => duration_min) > $2`,
		restaurantID, from, to,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active bookings", err)
	}
	defer rows.Close()

	var bookings []queries.ActiveBooking
	for rows.Next() {
		var b queries.ActiveBooking
		var durationMin int
		if err := rows.Scan(&b.TableID, &b.StartAt, &durationMin); err != nil {
			return nil, infra.WrapRepoErr("failed to scan active booking", err)
		}
		b.Duration = time.Duration(durationMin) * time.Minute
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read active bookings", err)
	}
	return bookings, nil
}

func (s *ReservationReadStore) scanView(row pgx.Row) (*queries.ReservationView, error) {
	var v queries.ReservationView
	var timeMinutes int
	err := row.Scan(
		&v.ID, &v.RestaurantID, &v.CustomerID, &v.GuestName, &v.GuestEmail, &v.GuestPhone,
		&v.Date, &timeMinutes, &v.StartAt, &v.PartySize, &v.DurationMinutes,
		&v.TableID, &v.TableNumber, &v.Status, &v.Source, &v.ConfirmationCode,
		&v.ConfirmedAt, &v.CancelledAt, &v.CancellationReason, &v.SeatedAt, &v.CompletedAt,
		&v.SpecialRequests, &v.InternalNotes, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan reservation view", err)
	}
	v.Time = timeutil.TimeOfDay(timeMinutes).String()
	return &v, nil
}

func scanListItems(rows pgx.Rows) ([]queries.ReservationListItem, error) {
	var items []queries.ReservationListItem
	for rows.Next() {
		var it queries.ReservationListItem
		var timeMinutes int
		if err := rows.Scan(
			&it.ID, &it.GuestName, &it.GuestPhone, &it.Date, &timeMinutes, &it.StartAt,
			&it.PartySize, &it.TableNumber, &it.Status, &it.Source, &it.ConfirmationCode, &it.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan reservation list item", err)
		}
		it.Time = timeutil.TimeOfDay(timeMinutes).String()
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read reservation list", err)
	}
	return items, nil
}

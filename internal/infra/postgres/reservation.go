package postgres

import (
	"context"
	"errors"
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/infra"
	"tablebook/internal/pkg/timeutil"
	"tablebook/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const reservationColumns = `
	id, restaurant_id, customer_id, guest_name, guest_email, guest_phone,
	date, time_minutes, party_size, duration_min, table_id, status, source,
	confirmation_code, confirmed_at, confirmed_by, cancelled_at, cancelled_by,
	cancellation_reason, seated_at, completed_at, reminder_sent, reminder_sent_at,
	special_requests, internal_notes, created_at, updated_at`

// activeStatuses is inlined into queries that only care about reservations
// still holding (or requesting) a table.
const activeStatuses = `('pending', 'confirmed', 'waitlist')`

type ReservationRepository struct {
	db  DBTX
	loc *time.Location
}

func NewReservationRepository(db DBTX, loc *time.Location) *ReservationRepository {
	return &ReservationRepository{db: db, loc: loc}
}

func (r *ReservationRepository) Create(ctx context.Context, res *reservation.Reservation) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO reservations (
			id, restaurant_id, customer_id, guest_name, guest_email, guest_phone,
			date, time_minutes, start_at, party_size, duration_min, table_id,
			status, source, confirmation_code, special_requests, internal_notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		res.ID(), res.RestaurantID(), res.CustomerID(), res.GuestName(), res.GuestEmail(), res.GuestPhone(),
		res.Date(), int(res.Time()), res.StartAt(), res.PartySize(), int(res.Duration().Minutes()), res.TableID(),
		res.Status().String(), res.Source().String(), res.ConfirmationCode(), res.SpecialRequests(), res.InternalNotes(),
		res.CreatedAt(), res.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) FindByIDForUpdate(ctx context.Context, restaurantID, id uuid.UUID) (*reservation.Reservation, error) {
	row := r.db.QueryRow(ctx, `
		SELECT`+reservationColumns+`
		FROM reservations
		WHERE restaurant_id = $1 AND id = $2
		FOR UPDATE`,
		restaurantID, id,
	)
	res, err := r.scan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by ID", err)
	}
	return res, nil
}

func (r *ReservationRepository) FindByCodeForUpdate(ctx context.Context, restaurantID uuid.UUID, code string) (*reservation.Reservation, error) {
	row := r.db.QueryRow(ctx, `
		SELECT`+reservationColumns+`
		FROM reservations
		WHERE restaurant_id = $1 AND confirmation_code = $2
		FOR UPDATE`,
		restaurantID, code,
	)
	res, err := r.scan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reservation by code", err)
	}
	return res, nil
}

func (r *ReservationRepository) Save(ctx context.Context, res *reservation.Reservation) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE reservations SET
			table_id = $2,
			status = $3,
			confirmed_at = $4,
			confirmed_by = $5,
			cancelled_at = $6,
			cancelled_by = $7,
			cancellation_reason = $8,
			seated_at = $9,
			completed_at = $10,
			reminder_sent = $11,
			reminder_sent_at = $12,
			special_requests = $13,
			internal_notes = $14,
			updated_at = $15
		WHERE id = $1`,
		res.ID(), res.TableID(), res.Status().String(),
		res.ConfirmedAt(), res.ConfirmedBy(),
		res.CancelledAt(), res.CancelledBy(), res.CancellationReason(),
		res.SeatedAt(), res.CompletedAt(),
		res.ReminderSent(), res.ReminderSentAt(),
		res.SpecialRequests(), res.InternalNotes(), res.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save reservation", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ReservationRepository) ListActiveBetween(ctx context.Context, restaurantID uuid.UUID, from, to time.Time) ([]commands.BookingSnapshot, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, table_id, start_at, duration_min
		FROM reservations
		WHERE restaurant_id = $1
		  AND status IN `+activeStatuses+`
		  AND start_at < $3
		  AND start_at + make_interval(mins => duration_min) > $2
		ORDER BY start_at`,
		restaurantID, from, to,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active reservations", err)
	}
	defer rows.Close()

	var snapshots []commands.BookingSnapshot
	for rows.Next() {
		var s commands.BookingSnapshot
		var durationMin int
		if err := rows.Scan(&s.ReservationID, &s.TableID, &s.StartAt, &durationMin); err != nil {
			return nil, infra.WrapRepoErr("failed to scan active reservation", err)
		}
		s.Duration = time.Duration(durationMin) * time.Minute
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read active reservations", err)
	}
	return snapshots, nil
}

func (r *ReservationRepository) CountActiveBetween(ctx context.Context, restaurantID uuid.UUID, from, to time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT count(*)
		FROM reservations
		WHERE restaurant_id = $1
		  AND status IN `+activeStatuses+`
		  AND start_at >= $2 AND start_at < $3`,
		restaurantID, from, to,
	).Scan(&n)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count active reservations", err)
	}
	return n, nil
}

func (r *ReservationRepository) scan(row pgx.Row) (*reservation.Reservation, error) {
	var p reservation.ReconstructParams
	var timeMinutes, durationMin int
	var status, source string

	err := row.Scan(
		&p.ID, &p.RestaurantID, &p.CustomerID, &p.GuestName, &p.GuestEmail, &p.GuestPhone,
		&p.Date, &timeMinutes, &p.PartySize, &durationMin, &p.TableID, &status, &source,
		&p.ConfirmationCode, &p.ConfirmedAt, &p.ConfirmedBy, &p.CancelledAt, &p.CancelledBy,
		&p.CancellationReason, &p.SeatedAt, &p.CompletedAt, &p.ReminderSent, &p.ReminderSentAt,
		&p.SpecialRequests, &p.InternalNotes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Time = timeutil.TimeOfDay(timeMinutes)
	p.Duration = time.Duration(durationMin) * time.Minute
	p.Status = reservation.Status(status)
	p.Source = reservation.Source(source)
	return reservation.ReconstructReservation(p, r.loc), nil
}

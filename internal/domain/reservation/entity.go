package reservation

import (
	"errors"
	"strings"
	"time"

	"tablebook/internal/pkg/timeutil"

	"github.com/google/uuid"
)

var (
	ErrGuestInfoRequired    = errors.New("guest name and phone are required")
	ErrInvalidPartySize     = errors.New("party size must be at least 1")
	ErrPartySizeOutOfRange  = errors.New("party size outside restaurant limits")
	ErrInvalidDuration      = errors.New("duration must be positive")
	ErrInvalidStatus        = errors.New("invalid reservation status")
	ErrInvalidSource        = errors.New("invalid reservation source")
	ErrInvalidSettings      = errors.New("invalid reservation settings")
	ErrPastReservation      = errors.New("reservation time is in the past")
	ErrOutsideBookingWindow = errors.New("reservation time outside booking window")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrCancelDeadlinePassed = errors.New("cancellation deadline has passed")
	ErrNotUpcoming          = errors.New("reservation has already started")
	ErrTableWrongRestaurant = errors.New("table belongs to a different restaurant")
)

// Reservation is the aggregate under lifecycle control. Status only moves
// through the guarded transition methods; every change the caller persists
// must be paired with a history entry.
type Reservation struct {
	id           uuid.UUID
	restaurantID uuid.UUID
	customerID   *uuid.UUID

	guestName  string
	guestEmail string
	guestPhone string

	date      time.Time
	timeOfDay timeutil.TimeOfDay
	startAt   time.Time
	partySize int
	duration  time.Duration

	tableID *uuid.UUID

	status Status
	source Source

	confirmationCode string
	confirmedAt      *time.Time
	confirmedBy      *uuid.UUID

	cancelledAt        *time.Time
	cancelledBy        *uuid.UUID
	cancellationReason string

	seatedAt    *time.Time
	completedAt *time.Time

	reminderSent   bool
	reminderSentAt *time.Time

	specialRequests string
	internalNotes   string

	createdAt time.Time
	updatedAt time.Time
}

type NewReservationParams struct {
	RestaurantID    uuid.UUID
	CustomerID      *uuid.UUID
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	Date            time.Time
	Time            timeutil.TimeOfDay
	PartySize       int
	Duration        time.Duration
	TableID         *uuid.UUID
	Status          Status
	Source          Source
	SpecialRequests string
	InternalNotes   string
}

// NewReservation builds a reservation with its confirmation code already
// generated. Booking-window and party-size policy checks live in
// ValidateWindow / Settings.AllowsPartySize so that staff-entered bookings can
// bypass them the way the dashboard flow does.
func NewReservation(p NewReservationParams, loc *time.Location, now time.Time) (*Reservation, error) {
	if strings.TrimSpace(p.GuestName) == "" || strings.TrimSpace(p.GuestPhone) == "" {
		return nil, ErrGuestInfoRequired
	}
	if p.PartySize < 1 {
		return nil, ErrInvalidPartySize
	}
	if p.Duration <= 0 {
		return nil, ErrInvalidDuration
	}
	if !p.Status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if !p.Source.IsValid() {
		return nil, ErrInvalidSource
	}

	code, err := NewConfirmationCode()
	if err != nil {
		return nil, err
	}

	return &Reservation{
		id:               uuid.New(),
		restaurantID:     p.RestaurantID,
		customerID:       p.CustomerID,
		guestName:        strings.TrimSpace(p.GuestName),
		guestEmail:       strings.TrimSpace(p.GuestEmail),
		guestPhone:       strings.TrimSpace(p.GuestPhone),
		date:             timeutil.DateOf(p.Date, loc),
		timeOfDay:        p.Time,
		startAt:          p.Time.At(p.Date, loc),
		partySize:        p.PartySize,
		duration:         p.Duration,
		tableID:          p.TableID,
		status:           p.Status,
		source:           p.Source,
		confirmationCode: code,
		specialRequests:  p.SpecialRequests,
		internalNotes:    p.InternalNotes,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

type ReconstructParams struct {
	ID                 uuid.UUID
	RestaurantID       uuid.UUID
	CustomerID         *uuid.UUID
	GuestName          string
	GuestEmail         string
	GuestPhone         string
	Date               time.Time
	Time               timeutil.TimeOfDay
	PartySize          int
	Duration           time.Duration
	TableID            *uuid.UUID
	Status             Status
	Source             Source
	ConfirmationCode   string
	ConfirmedAt        *time.Time
	ConfirmedBy        *uuid.UUID
	CancelledAt        *time.Time
	CancelledBy        *uuid.UUID
	CancellationReason string
	SeatedAt           *time.Time
	CompletedAt        *time.Time
	ReminderSent       bool
	ReminderSentAt     *time.Time
	SpecialRequests    string
	InternalNotes      string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ReconstructReservation rehydrates a persisted reservation without running
// creation-time validation.
func ReconstructReservation(p ReconstructParams, loc *time.Location) *Reservation {
	return &Reservation{
		id:                 p.ID,
		restaurantID:       p.RestaurantID,
		customerID:         p.CustomerID,
		guestName:          p.GuestName,
		guestEmail:         p.GuestEmail,
		guestPhone:         p.GuestPhone,
		date:               timeutil.DateOf(p.Date, loc),
		timeOfDay:          p.Time,
		startAt:            p.Time.At(p.Date, loc),
		partySize:          p.PartySize,
		duration:           p.Duration,
		tableID:            p.TableID,
		status:             p.Status,
		source:             p.Source,
		confirmationCode:   p.ConfirmationCode,
		confirmedAt:        p.ConfirmedAt,
		confirmedBy:        p.ConfirmedBy,
		cancelledAt:        p.CancelledAt,
		cancelledBy:        p.CancelledBy,
		cancellationReason: p.CancellationReason,
		seatedAt:           p.SeatedAt,
		completedAt:        p.CompletedAt,
		reminderSent:       p.ReminderSent,
		reminderSentAt:     p.ReminderSentAt,
		specialRequests:    p.SpecialRequests,
		internalNotes:      p.InternalNotes,
		createdAt:          p.CreatedAt,
		updatedAt:          p.UpdatedAt,
	}
}

// ValidateWindow enforces the customer-facing booking window: at least
// MinAdvanceHours of lead time and no further out than AdvanceBookingDays.
func (r *Reservation) ValidateWindow(settings Settings, now time.Time, loc *time.Location) error {
	if r.startAt.Before(now) {
		return ErrPastReservation
	}
	if r.startAt.Before(now.Add(settings.MinAdvance())) {
		return ErrOutsideBookingWindow
	}
	maxDate := timeutil.DateOf(now, loc).AddDate(0, 0, settings.AdvanceBookingDays)
	if r.date.After(maxDate) {
		return ErrOutsideBookingWindow
	}
	return nil
}

func (r *Reservation) StartAt() time.Time { return r.startAt }
func (r *Reservation) EndAt() time.Time   { return r.startAt.Add(r.duration) }

func (r *Reservation) IsUpcoming(now time.Time) bool {
	return r.startAt.After(now)
}

// CanCancel reports whether the customer may still self-cancel. Staff
// cancellation bypasses the deadline and only needs a cancellable status.
func (r *Reservation) CanCancel(settings Settings, now time.Time) bool {
	if !r.status.IsActive() || !r.IsUpcoming(now) {
		return false
	}
	deadline := r.startAt.Add(-settings.CancellationDeadline())
	return now.Before(deadline)
}

func (r *Reservation) CanModify(now time.Time) bool {
	return r.status.IsActive() && r.IsUpcoming(now)
}

func (r *Reservation) Confirm(actor *uuid.UUID, now time.Time) error {
	if !r.status.CanTransitionTo(StatusConfirmed) {
		return ErrInvalidTransition
	}
	r.status = StatusConfirmed
	r.confirmedAt = &now
	r.confirmedBy = actor
	r.updatedAt = now
	return nil
}

// Cancel moves the reservation to cancelled. byStaff controls whether the
// customer-facing cancellation deadline applies.
func (r *Reservation) Cancel(actor *uuid.UUID, reason string, byStaff bool, settings Settings, now time.Time) error {
	if !r.status.CanTransitionTo(StatusCancelled) {
		return ErrInvalidTransition
	}
	if !r.IsUpcoming(now) {
		return ErrNotUpcoming
	}
	if !byStaff {
		deadline := r.startAt.Add(-settings.CancellationDeadline())
		if !now.Before(deadline) {
			return ErrCancelDeadlinePassed
		}
	}
	r.status = StatusCancelled
	r.cancelledAt = &now
	r.cancelledBy = actor
	r.cancellationReason = reason
	r.updatedAt = now
	return nil
}

func (r *Reservation) MarkSeated(now time.Time) error {
	if !r.status.CanTransitionTo(StatusSeated) {
		return ErrInvalidTransition
	}
	r.status = StatusSeated
	r.seatedAt = &now
	r.updatedAt = now
	return nil
}

func (r *Reservation) MarkCompleted(now time.Time) error {
	if !r.status.CanTransitionTo(StatusCompleted) {
		return ErrInvalidTransition
	}
	r.status = StatusCompleted
	r.completedAt = &now
	r.updatedAt = now
	return nil
}

func (r *Reservation) MarkNoShow(now time.Time) error {
	if !r.status.CanTransitionTo(StatusNoShow) {
		return ErrInvalidTransition
	}
	r.status = StatusNoShow
	r.updatedAt = now
	return nil
}

// AssignTable binds a table after the caller verified tenant ownership.
// Capacity fit is left to staff judgment, matching the dashboard behavior.
func (r *Reservation) AssignTable(tableID uuid.UUID, tableRestaurantID uuid.UUID, now time.Time) error {
	if tableRestaurantID != r.restaurantID {
		return ErrTableWrongRestaurant
	}
	id := tableID
	r.tableID = &id
	r.updatedAt = now
	return nil
}

func (r *Reservation) MarkReminderSent(now time.Time) {
	r.reminderSent = true
	r.reminderSentAt = &now
	r.updatedAt = now
}

func (r *Reservation) ID() uuid.UUID                { return r.id }
func (r *Reservation) RestaurantID() uuid.UUID      { return r.restaurantID }
func (r *Reservation) CustomerID() *uuid.UUID       { return r.customerID }
func (r *Reservation) GuestName() string            { return r.guestName }
func (r *Reservation) GuestEmail() string           { return r.guestEmail }
func (r *Reservation) GuestPhone() string           { return r.guestPhone }
func (r *Reservation) Date() time.Time              { return r.date }
func (r *Reservation) Time() timeutil.TimeOfDay     { return r.timeOfDay }
func (r *Reservation) PartySize() int               { return r.partySize }
func (r *Reservation) Duration() time.Duration      { return r.duration }
func (r *Reservation) TableID() *uuid.UUID          { return r.tableID }
func (r *Reservation) Status() Status               { return r.status }
func (r *Reservation) Source() Source               { return r.source }
func (r *Reservation) ConfirmationCode() string     { return r.confirmationCode }
func (r *Reservation) ConfirmedAt() *time.Time      { return r.confirmedAt }
func (r *Reservation) ConfirmedBy() *uuid.UUID      { return r.confirmedBy }
func (r *Reservation) CancelledAt() *time.Time      { return r.cancelledAt }
func (r *Reservation) CancelledBy() *uuid.UUID      { return r.cancelledBy }
func (r *Reservation) CancellationReason() string   { return r.cancellationReason }
func (r *Reservation) SeatedAt() *time.Time         { return r.seatedAt }
func (r *Reservation) CompletedAt() *time.Time      { return r.completedAt }
func (r *Reservation) ReminderSent() bool           { return r.reminderSent }
func (r *Reservation) ReminderSentAt() *time.Time   { return r.reminderSentAt }
func (r *Reservation) SpecialRequests() string      { return r.specialRequests }
func (r *Reservation) InternalNotes() string        { return r.internalNotes }
func (r *Reservation) CreatedAt() time.Time         { return r.createdAt }
func (r *Reservation) UpdatedAt() time.Time         { return r.updatedAt }

// RegenerateCode replaces the confirmation code after a storage-level
// collision. The code is immutable once the reservation is persisted.
func (r *Reservation) RegenerateCode() error {
	code, err := NewConfirmationCode()
	if err != nil {
		return err
	}
	r.confirmationCode = code
	return nil
}

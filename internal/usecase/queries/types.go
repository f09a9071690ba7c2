package queries

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilityStatus explains why a day did or did not produce slots.
type AvailabilityStatus string

const (
	AvailabilityAvailable    AvailabilityStatus = "available"
	AvailabilityClosed       AvailabilityStatus = "closed"
	AvailabilityNotAccepting AvailabilityStatus = "not_accepting"
)

// Slot is one bookable start time with the number of tables still free for it.
type Slot struct {
	Time            string `json:"time"`
	AvailableTables int    `json:"available_tables"`
}

type AvailabilityResult struct {
	RestaurantID uuid.UUID          `json:"restaurant_id"`
	Date         string             `json:"date"`
	PartySize    int                `json:"party_size"`
	Status       AvailabilityStatus `json:"status"`
	Slots        []Slot             `json:"slots"`
}

// ReservationView is the full read model for a single reservation, used by the
// detail and lookup endpoints.
type ReservationView struct {
	ID                 uuid.UUID  `json:"id"`
	RestaurantID       uuid.UUID  `json:"restaurant_id"`
	CustomerID         *uuid.UUID `json:"customer_id,omitempty"`
	GuestName          string     `json:"guest_name"`
	GuestEmail         string     `json:"guest_email"`
	GuestPhone         string     `json:"guest_phone"`
	Date               time.Time  `json:"date"`
	Time               string     `json:"time"`
	StartAt            time.Time  `json:"start_at"`
	PartySize          int        `json:"party_size"`
	DurationMinutes    int        `json:"duration_minutes"`
	TableID            *uuid.UUID `json:"table_id,omitempty"`
	TableNumber        *string    `json:"table_number,omitempty"`
	Status             string     `json:"status"`
	Source             string     `json:"source"`
	ConfirmationCode   string     `json:"confirmation_code"`
	ConfirmedAt        *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
	SeatedAt           *time.Time `json:"seated_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	SpecialRequests    string     `json:"special_requests,omitempty"`
	InternalNotes      string     `json:"internal_notes,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ReservationListItem is the lighter row shape the dashboard list renders.
type ReservationListItem struct {
	ID               uuid.UUID  `json:"id"`
	GuestName        string     `json:"guest_name"`
	GuestPhone       string     `json:"guest_phone"`
	Date             time.Time  `json:"date"`
	Time             string     `json:"time"`
	StartAt          time.Time  `json:"start_at"`
	PartySize        int        `json:"party_size"`
	TableNumber      *string    `json:"table_number,omitempty"`
	Status           string     `json:"status"`
	Source           string     `json:"source"`
	ConfirmationCode string     `json:"confirmation_code"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ListFilter narrows the dashboard reservation list. Zero values mean "any".
type ListFilter struct {
	Date    *time.Time
	Status  string
	Source  string
	TableID *uuid.UUID
	// Search matches guest name, phone, email or confirmation code.
	Search  string
	Page    int
	PerPage int
}

func (f ListFilter) Normalize() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = 20
	}
	if f.PerPage > 100 {
		f.PerPage = 100
	}
	return f
}

func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.PerPage
}

type ReservationPage struct {
	Items   []ReservationListItem `json:"items"`
	Total   int                   `json:"total"`
	Page    int                   `json:"page"`
	PerPage int                   `json:"per_page"`
}

type HistoryView struct {
	ID             uuid.UUID  `json:"id"`
	ReservationID  uuid.UUID  `json:"reservation_id"`
	PreviousStatus string     `json:"previous_status,omitempty"`
	NewStatus      string     `json:"new_status"`
	ChangedBy      *uuid.UUID `json:"changed_by,omitempty"`
	Reason         string     `json:"reason,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type BlockedTimeView struct {
	ID          uuid.UUID   `json:"id"`
	StartAt     time.Time   `json:"start_at"`
	EndAt       time.Time   `json:"end_at"`
	TableIDs    []uuid.UUID `json:"table_ids"`
	Reason      string      `json:"reason"`
	Description string      `json:"description,omitempty"`
	IsRecurring bool        `json:"is_recurring"`
	CreatedAt   time.Time   `json:"created_at"`
}

// DayStats summarizes one service day for the dashboard header.
type DayStats struct {
	Date           time.Time      `json:"date"`
	Total          int            `json:"total"`
	ByStatus       map[string]int `json:"by_status"`
	ExpectedGuests int            `json:"expected_guests"`
}

package response

import (
	"time"

	"tablebook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

const dateLayout = "2006-01-02"

type ReservationResponse struct {
	ID                 uuid.UUID  `json:"id"`
	RestaurantID       uuid.UUID  `json:"restaurant_id"`
	CustomerID         *uuid.UUID `json:"customer_id,omitempty"`
	GuestName          string     `json:"guest_name"`
	GuestEmail         string     `json:"guest_email"`
	GuestPhone         string     `json:"guest_phone"`
	Date               string     `json:"date"`
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

func FromReservationView(view *queries.ReservationView) *ReservationResponse {
	resp := &ReservationResponse{}
	_ = copier.Copy(resp, view)
	resp.Date = view.Date.Format(dateLayout)
	return resp
}

type HistoryResponse struct {
	ID             uuid.UUID  `json:"id"`
	PreviousStatus string     `json:"previous_status,omitempty"`
	NewStatus      string     `json:"new_status"`
	ChangedBy      *uuid.UUID `json:"changed_by,omitempty"`
	Reason         string     `json:"reason,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ReservationDetailResponse pairs the reservation with its transition log for
// the dashboard detail page.
type ReservationDetailResponse struct {
	Reservation *ReservationResponse `json:"reservation"`
	History     []HistoryResponse    `json:"history"`
}

func FromReservationDetail(view *queries.ReservationView, history []queries.HistoryView) *ReservationDetailResponse {
	entries := make([]HistoryResponse, len(history))
	for i, h := range history {
		_ = copier.Copy(&entries[i], &h)
	}
	return &ReservationDetailResponse{
		Reservation: FromReservationView(view),
		History:     entries,
	}
}

type ReservationListItemResponse struct {
	ID               uuid.UUID `json:"id"`
	GuestName        string    `json:"guest_name"`
	GuestPhone       string    `json:"guest_phone"`
	Date             string    `json:"date"`
	Time             string    `json:"time"`
	StartAt          time.Time `json:"start_at"`
	PartySize        int       `json:"party_size"`
	TableNumber      *string   `json:"table_number,omitempty"`
	Status           string    `json:"status"`
	Source           string    `json:"source"`
	ConfirmationCode string    `json:"confirmation_code"`
	CreatedAt        time.Time `json:"created_at"`
}

func FromReservationListItem(item *queries.ReservationListItem) *ReservationListItemResponse {
	resp := &ReservationListItemResponse{}
	_ = copier.Copy(resp, item)
	resp.Date = item.Date.Format(dateLayout)
	return resp
}

func FromReservationListItems(items []queries.ReservationListItem) []*ReservationListItemResponse {
	out := make([]*ReservationListItemResponse, len(items))
	for i := range items {
		out[i] = FromReservationListItem(&items[i])
	}
	return out
}

type ReservationPageResponse struct {
	Items   []*ReservationListItemResponse `json:"items"`
	Total   int                            `json:"total"`
	Page    int                            `json:"page"`
	PerPage int                            `json:"per_page"`
}

func FromReservationPage(page *queries.ReservationPage) *ReservationPageResponse {
	return &ReservationPageResponse{
		Items:   FromReservationListItems(page.Items),
		Total:   page.Total,
		Page:    page.Page,
		PerPage: page.PerPage,
	}
}

type DayStatsResponse struct {
	Date           string         `json:"date"`
	Total          int            `json:"total"`
	ByStatus       map[string]int `json:"by_status"`
	ExpectedGuests int            `json:"expected_guests"`
}

func FromDayStats(stats *queries.DayStats) *DayStatsResponse {
	return &DayStatsResponse{
		Date:           stats.Date.Format(dateLayout),
		Total:          stats.Total,
		ByStatus:       stats.ByStatus,
		ExpectedGuests: stats.ExpectedGuests,
	}
}

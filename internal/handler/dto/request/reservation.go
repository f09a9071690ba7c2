package request

import (
	"errors"
	"strings"
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/pkg/timeutil"
	"tablebook/internal/usecase/commands"
	"tablebook/internal/usecase/queries"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

var errInvalidDate = errors.New("date must be formatted as YYYY-MM-DD")

type CreateReservationRequest struct {
	GuestName       string  `json:"guest_name" binding:"required"`
	GuestEmail      string  `json:"guest_email" binding:"omitempty,email"`
	GuestPhone      string  `json:"guest_phone" binding:"required"`
	Date            string  `json:"date" binding:"required"`
	Time            string  `json:"time" binding:"required"`
	PartySize       int     `json:"party_size" binding:"required,min=1"`
	Source          string  `json:"source" binding:"omitempty"`
	SpecialRequests string  `json:"special_requests" binding:"omitempty,max=1000"`
	CustomerID      *string `json:"customer_id" binding:"omitempty,uuid"`
}

func (r CreateReservationRequest) ToParams(restaurantID uuid.UUID, loc *time.Location) (commands.CreateReservationParams, error) {
	date, err := time.ParseInLocation(dateLayout, r.Date, loc)
	if err != nil {
		return commands.CreateReservationParams{}, errInvalidDate
	}
	tod, err := timeutil.ParseTimeOfDay(r.Time)
	if err != nil {
		return commands.CreateReservationParams{}, err
	}

	var customerID *uuid.UUID
	if r.CustomerID != nil {
		id, err := uuid.Parse(*r.CustomerID)
		if err != nil {
			return commands.CreateReservationParams{}, err
		}
		customerID = &id
	}

	return commands.CreateReservationParams{
		RestaurantID:    restaurantID,
		CustomerID:      customerID,
		GuestName:       strings.TrimSpace(r.GuestName),
		GuestEmail:      strings.TrimSpace(r.GuestEmail),
		GuestPhone:      strings.TrimSpace(r.GuestPhone),
		Date:            date,
		Time:            tod,
		PartySize:       r.PartySize,
		Source:          reservation.Source(r.Source),
		SpecialRequests: strings.TrimSpace(r.SpecialRequests),
	}, nil
}

type StaffCreateReservationRequest struct {
	CreateReservationRequest
	Status        string  `json:"status" binding:"omitempty"`
	TableID       *string `json:"table_id" binding:"omitempty,uuid"`
	InternalNotes string  `json:"internal_notes" binding:"omitempty,max=1000"`
}

func (r StaffCreateReservationRequest) ToParams(restaurantID, actorID uuid.UUID, loc *time.Location) (commands.StaffCreateParams, error) {
	base, err := r.CreateReservationRequest.ToParams(restaurantID, loc)
	if err != nil {
		return commands.StaffCreateParams{}, err
	}

	var tableID *uuid.UUID
	if r.TableID != nil {
		id, err := uuid.Parse(*r.TableID)
		if err != nil {
			return commands.StaffCreateParams{}, err
		}
		tableID = &id
	}

	return commands.StaffCreateParams{
		CreateReservationParams: base,
		Status:                  reservation.Status(r.Status),
		TableID:                 tableID,
		InternalNotes:           strings.TrimSpace(r.InternalNotes),
		ActorID:                 actorID,
	}, nil
}

type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

type CancelByCodeRequest struct {
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
	PhoneDigits      string `json:"phone_digits" binding:"required,min=4"`
	Reason           string `json:"reason" binding:"omitempty,max=500"`
}

type AssignTableRequest struct {
	TableID string `json:"table_id" binding:"required,uuid"`
}

// ListReservationsQuery carries the dashboard list filters as query params.
type ListReservationsQuery struct {
	Date    string `form:"date" binding:"omitempty"`
	Status  string `form:"status" binding:"omitempty"`
	Source  string `form:"source" binding:"omitempty"`
	TableID string `form:"table_id" binding:"omitempty,uuid"`
	Search  string `form:"search" binding:"omitempty,max=100"`
	Page    int    `form:"page" binding:"omitempty,min=1"`
	PerPage int    `form:"per_page" binding:"omitempty,min=1,max=100"`
}

func (q ListReservationsQuery) ToFilter(loc *time.Location) (queries.ListFilter, error) {
	filter := queries.ListFilter{
		Status:  q.Status,
		Source:  q.Source,
		Search:  strings.TrimSpace(q.Search),
		Page:    q.Page,
		PerPage: q.PerPage,
	}
	if q.Date != "" {
		date, err := time.ParseInLocation(dateLayout, q.Date, loc)
		if err != nil {
			return queries.ListFilter{}, errInvalidDate
		}
		filter.Date = &date
	}
	if q.TableID != "" {
		id, err := uuid.Parse(q.TableID)
		if err != nil {
			return queries.ListFilter{}, err
		}
		filter.TableID = &id
	}
	return filter, nil
}

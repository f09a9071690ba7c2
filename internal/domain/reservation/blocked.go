package reservation

import (
	"encoding/json"
	"errors"
	"time"

	"tablebook/internal/pkg/timeutil"

	"github.com/google/uuid"
)

var ErrInvalidBlockedWindow = errors.New("blocked time must end after it starts")

type BlockedReason string

const (
	ReasonHoliday       BlockedReason = "holiday"
	ReasonPrivateEvent  BlockedReason = "private_event"
	ReasonMaintenance   BlockedReason = "maintenance"
	ReasonStaffShortage BlockedReason = "staff_shortage"
	ReasonOther         BlockedReason = "other"
)

func (r BlockedReason) IsValid() bool {
	switch r {
	case ReasonHoliday, ReasonPrivateEvent, ReasonMaintenance, ReasonStaffShortage, ReasonOther:
		return true
	default:
		return false
	}
}

// BlockedTime is an exclusion window. An empty TableIDs set blocks every
// table. RecurrencePattern is stored opaque; only single-instance windows are
// interpreted.
type BlockedTime struct {
	ID                uuid.UUID
	RestaurantID      uuid.UUID
	StartAt           time.Time
	EndAt             time.Time
	TableIDs          []uuid.UUID
	Reason            BlockedReason
	Description       string
	CreatedBy         *uuid.UUID
	IsRecurring       bool
	RecurrencePattern json.RawMessage
	CreatedAt         time.Time
}

func NewBlockedTime(
	restaurantID uuid.UUID,
	startAt, endAt time.Time,
	tableIDs []uuid.UUID,
	reason BlockedReason,
	description string,
	createdBy *uuid.UUID,
	isRecurring bool,
	recurrencePattern json.RawMessage,
	now time.Time,
) (*BlockedTime, error) {
	if !startAt.Before(endAt) {
		return nil, ErrInvalidBlockedWindow
	}
	if reason == "" {
		reason = ReasonOther
	}
	if !reason.IsValid() {
		return nil, errors.New("invalid blocked time reason")
	}
	return &BlockedTime{
		ID:                uuid.New(),
		RestaurantID:      restaurantID,
		StartAt:           startAt,
		EndAt:             endAt,
		TableIDs:          tableIDs,
		Reason:            reason,
		Description:       description,
		CreatedBy:         createdBy,
		IsRecurring:       isRecurring,
		RecurrencePattern: recurrencePattern,
		CreatedAt:         now,
	}, nil
}

func (b *BlockedTime) IsAllTables() bool {
	return len(b.TableIDs) == 0
}

// Covers reports whether instant falls inside the half-open window.
func (b *BlockedTime) Covers(instant time.Time) bool {
	return timeutil.Contains(b.StartAt, b.EndAt, instant)
}

func (b *BlockedTime) AppliesTo(tableID uuid.UUID) bool {
	if b.IsAllTables() {
		return true
	}
	for _, id := range b.TableIDs {
		if id == tableID {
			return true
		}
	}
	return false
}

func (b *BlockedTime) IsActive(now time.Time) bool {
	return b.Covers(now)
}

package reservation

import (
	"time"

	"github.com/google/uuid"
)

// HistoryEntry is one row of the append-only transition log. PreviousStatus
// is empty for the creation entry. Entries are never mutated or deleted.
type HistoryEntry struct {
	ID             uuid.UUID
	ReservationID  uuid.UUID
	PreviousStatus Status
	NewStatus      Status
	ChangedBy      *uuid.UUID
	Notes          string
	CreatedAt      time.Time
}

func NewHistoryEntry(reservationID uuid.UUID, previous, next Status, changedBy *uuid.UUID, notes string, now time.Time) HistoryEntry {
	return HistoryEntry{
		ID:             uuid.New(),
		ReservationID:  reservationID,
		PreviousStatus: previous,
		NewStatus:      next,
		ChangedBy:      changedBy,
		Notes:          notes,
		CreatedAt:      now,
	}
}

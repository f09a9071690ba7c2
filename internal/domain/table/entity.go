// Package table models the dining tables the booking engine allocates.
// Table CRUD itself lives in the calling layer; the engine reads capacity,
// status, and tenant ownership.
package table

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusAvailable   Status = "available"
	StatusOccupied    Status = "occupied"
	StatusReserved    Status = "reserved"
	StatusUnavailable Status = "unavailable"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusOccupied, StatusReserved, StatusUnavailable:
		return true
	default:
		return false
	}
}

type Table struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	SectionID    *uuid.UUID
	Number       string
	Name         string
	Capacity     int
	MinCapacity  int
	Status       Status
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsBookable reports whether slot generation may count this table for a party
// of the given size. Occupied/reserved is a point-in-time floor state and does
// not exclude future slots; only administratively disabled tables do.
func (t Table) IsBookable(partySize int) bool {
	return t.IsActive && t.Status != StatusUnavailable && t.Capacity >= partySize
}

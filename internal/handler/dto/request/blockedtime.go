package request

import (
	"encoding/json"
	"strings"
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/usecase/commands"

	"github.com/google/uuid"
)

type BlockedTimeRequest struct {
	StartAt           time.Time       `json:"start_at" binding:"required"`
	EndAt             time.Time       `json:"end_at" binding:"required"`
	TableIDs          []string        `json:"table_ids" binding:"omitempty,dive,uuid"`
	Reason            string          `json:"reason" binding:"omitempty"`
	Description       string          `json:"description" binding:"omitempty,max=1000"`
	IsRecurring       bool            `json:"is_recurring"`
	RecurrencePattern json.RawMessage `json:"recurrence_pattern" binding:"omitempty"`
}

func (r BlockedTimeRequest) ToParams(restaurantID, actorID uuid.UUID) (commands.BlockedTimeParams, error) {
	tableIDs := make([]uuid.UUID, 0, len(r.TableIDs))
	for _, raw := range r.TableIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return commands.BlockedTimeParams{}, err
		}
		tableIDs = append(tableIDs, id)
	}

	return commands.BlockedTimeParams{
		RestaurantID:      restaurantID,
		StartAt:           r.StartAt,
		EndAt:             r.EndAt,
		TableIDs:          tableIDs,
		Reason:            reservation.BlockedReason(r.Reason),
		Description:       strings.TrimSpace(r.Description),
		IsRecurring:       r.IsRecurring,
		RecurrencePattern: r.RecurrencePattern,
		ActorID:           actorID,
	}, nil
}

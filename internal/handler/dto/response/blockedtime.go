package response

import (
	"encoding/json"
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BlockedTimeResponse struct {
	ID                uuid.UUID       `json:"id"`
	StartAt           time.Time       `json:"start_at"`
	EndAt             time.Time       `json:"end_at"`
	TableIDs          []uuid.UUID     `json:"table_ids"`
	Reason            string          `json:"reason"`
	Description       string          `json:"description,omitempty"`
	IsRecurring       bool            `json:"is_recurring"`
	RecurrencePattern json.RawMessage `json:"recurrence_pattern,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

func FromBlockedTime(bt *reservation.BlockedTime) *BlockedTimeResponse {
	return &BlockedTimeResponse{
		ID:                bt.ID,
		StartAt:           bt.StartAt,
		EndAt:             bt.EndAt,
		TableIDs:          bt.TableIDs,
		Reason:            string(bt.Reason),
		Description:       bt.Description,
		IsRecurring:       bt.IsRecurring,
		RecurrencePattern: bt.RecurrencePattern,
		CreatedAt:         bt.CreatedAt,
	}
}

func FromBlockedTimeViews(views []queries.BlockedTimeView) []*BlockedTimeResponse {
	out := make([]*BlockedTimeResponse, len(views))
	for i := range views {
		resp := &BlockedTimeResponse{}
		_ = copier.Copy(resp, &views[i])
		out[i] = resp
	}
	return out
}

package response

import (
	"tablebook/internal/usecase/queries"

	"github.com/google/uuid"
)

type SlotResponse struct {
	Time            string `json:"time"`
	AvailableTables int    `json:"available_tables"`
}

type AvailabilityResponse struct {
	RestaurantID uuid.UUID      `json:"restaurant_id"`
	Date         string         `json:"date"`
	PartySize    int            `json:"party_size"`
	Status       string         `json:"status"`
	Slots        []SlotResponse `json:"slots"`
}

func FromAvailabilityResult(result *queries.AvailabilityResult) *AvailabilityResponse {
	slots := make([]SlotResponse, len(result.Slots))
	for i, s := range result.Slots {
		slots[i] = SlotResponse{Time: s.Time, AvailableTables: s.AvailableTables}
	}
	return &AvailabilityResponse{
		RestaurantID: result.RestaurantID,
		Date:         result.Date,
		PartySize:    result.PartySize,
		Status:       string(result.Status),
		Slots:        slots,
	}
}

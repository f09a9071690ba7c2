package postgres

import (
	"context"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/infra"
)

type HistoryRepository struct {
	db DBTX
}

func NewHistoryRepository(db DBTX) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Append(ctx context.Context, entry *reservation.HistoryEntry) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO reservation_history (
			id, reservation_id, previous_status, new_status, changed_by, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.ReservationID, entry.PreviousStatus.String(), entry.NewStatus.String(),
		entry.ChangedBy, entry.Notes, entry.CreatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to append history entry", err)
	}
	return nil
}

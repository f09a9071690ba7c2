package postgres

import (
	"context"
	"time"

	"tablebook/internal/domain/reservation"
	"tablebook/internal/infra"
	"tablebook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BlockedTimeRepository struct {
	db DBTX
}

func NewBlockedTimeRepository(db DBTX) *BlockedTimeRepository {
	return &BlockedTimeRepository{db: db}
}

func (r *BlockedTimeRepository) Create(ctx context.Context, bt *reservation.BlockedTime) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO blocked_times (
			id, restaurant_id, start_at, end_at, reason, description,
			created_by, is_recurring, recurrence_pattern, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		bt.ID, bt.RestaurantID, bt.StartAt, bt.EndAt, string(bt.Reason), bt.Description,
		bt.CreatedBy, bt.IsRecurring, bt.RecurrencePattern, bt.CreatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create blocked time", err)
	}
	return r.replaceTableLinks(ctx, bt.ID, bt.TableIDs)
}

func (r *BlockedTimeRepository) FindByID(ctx context.Context, restaurantID, id uuid.UUID) (*reservation.BlockedTime, error) {
	rows, err := r.db.Query(ctx, `
		SELECT b.id, b.restaurant_id, b.start_at, b.end_at, b.reason, b.description,
		       b.created_by, b.is_recurring, b.recurrence_pattern, b.created_at,
		       array_remove(array_agg(t.table_id), NULL)
		FROM blocked_times b
		LEFT JOIN blocked_time_tables t ON t.blocked_time_id = b.id
		WHERE b.restaurant_id = $1 AND b.id = $2
		GROUP BY b.id`,
		restaurantID, id,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find blocked time", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, infra.WrapRepoErr("failed to find blocked time", err)
		}
		return nil, infra.WrapRepoErr("blocked time not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	bt, err := scanBlockedTime(rows)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan blocked time", err)
	}
	return bt, nil
}

func (r *BlockedTimeRepository) Update(ctx context.Context, bt *reservation.BlockedTime) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE blocked_times SET
			start_at = $2, end_at = $3, reason = $4, description = $5,
			is_recurring = $6, recurrence_pattern = $7
		WHERE id = $1`,
		bt.ID, bt.StartAt, bt.EndAt, string(bt.Reason), bt.Description,
		bt.IsRecurring, bt.RecurrencePattern,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update blocked time", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("blocked time not found", nil, infra.KindNotFound)
	}
	return r.replaceTableLinks(ctx, bt.ID, bt.TableIDs)
}

func (r *BlockedTimeRepository) Delete(ctx context.Context, restaurantID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM blocked_times WHERE restaurant_id = $1 AND id = $2`,
		restaurantID, id,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to delete blocked time", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("blocked time not found", nil, infra.KindNotFound)
	}
	return nil
}

// ListInWindow returns windows overlapping [from, to), table scopes included.
func (r *BlockedTimeRepository) ListInWindow(ctx context.Context, restaurantID uuid.UUID, from, to time.Time) ([]*reservation.BlockedTime, error) {
	rows, err := r.db.Query(ctx, `
		SELECT b.id, b.restaurant_id, b.start_at, b.end_at, b.reason, b.description,
		       b.created_by, b.is_recurring, b.recurrence_pattern, b.created_at,
		       array_remove(array_agg(t.table_id), NULL)
		FROM blocked_times b
		LEFT JOIN blocked_time_tables t ON t.blocked_time_id = b.id
		WHERE b.restaurant_id = $1 AND b.start_at < $3 AND b.end_at > $2
		GROUP BY b.id
		ORDER BY b.start_at`,
		restaurantID, from, to,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list blocked times", err)
	}
	defer rows.Close()

	var result []*reservation.BlockedTime
	for rows.Next() {
		bt, err := scanBlockedTime(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan blocked time", err)
		}
		result = append(result, bt)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read blocked times", err)
	}
	return result, nil
}

// ListForRange serves the dashboard read side.
func (r *BlockedTimeRepository) ListForRange(ctx context.Context, restaurantID uuid.UUID, from, to time.Time) ([]queries.BlockedTimeView, error) {
	windows, err := r.ListInWindow(ctx, restaurantID, from, to)
	if err != nil {
		return nil, err
	}
	views := make([]queries.BlockedTimeView, 0, len(windows))
	for _, bt := range windows {
		views = append(views, queries.BlockedTimeView{
			ID:          bt.ID,
			StartAt:     bt.StartAt,
			EndAt:       bt.EndAt,
			TableIDs:    bt.TableIDs,
			Reason:      string(bt.Reason),
			Description: bt.Description,
			IsRecurring: bt.IsRecurring,
			CreatedAt:   bt.CreatedAt,
		})
	}
	return views, nil
}

func (r *BlockedTimeRepository) replaceTableLinks(ctx context.Context, blockedTimeID uuid.UUID, tableIDs []uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `
		DELETE FROM blocked_time_tables WHERE blocked_time_id = $1`, blockedTimeID,
	); err != nil {
		return infra.WrapRepoErr("failed to clear blocked time tables", err)
	}
	for _, tableID := range tableIDs {
		if _, err := r.db.Exec(ctx, `
			INSERT INTO blocked_time_tables (blocked_time_id, table_id) VALUES ($1, $2)`,
			blockedTimeID, tableID,
		); err != nil {
			return infra.WrapRepoErr("failed to link blocked time table", err)
		}
	}
	return nil
}

func scanBlockedTime(rows pgx.Rows) (*reservation.BlockedTime, error) {
	var bt reservation.BlockedTime
	var reason string
	err := rows.Scan(
		&bt.ID, &bt.RestaurantID, &bt.StartAt, &bt.EndAt, &reason, &bt.Description,
		&bt.CreatedBy, &bt.IsRecurring, &bt.RecurrencePattern, &bt.CreatedAt,
		&bt.TableIDs,
	)
	if err != nil {
		return nil, err
	}
	bt.Reason = reservation.BlockedReason(reason)
	return &bt, nil
}

package postgres

import (
	"context"
	"errors"

	"tablebook/internal/domain/table"
	"tablebook/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const tableColumns = `
	id, restaurant_id, section_id, number, name, capacity, min_capacity,
	status, is_active, created_at, updated_at`

type TableRepository struct {
	db DBTX
}

func NewTableRepository(db DBTX) *TableRepository {
	return &TableRepository{db: db}
}

func (r *TableRepository) FindByID(ctx context.Context, id uuid.UUID) (table.Table, error) {
	row := r.db.QueryRow(ctx, `
		SELECT`+tableColumns+`
		FROM dining_tables
		WHERE id = $1`,
		id,
	)
	t, err := scanTable(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return table.Table{}, infra.WrapRepoErr("table not found", err, infra.KindNotFound)
		}
		return table.Table{}, infra.WrapRepoErr("failed to find table by ID", err)
	}
	return t, nil
}

func (r *TableRepository) ListActive(ctx context.Context, restaurantID uuid.UUID) ([]table.Table, error) {
	rows, err := r.db.Query(ctx, `
		SELECT`+tableColumns+`
		FROM dining_tables
		WHERE restaurant_id = $1 AND is_active
		ORDER BY number`,
		restaurantID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list tables", err)
	}
	defer rows.Close()

	var tables []table.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan table", err)
		}
		tables = append(tables, t)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read tables", err)
	}
	return tables, nil
}

func scanTable(row pgx.Row) (table.Table, error) {
	var t table.Table
	var status string
	err := row.Scan(
		&t.ID, &t.RestaurantID, &t.SectionID, &t.Number, &t.Name, &t.Capacity, &t.MinCapacity,
		&status, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return table.Table{}, err
	}
	t.Status = table.Status(status)
	return t, nil
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// WidgetRepository stores dashboard widget configuration rows.
type WidgetRepository interface {
	Create(ctx context.Context, widget *domain.DashboardWidget) error
	Update(ctx context.Context, widget *domain.DashboardWidget) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.DashboardWidget, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.DashboardWidget, error)
}

type widgetRepository struct {
	pool *pgxpool.Pool
}

// NewWidgetRepository builds repository.
func NewWidgetRepository(pool *pgxpool.Pool) WidgetRepository {
	return &widgetRepository{pool: pool}
}

func (r *widgetRepository) Create(ctx context.Context, widget *domain.DashboardWidget) error {
	position, err := json.Marshal(widget.Position)
	if err != nil {
		return fmt.Errorf("marshal position: %w", err)
	}
	const query = `
        INSERT INTO dashboard_widgets (owner_id, widget_type, title, position, config)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		widget.OwnerID,
		widget.Type,
		widget.Title,
		position,
		widget.Config,
	).Scan(&widget.ID, &widget.CreatedAt, &widget.UpdatedAt)
}

func (r *widgetRepository) Update(ctx context.Context, widget *domain.DashboardWidget) error {
	position, err := json.Marshal(widget.Position)
	if err != nil {
		return fmt.Errorf("marshal position: %w", err)
	}
	const query = `
        UPDATE dashboard_widgets SET widget_type=$1, title=$2, position=$3, config=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		widget.Type,
		widget.Title,
		position,
		widget.Config,
		widget.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *widgetRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM dashboard_widgets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *widgetRepository) GetByID(ctx context.Context, id string) (*domain.DashboardWidget, error) {
	const query = `
        SELECT id, owner_id, widget_type, title, position, config, created_at, updated_at
        FROM dashboard_widgets WHERE id=$1`
	return scanWidgetRow(r.pool.QueryRow(ctx, query, id))
}

func (r *widgetRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.DashboardWidget, error) {
	const query = `
        SELECT id, owner_id, widget_type, title, position, config, created_at, updated_at
        FROM dashboard_widgets WHERE owner_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.DashboardWidget
	for rows.Next() {
		widget, err := scanWidgetRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *widget)
	}
	return result, rows.Err()
}

func scanWidgetRow(row pgx.Row) (*domain.DashboardWidget, error) {
	var widget domain.DashboardWidget
	var position []byte
	if err := row.Scan(
		&widget.ID,
		&widget.OwnerID,
		&widget.Type,
		&widget.Title,
		&position,
		&widget.Config,
		&widget.CreatedAt,
		&widget.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(position, &widget.Position); err != nil {
		return nil, fmt.Errorf("unmarshal position: %w", err)
	}
	return &widget, nil
}

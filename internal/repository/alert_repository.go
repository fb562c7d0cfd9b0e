package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// AlertRepository stores smart alert configuration and history.
type AlertRepository interface {
	Create(ctx context.Context, alert *domain.SmartAlert) error
	Update(ctx context.Context, alert *domain.SmartAlert) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.SmartAlert, error)
	ListEnabled(ctx context.Context) ([]domain.SmartAlert, error)
	List(ctx context.Context) ([]domain.SmartAlert, error)
	MarkTriggered(ctx context.Context, alertID string, at time.Time) error
	AddHistory(ctx context.Context, entry *domain.AlertHistory) error
	ListHistory(ctx context.Context, alertID string, limit int) ([]domain.AlertHistory, error)
}

type alertRepository struct {
	pool *pgxpool.Pool
}

// NewAlertRepository builds repository.
func NewAlertRepository(pool *pgxpool.Pool) AlertRepository {
	return &alertRepository{pool: pool}
}

const alertColumns = `id, name, metric, operator, threshold, enabled, cooldown_minutes, last_triggered_at, created_by, created_at, updated_at`

func (r *alertRepository) Create(ctx context.Context, alert *domain.SmartAlert) error {
	const query = `
        INSERT INTO smart_alerts (name, metric, operator, threshold, enabled, cooldown_minutes, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		alert.Name,
		alert.Metric,
		alert.Operator,
		alert.Threshold,
		alert.Enabled,
		alert.CooldownMinutes,
		alert.CreatedBy,
	).Scan(&alert.ID, &alert.CreatedAt, &alert.UpdatedAt)
}

func (r *alertRepository) Update(ctx context.Context, alert *domain.SmartAlert) error {
	const query = `
        UPDATE smart_alerts SET name=$1, metric=$2, operator=$3, threshold=$4, enabled=$5,
            cooldown_minutes=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		alert.Name,
		alert.Metric,
		alert.Operator,
		alert.Threshold,
		alert.Enabled,
		alert.CooldownMinutes,
		alert.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *alertRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM smart_alerts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *alertRepository) GetByID(ctx context.Context, id string) (*domain.SmartAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM smart_alerts WHERE id=$1`
	var alert domain.SmartAlert
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&alert.ID,
		&alert.Name,
		&alert.Metric,
		&alert.Operator,
		&alert.Threshold,
		&alert.Enabled,
		&alert.CooldownMinutes,
		&alert.LastTriggeredAt,
		&alert.CreatedBy,
		&alert.CreatedAt,
		&alert.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *alertRepository) ListEnabled(ctx context.Context) ([]domain.SmartAlert, error) {
	return r.list(ctx, `SELECT `+alertColumns+` FROM smart_alerts WHERE enabled ORDER BY created_at ASC`)
}

func (r *alertRepository) List(ctx context.Context) ([]domain.SmartAlert, error) {
	return r.list(ctx, `SELECT `+alertColumns+` FROM smart_alerts ORDER BY created_at ASC`)
}

func (r *alertRepository) list(ctx context.Context, query string) ([]domain.SmartAlert, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SmartAlert
	for rows.Next() {
		var alert domain.SmartAlert
		if err := rows.Scan(
			&alert.ID,
			&alert.Name,
			&alert.Metric,
			&alert.Operator,
			&alert.Threshold,
			&alert.Enabled,
			&alert.CooldownMinutes,
			&alert.LastTriggeredAt,
			&alert.CreatedBy,
			&alert.CreatedAt,
			&alert.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, alert)
	}
	return result, rows.Err()
}

func (r *alertRepository) MarkTriggered(ctx context.Context, alertID string, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE smart_alerts SET last_triggered_at=$1, updated_at=NOW() WHERE id=$2`, at, alertID)
	return err
}

func (r *alertRepository) AddHistory(ctx context.Context, entry *domain.AlertHistory) error {
	const query = `
        INSERT INTO alert_history (alert_id, metric, value, threshold)
        VALUES ($1,$2,$3,$4)
        RETURNING id, triggered_at`
	return r.pool.QueryRow(ctx, query,
		entry.AlertID,
		entry.Metric,
		entry.Value,
		entry.Threshold,
	).Scan(&entry.ID, &entry.TriggeredAt)
}

func (r *alertRepository) ListHistory(ctx context.Context, alertID string, limit int) ([]domain.AlertHistory, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
        SELECT id, alert_id, metric, value, threshold, triggered_at
        FROM alert_history WHERE alert_id=$1 ORDER BY triggered_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, alertID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AlertHistory
	for rows.Next() {
		var entry domain.AlertHistory
		if err := rows.Scan(
			&entry.ID,
			&entry.AlertID,
			&entry.Metric,
			&entry.Value,
			&entry.Threshold,
			&entry.TriggeredAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

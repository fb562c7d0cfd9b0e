package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// ReportRepository stores auto report configuration and run history.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.AutoReport) error
	Update(ctx context.Context, report *domain.AutoReport) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.AutoReport, error)
	List(ctx context.Context) ([]domain.AutoReport, error)
	ListDue(ctx context.Context, now time.Time) ([]domain.AutoReport, error)
	MarkRun(ctx context.Context, reportID string, ranAt, nextRun time.Time) error
	AddHistory(ctx context.Context, entry *domain.ReportHistory) error
	ListHistory(ctx context.Context, reportID string, limit int) ([]domain.ReportHistory, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository builds repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

const reportColumns = `id, name, period, format, recipients, enabled, last_run_at, next_run_at, created_by, created_at, updated_at`

func (r *reportRepository) Create(ctx context.Context, report *domain.AutoReport) error {
	const query = `
        INSERT INTO auto_reports (name, period, format, recipients, enabled, next_run_at, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		report.Name,
		report.Period,
		report.Format,
		report.Recipients,
		report.Enabled,
		report.NextRunAt,
		report.CreatedBy,
	).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
}

func (r *reportRepository) Update(ctx context.Context, report *domain.AutoReport) error {
	const query = `
        UPDATE auto_reports SET name=$1, period=$2, format=$3, recipients=$4, enabled=$5, next_run_at=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		report.Name,
		report.Period,
		report.Format,
		report.Recipients,
		report.Enabled,
		report.NextRunAt,
		report.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *reportRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM auto_reports WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*domain.AutoReport, error) {
	query := `SELECT ` + reportColumns + ` FROM auto_reports WHERE id=$1`
	var report domain.AutoReport
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&report.ID,
		&report.Name,
		&report.Period,
		&report.Format,
		&report.Recipients,
		&report.Enabled,
		&report.LastRunAt,
		&report.NextRunAt,
		&report.CreatedBy,
		&report.CreatedAt,
		&report.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) List(ctx context.Context) ([]domain.AutoReport, error) {
	return r.list(ctx, `SELECT `+reportColumns+` FROM auto_reports ORDER BY created_at ASC`)
}

func (r *reportRepository) ListDue(ctx context.Context, now time.Time) ([]domain.AutoReport, error) {
	query := `SELECT ` + reportColumns + ` FROM auto_reports
        WHERE enabled AND (next_run_at IS NULL OR next_run_at <= $1) ORDER BY next_run_at ASC NULLS FIRST`
	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

func (r *reportRepository) list(ctx context.Context, query string) ([]domain.AutoReport, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

func scanReports(rows pgx.Rows) ([]domain.AutoReport, error) {
	var result []domain.AutoReport
	for rows.Next() {
		var report domain.AutoReport
		if err := rows.Scan(
			&report.ID,
			&report.Name,
			&report.Period,
			&report.Format,
			&report.Recipients,
			&report.Enabled,
			&report.LastRunAt,
			&report.NextRunAt,
			&report.CreatedBy,
			&report.CreatedAt,
			&report.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, report)
	}
	return result, rows.Err()
}

func (r *reportRepository) MarkRun(ctx context.Context, reportID string, ranAt, nextRun time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE auto_reports SET last_run_at=$1, next_run_at=$2, updated_at=NOW() WHERE id=$3`,
		ranAt, nextRun, reportID)
	return err
}

func (r *reportRepository) AddHistory(ctx context.Context, entry *domain.ReportHistory) error {
	const query = `
        INSERT INTO report_history (report_id, period, range_from, range_to, payload)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, generated_at`
	return r.pool.QueryRow(ctx, query,
		entry.ReportID,
		entry.Period,
		entry.RangeFrom,
		entry.RangeTo,
		entry.Payload,
	).Scan(&entry.ID, &entry.GeneratedAt)
}

func (r *reportRepository) ListHistory(ctx context.Context, reportID string, limit int) ([]domain.ReportHistory, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `
        SELECT id, report_id, period, range_from, range_to, payload, generated_at
        FROM report_history WHERE report_id=$1 ORDER BY generated_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, reportID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ReportHistory
	for rows.Next() {
		var entry domain.ReportHistory
		if err := rows.Scan(
			&entry.ID,
			&entry.ReportID,
			&entry.Period,
			&entry.RangeFrom,
			&entry.RangeTo,
			&entry.Payload,
			&entry.GeneratedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/sla"
)

// RealtimeMetrics is the SQL-side snapshot the dashboard header shows.
type RealtimeMetrics struct {
	OpenTickets        int64   `json:"open_tickets"`
	InProgressTickets  int64   `json:"in_progress_tickets"`
	TicketsToday       int64   `json:"tickets_today"`
	ResolvedToday      int64   `json:"resolved_today"`
	BreachedTickets    int64   `json:"breached_tickets"`
	AvgResolutionHours float64 `json:"avg_resolution_hours"`
}

// MetricsRepository computes realtime aggregates in Postgres.
type MetricsRepository interface {
	Realtime(ctx context.Context, now time.Time) (RealtimeMetrics, error)
}

type metricsRepository struct {
	pool   *pgxpool.Pool
	policy sla.Policy
}

// NewMetricsRepository builds repository. The policy supplies the per-priority
// breach budgets so the SQL count matches the Go evaluator, overrides included.
func NewMetricsRepository(pool *pgxpool.Pool, policy sla.Policy) MetricsRepository {
	return &metricsRepository{pool: pool, policy: policy}
}

// Realtime counts the dashboard headline numbers in one pass over tickets.
func (r *metricsRepository) Realtime(ctx context.Context, now time.Time) (RealtimeMetrics, error) {
	var m RealtimeMetrics
	row := r.pool.QueryRow(ctx, `
        SELECT
            COUNT(*) FILTER (WHERE status = 'open'),
            COUNT(*) FILTER (WHERE status = 'in_progress'),
            COUNT(*) FILTER (WHERE created_at >= date_trunc('day', $1::timestamptz)),
            COUNT(*) FILTER (WHERE resolved_at >= date_trunc('day', $1::timestamptz)),
            COUNT(*) FILTER (
                WHERE status NOT IN ('resolved','closed')
                  AND created_at + make_interval(hours => CASE priority
                        WHEN 'urgent' THEN $2::int
                        WHEN 'high' THEN $3::int
                        WHEN 'medium' THEN $4::int
                        WHEN 'low' THEN $5::int
                        ELSE $6::int END) < $1::timestamptz
            ),
            COALESCE(AVG(EXTRACT(EPOCH FROM (resolved_at - created_at)) / 3600.0)
                     FILTER (WHERE resolved_at IS NOT NULL), 0)
        FROM tickets
    `, now,
		r.policy.HoursFor(domain.TicketPriorityUrgent),
		r.policy.HoursFor(domain.TicketPriorityHigh),
		r.policy.HoursFor(domain.TicketPriorityMedium),
		r.policy.HoursFor(domain.TicketPriorityLow),
		r.policy.HoursFor(""))
	if err := row.Scan(
		&m.OpenTickets,
		&m.InProgressTickets,
		&m.TicketsToday,
		&m.ResolvedToday,
		&m.BreachedTickets,
		&m.AvgResolutionHours,
	); err != nil {
		return RealtimeMetrics{}, err
	}
	return m, nil
}

// Value returns the single metric an alert condition references.
func (m RealtimeMetrics) Value(metric domain.AlertMetric) (float64, bool) {
	switch metric {
	case domain.MetricOpenTickets:
		return float64(m.OpenTickets), true
	case domain.MetricBreachedTickets:
		return float64(m.BreachedTickets), true
	case domain.MetricTicketsToday:
		return float64(m.TicketsToday), true
	case domain.MetricAvgResolutionHours:
		return m.AvgResolutionHours, true
	default:
		return 0, false
	}
}

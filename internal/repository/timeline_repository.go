package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// TimelineRepository stores the append-only ticket audit log.
type TimelineRepository interface {
	Create(ctx context.Context, item *domain.TimelineItem) error
	ListByTicket(ctx context.Context, ticketID string, limit, offset int) ([]domain.TimelineItem, error)
	HasBreachEntry(ctx context.Context, ticketID string) (bool, error)
}

type timelineRepository struct {
	pool *pgxpool.Pool
}

// NewTimelineRepository builds repository.
func NewTimelineRepository(pool *pgxpool.Pool) TimelineRepository {
	return &timelineRepository{pool: pool}
}

func (r *timelineRepository) Create(ctx context.Context, item *domain.TimelineItem) error {
	const query = `
        INSERT INTO ticket_timeline (ticket_id, action_type, previous_value, new_value, user_id, user_type, metadata)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		item.TicketID,
		item.ActionType,
		item.PreviousValue,
		item.NewValue,
		item.UserID,
		item.UserType,
		item.Metadata,
	).Scan(&item.ID, &item.CreatedAt)
}

func (r *timelineRepository) ListByTicket(ctx context.Context, ticketID string, limit, offset int) ([]domain.TimelineItem, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, ticket_id, action_type, previous_value, new_value, user_id, user_type, metadata, created_at
        FROM ticket_timeline WHERE ticket_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, ticketID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TimelineItem
	for rows.Next() {
		var item domain.TimelineItem
		if err := rows.Scan(
			&item.ID,
			&item.TicketID,
			&item.ActionType,
			&item.PreviousValue,
			&item.NewValue,
			&item.UserID,
			&item.UserType,
			&item.Metadata,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

// HasBreachEntry reports whether a breach was already recorded for a ticket,
// keeping the sweep idempotent.
func (r *timelineRepository) HasBreachEntry(ctx context.Context, ticketID string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM ticket_timeline WHERE ticket_id=$1 AND action_type=$2
        )`
	var exists bool
	err := r.pool.QueryRow(ctx, query, ticketID, domain.ActionSLABreach).Scan(&exists)
	return exists, err
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/sla"
)

// BreachService sweeps open tickets past their response deadline and records
// one sla_breach timeline entry per ticket. The entry is written once; later
// sweeps skip tickets already marked.
type BreachService struct {
	tickets    repository.TicketRepository
	timeline   repository.TimelineRepository
	dispatcher events.Dispatcher
	policy     sla.Policy
	logger     *zap.Logger
}

// NewBreachService wires dependencies.
func NewBreachService(tickets repository.TicketRepository, tl repository.TimelineRepository, dispatcher events.Dispatcher, policy sla.Policy, logger *zap.Logger) *BreachService {
	return &BreachService{
		tickets:    tickets,
		timeline:   tl,
		dispatcher: dispatcher,
		policy:     policy,
		logger:     logger,
	}
}

// Sweep finds newly breached tickets and audits them. Returns the number of
// breaches recorded this pass.
func (s *BreachService) Sweep(ctx context.Context, now time.Time) (int, error) {
	candidates, err := s.tickets.ListOpenPastDeadline(ctx)
	if err != nil {
		return 0, err
	}

	recorded := 0
	for i := range candidates {
		ticket := &candidates[i]
		result := sla.Evaluate(ticket, s.policy, now)
		if !result.Breached {
			continue
		}
		seen, err := s.timeline.HasBreachEntry(ctx, ticket.ID)
		if err != nil {
			s.logger.Error("breach lookup failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
			continue
		}
		if seen {
			continue
		}

		deadline := result.Deadline.Format(time.RFC3339)
		overdue := fmt.Sprintf("overdue by %s", (-result.Remaining).Round(time.Minute))
		entry := &domain.TimelineItem{
			TicketID:      ticket.ID,
			ActionType:    domain.ActionSLABreach,
			PreviousValue: &deadline,
			NewValue:      &overdue,
			UserType:      domain.ActorTypeSystem,
			Metadata: map[string]any{
				"priority":  ticket.Priority,
				"sla_hours": result.SLAHours,
			},
		}
		if err := s.timeline.Create(ctx, entry); err != nil {
			s.logger.Error("breach entry write failed", zap.String("ticket_id", ticket.ID), zap.Error(err))
			continue
		}
		recorded++
		s.logger.Warn("sla breached",
			zap.String("ticket_id", ticket.ID),
			zap.String("priority", string(ticket.Priority)),
			zap.Time("deadline", result.Deadline))

		if s.dispatcher != nil {
			_ = s.dispatcher.Publish(ctx, events.Event{
				ID:        uuid.NewString(),
				Type:      events.EventSLABreached,
				Table:     "tickets",
				Change:    events.ChangeUpdate,
				TicketID:  ticket.ID,
				Actor:     events.Actor{Type: domain.ActorTypeSystem},
				Timestamp: now,
				Payload: events.SLABreachedPayload{
					Priority: ticket.Priority,
					Deadline: result.Deadline,
				},
			})
		}
	}
	return recorded, nil
}

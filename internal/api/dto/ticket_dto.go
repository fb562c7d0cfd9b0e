package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/sla"
	"github.com/spec-kit/helpdesk-service/internal/timeline"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	Category    string                `json:"category"`
	CustomerID  string                `json:"customer_id"`
	AgentID     *string               `json:"agent_id"`
	Tags        []string              `json:"tags"`
	Draft       bool                  `json:"draft"`
}

// UpdateTicketRequest payload; omitted fields stay unchanged.
type UpdateTicketRequest struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	Priority    *domain.TicketPriority `json:"priority"`
	Category    *string                `json:"category"`
	Tags        []string               `json:"tags"`
	Reason      string                 `json:"reason"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status  domain.TicketStatus `json:"status"`
	Comment string              `json:"comment"`
}

// BulkStatusRequest payload.
type BulkStatusRequest struct {
	TicketIDs []string            `json:"ticket_ids"`
	Status    domain.TicketStatus `json:"status"`
	Comment   string              `json:"comment"`
}

// BulkStatusResponse reports the outcome per id.
type BulkStatusResponse struct {
	Updated []string `json:"updated"`
	Skipped []string `json:"skipped"`
}

// AssignRequest payload; a null agent_id unassigns.
type AssignRequest struct {
	AgentID *string `json:"agent_id"`
}

// EscalateRequest payload.
type EscalateRequest struct {
	Reason string `json:"reason"`
}

// CreateMessageRequest payload.
type CreateMessageRequest struct {
	Body     string `json:"body"`
	Internal bool   `json:"internal"`
}

// TicketSummary response.
type TicketSummary struct {
	ID         string                `json:"id"`
	Title      string                `json:"title"`
	Status     domain.TicketStatus   `json:"status"`
	Priority   domain.TicketPriority `json:"priority"`
	Category   string                `json:"category,omitempty"`
	CustomerID string                `json:"customer_id"`
	AgentID    *string               `json:"agent_id"`
	Tags       []string              `json:"tags,omitempty"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
	ResolvedAt *time.Time            `json:"resolved_at,omitempty"`
}

// SLAResponse is the deadline projection for one ticket.
type SLAResponse struct {
	Hours            int       `json:"sla_hours"`
	Deadline         time.Time `json:"deadline"`
	RemainingMinutes int64     `json:"remaining_minutes"`
	Breached         bool      `json:"breached"`
}

// TicketMessageResponse represents one thread entry.
type TicketMessageResponse struct {
	ID         string           `json:"id"`
	AuthorType domain.ActorType `json:"author_type"`
	AuthorID   *string          `json:"author_id"`
	Body       string           `json:"body"`
	Internal   bool             `json:"internal"`
	CreatedAt  time.Time        `json:"created_at"`
}

// TimelineEntryResponse is one resolved audit entry.
type TimelineEntryResponse struct {
	ID            string                `json:"id"`
	Action        domain.TimelineAction `json:"action"`
	PreviousValue *string               `json:"previous_value,omitempty"`
	NewValue      *string               `json:"new_value,omitempty"`
	ActorName     string                `json:"actor_name"`
	ActorType     domain.ActorType      `json:"actor_type"`
	ActorUnknown  bool                  `json:"actor_unknown,omitempty"`
	Metadata      map[string]any        `json:"metadata,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
}

// TimelineGroupResponse is one day bucket of entries.
type TimelineGroupResponse struct {
	Label   string                  `json:"label"`
	Entries []TimelineEntryResponse `json:"entries"`
}

// TicketDetailResponse provides the full ticket view.
type TicketDetailResponse struct {
	TicketSummary
	Description string                  `json:"description"`
	SLA         SLAResponse             `json:"sla"`
	Messages    []TicketMessageResponse `json:"messages"`
	Timeline    []TimelineGroupResponse `json:"timeline"`
}

// NewTicketSummary maps a domain ticket.
func NewTicketSummary(t *domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:         t.ID,
		Title:      t.Title,
		Status:     t.Status,
		Priority:   t.Priority,
		Category:   t.Category,
		CustomerID: t.CustomerID,
		AgentID:    t.AgentID,
		Tags:       t.Tags,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
		ResolvedAt: t.ResolvedAt,
	}
}

// NewSLAResponse maps an evaluation result.
func NewSLAResponse(result sla.Result) SLAResponse {
	return SLAResponse{
		Hours:            result.SLAHours,
		Deadline:         result.Deadline,
		RemainingMinutes: int64(result.Remaining.Minutes()),
		Breached:         result.Breached,
	}
}

// NewTimelineGroups maps grouped audit entries with resolved actors.
func NewTimelineGroups(groups []timeline.Group, actors map[string]timeline.Actor) []TimelineGroupResponse {
	out := make([]TimelineGroupResponse, 0, len(groups))
	for _, group := range groups {
		entries := make([]TimelineEntryResponse, 0, len(group.Items))
		for _, item := range group.Items {
			actor := actors[item.ID]
			entries = append(entries, TimelineEntryResponse{
				ID:            item.ID,
				Action:        item.ActionType,
				PreviousValue: item.PreviousValue,
				NewValue:      item.NewValue,
				ActorName:     actor.Name,
				ActorType:     actor.Type,
				ActorUnknown:  actor.Unknown,
				Metadata:      item.Metadata,
				CreatedAt:     item.CreatedAt,
			})
		}
		out = append(out, TimelineGroupResponse{Label: group.Label, Entries: entries})
	}
	return out
}

// NewTicketMessages maps thread entries.
func NewTicketMessages(msgs []domain.TicketMessage) []TicketMessageResponse {
	out := make([]TicketMessageResponse, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, TicketMessageResponse{
			ID:         msg.ID,
			AuthorType: msg.AuthorType,
			AuthorID:   msg.AuthorID,
			Body:       msg.Body,
			Internal:   msg.Internal,
			CreatedAt:  msg.CreatedAt,
		})
	}
	return out
}

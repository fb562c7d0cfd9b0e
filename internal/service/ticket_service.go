package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/sla"
	"github.com/spec-kit/helpdesk-service/internal/timeline"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	messages   repository.MessageRepository
	timeline   repository.TimelineRepository
	versions   repository.VersionRepository
	customers  repository.CustomerRepository
	agents     repository.AgentRepository
	dispatcher events.Dispatcher
	slaPolicy  sla.Policy
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	MessageRepo  repository.MessageRepository
	TimelineRepo repository.TimelineRepository
	VersionRepo  repository.VersionRepository
	CustomerRepo repository.CustomerRepository
	AgentRepo    repository.AgentRepository
	Dispatcher   events.Dispatcher
	SLAPolicy    sla.Policy
}

// NewTicketService wires dependencies.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		messages:   deps.MessageRepo,
		timeline:   deps.TimelineRepo,
		versions:   deps.VersionRepo,
		customers:  deps.CustomerRepo,
		agents:     deps.AgentRepo,
		dispatcher: deps.Dispatcher,
		slaPolicy:  deps.SLAPolicy,
	}
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	Category    string
	CustomerID  string
	AgentID     *string
	Tags        []string
	Draft       bool
}

// TicketUpdateInput carries optional field changes; nil means unchanged.
type TicketUpdateInput struct {
	Title       *string
	Description *string
	Priority    *domain.TicketPriority
	Category    *string
	Tags        []string
	Reason      string
}

// TicketDetail is the assembled view for a single ticket.
type TicketDetail struct {
	Ticket   *domain.Ticket
	SLA      sla.Result
	Messages []domain.TicketMessage
	Timeline []timeline.Group
	Actors   map[string]timeline.Actor
}

// Actor names the caller for audit purposes.
type Actor struct {
	ID   *string
	Type domain.ActorType
}

// SystemActor is used by background sweeps.
var SystemActor = Actor{Type: domain.ActorTypeSystem}

// CreateTicket persists a new ticket with its opening timeline entry and
// initial version snapshot.
func (s *TicketService) CreateTicket(ctx context.Context, actor Actor, input TicketCreateInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	if input.CustomerID == "" {
		return nil, apperrors.NewValidationError("customer_id required", nil)
	}
	if _, err := s.customers.GetByID(ctx, input.CustomerID); err != nil {
		return nil, apperrors.NewNotFound("customer", map[string]any{"customer_id": input.CustomerID})
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	status := domain.TicketStatusOpen
	if input.Draft {
		status = domain.TicketStatusDraft
	}

	ticket := &domain.Ticket{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      status,
		Priority:    priority,
		Category:    input.Category,
		CustomerID:  input.CustomerID,
		AgentID:     input.AgentID,
		Tags:        input.Tags,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.record(ctx, actor, ticket.ID, domain.ActionTicketCreated, nil, strPtr(string(status)), nil)
	if _, err := s.versions.CreateVersion(ctx, ticket.ID, domain.SnapshotOf(ticket), actor.ID, "ticket created", domain.VersionChangeAuto); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		Table:    "tickets",
		Change:   events.ChangeInsert,
		TicketID: ticket.ID,
		Actor:    eventActor(actor),
		Payload:  ticketEventPayload(ticket),
	})
	return ticket, nil
}

// GetTicketDetail assembles the full ticket view: SLA projection, thread,
// grouped timeline and resolved actors.
func (s *TicketService) GetTicketDetail(ctx context.Context, ticketID string, includeInternal bool, now time.Time) (*TicketDetail, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	msgs, err := s.messages.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !includeInternal {
		visible := make([]domain.TicketMessage, 0, len(msgs))
		for _, msg := range msgs {
			if msg.Internal {
				continue
			}
			visible = append(visible, msg)
		}
		msgs = visible
	}

	items, err := s.timeline.ListByTicket(ctx, ticketID, 200, 0)
	if err != nil {
		return nil, err
	}

	agents, err := s.agents.List(ctx)
	if err != nil {
		return nil, err
	}
	customer, err := s.customers.GetByID(ctx, ticket.CustomerID)
	if err != nil {
		return nil, err
	}
	resolver := timeline.NewResolver(agents, []domain.Customer{*customer})

	actors := make(map[string]timeline.Actor, len(items))
	for _, item := range items {
		actors[item.ID] = resolver.Resolve(item)
	}

	return &TicketDetail{
		Ticket:   ticket,
		SLA:      sla.Evaluate(ticket, s.slaPolicy, now),
		Messages: msgs,
		Timeline: timeline.GroupByDay(items, now),
		Actors:   actors,
	}, nil
}

// ListTickets applies the dashboard filter.
func (s *TicketService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	return s.tickets.ListWithFilter(ctx, filter)
}

// UpdateTicket applies field edits, recording one timeline entry per changed
// field and an auto version snapshot covering the whole edit.
func (s *TicketService) UpdateTicket(ctx context.Context, actor Actor, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	changed := false
	if input.Title != nil && *input.Title != ticket.Title {
		ticket.Title = *input.Title
		changed = true
	}
	if input.Description != nil && *input.Description != ticket.Description {
		ticket.Description = *input.Description
		changed = true
	}
	if input.Priority != nil && *input.Priority != ticket.Priority {
		old := ticket.Priority
		ticket.Priority = *input.Priority
		s.record(ctx, actor, ticket.ID, domain.ActionPriorityChange, strPtr(string(old)), strPtr(string(ticket.Priority)), nil)
		s.publish(ctx, events.Event{
			Type:     events.EventTicketPriorityChanged,
			Table:    "tickets",
			Change:   events.ChangeUpdate,
			TicketID: ticket.ID,
			Actor:    eventActor(actor),
			Payload:  events.TicketPriorityChangedPayload{OldPriority: old, NewPriority: ticket.Priority},
		})
		changed = true
	}
	if input.Category != nil && *input.Category != ticket.Category {
		old := ticket.Category
		ticket.Category = *input.Category
		s.record(ctx, actor, ticket.ID, domain.ActionCategoryChange, strPtr(old), strPtr(ticket.Category), nil)
		changed = true
	}
	if input.Tags != nil {
		ticket.Tags = input.Tags
		changed = true
	}
	if !changed {
		return ticket, nil
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	reason := input.Reason
	if reason == "" {
		reason = "ticket updated"
	}
	if _, err := s.versions.CreateVersion(ctx, ticket.ID, domain.SnapshotOf(ticket), actor.ID, reason, domain.VersionChangeAuto); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		Table:    "tickets",
		Change:   events.ChangeUpdate,
		TicketID: ticket.ID,
		Actor:    eventActor(actor),
		Payload:  ticketEventPayload(ticket),
	})
	return ticket, nil
}

// AssignAgent assigns or clears the handling agent.
func (s *TicketService) AssignAgent(ctx context.Context, actor Actor, ticketID string, agentID *string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if agentID != nil {
		if _, err := s.agents.GetByID(ctx, *agentID); err != nil {
			return nil, apperrors.NewNotFound("agent", map[string]any{"agent_id": *agentID})
		}
	}

	old := ticket.AgentID
	ticket.AgentID = agentID
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	s.record(ctx, actor, ticket.ID, domain.ActionAssignmentChange, old, agentID, nil)
	s.publish(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		Table:    "tickets",
		Change:   events.ChangeUpdate,
		TicketID: ticket.ID,
		Actor:    eventActor(actor),
		Payload:  events.TicketAssignedPayload{AgentID: agentID},
	})
	return ticket, nil
}

// UpdateStatus moves a ticket through its lifecycle. Entering a terminal
// status stamps resolved_at; reopening clears it.
func (s *TicketService) UpdateStatus(ctx context.Context, actor Actor, ticketID string, newStatus domain.TicketStatus, comment string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !IsValidTransition(ticket.Status, newStatus) {
		return nil, apperrors.NewConflict("invalid status transition", map[string]any{
			"from": ticket.Status,
			"to":   newStatus,
		})
	}

	oldStatus := ticket.Status
	applyStatus(ticket, newStatus, time.Now())
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	action := domain.ActionStatusChange
	if newStatus == domain.TicketStatusResolved {
		action = domain.ActionResolution
	}
	meta := map[string]any{}
	if comment != "" {
		meta["comment"] = comment
	}
	s.record(ctx, actor, ticket.ID, action, strPtr(string(oldStatus)), strPtr(string(newStatus)), meta)

	s.publish(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		Table:    "tickets",
		Change:   events.ChangeUpdate,
		TicketID: ticket.ID,
		Actor:    eventActor(actor),
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Comment:   comment,
		},
	})
	return ticket, nil
}

// BulkUpdateStatus applies one transition to many tickets in a single
// statement, skipping tickets whose current status does not allow it.
// Returns updated and skipped ids.
func (s *TicketService) BulkUpdateStatus(ctx context.Context, actor Actor, ids []string, newStatus domain.TicketStatus, comment string) (updated []string, skipped []string, err error) {
	now := time.Now()
	for _, id := range ids {
		ticket, err := s.tickets.GetByID(ctx, id)
		if err != nil || !IsValidTransition(ticket.Status, newStatus) {
			skipped = append(skipped, id)
			continue
		}
		updated = append(updated, id)
	}
	if len(updated) == 0 {
		return nil, skipped, nil
	}

	// Terminal targets get a fallback stamp; tickets already resolved keep
	// their original resolved_at (the repository coalesces per row).
	var resolvedAt *time.Time
	if newStatus.IsTerminal() {
		resolvedAt = &now
	}
	if _, err := s.tickets.UpdateStatusBulk(ctx, updated, newStatus, resolvedAt); err != nil {
		return nil, nil, err
	}

	meta := map[string]any{}
	if comment != "" {
		meta["comment"] = comment
	}
	for _, id := range updated {
		s.record(ctx, actor, id, domain.ActionStatusChange, nil, strPtr(string(newStatus)), meta)
		s.publish(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			Table:    "tickets",
			Change:   events.ChangeUpdate,
			TicketID: id,
			Actor:    eventActor(actor),
			Payload:  events.TicketStatusChangedPayload{NewStatus: newStatus, Comment: comment},
		})
	}
	return updated, skipped, nil
}

// AddMessage appends a thread message and its timeline entry.
func (s *TicketService) AddMessage(ctx context.Context, actor Actor, ticketID, body string, internal bool) (*domain.TicketMessage, error) {
	if strings.TrimSpace(body) == "" {
		return nil, apperrors.NewValidationError("body required", nil)
	}
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, err
	}

	message := &domain.TicketMessage{
		TicketID:   ticketID,
		AuthorType: actor.Type,
		AuthorID:   actor.ID,
		Body:       body,
		Internal:   internal,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}

	action := domain.ActionMessageSent
	if internal {
		action = domain.ActionNoteAdded
	}
	s.record(ctx, actor, ticketID, action, nil, strPtr(stringPreview(body, 120)), nil)

	s.publish(ctx, events.Event{
		Type:     events.EventTicketMessageAdded,
		Table:    "ticket_messages",
		Change:   events.ChangeInsert,
		TicketID: ticketID,
		Actor:    eventActor(actor),
		Payload: events.TicketMessageAddedPayload{
			MessageID:   message.ID,
			AuthorID:    actor.ID,
			Internal:    internal,
			BodyPreview: stringPreview(body, 120),
		},
	})
	return message, nil
}

// Escalate raises priority one step and records an escalation entry.
func (s *TicketService) Escalate(ctx context.Context, actor Actor, ticketID, reason string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	next, ok := escalated(ticket.Priority)
	if !ok {
		return nil, apperrors.NewConflict("ticket already at highest priority", nil)
	}

	old := ticket.Priority
	ticket.Priority = next
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}
	meta := map[string]any{}
	if reason != "" {
		meta["reason"] = reason
	}
	s.record(ctx, actor, ticket.ID, domain.ActionEscalation, strPtr(string(old)), strPtr(string(next)), meta)
	s.publish(ctx, events.Event{
		Type:     events.EventTicketPriorityChanged,
		Table:    "tickets",
		Change:   events.ChangeUpdate,
		TicketID: ticket.ID,
		Actor:    eventActor(actor),
		Payload:  events.TicketPriorityChangedPayload{OldPriority: old, NewPriority: next},
	})
	return ticket, nil
}

func (s *TicketService) record(ctx context.Context, actor Actor, ticketID string, action domain.TimelineAction, previous, next *string, metadata map[string]any) {
	if s.timeline == nil {
		return
	}
	entry := &domain.TimelineItem{
		TicketID:      ticketID,
		ActionType:    action,
		PreviousValue: previous,
		NewValue:      next,
		UserID:        actor.ID,
		UserType:      actor.Type,
		Metadata:      metadata,
	}
	_ = s.timeline.Create(ctx, entry)
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func eventActor(actor Actor) events.Actor {
	return events.Actor{Type: actor.Type, ID: actor.ID}
}

func ticketEventPayload(ticket *domain.Ticket) map[string]any {
	return map[string]any{
		"title":    ticket.Title,
		"status":   ticket.Status,
		"priority": ticket.Priority,
		"category": ticket.Category,
	}
}

func applyStatus(ticket *domain.Ticket, status domain.TicketStatus, now time.Time) {
	if status.IsTerminal() {
		if ticket.ResolvedAt == nil {
			ticket.ResolvedAt = &now
		}
	} else {
		ticket.ResolvedAt = nil
	}
	ticket.Status = status
}

func escalated(priority domain.TicketPriority) (domain.TicketPriority, bool) {
	switch priority {
	case domain.TicketPriorityLow:
		return domain.TicketPriorityMedium, true
	case domain.TicketPriorityMedium:
		return domain.TicketPriorityHigh, true
	case domain.TicketPriorityHigh:
		return domain.TicketPriorityUrgent, true
	default:
		return priority, false
	}
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}

func strPtr(s string) *string {
	return &s
}

var allowedTransitions = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusDraft:      {domain.TicketStatusOpen},
	domain.TicketStatusOpen:       {domain.TicketStatusInProgress, domain.TicketStatusResolved, domain.TicketStatusClosed},
	domain.TicketStatusInProgress: {domain.TicketStatusOpen, domain.TicketStatusResolved, domain.TicketStatusClosed},
	domain.TicketStatusResolved:   {domain.TicketStatusClosed, domain.TicketStatusInProgress, domain.TicketStatusOpen},
	domain.TicketStatusClosed:     {domain.TicketStatusOpen},
}

// IsValidTransition reports whether the lifecycle allows current -> next.
func IsValidTransition(current, next domain.TicketStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

package events

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketUpdated         EventType = "ticket_updated"
	EventTicketStatusChanged   EventType = "ticket_status_changed"
	EventTicketPriorityChanged EventType = "ticket_priority_changed"
	EventTicketAssigned        EventType = "ticket_assigned"
	EventTicketMessageAdded    EventType = "ticket_message_added"
	EventTicketReverted        EventType = "ticket_reverted"
	EventSLABreached           EventType = "sla_breached"
	EventAlertTriggered        EventType = "alert_triggered"
	EventReportGenerated       EventType = "report_generated"
)

// ChangeKind mirrors the row-level change a subscriber would receive from the
// database: INSERT, UPDATE or DELETE.
type ChangeKind string

const (
	ChangeInsert ChangeKind = "INSERT"
	ChangeUpdate ChangeKind = "UPDATE"
	ChangeDelete ChangeKind = "DELETE"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type domain.ActorType `json:"type"`
	ID   *string          `json:"id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Table     string      `json:"table"`
	Change    ChangeKind  `json:"change"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Comment   string              `json:"comment,omitempty"`
}

// TicketPriorityChangedPayload payload.
type TicketPriorityChangedPayload struct {
	OldPriority domain.TicketPriority `json:"old_priority"`
	NewPriority domain.TicketPriority `json:"new_priority"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AgentID *string `json:"agent_id,omitempty"`
}

// TicketMessageAddedPayload payload.
type TicketMessageAddedPayload struct {
	MessageID   string  `json:"message_id"`
	AuthorID    *string `json:"author_id,omitempty"`
	Internal    bool    `json:"internal"`
	BodyPreview string  `json:"body_preview"`
}

// TicketRevertedPayload payload.
type TicketRevertedPayload struct {
	FromVersion int    `json:"from_version"`
	ToVersion   int    `json:"to_version"`
	Reason      string `json:"reason,omitempty"`
}

// SLABreachedPayload payload.
type SLABreachedPayload struct {
	Priority domain.TicketPriority `json:"priority"`
	Deadline time.Time             `json:"deadline"`
}

// AlertTriggeredPayload payload.
type AlertTriggeredPayload struct {
	AlertID   string             `json:"alert_id"`
	Metric    domain.AlertMetric `json:"metric"`
	Value     float64            `json:"value"`
	Threshold float64            `json:"threshold"`
}

// ReportGeneratedPayload payload.
type ReportGeneratedPayload struct {
	ReportID  string              `json:"report_id"`
	HistoryID string              `json:"history_id"`
	Period    domain.ReportPeriod `json:"period"`
}

package domain

import "time"

// ActorType identifies who performed a timeline action.
type ActorType string

const (
	ActorTypeCustomer ActorType = "customer"
	ActorTypeAgent    ActorType = "agent"
	ActorTypeAdmin    ActorType = "admin"
	ActorTypeSystem   ActorType = "system"
)

// TimelineAction captures what happened in a timeline entry.
type TimelineAction string

const (
	ActionTicketCreated    TimelineAction = "ticket_created"
	ActionStatusChange     TimelineAction = "status_change"
	ActionAssignmentChange TimelineAction = "assignment_change"
	ActionPriorityChange   TimelineAction = "priority_change"
	ActionCategoryChange   TimelineAction = "category_change"
	ActionMessageSent      TimelineAction = "message_sent"
	ActionEscalation       TimelineAction = "escalation"
	ActionResolution       TimelineAction = "resolution"
	ActionNoteAdded        TimelineAction = "note_added"
	ActionSLABreach        TimelineAction = "sla_breach"
	ActionVersionRevert    TimelineAction = "version_revert"
)

// TimelineItem is an immutable audit trail entry. Entries are append-only and
// never updated or deleted once written.
type TimelineItem struct {
	ID            string
	TicketID      string
	ActionType    TimelineAction
	PreviousValue *string
	NewValue      *string
	UserID        *string
	UserType      ActorType
	Metadata      map[string]any
	CreatedAt     time.Time
}

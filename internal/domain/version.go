package domain

import "time"

// VersionChangeType explains why a version snapshot was taken.
type VersionChangeType string

const (
	VersionChangeManual VersionChangeType = "manual"
	VersionChangeAuto   VersionChangeType = "auto"
	VersionChangeRevert VersionChangeType = "revert"
)

// TicketSnapshot captures the mutable ticket fields frozen into a version.
type TicketSnapshot struct {
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Status       TicketStatus   `json:"status"`
	Priority     TicketPriority `json:"priority"`
	Category     string         `json:"category"`
	AgentID      *string        `json:"agent_id,omitempty"`
	Tags         []string       `json:"tags,omitempty"`
	CustomFields map[string]any `json:"custom_fields,omitempty"`
}

// SnapshotOf freezes the current state of a ticket.
func SnapshotOf(t *Ticket) TicketSnapshot {
	return TicketSnapshot{
		Title:        t.Title,
		Description:  t.Description,
		Status:       t.Status,
		Priority:     t.Priority,
		Category:     t.Category,
		AgentID:      t.AgentID,
		Tags:         t.Tags,
		CustomFields: t.CustomFields,
	}
}

// TicketVersion is an immutable snapshot of a ticket. Version numbers are
// strictly increasing per ticket; a revert creates a new version rather than
// rewriting history.
type TicketVersion struct {
	ID            string
	TicketID      string
	VersionNumber int
	Snapshot      TicketSnapshot
	CreatedBy     *string
	ChangeReason  string
	ChangeType    VersionChangeType
	CreatedAt     time.Time
}

// VersionRevert records a restore of an earlier snapshot.
type VersionRevert struct {
	ID          string
	TicketID    string
	FromVersion int
	ToVersion   int
	RevertedBy  *string
	Reason      string
	CreatedAt   time.Time
}

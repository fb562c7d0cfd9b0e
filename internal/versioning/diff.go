package versioning

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// FieldChange is one field-level difference between two snapshots.
type FieldChange struct {
	Field string `json:"field"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// Comparison is the result of diffing two versions of the same ticket.
type Comparison struct {
	TicketID    string        `json:"ticket_id"`
	FromVersion int           `json:"from_version"`
	ToVersion   int           `json:"to_version"`
	Changes     []FieldChange `json:"changes"`
}

// Compare diffs two version snapshots field by field. Field order is fixed so
// output is deterministic.
func Compare(from, to *domain.TicketVersion) Comparison {
	cmp := Comparison{
		TicketID:    from.TicketID,
		FromVersion: from.VersionNumber,
		ToVersion:   to.VersionNumber,
	}

	a, b := from.Snapshot, to.Snapshot
	cmp.addIfChanged("title", a.Title, b.Title)
	cmp.addIfChanged("description", a.Description, b.Description)
	cmp.addIfChanged("status", string(a.Status), string(b.Status))
	cmp.addIfChanged("priority", string(a.Priority), string(b.Priority))
	cmp.addIfChanged("category", a.Category, b.Category)
	cmp.addIfChanged("agent_id", derefOr(a.AgentID, ""), derefOr(b.AgentID, ""))
	cmp.addIfChanged("tags", strings.Join(a.Tags, ","), strings.Join(b.Tags, ","))
	if !reflect.DeepEqual(a.CustomFields, b.CustomFields) {
		cmp.Changes = append(cmp.Changes, FieldChange{
			Field: "custom_fields",
			From:  fmt.Sprintf("%v", a.CustomFields),
			To:    fmt.Sprintf("%v", b.CustomFields),
		})
	}
	return cmp
}

func (c *Comparison) addIfChanged(field, from, to string) {
	if from == to {
		return
	}
	c.Changes = append(c.Changes, FieldChange{Field: field, From: from, To: to})
}

// Apply overwrites the mutable fields of a live ticket with a snapshot.
// Identity and audit timestamps stay untouched.
func Apply(ticket *domain.Ticket, snapshot domain.TicketSnapshot) {
	ticket.Title = snapshot.Title
	ticket.Description = snapshot.Description
	ticket.Status = snapshot.Status
	ticket.Priority = snapshot.Priority
	ticket.Category = snapshot.Category
	ticket.AgentID = snapshot.AgentID
	ticket.Tags = snapshot.Tags
	ticket.CustomFields = snapshot.CustomFields
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

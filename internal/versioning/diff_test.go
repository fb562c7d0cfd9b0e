package versioning

import (
	"testing"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func version(n int, snapshot domain.TicketSnapshot) *domain.TicketVersion {
	return &domain.TicketVersion{
		ID:            "v",
		TicketID:      "t1",
		VersionNumber: n,
		Snapshot:      snapshot,
		CreatedAt:     time.Now(),
	}
}

func TestCompareDetectsChanges(t *testing.T) {
	agent := "ag1"
	from := version(1, domain.TicketSnapshot{
		Title:    "Printer broken",
		Status:   domain.TicketStatusOpen,
		Priority: domain.TicketPriorityLow,
		Category: "hardware",
	})
	to := version(3, domain.TicketSnapshot{
		Title:    "Printer broken",
		Status:   domain.TicketStatusInProgress,
		Priority: domain.TicketPriorityHigh,
		Category: "hardware",
		AgentID:  &agent,
	})

	cmp := Compare(from, to)
	if cmp.FromVersion != 1 || cmp.ToVersion != 3 {
		t.Errorf("versions = %d..%d, want 1..3", cmp.FromVersion, cmp.ToVersion)
	}
	want := map[string][2]string{
		"status":   {"open", "in_progress"},
		"priority": {"low", "high"},
		"agent_id": {"", "ag1"},
	}
	if len(cmp.Changes) != len(want) {
		t.Fatalf("got %d changes %v, want %d", len(cmp.Changes), cmp.Changes, len(want))
	}
	for _, change := range cmp.Changes {
		expected, ok := want[change.Field]
		if !ok {
			t.Errorf("unexpected change on %q", change.Field)
			continue
		}
		if change.From != expected[0] || change.To != expected[1] {
			t.Errorf("%s: %q -> %q, want %q -> %q", change.Field, change.From, change.To, expected[0], expected[1])
		}
	}
}

func TestCompareIdenticalSnapshots(t *testing.T) {
	snapshot := domain.TicketSnapshot{
		Title:    "Same",
		Status:   domain.TicketStatusOpen,
		Priority: domain.TicketPriorityMedium,
		Tags:     []string{"a", "b"},
	}
	cmp := Compare(version(1, snapshot), version(2, snapshot))
	if len(cmp.Changes) != 0 {
		t.Errorf("got %d changes for identical snapshots: %v", len(cmp.Changes), cmp.Changes)
	}
}

func TestCompareCustomFields(t *testing.T) {
	from := version(1, domain.TicketSnapshot{CustomFields: map[string]any{"env": "prod"}})
	to := version(2, domain.TicketSnapshot{CustomFields: map[string]any{"env": "staging"}})

	cmp := Compare(from, to)
	if len(cmp.Changes) != 1 || cmp.Changes[0].Field != "custom_fields" {
		t.Errorf("changes = %v, want single custom_fields diff", cmp.Changes)
	}
}

func TestApplyOverwritesMutableFieldsOnly(t *testing.T) {
	created := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	ticket := &domain.Ticket{
		ID:         "t1",
		CustomerID: "cu1",
		Title:      "After edit",
		Status:     domain.TicketStatusInProgress,
		Priority:   domain.TicketPriorityUrgent,
		CreatedAt:  created,
	}
	snapshot := domain.TicketSnapshot{
		Title:    "Original title",
		Status:   domain.TicketStatusOpen,
		Priority: domain.TicketPriorityMedium,
		Category: "billing",
	}

	Apply(ticket, snapshot)

	if ticket.Title != "Original title" || ticket.Status != domain.TicketStatusOpen {
		t.Errorf("snapshot not applied: %+v", ticket)
	}
	if ticket.ID != "t1" || ticket.CustomerID != "cu1" || !ticket.CreatedAt.Equal(created) {
		t.Errorf("identity fields mutated: %+v", ticket)
	}
}

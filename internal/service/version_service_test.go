package service

import (
	"context"
	"testing"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

type fakeVersionRepo struct {
	ticket  *domain.Ticket
	version *domain.TicketVersion
}

func (f *fakeVersionRepo) CreateVersion(ctx context.Context, ticketID string, snapshot domain.TicketSnapshot, createdBy *string, reason string, changeType domain.VersionChangeType) (*domain.TicketVersion, error) {
	return f.version, nil
}

func (f *fakeVersionRepo) GetVersion(ctx context.Context, ticketID string, number int) (*domain.TicketVersion, error) {
	return f.version, nil
}

func (f *fakeVersionRepo) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketVersion, error) {
	return nil, nil
}

func (f *fakeVersionRepo) ListReverts(ctx context.Context, ticketID string) ([]domain.VersionRevert, error) {
	return nil, nil
}

func (f *fakeVersionRepo) RevertToVersion(ctx context.Context, ticketID string, targetNumber int, revertedBy *string, reason string) (*domain.Ticket, *domain.TicketVersion, error) {
	return f.ticket, f.version, nil
}

type recordingTimeline struct {
	items []*domain.TimelineItem
}

func (r *recordingTimeline) Create(ctx context.Context, item *domain.TimelineItem) error {
	r.items = append(r.items, item)
	return nil
}

func (r *recordingTimeline) ListByTicket(ctx context.Context, ticketID string, limit, offset int) ([]domain.TimelineItem, error) {
	return nil, nil
}

func (r *recordingTimeline) HasBreachEntry(ctx context.Context, ticketID string) (bool, error) {
	return false, nil
}

func TestRevertRecordsVersionRevertAction(t *testing.T) {
	versions := &fakeVersionRepo{
		ticket:  &domain.Ticket{ID: "t1", Status: domain.TicketStatusOpen},
		version: &domain.TicketVersion{TicketID: "t1", VersionNumber: 4},
	}
	timeline := &recordingTimeline{}
	svc := NewVersionService(versions, nil, timeline, nil)

	actor := Actor{Type: domain.ActorTypeAgent}
	if _, _, err := svc.Revert(context.Background(), actor, "t1", 1, "undo"); err != nil {
		t.Fatalf("revert: %v", err)
	}

	if len(timeline.items) != 1 {
		t.Fatalf("timeline entries = %d, want 1", len(timeline.items))
	}
	entry := timeline.items[0]
	if entry.ActionType != domain.ActionVersionRevert {
		t.Fatalf("action = %q, want %q", entry.ActionType, domain.ActionVersionRevert)
	}
	if entry.Metadata["target_version"] != 1 {
		t.Fatalf("metadata target_version = %v, want 1", entry.Metadata["target_version"])
	}
}

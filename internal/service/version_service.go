package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/versioning"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// VersionService exposes the ticket edit history: snapshots, diffs and
// reverts.
type VersionService struct {
	versions   repository.VersionRepository
	tickets    repository.TicketRepository
	timeline   repository.TimelineRepository
	dispatcher events.Dispatcher
}

// NewVersionService wires dependencies.
func NewVersionService(versions repository.VersionRepository, tickets repository.TicketRepository, tl repository.TimelineRepository, dispatcher events.Dispatcher) *VersionService {
	return &VersionService{
		versions:   versions,
		tickets:    tickets,
		timeline:   tl,
		dispatcher: dispatcher,
	}
}

// SaveSnapshot takes a manual snapshot of the ticket's current state.
func (s *VersionService) SaveSnapshot(ctx context.Context, actor Actor, ticketID, reason string) (*domain.TicketVersion, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if reason == "" {
		reason = "manual snapshot"
	}
	return s.versions.CreateVersion(ctx, ticketID, domain.SnapshotOf(ticket), actor.ID, reason, domain.VersionChangeManual)
}

// History lists all versions for a ticket, newest first.
func (s *VersionService) History(ctx context.Context, ticketID string) ([]domain.TicketVersion, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, err
	}
	return s.versions.ListByTicket(ctx, ticketID)
}

// Reverts lists past reverts for a ticket, newest first.
func (s *VersionService) Reverts(ctx context.Context, ticketID string) ([]domain.VersionRevert, error) {
	return s.versions.ListReverts(ctx, ticketID)
}

// Compare diffs two version numbers of the same ticket.
func (s *VersionService) Compare(ctx context.Context, ticketID string, fromNumber, toNumber int) (*versioning.Comparison, error) {
	if fromNumber == toNumber {
		return nil, apperrors.NewValidationError("versions must differ", nil)
	}
	from, err := s.versions.GetVersion(ctx, ticketID, fromNumber)
	if err != nil {
		return nil, err
	}
	to, err := s.versions.GetVersion(ctx, ticketID, toNumber)
	if err != nil {
		return nil, err
	}
	cmp := versioning.Compare(from, to)
	return &cmp, nil
}

// Revert restores an earlier snapshot in one transaction: the live ticket row
// is rewritten from the target snapshot and a new revert version is appended.
// If any step fails nothing is applied.
func (s *VersionService) Revert(ctx context.Context, actor Actor, ticketID string, targetNumber int, reason string) (*domain.Ticket, *domain.TicketVersion, error) {
	ticket, version, err := s.versions.RevertToVersion(ctx, ticketID, targetNumber, actor.ID, reason)
	if err != nil {
		return nil, nil, err
	}

	if s.timeline != nil {
		previous := fmt.Sprintf("version %d", version.VersionNumber-1)
		next := fmt.Sprintf("reverted to version %d", targetNumber)
		entry := &domain.TimelineItem{
			TicketID:      ticketID,
			ActionType:    domain.ActionVersionRevert,
			PreviousValue: &previous,
			NewValue:      &next,
			UserID:        actor.ID,
			UserType:      actor.Type,
			Metadata:      map[string]any{"revert": true, "target_version": targetNumber},
		}
		_ = s.timeline.Create(ctx, entry)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTicketReverted,
			Table:     "tickets",
			Change:    events.ChangeUpdate,
			TicketID:  ticketID,
			Actor:     events.Actor{Type: actor.Type, ID: actor.ID},
			Timestamp: time.Now(),
			Payload: events.TicketRevertedPayload{
				FromVersion: version.VersionNumber - 1,
				ToVersion:   targetNumber,
				Reason:      reason,
			},
		})
	}
	return ticket, version, nil
}

package service

import (
	"testing"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func TestValidTransitions(t *testing.T) {
	cases := []struct {
		from domain.TicketStatus
		to   domain.TicketStatus
		want bool
	}{
		{domain.TicketStatusDraft, domain.TicketStatusOpen, true},
		{domain.TicketStatusDraft, domain.TicketStatusResolved, false},
		{domain.TicketStatusOpen, domain.TicketStatusInProgress, true},
		{domain.TicketStatusOpen, domain.TicketStatusResolved, true},
		{domain.TicketStatusOpen, domain.TicketStatusDraft, false},
		{domain.TicketStatusInProgress, domain.TicketStatusResolved, true},
		{domain.TicketStatusInProgress, domain.TicketStatusOpen, true},
		{domain.TicketStatusResolved, domain.TicketStatusClosed, true},
		{domain.TicketStatusResolved, domain.TicketStatusOpen, true},
		{domain.TicketStatusClosed, domain.TicketStatusOpen, true},
		{domain.TicketStatusClosed, domain.TicketStatusResolved, false},
		{domain.TicketStatusOpen, domain.TicketStatusOpen, false},
	}
	for _, tc := range cases {
		if got := IsValidTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("IsValidTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestApplyStatusStampsResolvedAt(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	ticket := &domain.Ticket{Status: domain.TicketStatusInProgress}

	applyStatus(ticket, domain.TicketStatusResolved, now)
	if ticket.ResolvedAt == nil || !ticket.ResolvedAt.Equal(now) {
		t.Fatalf("resolved_at not stamped: %v", ticket.ResolvedAt)
	}

	later := now.Add(time.Hour)
	applyStatus(ticket, domain.TicketStatusClosed, later)
	if !ticket.ResolvedAt.Equal(now) {
		t.Fatalf("resolved_at overwritten on close: %v", ticket.ResolvedAt)
	}
}

func TestApplyStatusReopenClearsResolvedAt(t *testing.T) {
	now := time.Now()
	ticket := &domain.Ticket{Status: domain.TicketStatusResolved, ResolvedAt: &now}

	applyStatus(ticket, domain.TicketStatusOpen, now)
	if ticket.ResolvedAt != nil {
		t.Fatalf("resolved_at should be cleared on reopen, got %v", ticket.ResolvedAt)
	}
	if ticket.Status != domain.TicketStatusOpen {
		t.Fatalf("status = %s", ticket.Status)
	}
}

func TestEscalatedLadder(t *testing.T) {
	cases := []struct {
		in   domain.TicketPriority
		out  domain.TicketPriority
		want bool
	}{
		{domain.TicketPriorityLow, domain.TicketPriorityMedium, true},
		{domain.TicketPriorityMedium, domain.TicketPriorityHigh, true},
		{domain.TicketPriorityHigh, domain.TicketPriorityUrgent, true},
		{domain.TicketPriorityUrgent, domain.TicketPriorityUrgent, false},
	}
	for _, tc := range cases {
		got, ok := escalated(tc.in)
		if ok != tc.want || got != tc.out {
			t.Errorf("escalated(%s) = %s, %v; want %s, %v", tc.in, got, ok, tc.out, tc.want)
		}
	}
}

func TestStringPreviewTruncates(t *testing.T) {
	if got := stringPreview("short", 120); got != "short" {
		t.Fatalf("got %q", got)
	}
	long := make([]byte, 0, 200)
	for i := 0; i < 200; i++ {
		long = append(long, 'a')
	}
	got := stringPreview(string(long), 120)
	if len(got) != 120 {
		t.Fatalf("preview length = %d", len(got))
	}
	if got[117:] != "..." {
		t.Fatalf("preview not ellipsized: %q", got[110:])
	}
}

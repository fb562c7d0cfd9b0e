package sla

import (
	"testing"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func ticketWith(status domain.TicketStatus, priority domain.TicketPriority, createdAt time.Time) *domain.Ticket {
	return &domain.Ticket{
		ID:        "t1",
		Status:    status,
		Priority:  priority,
		CreatedAt: createdAt,
	}
}

func TestHoursForPriority(t *testing.T) {
	policy := DefaultPolicy()

	cases := []struct {
		priority domain.TicketPriority
		want     int
	}{
		{domain.TicketPriorityHigh, 4},
		{domain.TicketPriorityMedium, 24},
		{domain.TicketPriorityLow, 72},
		{domain.TicketPriorityUrgent, 72},
		{domain.TicketPriority("bogus"), 72},
	}
	for _, tc := range cases {
		if got := policy.HoursFor(tc.priority); got != tc.want {
			t.Errorf("HoursFor(%q) = %d, want %d", tc.priority, got, tc.want)
		}
	}
}

func TestHoursForOverride(t *testing.T) {
	policy := DefaultPolicy()
	policy.Overrides = map[domain.TicketPriority]int{domain.TicketPriorityUrgent: 1}

	if got := policy.HoursFor(domain.TicketPriorityUrgent); got != 1 {
		t.Errorf("HoursFor(urgent) = %d, want override 1", got)
	}
	if got := policy.HoursFor(domain.TicketPriorityHigh); got != 4 {
		t.Errorf("HoursFor(high) = %d, want 4", got)
	}
}

func TestBreachFlipsExactlyAtDeadline(t *testing.T) {
	created := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	ticket := ticketWith(domain.TicketStatusOpen, domain.TicketPriorityHigh, created)
	policy := DefaultPolicy()

	atDeadline := created.Add(4 * time.Hour)
	if res := Evaluate(ticket, policy, atDeadline); res.Breached {
		t.Errorf("breached at exact deadline, want false (remaining=%v)", res.Remaining)
	}
	justAfter := atDeadline.Add(time.Millisecond)
	if res := Evaluate(ticket, policy, justAfter); !res.Breached {
		t.Errorf("not breached just after deadline, remaining=%v", res.Remaining)
	}
}

func TestTerminalStatusNeverBreaches(t *testing.T) {
	created := time.Now().Add(-1000 * time.Hour)
	for _, status := range []domain.TicketStatus{domain.TicketStatusResolved, domain.TicketStatusClosed} {
		ticket := ticketWith(status, domain.TicketPriorityHigh, created)
		res := Evaluate(ticket, DefaultPolicy(), time.Now())
		if res.Breached {
			t.Errorf("status %q breached, want false", status)
		}
		if res.Remaining >= 0 {
			t.Errorf("status %q remaining = %v, want negative", status, res.Remaining)
		}
	}
}

func TestEvaluateScenario(t *testing.T) {
	now := time.Date(2024, 6, 1, 17, 0, 0, 0, time.UTC)
	fiveHoursAgo := now.Add(-5 * time.Hour)
	policy := DefaultPolicy()

	highOpen := ticketWith(domain.TicketStatusOpen, domain.TicketPriorityHigh, fiveHoursAgo)
	res := Evaluate(highOpen, policy, now)
	if !res.Breached || res.SLAHours != 4 {
		t.Errorf("high/open: got breached=%v slaHours=%d, want true/4", res.Breached, res.SLAHours)
	}

	mediumOpen := ticketWith(domain.TicketStatusOpen, domain.TicketPriorityMedium, fiveHoursAgo)
	res = Evaluate(mediumOpen, policy, now)
	if res.Breached || res.SLAHours != 24 {
		t.Errorf("medium/open: got breached=%v slaHours=%d, want false/24", res.Breached, res.SLAHours)
	}
	if want := 19 * time.Hour; res.Remaining != want {
		t.Errorf("medium/open remaining = %v, want %v", res.Remaining, want)
	}

	highResolved := ticketWith(domain.TicketStatusResolved, domain.TicketPriorityHigh, fiveHoursAgo)
	if res = Evaluate(highResolved, policy, now); res.Breached {
		t.Error("high/resolved: breached, want false")
	}
}

func TestDeadlineDerivedFromCreation(t *testing.T) {
	created := time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC)
	ticket := ticketWith(domain.TicketStatusInProgress, domain.TicketPriorityMedium, created)
	res := Evaluate(ticket, DefaultPolicy(), created)

	want := created.Add(24 * time.Hour)
	if !res.Deadline.Equal(want) {
		t.Errorf("deadline = %v, want %v", res.Deadline, want)
	}
}

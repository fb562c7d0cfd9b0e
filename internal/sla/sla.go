package sla

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Policy maps ticket priority to the number of hours allowed before breach.
type Policy struct {
	HighHours    int
	MediumHours  int
	DefaultHours int
	// Overrides takes precedence over the fixed fields when a priority is present.
	Overrides map[domain.TicketPriority]int
}

// DefaultPolicy mirrors the standard support contract: 4h for high,
// 24h for medium, 72h for everything else.
func DefaultPolicy() Policy {
	return Policy{
		HighHours:    4,
		MediumHours:  24,
		DefaultHours: 72,
	}
}

// HoursFor returns the SLA budget in hours for a priority.
func (p Policy) HoursFor(priority domain.TicketPriority) int {
	if hours, ok := p.Overrides[priority]; ok && hours > 0 {
		return hours
	}
	switch priority {
	case domain.TicketPriorityHigh:
		return p.HighHours
	case domain.TicketPriorityMedium:
		return p.MediumHours
	default:
		return p.DefaultHours
	}
}

// Result is a point-in-time SLA projection for a single ticket.
type Result struct {
	SLAHours  int           `json:"sla_hours"`
	Deadline  time.Time     `json:"deadline"`
	Remaining time.Duration `json:"remaining"`
	Breached  bool          `json:"breached"`
}

// Evaluate computes the SLA state of a ticket relative to now. Tickets in a
// terminal status never report a breach regardless of elapsed time; the
// permanent audit record for breaches is written separately by the sweep.
func Evaluate(ticket *domain.Ticket, policy Policy, now time.Time) Result {
	hours := policy.HoursFor(ticket.Priority)
	deadline := ticket.CreatedAt.Add(time.Duration(hours) * time.Hour)
	remaining := deadline.Sub(now)

	return Result{
		SLAHours:  hours,
		Deadline:  deadline,
		Remaining: remaining,
		Breached:  remaining < 0 && !ticket.Status.IsTerminal(),
	}
}

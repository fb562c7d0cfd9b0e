package timeline

import (
	"strings"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Actor is the resolved display identity behind a timeline entry. Unknown is
// an explicit state: an unresolvable user id must never be labelled with a
// substitute identity.
type Actor struct {
	Name    string           `json:"name"`
	Type    domain.ActorType `json:"type"`
	Unknown bool             `json:"unknown,omitempty"`
}

// UnknownActorName is the sentinel shown when no lookup matches.
const UnknownActorName = "Unknown"

// Resolver maps timeline user ids to display identities using the agent and
// customer collections.
type Resolver struct {
	agents    map[string]domain.Agent
	customers map[string]domain.Customer
}

// NewResolver indexes the lookup collections by id.
func NewResolver(agents []domain.Agent, customers []domain.Customer) *Resolver {
	r := &Resolver{
		agents:    make(map[string]domain.Agent, len(agents)),
		customers: make(map[string]domain.Customer, len(customers)),
	}
	for _, a := range agents {
		r.agents[a.ID] = a
	}
	for _, c := range customers {
		r.customers[c.ID] = c
	}
	return r
}

// Resolve returns the display actor for a timeline item. System entries need
// no lookup. Agents are checked before customers; a matching record with an
// empty name falls back to the local part of its email address.
func (r *Resolver) Resolve(item domain.TimelineItem) Actor {
	if item.UserType == domain.ActorTypeSystem {
		return Actor{Name: "System", Type: domain.ActorTypeSystem}
	}
	if item.UserID == nil || *item.UserID == "" {
		return Actor{Name: UnknownActorName, Type: item.UserType, Unknown: true}
	}

	if agent, ok := r.agents[*item.UserID]; ok {
		return Actor{Name: displayName(agent.Name, agent.Email), Type: item.UserType}
	}
	if customer, ok := r.customers[*item.UserID]; ok {
		return Actor{Name: displayName(customer.Name, customer.Email), Type: item.UserType}
	}
	return Actor{Name: UnknownActorName, Type: item.UserType, Unknown: true}
}

func displayName(name, email string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return UnknownActorName
}

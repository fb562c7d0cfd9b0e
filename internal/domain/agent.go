package domain

import "time"

// AgentRole controls access within the dashboard.
type AgentRole string

const (
	AgentRoleAgent AgentRole = "agent"
	AgentRoleAdmin AgentRole = "admin"
)

// AgentStatus enumerates availability states.
type AgentStatus string

const (
	AgentStatusActive   AgentStatus = "active"
	AgentStatusAway     AgentStatus = "away"
	AgentStatusInactive AgentStatus = "inactive"
)

// Agent is a support staff member handling tickets.
type Agent struct {
	ID           string
	Name         string
	Email        string
	Status       AgentStatus
	Role         AgentRole
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

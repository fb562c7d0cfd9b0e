package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// DirectoryService manages the customer and agent collections the dashboard
// filters and assignment pickers draw from.
type DirectoryService struct {
	customers repository.CustomerRepository
	agents    repository.AgentRepository
}

// NewDirectoryService wires dependencies.
func NewDirectoryService(customers repository.CustomerRepository, agents repository.AgentRepository) *DirectoryService {
	return &DirectoryService{customers: customers, agents: agents}
}

// CustomerInput carries customer create/update payloads.
type CustomerInput struct {
	Name              string
	Email             string
	Phone             string
	Company           string
	SatisfactionScore *float64
}

func validateCustomerInput(input CustomerInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperrors.NewValidationError("name required", nil)
	}
	if !strings.Contains(input.Email, "@") {
		return apperrors.NewValidationError("valid email required", nil)
	}
	if input.SatisfactionScore != nil && (*input.SatisfactionScore < 0 || *input.SatisfactionScore > 5) {
		return apperrors.NewValidationError("satisfaction_score must be between 0 and 5", nil)
	}
	return nil
}

// CreateCustomer registers a customer record.
func (s *DirectoryService) CreateCustomer(ctx context.Context, input CustomerInput) (*domain.Customer, error) {
	if err := validateCustomerInput(input); err != nil {
		return nil, err
	}
	if _, err := s.customers.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	customer := &domain.Customer{
		Name:              strings.TrimSpace(input.Name),
		Email:             input.Email,
		Phone:             input.Phone,
		Company:           input.Company,
		SatisfactionScore: input.SatisfactionScore,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// UpdateCustomer rewrites a customer record.
func (s *DirectoryService) UpdateCustomer(ctx context.Context, id string, input CustomerInput) (*domain.Customer, error) {
	if err := validateCustomerInput(input); err != nil {
		return nil, err
	}
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	customer.Name = strings.TrimSpace(input.Name)
	customer.Email = input.Email
	customer.Phone = input.Phone
	customer.Company = input.Company
	customer.SatisfactionScore = input.SatisfactionScore
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer fetches one customer.
func (s *DirectoryService) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.customers.GetByID(ctx, id)
}

// ListCustomers pages through the customer collection.
func (s *DirectoryService) ListCustomers(ctx context.Context, limit, offset int) ([]domain.Customer, error) {
	return s.customers.List(ctx, limit, offset)
}

// ListAgents returns every agent for assignment pickers.
func (s *DirectoryService) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	return s.agents.List(ctx)
}

// SetAgentStatus updates availability (active/away/inactive). Admin-only at
// the handler layer; deactivated agents can no longer authenticate.
func (s *DirectoryService) SetAgentStatus(ctx context.Context, agentID string, status domain.AgentStatus) (*domain.Agent, error) {
	switch status {
	case domain.AgentStatusActive, domain.AgentStatusAway, domain.AgentStatusInactive:
	default:
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": status})
	}
	agent, err := s.agents.GetByID(ctx, agentID)
	if err != nil {
		return nil, err
	}
	agent.Status = status
	if err := s.agents.Update(ctx, agent); err != nil {
		return nil, err
	}
	return agent, nil
}

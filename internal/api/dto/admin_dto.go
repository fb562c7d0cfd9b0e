package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Agent     AgentResponse `json:"agent"`
}

// RegisterAgentRequest payload.
type RegisterAgentRequest struct {
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	Password string           `json:"password"`
	Role     domain.AgentRole `json:"role"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AgentResponse is the public agent shape.
type AgentResponse struct {
	ID     string             `json:"id"`
	Name   string             `json:"name"`
	Email  string             `json:"email"`
	Status domain.AgentStatus `json:"status"`
	Role   domain.AgentRole   `json:"role"`
}

// NewAgentResponse maps an agent without credentials.
func NewAgentResponse(a *domain.Agent) AgentResponse {
	return AgentResponse{
		ID:     a.ID,
		Name:   a.Name,
		Email:  a.Email,
		Status: a.Status,
		Role:   a.Role,
	}
}

// CustomerRequest carries customer create/update payloads.
type CustomerRequest struct {
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	Phone             string   `json:"phone"`
	Company           string   `json:"company"`
	SatisfactionScore *float64 `json:"satisfaction_score"`
}

// CustomerResponse is the public customer shape.
type CustomerResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone,omitempty"`
	Company           string    `json:"company,omitempty"`
	SatisfactionScore *float64  `json:"satisfaction_score,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewCustomerResponse maps a customer.
func NewCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:                c.ID,
		Name:              c.Name,
		Email:             c.Email,
		Phone:             c.Phone,
		Company:           c.Company,
		SatisfactionScore: c.SatisfactionScore,
		CreatedAt:         c.CreatedAt,
	}
}

// AlertRequest carries alert create/update payloads.
type AlertRequest struct {
	Name            string               `json:"name"`
	Metric          domain.AlertMetric   `json:"metric"`
	Operator        domain.AlertOperator `json:"operator"`
	Threshold       float64              `json:"threshold"`
	Enabled         bool                 `json:"enabled"`
	CooldownMinutes int                  `json:"cooldown_minutes"`
}

// AlertResponse is one configured alert.
type AlertResponse struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	Metric          domain.AlertMetric   `json:"metric"`
	Operator        domain.AlertOperator `json:"operator"`
	Threshold       float64              `json:"threshold"`
	Enabled         bool                 `json:"enabled"`
	CooldownMinutes int                  `json:"cooldown_minutes"`
	LastTriggeredAt *time.Time           `json:"last_triggered_at,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
}

// AlertHistoryResponse is one trigger record.
type AlertHistoryResponse struct {
	ID          string             `json:"id"`
	Metric      domain.AlertMetric `json:"metric"`
	Value       float64            `json:"value"`
	Threshold   float64            `json:"threshold"`
	TriggeredAt time.Time          `json:"triggered_at"`
}

// NewAlertResponse maps an alert.
func NewAlertResponse(a *domain.SmartAlert) AlertResponse {
	return AlertResponse{
		ID:              a.ID,
		Name:            a.Name,
		Metric:          a.Metric,
		Operator:        a.Operator,
		Threshold:       a.Threshold,
		Enabled:         a.Enabled,
		CooldownMinutes: a.CooldownMinutes,
		LastTriggeredAt: a.LastTriggeredAt,
		CreatedAt:       a.CreatedAt,
	}
}

// ReportRequest carries report create/update payloads.
type ReportRequest struct {
	Name       string              `json:"name"`
	Period     domain.ReportPeriod `json:"period"`
	Format     domain.ReportFormat `json:"format"`
	Recipients []string            `json:"recipients"`
	Enabled    bool                `json:"enabled"`
}

// ReportResponse is one configured auto report.
type ReportResponse struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Period     domain.ReportPeriod `json:"period"`
	Format     domain.ReportFormat `json:"format"`
	Recipients []string            `json:"recipients"`
	Enabled    bool                `json:"enabled"`
	LastRunAt  *time.Time          `json:"last_run_at,omitempty"`
	NextRunAt  *time.Time          `json:"next_run_at,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

// ReportHistoryResponse is one generated report run.
type ReportHistoryResponse struct {
	ID          string              `json:"id"`
	Period      domain.ReportPeriod `json:"period"`
	RangeFrom   time.Time           `json:"range_from"`
	RangeTo     time.Time           `json:"range_to"`
	Payload     map[string]any      `json:"payload"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// NewReportResponse maps a report.
func NewReportResponse(r *domain.AutoReport) ReportResponse {
	return ReportResponse{
		ID:         r.ID,
		Name:       r.Name,
		Period:     r.Period,
		Format:     r.Format,
		Recipients: r.Recipients,
		Enabled:    r.Enabled,
		LastRunAt:  r.LastRunAt,
		NextRunAt:  r.NextRunAt,
		CreatedAt:  r.CreatedAt,
	}
}

// WidgetRequest carries widget create/update payloads.
type WidgetRequest struct {
	Type     domain.WidgetType     `json:"type"`
	Title    string                `json:"title"`
	Position domain.WidgetPosition `json:"position"`
	Config   map[string]any        `json:"config"`
}

// WidgetResponse is one dashboard widget.
type WidgetResponse struct {
	ID       string                `json:"id"`
	Type     domain.WidgetType     `json:"type"`
	Title    string                `json:"title"`
	Position domain.WidgetPosition `json:"position"`
	Config   map[string]any        `json:"config,omitempty"`
	Data     any                   `json:"data,omitempty"`
}

// NewWidgetResponse maps a widget, optionally with its resolved data.
func NewWidgetResponse(w *domain.DashboardWidget, data any) WidgetResponse {
	return WidgetResponse{
		ID:       w.ID,
		Type:     w.Type,
		Title:    w.Title,
		Position: w.Position,
		Config:   w.Config,
		Data:     data,
	}
}

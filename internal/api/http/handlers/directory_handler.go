package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// DirectoryHandler manages customer and agent directory endpoints.
type DirectoryHandler struct {
	service *service.DirectoryService
}

// NewDirectoryHandler constructs handler.
func NewDirectoryHandler(directoryService *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: directoryService}
}

func customerInputFrom(c *fiber.Ctx) (service.CustomerInput, error) {
	var req dto.CustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return service.CustomerInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	return service.CustomerInput{
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		Company:           req.Company,
		SatisfactionScore: req.SatisfactionScore,
	}, nil
}

// CreateCustomer POST /customers.
func (h *DirectoryHandler) CreateCustomer(c *fiber.Ctx) error {
	input, err := customerInputFrom(c)
	if err != nil {
		return err
	}
	customer, err := h.service.CreateCustomer(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCustomerResponse(customer)})
}

// UpdateCustomer PUT /customers/:id.
func (h *DirectoryHandler) UpdateCustomer(c *fiber.Ctx) error {
	input, err := customerInputFrom(c)
	if err != nil {
		return err
	}
	customer, err := h.service.UpdateCustomer(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCustomerResponse(customer)})
}

// GetCustomer GET /customers/:id.
func (h *DirectoryHandler) GetCustomer(c *fiber.Ctx) error {
	customer, err := h.service.GetCustomer(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCustomerResponse(customer)})
}

// ListCustomers GET /customers.
func (h *DirectoryHandler) ListCustomers(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	customers, err := h.service.ListCustomers(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, dto.NewCustomerResponse(&customers[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListAgents GET /agents.
func (h *DirectoryHandler) ListAgents(c *fiber.Ctx) error {
	agents, err := h.service.ListAgents(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.AgentResponse, 0, len(agents))
	for i := range agents {
		items = append(items, dto.NewAgentResponse(&agents[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// SetAgentStatus POST /agents/:id/status — admin only.
func (h *DirectoryHandler) SetAgentStatus(c *fiber.Ctx) error {
	var req struct {
		Status domain.AgentStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	agent, err := h.service.SetAgentStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAgentResponse(agent)})
}

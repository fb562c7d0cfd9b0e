package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// WidgetsHandler manages per-agent dashboard layouts.
type WidgetsHandler struct {
	service *service.DashboardService
}

// NewWidgetsHandler constructs handler.
func NewWidgetsHandler(dashboardService *service.DashboardService) *WidgetsHandler {
	return &WidgetsHandler{service: dashboardService}
}

func ownerFrom(c *fiber.Ctx) (string, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Agent == nil {
		return "", apperrors.NewUnauthorized("authentication required")
	}
	return principal.Agent.ID, nil
}

func widgetInputFrom(c *fiber.Ctx) (service.WidgetInput, error) {
	var req dto.WidgetRequest
	if err := c.BodyParser(&req); err != nil {
		return service.WidgetInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	return service.WidgetInput{
		Type:     req.Type,
		Title:    req.Title,
		Position: req.Position,
		Config:   req.Config,
	}, nil
}

// Create POST /widgets.
func (h *WidgetsHandler) Create(c *fiber.Ctx) error {
	owner, err := ownerFrom(c)
	if err != nil {
		return err
	}
	input, err := widgetInputFrom(c)
	if err != nil {
		return err
	}
	widget, err := h.service.CreateWidget(c.UserContext(), owner, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewWidgetResponse(widget, nil)})
}

// Update PUT /widgets/:id.
func (h *WidgetsHandler) Update(c *fiber.Ctx) error {
	owner, err := ownerFrom(c)
	if err != nil {
		return err
	}
	input, err := widgetInputFrom(c)
	if err != nil {
		return err
	}
	widget, err := h.service.UpdateWidget(c.UserContext(), owner, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewWidgetResponse(widget, nil)})
}

// Delete DELETE /widgets/:id.
func (h *WidgetsHandler) Delete(c *fiber.Ctx) error {
	owner, err := ownerFrom(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteWidget(c.UserContext(), owner, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// List GET /widgets. With ?data=true each widget carries its resolved data.
func (h *WidgetsHandler) List(c *fiber.Ctx) error {
	owner, err := ownerFrom(c)
	if err != nil {
		return err
	}
	widgets, err := h.service.ListWidgets(c.UserContext(), owner)
	if err != nil {
		return err
	}

	withData := c.QueryBool("data")
	now := time.Now()
	items := make([]dto.WidgetResponse, 0, len(widgets))
	for i := range widgets {
		var data any
		if withData {
			if data, err = h.service.WidgetData(c.UserContext(), &widgets[i], now); err != nil {
				return err
			}
		}
		items = append(items, dto.NewWidgetResponse(&widgets[i], data))
	}
	return c.JSON(fiber.Map{"data": items})
}

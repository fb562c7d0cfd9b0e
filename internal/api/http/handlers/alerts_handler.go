package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// AlertsHandler manages smart alert endpoints.
type AlertsHandler struct {
	service *service.AlertService
}

// NewAlertsHandler constructs handler.
func NewAlertsHandler(alertService *service.AlertService) *AlertsHandler {
	return &AlertsHandler{service: alertService}
}

func alertInputFrom(c *fiber.Ctx) (service.AlertInput, error) {
	var req dto.AlertRequest
	if err := c.BodyParser(&req); err != nil {
		return service.AlertInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	return service.AlertInput{
		Name:            req.Name,
		Metric:          req.Metric,
		Operator:        req.Operator,
		Threshold:       req.Threshold,
		Enabled:         req.Enabled,
		CooldownMinutes: req.CooldownMinutes,
	}, nil
}

// Create POST /alerts.
func (h *AlertsHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	input, err := alertInputFrom(c)
	if err != nil {
		return err
	}
	alert, err := h.service.CreateAlert(c.UserContext(), actor, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewAlertResponse(alert)})
}

// Update PUT /alerts/:id.
func (h *AlertsHandler) Update(c *fiber.Ctx) error {
	input, err := alertInputFrom(c)
	if err != nil {
		return err
	}
	alert, err := h.service.UpdateAlert(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAlertResponse(alert)})
}

// Delete DELETE /alerts/:id.
func (h *AlertsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteAlert(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// List GET /alerts.
func (h *AlertsHandler) List(c *fiber.Ctx) error {
	alerts, err := h.service.ListAlerts(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.AlertResponse, 0, len(alerts))
	for i := range alerts {
		items = append(items, dto.NewAlertResponse(&alerts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// History GET /alerts/:id/history.
func (h *AlertsHandler) History(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	entries, err := h.service.History(c.UserContext(), c.Params("id"), limit)
	if err != nil {
		return err
	}
	items := make([]dto.AlertHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.AlertHistoryResponse{
			ID:          entry.ID,
			Metric:      entry.Metric,
			Value:       entry.Value,
			Threshold:   entry.Threshold,
			TriggeredAt: entry.TriggeredAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

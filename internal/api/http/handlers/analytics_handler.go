package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/service"
)

// AnalyticsHandler serves the reports page aggregates and dashboard metrics.
type AnalyticsHandler struct {
	service *service.DashboardService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(dashboardService *service.DashboardService) *AnalyticsHandler {
	return &AnalyticsHandler{service: dashboardService}
}

// Summary GET /analytics/summary.
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	filter := parseTicketQuery(c)
	filter.Limit = 0
	filter.Offset = 0

	summary, err := h.service.Summary(c.UserContext(), filter, time.Now())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

// RealtimeMetrics GET /analytics/metrics.
func (h *AnalyticsHandler) RealtimeMetrics(c *fiber.Ctx) error {
	metrics, err := h.service.RealtimeMetrics(c.UserContext(), time.Now())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": metrics})
}

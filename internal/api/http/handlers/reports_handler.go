package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// ReportsHandler manages auto report endpoints and ticket exports.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

func reportInputFrom(c *fiber.Ctx) (service.ReportInput, error) {
	var req dto.ReportRequest
	if err := c.BodyParser(&req); err != nil {
		return service.ReportInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	return service.ReportInput{
		Name:       req.Name,
		Period:     req.Period,
		Format:     req.Format,
		Recipients: req.Recipients,
		Enabled:    req.Enabled,
	}, nil
}

// Create POST /reports.
func (h *ReportsHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	input, err := reportInputFrom(c)
	if err != nil {
		return err
	}
	report, err := h.service.CreateReport(c.UserContext(), actor, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewReportResponse(report)})
}

// Update PUT /reports/:id.
func (h *ReportsHandler) Update(c *fiber.Ctx) error {
	input, err := reportInputFrom(c)
	if err != nil {
		return err
	}
	report, err := h.service.UpdateReport(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReportResponse(report)})
}

// Delete DELETE /reports/:id.
func (h *ReportsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteReport(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// List GET /reports.
func (h *ReportsHandler) List(c *fiber.Ctx) error {
	reports, err := h.service.ListReports(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.ReportResponse, 0, len(reports))
	for i := range reports {
		items = append(items, dto.NewReportResponse(&reports[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// History GET /reports/:id/history.
func (h *ReportsHandler) History(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	entries, err := h.service.History(c.UserContext(), c.Params("id"), limit)
	if err != nil {
		return err
	}
	items := make([]dto.ReportHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.ReportHistoryResponse{
			ID:          entry.ID,
			Period:      entry.Period,
			RangeFrom:   entry.RangeFrom,
			RangeTo:     entry.RangeTo,
			Payload:     entry.Payload,
			GeneratedAt: entry.GeneratedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// RunNow POST /reports/:id/run.
func (h *ReportsHandler) RunNow(c *fiber.Ctx) error {
	report, err := h.service.GetReport(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	entry, err := h.service.Generate(c.UserContext(), report, time.Now())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ReportHistoryResponse{
		ID:          entry.ID,
		Period:      entry.Period,
		RangeFrom:   entry.RangeFrom,
		RangeTo:     entry.RangeTo,
		Payload:     entry.Payload,
		GeneratedAt: entry.GeneratedAt,
	}})
}

// Export GET /export/tickets?format=csv|xlsx|json.
func (h *ReportsHandler) Export(c *fiber.Ctx) error {
	format := domain.ReportFormat(c.Query("format", string(domain.ReportFormatCSV)))
	filter := parseTicketQuery(c)
	filter.Limit = 0
	filter.Offset = 0

	var buf bytes.Buffer
	contentType, ext, err := h.service.ExportTickets(c.UserContext(), &buf, filter, format, time.Now())
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("tickets-%s.%s", time.Now().Format("2006-01-02"), ext)
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(buf.Bytes())
}

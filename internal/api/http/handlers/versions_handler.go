package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// VersionsHandler exposes ticket edit history endpoints.
type VersionsHandler struct {
	service *service.VersionService
}

// NewVersionsHandler constructs handler.
func NewVersionsHandler(versionService *service.VersionService) *VersionsHandler {
	return &VersionsHandler{service: versionService}
}

// History GET /tickets/:id/versions.
func (h *VersionsHandler) History(c *fiber.Ctx) error {
	versions, err := h.service.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.VersionResponse, 0, len(versions))
	for i := range versions {
		items = append(items, dto.NewVersionResponse(&versions[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Snapshot POST /tickets/:id/versions.
func (h *VersionsHandler) Snapshot(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.SaveSnapshotRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	version, err := h.service.SaveSnapshot(c.UserContext(), actor, c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewVersionResponse(version)})
}

// Compare GET /tickets/:id/versions/compare?from=N&to=M.
func (h *VersionsHandler) Compare(c *fiber.Ctx) error {
	from, err := strconv.Atoi(c.Query("from"))
	if err != nil || from < 1 {
		return apperrors.NewValidationError("from must be a positive version number", nil)
	}
	to, err := strconv.Atoi(c.Query("to"))
	if err != nil || to < 1 {
		return apperrors.NewValidationError("to must be a positive version number", nil)
	}

	cmp, err := h.service.Compare(c.UserContext(), c.Params("id"), from, to)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CompareResponse{
		FromVersion: cmp.FromVersion,
		ToVersion:   cmp.ToVersion,
		Changes:     cmp.Changes,
	}})
}

// Revert POST /tickets/:id/versions/revert.
func (h *VersionsHandler) Revert(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.RevertRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Version < 1 {
		return apperrors.NewValidationError("version must be a positive version number", nil)
	}

	ticket, version, err := h.service.Revert(c.UserContext(), actor, c.Params("id"), req.Version, req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"ticket":  dto.NewTicketSummary(ticket),
		"version": dto.NewVersionResponse(version),
	}})
}

// Reverts GET /tickets/:id/versions/reverts.
func (h *VersionsHandler) Reverts(c *fiber.Ctx) error {
	reverts, err := h.service.Reverts(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.RevertResponse, 0, len(reverts))
	for i := range reverts {
		items = append(items, dto.NewRevertResponse(&reverts[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fixithub/complaint-service/internal/api/dto"
	"github.com/fixithub/complaint-service/internal/domain"
	"github.com/fixithub/complaint-service/internal/service"
	apperrors "github.com/fixithub/complaint-service/pkg/util/errorutil"
)

// AdminComplaintsHandler handles residency-wide complaint triage.
type AdminComplaintsHandler struct {
	complaints *service.ComplaintService
}

// NewAdminComplaintsHandler constructs handler.
func NewAdminComplaintsHandler(complaintService *service.ComplaintService) *AdminComplaintsHandler {
	return &AdminComplaintsHandler{complaints: complaintService}
}

// List GET /admin/complaints?status=&limit=&offset=.
func (h *AdminComplaintsHandler) List(c *fiber.Ctx) error {
	admin, err := requireRole(c, domain.RoleAdmin)
	if err != nil {
		return err
	}
	statuses, err := service.ParseStatusFilter(c.Query("status"))
	if err != nil {
		return err
	}
	page, err := service.ParsePage(c.Query("limit"), c.Query("offset"))
	if err != nil {
		return err
	}
	complaints, err := h.complaints.ListForResidency(c.UserContext(), admin, statuses, page)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponses(c.UserContext(), h.complaints, complaints)})
}

// UpdateStatus PATCH /admin/complaints/:id/status.
func (h *AdminComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	admin, err := requireRole(c, domain.RoleAdmin)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	complaint, err := h.complaints.UpdateStatus(c.UserContext(), admin, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponse(c.UserContext(), h.complaints, complaint)})
}

// Delete DELETE /admin/complaints/:id.
func (h *AdminComplaintsHandler) Delete(c *fiber.Ctx) error {
	admin, err := requireRole(c, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if err := h.complaints.Delete(c.UserContext(), admin, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

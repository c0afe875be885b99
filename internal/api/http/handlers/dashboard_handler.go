package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fixithub/complaint-service/internal/api/dto"
	"github.com/fixithub/complaint-service/internal/domain"
	"github.com/fixithub/complaint-service/internal/service"
)

// DashboardHandler serves the resident and admin home screens.
type DashboardHandler struct {
	dashboards *service.DashboardService
	complaints *service.ComplaintService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboards *service.DashboardService, complaints *service.ComplaintService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards, complaints: complaints}
}

// User GET /dashboard/user.
func (h *DashboardHandler) User(c *fiber.Ctx) error {
	user, err := requireRole(c, domain.RoleUser)
	if err != nil {
		return err
	}
	view, err := h.dashboards.ForUser(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.UserDashboardResponse{
		Residency:   residencyResponse(&view.Residency),
		MemberCount: view.MemberCount,
		Stats:       statsResponse(view.Stats),
		Complaints:  complaintResponses(c.UserContext(), h.complaints, view.Complaints),
	}})
}

// Admin GET /dashboard/admin?status=.
func (h *DashboardHandler) Admin(c *fiber.Ctx) error {
	admin, err := requireRole(c, domain.RoleAdmin)
	if err != nil {
		return err
	}
	statuses, err := service.ParseStatusFilter(c.Query("status"))
	if err != nil {
		return err
	}
	view, err := h.dashboards.ForAdmin(c.UserContext(), admin, statuses)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AdminDashboardResponse{
		Residency:  residencyResponse(&view.Residency),
		UserCount:  view.UserCount,
		AdminCount: view.AdminCount,
		Stats:      statsResponse(view.Stats),
		Complaints: complaintResponses(c.UserContext(), h.complaints, view.Complaints),
	}})
}

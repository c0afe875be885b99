package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fixithub/complaint-service/internal/api/dto"
	"github.com/fixithub/complaint-service/internal/config"
	"github.com/fixithub/complaint-service/internal/domain"
	"github.com/fixithub/complaint-service/internal/service"
)

// ResidencyHandler serves residency and membership endpoints.
type ResidencyHandler struct {
	residencies *service.ResidencyService
	limits      config.ResidencyConfig
}

// NewResidencyHandler constructs handler.
func NewResidencyHandler(residencies *service.ResidencyService, limits config.ResidencyConfig) *ResidencyHandler {
	return &ResidencyHandler{residencies: residencies, limits: limits}
}

// List GET /residencies.
func (h *ResidencyHandler) List(c *fiber.Ctx) error {
	residencies, err := h.residencies.List(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.ResidencyResponse, 0, len(residencies))
	for i := range residencies {
		items = append(items, residencyResponse(&residencies[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Info GET /residency.
func (h *ResidencyHandler) Info(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	info, err := h.residencies.Info(c.UserContext(), user.ResidencyID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ResidencyInfoResponse{
		Residency: residencyResponse(&info.Residency),
		Users:     userResponses(info.Users),
		Admins:    userResponses(info.Admins),
		Capacity: dto.CapacityResponse{
			MaxUsers:        h.limits.MaxUsers,
			MaxAdmins:       h.limits.MaxAdmins,
			RemainingUsers:  info.RemainingUsers,
			RemainingAdmins: info.RemainingAdmins,
		},
	}})
}

// Members GET /admin/users.
func (h *ResidencyHandler) Members(c *fiber.Ctx) error {
	admin, err := requireRole(c, domain.RoleAdmin)
	if err != nil {
		return err
	}
	members, err := h.residencies.Members(c.UserContext(), admin.ResidencyID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponses(members)})
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fixithub/complaint-service/internal/auth"
	"github.com/fixithub/complaint-service/internal/domain"
	apperrors "github.com/fixithub/complaint-service/pkg/util/errorutil"
)

func currentUser(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal.User, nil
}

func requireRole(c *fiber.Ctx, role domain.Role) (*domain.User, error) {
	user, err := currentUser(c)
	if err != nil {
		return nil, err
	}
	if user.Role != role {
		return nil, apperrors.NewForbidden(string(role) + " role required")
	}
	return user, nil
}

package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fixithub/complaint-service/internal/domain"
	apperrors "github.com/fixithub/complaint-service/pkg/util/errorutil"
)

// View names the screen a principal lands on.
type View string

const (
	ViewLogin          View = "login"
	ViewUserDashboard  View = "user_dashboard"
	ViewAdminDashboard View = "admin_dashboard"
)

// LandingView picks the home screen for the caller.
func LandingView(principal *Principal) View {
	if principal == nil || principal.User == nil {
		return ViewLogin
	}
	if principal.User.IsAdmin() {
		return ViewAdminDashboard
	}
	return ViewUserDashboard
}

// RequireRole ensures the principal has one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.User.Role]; !exists {
			return apperrors.NewForbidden(string(principal.User.Role) + " role cannot access this resource")
		}
		return c.Next()
	}
}

// RequireAnyRole ensures caller is authenticated.
func RequireAnyRole() fiber.Handler {
	return RequireRole()
}

package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixithub/complaint-service/internal/domain"
	apperrors "github.com/fixithub/complaint-service/pkg/util/errorutil"
)

func TestLandingView(t *testing.T) {
	assert.Equal(t, ViewLogin, LandingView(nil))
	assert.Equal(t, ViewUserDashboard, LandingView(&Principal{User: &domain.User{Role: domain.RoleUser}}))
	assert.Equal(t, ViewAdminDashboard, LandingView(&Principal{User: &domain.User{Role: domain.RoleAdmin}}))
}

func TestRequireRole(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: func(c *fiber.Ctx, err error) error {
		return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
	}})
	withRole := func(role domain.Role) fiber.Handler {
		return func(c *fiber.Ctx) error {
			if role != "" {
				c.Locals(principalKey, &Principal{User: &domain.User{ID: "x", Role: role}})
			}
			return c.Next()
		}
	}
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) }

	app.Get("/anon", withRole(""), RequireRole(domain.RoleAdmin), ok)
	app.Get("/user", withRole(domain.RoleUser), RequireRole(domain.RoleAdmin), ok)
	app.Get("/admin", withRole(domain.RoleAdmin), RequireRole(domain.RoleAdmin), ok)

	cases := map[string]int{
		"/anon":  fiber.StatusUnauthorized,
		"/user":  fiber.StatusForbidden,
		"/admin": fiber.StatusNoContent,
	}
	for path, want := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, path)
	}
}

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fixithub/complaint-service/internal/api/dto"
	"github.com/fixithub/complaint-service/internal/auth"
	"github.com/fixithub/complaint-service/internal/domain"
	"github.com/fixithub/complaint-service/internal/service"
	apperrors "github.com/fixithub/complaint-service/pkg/util/errorutil"
)

// AuthHandler exposes registration, login and session endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	result, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Username:          req.Username,
		Phone:             req.Phone,
		Email:             req.Email,
		Role:              domain.Role(req.Role),
		ResidencyID:       req.ResidencyID,
		WorkingProfession: req.WorkingProfession,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": authResponse(result)})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	result, err := h.auth.Login(c.UserContext(), req.Identifier)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": authResponse(result)})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.auth.Logout(c.UserContext(), principal.SessionID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Session handles GET /session.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	resp := dto.SessionResponse{View: string(auth.LandingView(nil))}
	if ok {
		user := userResponse(principal.User)
		resp = dto.SessionResponse{
			Authenticated: true,
			View:          string(auth.LandingView(principal)),
			User:          &user,
		}
	}
	return c.JSON(fiber.Map{"data": resp})
}

func authResponse(result *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		View:      string(result.View),
		User:      userResponse(result.User),
	}
}

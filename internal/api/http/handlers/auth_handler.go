package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-union/engage-auth/internal/api/dto"
	"github.com/campus-union/engage-auth/internal/service"
	apperrors "github.com/campus-union/engage-auth/pkg/util"
)

// AuthHandler exposes the login and register endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password, req.IsRememberMe, c.IP())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.AuthData{
			AccessToken: result.Token,
			User: dto.SessionUser{
				ID:        result.UserID,
				ProfileID: result.ProfileID,
			},
		},
	})
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.auth.Register(c.UserContext(), req.FullName, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.AuthData{
			AccessToken: result.Token,
			User: dto.SessionUser{
				ID:        result.UserID,
				ProfileID: result.ProfileID,
			},
		},
	})
}

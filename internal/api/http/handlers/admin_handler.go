package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-union/engage-auth/internal/auth"
	"github.com/campus-union/engage-auth/internal/service"
)

// AdminHandler exposes administrator-only endpoints.
type AdminHandler struct {
	profiles *service.ProfileService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(profiles *service.ProfileService) *AdminHandler {
	return &AdminHandler{profiles: profiles}
}

// ListProfiles handles GET /api/admin/profiles.
func (h *AdminHandler) ListProfiles(c *fiber.Ctx) error {
	if _, err := auth.RequireSessionUser(c); err != nil {
		return err
	}

	profiles, err := h.profiles.List(c.UserContext())
	if err != nil {
		return err
	}

	responses := make([]any, 0, len(profiles))
	for i := range profiles {
		responses = append(responses, toProfileResponse(&profiles[i]))
	}
	return c.JSON(fiber.Map{"data": responses})
}

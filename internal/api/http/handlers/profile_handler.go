package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-union/engage-auth/internal/api/dto"
	"github.com/campus-union/engage-auth/internal/auth"
	"github.com/campus-union/engage-auth/internal/directus"
	"github.com/campus-union/engage-auth/internal/service"
	apperrors "github.com/campus-union/engage-auth/pkg/util"
)

// ProfileHandler exposes the caller's own profile.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler constructs handler.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get handles GET /api/profile.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	session, err := auth.RequireSessionUser(c)
	if err != nil {
		return err
	}

	profile, err := h.profiles.Get(c.UserContext(), session.Claims.ProfileID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": toProfileResponse(profile)})
}

// Update handles PATCH /api/profile.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	session, err := auth.RequireSessionUser(c)
	if err != nil {
		return err
	}

	var req dto.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	profile, err := h.profiles.Update(c.UserContext(), session.Claims.ProfileID, service.ProfileUpdate{
		Name:    req.Name,
		Faculty: req.Faculty,
		Bio:     req.Bio,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": toProfileResponse(profile)})
}

func toProfileResponse(p *directus.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:      p.ID,
		User:    p.User,
		Name:    p.Name,
		Faculty: p.Faculty,
		Bio:     p.Bio,
	}
}

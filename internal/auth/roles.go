package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/campus-union/engage-auth/pkg/util"
)

// Role names accepted by the admin gate. Both spellings exist in the backend's
// role table, so both are kept.
const (
	RoleNameAdministrator = "Administrator"
	RoleNameAdmin         = "Admin"
)

// RoleSource answers the current role name for a user id.
type RoleSource interface {
	UserRole(ctx context.Context, userID string) (string, error)
}

// RequireAdmin gates a route on an administrative role. The role is looked up
// on the backend per request rather than read from the session token: the
// token never embeds a role, and the backend may change a user's role between
// token issuance and use.
func RequireAdmin(roles RoleSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := SessionFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		// Same rule as the other protected routes: a verified session with an
		// empty userId names no user.
		if session.Claims.UserID == "" {
			return apperrors.NewNotFound("user", nil)
		}

		role, err := roles.UserRole(c.UserContext(), session.Claims.UserID)
		if err != nil {
			return err
		}
		if role != RoleNameAdministrator && role != RoleNameAdmin {
			return apperrors.NewForbidden("administrator role required")
		}
		return c.Next()
	}
}

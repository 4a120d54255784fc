package auth

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/campus-union/engage-auth/pkg/util"
)

const sessionKey = "auth_session"

// Session is the authenticated caller attached to the request after the
// bearer gate passes.
type Session struct {
	Token  string
	Claims *SessionClaims
}

// AuthMiddleware validates bearer tokens on protected routes.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle extracts and verifies the bearer credential. Rejections are written
// directly so downstream handlers never see a half-authenticated request.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return reject(c, "missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return reject(c, "invalid authorization header")
	}

	raw := strings.TrimSpace(parts[1])
	if raw == "" {
		return reject(c, "missing bearer token")
	}

	claims, err := m.tokens.Parse(raw)
	if err != nil {
		return reject(c, "invalid or expired token")
	}

	c.Locals(sessionKey, &Session{Token: raw, Claims: claims})
	return c.Next()
}

func reject(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": message})
}

// SessionFromContext retrieves the authenticated session.
func SessionFromContext(c *fiber.Ctx) (*Session, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return nil, false
	}
	session, ok := val.(*Session)
	return session, ok
}

// RequireSessionUser returns the session and enforces that its userId is
// populated. A token can verify yet carry an empty userId; such a session
// names no user, so protected endpoints answer 404 for it.
func RequireSessionUser(c *fiber.Ctx) (*Session, error) {
	session, ok := SessionFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if session.Claims.UserID == "" {
		return nil, apperrors.NewNotFound("user", nil)
	}
	return session, nil
}

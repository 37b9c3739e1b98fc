package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/hiddenpiece/roadmap-service/pkg/util/errorutil"
)

const usernameKey = "auth_username"

// AuthMiddleware validates bearer tokens and exposes the verified username.
// Whether the username still exists is decided by the services.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(usernameKey, claims.Subject)
	return c.Next()
}

// UsernameFromContext retrieves the authenticated username.
func UsernameFromContext(c *fiber.Ctx) (string, bool) {
	username, ok := c.Locals(usernameKey).(string)
	return username, ok && username != ""
}

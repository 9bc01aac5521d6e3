package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/timesheet/internal/models"
)

// Paths a user who still has to replace a temporary password may call.
var passwordChangeAllowedPaths = map[string]bool{
	"/api/auth/me":              true,
	"/api/auth/logout":          true,
	"/api/auth/change-password": true,
	"/api/toasts":               true,
	"/ws/toasts":                true,
}

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	user, claims, err := handler.authenticateRequest(c)
	if err != nil {
		return handler.apiError(c, fiber.StatusUnauthorized, "error.unauthorized")
	}

	c.Locals(contextUserKey, user)
	c.Locals(contextSessionKey, claims.SessionID)
	handler.toasts.Open(claims.SessionID, claims.ExpiresAt.Time, handler.now())
	if user.MustChangePassword && !passwordChangeAllowed(c.Path()) {
		return handler.apiError(c, fiber.StatusForbidden, "error.password_change_required")
	}
	return c.Next()
}

// RequireCapability rejects users whose roles do not grant capability.
// Missing capability answers 401 like a missing session.
func (handler *Handler) RequireCapability(capability models.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := currentUser(c)
		if !ok || !user.Roles.Can(capability) {
			return handler.apiError(c, fiber.StatusUnauthorized, "error.unauthorized")
		}
		return c.Next()
	}
}

func passwordChangeAllowed(path string) bool {
	return passwordChangeAllowedPaths[path] || strings.HasPrefix(path, "/api/toasts/")
}

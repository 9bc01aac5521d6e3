package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/terraincognita07/timesheet/internal/models"
)

// startSession signs a token for a fresh session id and opens its toast queue.
func (handler *Handler) startSession(c *fiber.Ctx, user *models.User) (string, error) {
	sessionID := uuid.NewString()
	now := handler.now()
	expiresAt := now.Add(handler.tokenTTL)
	token, err := handler.buildToken(user, sessionID, now, expiresAt)
	if err != nil {
		return "", err
	}
	sealed, err := handler.cookies.seal(authCookieName, []byte(token))
	if err != nil {
		return "", err
	}

	c.Cookie(&fiber.Cookie{
		Name:     authCookieName,
		Value:    sealed,
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  expiresAt,
	})
	handler.toasts.Open(sessionID, expiresAt, now)
	c.Locals(contextSessionKey, sessionID)
	return sessionID, nil
}

func (handler *Handler) clearAuthCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  handler.now().Add(-time.Hour),
	})
}

func (handler *Handler) buildToken(user *models.User, sessionID string, now time.Time, expiresAt time.Time) (string, error) {
	claims := authClaims{
		UserID:    user.ID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ID:        sessionID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(handler.secretKey)
}

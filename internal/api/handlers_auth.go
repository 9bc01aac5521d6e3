package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/timesheet/internal/models"
	"github.com/terraincognita07/timesheet/internal/services"
)

type credentialsInput struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type changePasswordInput struct {
	CurrentPassword string `json:"currentPassword" form:"current_password"`
	NewPassword     string `json:"newPassword" form:"new_password"`
}

type sessionResponse struct {
	User               models.User `json:"user"`
	MustChangePassword bool        `json:"mustChangePassword"`
	CanAdminister      bool        `json:"canAdminister"`
	Language           string      `json:"language"`
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	key := clientKey(c)
	if handler.loginLimiter.blocked(key, handler.now()) {
		return handler.apiError(c, fiber.StatusTooManyRequests, "error.too_many_attempts")
	}

	input := credentialsInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "error.invalid_body")
	}

	user, err := handler.authService.Authenticate(input.Email, input.Password)
	if errors.Is(err, services.ErrAuthCredentialsInvalid) {
		handler.loginLimiter.recordFailure(key, handler.now())
		return handler.apiError(c, fiber.StatusUnauthorized, "error.invalid_credentials")
	}
	if err != nil {
		return handler.internalError(c, "error.internal", err)
	}

	handler.loginLimiter.forget(key)
	if _, err := handler.startSession(c, &user); err != nil {
		return handler.internalError(c, "error.internal", err)
	}
	return c.JSON(handler.sessionPayload(c, &user))
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	if sessionID := currentSessionID(c); sessionID != "" {
		handler.toasts.Close(sessionID)
	}
	handler.clearAuthCookie(c)
	return c.JSON(fiber.Map{"success": true})
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, "error.unauthorized")
	}
	return c.JSON(handler.sessionPayload(c, user))
}

func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return handler.apiError(c, fiber.StatusUnauthorized, "error.unauthorized")
	}

	input := changePasswordInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.apiError(c, fiber.StatusBadRequest, "error.invalid_body")
	}

	err := handler.authService.ChangePassword(user.ID, input.CurrentPassword, strings.TrimSpace(input.NewPassword))
	if err != nil {
		status, key, known := classifyError(err, passwordErrorMappings)
		if !known {
			handler.toastError(c, "error.password_change_failed")
			return handler.internalError(c, "error.password_change_failed", err)
		}
		return handler.mutationFailed(c, status, key, nil)
	}

	handler.toastSuccess(c, "toast.password_changed")
	return c.JSON(fiber.Map{"success": true})
}

func (handler *Handler) sessionPayload(c *fiber.Ctx, user *models.User) sessionResponse {
	return sessionResponse{
		User:               *user,
		MustChangePassword: user.MustChangePassword,
		CanAdminister:      user.Roles.Can(models.CapabilityAdminister),
		Language:           currentLanguage(c),
	}
}

package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/timesheet/internal/models"
)

const (
	authCookieName     = "timesheet_auth"
	languageCookieName = "timesheet_lang"
	contextUserKey     = "current_user"
	contextSessionKey  = "current_session"
	contextLanguageKey = "current_language"
)

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok && user != nil
}

func currentSessionID(c *fiber.Ctx) string {
	sessionID, _ := c.Locals(contextSessionKey).(string)
	return sessionID
}

package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/terraincognita07/timesheet/internal/models"
)

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	app.Get("/lang/:lang", handler.SetLanguage)
	app.Get("/ws/toasts", handler.AuthRequired, handler.ToastStreamUpgrade, websocket.New(handler.StreamToasts))

	registerAPIRoutes(app, handler)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Get("/me", handler.AuthRequired, handler.Me)
	auth.Post("/change-password", handler.AuthRequired, handler.ChangePassword)

	toasts := api.Group("/toasts", handler.AuthRequired)
	toasts.Get("", handler.ListToasts)
	toasts.Delete("/:id", handler.DismissToast)

	api.Get("/periods", handler.AuthRequired, handler.ListPeriods)

	entries := api.Group("/entries", handler.AuthRequired, handler.RequireCapability(models.CapabilityLogTime))
	entries.Get("", handler.ListEntries)
	entries.Put("", handler.SaveEntry)
	entries.Delete("", handler.DeleteEntry)

	admin := api.Group("/admin", handler.AuthRequired, handler.RequireCapability(models.CapabilityAdminister), handler.AdminRateLimit)
	admin.Get("/users", handler.ListUsers)
	admin.Post("/users", handler.CreateUser)
	admin.Put("/users", handler.UpdateUser)
	admin.Delete("/users", handler.DeleteUser)

	admin.Get("/charge-codes", handler.ListChargeCodes)
	admin.Post("/charge-codes", handler.CreateChargeCode)
	admin.Put("/charge-codes", handler.UpdateChargeCode)
	admin.Delete("/charge-codes", handler.DeleteChargeCode)

	admin.Get("/settings", handler.GetAdminSettings)
	admin.Put("/settings", handler.UpdateAdminSettings)

	admin.Get("/export.xlsx", handler.ExportWorkbook)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

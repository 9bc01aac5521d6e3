package api

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/timesheet/internal/services"
)

// apiError answers {"error": <localized key>}.
func (handler *Handler) apiError(c *fiber.Ctx, status int, key string) error {
	return c.Status(status).JSON(fiber.Map{"error": handler.translate(c, key)})
}

// apiErrorWithDetails merges details next to the error message.
func (handler *Handler) apiErrorWithDetails(c *fiber.Ctx, status int, key string, details fiber.Map) error {
	payload := fiber.Map{"error": handler.translate(c, key)}
	for name, value := range details {
		payload[name] = value
	}
	return c.Status(status).JSON(payload)
}

// internalError logs cause and answers a generic message under key.
func (handler *Handler) internalError(c *fiber.Ctx, key string, cause error) error {
	log.Printf("api: %s %s: %v", c.Method(), c.Path(), cause)
	return handler.apiError(c, fiber.StatusInternalServerError, key)
}

// mutationFailed reports a failed admin mutation both as a response and as an error toast.
func (handler *Handler) mutationFailed(c *fiber.Ctx, status int, key string, details fiber.Map) error {
	handler.toastError(c, key)
	if len(details) > 0 {
		return handler.apiErrorWithDetails(c, status, key, details)
	}
	return handler.apiError(c, status, key)
}

func (handler *Handler) toastSuccess(c *fiber.Ctx, key string) {
	handler.sessionToasts(c).Toast(services.ToastMessage{
		Title:       handler.translate(c, "toast.title.success"),
		Description: handler.translate(c, key),
		Variant:     services.ToastVariantDefault,
	})
}

func (handler *Handler) toastError(c *fiber.Ctx, key string) {
	handler.sessionToasts(c).Toast(services.ToastMessage{
		Title:       handler.translate(c, "toast.title.error"),
		Description: handler.translate(c, key),
		Variant:     services.ToastVariantDestructive,
	})
}

// sessionToasts may return nil; a nil queue only logs.
func (handler *Handler) sessionToasts(c *fiber.Ctx) *services.ToastQueue {
	return handler.toasts.Queue(currentSessionID(c))
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

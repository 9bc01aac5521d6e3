package api

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/timesheet/internal/models"
	"github.com/terraincognita07/timesheet/internal/services"
)

// entryInput sets the hours of one charge code on one day. Hours must be
// present; an explicit null clears them.
type entryInput struct {
	ChargeCodeID string          `json:"chargeCodeId"`
	Date         string          `json:"date"`
	Hours        json.RawMessage `json:"hours"`
}

func (input entryInput) hours() (services.Hours, bool) {
	if len(input.Hours) == 0 {
		return services.NoHours, false
	}
	var hours services.Hours
	if err := json.Unmarshal(input.Hours, &hours); err != nil {
		return services.NoHours, false
	}
	return hours, true
}

type entryResponse struct {
	Entry          *models.TimeEntry `json:"entry"`
	RemainingHours int               `json:"remainingHours"`
}

func (handler *Handler) ListEntries(c *fiber.Ctx) error {
	period := services.PeriodFor(handler.today())
	if raw := strings.TrimSpace(c.Query("period")); raw != "" {
		parsed, err := services.ParsePeriodStart(raw)
		if err != nil {
			return handler.apiError(c, fiber.StatusBadRequest, "error.period_invalid")
		}
		period = parsed
	}

	user, _ := currentUser(c)
	timesheet, err := handler.entryService.ListPeriod(user.ID, period)
	if err != nil {
		return handler.internalError(c, "error.entries_fetch", err)
	}
	return c.JSON(timesheet)
}

func (handler *Handler) SaveEntry(c *fiber.Ctx) error {
	input := entryInput{}
	if err := c.BodyParser(&input); err != nil {
		return handler.mutationFailed(c, fiber.StatusBadRequest, "error.invalid_body", nil)
	}
	hours, ok := input.hours()
	if !ok {
		return handler.mutationFailed(c, fiber.StatusBadRequest, "error.entry_hours_required", nil)
	}
	day, err := services.ParseEntryDate(input.Date)
	if err != nil {
		return handler.entryMutationFailed(c, "error.entry_save", err)
	}

	user, _ := currentUser(c)
	entry, err := handler.entryService.SetHours(user.ID, input.ChargeCodeID, day, hours)
	if err != nil {
		return handler.entryMutationFailed(c, "error.entry_save", err)
	}
	remaining, err := handler.entryService.RemainingHours(user.ID, day)
	if err != nil {
		return handler.internalError(c, "error.entries_fetch", err)
	}

	if entry == nil {
		handler.toastSuccess(c, "toast.hours_cleared")
	} else {
		handler.toastSuccess(c, "toast.hours_saved")
	}
	return c.JSON(entryResponse{Entry: entry, RemainingHours: remaining})
}

func (handler *Handler) DeleteEntry(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	if err := handler.entryService.DeleteEntry(user.ID, c.Query("id")); err != nil {
		return handler.entryMutationFailed(c, "error.entry_delete", err)
	}

	handler.toastSuccess(c, "toast.hours_cleared")
	return c.JSON(fiber.Map{"success": true})
}

func (handler *Handler) entryMutationFailed(c *fiber.Ctx, fallbackKey string, err error) error {
	status, key, known := classifyError(err, timeEntryErrorMappings)
	if !known {
		handler.toastError(c, fallbackKey)
		return handler.internalError(c, fallbackKey, err)
	}
	return handler.mutationFailed(c, status, key, nil)
}

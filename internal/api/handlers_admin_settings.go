package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/timesheet/internal/models"
	"github.com/terraincognita07/timesheet/internal/services"
)

// Bounds are "YYYY-MM-DD" period starts; null or "" removes the restriction.
type adminSettingsPayload struct {
	ID                   uint       `json:"id"`
	OldestEditablePeriod *string    `json:"oldestEditablePeriod"`
	LatestEditablePeriod *string    `json:"latestEditablePeriod"`
	UpdatedAt            *time.Time `json:"updatedAt,omitempty"`
}

func (handler *Handler) GetAdminSettings(c *fiber.Ctx) error {
	settings, err := handler.settingsService.Load()
	if err != nil {
		return handler.internalError(c, "error.settings_fetch", err)
	}
	return c.JSON(settingsPayload(settings))
}

func (handler *Handler) UpdateAdminSettings(c *fiber.Ctx) error {
	input := adminSettingsPayload{}
	if err := c.BodyParser(&input); err != nil {
		return handler.mutationFailed(c, fiber.StatusBadRequest, "error.invalid_body", nil)
	}

	oldest, err := parsePeriodBound(input.OldestEditablePeriod)
	if err != nil {
		return handler.settingsMutationFailed(c, err)
	}
	latest, err := parsePeriodBound(input.LatestEditablePeriod)
	if err != nil {
		return handler.settingsMutationFailed(c, err)
	}

	settings, err := handler.settingsService.Update(actorID(c), services.EditableWindow{Oldest: oldest, Latest: latest})
	if err != nil {
		return handler.settingsMutationFailed(c, err)
	}

	handler.toastSuccess(c, "toast.settings_updated")
	return c.JSON(settingsPayload(settings))
}

func (handler *Handler) settingsMutationFailed(c *fiber.Ctx, err error) error {
	status, key, known := classifyError(err, settingsErrorMappings)
	if !known {
		handler.toastError(c, "error.settings_update")
		return handler.internalError(c, "error.settings_update", err)
	}
	return handler.mutationFailed(c, status, key, nil)
}

// parsePeriodBound also accepts a full ISO timestamp and keeps its date part.
func parsePeriodBound(raw *string) (services.PeriodBound, error) {
	if raw == nil {
		return services.Unrestricted, nil
	}
	value := strings.TrimSpace(*raw)
	if value == "" {
		return services.Unrestricted, nil
	}
	if len(value) > 10 && value[10] == 'T' {
		value = value[:10]
	}
	period, err := services.ParsePeriodStart(value)
	if err != nil {
		return services.Unrestricted, err
	}
	return services.BoundAt(period), nil
}

func settingsPayload(settings models.AdminSettings) adminSettingsPayload {
	window := services.WindowFromSettings(settings)
	payload := adminSettingsPayload{ID: settings.ID}
	if value := window.Oldest.String(); value != "" {
		payload.OldestEditablePeriod = &value
	}
	if value := window.Latest.String(); value != "" {
		payload.LatestEditablePeriod = &value
	}
	if !settings.UpdatedAt.IsZero() {
		updatedAt := settings.UpdatedAt.UTC()
		payload.UpdatedAt = &updatedAt
	}
	return payload
}

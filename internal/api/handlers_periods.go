package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/timesheet/internal/services"
)

type periodsResponse struct {
	Options              []services.PeriodOption `json:"options"`
	Current              services.PeriodOption   `json:"current"`
	OldestEditablePeriod *string                 `json:"oldestEditablePeriod"`
	LatestEditablePeriod *string                 `json:"latestEditablePeriod"`
}

func (handler *Handler) ListPeriods(c *fiber.Ctx) error {
	window, err := handler.settingsService.EditableWindow()
	if err != nil {
		return handler.internalError(c, "error.settings_fetch", err)
	}

	response := periodsResponse{
		Options: services.GeneratePeriodOptions(handler.now().In(handler.location)),
		Current: services.PeriodFor(handler.today()).Option(),
	}
	if value := window.Oldest.String(); value != "" {
		response.OldestEditablePeriod = &value
	}
	if value := window.Latest.String(); value != "" {
		response.LatestEditablePeriod = &value
	}
	return c.JSON(response)
}

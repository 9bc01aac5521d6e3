package services

import (
	"fmt"

	"github.com/terraincognita07/timesheet/internal/models"
)

type AdminSettingsRepository interface {
	LoadOrCreate() (models.AdminSettings, error)
	Save(settings *models.AdminSettings) error
}

type AdminSettingsService struct {
	settings AdminSettingsRepository
	audit    AuditPublisher
}

func NewAdminSettingsService(settings AdminSettingsRepository, audit AuditPublisher) *AdminSettingsService {
	return &AdminSettingsService{settings: settings, audit: audit}
}

// Load returns the settings row, creating an unrestricted one on first read.
func (service *AdminSettingsService) Load() (models.AdminSettings, error) {
	settings, err := service.settings.LoadOrCreate()
	if err != nil {
		return models.AdminSettings{}, fmt.Errorf("load admin settings: %w", err)
	}
	return settings, nil
}

func (service *AdminSettingsService) EditableWindow() (EditableWindow, error) {
	settings, err := service.Load()
	if err != nil {
		return EditableWindow{}, err
	}
	return WindowFromSettings(settings), nil
}

func (service *AdminSettingsService) Update(actorID string, window EditableWindow) (models.AdminSettings, error) {
	if err := window.Validate(); err != nil {
		return models.AdminSettings{}, err
	}

	settings, err := service.Load()
	if err != nil {
		return models.AdminSettings{}, err
	}
	settings.OldestEditablePeriod = window.Oldest.TimePtr()
	settings.LatestEditablePeriod = window.Latest.TimePtr()
	if err := service.settings.Save(&settings); err != nil {
		return models.AdminSettings{}, fmt.Errorf("save admin settings: %w", err)
	}
	publishAudit(service.audit, NewAuditEvent(AuditSettingsUpdated, actorID, ""))
	return settings, nil
}

func WindowFromSettings(settings models.AdminSettings) EditableWindow {
	return EditableWindow{
		Oldest: PeriodBoundFromTime(settings.OldestEditablePeriod),
		Latest: PeriodBoundFromTime(settings.LatestEditablePeriod),
	}
}

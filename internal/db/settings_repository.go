package db

import (
	"errors"

	"github.com/terraincognita07/timesheet/internal/models"
	"gorm.io/gorm"
)

type SettingsRepository struct {
	database *gorm.DB
}

func NewSettingsRepository(database *gorm.DB) *SettingsRepository {
	return &SettingsRepository{database: database}
}

// LoadOrCreate returns the settings row, inserting an unrestricted one on first use.
func (repo *SettingsRepository) LoadOrCreate() (models.AdminSettings, error) {
	var settings models.AdminSettings
	err := repo.database.Order("id ASC").First(&settings).Error
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.AdminSettings{}, err
	}

	settings = models.AdminSettings{}
	if err := repo.database.Create(&settings).Error; err != nil {
		return models.AdminSettings{}, err
	}
	return settings, nil
}

func (repo *SettingsRepository) Save(settings *models.AdminSettings) error {
	return repo.database.Save(settings).Error
}

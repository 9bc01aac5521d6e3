package db

import (
	"time"

	"github.com/terraincognita07/timesheet/internal/models"
	"gorm.io/gorm"
)

type TimeEntryRepository struct {
	database *gorm.DB
}

func NewTimeEntryRepository(database *gorm.DB) *TimeEntryRepository {
	return &TimeEntryRepository{database: database}
}

// ListForUserRange returns entries with from <= date < to, oldest first.
func (repo *TimeEntryRepository) ListForUserRange(userID string, from time.Time, to time.Time) ([]models.TimeEntry, error) {
	entries := make([]models.TimeEntry, 0)
	if err := repo.database.
		Where("user_id = ? AND date >= ? AND date < ?", userID, from, to).
		Order("date ASC").
		Order("charge_code_id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *TimeEntryRepository) FindByIDForUser(entryID string, userID string) (models.TimeEntry, error) {
	var entry models.TimeEntry
	if err := repo.database.Where("id = ? AND user_id = ?", entryID, userID).First(&entry).Error; err != nil {
		return models.TimeEntry{}, err
	}
	return entry, nil
}

func (repo *TimeEntryRepository) Create(entry *models.TimeEntry) error {
	return repo.database.Create(entry).Error
}

func (repo *TimeEntryRepository) UpdateHours(entry *models.TimeEntry) error {
	return repo.database.Model(entry).Update("hours", entry.Hours).Error
}

func (repo *TimeEntryRepository) Delete(entryID string) error {
	return repo.database.Where("id = ?", entryID).Delete(&models.TimeEntry{}).Error
}

// ListAll returns every entry ordered for export.
func (repo *TimeEntryRepository) ListAll() ([]models.TimeEntry, error) {
	entries := make([]models.TimeEntry, 0)
	if err := repo.database.Order("date ASC").Order("user_id ASC").Order("charge_code_id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

package db

import (
	"errors"

	"github.com/terraincognita07/timesheet/internal/models"
	"gorm.io/gorm"
)

type ChargeCodeRepository struct {
	database *gorm.DB
}

func NewChargeCodeRepository(database *gorm.DB) *ChargeCodeRepository {
	return &ChargeCodeRepository{database: database}
}

type chargeCodeEntryCount struct {
	ChargeCodeID string `gorm:"column:charge_code_id"`
	Entries      int64  `gorm:"column:entries"`
}

// ListWithEntryCounts returns codes ordered by code with Count.TimeEntries filled in.
func (repo *ChargeCodeRepository) ListWithEntryCounts() ([]models.ChargeCode, error) {
	codes := make([]models.ChargeCode, 0)
	if err := repo.database.Order("code ASC").Find(&codes).Error; err != nil {
		return nil, err
	}

	counts := make([]chargeCodeEntryCount, 0)
	if err := repo.database.
		Model(&models.TimeEntry{}).
		Select("charge_code_id, COUNT(*) AS entries").
		Group("charge_code_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	byCode := make(map[string]int64, len(counts))
	for _, count := range counts {
		byCode[count.ChargeCodeID] = count.Entries
	}
	for index := range codes {
		codes[index].Count.TimeEntries = byCode[codes[index].ID]
	}
	return codes, nil
}

func (repo *ChargeCodeRepository) FindByID(codeID string) (models.ChargeCode, error) {
	var code models.ChargeCode
	if err := repo.database.Where("id = ?", codeID).First(&code).Error; err != nil {
		return models.ChargeCode{}, err
	}
	return code, nil
}

func (repo *ChargeCodeRepository) ExistsByCode(code string) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.ChargeCode{}).Where("code = ?", code).Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *ChargeCodeRepository) CountTimeEntries(codeID string) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.TimeEntry{}).Where("charge_code_id = ?", codeID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *ChargeCodeRepository) Create(code *models.ChargeCode) error {
	return repo.database.Create(code).Error
}

func (repo *ChargeCodeRepository) UpdateDetails(codeID string, description string, isActive bool) error {
	return repo.database.Model(&models.ChargeCode{}).Where("id = ?", codeID).Updates(map[string]any{
		"description": description,
		"is_active":   isActive,
	}).Error
}

func (repo *ChargeCodeRepository) Delete(codeID string) error {
	result := repo.database.Where("id = ?", codeID).Delete(&models.ChargeCode{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

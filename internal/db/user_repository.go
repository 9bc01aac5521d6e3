package db

import (
	"errors"

	"github.com/terraincognita07/timesheet/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

// List returns users ordered by name, then email.
func (repo *UserRepository) List() ([]models.User, error) {
	users := make([]models.User, 0)
	if err := repo.database.Order("name ASC").Order("email ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (repo *UserRepository) FindByID(userID string) (models.User, error) {
	var user models.User
	if err := repo.database.Where("id = ?", userID).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) FindByEmail(email string) (models.User, error) {
	var user models.User
	if err := repo.database.Where("email = ?", email).First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// FindConflicting looks for a user other than excludeID holding email or fmno.
func (repo *UserRepository) FindConflicting(email string, fmno string, excludeID string) (models.User, bool, error) {
	var user models.User
	err := repo.database.
		Where("(email = ? OR fmno = ?) AND id <> ?", email, fmno, excludeID).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, err
	}
	return user, true, nil
}

func (repo *UserRepository) Create(user *models.User) error {
	return repo.database.Create(user).Error
}

// UpdateProfile writes the admin-editable columns, including a nil name.
func (repo *UserRepository) UpdateProfile(user *models.User) error {
	return repo.database.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]any{
		"email": user.Email,
		"name":  user.Name,
		"fmno":  user.FMNO,
		"roles": user.Roles,
	}).Error
}

func (repo *UserRepository) UpdatePassword(userID string, passwordHash string, mustChangePassword bool) error {
	return repo.database.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
		"password_hash":        passwordHash,
		"must_change_password": mustChangePassword,
	}).Error
}

func (repo *UserRepository) Delete(userID string) error {
	result := repo.database.Where("id = ?", userID).Delete(&models.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

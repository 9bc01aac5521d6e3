package services

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/terraincognita07/timesheet/internal/models"
	"gorm.io/gorm"
)

var (
	ErrAuthCredentialsInvalid   = errors.New("auth credentials invalid")
	ErrAuthCurrentPasswordWrong = errors.New("current password is wrong")
	ErrAuthPasswordUnchanged    = errors.New("new password must differ from the current one")
)

type AuthUserRepository interface {
	FindByID(userID string) (models.User, error)
	FindByEmail(email string) (models.User, error)
	UpdatePassword(userID string, passwordHash string, mustChangePassword bool) error
}

type AuthService struct {
	users AuthUserRepository
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return &AuthService{users: users}
}

func NormalizeAuthEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ""
	}
	return email
}

// Authenticate returns the user matching email and password. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (service *AuthService) Authenticate(emailRaw string, password string) (models.User, error) {
	email := NormalizeAuthEmail(emailRaw)
	if email == "" || password == "" {
		return models.User{}, ErrAuthCredentialsInvalid
	}

	user, err := service.users.FindByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	if user.PasswordHash == "" || !PasswordMatches(user.PasswordHash, password) {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	return user, nil
}

func (service *AuthService) FindByID(userID string) (models.User, error) {
	user, err := service.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

func (service *AuthService) ChangePassword(userID string, currentPassword string, newPassword string) error {
	user, err := service.FindByID(userID)
	if err != nil {
		return err
	}
	if !PasswordMatches(user.PasswordHash, currentPassword) {
		return ErrAuthCurrentPasswordWrong
	}
	if currentPassword == newPassword {
		return ErrAuthPasswordUnchanged
	}
	return service.SetPassword(user.ID, newPassword, false)
}

// SetPassword validates and stores a new password without checking the old one.
func (service *AuthService) SetPassword(userID string, password string, mustChangePassword bool) error {
	if err := ValidatePasswordStrength(password); err != nil {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	if err := service.users.UpdatePassword(userID, hash, mustChangePassword); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// ResetPassword replaces the password of the user with email by a temporary one that
// must be changed at the next login.
func (service *AuthService) ResetPassword(emailRaw string) (models.User, string, error) {
	email := NormalizeAuthEmail(emailRaw)
	if email == "" {
		return models.User{}, "", ErrUserEmailInvalid
	}
	user, err := service.users.FindByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, "", ErrUserNotFound
	}
	if err != nil {
		return models.User{}, "", fmt.Errorf("load user: %w", err)
	}

	password, err := GenerateTemporaryPassword()
	if err != nil {
		return models.User{}, "", err
	}
	if err := service.SetPassword(user.ID, password, true); err != nil {
		return models.User{}, "", err
	}
	user.MustChangePassword = true
	return user, password, nil
}

package services

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/terraincognita07/timesheet/internal/security"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength       = 8
	temporaryPasswordLength = 12
)

var ErrWeakPassword = errors.New("weak password")

// ValidatePasswordStrength requires at least eight characters mixing upper case, lower case and digits.
func ValidatePasswordStrength(password string) error {
	if len([]rune(password)) < minPasswordLength {
		return ErrWeakPassword
	}

	var hasUpper, hasLower, hasDigit bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return ErrWeakPassword
	}
	return nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func PasswordMatches(passwordHash string, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) == nil
}

// GenerateTemporaryPassword returns a random password that satisfies ValidatePasswordStrength.
func GenerateTemporaryPassword() (string, error) {
	for {
		candidate, err := security.RandomString(temporaryPasswordLength, security.UnambiguousAlphabet)
		if err != nil {
			return "", fmt.Errorf("generate temporary password: %w", err)
		}
		if ValidatePasswordStrength(candidate) == nil {
			return candidate, nil
		}
	}
}

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID                 string    `gorm:"primaryKey;type:text" json:"id"`
	Email              string    `gorm:"uniqueIndex;not null" json:"email"`
	Name               *string   `json:"name"`
	FMNO               string    `gorm:"column:fmno;uniqueIndex;not null" json:"fmno"`
	Roles              RoleSet   `gorm:"type:text;not null" json:"roles"`
	PasswordHash       string    `gorm:"not null" json:"-"`
	MustChangePassword bool      `gorm:"not null" json:"-"`
	CreatedAt          time.Time `gorm:"not null" json:"createdAt"`
}

func (user *User) BeforeCreate(*gorm.DB) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	return nil
}

// DisplayName falls back to the email when no name is set.
func (user User) DisplayName() string {
	if user.Name != nil && strings.TrimSpace(*user.Name) != "" {
		return *user.Name
	}
	return user.Email
}

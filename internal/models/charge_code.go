package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChargeCode struct {
	ID          string          `gorm:"primaryKey;type:text" json:"id"`
	Code        string          `gorm:"uniqueIndex;not null" json:"code"`
	Description string          `gorm:"not null" json:"description"`
	IsActive    bool            `gorm:"not null" json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Count       ChargeCodeCount `gorm:"-" json:"_count"`
}

// ChargeCodeCount carries derived counts that are not stored on the row.
type ChargeCodeCount struct {
	TimeEntries int64 `json:"timeEntries"`
}

func (code *ChargeCode) BeforeCreate(*gorm.DB) error {
	if code.ID == "" {
		code.ID = uuid.NewString()
	}
	return nil
}

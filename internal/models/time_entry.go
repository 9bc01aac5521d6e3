package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TimeEntry struct {
	ID           string    `gorm:"primaryKey;type:text" json:"id"`
	UserID       string    `gorm:"not null;index;uniqueIndex:uidx_time_entries_user_code_date" json:"userId"`
	ChargeCodeID string    `gorm:"not null;index;uniqueIndex:uidx_time_entries_user_code_date" json:"chargeCodeId"`
	Date         time.Time `gorm:"type:date;not null;uniqueIndex:uidx_time_entries_user_code_date" json:"date"`
	Hours        int       `gorm:"not null" json:"hours"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (entry *TimeEntry) BeforeCreate(*gorm.DB) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	return nil
}

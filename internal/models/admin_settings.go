package models

import "time"

// AdminSettings is a single-row table. Nil bounds mean no restriction.
type AdminSettings struct {
	ID                   uint `gorm:"primaryKey"`
	OldestEditablePeriod *time.Time
	LatestEditablePeriod *time.Time
	UpdatedAt            time.Time
}

func (AdminSettings) TableName() string {
	return "admin_settings"
}

package db

import "gorm.io/gorm"

type Repositories struct {
	Users       *UserRepository
	ChargeCodes *ChargeCodeRepository
	TimeEntries *TimeEntryRepository
	Settings    *SettingsRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(database),
		ChargeCodes: NewChargeCodeRepository(database),
		TimeEntries: NewTimeEntryRepository(database),
		Settings:    NewSettingsRepository(database),
	}
}

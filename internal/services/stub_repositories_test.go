package services

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/terraincognita07/timesheet/internal/models"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	users   []models.User
	creates int
	updates int
	deletes int
}

func (stub *stubUserRepo) List() ([]models.User, error) {
	users := append([]models.User(nil), stub.users...)
	sort.Slice(users, func(i, j int) bool { return users[i].DisplayName() < users[j].DisplayName() })
	return users, nil
}

func (stub *stubUserRepo) FindByID(userID string) (models.User, error) {
	for _, user := range stub.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (stub *stubUserRepo) FindByEmail(email string) (models.User, error) {
	for _, user := range stub.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (stub *stubUserRepo) FindConflicting(email string, fmno string, excludeID string) (models.User, bool, error) {
	for _, user := range stub.users {
		if user.ID != excludeID && (user.Email == email || user.FMNO == fmno) {
			return user, true, nil
		}
	}
	return models.User{}, false, nil
}

func (stub *stubUserRepo) Create(user *models.User) error {
	stub.creates++
	if user.ID == "" {
		user.ID = "user-" + strconv.Itoa(len(stub.users)+1)
	}
	stub.users = append(stub.users, *user)
	return nil
}

func (stub *stubUserRepo) UpdateProfile(user *models.User) error {
	stub.updates++
	for index := range stub.users {
		if stub.users[index].ID == user.ID {
			stub.users[index].Email = user.Email
			stub.users[index].Name = user.Name
			stub.users[index].FMNO = user.FMNO
			stub.users[index].Roles = user.Roles
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (stub *stubUserRepo) UpdatePassword(userID string, passwordHash string, mustChangePassword bool) error {
	for index := range stub.users {
		if stub.users[index].ID == userID {
			stub.users[index].PasswordHash = passwordHash
			stub.users[index].MustChangePassword = mustChangePassword
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (stub *stubUserRepo) Delete(userID string) error {
	for index := range stub.users {
		if stub.users[index].ID == userID {
			stub.deletes++
			stub.users = append(stub.users[:index], stub.users[index+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type stubChargeCodeRepo struct {
	codes   []models.ChargeCode
	counts  map[string]int64
	creates int
	deletes int
}

func (stub *stubChargeCodeRepo) ListWithEntryCounts() ([]models.ChargeCode, error) {
	codes := append([]models.ChargeCode(nil), stub.codes...)
	for index := range codes {
		codes[index].Count.TimeEntries = stub.counts[codes[index].ID]
	}
	return codes, nil
}

func (stub *stubChargeCodeRepo) FindByID(codeID string) (models.ChargeCode, error) {
	for _, code := range stub.codes {
		if code.ID == codeID {
			return code, nil
		}
	}
	return models.ChargeCode{}, gorm.ErrRecordNotFound
}

func (stub *stubChargeCodeRepo) ExistsByCode(code string) (bool, error) {
	for _, existing := range stub.codes {
		if existing.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (stub *stubChargeCodeRepo) CountTimeEntries(codeID string) (int64, error) {
	return stub.counts[codeID], nil
}

func (stub *stubChargeCodeRepo) Create(code *models.ChargeCode) error {
	stub.creates++
	if code.ID == "" {
		code.ID = "code-" + strconv.Itoa(len(stub.codes)+1)
	}
	stub.codes = append(stub.codes, *code)
	return nil
}

func (stub *stubChargeCodeRepo) UpdateDetails(codeID string, description string, isActive bool) error {
	for index := range stub.codes {
		if stub.codes[index].ID == codeID {
			stub.codes[index].Description = description
			stub.codes[index].IsActive = isActive
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (stub *stubChargeCodeRepo) Delete(codeID string) error {
	for index := range stub.codes {
		if stub.codes[index].ID == codeID {
			stub.deletes++
			stub.codes = append(stub.codes[:index], stub.codes[index+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type stubSettingsRepo struct {
	settings *models.AdminSettings
	loads    int
}

func (stub *stubSettingsRepo) LoadOrCreate() (models.AdminSettings, error) {
	stub.loads++
	if stub.settings == nil {
		stub.settings = &models.AdminSettings{ID: 1}
	}
	return *stub.settings, nil
}

func (stub *stubSettingsRepo) Save(settings *models.AdminSettings) error {
	copied := *settings
	stub.settings = &copied
	return nil
}

type stubTimeEntryRepo struct {
	entries []models.TimeEntry
}

func (stub *stubTimeEntryRepo) ListForUserRange(userID string, from time.Time, to time.Time) ([]models.TimeEntry, error) {
	entries := make([]models.TimeEntry, 0)
	for _, entry := range stub.entries {
		if entry.UserID == userID && !entry.Date.Before(from) && entry.Date.Before(to) {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (stub *stubTimeEntryRepo) FindByIDForUser(entryID string, userID string) (models.TimeEntry, error) {
	for _, entry := range stub.entries {
		if entry.ID == entryID && entry.UserID == userID {
			return entry, nil
		}
	}
	return models.TimeEntry{}, gorm.ErrRecordNotFound
}

func (stub *stubTimeEntryRepo) Create(entry *models.TimeEntry) error {
	if entry.ID == "" {
		entry.ID = "entry-" + strconv.Itoa(len(stub.entries)+1)
	}
	stub.entries = append(stub.entries, *entry)
	return nil
}

func (stub *stubTimeEntryRepo) UpdateHours(entry *models.TimeEntry) error {
	for index := range stub.entries {
		if stub.entries[index].ID == entry.ID {
			stub.entries[index].Hours = entry.Hours
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (stub *stubTimeEntryRepo) Delete(entryID string) error {
	for index := range stub.entries {
		if stub.entries[index].ID == entryID {
			stub.entries = append(stub.entries[:index], stub.entries[index+1:]...)
			return nil
		}
	}
	return nil
}

func (stub *stubTimeEntryRepo) ListAll() ([]models.TimeEntry, error) {
	return append([]models.TimeEntry(nil), stub.entries...), nil
}

type recordingAuditPublisher struct {
	mu     sync.Mutex
	events []AuditEvent
}

func (publisher *recordingAuditPublisher) Publish(_ context.Context, event AuditEvent) error {
	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	publisher.events = append(publisher.events, event)
	return nil
}

func (publisher *recordingAuditPublisher) actions() []AuditAction {
	publisher.mu.Lock()
	defer publisher.mu.Unlock()
	actions := make([]AuditAction, 0, len(publisher.events))
	for _, event := range publisher.events {
		actions = append(actions, event.Action)
	}
	return actions
}

type fixedWindowSource struct {
	window EditableWindow
}

func (source fixedWindowSource) EditableWindow() (EditableWindow, error) {
	return source.window, nil
}

func utcDay(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

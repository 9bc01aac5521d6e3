package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/timesheet/internal/models"
	"gorm.io/gorm"
)

var (
	ErrTimeEntryDateInvalid     = errors.New("date is invalid")
	ErrTimeEntryWeekend         = errors.New("weekend days are read-only")
	ErrTimeEntryOutsideWindow   = errors.New("period is not editable")
	ErrTimeEntryChargeCodeEmpty = errors.New("charge code id is required")
	ErrChargeCodeInactive       = errors.New("charge code is inactive")
	ErrTimeEntryIDRequired      = errors.New("time entry id is required")
	ErrTimeEntryNotFound        = errors.New("time entry not found")
)

type TimeEntryRepository interface {
	ListForUserRange(userID string, from time.Time, to time.Time) ([]models.TimeEntry, error)
	FindByIDForUser(entryID string, userID string) (models.TimeEntry, error)
	Create(entry *models.TimeEntry) error
	UpdateHours(entry *models.TimeEntry) error
	Delete(entryID string) error
}

type TimeEntryChargeCodeLookup interface {
	FindByID(codeID string) (models.ChargeCode, error)
}

type EditableWindowSource interface {
	EditableWindow() (EditableWindow, error)
}

type TimesheetDay struct {
	Date           string `json:"date"`
	ReadOnly       bool   `json:"readOnly"`
	TotalHours     int    `json:"totalHours"`
	RemainingHours int    `json:"remainingHours"`
}

type TimesheetPeriod struct {
	Period   PeriodOption       `json:"period"`
	Editable bool               `json:"editable"`
	Days     []TimesheetDay     `json:"days"`
	Entries  []models.TimeEntry `json:"entries"`
}

type TimeEntryService struct {
	entries TimeEntryRepository
	codes   TimeEntryChargeCodeLookup
	window  EditableWindowSource
}

func NewTimeEntryService(entries TimeEntryRepository, codes TimeEntryChargeCodeLookup, window EditableWindowSource) *TimeEntryService {
	return &TimeEntryService{entries: entries, codes: codes, window: window}
}

// ParseEntryDate parses an ISO calendar day into UTC midnight.
func ParseEntryDate(raw string) (time.Time, error) {
	parsed, err := time.Parse(periodDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, ErrTimeEntryDateInvalid
	}
	return parsed.UTC(), nil
}

func IsWeekend(day time.Time) bool {
	weekday := day.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

func (service *TimeEntryService) ListPeriod(userID string, period Period) (TimesheetPeriod, error) {
	window, err := service.window.EditableWindow()
	if err != nil {
		return TimesheetPeriod{}, err
	}
	entries, err := service.entries.ListForUserRange(userID, period.Start, period.Next().Start)
	if err != nil {
		return TimesheetPeriod{}, fmt.Errorf("list time entries: %w", err)
	}

	totals := make(map[string]int, len(entries))
	for _, entry := range entries {
		totals[entry.Date.UTC().Format(periodDateLayout)] += entry.Hours
	}

	editable := window.Allows(period.Start)
	days := make([]TimesheetDay, 0, 16)
	for _, day := range period.Days() {
		key := day.Format(periodDateLayout)
		days = append(days, TimesheetDay{
			Date:           key,
			ReadOnly:       !editable || IsWeekend(day),
			TotalHours:     totals[key],
			RemainingHours: remainingHours(totals[key]),
		})
	}

	return TimesheetPeriod{
		Period:   period.Option(),
		Editable: editable,
		Days:     days,
		Entries:  entries,
	}, nil
}

// SetHours stores hours for one user, charge code and day. NoHours removes the entry.
// It returns nil when the day ends up without an entry for that code.
func (service *TimeEntryService) SetHours(userID string, chargeCodeID string, day time.Time, hours Hours) (*models.TimeEntry, error) {
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	chargeCodeID = strings.TrimSpace(chargeCodeID)
	if chargeCodeID == "" {
		return nil, ErrTimeEntryChargeCodeEmpty
	}
	if err := service.ensureEditable(day); err != nil {
		return nil, err
	}

	code, err := service.codes.FindByID(chargeCodeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChargeCodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load charge code: %w", err)
	}

	dayEntries, err := service.entries.ListForUserRange(userID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("list day entries: %w", err)
	}
	var existing *models.TimeEntry
	otherHours := 0
	for index := range dayEntries {
		if dayEntries[index].ChargeCodeID == chargeCodeID {
			existing = &dayEntries[index]
			continue
		}
		otherHours += dayEntries[index].Hours
	}

	current := NoHours
	if existing != nil {
		current = HoursOf(existing.Hours)
	}
	input := NewHourInput(current, remainingHours(otherHours), IsWeekend(day))

	requested, set := hours.Value()
	if !set {
		input.Clear()
		if existing == nil {
			return nil, nil
		}
		if err := service.entries.Delete(existing.ID); err != nil {
			return nil, fmt.Errorf("delete time entry: %w", err)
		}
		return nil, nil
	}

	if !code.IsActive {
		return nil, ErrChargeCodeInactive
	}
	if !input.Select(requested) {
		return nil, ValidateHours(requested, input.MaxHours())
	}

	if existing != nil {
		existing.Hours = requested
		if err := service.entries.UpdateHours(existing); err != nil {
			return nil, fmt.Errorf("update time entry: %w", err)
		}
		return existing, nil
	}

	entry := models.TimeEntry{
		UserID:       userID,
		ChargeCodeID: chargeCodeID,
		Date:         day,
		Hours:        requested,
	}
	if err := service.entries.Create(&entry); err != nil {
		return nil, fmt.Errorf("create time entry: %w", err)
	}
	return &entry, nil
}

func (service *TimeEntryService) DeleteEntry(userID string, entryID string) error {
	entryID = strings.TrimSpace(entryID)
	if entryID == "" {
		return ErrTimeEntryIDRequired
	}
	entry, err := service.entries.FindByIDForUser(entryID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTimeEntryNotFound
	}
	if err != nil {
		return fmt.Errorf("load time entry: %w", err)
	}
	if err := service.ensureEditable(entry.Date.UTC()); err != nil {
		return err
	}
	if err := service.entries.Delete(entry.ID); err != nil {
		return fmt.Errorf("delete time entry: %w", err)
	}
	return nil
}

// RemainingHours is the daily budget left for day across all charge codes.
func (service *TimeEntryService) RemainingHours(userID string, day time.Time) (int, error) {
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	entries, err := service.entries.ListForUserRange(userID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return 0, fmt.Errorf("list day entries: %w", err)
	}
	total := 0
	for _, entry := range entries {
		total += entry.Hours
	}
	return remainingHours(total), nil
}

func (service *TimeEntryService) ensureEditable(day time.Time) error {
	if IsWeekend(day) {
		return ErrTimeEntryWeekend
	}
	window, err := service.window.EditableWindow()
	if err != nil {
		return err
	}
	if !window.Allows(day) {
		return ErrTimeEntryOutsideWindow
	}
	return nil
}

func remainingHours(used int) int {
	if used >= MaxDailyHours {
		return 0
	}
	return MaxDailyHours - used
}

package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/terraincognita07/timesheet/internal/models"
	"gorm.io/gorm"
)

var (
	ErrChargeCodeFieldsRequired = errors.New("code and description are required")
	ErrChargeCodeInvalid        = errors.New("code must be printable text of at most 32 characters")
	ErrChargeCodeTextInvalid    = errors.New("code and description must be plain text")
	ErrChargeCodeExists         = errors.New("charge code already exists")
	ErrChargeCodeIDRequired     = errors.New("charge code id is required")
	ErrChargeCodeNotFound       = errors.New("charge code not found")
	ErrChargeCodeImmutable      = errors.New("charge code cannot be changed")
	ErrChargeCodeInUse          = errors.New("charge code has time entries")
)

const maxChargeCodeLength = 32


// ChargeCodeInUseError reports how many time entries block a delete.
type ChargeCodeInUseError struct {
	EntriesCount int64
}

func (err *ChargeCodeInUseError) Error() string {
	return fmt.Sprintf("%s: %d", ErrChargeCodeInUse, err.EntriesCount)
}

func (err *ChargeCodeInUseError) Is(target error) bool {
	return target == ErrChargeCodeInUse
}

type ChargeCodeRepository interface {
	ListWithEntryCounts() ([]models.ChargeCode, error)
	FindByID(codeID string) (models.ChargeCode, error)
	ExistsByCode(code string) (bool, error)
	CountTimeEntries(codeID string) (int64, error)
	Create(code *models.ChargeCode) error
	UpdateDetails(codeID string, description string, isActive bool) error
	Delete(codeID string) error
}

// ChargeCodeInput is an admin create or update request. A nil IsActive means
// active on create and unchanged on update. Code is only checked on update.
type ChargeCodeInput struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Description string `json:"description"`
	IsActive    *bool  `json:"isActive"`
}

type ChargeCodeService struct {
	codes ChargeCodeRepository
	audit AuditPublisher
}

func NewChargeCodeService(codes ChargeCodeRepository, audit AuditPublisher) *ChargeCodeService {
	return &ChargeCodeService{codes: codes, audit: audit}
}

// NormalizeChargeCode upper-cases a code and collapses runs of whitespace.
func NormalizeChargeCode(raw string) string {
	return strings.ToUpper(strings.Join(strings.Fields(raw), " "))
}

func validChargeCode(code string) bool {
	if utf8.RuneCountInString(code) > maxChargeCodeLength {
		return false
	}
	for _, r := range code {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

func chargeCodeDescription(raw string) (string, error) {
	description, err := PlainText(raw)
	if err != nil {
		return "", ErrChargeCodeTextInvalid
	}
	return description, nil
}

func (service *ChargeCodeService) List() ([]models.ChargeCode, error) {
	return service.codes.ListWithEntryCounts()
}

func (service *ChargeCodeService) Create(actorID string, input ChargeCodeInput) (models.ChargeCode, error) {
	code := NormalizeChargeCode(input.Code)
	description, err := chargeCodeDescription(input.Description)
	if err != nil {
		return models.ChargeCode{}, err
	}
	if code == "" || description == "" {
		return models.ChargeCode{}, ErrChargeCodeFieldsRequired
	}
	if !validChargeCode(code) {
		return models.ChargeCode{}, ErrChargeCodeInvalid
	}
	if plain, err := PlainText(code); err != nil || plain != code {
		return models.ChargeCode{}, ErrChargeCodeTextInvalid
	}

	exists, err := service.codes.ExistsByCode(code)
	if err != nil {
		return models.ChargeCode{}, fmt.Errorf("check charge code: %w", err)
	}
	if exists {
		return models.ChargeCode{}, ErrChargeCodeExists
	}

	chargeCode := models.ChargeCode{
		Code:        code,
		Description: description,
		IsActive:    input.IsActive == nil || *input.IsActive,
	}
	if err := service.codes.Create(&chargeCode); err != nil {
		return models.ChargeCode{}, fmt.Errorf("create charge code: %w", err)
	}
	publishAudit(service.audit, NewAuditEvent(AuditChargeCodeCreated, actorID, chargeCode.ID))
	return chargeCode, nil
}

func (service *ChargeCodeService) Update(actorID string, input ChargeCodeInput) (models.ChargeCode, error) {
	codeID := strings.TrimSpace(input.ID)
	if codeID == "" {
		return models.ChargeCode{}, ErrChargeCodeIDRequired
	}
	description, err := chargeCodeDescription(input.Description)
	if err != nil {
		return models.ChargeCode{}, err
	}
	if description == "" {
		return models.ChargeCode{}, ErrChargeCodeFieldsRequired
	}

	chargeCode, err := service.codes.FindByID(codeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ChargeCode{}, ErrChargeCodeNotFound
	}
	if err != nil {
		return models.ChargeCode{}, fmt.Errorf("load charge code: %w", err)
	}
	if requested := NormalizeChargeCode(input.Code); requested != "" && requested != chargeCode.Code {
		return models.ChargeCode{}, ErrChargeCodeImmutable
	}

	chargeCode.Description = description
	if input.IsActive != nil {
		chargeCode.IsActive = *input.IsActive
	}
	if err := service.codes.UpdateDetails(chargeCode.ID, chargeCode.Description, chargeCode.IsActive); err != nil {
		return models.ChargeCode{}, fmt.Errorf("update charge code: %w", err)
	}
	publishAudit(service.audit, NewAuditEvent(AuditChargeCodeUpdated, actorID, chargeCode.ID))
	return chargeCode, nil
}

// Delete removes a charge code only when no time entry references it.
// The count is re-read here rather than trusted from any earlier listing.
func (service *ChargeCodeService) Delete(actorID string, codeID string) error {
	codeID = strings.TrimSpace(codeID)
	if codeID == "" {
		return ErrChargeCodeIDRequired
	}

	if _, err := service.codes.FindByID(codeID); errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrChargeCodeNotFound
	} else if err != nil {
		return fmt.Errorf("load charge code: %w", err)
	}

	entries, err := service.codes.CountTimeEntries(codeID)
	if err != nil {
		return fmt.Errorf("count time entries: %w", err)
	}
	if entries > 0 {
		return &ChargeCodeInUseError{EntriesCount: entries}
	}

	err = service.codes.Delete(codeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrChargeCodeNotFound
	}
	if err != nil {
		return fmt.Errorf("delete charge code: %w", err)
	}
	publishAudit(service.audit, NewAuditEvent(AuditChargeCodeDeleted, actorID, codeID))
	return nil
}

package services

import (
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/terraincognita07/timesheet/internal/models"
	"gorm.io/gorm"
)

var (
	ErrUserFieldsRequired = errors.New("email and fmno are required")
	ErrUserEmailInvalid   = errors.New("email is invalid")
	ErrUserFMNOInvalid    = errors.New("fmno must contain digits only")
	ErrUserRolesRequired  = errors.New("at least one role is required")
	ErrUserRoleInvalid    = errors.New("role is invalid")
	ErrUserAlreadyExists  = errors.New("user with this email or fmno already exists")
	ErrUserIDRequired     = errors.New("user id is required")
	ErrUserSelfDelete     = errors.New("cannot delete own account")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserNameInvalid    = errors.New("name must be plain text")
)

var fmnoPattern = regexp.MustCompile(`^[0-9]{1,20}$`)

type UserAdminRepository interface {
	List() ([]models.User, error)
	FindByID(userID string) (models.User, error)
	FindConflicting(email string, fmno string, excludeID string) (models.User, bool, error)
	Create(user *models.User) error
	UpdateProfile(user *models.User) error
	Delete(userID string) error
}

// UserInput is an admin create or update request. A nil Roles keeps the current
// roles on update and defaults to EMPLOYEE on create.
type UserInput struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	FMNO  string   `json:"fmno"`
	Roles []string `json:"roles"`
}

type CreatedUser struct {
	User              models.User
	TemporaryPassword string
}

type UserAdminService struct {
	users UserAdminRepository
	audit AuditPublisher
}

func NewUserAdminService(users UserAdminRepository, audit AuditPublisher) *UserAdminService {
	return &UserAdminService{users: users, audit: audit}
}

func (service *UserAdminService) List() ([]models.User, error) {
	return service.users.List()
}

func (service *UserAdminService) Create(actorID string, input UserInput) (CreatedUser, error) {
	email, fmno, err := normalizeUserIdentity(input.Email, input.FMNO)
	if err != nil {
		return CreatedUser{}, err
	}
	name, err := optionalName(input.Name)
	if err != nil {
		return CreatedUser{}, err
	}
	roles := models.NewRoleSet(models.RoleEmployee)
	if input.Roles != nil {
		if roles, err = parseUserRoles(input.Roles); err != nil {
			return CreatedUser{}, err
		}
	}
	if err := service.ensureUnique(email, fmno, ""); err != nil {
		return CreatedUser{}, err
	}

	password, err := GenerateTemporaryPassword()
	if err != nil {
		return CreatedUser{}, err
	}
	passwordHash, err := HashPassword(password)
	if err != nil {
		return CreatedUser{}, err
	}

	user := models.User{
		Email:              email,
		Name:               name,
		FMNO:               fmno,
		Roles:              roles,
		PasswordHash:       passwordHash,
		MustChangePassword: true,
	}
	if err := service.users.Create(&user); err != nil {
		return CreatedUser{}, fmt.Errorf("create user: %w", err)
	}
	publishAudit(service.audit, NewAuditEvent(AuditUserCreated, actorID, user.ID))
	return CreatedUser{User: user, TemporaryPassword: password}, nil
}

func (service *UserAdminService) Update(actorID string, input UserInput) (models.User, error) {
	userID := strings.TrimSpace(input.ID)
	if userID == "" {
		return models.User{}, ErrUserIDRequired
	}
	email, fmno, err := normalizeUserIdentity(input.Email, input.FMNO)
	if err != nil {
		return models.User{}, err
	}
	name, err := optionalName(input.Name)
	if err != nil {
		return models.User{}, err
	}

	user, err := service.users.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("load user: %w", err)
	}
	if input.Roles != nil {
		if user.Roles, err = parseUserRoles(input.Roles); err != nil {
			return models.User{}, err
		}
	}
	if err := service.ensureUnique(email, fmno, user.ID); err != nil {
		return models.User{}, err
	}

	user.Email = email
	user.FMNO = fmno
	user.Name = name
	if err := service.users.UpdateProfile(&user); err != nil {
		return models.User{}, fmt.Errorf("update user: %w", err)
	}
	publishAudit(service.audit, NewAuditEvent(AuditUserUpdated, actorID, user.ID))
	return user, nil
}

// Delete removes targetID. An admin can never delete the account they are signed in with.
func (service *UserAdminService) Delete(actorID string, targetID string) error {
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return ErrUserIDRequired
	}
	if targetID == actorID {
		return ErrUserSelfDelete
	}

	err := service.users.Delete(targetID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	publishAudit(service.audit, NewAuditEvent(AuditUserDeleted, actorID, targetID))
	return nil
}

func (service *UserAdminService) ensureUnique(email string, fmno string, excludeID string) error {
	_, exists, err := service.users.FindConflicting(email, fmno, excludeID)
	if err != nil {
		return fmt.Errorf("check user uniqueness: %w", err)
	}
	if exists {
		return ErrUserAlreadyExists
	}
	return nil
}

func normalizeUserIdentity(emailRaw string, fmnoRaw string) (string, string, error) {
	email := strings.ToLower(strings.TrimSpace(emailRaw))
	fmno := strings.TrimSpace(fmnoRaw)
	if email == "" || fmno == "" {
		return "", "", ErrUserFieldsRequired
	}
	if parsed, err := mail.ParseAddress(email); err != nil || parsed.Address != email {
		return "", "", ErrUserEmailInvalid
	}
	if !fmnoPattern.MatchString(fmno) {
		return "", "", ErrUserFMNOInvalid
	}
	return email, fmno, nil
}

func parseUserRoles(names []string) (models.RoleSet, error) {
	roles, err := models.ParseRoleSet(names)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUserRoleInvalid, err)
	}
	if roles.IsEmpty() {
		return 0, ErrUserRolesRequired
	}
	return roles, nil
}

func optionalName(raw string) (*string, error) {
	name, err := PlainText(raw)
	if err != nil {
		return nil, ErrUserNameInvalid
	}
	if name == "" {
		return nil, nil
	}
	return &name, nil
}

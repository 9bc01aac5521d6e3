package services

import (
	"errors"
	"testing"

	"github.com/terraincognita07/timesheet/internal/models"
)

func TestUserAdminCreateDefaultsToEmployee(t *testing.T) {
	repo := &stubUserRepo{}
	audit := &recordingAuditPublisher{}
	service := NewUserAdminService(repo, audit)

	created, err := service.Create("admin-1", UserInput{Email: " Alice@Example.com ", FMNO: "12345", Name: " Alice &amp; Co "})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	user := created.User
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.Name == nil || *user.Name != "Alice & Co" {
		t.Fatalf("expected decoded trimmed name, got %v", user.Name)
	}
	if user.Roles != models.NewRoleSet(models.RoleEmployee) {
		t.Fatalf("expected EMPLOYEE role, got %v", user.Roles.Strings())
	}
	if !user.MustChangePassword {
		t.Fatal("expected new user to require a password change")
	}
	if !PasswordMatches(user.PasswordHash, created.TemporaryPassword) {
		t.Fatal("expected stored hash to match temporary password")
	}
	if actions := audit.actions(); len(actions) != 1 || actions[0] != AuditUserCreated {
		t.Fatalf("unexpected audit events %v", actions)
	}
}

func TestUserAdminCreateRejectsDuplicatesWithoutWriting(t *testing.T) {
	repo := &stubUserRepo{users: []models.User{{ID: "u1", Email: "taken@example.com", FMNO: "111"}}}
	service := NewUserAdminService(repo, nil)

	for _, input := range []UserInput{
		{Email: "taken@example.com", FMNO: "222"},
		{Email: "other@example.com", FMNO: "111"},
	} {
		if _, err := service.Create("admin", input); !errors.Is(err, ErrUserAlreadyExists) {
			t.Fatalf("expected ErrUserAlreadyExists for %+v, got %v", input, err)
		}
	}
	if repo.creates != 0 {
		t.Fatalf("expected no writes, got %d", repo.creates)
	}
}

func TestUserAdminCreateValidation(t *testing.T) {
	service := NewUserAdminService(&stubUserRepo{}, nil)

	testCases := []struct {
		input UserInput
		want  error
	}{
		{UserInput{FMNO: "1"}, ErrUserFieldsRequired},
		{UserInput{Email: "a@example.com"}, ErrUserFieldsRequired},
		{UserInput{Email: "not-an-email", FMNO: "1"}, ErrUserEmailInvalid},
		{UserInput{Email: "a@example.com", FMNO: "12a"}, ErrUserFMNOInvalid},
		{UserInput{Email: "a@example.com", FMNO: "1", Roles: []string{}}, ErrUserRolesRequired},
		{UserInput{Email: "a@example.com", FMNO: "1", Roles: []string{"OWNER"}}, ErrUserRoleInvalid},
		{UserInput{Email: "a@example.com", FMNO: "1", Name: "<b>Bold</b>"}, ErrUserNameInvalid},
		{UserInput{Email: "a@example.com", FMNO: "1", Name: "&lt;script&gt;x&lt;/script&gt;"}, ErrUserNameInvalid},
	}
	for _, testCase := range testCases {
		if _, err := service.Create("admin", testCase.input); !errors.Is(err, testCase.want) {
			t.Fatalf("Create(%+v) error = %v, want %v", testCase.input, err, testCase.want)
		}
	}
}

func TestUserAdminUpdateChecksUniquenessAgainstOthers(t *testing.T) {
	repo := &stubUserRepo{users: []models.User{
		{ID: "u1", Email: "one@example.com", FMNO: "1", Roles: models.NewRoleSet(models.RoleEmployee)},
		{ID: "u2", Email: "two@example.com", FMNO: "2", Roles: models.NewRoleSet(models.RoleEmployee)},
	}}
	service := NewUserAdminService(repo, nil)

	updated, err := service.Update("admin", UserInput{ID: "u1", Email: "one@example.com", FMNO: "1", Roles: []string{"ADMIN", "EMPLOYEE"}})
	if err != nil {
		t.Fatalf("expected update keeping own email to succeed, got %v", err)
	}
	if !updated.Roles.Has(models.RoleAdmin) {
		t.Fatalf("expected ADMIN role, got %v", updated.Roles.Strings())
	}

	if _, err := service.Update("admin", UserInput{ID: "u1", Email: "two@example.com", FMNO: "1"}); !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}
	if _, err := service.Update("admin", UserInput{Email: "x@example.com", FMNO: "9"}); !errors.Is(err, ErrUserIDRequired) {
		t.Fatalf("expected ErrUserIDRequired, got %v", err)
	}
	if _, err := service.Update("admin", UserInput{ID: "missing", Email: "x@example.com", FMNO: "9"}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if repo.updates != 1 {
		t.Fatalf("expected exactly one write, got %d", repo.updates)
	}
}

func TestUserAdminUpdateKeepsRolesWhenOmitted(t *testing.T) {
	roles := models.NewRoleSet(models.RoleAdmin)
	repo := &stubUserRepo{users: []models.User{{ID: "u1", Email: "one@example.com", FMNO: "1", Roles: roles}}}
	service := NewUserAdminService(repo, nil)

	updated, err := service.Update("admin", UserInput{ID: "u1", Email: "one@example.com", FMNO: "1", Name: "One"})
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
	if updated.Roles != roles {
		t.Fatalf("expected roles kept, got %v", updated.Roles.Strings())
	}
}

func TestUserAdminDeleteRejectsSelf(t *testing.T) {
	repo := &stubUserRepo{users: []models.User{{ID: "admin", Email: "admin@example.com", FMNO: "1"}}}
	service := NewUserAdminService(repo, nil)

	if err := service.Delete("admin", "admin"); !errors.Is(err, ErrUserSelfDelete) {
		t.Fatalf("expected ErrUserSelfDelete, got %v", err)
	}
	if repo.deletes != 0 || len(repo.users) != 1 {
		t.Fatal("expected no delete")
	}
	if err := service.Delete("admin", ""); !errors.Is(err, ErrUserIDRequired) {
		t.Fatalf("expected ErrUserIDRequired, got %v", err)
	}
	if err := service.Delete("admin", "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserAdminDeleteOtherUser(t *testing.T) {
	repo := &stubUserRepo{users: []models.User{{ID: "admin"}, {ID: "u2"}}}
	audit := &recordingAuditPublisher{}
	service := NewUserAdminService(repo, audit)

	if err := service.Delete("admin", "u2"); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if len(repo.users) != 1 || repo.users[0].ID != "admin" {
		t.Fatalf("unexpected users after delete %+v", repo.users)
	}
	if actions := audit.actions(); len(actions) != 1 || actions[0] != AuditUserDeleted {
		t.Fatalf("unexpected audit events %v", actions)
	}
}

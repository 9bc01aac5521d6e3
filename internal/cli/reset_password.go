package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/terraincognita07/timesheet/internal/db"
	"github.com/terraincognita07/timesheet/internal/services"
	"gorm.io/gorm"
)

func runResetPassword(database *gorm.DB, args []string, out io.Writer) error {
	flags := newFlagSet("reset-password", out)
	email := flags.String("email", "", "email of the account to reset")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(*email) == "" {
		return errors.New("email is required")
	}

	auth := services.NewAuthService(db.NewUserRepository(database))
	user, password, err := auth.ResetPassword(*email)
	if errors.Is(err, services.ErrUserNotFound) {
		return fmt.Errorf("user %s not found", strings.ToLower(strings.TrimSpace(*email)))
	}
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	fmt.Fprintf(out, "Password reset for %s\n", user.Email)
	fmt.Fprintf(out, "Temporary password: %s\n", password)
	fmt.Fprintln(out, "The password must be changed on next login.")
	return nil
}

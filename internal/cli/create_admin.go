package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/terraincognita07/timesheet/internal/db"
	"github.com/terraincognita07/timesheet/internal/services"
	"gorm.io/gorm"
)

var errPasswordMismatch = errors.New("passwords do not match")

func runCreateAdmin(database *gorm.DB, args []string, out io.Writer) error {
	flags := newFlagSet("create-admin", out)
	email := flags.String("email", "", "administrator email")
	fmno := flags.String("fmno", "", "administrator FMNO (digits)")
	name := flags.String("name", "", "display name")
	temporary := flags.Bool("temporary", false, "print a temporary password instead of prompting for one")
	if err := flags.Parse(args); err != nil {
		return err
	}

	password := ""
	if !*temporary {
		var err error
		if password, err = promptNewPassword(out); err != nil {
			return err
		}
	}

	created, err := newUserAdminService(database).Create(actorID, services.UserInput{
		Email: *email,
		Name:  *name,
		FMNO:  *fmno,
		Roles: []string{"ADMIN", "EMPLOYEE"},
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	if *temporary {
		fmt.Fprintf(out, "Administrator %s created\n", created.User.Email)
		fmt.Fprintf(out, "Temporary password: %s\n", created.TemporaryPassword)
		fmt.Fprintln(out, "The password must be changed on first login.")
		return nil
	}

	auth := services.NewAuthService(db.NewUserRepository(database))
	if err := auth.SetPassword(created.User.ID, password, false); err != nil {
		return fmt.Errorf("set admin password: %w", err)
	}
	fmt.Fprintf(out, "Administrator %s created\n", created.User.Email)
	return nil
}

// promptNewPassword asks twice without echo and checks strength before anything is written.
func promptNewPassword(out io.Writer) (string, error) {
	fmt.Fprint(out, "Password: ")
	first, err := readPassword(os.Stdin)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w (use --temporary when stdin is not a terminal)", err)
	}
	if err := services.ValidatePasswordStrength(string(first)); err != nil {
		return "", err
	}

	fmt.Fprint(out, "Confirm password: ")
	second, err := readPassword(os.Stdin)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if string(first) != string(second) {
		return "", errPasswordMismatch
	}
	return string(first), nil
}

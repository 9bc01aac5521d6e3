package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/terraincognita07/timesheet/internal/db"
	"github.com/terraincognita07/timesheet/internal/services"
	"gorm.io/gorm"
)

func runSeed(database *gorm.DB, args []string, out io.Writer) error {
	flags := newFlagSet("seed", out)
	path := flags.String("file", "", "YAML file with users and charge_codes")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return errors.New("--file is required")
	}

	raw, err := os.ReadFile(*path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	seed, err := services.ParseSeedFile(raw)
	if err != nil {
		return err
	}

	repositories := db.NewRepositories(database)
	seeder := services.NewSeedService(
		newUserAdminService(database),
		services.NewChargeCodeService(repositories.ChargeCodes, services.LogAuditPublisher{}),
	)
	result, err := seeder.Apply(actorID, seed)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Users created: %d\n", result.UsersCreated)
	fmt.Fprintf(out, "Charge codes created: %d\n", result.ChargeCodesCreated)
	fmt.Fprintf(out, "Already present: %d\n", result.Skipped)

	emails := make([]string, 0, len(result.TemporaryPasswords))
	for email := range result.TemporaryPasswords {
		emails = append(emails, email)
	}
	sort.Strings(emails)
	for _, email := range emails {
		fmt.Fprintf(out, "Temporary password for %s: %s\n", email, result.TemporaryPasswords[email])
	}
	return nil
}

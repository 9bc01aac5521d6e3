package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"

	"github.com/terraincognita07/timesheet/internal/db"
	"github.com/terraincognita07/timesheet/internal/services"
	"gorm.io/gorm"
)

// actorID marks audit events raised from the command line.
const actorID = "cli"

var ErrUnknownCommand = errors.New("unknown command")

type command struct {
	summary string
	run     func(database *gorm.DB, args []string, out io.Writer) error
}

var commands = map[string]command{
	"create-admin":   {summary: "create an administrator account", run: runCreateAdmin},
	"reset-password": {summary: "replace a user's password with a temporary one", run: runResetPassword},
	"seed":           {summary: "create users and charge codes listed in a YAML file", run: runSeed},
}

// IsCommand reports whether name is a maintenance command rather than a server start.
func IsCommand(name string) bool {
	_, ok := commands[name]
	return ok
}

// Run executes a maintenance command against the SQLite database at databasePath.
func Run(name string, args []string, databasePath string, out io.Writer) error {
	selected, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownCommand, name)
	}

	database, err := db.OpenSQLite(databasePath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	defer sqlDB.Close()

	return selected.run(database, args, out)
}

// Usage lists the maintenance commands.
func Usage(out io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(out, "usage: timesheet [serve|<command>] [flags]")
	for _, name := range names {
		fmt.Fprintf(out, "  %-15s %s\n", name, commands[name].summary)
	}
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(out)
	return flags
}

func newUserAdminService(database *gorm.DB) *services.UserAdminService {
	repositories := db.NewRepositories(database)
	return services.NewUserAdminService(repositories.Users, services.LogAuditPublisher{})
}

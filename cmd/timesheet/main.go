package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/terraincognita07/timesheet/internal/api"
	"github.com/terraincognita07/timesheet/internal/cli"
	"github.com/terraincognita07/timesheet/internal/config"
	"github.com/terraincognita07/timesheet/internal/db"
	"github.com/terraincognita07/timesheet/internal/i18n"
	"github.com/terraincognita07/timesheet/internal/services"
	"golang.org/x/time/rate"
)

var errUnknownCommand = errors.New("unknown command")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, out io.Writer) error {
	flags := flag.NewFlagSet("timesheet", flag.ContinueOnError)
	flags.SetOutput(out)
	configPath := flags.String("config", os.Getenv("TIMESHEET_CONFIG"), "TOML configuration file")
	if err := flags.Parse(args); err != nil {
		return err
	}

	name := "serve"
	rest := flags.Args()
	if len(rest) > 0 {
		name, rest = rest[0], rest[1:]
	}
	if name == "help" {
		cli.Usage(out)
		return nil
	}
	if name != "serve" && !cli.IsCommand(name) {
		cli.Usage(out)
		return fmt.Errorf("%w %q", errUnknownCommand, name)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if name != "serve" {
		return cli.Run(name, rest, cfg.Database.Path, out)
	}
	return serve(cfg)
}

func serve(cfg *config.Config) error {
	secretKey, err := config.ResolveSecretKey(cfg.Auth.SecretKey)
	if err != nil {
		return err
	}
	tokenTTL, err := cfg.TokenTTL()
	if err != nil {
		return err
	}
	location := cfg.Location()
	time.Local = location

	database, err := db.OpenSQLite(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	i18nManager, err := i18n.NewManager(cfg.Locale.DefaultLanguage, i18n.EmbeddedLocales())
	if err != nil {
		return fmt.Errorf("i18n init failed: %w", err)
	}

	audit, closeAudit := newAuditPublisher(cfg.Audit)
	defer closeAudit()

	handler, err := api.NewHandler(database, api.HandlerConfig{
		SecretKey:      secretKey,
		CookieSecure:   cfg.Server.CookieSecure,
		TokenTTL:       tokenTTL,
		Location:       location,
		I18n:           i18nManager,
		Audit:          audit,
		AdminRateLimit: rate.Limit(cfg.Server.AdminRateLimit),
		AdminRateBurst: cfg.Server.AdminRateBurst,
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	app := newApp(handler, cfg.Server.CookieSecure)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("Timesheet listening on http://0.0.0.0:%s (db: %s, tz: %s)", cfg.Server.Port, cfg.Database.Path, location.String())
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

func newApp(handler *api.Handler, cookieSecure bool) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Timesheet",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(handler.LanguageMiddleware)
	app.Use(csrf.New(csrfMiddlewareConfig(cookieSecure)))

	api.RegisterRoutes(app, handler)
	return app
}

// csrfMiddlewareConfig uses the double-submit pattern: the browser reads the cookie
// and echoes it in X-CSRF-Token.
func csrfMiddlewareConfig(cookieSecure bool) csrf.Config {
	return csrf.Config{
		KeyLookup:      "header:X-CSRF-Token",
		CookieName:     "timesheet_csrf",
		CookieSameSite: "Lax",
		CookieHTTPOnly: false,
		CookieSecure:   cookieSecure,
		ContextKey:     "csrf",
	}
}

func newAuditPublisher(cfg config.AuditConfig) (services.AuditPublisher, func()) {
	if cfg.AMQPURL == "" {
		log.Printf("audit: no AMQP_URL configured, logging events")
		return services.LogAuditPublisher{}, func() {}
	}
	publisher := services.NewAMQPAuditPublisher(cfg.AMQPURL, cfg.Queue)
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			log.Printf("audit: close publisher: %v", err)
		}
	}
}

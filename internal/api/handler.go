package api

import (
	"errors"
	"time"

	"github.com/terraincognita07/timesheet/internal/db"
	"github.com/terraincognita07/timesheet/internal/i18n"
	"github.com/terraincognita07/timesheet/internal/services"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const (
	defaultAuthTokenTTL = 7 * 24 * time.Hour
	loginAttemptLimit   = 8
	loginAttemptWindow  = 15 * time.Minute
)

type Handler struct {
	secretKey    []byte
	cookieSecure bool
	tokenTTL     time.Duration
	location     *time.Location
	now          func() time.Time
	i18n         *i18n.Manager
	toasts       *services.ToastHub
	cookies      *cookieSealer

	authService     *services.AuthService
	userService     *services.UserAdminService
	chargeCodes     *services.ChargeCodeService
	settingsService *services.AdminSettingsService
	entryService    *services.TimeEntryService
	exportService   *services.ExportService

	loginLimiter *attemptLimiter
	adminLimiter *clientRateLimiter
}

type HandlerConfig struct {
	SecretKey    string
	CookieSecure bool
	TokenTTL     time.Duration
	Location     *time.Location
	I18n         *i18n.Manager
	Toasts       *services.ToastHub
	Audit        services.AuditPublisher

	// AdminRateLimit is requests per second per client on admin mutations. Zero disables it.
	AdminRateLimit rate.Limit
	AdminRateBurst int

	Now func() time.Time
}

func NewHandler(database *gorm.DB, config HandlerConfig) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if config.I18n == nil {
		return nil, errors.New("i18n manager is required")
	}
	if len(config.SecretKey) == 0 {
		return nil, errors.New("secret key is required")
	}
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.TokenTTL <= 0 {
		config.TokenTTL = defaultAuthTokenTTL
	}
	if config.Toasts == nil {
		config.Toasts = services.NewToastHub(services.ToastLifetime, nil)
	}
	if config.Audit == nil {
		config.Audit = services.LogAuditPublisher{}
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	cookies, err := newCookieSealer([]byte(config.SecretKey))
	if err != nil {
		return nil, err
	}

	repositories := db.NewRepositories(database)
	settingsService := services.NewAdminSettingsService(repositories.Settings, config.Audit)

	return &Handler{
		secretKey:    []byte(config.SecretKey),
		cookieSecure: config.CookieSecure,
		tokenTTL:     config.TokenTTL,
		location:     config.Location,
		now:          config.Now,
		i18n:         config.I18n,
		toasts:       config.Toasts,
		cookies:      cookies,

		authService:     services.NewAuthService(repositories.Users),
		userService:     services.NewUserAdminService(repositories.Users, config.Audit),
		chargeCodes:     services.NewChargeCodeService(repositories.ChargeCodes, config.Audit),
		settingsService: settingsService,
		entryService:    services.NewTimeEntryService(repositories.TimeEntries, repositories.ChargeCodes, settingsService),
		exportService:   services.NewExportService(repositories.Users, repositories.ChargeCodes, repositories.TimeEntries),

		loginLimiter: newAttemptLimiter(loginAttemptLimit, loginAttemptWindow),
		adminLimiter: newClientRateLimiter(config.AdminRateLimit, config.AdminRateBurst),
	}, nil
}

// today is the current calendar day in the configured location, as UTC midnight.
func (handler *Handler) today() time.Time {
	now := handler.now().In(handler.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

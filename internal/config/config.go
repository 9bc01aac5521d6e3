package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DefaultConfigFile = "timesheet.toml"
	minSecretKeyBytes = 32
	insecureSecretKey = "change_me_in_production"
)

var (
	ErrSecretKeyMissing  = errors.New("SECRET_KEY is required")
	ErrSecretKeyInsecure = errors.New("SECRET_KEY uses the insecure placeholder")
	ErrSecretKeyTooShort = fmt.Errorf("SECRET_KEY must be at least %d bytes", minSecretKeyBytes)
)

type ServerConfig struct {
	Port           string  `toml:"port"`
	CookieSecure   bool    `toml:"cookie_secure"`
	AdminRateLimit float64 `toml:"admin_rate_limit"` // requests per second per client
	AdminRateBurst int     `toml:"admin_rate_burst"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type AuthConfig struct {
	SecretKey string `toml:"secret_key"`
	TokenTTL  string `toml:"token_ttl"`
}

type LocaleConfig struct {
	DefaultLanguage string `toml:"default_language"`
	Timezone        string `toml:"timezone"`
}

type AuditConfig struct {
	AMQPURL string `toml:"amqp_url"` // empty logs events instead
	Queue   string `toml:"queue"`
}

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Locale   LocaleConfig   `toml:"locale"`
	Audit    AuditConfig    `toml:"audit"`
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:           "8080",
			AdminRateLimit: 10,
			AdminRateBurst: 20,
		},
		Database: DatabaseConfig{Path: filepath.Join("data", "timesheet.db")},
		Auth:     AuthConfig{TokenTTL: "168h"},
		Locale:   LocaleConfig{DefaultLanguage: "en", Timezone: "UTC"},
		Audit:    AuditConfig{Queue: "timesheet.audit"},
	}
}

// Load builds the configuration from defaults, then the TOML file, then .env, then the
// process environment. An empty path reads DefaultConfigFile when it exists.
func Load(path string) (*Config, error) {
	config := defaults()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	if _, err := toml.DecodeFile(path, &config); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}
	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (config *Config) applyEnv() error {
	overrideString(&config.Server.Port, "PORT")
	overrideString(&config.Database.Path, "DB_PATH")
	overrideString(&config.Auth.SecretKey, "SECRET_KEY")
	overrideString(&config.Auth.TokenTTL, "TOKEN_TTL")
	overrideString(&config.Locale.DefaultLanguage, "DEFAULT_LANGUAGE")
	overrideString(&config.Locale.Timezone, "TZ")
	overrideString(&config.Audit.AMQPURL, "AMQP_URL")
	overrideString(&config.Audit.Queue, "AMQP_QUEUE")

	if raw := strings.TrimSpace(os.Getenv("COOKIE_SECURE")); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("COOKIE_SECURE: %w", err)
		}
		config.Server.CookieSecure = value
	}
	if raw := strings.TrimSpace(os.Getenv("ADMIN_RATE_LIMIT")); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("ADMIN_RATE_LIMIT: %w", err)
		}
		config.Server.AdminRateLimit = value
	}
	if raw := strings.TrimSpace(os.Getenv("ADMIN_RATE_BURST")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("ADMIN_RATE_BURST: %w", err)
		}
		config.Server.AdminRateBurst = value
	}
	return nil
}

func overrideString(target *string, key string) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		*target = value
	}
}

// ResolveSecretKey rejects empty, placeholder and short signing keys.
func ResolveSecretKey(secret string) (string, error) {
	secret = strings.TrimSpace(secret)
	switch {
	case secret == "":
		return "", ErrSecretKeyMissing
	case secret == insecureSecretKey:
		return "", ErrSecretKeyInsecure
	case len(secret) < minSecretKeyBytes:
		return "", ErrSecretKeyTooShort
	}
	return secret, nil
}

func (config *Config) TokenTTL() (time.Duration, error) {
	ttl, err := time.ParseDuration(config.Auth.TokenTTL)
	if err != nil {
		return 0, fmt.Errorf("token ttl: %w", err)
	}
	if ttl <= 0 {
		return 0, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	return ttl, nil
}

// Location falls back to UTC for unknown zone names.
func (config *Config) Location() *time.Location {
	location, err := time.LoadLocation(config.Locale.Timezone)
	if err != nil {
		return time.UTC
	}
	return location
}

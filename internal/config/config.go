// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the server configuration from VITRINE_* variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/olegiv/vitrine/internal/cache"
	"github.com/olegiv/vitrine/internal/translate"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"VITRINE_DB_PATH" envDefault:"./data/vitrine.db"`
	SessionSecret string `env:"VITRINE_SESSION_SECRET,required"`
	ServerHost    string `env:"VITRINE_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"VITRINE_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"VITRINE_ENV" envDefault:"development"`
	LogLevel      string `env:"VITRINE_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"VITRINE_UPLOADS_DIR" envDefault:"./uploads"`
	MaxUploadMB   int    `env:"VITRINE_MAX_UPLOAD_MB" envDefault:"20"`
	PageSize      int    `env:"VITRINE_PAGE_SIZE" envDefault:"10"`

	// Cache configuration
	RedisURL    string `env:"VITRINE_REDIS_URL"` // empty keeps the cache in memory
	CachePrefix string `env:"VITRINE_CACHE_PREFIX" envDefault:"vitrine:"`

	// Translation shadows
	TranslateProvider string        `env:"VITRINE_TRANSLATE_PROVIDER" envDefault:"libretranslate"`
	TranslateURL      string        `env:"VITRINE_TRANSLATE_URL" envDefault:"http://localhost:5000"`
	TranslateAPIKey   string        `env:"VITRINE_TRANSLATE_API_KEY"`
	OpenAIAPIKey      string        `env:"VITRINE_OPENAI_API_KEY"`
	OpenAIModel       string        `env:"VITRINE_OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	TranslateTimeout  time.Duration `env:"VITRINE_TRANSLATE_TIMEOUT" envDefault:"5s"`
	SourceLang        string        `env:"VITRINE_SOURCE_LANG" envDefault:"fr"`
	TargetLang        string        `env:"VITRINE_TARGET_LANG" envDefault:"en"`

	// JSON admin API bearer token; empty disables the admin API.
	APIToken string `env:"VITRINE_API_TOKEN"`

	EventRetentionDays int `env:"VITRINE_EVENT_RETENTION_DAYS" envDefault:"90"`

	// First administrator, created when the users table is empty.
	AdminEmail    string `env:"VITRINE_ADMIN_EMAIL"`
	AdminPassword string `env:"VITRINE_ADMIN_PASSWORD"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// APIEnabled reports whether the admin JSON API is served.
func (c Config) APIEnabled() bool {
	return c.APIToken != ""
}

// MaxUploadBytes is the upload limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// EventRetention is how long audit events are kept.
func (c Config) EventRetention() time.Duration {
	return time.Duration(c.EventRetentionDays) * 24 * time.Hour
}

// LogLevelValue parses LogLevel, defaulting to info.
func (c Config) LogLevelValue() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// CacheConfig is the cache factory configuration.
func (c Config) CacheConfig() cache.Config {
	return cache.Config{RedisURL: c.RedisURL, Prefix: c.CachePrefix}
}

// TranslateOptions is the translation provider configuration.
func (c Config) TranslateOptions() translate.Options {
	return translate.Options{
		Provider:    c.TranslateProvider,
		URL:         c.TranslateURL,
		APIKey:      c.TranslateAPIKey,
		OpenAIKey:   c.OpenAIAPIKey,
		OpenAIModel: c.OpenAIModel,
		HTTPTimeout: c.TranslateTimeout,
	}
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// LoadDotEnv loads .env into the environment when present. Variables that
// are already set win.
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...)
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("VITRINE_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("VITRINE_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("VITRINE_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("VITRINE_PAGE_SIZE must be positive, got %d", cfg.PageSize)
	}
	if cfg.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("VITRINE_MAX_UPLOAD_MB must be positive, got %d", cfg.MaxUploadMB)
	}
	if cfg.AdminEmail != "" && cfg.AdminPassword == "" {
		return nil, fmt.Errorf("VITRINE_ADMIN_PASSWORD is required with VITRINE_ADMIN_EMAIL")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}

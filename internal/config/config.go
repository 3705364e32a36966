package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName         string
	AppEnv          string
	AppURL          string
	Port            string
	SupportEmail    string
	DefaultLanguage string

	// Self-hosting limits (-1 = unlimited)
	MaxUserCount int

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	JWTSecret                string
	JWTExpiry                time.Duration
	TokenEmailVerifyExpiry   time.Duration
	TokenPasswordResetExpiry time.Duration
	RequireEmailVerification bool

	// Email
	EmailFrom    string
	ResendAPIKey string

	// Streak calculation
	MaxStreakLookbackWeeks int

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:         envString("APP_NAME", "BeaverPrime"),
		AppEnv:          envRequired("APP_ENV"), // Required: 'development' or 'production'
		AppURL:          envString("APP_URL", "http://localhost:8080"),
		Port:            envString("PORT", "8080"),
		SupportEmail:    envString("SUPPORT_EMAIL", "hello@example.com"),
		DefaultLanguage: envString("DEFAULT_LANGUAGE", "en"),

		MaxUserCount: envInt("MAX_USER_COUNT", -1),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/beaverprime.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Security
		JWTSecret:                envRequired("JWT_SECRET"),
		JWTExpiry:                envDuration("JWT_EXPIRY", 168*time.Hour),                // 7 days
		TokenEmailVerifyExpiry:   envDuration("TOKEN_EMAIL_VERIFY_EXPIRY", 24*time.Hour),  // 24 hours
		TokenPasswordResetExpiry: envDuration("TOKEN_PASSWORD_RESET_EXPIRY", 1*time.Hour), // 1 hour
		RequireEmailVerification: envBool("REQUIRE_EMAIL_VERIFICATION", false),

		// Email (RESEND_API_KEY optional in development, required when verification is on)
		EmailFrom:    envString("EMAIL_FROM", "noreply@example.com"),
		ResendAPIKey: envString("RESEND_API_KEY", ""),

		// Bounds the backward walk of the consecutive-weeks calculation
		// for habits with a long history (520 weeks = 10 years).
		MaxStreakLookbackWeeks: envInt("MAX_STREAK_LOOKBACK_WEEKS", 520),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures required services are configured for production.
// Development allows email to fall back to log mode for local testing.
func validateProduction(cfg *Config) {
	if cfg.RequireEmailVerification && cfg.ResendAPIKey == "" {
		slog.Error("production deployment with REQUIRE_EMAIL_VERIFICATION needs RESEND_API_KEY",
			"hint", "set APP_ENV=development for local testing with email log mode")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

// Sanitized returns a copy safe for exposure via request context.
// Secrets are blanked out.
func (c *Config) Sanitized() *Config {
	cfg := *c
	cfg.JWTSecret = ""
	cfg.DBConnection = ""
	cfg.ResendAPIKey = ""
	cfg.SentryDSN = ""
	return &cfg
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

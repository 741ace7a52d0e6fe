package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"ledgerbot/internal/money"
)

// Config holds application configuration. It is built once at startup and
// passed explicitly to every component that needs it.
type Config struct {
	Env string

	// Server
	Port string

	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string

	// Transports
	TelegramBotToken string
	ChatAPIKey       string

	// Finance rules
	NearLimitThreshold decimal.Decimal
	MaxAmount          money.Amount
	Currency           string
	Location           *time.Location

	// Budget alert notifier
	AlertsEnabled bool
	AlertSchedule string
}

// Load loads configuration from the environment, reading a .env file first if present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "ledgerbot"),
		DBPassword: getEnv("DB_PASSWORD", "ledgerbot"),
		DBName:     getEnv("DB_NAME", "ledgerbot"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		DBPath:     getEnv("DB_PATH", "ledgerbot.db"),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		ChatAPIKey:       os.Getenv("CHAT_API_KEY"),

		Currency:      getEnv("CURRENCY", "RUB"),
		AlertSchedule: getEnv("ALERT_SCHEDULE", "0 9 * * *"),
	}

	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		return nil, fmt.Errorf("invalid DB_DRIVER %q: must be postgres or sqlite", cfg.DBDriver)
	}

	threshold, err := decimal.NewFromString(getEnv("BUDGET_NEAR_LIMIT_THRESHOLD", "0.80"))
	if err != nil {
		return nil, fmt.Errorf("invalid BUDGET_NEAR_LIMIT_THRESHOLD: %w", err)
	}
	if !threshold.IsPositive() || threshold.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("BUDGET_NEAR_LIMIT_THRESHOLD must be in (0, 1], got %s", threshold)
	}
	cfg.NearLimitThreshold = threshold

	maxAmount, err := decimal.NewFromString(getEnv("MAX_AMOUNT", money.DefaultMax.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_AMOUNT: %w", err)
	}
	if !maxAmount.IsPositive() {
		return nil, fmt.Errorf("MAX_AMOUNT must be positive, got %s", maxAmount)
	}
	cfg.MaxAmount = money.FromDecimal(maxAmount)

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Location = loc

	alerts, err := strconv.ParseBool(getEnv("ALERTS_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid ALERTS_ENABLED: %w", err)
	}
	cfg.AlertsEnabled = alerts

	return cfg, nil
}

// Default returns the configuration used when nothing is set in the environment.
// Tests use it as a baseline.
func Default() *Config {
	return &Config{
		Env:                "development",
		Port:               "8080",
		DBDriver:           "sqlite",
		DBPath:             "ledgerbot.db",
		NearLimitThreshold: decimal.NewFromFloat(0.80),
		MaxAmount:          money.DefaultMax,
		Currency:           "RUB",
		Location:           time.UTC,
		AlertsEnabled:      false,
		AlertSchedule:      "0 9 * * *",
	}
}

// DSN returns the PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// MigrationURL returns the postgres:// URL golang-migrate expects.
func (c *Config) MigrationURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

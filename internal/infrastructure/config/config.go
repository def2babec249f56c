// internal/infrastructure/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string
	LogLevel   string
	Location   *time.Location

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Storage
	Storage     string
	PostgresURI string
	SeedCatalog bool

	// MongoDB
	MongoURI            string
	MongoDB             string
	MongoCollection     string
	MongoUser           string
	MongoPassword       string
	MongoConnectTimeout time.Duration

	// Gmail
	GmailClientID     string
	GmailClientSecret string
	GmailRefreshToken string
	GmailRedirectURL  string
	NotifyEmailTo     string
	NotifyEmailFrom   string

	// Reminder sweep
	SweepInterval      time.Duration
	SweepInitialDelay  time.Duration
	SweepRetryDelay    time.Duration
	ReminderWindowDays int
	HorizonDays        int

	MetricsNamespace string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	// Set defaults and override with env vars
	config := &Config{
		AppVersion: getEnv("APP_VERSION", "1.0.0"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		Location:   loc,

		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		Storage:     strings.ToLower(getEnv("STORAGE", StoragePostgres)),
		PostgresURI: getEnv("POSTGRES_DSN", "host=localhost port=5432 user=postgres password=postgres dbname=cpaptracker sslmode=disable"),
		SeedCatalog: getEnvAsBool("SEED_CATALOG", true),

		MongoURI:            getEnv("MONGODB_DSN", ""),
		MongoDB:             getEnv("MONGO_DB", "cpaptracker"),
		MongoCollection:     getEnv("MONGO_COLLECTION", "notifications"),
		MongoUser:           getEnv("MONGO_USER", ""),
		MongoPassword:       getEnv("MONGO_PASSWORD", ""),
		MongoConnectTimeout: time.Duration(getEnvAsInt("MONGO_CONNECT_TIMEOUT", 10)) * time.Second,

		GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),
		GmailRedirectURL:  getEnv("GMAIL_REDIRECT_URL", "http://localhost:8090/oauth2callback"),
		NotifyEmailTo:     getEnv("NOTIFY_EMAIL_TO", ""),
		NotifyEmailFrom:   getEnv("NOTIFY_EMAIL_FROM", "me"),

		SweepInterval:      time.Duration(getEnvAsInt("SWEEP_INTERVAL_HOURS", 24)) * time.Hour,
		SweepInitialDelay:  time.Duration(getEnvAsInt("SWEEP_INITIAL_DELAY_MINUTES", 60)) * time.Minute,
		SweepRetryDelay:    time.Duration(getEnvAsInt("SWEEP_RETRY_MINUTES", 15)) * time.Minute,
		ReminderWindowDays: getEnvAsInt("REMINDER_WINDOW_DAYS", 7),
		HorizonDays:        getEnvAsInt("UPCOMING_HORIZON_DAYS", 30),

		MetricsNamespace: getEnv("METRICS_NAMESPACE", "cpaptracker"),
	}

	if config.Storage != StoragePostgres && config.Storage != StorageMemory {
		return nil, fmt.Errorf("unsupported STORAGE %q", config.Storage)
	}
	if config.SweepInterval <= 0 {
		return nil, fmt.Errorf("SWEEP_INTERVAL_HOURS must be positive")
	}

	return config, nil
}

// GmailEnabled reports whether reminders should be delivered by email
func (c *Config) GmailEnabled() bool {
	return c.GmailRefreshToken != "" && c.NotifyEmailTo != ""
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Dialogue engine configuration
	BusinessOpenHour    int // local hour, inclusive
	BusinessCloseHour   int // local hour, exclusive
	DateHorizonDays     int // general date-resolution horizon
	BookingHorizonDays  int // tighter horizon applied by the booking flow
	BookingDailyCap     int // max bookings per calendar date
	SessionIdleTTL      time.Duration
	SnapshotTTL         time.Duration
	AdminJWTSecret      string
	CORSAllowedOrigins  []string
	SessionSweepEvery   time.Duration
	ShutdownGracePeriod time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		BusinessOpenHour:    getEnvAsInt("BUSINESS_OPEN_HOUR", 9),
		BusinessCloseHour:   getEnvAsInt("BUSINESS_CLOSE_HOUR", 18),
		DateHorizonDays:     getEnvAsInt("DATE_HORIZON_DAYS", 90),
		BookingHorizonDays:  getEnvAsInt("BOOKING_HORIZON_DAYS", 30),
		BookingDailyCap:     getEnvAsInt("BOOKING_DAILY_CAPACITY", 20),
		SessionIdleTTL:      getEnvAsDuration("SESSION_IDLE_TTL", 30*time.Minute),
		SnapshotTTL:         getEnvAsDuration("SNAPSHOT_TTL", 30*time.Minute),
		AdminJWTSecret:      getEnv("ADMIN_JWT_SECRET", ""),
		CORSAllowedOrigins:  splitAndTrim(getEnv("CORS_ALLOWED_ORIGINS", "")),
		SessionSweepEvery:   getEnvAsDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute),
		ShutdownGracePeriod: getEnvAsDuration("SHUTDOWN_GRACE_PERIOD", 30*time.Second),
	}
}

// Validate checks configuration integrity. Malformed configuration is a
// startup failure, never a per-message failure.
func (c *Config) Validate() error {
	if c.BusinessOpenHour < 0 || c.BusinessOpenHour > 23 {
		return fmt.Errorf("config: BUSINESS_OPEN_HOUR out of range: %d", c.BusinessOpenHour)
	}
	if c.BusinessCloseHour < 1 || c.BusinessCloseHour > 24 {
		return fmt.Errorf("config: BUSINESS_CLOSE_HOUR out of range: %d", c.BusinessCloseHour)
	}
	if c.BusinessCloseHour <= c.BusinessOpenHour {
		return fmt.Errorf("config: business hours empty: open=%d close=%d", c.BusinessOpenHour, c.BusinessCloseHour)
	}
	if c.DateHorizonDays <= 0 {
		return fmt.Errorf("config: DATE_HORIZON_DAYS must be positive, got %d", c.DateHorizonDays)
	}
	if c.BookingHorizonDays <= 0 || c.BookingHorizonDays > c.DateHorizonDays {
		return fmt.Errorf("config: BOOKING_HORIZON_DAYS must be in (0, %d], got %d", c.DateHorizonDays, c.BookingHorizonDays)
	}
	if c.BookingDailyCap <= 0 {
		return fmt.Errorf("config: BOOKING_DAILY_CAPACITY must be positive, got %d", c.BookingDailyCap)
	}
	if c.SessionIdleTTL <= 0 {
		return fmt.Errorf("config: SESSION_IDLE_TTL must be positive, got %s", c.SessionIdleTTL)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const defaultBookingURL = "https://gorzdrav.spb.ru/"

// Config holds all configuration for the application.
type Config struct {
	AppEnv                string
	DBPath                string
	DBDriver              string
	RedisAddr             string
	RosterCacheTTL        time.Duration
	RosterCSVURL          string
	RosterCSVPath         string
	ClinicTimezone        string
	BookingURL            string
	RequestTimeout        time.Duration
	GRPCPort              int
	GRPCReflectionEnabled bool
	HTTPPort              int
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() *Config {
	return &Config{
		AppEnv:                getEnv("APP_ENV", "development"),
		DBPath:                getEnv("DB_PATH", "./data/doctors_ratings.db"),
		DBDriver:              getEnv("DB_DRIVER", "sqlite3"),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		RosterCacheTTL:        getDuration("ROSTER_CACHE_TTL", 0),
		RosterCSVURL:          os.Getenv("ROSTER_CSV_URL"),
		RosterCSVPath:         getEnv("ROSTER_CSV_PATH", "./data/doctors.csv"),
		ClinicTimezone:        getEnv("CLINIC_TIMEZONE", "Europe/Moscow"),
		BookingURL:            getEnv("BOOKING_URL", defaultBookingURL),
		RequestTimeout:        getDuration("REQUEST_TIMEOUT", 10*time.Second),
		GRPCPort:              getInt("GRPC_PORT", 50051),
		GRPCReflectionEnabled: getBool("GRPC_REFLECTION_ENABLED", false),
		HTTPPort:              getInt("HTTP_PORT", 8080),
	}
}

// CacheEnabled reports whether the roster read-through cache should be built.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != "" && c.RosterCacheTTL > 0
}

// Location resolves the clinic time zone used for the "today" view.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.ClinicTimezone)
	if err != nil {
		return nil, fmt.Errorf("load clinic timezone %q: %w", c.ClinicTimezone, err)
	}
	return loc, nil
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, strconv.Itoa(fallback)))
	if err != nil {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		return fallback
	}
	return b
}

// getDuration accepts either whole seconds or a Go duration string.
func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	fmt.Fprintf(os.Stderr, "invalid duration for %s=%q, using default %s\n", key, v, def)
	return def
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	Database DatabaseConfig
	Logging  LoggingConfig
}

type DatabaseConfig struct {
	// Path is the application-local sqlite file. ":memory:" is accepted
	// for ephemeral use.
	Path            string
	BusyTimeout     time.Duration
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type LoggingConfig struct {
	Level  string
	Pretty bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Database: DatabaseConfig{
			Path:            getEnv("SPENDTRACK_DB_PATH", "spendtrack.db"),
			BusyTimeout:     getDurationEnv("SPENDTRACK_DB_BUSY_TIMEOUT", 5*time.Second),
			MaxOpenConns:    getIntEnv("SPENDTRACK_DB_MAX_OPEN_CONNS", 1),
			ConnMaxLifetime: getDurationEnv("SPENDTRACK_DB_CONN_MAX_LIFETIME", time.Hour),
			AutoMigrate:     getBoolEnv("SPENDTRACK_AUTO_MIGRATE", true),
		},
		Logging: LoggingConfig{
			Level:  getEnv("SPENDTRACK_LOG_LEVEL", "info"),
			Pretty: getBoolEnv("SPENDTRACK_LOG_PRETTY", false),
		},
	}
}

// DSN builds the sqlite connection string, enabling WAL and the configured
// busy timeout so concurrent screen subscriptions do not trip over writes.
// _loc=auto keeps stored times in the local zone the forms display in.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s?_busy_timeout=%d&_journal_mode=WAL&_foreign_keys=on&_loc=auto",
		c.Path, c.BusyTimeout.Milliseconds())
}

// NewLogger builds the root zerolog logger for the configured level.
func (c *LoggingConfig) NewLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if c.Pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}

	return logger.Level(level).With().Timestamp().Logger()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

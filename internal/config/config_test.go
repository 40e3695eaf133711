package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "spendtrack.db", cfg.Database.Path)
	assert.Equal(t, 5*time.Second, cfg.Database.BusyTimeout)
	assert.Equal(t, 1, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SPENDTRACK_DB_PATH", "/tmp/test.db")
	t.Setenv("SPENDTRACK_DB_BUSY_TIMEOUT", "10s")
	t.Setenv("SPENDTRACK_DB_MAX_OPEN_CONNS", "4")
	t.Setenv("SPENDTRACK_AUTO_MIGRATE", "false")
	t.Setenv("SPENDTRACK_LOG_LEVEL", "debug")

	cfg := Load()

	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, 10*time.Second, cfg.Database.BusyTimeout)
	assert.Equal(t, 4, cfg.Database.MaxOpenConns)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("SPENDTRACK_DB_MAX_OPEN_CONNS", "not-a-number")
	t.Setenv("SPENDTRACK_DB_BUSY_TIMEOUT", "soon")
	t.Setenv("SPENDTRACK_AUTO_MIGRATE", "maybe")

	cfg := Load()

	assert.Equal(t, 1, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Second, cfg.Database.BusyTimeout)
	assert.True(t, cfg.Database.AutoMigrate)
}

func TestDSN(t *testing.T) {
	cfg := DatabaseConfig{Path: "spending.db", BusyTimeout: 5 * time.Second}
	assert.Equal(t, "spending.db?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on&_loc=auto", cfg.DSN())
}

func TestNewLogger(t *testing.T) {
	t.Run("valid level is applied", func(t *testing.T) {
		cfg := LoggingConfig{Level: "warn"}
		logger := cfg.NewLogger()
		assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		cfg := LoggingConfig{Level: "shouty"}
		logger := cfg.NewLogger()
		assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
	})
}

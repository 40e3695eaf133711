package database

import (
	"path/filepath"
	"testing"
	"time"

	"spendtrack/internal/config"
	"spendtrack/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Database: config.DatabaseConfig{
			Path:         filepath.Join(t.TempDir(), "spendtrack-test.db"),
			BusyTimeout:  time.Second,
			MaxOpenConns: 1,
			AutoMigrate:  true,
		},
	}
}

func TestInitializeRunsMigrations(t *testing.T) {
	cfg := testConfig(t)

	db, err := Initialize(cfg)
	require.NoError(t, err)
	defer db.Close()

	assert.True(t, db.Migrator().HasTable("transactions"))

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)

	version, dirty, err := GetMigrationStatus(sqlDB)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), version)
}

func TestInitializeIsIdempotent(t *testing.T) {
	cfg := testConfig(t)

	db, err := Initialize(cfg)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Initialize(cfg)
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.HealthCheck())
}

func TestMigratedSchemaAcceptsRecords(t *testing.T) {
	cfg := testConfig(t)

	db, err := Initialize(cfg)
	require.NoError(t, err)
	defer db.Close()

	tx := &models.Transaction{
		Amount:     decimal.NewFromFloat(9.99),
		OccurredAt: time.Now(),
		Category:   "Food",
		Location:   "Cafe",
	}
	require.NoError(t, db.Create(tx).Error)
	assert.Positive(t, tx.ID)

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestResetSchemaDropsData(t *testing.T) {
	cfg := testConfig(t)

	db, err := Initialize(cfg)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Create(&models.Transaction{
		Amount:     decimal.NewFromFloat(5),
		OccurredAt: time.Now(),
		Category:   "Food",
		Location:   "Cafe",
	}).Error)

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)

	require.NoError(t, ResetSchema(sqlDB))
	assert.False(t, db.Migrator().HasTable("transactions"))

	require.NoError(t, RunMigrations(sqlDB))
	assert.True(t, db.Migrator().HasTable("transactions"))

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestHealthCheck(t *testing.T) {
	db := SetupTestDB(t)
	assert.NoError(t, db.HealthCheck())
}

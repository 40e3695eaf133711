package database

import (
	"testing"
	"time"

	"spendtrack/internal/config"
	"spendtrack/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(":memory:?_loc=auto"), gormConfig)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// A second pooled connection would see its own empty :memory: database.
	sqlDB.SetMaxOpenConns(1)

	testDB := &DB{
		DB: db,
		config: &config.DatabaseConfig{
			Path:         ":memory:",
			MaxOpenConns: 1,
		},
	}

	if err := testDB.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = testDB.Close()
	})

	return testDB
}

// CreateTestTransaction persists a transaction with sensible fake defaults,
// overridable through mutate.
func CreateTestTransaction(t *testing.T, db *DB, mutate func(*models.Transaction)) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		Amount:     decimal.NewFromFloat(gofakeit.Price(1, 200)).Round(2),
		OccurredAt: gofakeit.DateRange(time.Now().AddDate(0, -2, 0), time.Now()),
		Category:   gofakeit.RandomString(models.DefaultCategories()),
		Location:   gofakeit.Company(),
	}
	if mutate != nil {
		mutate(tx)
	}

	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}

	return tx
}

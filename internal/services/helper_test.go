package services

import (
	"context"
	"testing"
	"time"

	"spendtrack/internal/database"
	"spendtrack/internal/models"
	"spendtrack/internal/repositories"
	"spendtrack/internal/store"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func newTestStore(t *testing.T) *store.Store {
	db := database.SetupTestDB(t)
	repo := repositories.NewTransactionRepository(db.DB)
	return store.New(repo, zerolog.Nop(), nil)
}

func insertTransaction(t *testing.T, s RecordStore, amount float64, category string, occurredAt time.Time) *models.Transaction {
	t.Helper()
	tx := &models.Transaction{
		Amount:     decimal.NewFromFloat(amount),
		OccurredAt: occurredAt,
		Category:   category,
		Location:   "somewhere",
	}
	require.NoError(t, s.Insert(context.Background(), tx))
	return tx
}

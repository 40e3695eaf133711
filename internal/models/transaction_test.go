package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validTransaction() *Transaction {
	return &Transaction{
		Amount:     decimal.NewFromFloat(12.50),
		OccurredAt: time.Date(2025, 6, 15, 13, 30, 0, 0, time.Local),
		Category:   "Food",
		Location:   "Cafe Roma",
	}
}

func TestTransactionValidate(t *testing.T) {
	t.Run("valid transaction passes", func(t *testing.T) {
		assert.NoError(t, validTransaction().Validate())
	})

	t.Run("zero amount rejected", func(t *testing.T) {
		tx := validTransaction()
		tx.Amount = decimal.Zero
		assert.ErrorIs(t, tx.Validate(), ErrInvalidAmount)
	})

	t.Run("negative amount rejected", func(t *testing.T) {
		tx := validTransaction()
		tx.Amount = decimal.NewFromFloat(-5)
		assert.ErrorIs(t, tx.Validate(), ErrInvalidAmount)
	})

	t.Run("empty category rejected", func(t *testing.T) {
		tx := validTransaction()
		tx.Category = ""
		assert.ErrorIs(t, tx.Validate(), ErrMissingCategory)
	})

	t.Run("empty location rejected", func(t *testing.T) {
		tx := validTransaction()
		tx.Location = ""
		assert.ErrorIs(t, tx.Validate(), ErrMissingLocation)
	})

	t.Run("zero date rejected", func(t *testing.T) {
		tx := validTransaction()
		tx.OccurredAt = time.Time{}
		assert.ErrorIs(t, tx.Validate(), ErrMissingDate)
	})

	t.Run("empty description allowed", func(t *testing.T) {
		tx := validTransaction()
		tx.Description = ""
		assert.NoError(t, tx.Validate())
	})
}

func TestTransactionFilters(t *testing.T) {
	start := time.Now().AddDate(0, -1, 0)
	end := time.Now()

	assert.False(t, TransactionFilters{}.HasCategory())
	assert.False(t, TransactionFilters{}.HasDateRange())
	assert.True(t, TransactionFilters{Category: "Food"}.HasCategory())
	assert.False(t, TransactionFilters{StartDate: &start}.HasDateRange())
	assert.True(t, TransactionFilters{StartDate: &start, EndDate: &end}.HasDateRange())
}

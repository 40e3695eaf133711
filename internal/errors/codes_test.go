package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetErrorMessage(t *testing.T) {
	t.Run("known codes return registered messages", func(t *testing.T) {
		assert.Equal(t, "Transaction not found", GetErrorMessage(TransactionNotFound))
		assert.Equal(t, "Failed to load spending data", GetErrorMessage(DashboardLoadFailed))
		assert.Equal(t, "Failed to write to storage", GetErrorMessage(StorageWriteFailed))
	})

	t.Run("unknown code returns generic message", func(t *testing.T) {
		assert.Equal(t, "An error occurred", GetErrorMessage(ErrorCode("NOPE_999")))
	})
}

func TestIsValidErrorCode(t *testing.T) {
	assert.True(t, IsValidErrorCode(StorageReadFailed))
	assert.True(t, IsValidErrorCode(ValidationGeneral))
	assert.False(t, IsValidErrorCode(ErrorCode("NOPE_999")))
	assert.False(t, IsValidErrorCode(ErrorCode("")))
}

func TestDescribe(t *testing.T) {
	t.Run("appends underlying error detail", func(t *testing.T) {
		msg := Describe(TransactionLoadFailed, errors.New("disk I/O error"))
		assert.Equal(t, "Failed to load transactions: disk I/O error", msg)
	})

	t.Run("nil error keeps message bare", func(t *testing.T) {
		assert.Equal(t, "Transaction not found", Describe(TransactionNotFound, nil))
	})
}

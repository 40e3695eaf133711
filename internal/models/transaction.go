package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("transaction amount must be positive")
	ErrMissingCategory = errors.New("transaction category is required")
	ErrMissingLocation = errors.New("transaction location is required")
	ErrMissingDate     = errors.New("transaction date is required")
)

// Transaction represents a single recorded expense. The store persists
// records as-is; field validation happens in the form layer before a record
// ever reaches the store.
type Transaction struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	OccurredAt  time.Time       `gorm:"not null;index" json:"occurred_at"`
	Category    string          `gorm:"type:varchar(100);not null;index" json:"category"`
	Location    string          `gorm:"type:varchar(255);not null" json:"location"`
	Description string          `gorm:"type:text" json:"description"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
}

// TableName returns the table name for Transaction
func (t *Transaction) TableName() string {
	return "transactions"
}

// Validate checks the commit-time invariants. The store itself never calls
// this; it exists for callers that want to assert a record is well-formed
// before handing it over.
func (t *Transaction) Validate() error {
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if t.Category == "" {
		return ErrMissingCategory
	}
	if t.Location == "" {
		return ErrMissingLocation
	}
	if t.OccurredAt.IsZero() {
		return ErrMissingDate
	}
	return nil
}

package models

import "github.com/shopspring/decimal"

// CategorySpending is one row of the dashboard breakdown: how much was
// spent in a category within the active scope, and its share of the scoped
// total. Derived on demand, never persisted.
type CategorySpending struct {
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage float64         `json:"percentage"`
}

// CategorySummary contains aggregated transaction data for one category,
// as produced by the store's GROUP BY rollup.
type CategorySummary struct {
	Category         string          `json:"category"`
	TransactionCount int64           `json:"transaction_count"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
}

// DefaultCategories are the suggestions offered while the store has no
// transactions yet. Any free-text category is legal; these only seed the
// dropdown.
func DefaultCategories() []string {
	return []string{
		"Food",
		"Transportation",
		"Entertainment",
		"Shopping",
		"Bills",
		"Healthcare",
	}
}

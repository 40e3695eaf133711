package models

import "time"

// TransactionFilters narrows a transaction query. Zero-value fields are
// ignored, so the empty struct selects everything.
type TransactionFilters struct {
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
}

// HasCategory reports whether a category filter is active.
func (f TransactionFilters) HasCategory() bool {
	return f.Category != ""
}

// HasDateRange reports whether both ends of the date range are set.
func (f TransactionFilters) HasDateRange() bool {
	return f.StartDate != nil && f.EndDate != nil
}

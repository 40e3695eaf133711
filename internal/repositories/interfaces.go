package repositories

import (
	"context"
	"time"

	"spendtrack/internal/models"

	"github.com/shopspring/decimal"
)

// TransactionRepositoryInterface defines the persistence operations for
// transactions. It is a dumb storage layer: no validation, no derived
// state, one-shot reads only. The live query surface is built on top of it
// by the store package.
type TransactionRepositoryInterface interface {
	Create(ctx context.Context, transaction *models.Transaction) error
	Update(ctx context.Context, transaction *models.Transaction) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error

	GetByID(ctx context.Context, id int64) (*models.Transaction, error)
	List(ctx context.Context, filters models.TransactionFilters) ([]models.Transaction, error)
	DistinctCategories(ctx context.Context) ([]string, error)

	TotalAmount(ctx context.Context) (decimal.Decimal, error)
	TotalAmountByCategory(ctx context.Context, category string) (decimal.Decimal, error)
	TotalAmountByDateRange(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
	TotalAmountByCategoryAndDateRange(ctx context.Context, category string, start, end time.Time) (decimal.Decimal, error)

	CategorySummary(ctx context.Context, start, end time.Time) ([]models.CategorySummary, error)
}

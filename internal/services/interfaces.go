package services

import (
	"context"
	"time"

	"spendtrack/internal/models"
	"spendtrack/internal/store"

	"github.com/shopspring/decimal"
)

// RecordStore is the store surface the state holders depend on. Holders
// receive their store at construction; there is no ambient global handle.
type RecordStore interface {
	Insert(ctx context.Context, transaction *models.Transaction) error
	Update(ctx context.Context, transaction *models.Transaction) error
	DeleteOne(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error

	GetByID(ctx context.Context, id int64) (*models.Transaction, error)
	SumByCategory(ctx context.Context, category string) (decimal.Decimal, error)
	SumByCategoryAndDateRange(ctx context.Context, category string, start, end time.Time) (decimal.Decimal, error)

	WatchAll(ctx context.Context) *store.Watch[[]models.Transaction]
	WatchByCategory(ctx context.Context, category string) *store.Watch[[]models.Transaction]
	WatchByDateRange(ctx context.Context, start, end time.Time) *store.Watch[[]models.Transaction]
	WatchByCategoryAndDateRange(ctx context.Context, category string, start, end time.Time) *store.Watch[[]models.Transaction]
	WatchCategories(ctx context.Context) *store.Watch[[]string]
	WatchTotal(ctx context.Context) *store.Watch[decimal.Decimal]
	WatchTotalByDateRange(ctx context.Context, start, end time.Time) *store.Watch[decimal.Decimal]
}

var _ RecordStore = (*store.Store)(nil)

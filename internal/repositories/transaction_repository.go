package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"spendtrack/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
)

// transactionRepository implements TransactionRepositoryInterface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &transactionRepository{
		db: db,
	}
}

// Create inserts a new transaction. The store assigns the id; ids are
// monotonic and never reused.
func (r *transactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(transaction).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// Update replaces the record with the matching id. Updating a missing id
// returns ErrTransactionNotFound rather than silently doing nothing.
func (r *transactionRepository) Update(ctx context.Context, transaction *models.Transaction) error {
	result := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ?", transaction.ID).
		Updates(map[string]interface{}{
			"amount":      transaction.Amount,
			"occurred_at": transaction.OccurredAt,
			"category":    transaction.Category,
			"location":    transaction.Location,
			"description": transaction.Description,
			"updated_at":  time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// Delete removes the transaction with the given id. Deleting a missing id
// is a no-op, so the call is idempotent.
func (r *transactionRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Transaction{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

// DeleteAll clears the transactions table.
func (r *transactionRepository) DeleteAll(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Exec("DELETE FROM transactions").Error; err != nil {
		return fmt.Errorf("failed to delete all transactions: %w", err)
	}
	return nil
}

// GetByID retrieves a transaction by id
func (r *transactionRepository) GetByID(ctx context.Context, id int64) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := r.db.WithContext(ctx).First(&transaction, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &transaction, nil
}

// List retrieves transactions matching the filters, newest first.
func (r *transactionRepository) List(ctx context.Context, filters models.TransactionFilters) ([]models.Transaction, error) {
	var transactions []models.Transaction

	query := r.db.WithContext(ctx).Model(&models.Transaction{})
	query = applyFilters(query, filters)

	if err := query.Order("occurred_at DESC").Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}

// DistinctCategories retrieves the distinct categories in use, in ascending
// lexical order. The category set is derived from the data, never declared.
func (r *transactionRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error; err != nil {
		return nil, fmt.Errorf("failed to get distinct categories: %w", err)
	}
	return categories, nil
}

// TotalAmount returns the sum over all transactions; zero when empty.
func (r *transactionRepository) TotalAmount(ctx context.Context) (decimal.Decimal, error) {
	return r.sum(ctx, models.TransactionFilters{})
}

// TotalAmountByCategory returns the sum for one category; zero when empty.
func (r *transactionRepository) TotalAmountByCategory(ctx context.Context, category string) (decimal.Decimal, error) {
	return r.sum(ctx, models.TransactionFilters{Category: category})
}

// TotalAmountByDateRange returns the sum within [start, end]; zero when empty.
func (r *transactionRepository) TotalAmountByDateRange(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	return r.sum(ctx, models.TransactionFilters{StartDate: &start, EndDate: &end})
}

// TotalAmountByCategoryAndDateRange returns the sum for one category within
// [start, end]; zero when empty.
func (r *transactionRepository) TotalAmountByCategoryAndDateRange(ctx context.Context, category string, start, end time.Time) (decimal.Decimal, error) {
	return r.sum(ctx, models.TransactionFilters{Category: category, StartDate: &start, EndDate: &end})
}

// CategorySummary retrieves per-category totals within a date range,
// largest spend first.
func (r *transactionRepository) CategorySummary(ctx context.Context, start, end time.Time) ([]models.CategorySummary, error) {
	var summaries []models.CategorySummary

	query := `
		SELECT
			category,
			COUNT(*) as transaction_count,
			SUM(amount) as total_amount
		FROM transactions
		WHERE occurred_at >= ? AND occurred_at <= ?
		GROUP BY category
		ORDER BY total_amount DESC
	`

	if err := r.db.WithContext(ctx).Raw(query, start, end).Scan(&summaries).Error; err != nil {
		return nil, fmt.Errorf("failed to get category summary: %w", err)
	}
	return summaries, nil
}

func (r *transactionRepository) sum(ctx context.Context, filters models.TransactionFilters) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)")
	query = applyFilters(query, filters)

	var total decimal.Decimal
	if err := query.Row().Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return total, nil
}

func applyFilters(query *gorm.DB, filters models.TransactionFilters) *gorm.DB {
	if filters.HasCategory() {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.StartDate != nil {
		query = query.Where("occurred_at >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		query = query.Where("occurred_at <= ?", *filters.EndDate)
	}
	return query
}

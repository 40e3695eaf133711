package repositories

import (
	"context"
	"testing"
	"time"

	"spendtrack/internal/database"
	"spendtrack/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TransactionRepositoryTestSuite struct {
	suite.Suite
	db   *database.DB
	repo TransactionRepositoryInterface
	ctx  context.Context
}

func TestTransactionRepositorySuite(t *testing.T) {
	suite.Run(t, new(TransactionRepositoryTestSuite))
}

func (s *TransactionRepositoryTestSuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewTransactionRepository(s.db.DB)
	s.ctx = context.Background()
}

func (s *TransactionRepositoryTestSuite) insert(amount float64, category, location string, occurredAt time.Time) *models.Transaction {
	tx := &models.Transaction{
		Amount:     decimal.NewFromFloat(amount),
		OccurredAt: occurredAt,
		Category:   category,
		Location:   location,
	}
	s.Require().NoError(s.repo.Create(s.ctx, tx))
	return tx
}

func (s *TransactionRepositoryTestSuite) TestCreateAssignsUniqueIDs() {
	first := s.insert(10, "Food", "Cafe", time.Now())
	second := s.insert(20, "Food", "Bar", time.Now())

	s.Positive(first.ID)
	s.Positive(second.ID)
	s.NotEqual(first.ID, second.ID)
	s.Greater(second.ID, first.ID)
}

func (s *TransactionRepositoryTestSuite) TestGetByID() {
	created := s.insert(12.34, "Shopping", "Market", time.Now())

	got, err := s.repo.GetByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(created.ID, got.ID)
	s.True(got.Amount.Equal(decimal.NewFromFloat(12.34)))
	s.Equal("Shopping", got.Category)
	s.Equal("Market", got.Location)
}

func (s *TransactionRepositoryTestSuite) TestGetByIDNotFound() {
	_, err := s.repo.GetByID(s.ctx, 9999)
	s.ErrorIs(err, ErrTransactionNotFound)
}

func (s *TransactionRepositoryTestSuite) TestListOrdersByDateDescending() {
	now := time.Now()
	oldest := s.insert(1, "Food", "A", now.Add(-48*time.Hour))
	newest := s.insert(2, "Food", "B", now)
	middle := s.insert(3, "Food", "C", now.Add(-24*time.Hour))

	transactions, err := s.repo.List(s.ctx, models.TransactionFilters{})
	s.Require().NoError(err)
	s.Require().Len(transactions, 3)
	s.Equal(newest.ID, transactions[0].ID)
	s.Equal(middle.ID, transactions[1].ID)
	s.Equal(oldest.ID, transactions[2].ID)
}

func (s *TransactionRepositoryTestSuite) TestListIncludesSeededFixtures() {
	for i := 0; i < 5; i++ {
		database.CreateTestTransaction(s.T(), s.db, nil)
	}
	pinned := database.CreateTestTransaction(s.T(), s.db, func(tx *models.Transaction) {
		tx.Category = "Healthcare"
		tx.OccurredAt = time.Now().Add(time.Hour)
	})

	all, err := s.repo.List(s.ctx, models.TransactionFilters{})
	s.Require().NoError(err)
	s.Require().Len(all, 6)
	s.Equal(pinned.ID, all[0].ID, "future-dated fixture sorts first")

	healthcare, err := s.repo.List(s.ctx, models.TransactionFilters{Category: "Healthcare"})
	s.Require().NoError(err)
	s.NotEmpty(healthcare)
}

func (s *TransactionRepositoryTestSuite) TestListByCategory() {
	s.insert(10, "Food", "Cafe", time.Now())
	s.insert(20, "Transport", "Station", time.Now())
	s.insert(30, "Food", "Bakery", time.Now())

	transactions, err := s.repo.List(s.ctx, models.TransactionFilters{Category: "Food"})
	s.Require().NoError(err)
	s.Len(transactions, 2)
	for _, tx := range transactions {
		s.Equal("Food", tx.Category)
	}
}

func (s *TransactionRepositoryTestSuite) TestListByDateRange() {
	now := time.Now()
	start := now.Add(-24 * time.Hour)
	inRange := s.insert(10, "Food", "Cafe", now.Add(-time.Hour))
	s.insert(20, "Food", "Old", now.Add(-72*time.Hour))

	transactions, err := s.repo.List(s.ctx, models.TransactionFilters{StartDate: &start, EndDate: &now})
	s.Require().NoError(err)
	s.Require().Len(transactions, 1)
	s.Equal(inRange.ID, transactions[0].ID)
}

func (s *TransactionRepositoryTestSuite) TestListByCategoryAndDateRange() {
	now := time.Now()
	start := now.Add(-24 * time.Hour)
	match := s.insert(10, "Food", "Cafe", now.Add(-time.Hour))
	s.insert(20, "Transport", "Station", now.Add(-time.Hour))
	s.insert(30, "Food", "Old", now.Add(-72*time.Hour))

	transactions, err := s.repo.List(s.ctx, models.TransactionFilters{
		Category:  "Food",
		StartDate: &start,
		EndDate:   &now,
	})
	s.Require().NoError(err)
	s.Require().Len(transactions, 1)
	s.Equal(match.ID, transactions[0].ID)
}

func (s *TransactionRepositoryTestSuite) TestUpdate() {
	created := s.insert(10, "Food", "Cafe", time.Now())

	created.Amount = decimal.NewFromFloat(15.50)
	created.Location = "Restaurant"
	created.Description = "team lunch"
	s.Require().NoError(s.repo.Update(s.ctx, created))

	got, err := s.repo.GetByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.True(got.Amount.Equal(decimal.NewFromFloat(15.50)))
	s.Equal("Restaurant", got.Location)
	s.Equal("team lunch", got.Description)
}

func (s *TransactionRepositoryTestSuite) TestUpdateMissingIDReturnsNotFound() {
	tx := &models.Transaction{
		ID:         4242,
		Amount:     decimal.NewFromFloat(1),
		OccurredAt: time.Now(),
		Category:   "Food",
		Location:   "Nowhere",
	}
	s.ErrorIs(s.repo.Update(s.ctx, tx), ErrTransactionNotFound)
}

func (s *TransactionRepositoryTestSuite) TestDeleteIsIdempotent() {
	created := s.insert(10, "Food", "Cafe", time.Now())

	s.Require().NoError(s.repo.Delete(s.ctx, created.ID))
	s.Require().NoError(s.repo.Delete(s.ctx, created.ID))

	_, err := s.repo.GetByID(s.ctx, created.ID)
	s.ErrorIs(err, ErrTransactionNotFound)
}

func (s *TransactionRepositoryTestSuite) TestDeleteAll() {
	s.insert(10, "Food", "Cafe", time.Now())
	s.insert(20, "Transport", "Station", time.Now())

	s.Require().NoError(s.repo.DeleteAll(s.ctx))

	transactions, err := s.repo.List(s.ctx, models.TransactionFilters{})
	s.Require().NoError(err)
	s.Empty(transactions)

	total, err := s.repo.TotalAmount(s.ctx)
	s.Require().NoError(err)
	s.True(total.IsZero())
}

func (s *TransactionRepositoryTestSuite) TestDistinctCategoriesSortedAscending() {
	s.insert(10, "Transport", "Station", time.Now())
	s.insert(20, "Food", "Cafe", time.Now())
	s.insert(30, "Food", "Bakery", time.Now())
	s.insert(40, "Bills", "Utility", time.Now())

	categories, err := s.repo.DistinctCategories(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"Bills", "Food", "Transport"}, categories)
}

func (s *TransactionRepositoryTestSuite) TestTotalAmount() {
	s.insert(10.50, "Food", "Cafe", time.Now())
	s.insert(4.50, "Transport", "Station", time.Now())

	total, err := s.repo.TotalAmount(s.ctx)
	s.Require().NoError(err)
	s.True(total.Equal(decimal.NewFromFloat(15)), "got %s", total)
}

func (s *TransactionRepositoryTestSuite) TestTotalAmountEmptyStoreIsZero() {
	total, err := s.repo.TotalAmount(s.ctx)
	s.Require().NoError(err)
	s.True(total.IsZero())
}

func (s *TransactionRepositoryTestSuite) TestTotalAmountByCategory() {
	s.insert(10, "Food", "Cafe", time.Now())
	s.insert(5, "Food", "Bakery", time.Now())
	s.insert(20, "Transport", "Station", time.Now())

	total, err := s.repo.TotalAmountByCategory(s.ctx, "Food")
	s.Require().NoError(err)
	s.True(total.Equal(decimal.NewFromInt(15)), "got %s", total)

	missing, err := s.repo.TotalAmountByCategory(s.ctx, "Healthcare")
	s.Require().NoError(err)
	s.True(missing.IsZero())
}

func (s *TransactionRepositoryTestSuite) TestTotalAmountByDateRange() {
	now := time.Now()
	start := now.Add(-24 * time.Hour)
	s.insert(10, "Food", "Cafe", now.Add(-time.Hour))
	s.insert(99, "Food", "Old", now.Add(-72*time.Hour))

	total, err := s.repo.TotalAmountByDateRange(s.ctx, start, now)
	s.Require().NoError(err)
	s.True(total.Equal(decimal.NewFromInt(10)), "got %s", total)
}

func (s *TransactionRepositoryTestSuite) TestTotalAmountByCategoryAndDateRange() {
	now := time.Now()
	start := now.Add(-24 * time.Hour)
	s.insert(10, "Food", "Cafe", now.Add(-time.Hour))
	s.insert(20, "Transport", "Station", now.Add(-time.Hour))
	s.insert(99, "Food", "Old", now.Add(-72*time.Hour))

	total, err := s.repo.TotalAmountByCategoryAndDateRange(s.ctx, "Food", start, now)
	s.Require().NoError(err)
	s.True(total.Equal(decimal.NewFromInt(10)), "got %s", total)
}

func (s *TransactionRepositoryTestSuite) TestCategorySummary() {
	now := time.Now()
	start := now.Add(-24 * time.Hour)
	s.insert(10, "Food", "Cafe", now.Add(-time.Hour))
	s.insert(5, "Food", "Bakery", now.Add(-2*time.Hour))
	s.insert(40, "Transport", "Station", now.Add(-time.Hour))
	s.insert(99, "Food", "Old", now.Add(-72*time.Hour))

	summaries, err := s.repo.CategorySummary(s.ctx, start, now)
	s.Require().NoError(err)
	s.Require().Len(summaries, 2)

	s.Equal("Transport", summaries[0].Category)
	s.EqualValues(1, summaries[0].TransactionCount)
	s.True(summaries[0].TotalAmount.Equal(decimal.NewFromInt(40)))

	s.Equal("Food", summaries[1].Category)
	s.EqualValues(2, summaries[1].TransactionCount)
	s.True(summaries[1].TotalAmount.Equal(decimal.NewFromInt(15)))
}

// Package store implements the record store: durable transaction storage
// with a reactive query surface. Mutations are persisted first and then
// fanned out to every registered watch, so once a mutating call returns,
// each watch's latest snapshot reflects it.
package store

import (
	"context"
	"sync"
	"time"

	"spendtrack/internal/models"
	"spendtrack/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type refresher interface {
	refresh()
}

type Store struct {
	repo    repositories.TransactionRepositoryInterface
	log     zerolog.Logger
	metrics *Metrics

	mu      sync.RWMutex
	watches map[uuid.UUID]refresher
}

// New creates a Store on top of the given repository. metrics may be nil
// when instrumentation is not wanted.
func New(repo repositories.TransactionRepositoryInterface, logger zerolog.Logger, metrics *Metrics) *Store {
	return &Store{
		repo:    repo,
		log:     logger.With().Str("component", "store").Logger(),
		metrics: metrics,
		watches: make(map[uuid.UUID]refresher),
	}
}

// Mutations. Each one is durable before any watch is notified.

// Insert persists a new transaction, assigning it a fresh id.
func (s *Store) Insert(ctx context.Context, transaction *models.Transaction) error {
	err := s.repo.Create(ctx, transaction)
	s.metrics.recordMutation("insert", err)
	if err != nil {
		return err
	}
	s.log.Debug().Int64("id", transaction.ID).Str("category", transaction.Category).Msg("transaction inserted")
	s.notifyAll()
	return nil
}

// Update replaces the stored record with the same id. Returns
// repositories.ErrTransactionNotFound when no such record exists.
func (s *Store) Update(ctx context.Context, transaction *models.Transaction) error {
	err := s.repo.Update(ctx, transaction)
	s.metrics.recordMutation("update", err)
	if err != nil {
		return err
	}
	s.log.Debug().Int64("id", transaction.ID).Msg("transaction updated")
	s.notifyAll()
	return nil
}

// DeleteOne removes the record with the given id; absent ids are a no-op.
func (s *Store) DeleteOne(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	s.metrics.recordMutation("delete", err)
	if err != nil {
		return err
	}
	s.log.Debug().Int64("id", id).Msg("transaction deleted")
	s.notifyAll()
	return nil
}

// DeleteAll clears every stored transaction.
func (s *Store) DeleteAll(ctx context.Context) error {
	err := s.repo.DeleteAll(ctx)
	s.metrics.recordMutation("delete_all", err)
	if err != nil {
		return err
	}
	s.log.Debug().Msg("all transactions deleted")
	s.notifyAll()
	return nil
}

// One-shot reads, passed straight through to the repository.

func (s *Store) GetByID(ctx context.Context, id int64) (*models.Transaction, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Store) List(ctx context.Context, filters models.TransactionFilters) ([]models.Transaction, error) {
	return s.repo.List(ctx, filters)
}

func (s *Store) SumByCategory(ctx context.Context, category string) (decimal.Decimal, error) {
	return s.repo.TotalAmountByCategory(ctx, category)
}

func (s *Store) SumByCategoryAndDateRange(ctx context.Context, category string, start, end time.Time) (decimal.Decimal, error) {
	return s.repo.TotalAmountByCategoryAndDateRange(ctx, category, start, end)
}

func (s *Store) CategorySummary(ctx context.Context, start, end time.Time) ([]models.CategorySummary, error) {
	return s.repo.CategorySummary(ctx, start, end)
}

// Live queries. Each returns a Watch that re-emits after every mutation,
// starting with the snapshot at subscribe time. Callers own the Watch and
// must Close it when their screen detaches.

func (s *Store) WatchAll(ctx context.Context) *Watch[[]models.Transaction] {
	return newWatch(s, "all", func() ([]models.Transaction, error) {
		return s.repo.List(ctx, models.TransactionFilters{})
	})
}

func (s *Store) WatchByCategory(ctx context.Context, category string) *Watch[[]models.Transaction] {
	return newWatch(s, "by_category", func() ([]models.Transaction, error) {
		return s.repo.List(ctx, models.TransactionFilters{Category: category})
	})
}

func (s *Store) WatchByDateRange(ctx context.Context, start, end time.Time) *Watch[[]models.Transaction] {
	return newWatch(s, "by_date_range", func() ([]models.Transaction, error) {
		return s.repo.List(ctx, models.TransactionFilters{StartDate: &start, EndDate: &end})
	})
}

func (s *Store) WatchByCategoryAndDateRange(ctx context.Context, category string, start, end time.Time) *Watch[[]models.Transaction] {
	return newWatch(s, "by_category_and_date_range", func() ([]models.Transaction, error) {
		return s.repo.List(ctx, models.TransactionFilters{Category: category, StartDate: &start, EndDate: &end})
	})
}

func (s *Store) WatchCategories(ctx context.Context) *Watch[[]string] {
	return newWatch(s, "categories", func() ([]string, error) {
		return s.repo.DistinctCategories(ctx)
	})
}

func (s *Store) WatchTotal(ctx context.Context) *Watch[decimal.Decimal] {
	return newWatch(s, "total", func() (decimal.Decimal, error) {
		return s.repo.TotalAmount(ctx)
	})
}

func (s *Store) WatchTotalByCategory(ctx context.Context, category string) *Watch[decimal.Decimal] {
	return newWatch(s, "total_by_category", func() (decimal.Decimal, error) {
		return s.repo.TotalAmountByCategory(ctx, category)
	})
}

func (s *Store) WatchTotalByDateRange(ctx context.Context, start, end time.Time) *Watch[decimal.Decimal] {
	return newWatch(s, "total_by_date_range", func() (decimal.Decimal, error) {
		return s.repo.TotalAmountByDateRange(ctx, start, end)
	})
}

func (s *Store) WatchTotalByCategoryAndDateRange(ctx context.Context, category string, start, end time.Time) *Watch[decimal.Decimal] {
	return newWatch(s, "total_by_category_and_date_range", func() (decimal.Decimal, error) {
		return s.repo.TotalAmountByCategoryAndDateRange(ctx, category, start, end)
	})
}

// WatchCount returns the number of registered live queries.
func (s *Store) WatchCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.watches)
}

func (s *Store) register(id uuid.UUID, w refresher, name string) {
	s.mu.Lock()
	s.watches[id] = w
	s.mu.Unlock()
	s.metrics.watchOpened()
	s.log.Debug().Str("watch", name).Str("watch_id", id.String()).Msg("watch registered")
}

func (s *Store) unregister(id uuid.UUID) {
	s.mu.Lock()
	_, ok := s.watches[id]
	delete(s.watches, id)
	s.mu.Unlock()
	if ok {
		s.metrics.watchClosed()
	}
}

// notifyAll refreshes every registered watch synchronously, in the calling
// goroutine, so the mutation's effects are visible in each watch's Current
// before the mutating call returns.
func (s *Store) notifyAll() {
	s.mu.RLock()
	watches := make([]refresher, 0, len(s.watches))
	for _, w := range s.watches {
		watches = append(watches, w)
	}
	s.mu.RUnlock()

	for _, w := range watches {
		w.refresh()
	}
}

package services

import (
	"context"
	"sync"
	"time"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/models"
	"spendtrack/internal/reactive"
	"spendtrack/internal/store"

	"github.com/rs/zerolog"
)

// TransactionListState is the filtered transaction list view state. When a
// reload fails the previous Transactions slice is kept and Error describes
// the failure, so the view can show stale data alongside the message.
type TransactionListState struct {
	Transactions []models.Transaction
	Loading      bool
	Error        string
	Category     string
	StartDate    *time.Time
	EndDate      *time.Time
}

// HasCategoryFilter reports whether a category filter is active.
func (st TransactionListState) HasCategoryFilter() bool {
	return st.Category != ""
}

// HasDateFilter reports whether a date range filter is active.
func (st TransactionListState) HasDateFilter() bool {
	return st.StartDate != nil && st.EndDate != nil
}

// TransactionListService keeps a live, filtered transaction list. Changing a
// filter swaps the underlying watch; emissions always reflect the filter
// active at the time of the change.
type TransactionListService struct {
	store RecordStore
	log   zerolog.Logger
	ctx   context.Context
	state *reactive.Value[TransactionListState]

	mu     sync.Mutex
	gen    int
	cancel func()
}

// NewTransactionListService creates the holder with no category filter and
// the current month as the date scope, then starts watching.
func NewTransactionListService(ctx context.Context, recordStore RecordStore, logger zerolog.Logger) *TransactionListService {
	start, end := currentMonthRange(time.Now())

	s := &TransactionListService{
		store: recordStore,
		log:   logger.With().Str("component", "transaction_list").Logger(),
		ctx:   ctx,
		state: reactive.New(TransactionListState{
			Loading:   true,
			StartDate: &start,
			EndDate:   &end,
		}),
	}

	s.mu.Lock()
	s.startLocked()
	s.mu.Unlock()
	return s
}

// Current returns the latest list state.
func (s *TransactionListService) Current() TransactionListState {
	return s.state.Get()
}

// Subscribe registers for state change notifications.
func (s *TransactionListService) Subscribe() *reactive.Subscription[TransactionListState] {
	return s.state.Subscribe()
}

// SetCategory replaces the category filter. An empty string removes it.
func (s *TransactionListService) SetCategory(category string) {
	s.restart(func(st TransactionListState) TransactionListState {
		st.Category = category
		return st
	})
}

// SetDateRange replaces the date scope.
func (s *TransactionListService) SetDateRange(start, end *time.Time) {
	s.restart(func(st TransactionListState) TransactionListState {
		st.StartDate = start
		st.EndDate = end
		return st
	})
}

// ClearFilters removes both the category and the date range filter.
func (s *TransactionListService) ClearFilters() {
	s.restart(func(st TransactionListState) TransactionListState {
		st.Category = ""
		st.StartDate = nil
		st.EndDate = nil
		return st
	})
}

// Refresh reloads the list with the current filters.
func (s *TransactionListService) Refresh() {
	s.restart(func(st TransactionListState) TransactionListState { return st })
}

// Close tears the watch down. The holder must not be used afterwards.
func (s *TransactionListService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *TransactionListService) restart(apply func(TransactionListState) TransactionListState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.state.Update(func(st TransactionListState) TransactionListState {
		st = apply(st)
		st.Loading = true
		st.Error = ""
		return st
	})
	s.startLocked()
}

func (s *TransactionListService) stopLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *TransactionListService) startLocked() {
	s.gen++
	gen := s.gen
	st := s.state.Get()

	var watch *store.Watch[[]models.Transaction]
	switch {
	case st.Category != "" && st.StartDate != nil && st.EndDate != nil:
		watch = s.store.WatchByCategoryAndDateRange(s.ctx, st.Category, *st.StartDate, *st.EndDate)
	case st.Category != "":
		watch = s.store.WatchByCategory(s.ctx, st.Category)
	case st.StartDate != nil && st.EndDate != nil:
		watch = s.store.WatchByDateRange(s.ctx, *st.StartDate, *st.EndDate)
	default:
		watch = s.store.WatchAll(s.ctx)
	}

	s.cancel = watch.Close
	go s.pump(gen, watch)
}

func (s *TransactionListService) pump(gen int, watch *store.Watch[[]models.Transaction]) {
	for snap := range watch.Updates() {
		s.publish(gen, snap)
	}
}

func (s *TransactionListService) publish(gen int, snap store.Snapshot[[]models.Transaction]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.state.Update(func(st TransactionListState) TransactionListState {
		if snap.Err != nil {
			s.log.Error().Err(snap.Err).Msg("loading transactions failed")
			st.Loading = false
			st.Error = apperrors.Describe(apperrors.TransactionLoadFailed, snap.Err)
			return st
		}
		st.Transactions = snap.Value
		st.Loading = false
		st.Error = ""
		return st
	})
}

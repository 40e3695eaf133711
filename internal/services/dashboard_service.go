package services

import (
	"context"
	"sort"
	"sync"
	"time"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/models"
	"spendtrack/internal/reactive"
	"spendtrack/internal/store"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DashboardState is the category-breakdown view state. CategorySpending is
// ranked by amount, largest first; Percentage is each category's share of
// TotalSpending within the active date scope.
type DashboardState struct {
	CategorySpending []models.CategorySpending
	TotalSpending    decimal.Decimal
	Loading          bool
	Error            string
	StartDate        *time.Time
	EndDate          *time.Time
}

// DashboardService derives the ranked category breakdown from two live
// sources: the distinct category list and the (optionally date-scoped)
// spending total. Per-category sums are one-shot reads of the latest value;
// a single category's failure is logged and omitted, never fatal.
type DashboardService struct {
	store RecordStore
	log   zerolog.Logger
	ctx   context.Context
	state *reactive.Value[DashboardState]

	mu     sync.Mutex
	gen    int
	cancel func()
}

// NewDashboardService creates the holder and starts its pipeline with the
// default date scope: start of the current month through the end of today.
func NewDashboardService(ctx context.Context, recordStore RecordStore, logger zerolog.Logger) *DashboardService {
	start, end := currentMonthRange(time.Now())

	s := &DashboardService{
		store: recordStore,
		log:   logger.With().Str("component", "dashboard").Logger(),
		ctx:   ctx,
		state: reactive.New(DashboardState{
			TotalSpending: decimal.Zero,
			Loading:       true,
			StartDate:     &start,
			EndDate:       &end,
		}),
	}

	s.mu.Lock()
	s.startLocked()
	s.mu.Unlock()
	return s
}

// Current returns the latest dashboard state.
func (s *DashboardService) Current() DashboardState {
	return s.state.Get()
}

// Subscribe registers for state change notifications.
func (s *DashboardService) Subscribe() *reactive.Subscription[DashboardState] {
	return s.state.Subscribe()
}

// Refresh restarts the pipeline without changing the date scope.
func (s *DashboardService) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log.Debug().Msg("refreshing spending data")
	s.stopLocked()
	s.state.Update(func(st DashboardState) DashboardState {
		st.Loading = true
		st.Error = ""
		return st
	})
	s.startLocked()
}

// SetDateRange replaces the date scope and restarts the pipeline.
func (s *DashboardService) SetDateRange(start, end *time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.state.Update(func(st DashboardState) DashboardState {
		st.StartDate = start
		st.EndDate = end
		st.Loading = true
		st.Error = ""
		return st
	})
	s.startLocked()
}

// ClearDateFilter removes the date scope so the breakdown covers all time.
func (s *DashboardService) ClearDateFilter() {
	s.SetDateRange(nil, nil)
}

// Close tears the pipeline down. The holder must not be used afterwards.
func (s *DashboardService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *DashboardService) stopLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *DashboardService) startLocked() {
	s.gen++
	gen := s.gen
	st := s.state.Get()

	categories := s.store.WatchCategories(s.ctx)
	var total *store.Watch[decimal.Decimal]
	if st.StartDate != nil && st.EndDate != nil {
		total = s.store.WatchTotalByDateRange(s.ctx, *st.StartDate, *st.EndDate)
	} else {
		total = s.store.WatchTotal(s.ctx)
	}

	s.cancel = func() {
		categories.Close()
		total.Close()
	}

	go s.run(gen, categories, total, st.StartDate, st.EndDate)
}

// run combines the two live sources and recomputes the breakdown on every
// emission of either, once both have produced a value.
func (s *DashboardService) run(gen int, categories *store.Watch[[]string], total *store.Watch[decimal.Decimal], start, end *time.Time) {
	var cats store.Snapshot[[]string]
	var tot store.Snapshot[decimal.Decimal]
	haveCategories, haveTotal := false, false

	for {
		select {
		case snap, ok := <-categories.Updates():
			if !ok {
				return
			}
			cats, haveCategories = snap, true
		case snap, ok := <-total.Updates():
			if !ok {
				return
			}
			tot, haveTotal = snap, true
		}

		if haveCategories && haveTotal {
			s.recompute(gen, cats, tot, start, end)
		}
	}
}

func (s *DashboardService) recompute(gen int, cats store.Snapshot[[]string], tot store.Snapshot[decimal.Decimal], start, end *time.Time) {
	if err := firstError(cats.Err, tot.Err); err != nil {
		s.log.Error().Err(err).Msg("loading spending data failed")
		s.publish(gen, func(st DashboardState) DashboardState {
			st.Loading = false
			st.Error = apperrors.Describe(apperrors.DashboardLoadFailed, err)
			return st
		})
		return
	}

	totalAmount := tot.Value
	if len(cats.Value) == 0 || totalAmount.LessThanOrEqual(decimal.Zero) {
		s.publish(gen, func(st DashboardState) DashboardState {
			st.CategorySpending = []models.CategorySpending{}
			st.TotalSpending = totalAmount
			st.Loading = false
			st.Error = ""
			return st
		})
		return
	}

	spending := make([]models.CategorySpending, 0, len(cats.Value))
	for _, category := range cats.Value {
		amount, err := s.scopedSum(category, start, end)
		if err != nil {
			s.log.Warn().Err(err).Str("category", category).Msg("skipping category after failed sum")
			continue
		}
		if amount.LessThanOrEqual(decimal.Zero) {
			continue
		}
		percentage, _ := amount.Div(totalAmount).Mul(decimal.NewFromInt(100)).Float64()
		spending = append(spending, models.CategorySpending{
			Category:   category,
			Amount:     amount,
			Percentage: percentage,
		})
	}

	// ties keep original category order
	sort.SliceStable(spending, func(i, j int) bool {
		return spending[i].Amount.GreaterThan(spending[j].Amount)
	})

	s.log.Debug().Int("categories", len(spending)).Str("total", totalAmount.String()).Msg("breakdown recomputed")
	s.publish(gen, func(st DashboardState) DashboardState {
		st.CategorySpending = spending
		st.TotalSpending = totalAmount
		st.Loading = false
		st.Error = ""
		return st
	})
}

func (s *DashboardService) scopedSum(category string, start, end *time.Time) (decimal.Decimal, error) {
	if start != nil && end != nil {
		return s.store.SumByCategoryAndDateRange(s.ctx, category, *start, *end)
	}
	return s.store.SumByCategory(s.ctx, category)
}

// publish applies the state transition unless the pipeline was replaced in
// the meantime.
func (s *DashboardService) publish(gen int, apply func(DashboardState) DashboardState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.state.Update(apply)
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

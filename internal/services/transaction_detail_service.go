package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/models"
	"spendtrack/internal/reactive"
	"spendtrack/internal/repositories"
	"spendtrack/internal/store"
	"spendtrack/internal/validation"

	"github.com/rs/zerolog"
)

// TransactionDetailState is the state of the detail screen for one
// transaction: the loaded record plus an edit buffer over its fields. The
// buffer only reaches the store on Save; CancelEdit restores it from the
// loaded record.
type TransactionDetailState struct {
	Transaction *models.Transaction
	Loading     bool
	EditMode    bool
	Error       string

	AmountCents   int64
	CategoryQuery string
	Location      string
	Description   string
	Date          string
	Time          string

	DropdownOpen           bool
	ShowDatePicker         bool
	ShowTimePicker         bool
	ShowDeleteConfirmation bool

	AllCategories []string

	AmountError   bool
	CategoryError bool
	LocationError bool
	DateTimeError bool
}

// FormattedAmount renders the edited amount as "units.hundredths".
func (st TransactionDetailState) FormattedAmount() string {
	return formatCents(st.AmountCents)
}

// FilteredCategories narrows the known categories by the current query.
func (st TransactionDetailState) FilteredCategories() []string {
	return filterCategories(st.AllCategories, st.CategoryQuery)
}

// ShowCreateNew reports whether the dropdown should offer creating the
// queried category as a new one.
func (st TransactionDetailState) ShowCreateNew() bool {
	return showCreateNew(st.FilteredCategories(), st.CategoryQuery)
}

// TransactionDetailService holds the detail screen state for a single
// transaction id.
type TransactionDetailService struct {
	store     RecordStore
	log       zerolog.Logger
	ctx       context.Context
	validator *validation.Validator
	id        int64
	state     *reactive.Value[TransactionDetailState]

	mu     sync.Mutex
	cancel func()
}

// NewTransactionDetailService creates the holder for one transaction and
// loads it. The category suggestions track the live distinct category list.
func NewTransactionDetailService(ctx context.Context, recordStore RecordStore, logger zerolog.Logger, id int64) *TransactionDetailService {
	s := &TransactionDetailService{
		store:     recordStore,
		log:       logger.With().Str("component", "transaction_detail").Int64("id", id).Logger(),
		ctx:       ctx,
		validator: validation.NewValidator(),
		id:        id,
		state: reactive.New(TransactionDetailState{
			Loading:       true,
			AllCategories: models.DefaultCategories(),
		}),
	}

	categories := recordStore.WatchCategories(ctx)
	s.mu.Lock()
	s.cancel = categories.Close
	s.mu.Unlock()
	go s.trackCategories(categories)

	s.Load()
	return s
}

// Current returns the latest detail state.
func (s *TransactionDetailService) Current() TransactionDetailState {
	return s.state.Get()
}

// Subscribe registers for state change notifications.
func (s *TransactionDetailService) Subscribe() *reactive.Subscription[TransactionDetailState] {
	return s.state.Subscribe()
}

// Load fetches the transaction and fills the edit buffer from it.
func (s *TransactionDetailService) Load() {
	s.state.Update(func(st TransactionDetailState) TransactionDetailState {
		st.Loading = true
		st.Error = ""
		return st
	})

	transaction, err := s.store.GetByID(s.ctx, s.id)
	if err != nil {
		message := apperrors.Describe(apperrors.TransactionLoadFailed, err)
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			message = apperrors.GetErrorMessage(apperrors.TransactionNotFound)
		}
		s.log.Error().Err(err).Msg("loading transaction failed")
		s.state.Update(func(st TransactionDetailState) TransactionDetailState {
			st.Transaction = nil
			st.Loading = false
			st.Error = message
			return st
		})
		return
	}

	s.state.Update(func(st TransactionDetailState) TransactionDetailState {
		st.Transaction = transaction
		st.Loading = false
		st.Error = ""
		return fillFromRecord(st, transaction)
	})
}

// SetEditMode toggles edit mode without touching the edit buffer.
func (s *TransactionDetailService) SetEditMode(edit bool) {
	s.state.Update(func(st TransactionDetailState) TransactionDetailState {
		st.EditMode = edit
		return st
	})
}

// CancelEdit discards buffered edits, restoring every field from the
// loaded record, and leaves edit mode.
func (s *TransactionDetailService) CancelEdit() {
	s.state.Update(func(st TransactionDetailState) TransactionDetailState {
		if st.Transaction != nil {
			st = fillFromRecord(st, st.Transaction)
		}
		st.EditMode = false
		st.DropdownOpen = false
		st.ShowDatePicker = false
		st.ShowTimePicker = false
		return st
	})
}

// UpdateAmount applies raw amount text to the edit buffer.
func (s *TransactionDetailService) UpdateAmount(input string) {
	s.state.Update(func(st TransactionDetailState) TransactionDetailState {
		st.AmountCents = normalizeAmountInput(input, st.AmountCents)
		st.AmountError = false
		return st
	})
}

// UpdateCategoryQuery replaces the category search text.
func (s *TransactionDetailService) UpdateCategoryQuery(query string) {
	s.state.Update(func(st TransactionDetailState) TransactionDetailState {
		st.CategoryQuery = query
		st.CategoryError = false
		return st
	})
}

// SelectCategory picks a category from the dropdown.
func (s *TransactionDetailService) SelectCategory(category string) {
	s.state.Update(func(st TransactionDetailState) TransactionDetailState {
		st.CategoryQuery = category
		st.DropdownOpen = false
		st.CategoryError = false
		return st
	})
}

// SetDropdownOpen toggles the category dropdown.
func (s *TransactionDetailService) SetDropdownOpen(open bool) {
	s.state.Update(func(st TransactionDetailState) TransactionDetailState {
		st.DropdownOpen = open
		return st
	})
}

// UpdateLocation replaces the location text.
func (s *TransactionDetailService) UpdateLocation(location string) {
	s.state.Update(func(st TransactionDetailState) TransactionDetailState {
		st.Location = location
		st.LocationError = false
		return st
	})
}

// UpdateDescription replaces the optional description text.
func (s *TransactionDetailService) UpdateDescription(description string) {
	s.state.Update(func(st TransactionDetailState) TransactionDetailState {
		st.Description = description
		return st
	})
}

// SetDate applies a picked date and closes the date picker.
func (s *TransactionDetailService) SetDate(date string) {
	s.state.Update(func(st TransactionDetailState) TransactionDetailState {
		st.Date = date
		st.DateTimeError = false
		st.ShowDatePicker = false
		return st
	})
}

// SetTime applies a picked time and closes the time picker.
func (s *TransactionDetailService) SetTime(clock string) {
	s.state.Update(func(st TransactionDetailState) TransactionDetailState {
		st.Time = clock
		st.DateTimeError = false
		st.ShowTimePicker = false
		return st
	})
}

// SetShowDatePicker toggles the date picker.
func (s *TransactionDetailService) SetShowDatePicker(show bool) {
	s.state.Update(func(st TransactionDetailState) TransactionDetailState {
		st.ShowDatePicker = show
		return st
	})
}

// SetShowTimePicker toggles the time picker.
func (s *TransactionDetailService) SetShowTimePicker(show bool) {
	s.state.Update(func(st TransactionDetailState) TransactionDetailState {
		st.ShowTimePicker = show
		return st
	})
}

// SetShowDeleteConfirmation toggles the delete confirmation dialog.
func (s *TransactionDetailService) SetShowDeleteConfirmation(show bool) {
	s.state.Update(func(st TransactionDetailState) TransactionDetailState {
		st.ShowDeleteConfirmation = show
		return st
	})
}

// Validate checks the edit buffer and sets the per-field error flags. It
// reports whether the edits may be saved.
func (s *TransactionDetailService) Validate() bool {
	st := s.state.Get()

	failures, err := s.validator.Struct(draftPayload{
		AmountCents: st.AmountCents,
		Category:    st.CategoryQuery,
		Location:    st.Location,
		Date:        st.Date,
		Time:        st.Time,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("form validation failed unexpectedly")
		return false
	}

	_, amountBad := failures["amount_cents"]
	_, categoryBad := failures["category"]
	_, locationBad := failures["location"]
	_, dateBad := failures["date"]
	_, timeBad := failures["time"]

	s.state.Update(func(st TransactionDetailState) TransactionDetailState {
		st.AmountError = amountBad
		st.CategoryError = categoryBad
		st.LocationError = locationBad
		st.DateTimeError = dateBad || timeBad
		return st
	})

	return len(failures) == 0
}

// Save validates the edit buffer and persists it over the loaded record. An
// invalid buffer only sets the field error flags. On success the record is
// reloaded and edit mode ends.
func (s *TransactionDetailService) Save() error {
	if !s.Validate() {
		return nil
	}

	st := s.state.Get()
	if st.Transaction == nil {
		s.log.Warn().Msg("save requested with no transaction loaded")
		return nil
	}

	occurredAt, err := parseDisplayDateTime(st.Date, st.Time)
	if err != nil {
		s.log.Warn().Err(err).Str("date", st.Date).Str("time", st.Time).Msg("unparseable date, using current time")
		occurredAt = time.Now()
	}

	updated := &models.Transaction{
		ID:          st.Transaction.ID,
		Amount:      centsToAmount(st.AmountCents),
		OccurredAt:  occurredAt,
		Category:    strings.TrimSpace(st.CategoryQuery),
		Location:    strings.TrimSpace(st.Location),
		Description: strings.TrimSpace(st.Description),
	}

	if err := s.store.Update(s.ctx, updated); err != nil {
		s.log.Error().Err(err).Msg("updating transaction failed")
		s.state.Update(func(st TransactionDetailState) TransactionDetailState {
			st.Error = apperrors.Describe(apperrors.TransactionSaveFailed, err)
			return st
		})
		return err
	}

	s.Load()
	s.state.Update(func(st TransactionDetailState) TransactionDetailState {
		st.EditMode = false
		return st
	})
	return nil
}

// Delete removes the loaded transaction. onComplete runs exactly once,
// after the delete succeeded, so the caller can navigate away.
func (s *TransactionDetailService) Delete(onComplete func()) error {
	st := s.state.Get()
	if st.Transaction == nil {
		s.log.Warn().Msg("delete requested with no transaction loaded")
		return nil
	}

	if err := s.store.DeleteOne(s.ctx, st.Transaction.ID); err != nil {
		s.log.Error().Err(err).Msg("deleting transaction failed")
		s.state.Update(func(st TransactionDetailState) TransactionDetailState {
			st.ShowDeleteConfirmation = false
			st.Error = apperrors.Describe(apperrors.TransactionDeleteFailed, err)
			return st
		})
		return err
	}

	s.state.Update(func(st TransactionDetailState) TransactionDetailState {
		st.ShowDeleteConfirmation = false
		return st
	})
	if onComplete != nil {
		onComplete()
	}
	return nil
}

// Close stops tracking the category list. The holder must not be used
// afterwards.
func (s *TransactionDetailService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *TransactionDetailService) trackCategories(categories *store.Watch[[]string]) {
	for snap := range categories.Updates() {
		if snap.Err != nil {
			s.log.Warn().Err(snap.Err).Msg("category suggestions not refreshed")
			continue
		}
		next := snap.Value
		if len(next) == 0 {
			next = models.DefaultCategories()
		}
		s.state.Update(func(st TransactionDetailState) TransactionDetailState {
			st.AllCategories = next
			return st
		})
	}
}

// fillFromRecord resets the edit buffer and error flags from a loaded
// record.
func fillFromRecord(st TransactionDetailState, transaction *models.Transaction) TransactionDetailState {
	st.AmountCents = amountToCents(transaction.Amount)
	st.CategoryQuery = transaction.Category
	st.Location = transaction.Location
	st.Description = transaction.Description
	st.Date = transaction.OccurredAt.Format(displayDateFormat)
	st.Time = transaction.OccurredAt.Format(displayTimeFormat)
	st.AmountError = false
	st.CategoryError = false
	st.LocationError = false
	st.DateTimeError = false
	return st
}

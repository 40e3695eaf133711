package services

import (
	"context"
	"strings"
	"sync"
	"time"

	apperrors "spendtrack/internal/errors"
	"spendtrack/internal/models"
	"spendtrack/internal/reactive"
	"spendtrack/internal/store"
	"spendtrack/internal/validation"

	"github.com/rs/zerolog"
)

// TransactionFormState is the new-transaction form state. AmountCents is the
// canonical amount representation; everything shown to the user derives
// from it.
type TransactionFormState struct {
	AmountCents   int64
	CategoryQuery string
	Location      string
	Description   string
	Date          string
	Time          string

	DropdownOpen     bool
	ShowConfirmation bool
	ShowDatePicker   bool
	ShowTimePicker   bool

	AllCategories []string

	AmountError   bool
	CategoryError bool
	LocationError bool
	DateTimeError bool
	Error         string
}

// FormattedAmount renders the entered amount as "units.hundredths".
func (st TransactionFormState) FormattedAmount() string {
	return formatCents(st.AmountCents)
}

// FilteredCategories narrows the known categories by the current query.
func (st TransactionFormState) FilteredCategories() []string {
	return filterCategories(st.AllCategories, st.CategoryQuery)
}

// ShowCreateNew reports whether the dropdown should offer creating the
// queried category as a new one.
func (st TransactionFormState) ShowCreateNew() bool {
	return showCreateNew(st.FilteredCategories(), st.CategoryQuery)
}

// draftPayload is the validation shape of a submitted form.
type draftPayload struct {
	AmountCents int64  `json:"amount_cents" validate:"positive_cents"`
	Category    string `json:"category" validate:"notblank"`
	Location    string `json:"location" validate:"notblank"`
	Date        string `json:"date" validate:"notblank"`
	Time        string `json:"time" validate:"notblank"`
}

// TransactionFormService holds the state of the new-transaction form. The
// category suggestions track the live distinct category list, falling back
// to a default set while the store is empty.
type TransactionFormService struct {
	store     RecordStore
	log       zerolog.Logger
	ctx       context.Context
	validator *validation.Validator
	state     *reactive.Value[TransactionFormState]

	mu     sync.Mutex
	cancel func()
}

// NewTransactionFormService creates the holder and starts tracking the
// category list.
func NewTransactionFormService(ctx context.Context, recordStore RecordStore, logger zerolog.Logger) *TransactionFormService {
	s := &TransactionFormService{
		store:     recordStore,
		log:       logger.With().Str("component", "transaction_form").Logger(),
		ctx:       ctx,
		validator: validation.NewValidator(),
		state: reactive.New(TransactionFormState{
			AllCategories: models.DefaultCategories(),
		}),
	}

	categories := recordStore.WatchCategories(ctx)
	s.mu.Lock()
	s.cancel = categories.Close
	s.mu.Unlock()
	go s.trackCategories(categories)

	return s
}

// Current returns the latest form state.
func (s *TransactionFormService) Current() TransactionFormState {
	return s.state.Get()
}

// Subscribe registers for state change notifications.
func (s *TransactionFormService) Subscribe() *reactive.Subscription[TransactionFormState] {
	return s.state.Subscribe()
}

// UpdateAmount applies raw amount text to the form.
func (s *TransactionFormService) UpdateAmount(input string) {
	s.state.Update(func(st TransactionFormState) TransactionFormState {
		st.AmountCents = normalizeAmountInput(input, st.AmountCents)
		st.AmountError = false
		return st
	})
}

// UpdateCategoryQuery replaces the category search text.
func (s *TransactionFormService) UpdateCategoryQuery(query string) {
	s.state.Update(func(st TransactionFormState) TransactionFormState {
		st.CategoryQuery = query
		st.CategoryError = false
		return st
	})
}

// SelectCategory picks a category from the dropdown.
func (s *TransactionFormService) SelectCategory(category string) {
	s.state.Update(func(st TransactionFormState) TransactionFormState {
		st.CategoryQuery = category
		st.DropdownOpen = false
		st.CategoryError = false
		return st
	})
}

// SetDropdownOpen toggles the category dropdown.
func (s *TransactionFormService) SetDropdownOpen(open bool) {
	s.state.Update(func(st TransactionFormState) TransactionFormState {
		st.DropdownOpen = open
		return st
	})
}

// UpdateLocation replaces the location text.
func (s *TransactionFormService) UpdateLocation(location string) {
	s.state.Update(func(st TransactionFormState) TransactionFormState {
		st.Location = location
		st.LocationError = false
		return st
	})
}

// UpdateDescription replaces the optional description text.
func (s *TransactionFormService) UpdateDescription(description string) {
	s.state.Update(func(st TransactionFormState) TransactionFormState {
		st.Description = description
		return st
	})
}

// SetDate applies a picked date and closes the date picker.
func (s *TransactionFormService) SetDate(date string) {
	s.state.Update(func(st TransactionFormState) TransactionFormState {
		st.Date = date
		st.DateTimeError = false
		st.ShowDatePicker = false
		return st
	})
}

// SetTime applies a picked time and closes the time picker.
func (s *TransactionFormService) SetTime(clock string) {
	s.state.Update(func(st TransactionFormState) TransactionFormState {
		st.Time = clock
		st.DateTimeError = false
		st.ShowTimePicker = false
		return st
	})
}

// SetCurrentDateTime fills the date and time fields with now.
func (s *TransactionFormService) SetCurrentDateTime() {
	now := time.Now()
	s.state.Update(func(st TransactionFormState) TransactionFormState {
		st.Date = now.Format(displayDateFormat)
		st.Time = now.Format(displayTimeFormat)
		st.DateTimeError = false
		return st
	})
}

// SetShowDatePicker toggles the date picker.
func (s *TransactionFormService) SetShowDatePicker(show bool) {
	s.state.Update(func(st TransactionFormState) TransactionFormState {
		st.ShowDatePicker = show
		return st
	})
}

// SetShowTimePicker toggles the time picker.
func (s *TransactionFormService) SetShowTimePicker(show bool) {
	s.state.Update(func(st TransactionFormState) TransactionFormState {
		st.ShowTimePicker = show
		return st
	})
}

// SetShowConfirmation toggles the save confirmation dialog.
func (s *TransactionFormService) SetShowConfirmation(show bool) {
	s.state.Update(func(st TransactionFormState) TransactionFormState {
		st.ShowConfirmation = show
		return st
	})
}

// Validate checks the form and sets the per-field error flags. It reports
// whether the form may be saved.
func (s *TransactionFormService) Validate() bool {
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

	s.state.Update(func(st TransactionFormState) TransactionFormState {
		st.AmountError = amountBad
		st.CategoryError = categoryBad
		st.LocationError = locationBad
		st.DateTimeError = dateBad || timeBad
		return st
	})

	return len(failures) == 0
}

// Save validates the form and persists a new transaction. An invalid form
// only sets the field error flags. On success the form resets, keeping the
// category suggestions.
func (s *TransactionFormService) Save() error {
	if !s.Validate() {
		return nil
	}

	st := s.state.Get()
	occurredAt, err := parseDisplayDateTime(st.Date, st.Time)
	if err != nil {
		s.log.Warn().Err(err).Str("date", st.Date).Str("time", st.Time).Msg("unparseable date, using current time")
		occurredAt = time.Now()
	}

	transaction := &models.Transaction{
		Amount:      centsToAmount(st.AmountCents),
		OccurredAt:  occurredAt,
		Category:    strings.TrimSpace(st.CategoryQuery),
		Location:    strings.TrimSpace(st.Location),
		Description: strings.TrimSpace(st.Description),
	}

	if err := s.store.Insert(s.ctx, transaction); err != nil {
		s.log.Error().Err(err).Msg("saving transaction failed")
		s.state.Update(func(st TransactionFormState) TransactionFormState {
			st.Error = apperrors.Describe(apperrors.TransactionSaveFailed, err)
			return st
		})
		return err
	}

	s.log.Info().Int64("id", transaction.ID).Str("category", transaction.Category).Msg("transaction saved")
	s.state.Update(func(st TransactionFormState) TransactionFormState {
		return TransactionFormState{AllCategories: st.AllCategories}
	})
	return nil
}

// Close stops tracking the category list. The holder must not be used
// afterwards.
func (s *TransactionFormService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// trackCategories keeps the suggestion list aligned with the store. A fetch
// failure keeps the previous suggestions; an empty store falls back to the
// default set.
func (s *TransactionFormService) trackCategories(categories *store.Watch[[]string]) {
	for snap := range categories.Updates() {
		if snap.Err != nil {
			s.log.Warn().Err(snap.Err).Msg("category suggestions not refreshed")
			continue
		}
		next := snap.Value
		if len(next) == 0 {
			next = models.DefaultCategories()
		}
		s.state.Update(func(st TransactionFormState) TransactionFormState {
			st.AllCategories = next
			return st
		})
	}
}

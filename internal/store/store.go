package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aneeqdev/employee-directory/internal/client"
	"github.com/aneeqdev/employee-directory/internal/domain"
	"github.com/aneeqdev/employee-directory/internal/validation"
	"github.com/rs/zerolog"
)

// Listener receives a snapshot after every committed transition.
// Snapshots may be delivered from several goroutines; compare Version to
// drop ones older than what was already seen.
type Listener func(State)

type subscription struct {
	id uint64
	fn Listener
}

// Store owns the canonical State and serializes every transition.
type Store struct {
	api       domain.EmployeeAPI
	validator *validation.Validator
	log       zerolog.Logger

	mu        sync.Mutex
	state     State
	listeners []subscription
	nextID    uint64
}

// Option configures a Store.
type Option func(*Store)

// WithValidator replaces the form validator used before create and update.
func WithValidator(v *validation.Validator) Option {
	return func(s *Store) {
		if v != nil {
			s.validator = v
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// WithPageSize sets the initial page size.
func WithPageSize(limit int) Option {
	return func(s *Store) {
		if limit > 0 {
			s.state.Pagination.Limit = limit
		}
	}
}

// New creates a Store in its initial state.
func New(api domain.EmployeeAPI, opts ...Option) *Store {
	s := &Store{
		api:       api,
		validator: validation.New(),
		log:       zerolog.Nop(),
		state:     InitialState(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn for every later transition. The returned func
// removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Dispatch commits the transition for a and notifies listeners outside the
// lock. It returns the committed snapshot.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	snapshot, listeners := s.commit(a)
	s.mu.Unlock()

	notify(listeners, snapshot)
	return snapshot
}

// commit applies a; s.mu must be held.
func (s *Store) commit(a Action) (State, []subscription) {
	next := Reduce(s.state, a)
	next.Version = s.state.Version + 1
	s.state = next
	return next.clone(), append([]subscription(nil), s.listeners...)
}

func notify(listeners []subscription, snapshot State) {
	for _, sub := range listeners {
		sub.fn(snapshot.clone())
	}
}

// SetSearchTerm replaces the search text and returns to page 1.
func (s *Store) SetSearchTerm(text string) {
	s.Dispatch(SearchTermSet{Text: text})
}

// SetFilters replaces the whole filter triple and returns to page 1.
// Callers merge partial changes before calling.
func (s *Store) SetFilters(f domain.Filters) {
	s.Dispatch(FiltersSet{Filters: f})
}

// ClearFilters empties every filter and returns to page 1.
func (s *Store) ClearFilters() {
	s.Dispatch(FiltersCleared{})
}

// SetCurrentPage moves to page n. The value is not clamped.
func (s *Store) SetCurrentPage(n int) {
	s.Dispatch(PageSet{Page: n})
}

// SetItemsPerPage changes the page size and returns to page 1.
func (s *Store) SetItemsPerPage(n int) {
	s.Dispatch(ItemsPerPageSet{Limit: n})
}

// FetchEmployees loads one page. Failures are recorded in State.Error and
// never returned; a response that is not from the latest fetch is dropped.
func (s *Store) FetchEmployees(ctx context.Context, params domain.ListParams) {
	seq := s.Dispatch(FetchStarted{}).LatestFetch()
	s.CompleteFetch(ctx, seq, params)
}

// BeginFetch issues a fetch for params only while they are still the
// current query, checked and issued atomically. It returns the sequence
// number to pass to CompleteFetch.
func (s *Store) BeginFetch(params domain.ListParams) (uint64, bool) {
	s.mu.Lock()
	if s.state.Query() != params {
		s.mu.Unlock()
		return 0, false
	}
	snapshot, listeners := s.commit(FetchStarted{})
	s.mu.Unlock()

	notify(listeners, snapshot)
	return snapshot.LatestFetch(), true
}

// CompleteFetch performs fetch seq and records its outcome.
func (s *Store) CompleteFetch(ctx context.Context, seq uint64, params domain.ListParams) {
	page, err := s.api.List(ctx, params)
	if err != nil {
		s.log.Error().Err(err).Uint64("seq", seq).Msg("Failed to fetch employees")
		s.Dispatch(FetchFailed{Seq: seq, Message: fetchErrorMessage(err)})
		return
	}

	if latest := s.Dispatch(FetchSucceeded{Seq: seq, Page: *page}).LatestFetch(); latest != seq {
		s.log.Debug().Uint64("seq", seq).Uint64("latest", latest).Msg("Discarded stale employee page")
	}
}

// fetchErrorMessage prefers the backend's own message over the wrapped
// error text.
func fetchErrorMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

// CreateEmployee validates input and posts it. On success the new record is
// prepended to the loaded page; counts are left to the next fetch.
// Invalid input returns validation.Errors and never reaches the network.
func (s *Store) CreateEmployee(ctx context.Context, input domain.EmployeeInput) (*domain.Employee, error) {
	clean, err := s.validator.Check(input)
	if err != nil {
		return nil, err
	}

	s.Dispatch(CreateStarted{})
	e, err := s.api.Create(ctx, clean)
	if err != nil {
		s.Dispatch(CreateFailed{})
		return nil, fmt.Errorf("create employee: %w", err)
	}
	s.Dispatch(CreateSucceeded{Employee: *e})
	s.log.Info().Str("id", e.ID).Msg("Employee created")
	return e, nil
}

// UpdateEmployee validates input and replaces the record with the given id.
// The loaded page is only touched if it contains that id.
func (s *Store) UpdateEmployee(ctx context.Context, id string, input domain.EmployeeInput) (*domain.Employee, error) {
	clean, err := s.validator.Check(input)
	if err != nil {
		return nil, err
	}

	s.Dispatch(UpdateStarted{})
	e, err := s.api.Update(ctx, id, clean)
	if err != nil {
		s.Dispatch(UpdateFailed{})
		return nil, fmt.Errorf("update employee %s: %w", id, err)
	}
	s.Dispatch(UpdateSucceeded{Employee: *e})
	s.log.Info().Str("id", e.ID).Msg("Employee updated")
	return e, nil
}

// DeleteEmployee removes the record with the given id.
func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	s.Dispatch(DeleteStarted{})
	if err := s.api.Remove(ctx, id); err != nil {
		s.Dispatch(DeleteFailed{})
		return fmt.Errorf("delete employee %s: %w", id, err)
	}
	s.Dispatch(DeleteSucceeded{ID: id})
	s.log.Info().Str("id", id).Msg("Employee deleted")
	return nil
}

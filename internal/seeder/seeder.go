// Package seeder fills a directory backend with generated sample employees.
package seeder

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/aneeqdev/employee-directory/internal/domain"
	"github.com/aneeqdev/employee-directory/internal/validation"
	"github.com/aneeqdev/employee-directory/pkg/dataflow"
	"github.com/rs/zerolog"
)

// EmailDomain marks generated records so Clear can find them again.
const EmailDomain = "seed.example.com"

// Preset is a named sample size.
type Preset string

const (
	PresetSmall  Preset = "small"
	PresetMedium Preset = "medium"
	PresetLarge  Preset = "large"
)

// Count returns the number of employees a preset creates.
func (p Preset) Count() (int, error) {
	switch p {
	case PresetSmall:
		return 10, nil
	case PresetMedium:
		return 50, nil
	case PresetLarge:
		return 200, nil
	}
	return 0, fmt.Errorf("unknown preset %q", p)
}

var (
	firstNames = []string{"Olivia", "Liam", "Emma", "Noah", "Ava", "Elijah", "Sophia", "James", "Mia", "Lucas", "Amelia", "Mateo"}
	lastNames  = []string{"Smith", "Johnson", "Nguyen", "Garcia", "Kim", "Mueller", "Rossi", "Tanaka", "Dubois", "Okafor", "Silva", "Cohen"}
	titles     = map[string][]string{
		"Engineering": {"Software Engineer", "Senior Engineer", "Staff Engineer"},
		"Marketing":   {"Marketing Manager", "Content Strategist"},
		"Sales":       {"Account Executive", "Sales Manager"},
		"HR":          {"HR Generalist", "Recruiter"},
		"Finance":     {"Financial Analyst", "Controller"},
		"Operations":  {"Operations Manager", "Logistics Coordinator"},
		"Design":      {"Product Designer", "UX Researcher"},
		"Product":     {"Product Manager", "Product Owner"},
	}
)

// Result summarizes a seed or clear run.
type Result struct {
	Succeeded int
	Failed    int
	IDs       []string
}

// Seeder creates and removes sample employees through the remote API.
type Seeder struct {
	api       domain.EmployeeAPI
	validator *validation.Validator
	log       zerolog.Logger
	workers   int
	retries   int
	backoff   func(int) time.Duration
	now       func() time.Time
}

// Option configures a Seeder.
type Option func(*Seeder)

// WithWorkers bounds the number of concurrent requests.
func WithWorkers(n int) Option {
	return func(s *Seeder) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithRetry sets how often a failed request is retried and the wait before
// each retry.
func WithRetry(retries int, backoff func(int) time.Duration) Option {
	return func(s *Seeder) {
		s.retries = retries
		s.backoff = backoff
	}
}

// WithLogger sets the seeder logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Seeder) {
		s.log = l
	}
}

// WithClock fixes the reference time for generated hire dates.
func WithClock(now func() time.Time) Option {
	return func(s *Seeder) {
		s.now = now
	}
}

// New creates a Seeder for api.
func New(api domain.EmployeeAPI, opts ...Option) *Seeder {
	s := &Seeder{
		api:     api,
		log:     zerolog.Nop(),
		workers: 4,
		retries: 2,
		backoff: dataflow.ExponentialBackoff(200*time.Millisecond, 2*time.Second),
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	s.validator = validation.New(validation.WithClock(s.now))
	return s
}

// Generate builds n valid employee inputs. The same seed yields the same
// inputs for the same clock.
func (s *Seeder) Generate(n int, seed int64) []domain.EmployeeInput {
	r := rand.New(rand.NewSource(seed))
	today := s.now().UTC()

	out := make([]domain.EmployeeInput, 0, n)
	for i := 0; i < n; i++ {
		first := firstNames[r.Intn(len(firstNames))]
		last := lastNames[r.Intn(len(lastNames))]
		dept := domain.Departments[r.Intn(len(domain.Departments))]
		deptTitles := titles[dept]

		out = append(out, domain.EmployeeInput{
			FirstName:  first,
			LastName:   last,
			Email:      fmt.Sprintf("%s.%s.%d@%s", strings.ToLower(first), strings.ToLower(last), i+1, EmailDomain),
			Phone:      fmt.Sprintf("+1415555%04d", r.Intn(10000)),
			Title:      deptTitles[r.Intn(len(deptTitles))],
			Department: dept,
			Location:   domain.Locations[r.Intn(len(domain.Locations))],
			HireDate:   today.AddDate(0, 0, -r.Intn(10*365)).Format(domain.DateLayout),
			Salary:     float64(40+r.Intn(161)) * 1000,
		})
	}
	return out
}

// Seed validates and creates every input. Failed items are counted, not
// returned; the error is only set when ctx ends the run.
func (s *Seeder) Seed(ctx context.Context, inputs []domain.EmployeeInput) (Result, error) {
	var (
		mu  sync.Mutex
		res Result
	)
	fail := func(err error) bool {
		s.log.Warn().Err(err).Msg("Failed to seed employee")
		mu.Lock()
		res.Failed++
		mu.Unlock()
		return true
	}

	valid := dataflow.Map(ctx, dataflow.From(ctx, inputs...), func(_ context.Context, in domain.EmployeeInput) (domain.EmployeeInput, error) {
		return s.validator.Check(in)
	}, dataflow.WithErrorHandler(fail))

	err := dataflow.ForEach(ctx, valid, func(ctx context.Context, in domain.EmployeeInput) error {
		e, err := s.api.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("create %s: %w", in.Email, err)
		}
		mu.Lock()
		res.Succeeded++
		res.IDs = append(res.IDs, e.ID)
		mu.Unlock()
		return nil
	}, dataflow.WithWorkers(s.workers), dataflow.WithRetry(s.retries, s.backoff), dataflow.WithErrorHandler(fail))

	s.log.Info().Int("created", res.Succeeded).Int("failed", res.Failed).Msg("Seeding finished")
	return res, err
}

// Clear removes every employee whose email belongs to EmailDomain.
func (s *Seeder) Clear(ctx context.Context) (Result, error) {
	ids, err := s.seededIDs(ctx)
	if err != nil {
		return Result{}, err
	}

	var (
		mu  sync.Mutex
		res Result
	)
	err = dataflow.ForEach(ctx, dataflow.From(ctx, ids...), func(ctx context.Context, id string) error {
		if err := s.api.Remove(ctx, id); err != nil {
			return fmt.Errorf("remove %s: %w", id, err)
		}
		mu.Lock()
		res.Succeeded++
		res.IDs = append(res.IDs, id)
		mu.Unlock()
		return nil
	}, dataflow.WithWorkers(s.workers), dataflow.WithRetry(s.retries, s.backoff), dataflow.WithErrorHandler(func(err error) bool {
		s.log.Warn().Err(err).Msg("Failed to clear employee")
		mu.Lock()
		res.Failed++
		mu.Unlock()
		return true
	}))

	s.log.Info().Int("removed", res.Succeeded).Int("failed", res.Failed).Msg("Clearing finished")
	return res, err
}

// seededIDs lists page 1 to learn the page count, then the remaining pages
// concurrently.
func (s *Seeder) seededIDs(ctx context.Context) ([]string, error) {
	first, pages, err := s.seededPage(ctx, 1)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		listErr error
	)
	rest := dataflow.Map(ctx,
		dataflow.Generate(ctx, pages-1, func(i int) int { return i + 2 }),
		func(ctx context.Context, page int) ([]string, error) {
			ids, _, err := s.seededPage(ctx, page)
			return ids, err
		},
		dataflow.WithWorkers(s.workers),
		dataflow.WithRetry(s.retries, s.backoff),
		dataflow.WithErrorHandler(func(err error) bool {
			mu.Lock()
			if listErr == nil {
				listErr = err
			}
			mu.Unlock()
			return true
		}),
	)

	batches, err := dataflow.Collect(ctx, dataflow.Merge(ctx, dataflow.From(ctx, first), rest))
	if err != nil {
		return nil, err
	}
	if listErr != nil {
		return nil, listErr
	}

	var ids []string
	for _, b := range batches {
		ids = append(ids, b...)
	}
	return ids, nil
}

// seededPage returns the seeded ids on one page and the total page count.
func (s *Seeder) seededPage(ctx context.Context, page int) ([]string, int, error) {
	const pageSize = 36
	suffix := "@" + EmailDomain

	p, err := s.api.List(ctx, domain.ListParams{Page: page, Limit: pageSize, Search: suffix})
	if err != nil {
		return nil, 0, fmt.Errorf("list page %d: %w", page, err)
	}
	var ids []string
	for _, e := range p.Data {
		if strings.HasSuffix(strings.ToLower(e.Email), suffix) {
			ids = append(ids, e.ID)
		}
	}
	return ids, max(p.TotalPages, 1), nil
}

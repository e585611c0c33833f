package seeder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aneeqdev/employee-directory/internal/domain"
	"github.com/aneeqdev/employee-directory/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)
}

type memoryAPI struct {
	mu         sync.Mutex
	records    []domain.Employee
	nextID     int
	failCreate int32
	removed    []string
}

func (m *memoryAPI) List(_ context.Context, p domain.ListParams) (*domain.EmployeePage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []domain.Employee
	for _, e := range m.records {
		if p.Search == "" || strings.Contains(e.Email, p.Search) {
			matched = append(matched, e)
		}
	}
	start := min((p.Page-1)*p.Limit, len(matched))
	end := min(start+p.Limit, len(matched))
	return &domain.EmployeePage{
		Data:        matched[start:end],
		CurrentPage: p.Page,
		TotalPages:  max(1, (len(matched)+p.Limit-1)/p.Limit),
		TotalItems:  len(matched),
		Limit:       p.Limit,
	}, nil
}

func (m *memoryAPI) Get(context.Context, string) (*domain.Employee, error) {
	return nil, errors.New("unused")
}

func (m *memoryAPI) Create(_ context.Context, in domain.EmployeeInput) (*domain.Employee, error) {
	if atomic.AddInt32(&m.failCreate, -1) >= 0 {
		return nil, errors.New("temporarily unavailable")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	e := domain.Employee{ID: fmt.Sprintf("id-%d", m.nextID), FirstName: in.FirstName, Email: in.Email}
	m.records = append(m.records, e)
	return &e, nil
}

func (m *memoryAPI) Update(context.Context, string, domain.EmployeeInput) (*domain.Employee, error) {
	return nil, errors.New("unused")
}

func (m *memoryAPI) Remove(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.records {
		if e.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			m.removed = append(m.removed, id)
			return nil
		}
	}
	return errors.New("Employee not found")
}

func noWait(int) time.Duration { return 0 }

func TestGenerateIsDeterministicAndValid(t *testing.T) {
	s := New(&memoryAPI{}, WithClock(fixedNow))

	a := s.Generate(25, 42)
	b := s.Generate(25, 42)
	require.Len(t, a, 25)
	assert.Equal(t, a, b)

	v := validation.New(validation.WithClock(fixedNow))
	for _, in := range a {
		_, err := v.Check(in)
		assert.NoError(t, err, "%+v", in)
		assert.True(t, strings.HasSuffix(in.Email, "@"+EmailDomain))
	}
}

func TestSeedCreatesAllWithRetry(t *testing.T) {
	api := &memoryAPI{failCreate: 2}
	s := New(api, WithClock(fixedNow), WithWorkers(3), WithRetry(3, noWait))

	res, err := s.Seed(context.Background(), s.Generate(10, 1))
	require.NoError(t, err)
	assert.Equal(t, 10, res.Succeeded)
	assert.Zero(t, res.Failed)
	assert.Len(t, res.IDs, 10)
	assert.Len(t, api.records, 10)
}

func TestSeedCountsFailures(t *testing.T) {
	api := &memoryAPI{}
	s := New(api, WithClock(fixedNow), WithRetry(0, nil))

	inputs := s.Generate(3, 7)
	inputs[1].Email = "broken"

	res, err := s.Seed(context.Background(), inputs)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
}

func TestClearRemovesOnlySeeded(t *testing.T) {
	api := &memoryAPI{}
	api.records = append(api.records, domain.Employee{ID: "real", Email: "boss@company.com"})
	s := New(api, WithClock(fixedNow), WithRetry(0, nil))

	_, err := s.Seed(context.Background(), s.Generate(40, 3))
	require.NoError(t, err)
	require.Len(t, api.records, 41)

	res, err := s.Clear(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 40, res.Succeeded)
	require.Len(t, api.records, 1)
	assert.Equal(t, "real", api.records[0].ID)
}

func TestPresetCount(t *testing.T) {
	n, err := PresetMedium.Count()
	require.NoError(t, err)
	assert.Equal(t, 50, n)

	_, err = Preset("huge").Count()
	assert.Error(t, err)
}

package store

import "github.com/aneeqdev/employee-directory/internal/domain"

// Status is the lifecycle of one async operation.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusFulfilled Status = "fulfilled"
	StatusRejected  Status = "rejected"
)

// Ops tracks each async operation separately, so a create in flight never
// touches the list loading flag.
type Ops struct {
	Fetch  Status
	Create Status
	Update Status
	Delete Status
}

// State is the single canonical client state.
type State struct {
	// Employees is the currently loaded page window, not a cache of all pages.
	Employees []domain.Employee
	// Loading is true exactly while the latest issued fetch is in flight.
	Loading bool
	// Error is the last fetch failure message, empty when none.
	Error      string
	Filters    domain.Filters
	Pagination domain.Pagination
	Ops        Ops
	// Version increases with every committed transition.
	Version uint64

	fetchSeq uint64
}

// InitialState is the state before any intent or fetch.
func InitialState() State {
	return State{
		Employees:  []domain.Employee{},
		Pagination: domain.InitialPagination(),
		Ops: Ops{
			Fetch:  StatusIdle,
			Create: StatusIdle,
			Update: StatusIdle,
			Delete: StatusIdle,
		},
	}
}

// Query derives the query key of this state.
func (s State) Query() domain.ListParams {
	return domain.NewListParams(s.Pagination, s.Filters)
}

// LatestFetch is the sequence number of the most recently issued fetch.
func (s State) LatestFetch() uint64 {
	return s.fetchSeq
}

func (s State) clone() State {
	out := s
	out.Employees = append([]domain.Employee(nil), s.Employees...)
	if out.Employees == nil {
		out.Employees = []domain.Employee{}
	}
	return out
}

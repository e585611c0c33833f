package store

import "github.com/aneeqdev/employee-directory/internal/domain"

const defaultFetchError = "Failed to fetch employees"

// Action is one state transition request.
type Action interface {
	action()
}

type (
	// SearchTermSet replaces the free-text search and returns to page 1.
	SearchTermSet struct{ Text string }
	// FiltersSet replaces the whole filter triple and returns to page 1.
	// Callers merge partial changes before dispatching.
	FiltersSet struct{ Filters domain.Filters }
	// FiltersCleared empties every filter and returns to page 1.
	FiltersCleared struct{}
	// PageSet moves to a page without clamping.
	PageSet struct{ Page int }
	// ItemsPerPageSet changes the page size and returns to page 1.
	ItemsPerPageSet struct{ Limit int }

	// FetchStarted issues a new fetch sequence number.
	FetchStarted struct{}
	// FetchSucceeded carries the response of fetch Seq.
	FetchSucceeded struct {
		Seq  uint64
		Page domain.EmployeePage
	}
	// FetchFailed carries the failure of fetch Seq.
	FetchFailed struct {
		Seq     uint64
		Message string
	}

	CreateStarted   struct{}
	CreateSucceeded struct{ Employee domain.Employee }
	CreateFailed    struct{}

	UpdateStarted   struct{}
	UpdateSucceeded struct{ Employee domain.Employee }
	UpdateFailed    struct{}

	DeleteStarted   struct{}
	DeleteSucceeded struct{ ID string }
	DeleteFailed    struct{}
)

func (SearchTermSet) action()   {}
func (FiltersSet) action()      {}
func (FiltersCleared) action()  {}
func (PageSet) action()         {}
func (ItemsPerPageSet) action() {}
func (FetchStarted) action()    {}
func (FetchSucceeded) action()  {}
func (FetchFailed) action()     {}
func (CreateStarted) action()   {}
func (CreateSucceeded) action() {}
func (CreateFailed) action()    {}
func (UpdateStarted) action()   {}
func (UpdateSucceeded) action() {}
func (UpdateFailed) action()    {}
func (DeleteStarted) action()   {}
func (DeleteSucceeded) action() {}
func (DeleteFailed) action()    {}

// Reduce returns the state that follows s after a. It never mutates s:
// list changes always build a new slice.
//
// An intent that changes the query key also retires every fetch issued so
// far: a response for the previous key must not land once the user asked
// for another one.
func Reduce(s State, a Action) State {
	if next, ok := reduceIntent(s, a); ok {
		if next.Query() != s.Query() {
			next.fetchSeq++
		}
		return next
	}

	switch a := a.(type) {
	case FetchStarted:
		s.fetchSeq++
		s.Loading = true
		s.Error = ""
		s.Ops.Fetch = StatusPending
	case FetchSucceeded:
		// Only the latest issued fetch may land; older ones are stale.
		if a.Seq != s.fetchSeq {
			return s
		}
		s.Employees = append([]domain.Employee{}, a.Page.Data...)
		s.Pagination = a.Page.Pagination()
		s.Loading = false
		s.Error = ""
		s.Ops.Fetch = StatusFulfilled
	case FetchFailed:
		if a.Seq != s.fetchSeq {
			return s
		}
		s.Loading = false
		s.Error = a.Message
		if s.Error == "" {
			s.Error = defaultFetchError
		}
		s.Ops.Fetch = StatusRejected

	case CreateStarted:
		s.Ops.Create = StatusPending
	case CreateSucceeded:
		employees := make([]domain.Employee, 0, len(s.Employees)+1)
		employees = append(employees, a.Employee)
		s.Employees = append(employees, s.Employees...)
		s.Ops.Create = StatusFulfilled
	case CreateFailed:
		s.Ops.Create = StatusRejected

	case UpdateStarted:
		s.Ops.Update = StatusPending
	case UpdateSucceeded:
		for i, e := range s.Employees {
			if e.ID == a.Employee.ID {
				employees := append([]domain.Employee{}, s.Employees...)
				employees[i] = a.Employee
				s.Employees = employees
				break
			}
		}
		s.Ops.Update = StatusFulfilled
	case UpdateFailed:
		s.Ops.Update = StatusRejected

	case DeleteStarted:
		s.Ops.Delete = StatusPending
	case DeleteSucceeded:
		employees := make([]domain.Employee, 0, len(s.Employees))
		for _, e := range s.Employees {
			if e.ID != a.ID {
				employees = append(employees, e)
			}
		}
		s.Employees = employees
		s.Ops.Delete = StatusFulfilled
	case DeleteFailed:
		s.Ops.Delete = StatusRejected
	}
	return s
}

func reduceIntent(s State, a Action) (State, bool) {
	switch a := a.(type) {
	case SearchTermSet:
		s.Filters.Search = a.Text
		s.Pagination.CurrentPage = 1
	case FiltersSet:
		s.Filters = a.Filters
		s.Pagination.CurrentPage = 1
	case FiltersCleared:
		s.Filters = domain.Filters{}
		s.Pagination.CurrentPage = 1
	case PageSet:
		s.Pagination.CurrentPage = a.Page
	case ItemsPerPageSet:
		s.Pagination.Limit = a.Limit
		s.Pagination.CurrentPage = 1
	default:
		return s, false
	}
	return s, true
}

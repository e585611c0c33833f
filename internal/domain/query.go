package domain

// Filters constrains which records a list request returns.
// An empty field means unconstrained, never "match empty".
type Filters struct {
	Search     string `json:"search"`
	Department string `json:"department"`
	Location   string `json:"location"`
}

// Active reports whether any filter constrains the list.
func (f Filters) Active() bool {
	return f != Filters{}
}

// Pagination describes the loaded window.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalItems  int `json:"totalItems"`
	Limit       int `json:"limit"`
}

// InitialPagination is the window before any fetch resolved.
func InitialPagination() Pagination {
	return Pagination{CurrentPage: 1, TotalPages: 1, TotalItems: 0, Limit: DefaultPageSize}
}

// ListParams is the query key: every value a list request depends on.
// It is comparable, so two keys are equal when all fields are equal.
type ListParams struct {
	Page       int
	Limit      int
	Search     string
	Department string
	Location   string
}

// NewListParams derives the query key from pagination and filters.
func NewListParams(p Pagination, f Filters) ListParams {
	return ListParams{
		Page:       p.CurrentPage,
		Limit:      p.Limit,
		Search:     f.Search,
		Department: f.Department,
		Location:   f.Location,
	}
}

// Filters returns the filter part of the key.
func (p ListParams) Filters() Filters {
	return Filters{Search: p.Search, Department: p.Department, Location: p.Location}
}

// EmployeePage is the paginated envelope returned by GET /employees.
type EmployeePage struct {
	Data        []Employee `json:"data"`
	CurrentPage int        `json:"currentPage"`
	TotalPages  int        `json:"totalPages"`
	TotalItems  int        `json:"totalItems"`
	Limit       int        `json:"limit"`
}

// Pagination extracts the metadata block of the envelope.
func (p EmployeePage) Pagination() Pagination {
	return Pagination{
		CurrentPage: p.CurrentPage,
		TotalPages:  p.TotalPages,
		TotalItems:  p.TotalItems,
		Limit:       p.Limit,
	}
}

package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of calendar dates (hire date).
const DateLayout = "2006-01-02"

// Known departments and locations offered by the filter and form controls.
// Filters stay open strings; these are suggestions, not an enum.
var (
	Departments = []string{"Engineering", "Marketing", "Sales", "HR", "Finance", "Operations", "Design", "Product"}
	Locations   = []string{"New York", "San Francisco", "London", "Toronto", "Berlin", "Tokyo", "Sydney", "Remote"}
)

// PageSizeOptions are the selectable page sizes, multiples of the 3-column grid.
var PageSizeOptions = []int{9, 18, 27, 36}

// DefaultPageSize is the limit used before the first response arrives.
const DefaultPageSize = 9

// Employee represents one directory record as returned by the backend.
// ID is assigned by the backend and never generated client side.
type Employee struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Title      string    `json:"title"`
	Department string    `json:"department"`
	Location   string    `json:"location"`
	HireDate   Date      `json:"hireDate"`
	Salary     float64   `json:"salary"`
	Avatar     string    `json:"avatar,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// FullName joins first and last name.
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// EmployeeInput is the body of both create and update requests.
// Update is a full replace, so both share one shape.
type EmployeeInput struct {
	FirstName  string  `json:"firstName" validate:"required,min=2"`
	LastName   string  `json:"lastName" validate:"required,min=2"`
	Email      string  `json:"email" validate:"required,email"`
	Phone      string  `json:"phone" validate:"required,phone"`
	Title      string  `json:"title" validate:"required"`
	Department string  `json:"department" validate:"required"`
	Location   string  `json:"location" validate:"required"`
	HireDate   string  `json:"hireDate" validate:"required,isodate,notfuture"`
	Salary     float64 `json:"salary" validate:"required,gt=0"`
}

// InputFromEmployee pre-fills an edit form from an existing record.
func InputFromEmployee(e Employee) EmployeeInput {
	return EmployeeInput{
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Email:      e.Email,
		Phone:      e.Phone,
		Title:      e.Title,
		Department: e.Department,
		Location:   e.Location,
		HireDate:   e.HireDate.String(),
		Salary:     e.Salary,
	}
}

// Date is a calendar date without time of day.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts YYYY-MM-DD or a full RFC 3339 timestamp and keeps the day.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q", s)
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Package presenter renders store snapshots as plain text for terminals.
package presenter

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/aneeqdev/employee-directory/internal/domain"
	"github.com/aneeqdev/employee-directory/internal/store"
	"github.com/aneeqdev/employee-directory/internal/validation"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	msgLoading = "Loading employees..."
	msgEmpty   = "No employees found"
)

var amounts = message.NewPrinter(language.English)

var tableHeader = []string{"NAME", "TITLE", "DEPARTMENT", "LOCATION", "EMAIL", "PHONE", "JOINED", "SALARY"}

// Render writes the status line, the employee table and the pagination bar.
// A failed fetch still shows the previously loaded employees below the error.
func Render(w io.Writer, st store.State) error {
	if err := RenderStatus(w, st); err != nil {
		return err
	}
	if len(st.Employees) > 0 {
		if err := RenderTable(w, st.Employees); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, PaginationBar(st.Pagination, len(st.Employees)))
	return err
}

// RenderStatus writes the loading, error or empty state line, if any.
func RenderStatus(w io.Writer, st store.State) error {
	var line string
	switch {
	case st.Loading:
		line = msgLoading
	case st.Error != "":
		line = "Error: " + st.Error
	case len(st.Employees) == 0:
		line = msgEmpty
		if st.Filters.Active() {
			line += " matching " + describeFilters(st.Filters)
		}
	default:
		return nil
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

// RenderTable writes one aligned row per employee.
func RenderTable(w io.Writer, employees []domain.Employee) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tableHeader, "\t"))
	for _, e := range employees {
		fmt.Fprintln(tw, strings.Join([]string{
			e.FullName(),
			e.Title,
			e.Department,
			e.Location,
			e.Email,
			e.Phone,
			FormatDate(e.HireDate),
			FormatSalary(e.Salary),
		}, "\t"))
	}
	return tw.Flush()
}

// RenderEmployee writes a single record as labelled lines.
func RenderEmployee(w io.Writer, e domain.Employee) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fields := [][2]string{
		{"ID", e.ID},
		{"Name", e.FullName()},
		{"Title", e.Title},
		{"Department", e.Department},
		{"Location", e.Location},
		{"Email", e.Email},
		{"Phone", e.Phone},
		{"Joined", FormatDate(e.HireDate)},
		{"Salary", FormatSalary(e.Salary)},
	}
	for _, f := range fields {
		fmt.Fprintf(tw, "%s:\t%s\n", f[0], f[1])
	}
	return tw.Flush()
}

// RenderValidation writes one line per invalid field, sorted by field name.
func RenderValidation(w io.Writer, errs validation.Errors) error {
	_, err := fmt.Fprintln(w, strings.ReplaceAll(strings.TrimPrefix(errs.Error(), "invalid employee: "), "; ", "\n"))
	return err
}

// PaginationBar summarizes the window and lists the page controls, e.g.
// "Showing 9 of 41 employees  < 1 ... 4 [5] 6 >".
func PaginationBar(p domain.Pagination, shown int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Showing %d of %d employees", shown, p.TotalItems)

	links := domain.VisiblePages(p.CurrentPage, p.TotalPages)
	if len(links) == 0 {
		return b.String()
	}

	b.WriteString("  ")
	if p.HasPrev() {
		b.WriteString("< ")
	}
	for i, l := range links {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch {
		case l.Ellipsis:
			b.WriteString("...")
		case l.Number == p.CurrentPage:
			b.WriteString("[" + strconv.Itoa(l.Number) + "]")
		default:
			b.WriteString(strconv.Itoa(l.Number))
		}
	}
	if p.HasNext() {
		b.WriteString(" >")
	}
	return b.String()
}

// FormatDate renders a hire date like "Mar 4, 2021".
func FormatDate(d domain.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.Format("Jan 2, 2006")
}

// FormatSalary renders a whole-dollar amount with thousands separators.
func FormatSalary(v float64) string {
	if v < 0 {
		return "-" + FormatSalary(-v)
	}
	return amounts.Sprintf("$%d", int64(v+0.5))
}

func describeFilters(f domain.Filters) string {
	var parts []string
	if f.Search != "" {
		parts = append(parts, strconv.Quote(f.Search))
	}
	if f.Department != "" {
		parts = append(parts, "department="+f.Department)
	}
	if f.Location != "" {
		parts = append(parts, "location="+f.Location)
	}
	return strings.Join(parts, ", ")
}

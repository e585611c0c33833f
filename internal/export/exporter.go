// Package export writes employee pages to Excel workbooks.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/aneeqdev/employee-directory/internal/domain"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"
)

// Exportable fields.
const (
	FieldID         = "id"
	FieldName       = "name"
	FieldFirstName  = "firstName"
	FieldLastName   = "lastName"
	FieldEmail      = "email"
	FieldPhone      = "phone"
	FieldTitle      = "title"
	FieldDepartment = "department"
	FieldLocation   = "location"
	FieldHireDate   = "hireDate"
	FieldSalary     = "salary"
)

const salaryFormat = `"$"#,##0`

var fieldValues = map[string]func(domain.Employee) interface{}{
	FieldID:         func(e domain.Employee) interface{} { return e.ID },
	FieldName:       func(e domain.Employee) interface{} { return e.FullName() },
	FieldFirstName:  func(e domain.Employee) interface{} { return e.FirstName },
	FieldLastName:   func(e domain.Employee) interface{} { return e.LastName },
	FieldEmail:      func(e domain.Employee) interface{} { return e.Email },
	FieldPhone:      func(e domain.Employee) interface{} { return e.Phone },
	FieldTitle:      func(e domain.Employee) interface{} { return e.Title },
	FieldDepartment: func(e domain.Employee) interface{} { return e.Department },
	FieldLocation:   func(e domain.Employee) interface{} { return e.Location },
	FieldHireDate:   func(e domain.Employee) interface{} { return e.HireDate.String() },
	FieldSalary:     func(e domain.Employee) interface{} { return e.Salary },
}

// Exporter renders employees using a Layout.
type Exporter struct {
	fs     afero.Fs
	layout Layout
	log    zerolog.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLayout replaces the default layout.
func WithLayout(l Layout) Option {
	return func(e *Exporter) {
		e.layout = l
	}
}

// WithLogger sets the exporter logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Exporter) {
		e.log = l
	}
}

// NewExporter creates an Exporter saving files to fsys.
func NewExporter(fsys afero.Fs, opts ...Option) *Exporter {
	e := &Exporter{
		fs:     fsys,
		layout: DefaultLayout(),
		log:    zerolog.Nop(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Build creates the workbook in memory: a styled header row with an
// autofilter followed by one row per employee.
func (e *Exporter) Build(employees []domain.Employee) (*excelize.File, error) {
	if err := e.layout.Validate(); err != nil {
		return nil, err
	}
	cols := e.layout.Columns
	sheet := e.layout.Sheet

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	headerStyle, err := createStyle(f, e.layout.HeaderStyle)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}
	numFmt := salaryFormat
	salaryStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create salary style: %w", err)
	}

	header := make([]interface{}, len(cols))
	for i, c := range cols {
		header[i] = c.Header
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(cols))
	if len(cols) > 0 {
		f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle)
	}

	for r, emp := range employees {
		row := make([]interface{}, len(cols))
		for i, c := range cols {
			row[i] = fieldValues[c.Field](emp)
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", r+1, err)
		}
	}

	for i, c := range cols {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if c.Width > 0 {
			f.SetColWidth(sheet, name, name, c.Width)
		}
		if c.Field == FieldSalary && len(employees) > 0 {
			f.SetCellStyle(sheet, name+"2", fmt.Sprintf("%s%d", name, len(employees)+1), salaryStyle)
		}
	}

	if len(cols) > 0 {
		filterRange := fmt.Sprintf("A1:%s%d", lastCol, len(employees)+1)
		if err := f.AutoFilter(sheet, filterRange, nil); err != nil {
			f.Close()
			return nil, fmt.Errorf("set autofilter: %w", err)
		}
	}
	return f, nil
}

// WriteTo writes the workbook for employees to w.
func (e *Exporter) WriteTo(w io.Writer, employees []domain.Employee) error {
	f, err := e.Build(employees)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// Save writes the workbook to path on the exporter filesystem.
func (e *Exporter) Save(path string, employees []domain.Employee) error {
	out, err := e.fs.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := e.WriteTo(out, employees); err != nil {
		out.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	e.log.Info().Str("path", path).Int("rows", len(employees)).Msg("Exported employees")
	return nil
}

func createStyle(f *excelize.File, tmpl *StyleTemplate) (int, error) {
	style := &excelize.Style{}
	if tmpl == nil {
		return f.NewStyle(style)
	}
	if tmpl.Font != nil {
		style.Font = &excelize.Font{
			Bold:  tmpl.Font.Bold,
			Color: strings.TrimPrefix(tmpl.Font.Color, "#"),
		}
	}
	if tmpl.Fill != nil {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Color:   []string{strings.TrimPrefix(tmpl.Fill.Color, "#")},
			Pattern: 1,
		}
	}
	return f.NewStyle(style)
}

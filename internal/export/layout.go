package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Layout describes the exported sheet.
type Layout struct {
	Sheet       string         `yaml:"sheet"`
	HeaderStyle *StyleTemplate `yaml:"header_style"`
	Columns     []Column       `yaml:"columns"`
}

// Column maps an employee field to a sheet column.
type Column struct {
	Field  string  `yaml:"field"`
	Header string  `yaml:"header"`
	Width  float64 `yaml:"width"`
}

// StyleTemplate defines basic header styling.
type StyleTemplate struct {
	Font *FontTemplate `yaml:"font"`
	Fill *FillTemplate `yaml:"fill"`
}

type FontTemplate struct {
	Bold  bool   `yaml:"bold"`
	Color string `yaml:"color"` // hex, with or without '#'
}

type FillTemplate struct {
	Color string `yaml:"color"`
}

// DefaultLayout is used when no layout file is configured.
func DefaultLayout() Layout {
	return Layout{
		Sheet: "Employees",
		HeaderStyle: &StyleTemplate{
			Font: &FontTemplate{Bold: true, Color: "#FFFFFF"},
			Fill: &FillTemplate{Color: "#2563EB"},
		},
		Columns: []Column{
			{Field: FieldName, Header: "Name", Width: 24},
			{Field: FieldTitle, Header: "Title", Width: 24},
			{Field: FieldDepartment, Header: "Department", Width: 16},
			{Field: FieldLocation, Header: "Location", Width: 16},
			{Field: FieldEmail, Header: "Email", Width: 30},
			{Field: FieldPhone, Header: "Phone", Width: 18},
			{Field: FieldHireDate, Header: "Hire Date", Width: 12},
			{Field: FieldSalary, Header: "Salary", Width: 14},
		},
	}
}

// LoadLayout reads a YAML layout from fsys. Omitted parts fall back to the
// default layout.
func LoadLayout(fsys afero.Fs, path string) (Layout, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return Layout{}, fmt.Errorf("read layout %s: %w", path, err)
	}
	return ParseLayout(bytes.NewReader(data))
}

// ParseLayout decodes a YAML layout. Unknown keys are rejected.
func ParseLayout(r io.Reader) (Layout, error) {
	var l Layout
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&l); err != nil && !errors.Is(err, io.EOF) {
		return Layout{}, fmt.Errorf("decode layout: %w", err)
	}

	def := DefaultLayout()
	if l.Sheet == "" {
		l.Sheet = def.Sheet
	}
	if l.HeaderStyle == nil {
		l.HeaderStyle = def.HeaderStyle
	}
	if len(l.Columns) == 0 {
		l.Columns = def.Columns
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Validate checks every column refers to a known field.
func (l Layout) Validate() error {
	for i, c := range l.Columns {
		if _, ok := fieldValues[c.Field]; !ok {
			return fmt.Errorf("column %d: unknown field %q", i+1, c.Field)
		}
	}
	return nil
}

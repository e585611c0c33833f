package export

import (
	"strings"
	"testing"
	"time"

	"github.com/aneeqdev/employee-directory/internal/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func employees() []domain.Employee {
	return []domain.Employee{
		{
			ID: "e1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
			Phone: "+441234567890", Title: "Analyst", Department: "Engineering", Location: "London",
			HireDate: domain.NewDate(2019, time.December, 10), Salary: 120000,
		},
		{
			ID: "e2", FirstName: "Alan", LastName: "Turing", Email: "alan@example.com",
			Phone: "+441234567891", Title: "Researcher", Department: "Product", Location: "Remote",
			HireDate: domain.NewDate(2020, time.June, 23), Salary: 98000.5,
		},
	}
}

func openSaved(t *testing.T, fsys afero.Fs, path string) *excelize.File {
	t.Helper()
	in, err := fsys.Open(path)
	require.NoError(t, err)
	defer in.Close()

	f, err := excelize.OpenReader(in)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestSaveDefaultLayout(t *testing.T) {
	fsys := afero.NewMemMapFs()
	e := NewExporter(fsys)

	require.NoError(t, e.Save("employees.xlsx", employees()))

	f := openSaved(t, fsys, "employees.xlsx")
	assert.Equal(t, []string{"Employees"}, f.GetSheetList())

	rows, err := f.GetRows("Employees", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Name", "Title", "Department", "Location", "Email", "Phone", "Hire Date", "Salary"}, rows[0])
	assert.Equal(t, []string{"Ada Lovelace", "Analyst", "Engineering", "London", "ada@example.com", "+441234567890", "2019-12-10", "120000"}, rows[1])
	assert.Equal(t, "98000.5", rows[2][7])

	styleID, err := f.GetCellStyle("Employees", "A1")
	require.NoError(t, err)
	assert.NotZero(t, styleID)

	salaryStyle, err := f.GetCellStyle("Employees", "H2")
	require.NoError(t, err)
	assert.NotZero(t, salaryStyle)

	width, err := f.GetColWidth("Employees", "E")
	require.NoError(t, err)
	assert.Equal(t, 30.0, width)
}

func TestSaveEmptyPageWritesHeaderOnly(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, NewExporter(fsys).Save("empty.xlsx", nil))

	rows, err := openSaved(t, fsys, "empty.xlsx").GetRows("Employees")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestCustomLayoutFromYAML(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "layout.yaml", []byte(`
sheet: Directory
columns:
  - field: id
    header: ID
  - field: email
    header: E-mail
    width: 40
`), 0o644))

	layout, err := LoadLayout(fsys, "layout.yaml")
	require.NoError(t, err)
	assert.Equal(t, DefaultLayout().HeaderStyle, layout.HeaderStyle)

	e := NewExporter(fsys, WithLayout(layout))
	require.NoError(t, e.Save("custom.xlsx", employees()))

	rows, err := openSaved(t, fsys, "custom.xlsx").GetRows("Directory")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"ID", "E-mail"},
		{"e1", "ada@example.com"},
		{"e2", "alan@example.com"},
	}, rows)
}

func TestParseLayoutErrors(t *testing.T) {
	_, err := ParseLayout(strings.NewReader("columns:\n  - field: shoeSize\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown field "shoeSize"`)

	_, err = ParseLayout(strings.NewReader("colums: []\n"))
	assert.Error(t, err)
}

func TestParseEmptyLayoutUsesDefaults(t *testing.T) {
	l, err := ParseLayout(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultLayout(), l)
}

func TestLoadLayoutMissingFile(t *testing.T) {
	_, err := LoadLayout(afero.NewMemMapFs(), "nope.yaml")
	assert.Error(t, err)
}

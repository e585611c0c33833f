package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/aneeqdev/employee-directory/internal/domain"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type directoryAPI struct {
	mu      sync.Mutex
	records []domain.Employee
	listErr error
	queries []domain.ListParams
	updates []domain.EmployeeInput
	creates int
}

func newDirectoryAPI(n int) *directoryAPI {
	api := &directoryAPI{}
	for i := 1; i <= n; i++ {
		dept := "Engineering"
		if i%2 == 0 {
			dept = "Sales"
		}
		api.records = append(api.records, domain.Employee{
			ID:         fmt.Sprintf("e%d", i),
			FirstName:  "Person",
			LastName:   fmt.Sprintf("Number%d", i),
			Email:      fmt.Sprintf("person%d@example.com", i),
			Phone:      "+14155550100",
			Title:      "Engineer",
			Department: dept,
			Location:   "Remote",
			HireDate:   domain.NewDate(2021, 4, i),
			Salary:     90000,
		})
	}
	return api
}

func (a *directoryAPI) List(_ context.Context, p domain.ListParams) (*domain.EmployeePage, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.queries = append(a.queries, p)
	if a.listErr != nil {
		return nil, a.listErr
	}

	var matched []domain.Employee
	for _, e := range a.records {
		if p.Department != "" && e.Department != p.Department {
			continue
		}
		if p.Search != "" && !strings.Contains(strings.ToLower(e.FullName()), strings.ToLower(p.Search)) {
			continue
		}
		matched = append(matched, e)
	}
	start := min(max(p.Page-1, 0)*p.Limit, len(matched))
	end := min(start+p.Limit, len(matched))
	return &domain.EmployeePage{
		Data:        append([]domain.Employee(nil), matched[start:end]...),
		CurrentPage: p.Page,
		TotalPages:  max(1, (len(matched)+p.Limit-1)/p.Limit),
		TotalItems:  len(matched),
		Limit:       p.Limit,
	}, nil
}

func (a *directoryAPI) Get(_ context.Context, id string) (*domain.Employee, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, e := range a.records {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, errors.New("Employee not found")
}

func (a *directoryAPI) Create(_ context.Context, in domain.EmployeeInput) (*domain.Employee, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.creates++
	hire, _ := domain.ParseDate(in.HireDate)
	e := domain.Employee{
		ID: "new", FirstName: in.FirstName, LastName: in.LastName, Email: in.Email, Phone: in.Phone,
		Title: in.Title, Department: in.Department, Location: in.Location, HireDate: hire, Salary: in.Salary,
	}
	a.records = append([]domain.Employee{e}, a.records...)
	return &e, nil
}

func (a *directoryAPI) Update(_ context.Context, id string, in domain.EmployeeInput) (*domain.Employee, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.updates = append(a.updates, in)
	for i, e := range a.records {
		if e.ID == id {
			e.FirstName, e.LastName, e.Title = in.FirstName, in.LastName, in.Title
			a.records[i] = e
			return &e, nil
		}
	}
	return nil, errors.New("Employee not found")
}

func (a *directoryAPI) Remove(_ context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, e := range a.records {
		if e.ID == id {
			a.records = append(a.records[:i], a.records[i+1:]...)
			return nil
		}
	}
	return errors.New("Employee not found")
}

func newCLI(api domain.EmployeeAPI) (*CLI, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return &CLI{
		API:      api,
		Fs:       afero.NewMemMapFs(),
		Out:      &out,
		Err:      &errOut,
		Log:      zerolog.Nop(),
		PageSize: domain.DefaultPageSize,
	}, &out, &errOut
}

const validEmployeeJSON = `{
	"firstName": "Grace", "lastName": "Hopper", "email": "grace@example.com",
	"phone": "+1 415 555 0199", "title": "Rear Admiral", "department": "Engineering",
	"location": "New York", "hireDate": "2020-03-15", "salary": 150000
}`

func TestListAppliesFlags(t *testing.T) {
	api := newDirectoryAPI(30)
	cli, out, _ := newCLI(api)

	code := cli.Run(context.Background(), []string{"list", "--department", "Sales", "--limit", "4", "--page", "2"})
	require.Equal(t, exitOK, code)

	require.Len(t, api.queries, 1)
	assert.Equal(t, domain.ListParams{Page: 2, Limit: 4, Department: "Sales"}, api.queries[0])
	assert.Contains(t, out.String(), "NAME")
	assert.Contains(t, out.String(), "Person Number10")
	assert.Contains(t, out.String(), "Showing 4 of 15 employees")
	assert.Contains(t, out.String(), "[2]")
}

func TestListEmptyResult(t *testing.T) {
	cli, out, _ := newCLI(newDirectoryAPI(3))

	code := cli.Run(context.Background(), []string{"list", "--search", "nobody"})
	require.Equal(t, exitOK, code)
	assert.Contains(t, out.String(), `No employees found matching "nobody"`)
}

func TestListFailureExitsNonZero(t *testing.T) {
	api := newDirectoryAPI(3)
	api.listErr = errors.New("backend unavailable")
	cli, out, _ := newCLI(api)

	code := cli.Run(context.Background(), []string{"list"})
	assert.Equal(t, exitFail, code)
	assert.Contains(t, out.String(), "Error: backend unavailable")
}

func TestGet(t *testing.T) {
	cli, out, errOut := newCLI(newDirectoryAPI(3))

	require.Equal(t, exitOK, cli.Run(context.Background(), []string{"get", "e2"}))
	assert.Contains(t, out.String(), "Person Number2")
	assert.Contains(t, out.String(), "$90,000")

	assert.Equal(t, exitUsage, cli.Run(context.Background(), []string{"get"}))
	assert.Contains(t, errOut.String(), "get needs exactly one employee id")
}

func TestCreate(t *testing.T) {
	api := newDirectoryAPI(0)
	cli, out, _ := newCLI(api)
	require.NoError(t, afero.WriteFile(cli.Fs, "grace.json", []byte(validEmployeeJSON), 0o644))

	code := cli.Run(context.Background(), []string{"create", "--file", "grace.json"})
	require.Equal(t, exitOK, code)
	assert.Contains(t, out.String(), "Employee created successfully")
	assert.Contains(t, out.String(), "Grace Hopper")
	assert.Equal(t, "+1 415 555 0199", api.records[0].Phone)
}

func TestCreateInvalidNeverCallsAPI(t *testing.T) {
	api := newDirectoryAPI(0)
	cli, _, errOut := newCLI(api)
	require.NoError(t, afero.WriteFile(cli.Fs, "bad.json",
		[]byte(`{"firstName":"G","lastName":"Hopper","email":"nope","phone":"123","title":"x","department":"HR","location":"Remote","hireDate":"2020-01-01","salary":1}`), 0o644))

	code := cli.Run(context.Background(), []string{"create", "-f", "bad.json"})
	assert.Equal(t, exitFail, code)
	assert.Zero(t, api.creates)
	assert.Contains(t, errOut.String(), "Please fix the following fields:")
	assert.Contains(t, errOut.String(), "email:")
	assert.Contains(t, errOut.String(), "firstName:")
	assert.Contains(t, errOut.String(), "phone:")
}

func TestUpdateKeepsUnsetFields(t *testing.T) {
	api := newDirectoryAPI(3)
	cli, out, _ := newCLI(api)
	require.NoError(t, afero.WriteFile(cli.Fs, "patch.json", []byte(`{"title":"Principal Engineer"}`), 0o644))

	code := cli.Run(context.Background(), []string{"update", "e3", "--file", "patch.json"})
	require.Equal(t, exitOK, code)
	assert.Contains(t, out.String(), "Employee updated successfully")

	require.Len(t, api.updates, 1)
	assert.Equal(t, "Principal Engineer", api.updates[0].Title)
	assert.Equal(t, "Number3", api.updates[0].LastName)
	assert.Equal(t, "2021-04-03", api.updates[0].HireDate)
}

func TestDeleteRefreshesPage(t *testing.T) {
	api := newDirectoryAPI(10)
	cli, out, _ := newCLI(api)

	code := cli.Run(context.Background(), []string{"delete", "e1"})
	require.Equal(t, exitOK, code)
	assert.Contains(t, out.String(), "Employee deleted successfully")
	assert.Contains(t, out.String(), "Showing 9 of 9 employees")
	assert.NotContains(t, out.String(), "Person Number1 ")

	code = cli.Run(context.Background(), []string{"delete", "e1"})
	assert.Equal(t, exitFail, code)
}

func TestExportWritesWorkbook(t *testing.T) {
	cli, out, _ := newCLI(newDirectoryAPI(5))

	code := cli.Run(context.Background(), []string{"export", "--out", "page.xlsx"})
	require.Equal(t, exitOK, code)
	assert.Contains(t, out.String(), "Exported 5 employees to page.xlsx")

	f, err := cli.Fs.Open("page.xlsx")
	require.NoError(t, err)
	defer f.Close()
	book, err := excelize.OpenReader(f)
	require.NoError(t, err)

	header, err := book.GetCellValue("Employees", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Name", header)
	name, err := book.GetCellValue("Employees", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Person Number1", name)
}

func TestUnknownCommand(t *testing.T) {
	cli, _, errOut := newCLI(newDirectoryAPI(0))

	assert.Equal(t, exitUsage, cli.Run(context.Background(), []string{"fire"}))
	assert.Contains(t, errOut.String(), `unknown command "fire"`)
	assert.Equal(t, exitUsage, cli.Run(context.Background(), nil))
}

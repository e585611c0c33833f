package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aneeqdev/employee-directory/internal/coordinator"
	"github.com/aneeqdev/employee-directory/internal/domain"
	"github.com/aneeqdev/employee-directory/internal/export"
	"github.com/aneeqdev/employee-directory/internal/presenter"
	"github.com/aneeqdev/employee-directory/internal/store"
	"github.com/aneeqdev/employee-directory/internal/validation"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
)

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

const usage = `Usage: directory <command> [flags]

Commands:
  list                 show one page of employees
  get <id>             show a single employee
  create --file F      create an employee from a JSON file
  update <id> --file F update an employee; fields missing from F are kept
  delete <id>          delete an employee and reload the page
  export --out F       write the page to an .xlsx workbook
`

// CLI runs one directory command against API.
type CLI struct {
	API        domain.EmployeeAPI
	Fs         afero.Fs
	Out        io.Writer
	Err        io.Writer
	Log        zerolog.Logger
	PageSize   int
	LayoutPath string
}

type queryFlags struct {
	search     string
	department string
	location   string
	page       int
	limit      int
}

func (q *queryFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&q.search, "search", "", "Match name, email or title")
	fs.StringVar(&q.department, "department", "", "Only this department")
	fs.StringVar(&q.location, "location", "", "Only this location")
	fs.IntVar(&q.page, "page", 1, "Page number")
	fs.IntVar(&q.limit, "limit", 0, "Employees per page (default PAGE_SIZE)")
}

// Run executes args and returns the process exit code.
func (c *CLI) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(c.Err, usage)
		return exitUsage
	}

	var err error
	switch cmd, rest := args[0], args[1:]; cmd {
	case "list":
		err = c.list(ctx, rest)
	case "get":
		err = c.get(ctx, rest)
	case "create":
		err = c.create(ctx, rest)
	case "update":
		err = c.update(ctx, rest)
	case "delete":
		err = c.delete(ctx, rest)
	case "export":
		err = c.export(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(c.Out, usage)
		return exitOK
	default:
		err = usageError{fmt.Sprintf("unknown command %q", cmd)}
	}

	var uerr usageError
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, pflag.ErrHelp):
		return exitOK
	case errors.As(err, &uerr):
		fmt.Fprintf(c.Err, "%s\n\n%s", uerr.msg, usage)
		return exitUsage
	default:
		c.notify(err)
		return exitFail
	}
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

// errReported marks a failure that was already written out.
var errReported = errors.New("reported")

func (c *CLI) notify(err error) {
	if errors.Is(err, errReported) {
		return
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		fmt.Fprintln(c.Err, "Please fix the following fields:")
		_ = presenter.RenderValidation(c.Err, verrs)
		return
	}
	fmt.Fprintf(c.Err, "Error: %v\n", err)
}

func (c *CLI) newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(c.Err)
	return fs
}

func (c *CLI) newStore() *store.Store {
	return store.New(c.API, store.WithLogger(c.Log), store.WithPageSize(c.PageSize))
}

// load applies the query flags to s and waits for the resulting page.
func (c *CLI) load(ctx context.Context, s *store.Store, q queryFlags) store.State {
	s.SetFilters(domain.Filters{Search: q.search, Department: q.department, Location: q.location})
	if q.limit > 0 {
		s.SetItemsPerPage(q.limit)
	}
	s.SetCurrentPage(q.page)

	co := coordinator.New(s, coordinator.WithLogger(c.Log))
	stop := co.Start(ctx)
	co.Wait()
	stop()
	return s.State()
}

func (c *CLI) render(st store.State) error {
	if err := presenter.Render(c.Out, st); err != nil {
		return err
	}
	if st.Error != "" {
		return errReported
	}
	return nil
}

func (c *CLI) list(ctx context.Context, args []string) error {
	var q queryFlags
	fs := c.newFlagSet("list")
	q.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	return c.render(c.load(ctx, c.newStore(), q))
}

func singleID(fs *pflag.FlagSet) (string, error) {
	if fs.NArg() != 1 || strings.TrimSpace(fs.Arg(0)) == "" {
		return "", usageError{fs.Name() + " needs exactly one employee id"}
	}
	return fs.Arg(0), nil
}

func (c *CLI) get(ctx context.Context, args []string) error {
	fs := c.newFlagSet("get")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := singleID(fs)
	if err != nil {
		return err
	}

	e, err := c.API.Get(ctx, id)
	if err != nil {
		return err
	}
	return presenter.RenderEmployee(c.Out, *e)
}

func (c *CLI) create(ctx context.Context, args []string) error {
	var file string
	fs := c.newFlagSet("create")
	fs.StringVarP(&file, "file", "f", "", "JSON file with the employee fields")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if file == "" {
		return usageError{"create needs --file"}
	}

	var in domain.EmployeeInput
	if err := c.readInput(file, &in); err != nil {
		return err
	}
	e, err := c.newStore().CreateEmployee(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.Out, "Employee created successfully")
	return presenter.RenderEmployee(c.Out, *e)
}

func (c *CLI) update(ctx context.Context, args []string) error {
	var file string
	fs := c.newFlagSet("update")
	fs.StringVarP(&file, "file", "f", "", "JSON file with the fields to change")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := singleID(fs)
	if err != nil {
		return err
	}
	if file == "" {
		return usageError{"update needs --file"}
	}

	current, err := c.API.Get(ctx, id)
	if err != nil {
		return err
	}
	in := domain.InputFromEmployee(*current)
	if err := c.readInput(file, &in); err != nil {
		return err
	}

	e, err := c.newStore().UpdateEmployee(ctx, id, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.Out, "Employee updated successfully")
	return presenter.RenderEmployee(c.Out, *e)
}

func (c *CLI) delete(ctx context.Context, args []string) error {
	var q queryFlags
	fs := c.newFlagSet("delete")
	q.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := singleID(fs)
	if err != nil {
		return err
	}

	s := c.newStore()
	s.SetFilters(domain.Filters{Search: q.search, Department: q.department, Location: q.location})
	if q.limit > 0 {
		s.SetItemsPerPage(q.limit)
	}
	s.SetCurrentPage(q.page)

	if err := s.DeleteEmployee(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(c.Out, "Employee deleted successfully")

	coordinator.New(s, coordinator.WithLogger(c.Log)).Refresh(ctx)
	return c.render(s.State())
}

func (c *CLI) export(ctx context.Context, args []string) error {
	var (
		q   queryFlags
		out string
	)
	fs := c.newFlagSet("export")
	q.register(fs)
	fs.StringVarP(&out, "out", "o", "employees.xlsx", "Workbook to write")
	if err := fs.Parse(args); err != nil {
		return err
	}

	layout := export.DefaultLayout()
	if c.LayoutPath != "" {
		var err error
		if layout, err = export.LoadLayout(c.Fs, c.LayoutPath); err != nil {
			return err
		}
	}

	st := c.load(ctx, c.newStore(), q)
	if st.Error != "" {
		return errors.New(st.Error)
	}
	exp := export.NewExporter(c.Fs, export.WithLayout(layout), export.WithLogger(c.Log))
	if err := exp.Save(out, st.Employees); err != nil {
		return err
	}
	fmt.Fprintf(c.Out, "Exported %d employees to %s\n", len(st.Employees), out)
	return nil
}

func (c *CLI) readInput(path string, in *domain.EmployeeInput) error {
	b, err := afero.ReadFile(c.Fs, path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, in); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

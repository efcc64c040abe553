package resource

import (
	"context"
	"strings"

	"github.com/idilsaglam/hcadmin/internal/model"
)

// Row is a formatted table row.
type Row struct {
	ID    string
	Cells []string
}

type FilterSpec struct {
	Name    string
	Values  []string
	Current string
}

type ActionSpec struct {
	Name    string
	Label   string
	Key     string
	Input   *Field
	Confirm bool
	Bulk    bool
	Deletes bool
}

// Allowed reports whether an account holding p may run the action.
func (a ActionSpec) Allowed(p model.Permissions) bool {
	if a.Deletes {
		return p.Delete
	}
	return p.Write
}

func specOf[T any](a Action[T]) ActionSpec {
	return ActionSpec{Name: a.Name, Label: a.Label, Key: a.Key, Input: a.Input, Confirm: a.Confirm, Bulk: a.Bulk, Deletes: a.Deletes}
}

// View is a Controller with the entity type erased, for screens and commands
// that handle every resource the same way.
type View interface {
	Name() string
	Singular() string
	Loaded() bool
	Load(ctx context.Context) error

	SetQuery(q string)
	Query() string
	Filters() []FilterSpec
	SetFilter(name, value string) error

	SetPageSize(n int) error
	PageSize() int
	PageCount() int
	Len() int
	Total() int

	Headers() []string
	Widths() []int
	PageRows(n int) []Row
	VisibleRows() []Row
	ExportRows() [][]string
	Detail(id string) [][2]string
	Stats() []Stat

	CanCreate() bool
	CanUpdate() bool
	CanDelete() bool
	NewForm() Form
	EditForm(id string) (Form, error)
	Submit(ctx context.Context, f Form) (bool, error)
	Delete(ctx context.Context, id string, confirmed bool) error

	Actions() []ActionSpec
	ActionsFor(id string) []ActionSpec
	Do(ctx context.Context, name, id, input string) error
	DoAll(ctx context.Context, name string, confirmed bool) error
}

var _ View = (*Controller[struct{}])(nil)

func (c *Controller[T]) Filters() []FilterSpec {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]FilterSpec, len(c.cfg.Filters))
	for i, f := range c.cfg.Filters {
		out[i] = FilterSpec{Name: f.Name, Values: f.Values, Current: c.filters[f.Name]}
	}
	return out
}

// Len is the number of visible rows.
func (c *Controller[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.visible)
}

// Total is the size of the unfiltered collection.
func (c *Controller[T]) Total() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Controller[T]) Headers() []string {
	out := make([]string, len(c.cfg.Columns))
	for i, col := range c.cfg.Columns {
		out[i] = col.Header
	}
	return out
}

func (c *Controller[T]) Widths() []int {
	out := make([]int, len(c.cfg.Columns))
	for i, col := range c.cfg.Columns {
		out[i] = col.Width
	}
	return out
}

func (c *Controller[T]) row(it T) Row {
	cells := make([]string, len(c.cfg.Columns))
	for i, col := range c.cfg.Columns {
		cells[i] = col.Cell(it)
	}
	return Row{ID: c.cfg.ID(it), Cells: cells}
}

func (c *Controller[T]) PageRows(n int) []Row {
	page := c.Page(n)
	out := make([]Row, len(page))
	for i, it := range page {
		out[i] = c.row(it)
	}
	return out
}

func (c *Controller[T]) VisibleRows() []Row {
	vis := c.Visible()
	out := make([]Row, len(vis))
	for i, it := range vis {
		out[i] = c.row(it)
	}
	return out
}

// ExportRows renders the visible rows for a report, using each column's
// Export func when it has one.
func (c *Controller[T]) ExportRows() [][]string {
	vis := c.Visible()
	out := make([][]string, len(vis))
	for i, it := range vis {
		cells := make([]string, len(c.cfg.Columns))
		for j, col := range c.cfg.Columns {
			render := col.Cell
			if col.Export != nil {
				render = col.Export
			}
			cells[j] = render(it)
		}
		out[i] = cells
	}
	return out
}

func (c *Controller[T]) Detail(id string) [][2]string {
	it, ok := c.Get(id)
	if !ok {
		return nil
	}
	if c.cfg.Detail != nil {
		return c.cfg.Detail(it)
	}
	r := c.row(it)
	out := make([][2]string, len(r.Cells))
	for i, h := range c.Headers() {
		out[i] = [2]string{h, r.Cells[i]}
	}
	return out
}

func (c *Controller[T]) Stats() []Stat {
	if c.cfg.Stats == nil {
		return nil
	}
	return c.cfg.Stats(c.Items())
}

func (c *Controller[T]) Actions() []ActionSpec {
	out := make([]ActionSpec, len(c.cfg.Actions))
	for i, a := range c.cfg.Actions {
		out[i] = specOf(a)
	}
	return out
}

// join renders a list cell.
func join(vs []string, sep string) string {
	return strings.Join(vs, sep)
}

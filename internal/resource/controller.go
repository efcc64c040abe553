// Package resource is the generic list-view controller: fetch a collection,
// filter and paginate it client-side, and drive create/edit/delete dialogs
// and row actions against the API. Each entity is one Config.
package resource

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	FilterAll       = "all"
	DefaultPageSize = 25
	bulkLimit       = 4
)

// PageSizes are the allowed page sizes.
var PageSizes = []int{25, 50, 100}

type Controller[T any] struct {
	cfg    Config[T]
	notify Notifier
	log    zerolog.Logger

	mu       sync.RWMutex
	items    []T
	visible  []T
	query    string
	filters  map[string]string
	pageSize int
	loaded   bool
}

func New[T any](cfg Config[T], n Notifier, log zerolog.Logger) *Controller[T] {
	if n == nil {
		n = discard{}
	}
	c := &Controller[T]{
		cfg:      cfg,
		notify:   n,
		log:      log.With().Str("resource", cfg.Name).Logger(),
		filters:  map[string]string{},
		pageSize: DefaultPageSize,
	}
	for _, f := range cfg.Filters {
		c.filters[f.Name] = FilterAll
	}
	return c
}

func (c *Controller[T]) Name() string     { return c.cfg.Name }
func (c *Controller[T]) Singular() string { return c.cfg.Singular }

func (c *Controller[T]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Load fetches the collection. Rows without an id, or repeating one, are
// dropped. On failure the list is left empty and one error notice is sent.
func (c *Controller[T]) Load(ctx context.Context) error {
	items, err := c.cfg.List(ctx)
	if err != nil {
		c.mu.Lock()
		c.items, c.loaded = nil, true
		c.recompute()
		c.mu.Unlock()
		c.fail(ctx, err)
		return err
	}

	seen := make(map[string]bool, len(items))
	kept := make([]T, 0, len(items))
	for _, it := range items {
		id := c.cfg.ID(it)
		if id == "" || seen[id] {
			c.log.Warn().Str("id", id).Msg("dropping row without a unique id")
			continue
		}
		seen[id] = true
		kept = append(kept, it)
	}

	c.mu.Lock()
	c.items, c.loaded = kept, true
	c.recompute()
	c.mu.Unlock()
	c.log.Debug().Int("rows", len(kept)).Msg("loaded")
	return nil
}

// SetQuery sets the free-text search and recomputes the visible rows.
func (c *Controller[T]) SetQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = q
	c.recompute()
}

func (c *Controller[T]) Query() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.query
}

// SetFilter sets a categorical filter; "all" (or "") disables it.
func (c *Controller[T]) SetFilter(name, value string) error {
	f, ok := c.filter(name)
	if !ok {
		return invalid(fmt.Sprintf("unknown filter %q for %s", name, c.cfg.Name))
	}
	if value == "" {
		value = FilterAll
	}
	if value != FilterAll && !slices.Contains(f.Values, value) {
		return invalid(fmt.Sprintf("%s must be one of: all, %s", name, strings.Join(f.Values, ", ")))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters[name] = value
	c.recompute()
	return nil
}

// FilterValue returns the current value of the named filter.
func (c *Controller[T]) FilterValue(name string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filters[name]
}

func (c *Controller[T]) filter(name string) (Filter[T], bool) {
	for _, f := range c.cfg.Filters {
		if f.Name == name {
			return f, true
		}
	}
	return Filter[T]{}, false
}

// recompute applies the query and filters; callers hold mu.
func (c *Controller[T]) recompute() {
	q := strings.ToLower(c.query)
	out := make([]T, 0, len(c.items))
	for _, it := range c.items {
		if q != "" && !c.matches(it, q) {
			continue
		}
		if !c.passesFilters(it) {
			continue
		}
		out = append(out, it)
	}
	c.visible = out
}

func (c *Controller[T]) matches(it T, q string) bool {
	if c.cfg.Searchable == nil {
		return true
	}
	for _, s := range c.cfg.Searchable(it) {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

func (c *Controller[T]) passesFilters(it T) bool {
	for _, f := range c.cfg.Filters {
		want := c.filters[f.Name]
		if want == "" || want == FilterAll {
			continue
		}
		if f.Value(it) != want {
			return false
		}
	}
	return true
}

// Items returns a copy of the full collection.
func (c *Controller[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

// Visible returns the filtered rows.
func (c *Controller[T]) Visible() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.visible)
}

func (c *Controller[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if c.cfg.ID(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func (c *Controller[T]) SetPageSize(n int) error {
	if !slices.Contains(PageSizes, n) {
		return invalid(fmt.Sprintf("page size must be one of %v", PageSizes))
	}
	c.mu.Lock()
	c.pageSize = n
	c.mu.Unlock()
	return nil
}

func (c *Controller[T]) PageSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pageSize
}

// PageCount is at least 1, so an empty listing still has a page to show.
func (c *Controller[T]) PageCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := (len(c.visible) + c.pageSize - 1) / c.pageSize
	return max(n, 1)
}

// Page returns the visible rows of page n (0-based, clamped to range).
func (c *Controller[T]) Page(n int) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pages := max((len(c.visible)+c.pageSize-1)/c.pageSize, 1)
	n = min(max(n, 0), pages-1)
	lo := n * c.pageSize
	hi := min(lo+c.pageSize, len(c.visible))
	if lo >= hi {
		return nil
	}
	return slices.Clone(c.visible[lo:hi])
}

func (c *Controller[T]) CanCreate() bool { return c.cfg.Create != nil }
func (c *Controller[T]) CanUpdate() bool { return c.cfg.Update != nil }
func (c *Controller[T]) CanDelete() bool { return c.cfg.Delete != nil }

// NewForm returns a create dialog with defaults filled in.
func (c *Controller[T]) NewForm() Form {
	f := Form{Fields: slices.Clone(c.cfg.Fields), Values: map[string]string{}}
	for _, fd := range c.cfg.Fields {
		f.Values[fd.Key] = fd.Default
	}
	return f
}

// EditForm returns an edit dialog pre-filled from the row with that id.
func (c *Controller[T]) EditForm(id string) (Form, error) {
	if c.cfg.Update == nil {
		return Form{}, ErrNotSupported
	}
	it, ok := c.Get(id)
	if !ok {
		return Form{}, fmt.Errorf("%s %s: %w", c.cfg.Singular, id, ErrNotFound)
	}
	f := Form{Fields: slices.Clone(c.cfg.Fields), Values: map[string]string{}, EditID: id}
	if c.cfg.Values != nil {
		for k, v := range c.cfg.Values(it) {
			f.Values[k] = v
		}
	}
	return f, nil
}

// Submit validates and sends the dialog. It reports whether the dialog may
// close: true only when the server confirmed the change, after which the
// collection has been re-fetched once.
func (c *Controller[T]) Submit(ctx context.Context, f Form) (bool, error) {
	if err := f.Validate(); err != nil {
		c.notify.Notify(Notice{Level: LevelError, Text: err.Error()})
		return false, err
	}

	var (
		msg  string
		err  error
		verb string
	)
	if f.IsEdit() {
		if c.cfg.Update == nil {
			return false, ErrNotSupported
		}
		msg, err = c.cfg.Update(ctx, f.EditID, f)
		verb = "updated"
	} else {
		if c.cfg.Create == nil {
			return false, ErrNotSupported
		}
		msg, err = c.cfg.Create(ctx, f)
		verb = "created"
	}
	if err != nil {
		c.fail(ctx, err)
		return false, err
	}
	c.succeed(ctx, msg, fmt.Sprintf("%s %s successfully", titleFirst(c.cfg.Singular), verb))
	return true, nil
}

// Delete removes a row. Without confirmation nothing is sent.
func (c *Controller[T]) Delete(ctx context.Context, id string, confirmed bool) error {
	if c.cfg.Delete == nil {
		return ErrNotSupported
	}
	if !confirmed {
		return ErrNotConfirmed
	}
	msg, err := c.cfg.Delete(ctx, id)
	if err != nil {
		c.fail(ctx, err)
		return err
	}
	c.succeed(ctx, msg, fmt.Sprintf("%s deleted successfully", titleFirst(c.cfg.Singular)))
	return nil
}

func (c *Controller[T]) action(name string) (Action[T], bool) {
	for _, a := range c.cfg.Actions {
		if a.Name == name {
			return a, true
		}
	}
	return Action[T]{}, false
}

// Do runs a single-row action.
func (c *Controller[T]) Do(ctx context.Context, name, id, input string) error {
	a, ok := c.action(name)
	if !ok || a.Bulk {
		return ErrNotSupported
	}
	it, found := c.Get(id)
	if !found {
		return fmt.Errorf("%s %s: %w", c.cfg.Singular, id, ErrNotFound)
	}
	if a.Applies != nil && !a.Applies(it) {
		err := invalid(fmt.Sprintf("%s does not apply to this %s", a.Label, c.cfg.Singular))
		c.notify.Notify(Notice{Level: LevelError, Text: err.Error()})
		return err
	}
	if err := c.checkInput(a, it, input); err != nil {
		c.notify.Notify(Notice{Level: LevelError, Text: err.Error()})
		return err
	}
	msg, err := a.Run(ctx, it, strings.TrimSpace(input))
	if err != nil {
		c.fail(ctx, err)
		return err
	}
	c.succeed(ctx, msg, a.Done)
	return nil
}

func (c *Controller[T]) checkInput(a Action[T], it T, input string) error {
	if a.Input != nil {
		f := Form{Fields: []Field{*a.Input}, Values: map[string]string{a.Input.Key: input}}
		if err := f.Validate(); err != nil {
			return err
		}
	}
	if a.Check != nil {
		return a.Check(it, strings.TrimSpace(input))
	}
	return nil
}

// DoAll runs a bulk action over every row it applies to, a few at a time.
// One notice and at most one re-fetch follow, however many rows were touched.
func (c *Controller[T]) DoAll(ctx context.Context, name string, confirmed bool) error {
	a, ok := c.action(name)
	if !ok || !a.Bulk {
		return ErrNotSupported
	}
	if a.Confirm && !confirmed {
		return ErrNotConfirmed
	}
	var targets []T
	for _, it := range c.Items() {
		if a.Applies == nil || a.Applies(it) {
			targets = append(targets, it)
		}
	}
	if len(targets) == 0 {
		c.notify.Notify(Notice{Level: LevelInfo, Text: "Nothing to do"})
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkLimit)
	for _, it := range targets {
		g.Go(func() error {
			_, err := a.Run(gctx, it, "")
			return err
		})
	}
	if err := g.Wait(); err != nil {
		c.fail(ctx, err)
		return err
	}
	c.succeed(ctx, "", a.Done)
	return nil
}

// ActionsFor lists the actions applicable to the row; bulk actions are excluded.
func (c *Controller[T]) ActionsFor(id string) []ActionSpec {
	it, ok := c.Get(id)
	if !ok {
		return nil
	}
	var out []ActionSpec
	for _, a := range c.cfg.Actions {
		if a.Bulk || (a.Applies != nil && !a.Applies(it)) {
			continue
		}
		out = append(out, specOf(a))
	}
	return out
}

// succeed notifies once and re-fetches once.
func (c *Controller[T]) succeed(ctx context.Context, msg, fallback string) {
	if msg == "" {
		msg = fallback
	}
	if msg == "" {
		msg = "Done"
	}
	c.notify.Notify(Notice{Level: LevelSuccess, Text: msg})
	_ = c.Load(ctx)
}

// fail notifies once, unless the caller went away.
func (c *Controller[T]) fail(ctx context.Context, err error) {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return
	}
	c.log.Warn().Err(err).Msg("operation failed")
	c.notify.Notify(Notice{Level: LevelError, Text: err.Error()})
}

func titleFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

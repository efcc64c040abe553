package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/hcadmin/internal/resource"
	"github.com/idilsaglam/hcadmin/internal/ui"
)

// pairs parses repeated k=v flags.
func pairs(flag string, raw []string) (map[string]string, error) {
	out := make(map[string]string, len(raw))
	for _, kv := range raw {
		k, v, ok := strings.Cut(kv, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, usagef("--%s wants key=value, got %q", flag, kv)
		}
		out[k] = v
	}
	return out, nil
}

// fill copies --set values into the form, refusing unknown keys.
func fill(f *resource.Form, sets map[string]string) error {
	keys := make([]string, 0, len(sets))
	for k := range sets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, ok := f.Field(k); !ok {
			var known []string
			for _, fd := range f.Active() {
				known = append(known, fd.Key)
			}
			return usagef("unknown field %q (fields: %s)", k, strings.Join(known, ", "))
		}
		f.Set(k, sets[k])
	}
	return nil
}

// loaded opens the named view and fetches it. A failed fetch has already
// been reported by the view.
func (e *env) loaded(cmd *cobra.Command, name string) (resource.View, error) {
	if _, err := e.loggedIn(); err != nil {
		return nil, err
	}
	v, err := e.view(name)
	if err != nil {
		return nil, err
	}
	if err := v.Load(cmd.Context()); err != nil {
		return nil, err
	}
	return v, nil
}

func (e *env) lsCmd() *cobra.Command {
	var (
		query    string
		filters  []string
		page     int
		pageSize int
	)
	cmd := &cobra.Command{
		Use:   "ls <resource>",
		Short: "List a collection (" + strings.Join(resource.Names, ", ") + ")",
		Args:  exactArgs(1, "ls <resource> [-q query] [--filter k=v]... [--page n] [--page-size n]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := pairs("filter", filters)
			if err != nil {
				return err
			}
			v, err := e.loaded(cmd, args[0])
			if err != nil {
				return err
			}
			if pageSize != 0 {
				if err := v.SetPageSize(pageSize); err != nil {
					return usageError{err.Error()}
				}
			}
			for k, val := range fs {
				if err := v.SetFilter(k, val); err != nil {
					return usageError{err.Error()}
				}
			}
			v.SetQuery(query)
			if page < 1 || page > v.PageCount() {
				return usagef("page out of range: have %d, got %d", v.PageCount(), page)
			}
			e.printListing(v, page-1)
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive search")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "filter as key=value (repeatable; value all disables)")
	cmd.Flags().IntVar(&page, "page", 1, "page number, 1-based")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "rows per page: 25, 50 or 100")
	return cmd
}

func (e *env) printListing(v resource.View, page int) {
	t := ui.Current()
	rows := v.PageRows(page)

	header := fmt.Sprintf("%s   %s %d  %s %d  %s",
		t.Title.Render(titleCase(v.Name())),
		t.Accent.Render("shown"), v.Len(),
		t.Muted.Render("of"), v.Total(),
		t.Muted.Render(fmt.Sprintf("page %d/%d", page+1, v.PageCount())),
	)
	lines := []string{header}
	if stats := v.Stats(); len(stats) > 0 {
		parts := make([]string, len(stats))
		for i, s := range stats {
			parts[i] = t.Muted.Render(s.Label) + " " + s.Value
		}
		lines = append(lines, strings.Join(parts, "  "))
	}
	var active []string
	for _, f := range v.Filters() {
		if f.Current != resource.FilterAll {
			active = append(active, f.Name+"="+f.Current)
		}
	}
	if q := v.Query(); q != "" {
		active = append([]string{fmt.Sprintf("%q", q)}, active...)
	}
	if len(active) > 0 {
		lines = append(lines, t.Muted.Render("matching "+strings.Join(active, ", ")))
	}
	lines = append(lines, "")

	if len(rows) == 0 {
		lines = append(lines, t.Muted.Render("no "+v.Name()))
	} else {
		cells := make([][]string, len(rows))
		for i, r := range rows {
			cells[i] = append([]string{r.ID}, r.Cells...)
		}
		headers := append([]string{"ID"}, v.Headers()...)
		widths := append([]int{idWidth(rows)}, v.Widths()...)
		maxW := 0
		if w := e.width(); w > 0 {
			maxW = w - 4
		}
		lines = append(lines, ui.Table(headers, widths, cells, maxW))
	}
	lines = append(lines, "", t.Muted.Render(listingTip(v)))
	fmt.Fprintln(e.opt.Stdout, ui.Panel(lines))
}

func idWidth(rows []resource.Row) int {
	w := 2
	for _, r := range rows {
		w = max(w, len(r.ID))
	}
	return min(w, 24)
}

func listingTip(v resource.View) string {
	if fs := v.Filters(); len(fs) > 0 {
		return fmt.Sprintf("Tip: narrow with `hcadmin ls %s --filter %s=%s`", v.Name(), fs[0].Name, fs[0].Values[0])
	}
	return fmt.Sprintf("Tip: search with `hcadmin ls %s -q <text>`", v.Name())
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (e *env) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <resource> <id>",
		Short: "Show every field of one row",
		Args:  exactArgs(2, "show <resource> <id>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := e.loaded(cmd, args[0])
			if err != nil {
				return err
			}
			detail := v.Detail(args[1])
			if detail == nil {
				return notFound(v, args[1])
			}
			t := ui.Current()
			labelW := 0
			for _, kv := range detail {
				labelW = max(labelW, len(kv[0]))
			}
			lines := []string{t.Title.Render(titleCase(v.Singular()) + " " + args[1]), ""}
			for _, kv := range detail {
				lines = append(lines, t.Muted.Render(kv[0]+strings.Repeat(" ", labelW-len(kv[0])))+"  "+orDash(kv[1]))
			}
			if acts := v.ActionsFor(args[1]); len(acts) > 0 {
				names := make([]string, len(acts))
				for i, a := range acts {
					names[i] = a.Name
				}
				lines = append(lines, "", t.Muted.Render("actions: "+strings.Join(names, ", ")))
			}
			fmt.Fprintln(e.opt.Stdout, ui.Panel(lines))
			return nil
		},
	}
}

func notFound(v resource.View, id string) error {
	return usagef("%s %q not found. Hint: run `hcadmin ls %s` to see valid ids", v.Singular(), id, v.Name())
}

// permitted applies the permission gate to a mutating command.
func (e *env) permitted(what string, ok bool) error {
	if ok {
		return nil
	}
	return fmt.Errorf("your account is not allowed to %s", what)
}

func (e *env) addCmd() *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "add <resource> --set k=v...",
		Short: "Create a row",
		Args:  exactArgs(1, "add <resource> --set k=v..."),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := pairs("set", sets)
			if err != nil {
				return err
			}
			return e.create(cmd, args[0], values)
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field value as key=value (repeatable)")
	return cmd
}

func (e *env) editCmd() *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "edit <resource> <id> --set k=v...",
		Short: "Update a row; unset fields keep their value",
		Args:  exactArgs(2, "edit <resource> <id> --set k=v..."),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := pairs("set", sets)
			if err != nil {
				return err
			}
			if len(values) == 0 {
				return usagef("usage: hcadmin edit <resource> <id> --set k=v...")
			}
			snap, err := e.loggedIn()
			if err != nil {
				return err
			}
			if err := e.permitted("edit", snap.Perms.Write); err != nil {
				return err
			}
			v, err := e.loaded(cmd, args[0])
			if err != nil {
				return err
			}
			if !v.CanUpdate() {
				return fmt.Errorf("%s cannot be edited from the console: %w", v.Name(), resource.ErrNotSupported)
			}
			f, err := v.EditForm(args[1])
			if err != nil {
				return notFound(v, args[1])
			}
			if err := f.Resolve(cmd.Context()); err != nil {
				e.log.Warn().Err(err).Msg("form options")
			}
			if err := fill(&f, values); err != nil {
				return err
			}
			_, err = v.Submit(cmd.Context(), f)
			return err
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field value as key=value (repeatable)")
	return cmd
}

func (e *env) rmCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "rm <resource> <id>",
		Short: "Delete a row (asks for --yes)",
		Args:  exactArgs(2, "rm <resource> <id> [--yes]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.remove(cmd, args[0], args[1], yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the deletion")
	return cmd
}

func (e *env) create(cmd *cobra.Command, name string, values map[string]string) error {
	snap, err := e.loggedIn()
	if err != nil {
		return err
	}
	if err := e.permitted("create", snap.Perms.Write); err != nil {
		return err
	}
	v, err := e.view(name)
	if err != nil {
		return err
	}
	if !v.CanCreate() {
		return fmt.Errorf("%s cannot be created from the console: %w", v.Name(), resource.ErrNotSupported)
	}
	f := v.NewForm()
	if err := f.Resolve(cmd.Context()); err != nil {
		e.log.Warn().Err(err).Msg("form options")
	}
	if err := fill(&f, values); err != nil {
		return err
	}
	_, err = v.Submit(cmd.Context(), f)
	return err
}

func (e *env) remove(cmd *cobra.Command, name, id string, yes bool) error {
	snap, err := e.loggedIn()
	if err != nil {
		return err
	}
	if err := e.permitted("delete", snap.Perms.Delete); err != nil {
		return err
	}
	v, err := e.loaded(cmd, name)
	if err != nil {
		return err
	}
	if !v.CanDelete() {
		return fmt.Errorf("%s cannot be deleted from the console: %w", v.Name(), resource.ErrNotSupported)
	}
	if v.Detail(id) == nil {
		return notFound(v, id)
	}
	err = v.Delete(cmd.Context(), id, yes)
	if errors.Is(err, resource.ErrNotConfirmed) {
		return usagef("this deletes %s %s; add --yes to confirm", v.Singular(), id)
	}
	return err
}

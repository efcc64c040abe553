package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/hcadmin/internal/model"
	"github.com/idilsaglam/hcadmin/internal/resource"
	"github.com/idilsaglam/hcadmin/internal/ui"
)

type rsMode int

const (
	modeList rsMode = iota
	modeSearch
	modeForm
	modeInput
	modeConfirm
	modeDetail
)

type (
	loadedMsg struct {
		seq int
		err error
	}
	formReadyMsg struct {
		seq  int
		form resource.Form
		err  error
	}
	opDoneMsg struct {
		seq    int
		closed bool
		err    error
	}
)

type resourceKeys struct {
	Up, Down, PrevPage, NextPage     key.Binding
	Search, Filter, NextFilter, Size key.Binding
	Add, Edit, Delete, Detail        key.Binding
	Reload, Back                     key.Binding
}

func newResourceKeys() resourceKeys {
	return resourceKeys{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PrevPage:   key.NewBinding(key.WithKeys("left", "h", "pgup"), key.WithHelp("←/h", "prev page")),
		NextPage:   key.NewBinding(key.WithKeys("right", "l", "pgdown"), key.WithHelp("→/l", "next page")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Filter:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		NextFilter: key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "next filter")),
		Size:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "page size")),
		Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Detail:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Back:       key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "back")),
	}
}

// resourceScreen is the list view of one collection with its dialogs.
type resourceScreen struct {
	seq   int
	ctx   context.Context
	v     resource.View
	perms model.Permissions

	width, height int
	cursor        int
	filterIdx     int
	mode          rsMode
	busy          bool
	loadErr       error

	pager  paginator.Model
	search textinput.Model
	spin   spinner.Model
	help   help.Model
	keys   resourceKeys
	acts   []resource.ActionSpec

	form     formModel
	formSpec resource.Form

	inputAct resource.ActionSpec
	inputID  string

	confirmText string
	confirmRun  tea.Cmd
}

func newResourceScreen(ctx context.Context, seq int, v resource.View, perms model.Permissions) *resourceScreen {
	s := &resourceScreen{
		seq:   seq,
		ctx:   ctx,
		v:     v,
		perms: perms,
		pager: paginator.New(),
		spin:  spinner.New(),
		help:  help.New(),
		keys:  newResourceKeys(),
		acts:  v.Actions(),
	}
	s.pager.Type = paginator.Arabic
	s.pager.ArabicFormat = "page %d/%d"
	s.pager.KeyMap.PrevPage.SetEnabled(false)
	s.pager.KeyMap.NextPage.SetEnabled(false)
	s.spin.Spinner = spinner.Dot

	s.search = textinput.New()
	s.search.Prompt = "/ "
	s.search.Placeholder = "search " + v.Name()

	s.keys.Add.SetEnabled(perms.Write && v.CanCreate())
	s.keys.Edit.SetEnabled(perms.Write && v.CanUpdate())
	s.keys.Delete.SetEnabled(perms.Delete && v.CanDelete())
	s.keys.Filter.SetEnabled(len(v.Filters()) > 0)
	s.keys.NextFilter.SetEnabled(len(v.Filters()) > 1)
	return s
}

func (s *resourceScreen) Init() tea.Cmd {
	s.busy = true
	return tea.Batch(s.spin.Tick, s.load())
}

func (s *resourceScreen) Close() {}

func (s *resourceScreen) load() tea.Cmd {
	ctx, v, seq := s.ctx, s.v, s.seq
	return func() tea.Msg {
		return loadedMsg{seq: seq, err: v.Load(ctx)}
	}
}

// op wraps fn as a command; the controller sends its own notice.
func (s *resourceScreen) op(fn func(ctx context.Context) (bool, error)) tea.Cmd {
	ctx, seq := s.ctx, s.seq
	return func() tea.Msg {
		closed, err := fn(ctx)
		return opDoneMsg{seq: seq, closed: closed, err: err}
	}
}

// start marks the screen busy while cmd runs.
func (s *resourceScreen) start(cmd tea.Cmd) tea.Cmd {
	s.busy = true
	return tea.Batch(s.spin.Tick, cmd)
}

// refresh re-derives the pager and clamps the cursor after the rows changed.
func (s *resourceScreen) refresh() {
	s.pager.PerPage = s.v.PageSize()
	if n := s.v.Len(); n > 0 {
		s.pager.SetTotalPages(n)
	} else {
		s.pager.TotalPages = 1
	}
	s.pager.Page = min(s.pager.Page, s.pager.TotalPages-1)
	n := len(s.v.PageRows(s.pager.Page))
	s.cursor = max(min(s.cursor, n-1), 0)
}

func (s *resourceScreen) selected() (resource.Row, bool) {
	rows := s.v.PageRows(s.pager.Page)
	if s.cursor < 0 || s.cursor >= len(rows) {
		return resource.Row{}, false
	}
	return rows[s.cursor], true
}

func (s *resourceScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width, s.height = msg.Width, msg.Height
		s.help.Width = msg.Width - 4
		return s, nil
	case spinner.TickMsg:
		if !s.busy {
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd
	case loadedMsg:
		if msg.seq != s.seq {
			return s, nil
		}
		s.busy, s.loadErr = false, msg.err
		s.refresh()
		return s, nil
	case formReadyMsg:
		if msg.seq != s.seq {
			return s, nil
		}
		s.busy = false
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			return s, notify(resource.LevelError, msg.err.Error())
		}
		s.openForm(msg.form)
		return s, textinput.Blink
	case opDoneMsg:
		if msg.seq != s.seq {
			return s, nil
		}
		s.busy = false
		s.refresh()
		switch s.mode {
		case modeForm, modeInput:
			if msg.err == nil || msg.closed {
				s.mode = modeList
			} else {
				s.form.err = msg.err.Error()
			}
		}
		return s, nil
	case tea.KeyMsg:
		if s.busy && s.mode != modeSearch {
			return s, nil
		}
		switch s.mode {
		case modeSearch:
			return s.updateSearch(msg)
		case modeForm, modeInput:
			return s.updateForm(msg)
		case modeConfirm:
			return s.updateConfirm(msg)
		case modeDetail:
			if msg.String() == "esc" || msg.String() == "enter" || msg.String() == "q" {
				s.mode = modeList
			}
			return s, nil
		}
		return s.updateList(msg)
	}
	return s, nil
}

func notify(level resource.Level, text string) tea.Cmd {
	return func() tea.Msg { return noticeMsg(resource.Notice{Level: level, Text: text}) }
}

func (s *resourceScreen) updateList(msg tea.KeyMsg) (screen, tea.Cmd) {
	k := s.keys
	switch {
	case key.Matches(msg, k.Up):
		s.cursor = max(s.cursor-1, 0)
	case key.Matches(msg, k.Down):
		s.cursor++
		s.refresh()
	case key.Matches(msg, k.PrevPage):
		s.pager.PrevPage()
		s.cursor = 0
	case key.Matches(msg, k.NextPage):
		s.pager.NextPage()
		s.cursor = 0
	case key.Matches(msg, k.Search):
		s.mode = modeSearch
		s.search.Focus()
		return s, textinput.Blink
	case key.Matches(msg, k.Filter):
		s.cycleFilter()
	case key.Matches(msg, k.NextFilter):
		s.filterIdx = (s.filterIdx + 1) % len(s.v.Filters())
	case key.Matches(msg, k.Size):
		i := slices.Index(resource.PageSizes, s.v.PageSize())
		_ = s.v.SetPageSize(resource.PageSizes[(i+1)%len(resource.PageSizes)])
		s.pager.Page, s.cursor = 0, 0
		s.refresh()
	case key.Matches(msg, k.Reload):
		s.busy = true
		return s, tea.Batch(s.spin.Tick, s.load())
	case key.Matches(msg, k.Add):
		return s, s.prepareForm("")
	case key.Matches(msg, k.Edit):
		if row, ok := s.selected(); ok {
			return s, s.prepareForm(row.ID)
		}
	case key.Matches(msg, k.Delete):
		if row, ok := s.selected(); ok {
			id := row.ID
			s.ask(fmt.Sprintf("Delete %s %q?", s.v.Singular(), rowLabel(row)), s.op(func(ctx context.Context) (bool, error) {
				return true, s.v.Delete(ctx, id, true)
			}))
		}
	case key.Matches(msg, k.Detail):
		if _, ok := s.selected(); ok {
			s.mode = modeDetail
		}
	case key.Matches(msg, k.Back):
		if s.v.Query() != "" {
			s.search.SetValue("")
			s.v.SetQuery("")
			s.refresh()
			return s, nil
		}
		return s, back
	default:
		return s, s.action(msg)
	}
	return s, nil
}

func rowLabel(r resource.Row) string {
	if len(r.Cells) > 0 && r.Cells[0] != "" {
		return r.Cells[0]
	}
	return r.ID
}

func (s *resourceScreen) cycleFilter() {
	fs := s.v.Filters()
	if len(fs) == 0 {
		return
	}
	f := fs[s.filterIdx%len(fs)]
	values := append([]string{resource.FilterAll}, f.Values...)
	i := slices.Index(values, f.Current)
	_ = s.v.SetFilter(f.Name, values[(i+1)%len(values)])
	s.pager.Page, s.cursor = 0, 0
	s.refresh()
}

// action runs the row or bulk action bound to the key, if any.
func (s *resourceScreen) action(msg tea.KeyMsg) tea.Cmd {
	var chosen resource.ActionSpec
	found := false
	for _, a := range s.acts {
		if a.Key == msg.String() && a.Allowed(s.perms) {
			chosen, found = a, true
			break
		}
	}
	if !found {
		return nil
	}
	name := chosen.Name
	if chosen.Bulk {
		run := s.op(func(ctx context.Context) (bool, error) {
			return true, s.v.DoAll(ctx, name, true)
		})
		if chosen.Confirm {
			s.ask(chosen.Label+"?", run)
			return nil
		}
		return s.start(run)
	}

	row, ok := s.selected()
	if !ok {
		return nil
	}
	applies := false
	for _, a := range s.v.ActionsFor(row.ID) {
		applies = applies || a.Name == name
	}
	if !applies {
		return notify(resource.LevelInfo, fmt.Sprintf("%s does not apply to this %s", chosen.Label, s.v.Singular()))
	}
	id := row.ID
	if chosen.Input != nil {
		s.inputAct, s.inputID = chosen, id
		s.form = newForm(chosen.Label, []resource.Field{*chosen.Input}, nil)
		s.mode = modeInput
		return textinput.Blink
	}
	run := s.op(func(ctx context.Context) (bool, error) {
		return true, s.v.Do(ctx, name, id, "")
	})
	if chosen.Confirm {
		s.ask(fmt.Sprintf("%s for %q?", chosen.Label, rowLabel(row)), run)
		return nil
	}
	return s.start(run)
}

func (s *resourceScreen) ask(text string, run tea.Cmd) {
	s.confirmText, s.confirmRun, s.mode = text, run, modeConfirm
}

func (s *resourceScreen) prepareForm(id string) tea.Cmd {
	s.busy = true
	ctx, v, seq := s.ctx, s.v, s.seq
	return tea.Batch(s.spin.Tick, func() tea.Msg {
		var (
			f   resource.Form
			err error
		)
		if id == "" {
			f = v.NewForm()
		} else if f, err = v.EditForm(id); err != nil {
			return formReadyMsg{seq: seq, err: err}
		}
		if err := f.Resolve(ctx); err != nil {
			return formReadyMsg{seq: seq, form: f, err: err}
		}
		return formReadyMsg{seq: seq, form: f}
	})
}

func (s *resourceScreen) openForm(f resource.Form) {
	title := "New " + s.v.Singular()
	if f.IsEdit() {
		title = "Edit " + s.v.Singular()
	}
	s.formSpec = f
	s.form = newForm(title, f.Active(), f.Values)
	s.mode = modeForm
}

func (s *resourceScreen) updateSearch(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch msg.String() {
	case "enter":
		s.mode = modeList
		s.search.Blur()
		return s, nil
	case "esc":
		s.mode = modeList
		s.search.Blur()
		s.search.SetValue("")
		s.v.SetQuery("")
		s.refresh()
		return s, nil
	}
	var cmd tea.Cmd
	s.search, cmd = s.search.Update(msg)
	if s.search.Value() != s.v.Query() {
		s.v.SetQuery(s.search.Value())
		s.pager.Page, s.cursor = 0, 0
		s.refresh()
	}
	return s, cmd
}

func (s *resourceScreen) updateForm(msg tea.KeyMsg) (screen, tea.Cmd) {
	var (
		res formResult
		cmd tea.Cmd
	)
	s.form, res, cmd = s.form.Update(msg)
	switch res {
	case formCanceled:
		s.mode = modeList
		return s, nil
	case formSubmitted:
		s.form.err = ""
		values := s.form.Values()
		if s.mode == modeInput {
			name, id, input := s.inputAct.Name, s.inputID, values[s.inputAct.Input.Key]
			return s, s.start(s.op(func(ctx context.Context) (bool, error) {
				err := s.v.Do(ctx, name, id, input)
				return err == nil, err
			}))
		}
		f := s.formSpec
		for k, v := range values {
			f.Set(k, v)
		}
		return s, s.start(s.op(func(ctx context.Context) (bool, error) {
			return s.v.Submit(ctx, f)
		}))
	}
	return s, cmd
}

func (s *resourceScreen) updateConfirm(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y":
		s.mode = modeList
		run := s.confirmRun
		s.confirmRun = nil
		return s, s.start(run)
	case "n", "esc", "q":
		s.mode = modeList
		s.confirmRun = nil
	}
	return s, nil
}

func (s *resourceScreen) View() string {
	t := ui.Current()
	v := s.v
	lines := []string{fmt.Sprintf("%s   %s %d  %s %d  %s",
		t.Title.Render(entryTitle(v.Name())),
		t.Accent.Render("shown"), v.Len(),
		t.Muted.Render("of"), v.Total(),
		t.Muted.Render(fmt.Sprintf("%d per page", v.PageSize())),
	)}
	if stats := v.Stats(); len(stats) > 0 {
		parts := make([]string, len(stats))
		for i, st := range stats {
			parts[i] = t.Muted.Render(st.Label) + " " + st.Value
		}
		lines = append(lines, strings.Join(parts, "  "))
	}
	if fs := v.Filters(); len(fs) > 0 {
		parts := make([]string, len(fs))
		for i, f := range fs {
			p := f.Name + "=" + f.Current
			if i == s.filterIdx%len(fs) {
				p = t.Accent.Render(p)
			} else {
				p = t.Muted.Render(p)
			}
			parts[i] = p
		}
		lines = append(lines, t.Muted.Render("filter ")+strings.Join(parts, "  "))
	}
	if s.mode == modeSearch || v.Query() != "" {
		lines = append(lines, s.search.View())
	}
	lines = append(lines, "")

	switch s.mode {
	case modeForm, modeInput:
		lines = append(lines, s.form.View())
		if s.busy {
			lines = append(lines, s.spin.View()+" saving…")
		}
		return strings.Join(lines, "\n")
	case modeDetail:
		lines = append(lines, s.detailView())
		lines = append(lines, "", t.Muted.Render("esc back"))
		return strings.Join(lines, "\n")
	}

	lines = append(lines, s.tableView())
	switch {
	case s.busy:
		lines = append(lines, "", s.spin.View()+" working…")
	case s.mode == modeConfirm:
		lines = append(lines, "", t.Pending.Render(s.confirmText)+t.Muted.Render("  y/n"))
	}
	lines = append(lines, "", s.pager.View(), s.help.ShortHelpView(s.bindings()))
	return strings.Join(lines, "\n")
}

func (s *resourceScreen) tableView() string {
	t := ui.Current()
	rows := s.v.PageRows(s.pager.Page)
	if len(rows) == 0 {
		switch {
		case s.busy && !s.v.Loaded():
			return t.Muted.Render("loading " + s.v.Name() + "…")
		case s.loadErr != nil:
			return t.Error.Render(t.SymFail+" could not load "+s.v.Name()) + t.Muted.Render("  r to retry")
		}
		return t.Muted.Render("No " + s.v.Name() + " found")
	}
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = r.Cells
	}
	maxW := 0
	if s.width > 0 {
		maxW = s.width - 8
	}
	out := strings.Split(ui.Table(s.v.Headers(), s.v.Widths(), cells, maxW), "\n")
	for i := range out {
		switch {
		case i == 0:
			out[i] = "  " + out[i]
		case i-1 == s.cursor:
			out[i] = t.Selected.Render(">") + " " + t.Selected.Render(out[i])
		default:
			out[i] = "  " + out[i]
		}
	}
	return strings.Join(out, "\n")
}

func (s *resourceScreen) detailView() string {
	t := ui.Current()
	row, ok := s.selected()
	if !ok {
		return ""
	}
	detail := s.v.Detail(row.ID)
	labelW := 0
	for _, kv := range detail {
		labelW = max(labelW, len(kv[0]))
	}
	lines := []string{t.Title.Render(entryTitle(s.v.Singular()) + " " + rowLabel(row))}
	for _, kv := range detail {
		val := kv[1]
		if val == "" {
			val = "-"
		}
		lines = append(lines, t.Muted.Render(ui.Pad(kv[0], labelW))+"  "+val)
	}
	var names []string
	for _, a := range s.v.ActionsFor(row.ID) {
		if a.Allowed(s.perms) {
			names = append(names, a.Key+" "+strings.ToLower(a.Label))
		}
	}
	if len(names) > 0 {
		lines = append(lines, "", t.Muted.Render("from the list: "+strings.Join(names, " · ")))
	}
	return strings.Join(lines, "\n")
}

// bindings is the help line: enabled navigation keys plus the actions.
func (s *resourceScreen) bindings() []key.Binding {
	k := s.keys
	out := []key.Binding{k.Search, k.Filter, k.NextFilter, k.Size, k.Add, k.Edit, k.Delete, k.Detail}
	for _, a := range s.acts {
		if a.Allowed(s.perms) {
			out = append(out, key.NewBinding(key.WithKeys(a.Key), key.WithHelp(a.Key, strings.ToLower(a.Label))))
		}
	}
	return append(out, k.Reload, k.Back)
}

func entryTitle(name string) string {
	for _, e := range entries {
		if e.name == name {
			return e.title
		}
	}
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/hcadmin/internal/report"
	"github.com/idilsaglam/hcadmin/internal/resource"
	"github.com/idilsaglam/hcadmin/internal/ui"
)

type reportDoneMsg struct {
	kind, path string
	rows       int
	err        error
}

// reportsScreen exports one collection at a time to CSV in the working
// directory.
type reportsScreen struct {
	ctx     context.Context
	d       Deps
	notices resource.Notifier
	cursor  int
	query   textinput.Model
	editing bool
	busy    bool
	spin    spinner.Model
	last    string
}

func newReports(ctx context.Context, d Deps, n resource.Notifier) *reportsScreen {
	q := textinput.New()
	q.Prompt = "/ "
	q.Placeholder = "only rows matching…"
	s := &reportsScreen{ctx: ctx, d: d, notices: n, query: q, spin: spinner.New()}
	s.spin.Spinner = spinner.Dot
	return s
}

func (s *reportsScreen) Init() tea.Cmd { return nil }
func (s *reportsScreen) Close()        {}

func (s *reportsScreen) export() tea.Cmd {
	kind := report.Kinds[s.cursor]
	ctx, d, n, query := s.ctx, s.d, s.notices, strings.TrimSpace(s.query.Value())
	s.busy = true
	return tea.Batch(s.spin.Tick, func() tea.Msg {
		v, err := resource.Open(kind, resource.Deps{
			Client: d.Client,
			UserID: func() string { return d.Session.Snapshot().User.ID },
			Notify: n,
			Log:    d.Log,
		})
		if err != nil {
			return reportDoneMsg{kind: kind, err: err}
		}
		path, rows, err := report.Export(ctx, v, ".", query, d.Now())
		return reportDoneMsg{kind: kind, path: path, rows: rows, err: err}
	})
}

func (s *reportsScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case reportDoneMsg:
		s.busy = false
		switch {
		case msg.err == nil:
			s.last = fmt.Sprintf("%s (%d rows)", msg.path, msg.rows)
			return s, notify(resource.LevelSuccess, fmt.Sprintf("%q report downloaded successfully!", msg.kind))
		case errors.Is(msg.err, report.ErrNoData):
			return s, notify(resource.LevelError, msg.err.Error())
		}
		// load failures were already reported by the view
		s.d.Log.Warn().Err(msg.err).Str("report", msg.kind).Msg("export failed")
		return s, nil
	case spinner.TickMsg:
		if !s.busy {
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd
	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		if s.editing {
			switch msg.String() {
			case "enter", "esc":
				s.editing = false
				s.query.Blur()
				return s, nil
			}
			var cmd tea.Cmd
			s.query, cmd = s.query.Update(msg)
			return s, cmd
		}
		switch msg.String() {
		case "up", "k":
			s.cursor = max(s.cursor-1, 0)
		case "down", "j":
			s.cursor = min(s.cursor+1, len(report.Kinds)-1)
		case "/":
			s.editing = true
			s.query.Focus()
			return s, textinput.Blink
		case "enter":
			return s, s.export()
		case "esc", "q":
			return s, back
		}
	}
	return s, nil
}

func (s *reportsScreen) View() string {
	t := ui.Current()
	lines := []string{t.Title.Render("Reports"), t.Muted.Render("CSV files are written to the current directory"), ""}
	for i, k := range report.Kinds {
		if i == s.cursor {
			lines = append(lines, t.Selected.Render(">")+" "+t.Selected.Render(entryTitle(k)))
		} else {
			lines = append(lines, "  "+entryTitle(k))
		}
	}
	lines = append(lines, "")
	if s.editing || s.query.Value() != "" {
		lines = append(lines, s.query.View())
	}
	switch {
	case s.busy:
		lines = append(lines, s.spin.View()+" exporting…")
	case s.last != "":
		lines = append(lines, t.Muted.Render("last: "+s.last))
	}
	lines = append(lines, "", t.Muted.Render("enter download · / filter rows · esc back"))
	return strings.Join(lines, "\n")
}

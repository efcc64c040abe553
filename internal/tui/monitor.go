package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/hcadmin/internal/monitor"
	"github.com/idilsaglam/hcadmin/internal/ui"
)

type (
	monitorStateMsg struct {
		st monitor.State
		ok bool
	}
	monitorStoppedMsg struct{ err error }
	clockMsg          time.Time
)

// monitorScreen owns a Monitor for as long as it is shown.
type monitorScreen struct {
	ctx   context.Context
	m     *monitor.Monitor
	now   func() time.Time
	state monitor.State
	width int
	done  bool
	err   error
}

func newMonitor(ctx context.Context, d Deps) *monitorScreen {
	m := monitor.New(d.Client, d.Config.SocketURL, d.Config.PollInterval,
		monitor.WithLogger(d.Log), monitor.WithClock(d.Now))
	return &monitorScreen{ctx: ctx, m: m, now: d.Now}
}

func (s *monitorScreen) Init() tea.Cmd {
	m, ctx := s.m, s.ctx
	return tea.Batch(
		func() tea.Msg { return monitorStoppedMsg{err: m.Run(ctx)} },
		s.next(),
		s.clock(),
	)
}

// next waits for the monitor's following state.
func (s *monitorScreen) next() tea.Cmd {
	updates := s.m.Updates()
	return func() tea.Msg {
		st, ok := <-updates
		return monitorStateMsg{st: st, ok: ok}
	}
}

func (s *monitorScreen) clock() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return clockMsg(t) })
}

// Close stops the socket and the poll ticker.
func (s *monitorScreen) Close() { _ = s.m.Close() }

func (s *monitorScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
	case monitorStateMsg:
		if !msg.ok {
			return s, nil
		}
		s.state = msg.st
		return s, s.next()
	case monitorStoppedMsg:
		s.done, s.err = true, msg.err
	case clockMsg:
		if s.done {
			return s, nil
		}
		return s, s.clock()
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return s, back
		}
	}
	return s, nil
}

func (s *monitorScreen) View() string {
	t := ui.Current()
	out := RenderMonitor(s.state, s.now(), s.width)
	if s.err != nil {
		out += "\n\n" + t.Error.Render(t.SymFail+" "+s.err.Error())
	}
	return out + "\n\n" + t.Muted.Render("esc back")
}

package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/hcadmin/internal/dashboard"
	"github.com/idilsaglam/hcadmin/internal/ui"
)

type dashResultMsg struct {
	gen int
	res dashboard.Result
}

// dashboardScreen issues every call at once and fills each card as its
// call settles.
type dashboardScreen struct {
	ctx   context.Context
	agg   *dashboard.Aggregator
	state dashboard.State
	gen   int
	width int
	spin  spinner.Model
}

func newDashboard(ctx context.Context, d Deps) *dashboardScreen {
	s := &dashboardScreen{ctx: ctx, agg: dashboard.New(d.Client, d.Log), spin: spinner.New()}
	s.spin.Spinner = spinner.MiniDot
	return s
}

func (s *dashboardScreen) Init() tea.Cmd {
	s.gen++
	s.state = dashboard.Initial()
	cmds := []tea.Cmd{s.spin.Tick}
	for _, req := range dashboard.Requests {
		ctx, agg, gen := s.ctx, s.agg, s.gen
		cmds = append(cmds, func() tea.Msg {
			return dashResultMsg{gen: gen, res: agg.Fetch(ctx, req)}
		})
	}
	return tea.Batch(cmds...)
}

func (s *dashboardScreen) Close() {}

func (s *dashboardScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
	case dashResultMsg:
		if msg.gen == s.gen && s.ctx.Err() == nil {
			s.state = s.state.Apply(msg.res)
		}
	case spinner.TickMsg:
		if s.state.Done() {
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			if s.state.Done() {
				return s, s.Init()
			}
		case "esc", "q":
			return s, back
		}
	}
	return s, nil
}

func (s *dashboardScreen) View() string {
	return RenderDashboard(s.state, s.width, s.spin.View()) + "\n\n" +
		ui.Current().Muted.Render("r refresh · esc back")
}

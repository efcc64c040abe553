// Package tui is the interactive console: a login form, a menu of screens
// and one screen per collection, the dashboard, the live monitor, reports
// and the admin's own profile.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/idilsaglam/hcadmin/internal/api"
	"github.com/idilsaglam/hcadmin/internal/config"
	"github.com/idilsaglam/hcadmin/internal/resource"
	"github.com/idilsaglam/hcadmin/internal/session"
	"github.com/idilsaglam/hcadmin/internal/ui"
)

// Deps is everything the console needs from the process.
type Deps struct {
	Session *session.Session
	Client  *api.Client
	Config  *config.Config
	Log     zerolog.Logger
	Now     func() time.Time
	In      io.Reader
	Out     io.Writer
}

// Run starts the console and blocks until the user quits or ctx ends.
func Run(ctx context.Context, d Deps) error {
	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if d.In != nil {
		opts = append(opts, tea.WithInput(d.In))
	}
	if d.Out != nil {
		opts = append(opts, tea.WithOutput(d.Out))
	}
	_, err := tea.NewProgram(newApp(ctx, d), opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// screen is one page of the console. Close releases whatever the screen
// holds open; it is called when the screen is left.
type screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (screen, tea.Cmd)
	View() string
	Close()
}

type (
	navigateMsg struct{ to string }
	backMsg     struct{}
	loggedInMsg struct{ msg string }
	logoutMsg   struct{}
	noticeMsg   resource.Notice
	unreadMsg   struct {
		n   int
		err error
	}
	unreadTickMsg struct{}
)

func navigate(to string) tea.Cmd { return func() tea.Msg { return navigateMsg{to: to} } }
func back() tea.Msg              { return backMsg{} }

// notices turns resource notifications into messages. Sends never block;
// a full buffer drops the notice.
type notices chan resource.Notice

func (n notices) Notify(x resource.Notice) {
	select {
	case n <- x:
	default:
	}
}

const noticeTTL = 5 * time.Second

type app struct {
	d       Deps
	ctx     context.Context
	notices notices

	cur       screen
	curName   string
	cancelCur context.CancelFunc
	seq       int

	width, height int
	notice        resource.Notice
	noticeAt      time.Time
	unread        int
	unreadOn      bool
}

func newApp(ctx context.Context, d Deps) app {
	if d.Now == nil {
		d.Now = time.Now
	}
	a := app{d: d, ctx: ctx, notices: make(notices, 16)}
	if d.Session.Snapshot().LoggedIn() {
		a = a.open("menu")
	} else {
		a = a.open("login")
	}
	return a
}

func (a app) Init() tea.Cmd {
	cmds := []tea.Cmd{a.waitNotice(), a.cur.Init()}
	if a.curName != "login" {
		cmds = append(cmds, a.fetchUnread())
	}
	return tea.Batch(cmds...)
}

// open leaves the current screen and builds the named one.
func (a app) open(name string) app {
	if a.cur != nil {
		a.cur.Close()
	}
	if a.cancelCur != nil {
		a.cancelCur()
	}
	ctx, cancel := context.WithCancel(a.ctx)
	a.seq++
	a.cur, a.curName, a.cancelCur = a.build(ctx, name), name, cancel
	if a.width > 0 {
		a.cur, _ = a.cur.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height - chromeHeight})
	}
	return a
}

func (a app) build(ctx context.Context, name string) screen {
	snap := a.d.Session.Snapshot()
	switch name {
	case "login":
		return newLogin(ctx, a.d)
	case "menu":
		return newMenu(snap)
	case "dashboard":
		return newDashboard(ctx, a.d)
	case "monitor":
		return newMonitor(ctx, a.d)
	case "reports":
		return newReports(ctx, a.d, a.notices)
	case "profile":
		return newProfile(ctx, a.d)
	}
	v, err := resource.Open(name, resource.Deps{
		Client: a.d.Client,
		UserID: func() string { return a.d.Session.Snapshot().User.ID },
		Notify: a.notices,
		Log:    a.d.Log,
	})
	if err != nil {
		a.notices.Notify(resource.Notice{Level: resource.LevelError, Text: err.Error()})
		return newMenu(snap)
	}
	_ = v.SetPageSize(a.d.Config.PageSize)
	return newResourceScreen(ctx, a.seq, v, snap.Perms)
}

// chromeHeight is the rows taken by the header and the status line.
const chromeHeight = 4

func (a app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		var cmd tea.Cmd
		a.cur, cmd = a.cur.Update(tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - chromeHeight})
		return a, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.cur.Close()
			a.cancelCur()
			return a, tea.Quit
		}
	case navigateMsg:
		a = a.open(msg.to)
		return a, a.cur.Init()
	case backMsg:
		if a.curName == "menu" || a.curName == "login" {
			a.cur.Close()
			return a, tea.Quit
		}
		a = a.open("menu")
		return a, a.cur.Init()
	case loggedInMsg:
		a.setNotice(resource.Notice{Level: resource.LevelSuccess, Text: msg.msg})
		a = a.open("menu")
		return a, tea.Batch(a.cur.Init(), a.fetchUnread())
	case logoutMsg:
		if err := a.d.Session.Logout(); err != nil {
			a.setNotice(resource.Notice{Level: resource.LevelError, Text: err.Error()})
			return a, nil
		}
		a.unread, a.unreadOn = 0, false
		a.setNotice(resource.Notice{Level: resource.LevelInfo, Text: "Signed out"})
		a = a.open("login")
		return a, a.cur.Init()
	case noticeMsg:
		a.setNotice(resource.Notice(msg))
		return a, a.waitNotice()
	case unreadMsg:
		if msg.err == nil {
			a.unread, a.unreadOn = msg.n, true
		} else {
			a.d.Log.Debug().Err(msg.err).Msg("unread count")
		}
		return a, a.unreadTick()
	case unreadTickMsg:
		if a.curName == "login" {
			return a, nil
		}
		return a, a.fetchUnread()
	}
	var cmd tea.Cmd
	a.cur, cmd = a.cur.Update(msg)
	return a, cmd
}

func (a *app) setNotice(n resource.Notice) {
	a.notice, a.noticeAt = n, a.d.Now()
}

func (a app) waitNotice() tea.Cmd {
	ch, ctx := a.notices, a.ctx
	return func() tea.Msg {
		select {
		case n := <-ch:
			return noticeMsg(n)
		case <-ctx.Done():
			return nil
		}
	}
}

func (a app) fetchUnread() tea.Cmd {
	d, ctx := a.d, a.ctx
	return func() tea.Msg {
		id := d.Session.Snapshot().User.ID
		if id == "" {
			return unreadMsg{err: session.ErrNotLoggedIn}
		}
		n, err := d.Client.UnreadCount(ctx, id)
		return unreadMsg{n: n, err: err}
	}
}

func (a app) unreadTick() tea.Cmd {
	return tea.Tick(a.d.Config.PollInterval, func(time.Time) tea.Msg { return unreadTickMsg{} })
}

func (a app) View() string {
	t := ui.Current()
	snap := a.d.Session.Snapshot()
	header := t.Title.Render("HealthConnect admin")
	if snap.LoggedIn() {
		who := snap.User.FullName()
		if who == "" {
			who = snap.User.Email
		}
		header += t.Muted.Render("  " + who + " · " + snap.User.DisplayRole())
		if a.unreadOn {
			badge := t.Muted.Render(fmt.Sprintf("  %s 0 unread", t.SymBullet))
			if a.unread > 0 {
				badge = "  " + t.Pending.Render(fmt.Sprintf("%s %d unread", t.SymBullet, a.unread))
			}
			header += badge
		}
	}

	status := ""
	if a.notice.Text != "" && a.d.Now().Sub(a.noticeAt) < noticeTTL {
		switch a.notice.Level {
		case resource.LevelSuccess:
			status = t.Success.Render(t.SymOK + " " + a.notice.Text)
		case resource.LevelError:
			status = t.Error.Render(t.SymFail + " " + a.notice.Text)
		default:
			status = t.Muted.Render(a.notice.Text)
		}
	}

	body := a.cur.View()
	if a.width > 0 {
		body = clip(body, a.height-chromeHeight)
	}
	return ui.Panel([]string{header, "", body, status})
}

// clip keeps at most n lines.
func clip(s string, n int) string {
	if n <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n")
}

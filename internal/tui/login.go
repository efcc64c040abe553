package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/hcadmin/internal/ui"
)

type loginDoneMsg struct {
	msg string
	err error
}

const (
	focusEmail = iota
	focusPassword
	focusRemember
	loginFields
)

type loginScreen struct {
	ctx      context.Context
	d        Deps
	email    textinput.Model
	password textinput.Model
	remember bool
	focus    int
	busy     bool
	err      string
	spin     spinner.Model
}

func newLogin(ctx context.Context, d Deps) *loginScreen {
	email := textinput.New()
	email.Prompt = "> "
	email.Placeholder = "admin@example.com"
	email.SetValue(d.Session.RememberedEmail())
	email.CursorEnd()

	pw := textinput.New()
	pw.Prompt = "> "
	pw.Placeholder = "password"
	pw.EchoMode = textinput.EchoPassword
	pw.EchoCharacter = '•'

	s := &loginScreen{ctx: ctx, d: d, email: email, password: pw, spin: spinner.New()}
	s.spin.Spinner = spinner.Dot
	s.remember = email.Value() != ""
	if email.Value() != "" {
		s.focus = focusPassword
		s.password.Focus()
	} else {
		s.email.Focus()
	}
	return s
}

func (s *loginScreen) Init() tea.Cmd { return textinput.Blink }
func (s *loginScreen) Close()        {}

func (s *loginScreen) setFocus(i int) {
	s.focus = (i + loginFields) % loginFields
	s.email.Blur()
	s.password.Blur()
	switch s.focus {
	case focusEmail:
		s.email.Focus()
	case focusPassword:
		s.password.Focus()
	}
}

func (s *loginScreen) submit() tea.Cmd {
	s.busy, s.err = true, ""
	ctx, sess := s.ctx, s.d.Session
	email, pw, remember := strings.TrimSpace(s.email.Value()), s.password.Value(), s.remember
	return tea.Batch(s.spin.Tick, func() tea.Msg {
		msg, err := sess.Login(ctx, email, pw, remember)
		return loginDoneMsg{msg: msg, err: err}
	})
}

func (s *loginScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		s.busy = false
		if msg.err != nil {
			s.err = msg.err.Error()
			s.password.SetValue("")
			s.setFocus(focusPassword)
			return s, nil
		}
		text := msg.msg
		if text == "" {
			text = "Signed in"
		}
		return s, func() tea.Msg { return loggedInMsg{msg: text} }
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
		switch msg.String() {
		case "esc":
			return s, back
		case "tab", "down":
			s.setFocus(s.focus + 1)
			return s, nil
		case "shift+tab", "up":
			s.setFocus(s.focus - 1)
			return s, nil
		case " ":
			if s.focus == focusRemember {
				s.remember = !s.remember
				return s, nil
			}
		case "enter":
			if s.focus == focusEmail {
				s.setFocus(focusPassword)
				return s, nil
			}
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	switch s.focus {
	case focusEmail:
		s.email, cmd = s.email.Update(msg)
	case focusPassword:
		s.password, cmd = s.password.Update(msg)
	}
	return s, cmd
}

func (s *loginScreen) View() string {
	t := ui.Current()
	label := func(i int, text string) string {
		if s.focus == i {
			return t.Accent.Render(text)
		}
		return t.Muted.Render(text)
	}
	box := "[ ]"
	if s.remember {
		box = "[" + t.SymOK + "]"
	}
	lines := []string{
		t.Title.Render("Sign in"),
		"",
		label(focusEmail, "Email     ") + " " + s.email.View(),
		label(focusPassword, "Password  ") + " " + s.password.View(),
		label(focusRemember, box+" Remember me"),
		"",
	}
	switch {
	case s.busy:
		lines = append(lines, s.spin.View()+" signing in…")
	case s.err != "":
		lines = append(lines, t.Error.Render(t.SymFail+" "+s.err))
	}
	lines = append(lines, "", t.Muted.Render("tab next · space toggles remember · enter sign in · esc quit"))
	return strings.Join(lines, "\n")
}

package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/hcadmin/internal/api"
	"github.com/idilsaglam/hcadmin/internal/apitest"
	"github.com/idilsaglam/hcadmin/internal/config"
	"github.com/idilsaglam/hcadmin/internal/model"
	"github.com/idilsaglam/hcadmin/internal/resource"
	"github.com/idilsaglam/hcadmin/internal/session"
)

type fixture struct {
	b *apitest.Backend
	d Deps
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	t.Setenv(session.TokenEnv, "")
	b := apitest.New(t)
	dir := t.TempDir()

	var sess *session.Session
	client := api.New(b.URL(), api.WithToken(func() string { return sess.Token() }))
	sess, err := session.Open(dir, "super admin", client)
	require.NoError(t, err)

	cfg := config.Defaults()
	cfg.BaseURL, cfg.DataDir = b.URL(), dir
	cfg.SocketURL = b.Origin()
	return fixture{b: b, d: Deps{Session: sess, Client: client, Config: &cfg, Log: zerolog.Nop(), Now: time.Now}}
}

// signIn seeds an account with the given role and logs it in.
func (f fixture) signIn(t *testing.T, role string, perms *model.Permissions) {
	t.Helper()
	f.b.Admins = append(f.b.Admins, model.Admin{
		ID: "me", FirstName: "Ada", LastName: "Shilongo", Email: "ada@hc.na",
		Department: "Finance", Role: role, Permissions: perms, Token: "opaque-token",
	})
	f.b.Accounts["ada@hc.na"] = "secret"
	_, err := f.d.Session.Login(context.Background(), "ada@hc.na", "secret", false)
	require.NoError(t, err)
}

func (f fixture) view(t *testing.T, name string) (resource.View, notices) {
	t.Helper()
	n := make(notices, 16)
	v, err := resource.Open(name, resource.Deps{
		Client: f.d.Client,
		UserID: func() string { return "me" },
		Notify: n,
		Log:    zerolog.Nop(),
	})
	require.NoError(t, err)
	return v, n
}

func drain(n notices) []resource.Notice {
	var out []resource.Notice
	for {
		select {
		case x := <-n:
			out = append(out, x)
		default:
			return out
		}
	}
}

// run executes cmd, flattening batches. Commands that only schedule a
// redraw later are not run.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if b, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range b {
			out = append(out, run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// settle runs cmd and feeds the screen's own results back into it until
// nothing is left; every other message is returned.
func settle(s screen, cmd tea.Cmd) (screen, []tea.Msg) {
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, m := range run(c) {
			switch m.(type) {
			case loadedMsg, opDoneMsg, formReadyMsg, dashResultMsg, loginDoneMsg, profileDoneMsg, reportDoneMsg:
				var next tea.Cmd
				s, next = s.Update(m)
				queue = append(queue, next)
			default:
				out = append(out, m)
			}
		}
	}
	return s, out
}

// press sends keys one by one and settles each resulting command.
func press(s screen, keys ...string) (screen, []tea.Msg) {
	var out []tea.Msg
	for _, k := range keys {
		var cmd tea.Cmd
		s, cmd = s.Update(keyMsg(k))
		var msgs []tea.Msg
		s, msgs = settle(s, cmd)
		out = append(out, msgs...)
	}
	return s, out
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func has[T any](msgs []tea.Msg) bool {
	for _, m := range msgs {
		if _, ok := m.(T); ok {
			return true
		}
	}
	return false
}

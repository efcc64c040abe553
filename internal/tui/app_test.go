package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/hcadmin/internal/model"
	"github.com/idilsaglam/hcadmin/internal/monitor"
)

func TestApp_StartsAtLoginWhenSignedOut(t *testing.T) {
	f := newFixture(t)
	a := newApp(context.Background(), f.d)
	assert.Equal(t, "login", a.curName)
}

func TestApp_StartsAtMenuWhenSignedIn(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "super admin", nil)
	a := newApp(context.Background(), f.d)
	assert.Equal(t, "menu", a.curName)
	assert.Contains(t, a.View(), "Ada Shilongo")
}

func TestLogin_SignsInAndOpensMenu(t *testing.T) {
	f := newFixture(t)
	f.b.Admins = []model.Admin{{ID: "me", FirstName: "Ada", Email: "ada@hc.na", Role: "admin", Token: "tok"}}
	f.b.Accounts["ada@hc.na"] = "secret"
	a := newApp(context.Background(), f.d)

	s, msgs := press(a.cur, "ada@hc.na", "enter", "secret", "enter")
	require.True(t, has[loggedInMsg](msgs))
	assert.Empty(t, s.(*loginScreen).err)

	var done loggedInMsg
	for _, m := range msgs {
		if x, ok := m.(loggedInMsg); ok {
			done = x
		}
	}
	next, _ := a.Update(done)
	a = next.(app)
	assert.Equal(t, "menu", a.curName)
	assert.True(t, f.d.Session.Snapshot().LoggedIn())
}

func TestLogin_RejectionKeepsScreen(t *testing.T) {
	f := newFixture(t)
	f.b.Admins = []model.Admin{{ID: "me", Email: "ada@hc.na", Token: "tok"}}
	f.b.Accounts["ada@hc.na"] = "secret"
	s := newLogin(context.Background(), f.d)

	got, msgs := press(s, "ada@hc.na", "enter", "wrong", "enter")
	ls := got.(*loginScreen)
	assert.False(t, has[loggedInMsg](msgs))
	assert.Equal(t, "Invalid email or password", ls.err)
	assert.Empty(t, ls.password.Value())
	assert.Equal(t, focusPassword, ls.focus)
}

func TestLogin_RememberToggle(t *testing.T) {
	f := newFixture(t)
	s := newLogin(context.Background(), f.d)
	got, _ := press(s, "tab", "tab", " ")
	assert.True(t, got.(*loginScreen).remember)
}

func TestApp_NavigateBackAndLogout(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "super admin", nil)
	a := newApp(context.Background(), f.d)

	m, _ := a.Update(navigateMsg{to: "faqs"})
	a = m.(app)
	assert.Equal(t, "faqs", a.curName)
	_, ok := a.cur.(*resourceScreen)
	assert.True(t, ok)

	m, _ = a.Update(backMsg{})
	a = m.(app)
	assert.Equal(t, "menu", a.curName)

	m, _ = a.Update(logoutMsg{})
	a = m.(app)
	assert.Equal(t, "login", a.curName)
	assert.False(t, f.d.Session.Snapshot().LoggedIn())
}

func TestApp_UnreadBadge(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "super admin", nil)
	f.b.Unread = 3
	a := newApp(context.Background(), f.d)

	msgs := run(a.fetchUnread())
	require.Len(t, msgs, 1)
	m, _ := a.Update(msgs[0])
	a = m.(app)
	assert.Equal(t, 3, a.unread)
	assert.Contains(t, a.View(), "3 unread")
}

func TestApp_LeavingMonitorClosesIt(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "super admin", nil)
	a := newApp(context.Background(), f.d)

	m, _ := a.Update(navigateMsg{to: "monitor"})
	a = m.(app)
	ms, ok := a.cur.(*monitorScreen)
	require.True(t, ok)

	m, _ = a.Update(backMsg{})
	a = m.(app)
	assert.Equal(t, "menu", a.curName)
	assert.ErrorIs(t, ms.m.Run(context.Background()), monitor.ErrClosed)
}

func TestMenu_EnterOpensSelectedScreen(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "super admin", nil)
	s := newMenu(f.d.Session.Snapshot())
	_, msgs := press(s, "down", "enter")
	assert.Contains(t, msgs, tea.Msg(navigateMsg{to: "monitor"}))
}

func TestMenu_ShowsAccessLevel(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, "admin", &model.Permissions{Read: true})
	s := newMenu(f.d.Session.Snapshot())
	assert.Contains(t, s.View(), "read only")
}

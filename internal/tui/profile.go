package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/hcadmin/internal/api"
	"github.com/idilsaglam/hcadmin/internal/model"
	"github.com/idilsaglam/hcadmin/internal/resource"
	"github.com/idilsaglam/hcadmin/internal/session"
	"github.com/idilsaglam/hcadmin/internal/ui"
)

type profileDoneMsg struct {
	msg string
	err error
}

type profileMode int

const (
	profileView profileMode = iota
	profileDetails
	profilePassword
	profileAvatar
)

var (
	detailFields = []resource.Field{
		{Key: "firstName", Label: "First name", Required: true},
		{Key: "lastName", Label: "Last name", Required: true},
		{Key: "email", Label: "Email", Required: true},
		{Key: "cellphoneNumber", Label: "Cellphone", Required: true},
		{Key: "department", Label: "Department", Kind: resource.KindChoice, Required: true, Options: resource.Options(model.Departments...)},
	}
	passwordFields = []resource.Field{
		{Key: "current", Label: "Current password", Kind: resource.KindSecret, Required: true},
		{Key: "next", Label: "New password", Kind: resource.KindSecret, Required: true},
		{Key: "confirm", Label: "Confirm password", Kind: resource.KindSecret, Required: true},
	}
	avatarFields = []resource.Field{
		{Key: "path", Label: "Image file (.jpg, .jpeg, .png)", Required: true},
	}
)

type profileScreen struct {
	ctx  context.Context
	d    Deps
	mode profileMode
	form formModel
	busy bool
	spin spinner.Model
}

func newProfile(ctx context.Context, d Deps) *profileScreen {
	s := &profileScreen{ctx: ctx, d: d, spin: spinner.New()}
	s.spin.Spinner = spinner.Dot
	return s
}

func (s *profileScreen) Init() tea.Cmd { return nil }
func (s *profileScreen) Close()        {}

func (s *profileScreen) open(mode profileMode) tea.Cmd {
	s.mode = mode
	switch mode {
	case profileDetails:
		u := s.d.Session.Snapshot().User
		s.form = newForm("Edit details", detailFields, map[string]string{
			"firstName":       u.FirstName,
			"lastName":        u.LastName,
			"email":           u.Email,
			"cellphoneNumber": u.CellphoneNumber,
			"department":      u.Department,
		})
	case profilePassword:
		s.form = newForm("Change password", passwordFields, nil)
	case profileAvatar:
		s.form = newForm("Profile picture", avatarFields, nil)
	}
	return textinput.Blink
}

func (s *profileScreen) save() tea.Cmd {
	ctx, sess, mode, v := s.ctx, s.d.Session, s.mode, s.form.Values()
	s.busy = true
	return tea.Batch(s.spin.Tick, func() tea.Msg {
		var (
			msg string
			err error
		)
		switch mode {
		case profileDetails:
			msg, err = sess.UpdateProfile(ctx, api.ProfileInput{
				FirstName:       v["firstName"],
				LastName:        v["lastName"],
				Email:           v["email"],
				CellphoneNumber: v["cellphoneNumber"],
				Department:      v["department"],
			})
		case profilePassword:
			msg, err = sess.ChangePassword(ctx, v["current"], v["next"], v["confirm"])
		case profileAvatar:
			msg, err = sess.UploadAvatar(ctx, strings.TrimSpace(v["path"]))
		}
		return profileDoneMsg{msg: msg, err: err}
	})
}

func (s *profileScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case profileDoneMsg:
		s.busy = false
		if msg.err != nil {
			if errors.Is(msg.err, context.Canceled) {
				return s, nil
			}
			s.form.err = msg.err.Error()
			level := resource.LevelError
			if errors.Is(msg.err, session.ErrNoChanges) {
				level = resource.LevelInfo
			}
			return s, notify(level, msg.err.Error())
		}
		s.mode = profileView
		return s, notify(resource.LevelSuccess, msg.msg)
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
		if s.mode != profileView {
			var (
				res formResult
				cmd tea.Cmd
			)
			s.form, res, cmd = s.form.Update(msg)
			switch res {
			case formCanceled:
				s.mode = profileView
				return s, nil
			case formSubmitted:
				s.form.err = ""
				return s, s.save()
			}
			return s, cmd
		}
		switch msg.String() {
		case "e":
			return s, s.open(profileDetails)
		case "p":
			return s, s.open(profilePassword)
		case "i":
			return s, s.open(profileAvatar)
		case "esc", "q":
			return s, back
		}
	}
	return s, nil
}

func (s *profileScreen) View() string {
	t := ui.Current()
	if s.mode != profileView {
		out := s.form.View()
		if s.busy {
			out += "\n" + s.spin.View() + " saving…"
		}
		return out
	}
	snap := s.d.Session.Snapshot()
	u := snap.User
	row := func(label, value string) string {
		if value == "" {
			value = "-"
		}
		return t.Muted.Render(ui.Pad(label, 12)) + value
	}
	access := []string{}
	for _, p := range []struct {
		name string
		ok   bool
	}{{"read", snap.Perms.Read}, {"write", snap.Perms.Write}, {"delete", snap.Perms.Delete}} {
		if p.ok {
			access = append(access, p.name)
		}
	}
	lines := []string{
		t.Title.Render(u.FullName()),
		"",
		row("email", u.Email),
		row("cellphone", u.CellphoneNumber),
		row("department", u.Department),
		row("role", u.DisplayRole()),
		row("access", strings.Join(access, ", ")),
		row("picture", s.d.Config.ImageURL(u.ProfileImage)),
		"",
		t.Muted.Render("e edit details · p change password · i upload picture · esc back"),
	}
	return strings.Join(lines, "\n")
}

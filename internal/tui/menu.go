package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/hcadmin/internal/session"
	"github.com/idilsaglam/hcadmin/internal/ui"
)

// entry adapts a screen name to bubbles/list.Item.
type entry struct {
	name, title, desc string
}

func (e entry) Title() string       { return e.title }
func (e entry) Description() string { return e.desc }
func (e entry) FilterValue() string { return e.title }

// entries is the menu in display order.
var entries = []entry{
	{"dashboard", "Dashboard", "platform totals, registrations and regions"},
	{"monitor", "Live monitor", "online users and consultation requests"},
	{"users", "App users", "patients and health providers, document review"},
	{"admins", "Administrators", "portal accounts"},
	{"specializations", "Specializations", "provider specializations"},
	{"ailments", "Ailments", "ailments, costs and their specialization"},
	{"faqs", "FAQs", "questions shown in the app"},
	{"transactions", "Transactions", "wallet payments and top-ups"},
	{"issues", "Issues", "problems reported by users"},
	{"notifications", "Notifications", "your inbox and broadcast messages"},
	{"reports", "Reports", "CSV downloads"},
	{"profile", "Profile", "your details, password and picture"},
}

// entryDelegate renders one entry per line with a cursor.
type entryDelegate struct{}

func (d entryDelegate) Height() int                               { return 1 }
func (d entryDelegate) Spacing() int                              { return 0 }
func (d entryDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d entryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	e, _ := item.(entry)
	t := ui.Current()
	prefix, title := "  ", e.title
	if index == m.Index() {
		prefix, title = t.Selected.Render(">")+" ", t.Selected.Render(e.title)
	}
	fmt.Fprintf(w, "%s%s  %s", prefix, ui.Pad(title, 16), t.Muted.Render(e.desc))
}

var menuKeys = struct {
	Open, Logout, Quit key.Binding
}{
	Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Logout: key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "sign out")),
	Quit:   key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
}

type menuScreen struct {
	list list.Model
}

func newMenu(snap session.Snapshot) *menuScreen {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = e
	}
	l := list.New(items, entryDelegate{}, 60, len(entries)+6)
	t := ui.Current()
	access := "read only"
	switch {
	case snap.Perms.Write && snap.Perms.Delete:
		access = "full access"
	case snap.Perms.Write:
		access = "read and write"
	}
	l.Title = fmt.Sprintf("%s   %s", t.Title.Render("Menu"), t.Muted.Render(access))
	l.Styles.Title = t.Title
	l.SetShowStatusBar(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	l.SetFilteringEnabled(true)
	l.FilterInput.Prompt = "/ "
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{menuKeys.Open, menuKeys.Logout}
	}
	l.AdditionalFullHelpKeys = l.AdditionalShortHelpKeys
	return &menuScreen{list: l}
}

func (s *menuScreen) Init() tea.Cmd { return nil }
func (s *menuScreen) Close()        {}

func (s *menuScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.list.SetSize(msg.Width-4, msg.Height)
		return s, nil
	case tea.KeyMsg:
		if s.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, menuKeys.Open):
			if e, ok := s.list.SelectedItem().(entry); ok {
				return s, navigate(e.name)
			}
			return s, nil
		case key.Matches(msg, menuKeys.Logout):
			return s, func() tea.Msg { return logoutMsg{} }
		case key.Matches(msg, menuKeys.Quit):
			if s.list.FilterState() == list.FilterApplied {
				break
			}
			return s, back
		}
	}
	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *menuScreen) View() string { return s.list.View() }

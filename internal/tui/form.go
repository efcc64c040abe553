package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/hcadmin/internal/resource"
	"github.com/idilsaglam/hcadmin/internal/ui"
)

type formResult int

const (
	formEditing formResult = iota
	formSubmitted
	formCanceled
)

var formKeys = struct {
	Next, Prev, Submit, Cancel, CycleNext, CyclePrev key.Binding
}{
	Next:      key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	Prev:      key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous")),
	Submit:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	CycleNext: key.NewBinding(key.WithKeys("right"), key.WithHelp("←/→", "choose")),
	CyclePrev: key.NewBinding(key.WithKeys("left")),
}

// formModel edits a set of fields, one text input each. Enter on the last
// field submits.
type formModel struct {
	title  string
	fields []resource.Field
	inputs []textinput.Model
	focus  int
	err    string
}

func newForm(title string, fields []resource.Field, values map[string]string) formModel {
	f := formModel{title: title, fields: fields, inputs: make([]textinput.Model, len(fields))}
	for i, fd := range fields {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.CharLimit = 500
		ti.Placeholder = placeholder(fd)
		if fd.Kind == resource.KindSecret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		ti.SetValue(values[fd.Key])
		ti.CursorEnd()
		f.inputs[i] = ti
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

func placeholder(fd resource.Field) string {
	if len(fd.Options) == 0 {
		return fd.Label
	}
	labels := make([]string, len(fd.Options))
	for i, o := range fd.Options {
		labels[i] = o.Label
	}
	if fd.Kind == resource.KindMulti {
		return "comma-separated: " + strings.Join(labels, ", ")
	}
	return strings.Join(labels, " / ")
}

func (f formModel) Values() map[string]string {
	out := make(map[string]string, len(f.fields))
	for i, fd := range f.fields {
		out[fd.Key] = f.inputs[i].Value()
	}
	return out
}

func (f formModel) setFocus(i int) formModel {
	n := len(f.inputs)
	if n == 0 {
		return f
	}
	f.inputs[f.focus].Blur()
	f.focus = (i%n + n) % n
	f.inputs[f.focus].Focus()
	return f
}

// cycle steps a choice field through its options.
func (f formModel) cycle(step int) formModel {
	fd := f.fields[f.focus]
	if len(fd.Options) == 0 {
		return f
	}
	cur := -1
	for i, o := range fd.Options {
		if strings.EqualFold(o.Value, f.inputs[f.focus].Value()) {
			cur = i
		}
	}
	n := len(fd.Options)
	next := ((cur+step)%n + n) % n
	if cur < 0 && step < 0 {
		next = n - 1
	}
	f.inputs[f.focus].SetValue(fd.Options[next].Value)
	f.inputs[f.focus].CursorEnd()
	return f
}

func (f formModel) Update(msg tea.Msg) (formModel, formResult, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && len(f.inputs) > 0 {
		choice := f.fields[f.focus].Kind == resource.KindChoice && len(f.fields[f.focus].Options) > 0
		switch {
		case key.Matches(k, formKeys.Cancel):
			return f, formCanceled, nil
		case key.Matches(k, formKeys.Submit):
			return f, formSubmitted, nil
		case k.String() == "enter":
			if f.focus == len(f.inputs)-1 {
				return f, formSubmitted, nil
			}
			return f.setFocus(f.focus + 1), formEditing, nil
		case key.Matches(k, formKeys.Next):
			return f.setFocus(f.focus + 1), formEditing, nil
		case key.Matches(k, formKeys.Prev):
			return f.setFocus(f.focus - 1), formEditing, nil
		case choice && key.Matches(k, formKeys.CycleNext):
			return f.cycle(1), formEditing, nil
		case choice && key.Matches(k, formKeys.CyclePrev):
			return f.cycle(-1), formEditing, nil
		}
	}
	if len(f.inputs) == 0 {
		return f, formEditing, nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, formEditing, cmd
}

func (f formModel) View() string {
	t := ui.Current()
	labelW := 0
	for _, fd := range f.fields {
		labelW = max(labelW, len(fd.Label)+1)
	}
	lines := []string{t.Title.Render(f.title), ""}
	for i, fd := range f.fields {
		label := fd.Label
		if fd.Required {
			label += "*"
		}
		style := t.Muted
		if i == f.focus {
			style = t.Accent
		}
		lines = append(lines, style.Render(ui.Pad(label, labelW))+" "+f.inputs[i].View())
	}
	if f.err != "" {
		lines = append(lines, "", t.Error.Render(t.SymFail+" "+f.err))
	}
	hint := "tab next · enter on last field saves · esc cancel"
	if len(f.fields) > 0 {
		if fd := f.fields[f.focus]; fd.Kind == resource.KindChoice && len(fd.Options) > 0 {
			hint = "←/→ choose · " + hint
		}
	}
	lines = append(lines, "", t.Muted.Render(hint))
	return strings.Join(lines, "\n")
}

package resource

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

type FieldKind int

const (
	KindText FieldKind = iota
	KindLong
	KindSecret
	KindNumber
	KindChoice
	// KindMulti holds comma-separated choices.
	KindMulti
)

// Option is one allowed value of a choice field.
type Option struct {
	Value string
	Label string
}

// Field describes one input of a create/edit dialog or of a row action.
type Field struct {
	Key      string
	Label    string
	Kind     FieldKind
	Required bool
	// CreateOnly fields are neither shown nor checked when editing.
	CreateOnly bool
	Default    string
	Options    []Option
	// Dynamic options, loaded when the dialog opens (e.g. specializations for an ailment).
	Source func(ctx context.Context) ([]Option, error)
}

func (f Field) allowed(v string) bool {
	if len(f.Options) == 0 {
		return true
	}
	for _, o := range f.Options {
		if strings.EqualFold(o.Value, v) {
			return true
		}
	}
	return false
}

// Form is a dialog's state: the field specs and the current values.
type Form struct {
	Fields []Field
	Values map[string]string
	// EditID is empty for a create dialog.
	EditID string
}

func (f Form) IsEdit() bool { return f.EditID != "" }

func (f Form) Get(key string) string { return strings.TrimSpace(f.Values[key]) }

// List splits a multi-value field.
func (f Form) List(key string) []string {
	var out []string
	for _, p := range strings.Split(f.Values[key], ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (f *Form) Set(key, value string) {
	if f.Values == nil {
		f.Values = map[string]string{}
	}
	f.Values[key] = value
}

// Active returns the fields shown for this dialog.
func (f Form) Active() []Field {
	out := make([]Field, 0, len(f.Fields))
	for _, fd := range f.Fields {
		if fd.CreateOnly && f.IsEdit() {
			continue
		}
		out = append(out, fd)
	}
	return out
}

// Field looks up a field spec by key.
func (f Form) Field(key string) (Field, bool) {
	for _, fd := range f.Fields {
		if fd.Key == key {
			return fd, true
		}
	}
	return Field{}, false
}

// Validate checks required and choice fields.
func (f Form) Validate() error {
	var missing []string
	for _, fd := range f.Active() {
		v := f.Get(fd.Key)
		if fd.Kind == KindMulti && len(f.List(fd.Key)) == 0 {
			v = ""
		}
		if v == "" {
			if fd.Required {
				missing = append(missing, fd.Label)
			}
			continue
		}
		switch fd.Kind {
		case KindNumber:
			if n, err := strconv.ParseFloat(v, 64); err != nil || n < 0 {
				return invalid(fmt.Sprintf("%s must be a non-negative number", fd.Label))
			}
		case KindChoice:
			if !fd.allowed(v) {
				return invalid(fmt.Sprintf("%s must be one of: %s", fd.Label, optionValues(fd.Options)))
			}
		case KindMulti:
			for _, item := range f.List(fd.Key) {
				if !fd.allowed(item) {
					return invalid(fmt.Sprintf("%s must be among: %s", fd.Label, optionValues(fd.Options)))
				}
			}
		}
	}
	if len(missing) > 0 {
		return invalid("Please fill out all required fields: " + strings.Join(missing, ", "))
	}
	return nil
}

func optionValues(opts []Option) string {
	vs := make([]string, len(opts))
	for i, o := range opts {
		vs[i] = o.Value
	}
	return strings.Join(vs, ", ")
}

// Options builds options labelled with their own value.
func Options(values ...string) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Option{Value: v, Label: v}
	}
	return out
}

// Resolve loads the options of fields that fetch them. On failure the
// affected fields fall back to free text.
func (f *Form) Resolve(ctx context.Context) error {
	for i, fd := range f.Fields {
		if fd.Source == nil {
			continue
		}
		opts, err := fd.Source(ctx)
		if err != nil {
			return fmt.Errorf("load %s options: %w", strings.ToLower(fd.Label), err)
		}
		f.Fields[i].Options = opts
	}
	return nil
}

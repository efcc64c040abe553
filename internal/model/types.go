package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Flag decodes a response status that the backend sends either as a boolean
// or as a string such as "SUCCESS".
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = false
		return nil
	}
	switch b[0] {
	case 't', 'f':
		var v bool
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = Flag(v)
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "success", "true", "ok":
			*f = true
		default:
			*f = false
		}
	default:
		// numbers: 1 means ok, anything else does not
		*f = Flag(string(b) == "1")
	}
	return nil
}

// Flex holds a scalar that arrives as a JSON number or a JSON string
// (ailment cost is typed either way depending on who created the record).
type Flex string

func (x *Flex) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*x = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*x = Flex(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("flex: %w", err)
	}
	*x = Flex(n.String())
	return nil
}

// MarshalJSON emits a number when the value parses as one.
func (x Flex) MarshalJSON() ([]byte, error) {
	if f, err := strconv.ParseFloat(string(x), 64); err == nil {
		return json.Marshal(f)
	}
	return json.Marshal(string(x))
}

func (x Flex) String() string { return string(x) }

// Roles is a role list that older records store as a single string.
type Roles []string

func (r *Roles) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*r = Roles{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*r = Roles{}
		} else {
			*r = Roles{s}
		}
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("roles: %w", err)
	}
	out := make(Roles, 0, len(list))
	for _, s := range list {
		if s != "" {
			out = append(out, s)
		}
	}
	*r = out
	return nil
}

// Ref is a foreign reference that the server either populates with the
// referenced document or leaves as a raw identifier.
type Ref struct {
	ID        string
	Name      string // title or fullname when populated
	Email     string
	WalletID  string
	Populated bool
}

type refDoc struct {
	ID       string `json:"_id"`
	Title    string `json:"title"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	WalletID string `json:"walletID"`
}

func (r *Ref) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*r = Ref{}
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	switch b[0] {
	case '"':
		return json.Unmarshal(b, &r.ID)
	case '{':
		var d refDoc
		if err := json.Unmarshal(b, &d); err != nil {
			return fmt.Errorf("ref: %w", err)
		}
		name := d.Title
		if name == "" {
			name = d.Fullname
		}
		*r = Ref{ID: d.ID, Name: name, Email: d.Email, WalletID: d.WalletID, Populated: true}
		return nil
	default:
		// numeric ids show up in seeded data
		r.ID = string(b)
		return nil
	}
}

// MarshalJSON sends the reference back as its identifier.
func (r Ref) MarshalJSON() ([]byte, error) { return json.Marshal(r.ID) }

// Display is the text shown in a table cell for the reference.
func (r Ref) Display() string {
	switch {
	case r.Name != "":
		return r.Name
	case r.Email != "":
		return r.Email
	case r.ID != "":
		return r.ID
	}
	return "N/A"
}

// IsZero reports whether no reference was sent at all.
func (r Ref) IsZero() bool { return r.ID == "" && !r.Populated }

// Time is a timestamp that tolerates empty or malformed values; those decode
// to the zero time instead of failing the whole collection.
type Time struct{ time.Time }

var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func (t *Time) UnmarshalJSON(b []byte) error {
	t.Time = time.Time{}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var ms int64
		if json.Unmarshal(b, &ms) == nil && ms > 0 {
			t.Time = time.UnixMilli(ms).UTC()
		}
		return nil
	}
	for _, layout := range timeLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			t.Time = v
			return nil
		}
	}
	return nil
}

func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// Date renders the calendar day or "N/A".
func (t Time) Date() string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Local().Format("2006-01-02")
}

// Stamp renders day and minute or "N/A".
func (t Time) Stamp() string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Local().Format("2006-01-02 15:04")
}

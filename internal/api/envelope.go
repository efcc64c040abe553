package api

import (
	"encoding/json"
	"fmt"

	"github.com/idilsaglam/hcadmin/internal/model"
)

// Envelope is the generic view of a response object: the status flag, the
// optional message, and every other top-level field left raw.
type Envelope struct {
	Status     model.Flag
	Message    string
	HasMessage bool
	fields     map[string]json.RawMessage
}

func parseEnvelope(b []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(b, &env.fields); err != nil {
		return env, fmt.Errorf("envelope: %w", err)
	}
	if raw, ok := env.fields["status"]; ok {
		if err := json.Unmarshal(raw, &env.Status); err != nil {
			return env, fmt.Errorf("envelope status: %w", err)
		}
	}
	if raw, ok := env.fields["message"]; ok && string(raw) != "null" {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			// some endpoints put an object in message; keep the raw text
			s = string(raw)
		}
		env.Message, env.HasMessage = s, true
	}
	return env, nil
}

// Has reports whether the top-level field exists and is not null.
func (e Envelope) Has(name string) bool {
	raw, ok := e.fields[name]
	return ok && string(raw) != "null"
}

// Field decodes one top-level field into out.
func (e Envelope) Field(name string, out any) error {
	raw, ok := e.fields[name]
	if !ok {
		return fmt.Errorf("field %q missing", name)
	}
	return json.Unmarshal(raw, out)
}

// Marker decides whether a 2xx body signals success for its endpoint.
type Marker func(Envelope) bool

var (
	// MarkerMessage: catalog endpoints answer {message} on success.
	MarkerMessage Marker = func(e Envelope) bool { return e.HasMessage }
	// MarkerStatus: {status: true} or {status: "SUCCESS"}.
	MarkerStatus Marker = func(e Envelope) bool { return bool(e.Status) }
	// MarkerAny accepts any decodable body.
	MarkerAny Marker = func(Envelope) bool { return true }
)

// MarkerField accepts bodies carrying the named collection field.
func MarkerField(name string) Marker {
	return func(e Envelope) bool { return e.Has(name) }
}

// MarkerBoth requires every marker to hold.
func MarkerBoth(ms ...Marker) Marker {
	return func(e Envelope) bool {
		for _, m := range ms {
			if !m(e) {
				return false
			}
		}
		return true
	}
}

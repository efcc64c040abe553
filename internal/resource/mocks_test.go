package resource

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

type recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recorder) count(l Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, x := range r.notices {
		if x.Level == l {
			n++
		}
	}
	return n
}

func (r *recorder) last() Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}
	}
	return r.notices[len(r.notices)-1]
}

type pet struct {
	ID, Name, Kind, Owner string
}

// petStore is an in-memory backend counting every call.
type petStore struct {
	mu      sync.Mutex
	pets    []pet
	lists   int
	writes  int
	failAll error
}

func (s *petStore) list(ctx context.Context) ([]pet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists++
	if s.failAll != nil {
		return nil, s.failAll
	}
	return append([]pet(nil), s.pets...), nil
}

func (s *petStore) write(err error) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if err != nil {
		return "", err
	}
	return "saved", nil
}

var errBoom = errors.New("boom")

func petConfig(s *petStore, writeErr error) Config[pet] {
	return Config[pet]{
		Name:     "pets",
		Singular: "pet",
		ID:       func(p pet) string { return p.ID },
		Columns: []Column[pet]{
			{Header: "Name", Width: 10, Cell: func(p pet) string { return p.Name }},
			{Header: "Kind", Width: 6, Cell: func(p pet) string { return p.Kind }},
		},
		Searchable: func(p pet) []string { return []string{p.Name, p.Owner} },
		Filters: []Filter[pet]{
			{Name: "kind", Values: []string{"cat", "dog"}, Value: func(p pet) string { return p.Kind }},
		},
		Fields: []Field{
			{Key: "name", Label: "Name", Required: true},
			{Key: "kind", Label: "Kind", Kind: KindChoice, Required: true, Options: Options("cat", "dog")},
			{Key: "owner", Label: "Owner"},
		},
		Values: func(p pet) map[string]string {
			return map[string]string{"name": p.Name, "kind": p.Kind, "owner": p.Owner}
		},
		List:   s.list,
		Create: func(ctx context.Context, f Form) (string, error) { return s.write(writeErr) },
		Update: func(ctx context.Context, id string, f Form) (string, error) { return s.write(writeErr) },
		Delete: func(ctx context.Context, id string) (string, error) { return s.write(writeErr) },
		Actions: []Action[pet]{
			{
				Name: "feed", Label: "Feed", Done: "fed",
				Applies: func(p pet) bool { return p.Kind == "cat" },
				Run:     func(ctx context.Context, p pet, _ string) (string, error) { return s.write(writeErr) },
			},
			{
				Name: "feed-all", Label: "Feed all", Bulk: true, Confirm: true, Done: "all fed",
				Run: func(ctx context.Context, p pet, _ string) (string, error) { return s.write(writeErr) },
			},
		},
	}
}

func newPets(t interface{ Helper() }, writeErr error) (*Controller[pet], *petStore, *recorder) {
	t.Helper()
	s := &petStore{pets: []pet{
		{ID: "1", Name: "Whiskers", Kind: "cat", Owner: "Nangolo"},
		{ID: "2", Name: "Rex", Kind: "dog", Owner: "Amutenya"},
		{ID: "3", Name: "Mittens", Kind: "cat", Owner: "Shikongo"},
		{ID: "", Name: "Ghost", Kind: "cat"},
		{ID: "2", Name: "Rex again", Kind: "dog"},
	}}
	r := &recorder{}
	return New(petConfig(s, writeErr), r, zerolog.Nop()), s, r
}

// Package dashboard fetches the dashboard's independent counts concurrently
// and tracks a loading/error state per metric.
package dashboard

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/idilsaglam/hcadmin/internal/model"
)

// Source is the slice of the API the dashboard reads.
type Source interface {
	DashboardStats(ctx context.Context) (model.DashboardStats, error)
	Specializations(ctx context.Context) ([]model.Specialization, error)
	Ailments(ctx context.Context) ([]model.Ailment, error)
	FAQs(ctx context.Context) ([]model.FAQ, error)
}

// Request identifies one of the dashboard's calls.
type Request int

const (
	ReqStats Request = iota
	ReqSpecializations
	ReqAilments
	ReqFAQs
)

// Requests lists every call in the order they are issued.
var Requests = []Request{ReqStats, ReqSpecializations, ReqAilments, ReqFAQs}

func (r Request) String() string {
	switch r {
	case ReqStats:
		return "stats"
	case ReqSpecializations:
		return "specializations"
	case ReqAilments:
		return "ailments"
	case ReqFAQs:
		return "faqs"
	}
	return "unknown"
}

// Result is the outcome of one call.
type Result struct {
	Request Request
	Stats   model.DashboardStats
	Count   int
	Err     error
}

// Metric is one card. It stays Loading until the call feeding it settles.
type Metric struct {
	Label   string
	Value   int
	Loading bool
	Err     error
	From    Request
}

// State is what the dashboard renders.
type State struct {
	Metrics       []Metric
	Registrations []model.MonthlyCount
	Regions       []model.CategoryCount
	StatsLoading  bool
	StatsErr      error
}

// Initial has every metric loading.
func Initial() State {
	return State{
		Metrics: []Metric{
			{Label: "Total users", Loading: true, From: ReqStats},
			{Label: "Patients", Loading: true, From: ReqStats},
			{Label: "Health providers", Loading: true, From: ReqStats},
			{Label: "Towns", Loading: true, From: ReqStats},
			{Label: "Specializations", Loading: true, From: ReqSpecializations},
			{Label: "Ailments", Loading: true, From: ReqAilments},
			{Label: "FAQs", Loading: true, From: ReqFAQs},
		},
		StatsLoading: true,
	}
}

// Apply folds one result into the state; only metrics fed by that call change.
func (s State) Apply(r Result) State {
	metrics := make([]Metric, len(s.Metrics))
	copy(metrics, s.Metrics)
	s.Metrics = metrics

	for i := range s.Metrics {
		m := &s.Metrics[i]
		if m.From != r.Request {
			continue
		}
		m.Loading, m.Err = false, r.Err
		if r.Err != nil {
			continue
		}
		if r.Request != ReqStats {
			m.Value = r.Count
			continue
		}
		switch i {
		case 0:
			m.Value = r.Stats.TotalUsers
		case 1:
			m.Value = r.Stats.Patients
		case 2:
			m.Value = r.Stats.HealthProviders
		case 3:
			m.Value = r.Stats.TotalTowns
		}
	}
	if r.Request == ReqStats {
		s.StatsLoading, s.StatsErr = false, r.Err
		if r.Err == nil {
			s.Registrations = r.Stats.LineData
			s.Regions = model.ValidCategories(r.Stats.TopDepartments)
		}
	}
	return s
}

// Done reports whether every call has settled.
func (s State) Done() bool {
	for _, m := range s.Metrics {
		if m.Loading {
			return false
		}
	}
	return true
}

type Aggregator struct {
	src Source
	log zerolog.Logger
}

func New(src Source, log zerolog.Logger) *Aggregator {
	return &Aggregator{src: src, log: log.With().Str("component", "dashboard").Logger()}
}

// Fetch performs a single call.
func (a *Aggregator) Fetch(ctx context.Context, req Request) Result {
	r := Result{Request: req}
	switch req {
	case ReqStats:
		r.Stats, r.Err = a.src.DashboardStats(ctx)
	case ReqSpecializations:
		var xs []model.Specialization
		xs, r.Err = a.src.Specializations(ctx)
		r.Count = len(xs)
	case ReqAilments:
		var xs []model.Ailment
		xs, r.Err = a.src.Ailments(ctx)
		r.Count = len(xs)
	case ReqFAQs:
		var xs []model.FAQ
		xs, r.Err = a.src.FAQs(ctx)
		r.Count = len(xs)
	}
	if r.Err != nil {
		a.log.Warn().Err(r.Err).Stringer("request", req).Msg("dashboard call failed")
	}
	return r
}

// Load issues every call at once. fn, when set, sees each result as soon as
// it settles; calls to fn are serialized. A failed call never cancels the
// others, so the returned error is only ever the context's.
func (a *Aggregator) Load(ctx context.Context, fn func(Result)) (State, error) {
	var (
		mu sync.Mutex
		st = Initial()
		g  errgroup.Group
	)
	for _, req := range Requests {
		g.Go(func() error {
			r := a.Fetch(ctx, req)
			mu.Lock()
			defer mu.Unlock()
			st = st.Apply(r)
			if fn != nil {
				fn(r)
			}
			return nil
		})
	}
	_ = g.Wait()
	return st, ctx.Err()
}

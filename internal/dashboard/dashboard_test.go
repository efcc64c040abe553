package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/hcadmin/internal/api"
	"github.com/idilsaglam/hcadmin/internal/apitest"
	"github.com/idilsaglam/hcadmin/internal/model"
)

func intp(n int) *int { return &n }

func values(s State) map[string]int {
	out := map[string]int{}
	for _, m := range s.Metrics {
		out[m.Label] = m.Value
	}
	return out
}

func TestLoad_AllMetrics(t *testing.T) {
	src := &fakeSource{
		stats: model.DashboardStats{
			TotalUsers: 10, Patients: 7, HealthProviders: 3, TotalTowns: 4,
			LineData: []model.MonthlyCount{{Name: "Jan", Count: 2}},
			TopDepartments: []model.CategoryCount{
				{Label: "Khomas", Count: intp(5)},
				{Label: "", Count: intp(1)},
				{Label: "Oshana"},
			},
		},
		specs: 2, ails: 5, faqs: 1,
	}
	st, err := New(src, zerolog.Nop()).Load(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, st.Done())
	assert.False(t, st.StatsLoading)
	assert.Equal(t, map[string]int{
		"Total users": 10, "Patients": 7, "Health providers": 3, "Towns": 4,
		"Specializations": 2, "Ailments": 5, "FAQs": 1,
	}, values(st))
	assert.Len(t, st.Registrations, 1)
	require.Len(t, st.Regions, 1)
	assert.Equal(t, "Khomas", st.Regions[0].Label)
}

func TestLoad_FailedStatsLeavesOtherMetrics(t *testing.T) {
	src := &fakeSource{statsErr: errDown, specs: 3}
	st, err := New(src, zerolog.Nop()).Load(context.Background(), nil)
	require.NoError(t, err)
	for _, m := range st.Metrics {
		assert.False(t, m.Loading, m.Label)
		if m.From == ReqStats {
			assert.ErrorIs(t, m.Err, errDown, m.Label)
		} else {
			assert.NoError(t, m.Err, m.Label)
		}
	}
	assert.Equal(t, 3, values(st)["Specializations"])
	assert.ErrorIs(t, st.StatsErr, errDown)
}

func TestLoad_StreamsEachResultAsItSettles(t *testing.T) {
	src := &fakeSource{release: make(chan struct{}), specs: 1, ails: 1, faqs: 1}
	seen := make(chan Result, len(Requests))

	done := make(chan State)
	go func() {
		st, _ := New(src, zerolog.Nop()).Load(context.Background(), func(r Result) { seen <- r })
		done <- st
	}()

	partial := Initial()
	for range 3 {
		select {
		case r := <-seen:
			assert.NotEqual(t, ReqStats, r.Request)
			partial = partial.Apply(r)
		case <-time.After(2 * time.Second):
			t.Fatal("secondary counts did not arrive before the stats call settled")
		}
	}
	assert.Equal(t, 1, values(partial)["FAQs"])
	assert.True(t, partial.StatsLoading)
	assert.False(t, partial.Done())

	close(src.release)
	st := <-done
	assert.True(t, st.Done())
}

func TestLoad_ContextCanceled(t *testing.T) {
	src := &fakeSource{release: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(src, zerolog.Nop()).Load(ctx, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoad_AgainstBackend(t *testing.T) {
	b := apitest.New(t)
	b.Dashboard = model.DashboardStats{TotalUsers: 42, Patients: 30, HealthProviders: 12}
	b.FAQs = []model.FAQ{{ID: "f1"}, {ID: "f2"}}

	st, err := New(api.New(b.URL()), zerolog.Nop()).Load(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 42, values(st)["Total users"])
	assert.Equal(t, 2, values(st)["FAQs"])
	assert.Equal(t, 0, values(st)["Ailments"])
	for _, m := range st.Metrics {
		assert.NoError(t, m.Err, m.Label)
	}
}

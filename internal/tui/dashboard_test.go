package tui

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/hcadmin/internal/dashboard"
	"github.com/idilsaglam/hcadmin/internal/model"
)

func TestDashboardScreen_FillsEveryCard(t *testing.T) {
	f := newFixture(t)
	f.b.Dashboard = model.DashboardStats{TotalUsers: 12, Patients: 9, HealthProviders: 3, TotalTowns: 4}
	f.b.FAQs = []model.FAQ{{ID: "f1"}, {ID: "f2"}}

	s := newDashboard(context.Background(), f.d)
	got, _ := settle(s, s.Init())
	ds := got.(*dashboardScreen)

	require.True(t, ds.state.Done())
	assert.Equal(t, 12, ds.state.Metrics[0].Value)
	assert.Equal(t, 2, ds.state.Metrics[6].Value)
}

func TestDashboardScreen_OneFailureLeavesOthers(t *testing.T) {
	f := newFixture(t)
	f.b.Dashboard = model.DashboardStats{TotalUsers: 12}
	f.b.Respond(http.MethodGet, "/portal/faq/all-faq", http.StatusInternalServerError, map[string]string{"message": "db down"})

	s := newDashboard(context.Background(), f.d)
	got, _ := settle(s, s.Init())
	ds := got.(*dashboardScreen)

	assert.Error(t, ds.state.Metrics[6].Err)
	assert.NoError(t, ds.state.Metrics[0].Err)
	assert.Equal(t, 12, ds.state.Metrics[0].Value)
	assert.Contains(t, ds.View(), "db down")
}

func TestDashboardScreen_IgnoresEarlierRound(t *testing.T) {
	f := newFixture(t)
	s := newDashboard(context.Background(), f.d)
	s.Init()
	s.Init()
	got, _ := s.Update(dashResultMsg{gen: 1, res: dashboard.Result{Request: dashboard.ReqFAQs, Count: 5}})
	assert.True(t, got.(*dashboardScreen).state.Metrics[6].Loading)
}

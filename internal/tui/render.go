package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/idilsaglam/hcadmin/internal/dashboard"
	"github.com/idilsaglam/hcadmin/internal/model"
	"github.com/idilsaglam/hcadmin/internal/monitor"
	"github.com/idilsaglam/hcadmin/internal/ui"
)

// RenderDashboard draws the metric cards and both charts. Each card shows
// its own spinner or error, so a slow or failed call never blanks the rest.
func RenderDashboard(st dashboard.State, width int, spin string) string {
	t := ui.Current()
	if spin == "" {
		spin = "…"
	}
	chartW := 30
	if width > 0 {
		chartW = max(min(width-30, 50), 10)
	}

	lines := []string{t.Title.Render("Dashboard"), ""}
	labelW := 0
	for _, m := range st.Metrics {
		labelW = max(labelW, len(m.Label))
	}
	for _, m := range st.Metrics {
		var val string
		switch {
		case m.Loading:
			val = t.Pending.Render(spin)
		case m.Err != nil:
			val = t.Error.Render(t.SymFail + " " + ui.Truncate(m.Err.Error(), 40))
		default:
			val = t.Accent.Render(fmt.Sprint(m.Value))
		}
		lines = append(lines, t.Muted.Render(ui.Pad(m.Label, labelW))+"  "+val)
	}

	lines = append(lines, "", t.Title.Render("Registrations by month"))
	switch {
	case st.StatsLoading:
		lines = append(lines, t.Pending.Render(spin))
	case st.StatsErr != nil:
		lines = append(lines, t.Muted.Render("unavailable"))
	default:
		bars := make([]ui.Bar, len(st.Registrations))
		for i, p := range st.Registrations {
			bars[i] = ui.Bar{Label: p.Name, Value: p.Count}
		}
		lines = append(lines, ui.BarChart(bars, chartW))
	}

	lines = append(lines, "", t.Title.Render("Top regions"))
	switch {
	case st.StatsLoading:
		lines = append(lines, t.Pending.Render(spin))
	case st.StatsErr != nil:
		lines = append(lines, t.Muted.Render("unavailable"))
	default:
		lines = append(lines, ui.BarChart(regionBars(st.Regions), chartW))
	}
	return strings.Join(lines, "\n")
}

func regionBars(in []model.CategoryCount) []ui.Bar {
	out := make([]ui.Bar, 0, len(in))
	for _, c := range in {
		if c.Count != nil {
			out = append(out, ui.Bar{Label: c.Label, Value: *c.Count})
		}
	}
	return out
}

// RenderMonitor draws presence, request tallies and the recent request table.
func RenderMonitor(st monitor.State, now time.Time, width int) string {
	t := ui.Current()
	lines := []string{t.Title.Render("Live monitor")}

	conn := ui.Badge("connected")
	if !st.Connected {
		conn = ui.Badge("disconnected")
		if st.SocketErr != nil {
			conn += t.Muted.Render("  " + ui.Truncate(st.SocketErr.Error(), 50))
		}
	}
	lines = append(lines, t.Muted.Render("socket ")+conn)

	switch {
	case st.PollErr != nil:
		lines = append(lines, t.Error.Render(t.SymFail+" "+monitor.PollFailed))
	case st.Polling && st.LastPoll.IsZero():
		lines = append(lines, t.Pending.Render("loading statistics…"))
	case !st.LastPoll.IsZero():
		lines = append(lines, t.Muted.Render("updated "+ago(now, st.LastPoll)))
	}

	lines = append(lines, "", t.Title.Render("Online now"),
		fmt.Sprintf("%s %d   %s %d", t.Muted.Render("users"), st.Online.Total, t.Muted.Render("sockets"), st.Online.TotalSockets))
	if len(st.Online.ByRole) > 0 {
		roles := make([]string, 0, len(st.Online.ByRole))
		for r := range st.Online.ByRole {
			roles = append(roles, r)
		}
		sort.Strings(roles)
		parts := make([]string, len(roles))
		for i, r := range roles {
			parts[i] = fmt.Sprintf("%s %d", t.Muted.Render(r), st.Online.ByRole[r])
		}
		lines = append(lines, strings.Join(parts, "  "))
	}

	lines = append(lines, "", t.Title.Render(fmt.Sprintf("Requests (%d)", st.Requests.Total)))
	var tally []string
	for _, row := range st.Requests.Rows() {
		tally = append(tally, fmt.Sprintf("%s %v", t.Muted.Render(row[0].(string)), row[1]))
	}
	for i := 0; i < len(tally); i += 5 {
		lines = append(lines, strings.Join(tally[i:min(i+5, len(tally))], "  "))
	}

	u := st.Users
	lines = append(lines, "", t.Title.Render(fmt.Sprintf("App users (%d)", u.Total)),
		fmt.Sprintf("%s %d  %s %d  %s %d  %s %d  %s %d  %s %d",
			t.Muted.Render("patients"), u.Patients, t.Muted.Render("providers"), u.HealthProviders,
			t.Muted.Render("doctors"), u.Doctors, t.Muted.Render("nurses"), u.Nurses,
			t.Muted.Render("physios"), u.Physiotherapists, t.Muted.Render("social workers"), u.SocialWorkers))

	lines = append(lines, "", t.Title.Render("Recent requests"))
	if len(st.Recent) == 0 {
		lines = append(lines, t.Muted.Render("No recent requests"))
	} else {
		rows := make([][]string, len(st.Recent))
		for i, r := range st.Recent {
			rows[i] = []string{
				r.Patient.Display(), r.ProviderName(), ui.Badge(r.Status), r.UrgencyLabel(),
				r.PatientLocation(), r.CreatedAt.Stamp(),
			}
		}
		maxW := 0
		if width > 0 {
			maxW = width - 4
		}
		lines = append(lines, ui.Table(
			[]string{"Patient", "Provider", "Status", "Urgency", "Location", "Created"},
			[]int{18, 18, 12, 8, 28, 17}, rows, maxW))
	}
	return strings.Join(lines, "\n")
}

func ago(now, then time.Time) string {
	d := now.Sub(then).Round(time.Second)
	if d < time.Second {
		return "just now"
	}
	return d.String() + " ago"
}

package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plain(t *testing.T) {
	t.Helper()
	SetColorForcing(false, true)
	require.NoError(t, SetTheme("classic"))
	t.Cleanup(func() { _ = SetTheme("classic") })
}

func TestSetTheme(t *testing.T) {
	plain(t)
	require.NoError(t, SetTheme("NEON"))
	assert.Equal(t, "neon", Current().Name)
	require.Error(t, SetTheme("solarized"))
	assert.Equal(t, "neon", Current().Name, "unknown theme keeps the current one")
	require.NoError(t, SetTheme("mono"))
	assert.Equal(t, "ok", Current().SymOK)
}

func TestOKAndFail(t *testing.T) {
	plain(t)
	var out bytes.Buffer
	OK(&out, "Saved")
	Fail(&out, "Nope")
	assert.Equal(t, "✔ Saved\n✖ Nope\n", out.String())
}

func TestProgressBar(t *testing.T) {
	plain(t)
	assert.Equal(t, "[█████░░░░░] 1/2", ProgressBar(1, 2, 10))
	assert.Equal(t, "[░░░░░] 0/0", ProgressBar(0, 0, 5))
	assert.Equal(t, "[█████] 9/3", ProgressBar(9, 3, 5))
}

func TestBarChart(t *testing.T) {
	plain(t)
	got := BarChart([]Bar{{Label: "Jan", Value: 10}, {Label: "February", Value: 5}, {Label: "Mar", Value: 0}}, 10)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Jan      ██████████ 10", lines[0])
	assert.Equal(t, "February █████ 5", lines[1])
	assert.Equal(t, "Mar       0", lines[2])
	assert.Equal(t, "No data", BarChart(nil, 10))
}

func TestTable_TruncatesToWidth(t *testing.T) {
	plain(t)
	got := Table([]string{"Title", "Description"}, []int{6, 11}, [][]string{
		{"Cardiology", "Heart\nvessels care"},
	}, 0)
	assert.Equal(t, "Title   Description\nCardi…  Heart vess…", got)

	narrow := Table([]string{"A", "B"}, []int{20, 20}, [][]string{{strings.Repeat("x", 30), "y"}}, 22)
	for _, ln := range strings.Split(narrow, "\n") {
		assert.LessOrEqual(t, len([]rune(ln)), 22)
	}
}

func TestBadge(t *testing.T) {
	plain(t)
	assert.Equal(t, "In Progress", Badge("In Progress"))
	assert.Equal(t, current.Pending, badgeStyle("en_route"))
	assert.Equal(t, current.Success, badgeStyle("Closed"))
	assert.Equal(t, current.Error, badgeStyle("cancelled"))
	assert.Equal(t, current.Muted, badgeStyle("whatever"))
}

func TestPanel(t *testing.T) {
	plain(t)
	got := Panel([]string{"hello"})
	assert.Equal(t, "╭───────╮\n│ hello │\n╰───────╯", got)
}

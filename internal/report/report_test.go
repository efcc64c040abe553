package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/hcadmin/internal/api"
	"github.com/idilsaglam/hcadmin/internal/apitest"
	"github.com/idilsaglam/hcadmin/internal/model"
	"github.com/idilsaglam/hcadmin/internal/resource"
)

var day = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func view(t *testing.T, b *apitest.Backend, name string) resource.View {
	t.Helper()
	v, err := resource.Open(name, resource.Deps{Client: api.New(b.URL()), UserID: func() string { return "me" }, Log: zerolog.Nop()})
	require.NoError(t, err)
	return v
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "faqs_report_2026-03-14.csv", FileName("faqs", day))
}

func TestWriteCSV_QuotesWhenNeeded(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []string{"Question", "Answer"}, [][]string{
		{"Fees, refunds?", `Say "hi"`},
		{"Plain", "text"},
	}))
	assert.Equal(t, "Question,Answer\n\"Fees, refunds?\",\"Say \"\"hi\"\"\"\nPlain,text\n", buf.String())
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.ErrorIs(t, WriteCSV(&buf, []string{"A"}, nil), ErrNoData)
	assert.Empty(t, buf.String())
}

func TestExport_SpecializationsWithQuery(t *testing.T) {
	b := apitest.New(t)
	b.Specializations = []model.Specialization{
		{ID: "s1", Title: "Cardiology", Description: "Heart", Role: model.Roles{"doctor", "nurse"}},
		{ID: "s2", Title: "Social care", Description: "Support", Role: model.Roles{"social worker"}},
	}
	dir := t.TempDir()

	path, n, err := Export(context.Background(), view(t, b, "specializations"), dir, "cardio", day)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, filepath.Join(dir, "specializations_report_2026-03-14.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, []string{"Title", "Description", "Categories", "Created"}, recs[0])
	assert.Equal(t, "Doctor; Nurse", recs[1][2])
}

func TestExport_NoRows(t *testing.T) {
	b := apitest.New(t)
	dir := t.TempDir()
	_, _, err := Export(context.Background(), view(t, b, "faqs"), dir, "", day)
	require.ErrorIs(t, err, ErrNoData)
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestExport_UnsupportedKind(t *testing.T) {
	b := apitest.New(t)
	_, _, err := Export(context.Background(), view(t, b, "notifications"), t.TempDir(), "", day)
	require.Error(t, err)
}

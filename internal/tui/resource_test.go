package tui

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/hcadmin/internal/model"
	"github.com/idilsaglam/hcadmin/internal/resource"
)

var (
	fullAccess = model.Permissions{Read: true, Write: true, Delete: true}
	readOnly   = model.Permissions{Read: true}
)

func faqScreen(t *testing.T, f fixture, perms model.Permissions) (*resourceScreen, notices) {
	t.Helper()
	v, n := f.view(t, "faqs")
	s := newResourceScreen(context.Background(), 1, v, perms)
	got, _ := settle(s, s.Init())
	rs := got.(*resourceScreen)
	require.False(t, rs.busy)
	return rs, n
}

func seedFAQs(f fixture) {
	f.b.FAQs = []model.FAQ{
		{ID: "f1", Question: "How do refunds work?", Answer: "Within 7 days"},
		{ID: "f2", Question: "Can I change my provider?", Answer: "Yes"},
		{ID: "f3", Question: "Is my data private?", Answer: "Always"},
	}
}

func TestResourceScreen_LiveSearch(t *testing.T) {
	f := newFixture(t)
	seedFAQs(f)
	s, _ := faqScreen(t, f, fullAccess)
	assert.Contains(t, s.View(), "shown 3")

	got, _ := press(s, "/", "refund")
	s = got.(*resourceScreen)
	assert.Equal(t, modeSearch, s.mode)
	assert.Equal(t, 1, s.v.Len())

	got, _ = press(s, "esc")
	s = got.(*resourceScreen)
	assert.Equal(t, modeList, s.mode)
	assert.Equal(t, 3, s.v.Len())
}

func TestResourceScreen_ReadOnlyHidesWriteKeys(t *testing.T) {
	f := newFixture(t)
	seedFAQs(f)
	s, _ := faqScreen(t, f, readOnly)

	got, msgs := press(s, "a", "e", "d")
	s = got.(*resourceScreen)
	assert.Equal(t, modeList, s.mode)
	assert.Empty(t, msgs)
	view := s.View()
	assert.NotContains(t, view, "a add")
	assert.NotContains(t, view, "d delete")
	assert.Contains(t, view, "/ search")
}

func TestResourceScreen_AddSubmitsAndCloses(t *testing.T) {
	f := newFixture(t)
	seedFAQs(f)
	s, n := faqScreen(t, f, fullAccess)

	got, _ := press(s, "a")
	s = got.(*resourceScreen)
	require.Equal(t, modeForm, s.mode)

	got, _ = press(s, "Who can see my records?", "enter", "Only your providers", "enter")
	s = got.(*resourceScreen)
	assert.Equal(t, modeList, s.mode)
	assert.Equal(t, 1, f.b.Count(http.MethodPost, "/portal/faq/create-faq"))
	assert.Equal(t, 4, s.v.Total())

	notes := drain(n)
	require.Len(t, notes, 1)
	assert.Equal(t, resource.LevelSuccess, notes[0].Level)
}

func TestResourceScreen_InvalidFormStaysOpen(t *testing.T) {
	f := newFixture(t)
	s, n := faqScreen(t, f, fullAccess)

	got, _ := press(s, "a", "ctrl+s")
	s = got.(*resourceScreen)
	assert.Equal(t, modeForm, s.mode)
	assert.Contains(t, s.form.err, "Question")
	assert.Equal(t, 0, f.b.Count(http.MethodPost, "/portal/faq/create-faq"))
	assert.Len(t, drain(n), 1)
}

func TestResourceScreen_DeleteAsksFirst(t *testing.T) {
	f := newFixture(t)
	seedFAQs(f)
	s, _ := faqScreen(t, f, fullAccess)

	got, _ := press(s, "d")
	s = got.(*resourceScreen)
	require.Equal(t, modeConfirm, s.mode)
	assert.Contains(t, s.View(), "How do refunds work?")

	got, _ = press(s, "n")
	s = got.(*resourceScreen)
	assert.Equal(t, modeList, s.mode)
	assert.Equal(t, 0, f.b.Count(http.MethodDelete, "/portal/faq/delete-faq/f1"))

	got, _ = press(s, "d", "y")
	s = got.(*resourceScreen)
	assert.Equal(t, 1, f.b.Count(http.MethodDelete, "/portal/faq/delete-faq/f1"))
	assert.Equal(t, 2, s.v.Total())
}

func TestResourceScreen_PagingAndPageSize(t *testing.T) {
	f := newFixture(t)
	for i := range 30 {
		f.b.FAQs = append(f.b.FAQs, model.FAQ{ID: fmt.Sprintf("f%02d", i), Question: fmt.Sprintf("Q%02d", i), Answer: "A"})
	}
	s, _ := faqScreen(t, f, fullAccess)
	assert.Equal(t, 2, s.pager.TotalPages)

	got, _ := press(s, "l")
	s = got.(*resourceScreen)
	assert.Equal(t, 1, s.pager.Page)
	assert.Len(t, s.v.PageRows(s.pager.Page), 5)

	got, _ = press(s, "p")
	s = got.(*resourceScreen)
	assert.Equal(t, 50, s.v.PageSize())
	assert.Equal(t, 0, s.pager.Page)
	assert.Equal(t, 1, s.pager.TotalPages)
}

func TestResourceScreen_RowActionWithInput(t *testing.T) {
	f := newFixture(t)
	f.b.AppUsers = []model.AppUser{{ID: "u1", Fullname: "Ndapewa", Role: "doctor", IsDocumentsSubmitted: true}}
	v, n := f.view(t, "users")
	s := newResourceScreen(context.Background(), 1, v, fullAccess)
	got, _ := settle(s, s.Init())

	got, _ = press(got, "x")
	s = got.(*resourceScreen)
	require.Equal(t, modeInput, s.mode)

	got, _ = press(s, "Blurry scan", "enter")
	s = got.(*resourceScreen)
	assert.Equal(t, modeList, s.mode)
	assert.Equal(t, 1, f.b.Count(http.MethodPatch, "/app/auth/reject-documents/u1"))
	notes := drain(n)
	require.NotEmpty(t, notes)
	assert.Equal(t, "Documents rejected. Notification sent to user.", notes[len(notes)-1].Text)
}

func TestResourceScreen_StaleResultsIgnored(t *testing.T) {
	f := newFixture(t)
	seedFAQs(f)
	s, _ := faqScreen(t, f, fullAccess)
	s.busy = true
	got, _ := s.Update(loadedMsg{seq: 99})
	assert.True(t, got.(*resourceScreen).busy)
}

func TestResourceScreen_DeleteAllNeedsDeletePermission(t *testing.T) {
	f := newFixture(t)
	f.b.Notifications = []model.Notification{
		{ID: "n1", User: model.Ref{ID: "me"}, Title: "Welcome"},
		{ID: "n2", User: model.Ref{ID: "me"}, Title: "Reminder", Read: true},
	}
	open := func(perms model.Permissions) *resourceScreen {
		v, _ := f.view(t, "notifications")
		s := newResourceScreen(context.Background(), 1, v, perms)
		got, _ := settle(s, s.Init())
		return got.(*resourceScreen)
	}

	s := open(model.Permissions{Read: true, Write: true})
	view := s.View()
	assert.Contains(t, view, "M mark all as read")
	assert.NotContains(t, view, "D delete all")

	got, msgs := press(s, "D")
	s = got.(*resourceScreen)
	assert.Equal(t, modeList, s.mode)
	assert.Empty(t, msgs)

	s = open(fullAccess)
	assert.Contains(t, s.View(), "D delete all")
	got, _ = press(s, "D")
	assert.Equal(t, modeConfirm, got.(*resourceScreen).mode)
	assert.Zero(t, f.b.Count(http.MethodDelete, "/portal/notification/delete/n1"))
}

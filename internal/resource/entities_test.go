package resource_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/hcadmin/internal/api"
	"github.com/idilsaglam/hcadmin/internal/apitest"
	"github.com/idilsaglam/hcadmin/internal/model"
	"github.com/idilsaglam/hcadmin/internal/resource"
)

type notices struct {
	mu   sync.Mutex
	list []resource.Notice
}

func (n *notices) Notify(x resource.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.list = append(n.list, x)
}

func (n *notices) all() []resource.Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]resource.Notice(nil), n.list...)
}

func open(t *testing.T, b *apitest.Backend, name string) (resource.View, *notices) {
	t.Helper()
	n := &notices{}
	v, err := resource.Open(name, resource.Deps{
		Client: api.New(b.URL(), api.WithToken(func() string { return "tok" })),
		UserID: func() string { return "me" },
		Notify: n,
		Log:    zerolog.Nop(),
	})
	require.NoError(t, err)
	require.NoError(t, v.Load(context.Background()))
	return v, n
}

func titles(rows []resource.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Cells[0]
	}
	return out
}

func TestOpen_UnknownResource(t *testing.T) {
	_, err := resource.Open("widgets", resource.Deps{Client: api.New("http://localhost")})
	require.Error(t, err)
}

func TestOpen_Aliases(t *testing.T) {
	b := apitest.New(t)
	for alias, name := range map[string]string{"faq": "faqs", "administrators": "admins", "registration": "users"} {
		v, _ := open(t, b, alias)
		assert.Equal(t, name, v.Name())
	}
}

func TestSpecializations_SearchMatchesRoleChips(t *testing.T) {
	b := apitest.New(t)
	b.Specializations = []model.Specialization{
		{ID: "s1", Title: "Cardiology", Description: "Heart", Role: model.Roles{"doctor"}},
		{ID: "s2", Title: "Wound care", Description: "Dressings", Role: model.Roles{"nurse"}},
	}
	v, _ := open(t, b, "specializations")

	rows := v.VisibleRows()
	require.Len(t, rows, 2)
	assert.Equal(t, "Doctor", rows[0].Cells[2])

	v.SetQuery("cardio")
	assert.Equal(t, []string{"Cardiology"}, titles(v.VisibleRows()))

	v.SetQuery("nursing")
	assert.Empty(t, v.VisibleRows())

	v.SetQuery("NURSE")
	assert.Equal(t, []string{"Wound care"}, titles(v.VisibleRows()))
}

func TestSpecializations_CreateSendsLowercasedRoles(t *testing.T) {
	b := apitest.New(t)
	v, n := open(t, b, "specializations")

	f := v.NewForm()
	f.Set("title", "Physio")
	f.Set("description", "Movement")
	f.Set("role", "Physiotherapist, Social Worker")
	closed, err := v.Submit(context.Background(), f)
	require.NoError(t, err)
	assert.True(t, closed)

	call, ok := b.Last(http.MethodPost, "/portal/specialization/add-new-specialization")
	require.True(t, ok)
	var body api.SpecializationInput
	require.NoError(t, json.Unmarshal(call.Body, &body))
	assert.Equal(t, []string{"physiotherapist", "social worker"}, body.Role)
	assert.Equal(t, "Bearer tok", call.Auth)

	assert.Equal(t, 2, b.Count(http.MethodGet, "/portal/specialization/all-specializations"))
	require.Len(t, n.all(), 1)
	assert.Equal(t, resource.LevelSuccess, n.all()[0].Level)
	assert.Equal(t, "Specialization created", n.all()[0].Text)
	assert.Equal(t, 1, v.Len())
}

func TestSpecializations_UnknownRoleIsRejectedLocally(t *testing.T) {
	b := apitest.New(t)
	v, n := open(t, b, "specializations")

	f := v.NewForm()
	f.Set("title", "Dentistry")
	f.Set("description", "Teeth")
	f.Set("role", "dentist")
	_, err := v.Submit(context.Background(), f)
	require.ErrorIs(t, err, resource.ErrValidation)
	assert.Equal(t, 0, b.Count(http.MethodPost, "/portal/specialization/add-new-specialization"))
	require.Len(t, n.all(), 1)
	assert.Equal(t, resource.LevelError, n.all()[0].Level)
}

func TestFAQs_DeleteNotifiesServerMessageAndRefetches(t *testing.T) {
	b := apitest.New(t)
	b.FAQs = []model.FAQ{{ID: "f1", Question: "How do I pay?", Answer: "With the wallet."}}
	v, n := open(t, b, "faqs")

	require.ErrorIs(t, v.Delete(context.Background(), "f1", false), resource.ErrNotConfirmed)
	assert.Equal(t, 0, b.Count(http.MethodDelete, "/portal/faq/delete-faq/f1"))

	require.NoError(t, v.Delete(context.Background(), "f1", true))
	assert.Equal(t, 1, b.Count(http.MethodDelete, "/portal/faq/delete-faq/f1"))
	assert.Equal(t, 2, b.Count(http.MethodGet, "/portal/faq/all-faq"))
	assert.Equal(t, []resource.Notice{{Level: resource.LevelSuccess, Text: "Deleted"}}, n.all())
	assert.Equal(t, 0, v.Len())
}

func TestFAQs_ServerErrorKeepsDialogOpen(t *testing.T) {
	b := apitest.New(t)
	v, n := open(t, b, "faqs")
	b.Respond(http.MethodPost, "/portal/faq/create-faq", http.StatusBadRequest, map[string]string{"message": "Question already exists"})

	f := v.NewForm()
	f.Set("question", "Q")
	f.Set("answer", "A")
	closed, err := v.Submit(context.Background(), f)
	require.Error(t, err)
	assert.False(t, closed)
	assert.Equal(t, 1, b.Count(http.MethodGet, "/portal/faq/all-faq"))
	assert.Equal(t, []resource.Notice{{Level: resource.LevelError, Text: "Question already exists"}}, n.all())
}

func TestAilments_SpecializationShownByTitle(t *testing.T) {
	b := apitest.New(t)
	b.Specializations = []model.Specialization{{ID: "s1", Title: "Cardiology"}}
	b.Ailments = []model.Ailment{
		{ID: "a1", Title: "Arrhythmia", Cost: "450", Specialization: model.Ref{ID: "s1"}},
		{ID: "a2", Title: "Orphan", Cost: "10", Specialization: model.Ref{ID: "gone"}},
	}
	v, _ := open(t, b, "ailments")

	rows := v.VisibleRows()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Arrhythmia", "", "N$450", "Cardiology"}, rows[0].Cells)
	assert.Equal(t, "gone", rows[1].Cells[3])
}

func TestAilments_NegativeCostRejected(t *testing.T) {
	b := apitest.New(t)
	v, _ := open(t, b, "ailments")
	f := v.NewForm()
	f.Set("title", "X")
	f.Set("description", "Y")
	f.Set("cost", "-5")
	f.Set("specialization", "s1")
	_, err := v.Submit(context.Background(), f)
	require.ErrorIs(t, err, resource.ErrValidation)
	assert.Equal(t, 0, b.Count(http.MethodPost, "/portal/aligment/create-alignment"))
}

func TestAilments_ResolveLoadsSpecializationChoices(t *testing.T) {
	b := apitest.New(t)
	b.Specializations = []model.Specialization{{ID: "s1", Title: "Cardiology"}}
	v, _ := open(t, b, "ailments")
	f := v.NewForm()
	require.NoError(t, f.Resolve(context.Background()))

	fd, ok := f.Field("specialization")
	require.True(t, ok)
	assert.Equal(t, []resource.Option{{Value: "s1", Label: "Cardiology"}}, fd.Options)

	f.Set("title", "Arrhythmia")
	f.Set("description", "Irregular beat")
	f.Set("cost", "450")
	f.Set("specialization", "s9")
	_, err := v.Submit(context.Background(), f)
	require.ErrorIs(t, err, resource.ErrValidation)
}

func TestAppUsers_ApproveAndReject(t *testing.T) {
	b := apitest.New(t)
	b.AppUsers = []model.AppUser{
		{ID: "u1", Fullname: "Ndapewa", Role: "doctor", IsDocumentsSubmitted: true},
		{ID: "u2", Fullname: "Tangeni", Role: "patient"},
		{ID: "u3", Fullname: "Kaino", Role: "nurse", IsDocumentsSubmitted: true},
	}
	v, n := open(t, b, "users")

	require.NoError(t, v.SetFilter("role", "doctor"))
	assert.Equal(t, 1, v.Len())
	require.NoError(t, v.SetFilter("role", "all"))

	assert.Empty(t, v.ActionsFor("u2"))
	require.Len(t, v.ActionsFor("u1"), 2)

	require.NoError(t, v.Do(context.Background(), "approve", "u1", ""))
	assert.Equal(t, 1, b.Count(http.MethodPatch, "/app/auth/approve-documents/u1"))
	assert.Equal(t, "Documents approved successfully!", n.all()[0].Text)
	assert.Empty(t, v.ActionsFor("u1"), "verified providers have nothing left to review")

	require.ErrorIs(t, v.Do(context.Background(), "reject", "u3", "  "), resource.ErrValidation)
	assert.Equal(t, 0, b.Count(http.MethodPatch, "/app/auth/reject-documents/u3"))

	require.NoError(t, v.Do(context.Background(), "reject", "u3", "Blurry scan"))
	call, ok := b.Last(http.MethodPatch, "/app/auth/reject-documents/u3")
	require.True(t, ok)
	assert.JSONEq(t, `{"reason":"Blurry scan"}`, string(call.Body))
	assert.Equal(t, "Documents rejected. Notification sent to user.", n.all()[len(n.all())-1].Text)

	assert.False(t, v.CanCreate())
	assert.False(t, v.CanDelete())
}

func TestAppUsers_BalanceAsNumberOrString(t *testing.T) {
	b := apitest.New(t)
	b.RespondRaw(http.MethodGet, "/app/auth/all-users", http.StatusOK, `{"status":true,"users":[
		{"_id":"u1","fullname":"Ndapewa","role":"patient","balance":120.5},
		{"_id":"u2","fullname":"Tangeni","role":"patient","balance":"75"},
		{"_id":"u3","fullname":"Kaino","role":"patient"}
	]}`)
	v, _ := open(t, b, "users")
	require.Equal(t, 3, v.Len())

	field := func(id string) string {
		for _, kv := range v.Detail(id) {
			if kv[0] == "Balance" {
				return kv[1]
			}
		}
		return ""
	}
	assert.Equal(t, "N$120.50", field("u1"))
	assert.Equal(t, "N$75.00", field("u2"))
	assert.Equal(t, "N$0.00", field("u3"))
}

func TestAdmins_CreateOnly(t *testing.T) {
	b := apitest.New(t)
	v, n := open(t, b, "admins")
	assert.True(t, v.CanCreate())
	assert.False(t, v.CanUpdate())
	assert.False(t, v.CanDelete())

	f := v.NewForm()
	assert.Equal(t, "admin", f.Values["role"])
	f.Set("firstName", "Selma")
	f.Set("lastName", "Haufiku")
	f.Set("email", "selma@example.com")
	f.Set("cellphoneNumber", "0811234567")
	f.Set("department", "Finance")
	f.Set("password", "secret123")
	f.Set("role", "Super Admin")
	closed, err := v.Submit(context.Background(), f)
	require.NoError(t, err)
	assert.True(t, closed)
	require.Len(t, n.all(), 1)
	assert.Equal(t, resource.LevelSuccess, n.all()[0].Level)

	call, ok := b.Last(http.MethodPost, "/portal/auth/create-portal-user")
	require.True(t, ok)
	var body map[string]string
	require.NoError(t, json.Unmarshal(call.Body, &body))
	assert.Equal(t, "super admin", body["role"])
	assert.Equal(t, "Finance", body["department"])

	require.NoError(t, v.SetFilter("role", "Super admin"))
	assert.Equal(t, 1, v.Len())
}

func TestIssues_StatusActionRejectsUnchangedStatus(t *testing.T) {
	b := apitest.New(t)
	b.Issues = []model.Issue{{ID: "i1", Title: "App crashes", Status: "Open"}}
	v, n := open(t, b, "issues")

	require.ErrorIs(t, v.Do(context.Background(), "status", "i1", "open"), resource.ErrValidation)
	assert.Equal(t, 0, b.Count(http.MethodPut, "/portal/issues/update-issue/i1"))

	require.NoError(t, v.Do(context.Background(), "status", "i1", "in progress"))
	call, ok := b.Last(http.MethodPut, "/portal/issues/update-issue/i1")
	require.True(t, ok)
	assert.JSONEq(t, `{"status":"In Progress"}`, string(call.Body))
	last := n.all()[len(n.all())-1]
	assert.Equal(t, resource.Notice{Level: resource.LevelSuccess, Text: "Issue status updated successfully!"}, last)

	require.NoError(t, v.SetFilter("status", "In Progress"))
	assert.Equal(t, 1, v.Len())
}

func TestNotifications_BulkReadAndSend(t *testing.T) {
	b := apitest.New(t)
	b.Notifications = []model.Notification{
		{ID: "n1", Title: "A", User: model.Ref{ID: "me"}},
		{ID: "n2", Title: "B", User: model.Ref{ID: "me"}, Read: true},
		{ID: "n3", Title: "C", User: model.Ref{ID: "me"}},
		{ID: "n4", Title: "D", User: model.Ref{ID: "someone"}},
	}
	v, n := open(t, b, "notifications")
	assert.Equal(t, 3, v.Len())

	require.NoError(t, v.SetFilter("read", "unviewed"))
	assert.Equal(t, 2, v.Len())

	require.NoError(t, v.DoAll(context.Background(), "read-all", false))
	assert.Equal(t, 1, b.Count(http.MethodPut, "/portal/notification/mark-read/n1"))
	assert.Equal(t, 1, b.Count(http.MethodPut, "/portal/notification/mark-read/n3"))
	assert.Equal(t, 0, b.Count(http.MethodPut, "/portal/notification/mark-read/n2"))
	assert.Equal(t, 0, v.Len())
	assert.Equal(t, "All notifications marked as read", n.all()[0].Text)

	require.NoError(t, v.DoAll(context.Background(), "read-all", false))
	assert.Equal(t, resource.Notice{Level: resource.LevelInfo, Text: "Nothing to do"}, n.all()[1])

	f := v.NewForm()
	f.Set("title", "Maintenance")
	f.Set("message", "Tonight at 22:00")
	_, err := v.Submit(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Count(http.MethodPost, "/portal/notification/send-to-all-users"))
	assert.Equal(t, 0, b.Count(http.MethodPost, "/portal/notification/send-to-user"))
}

func TestTransactions_ReadOnlyWithStats(t *testing.T) {
	b := apitest.New(t)
	v, _ := open(t, b, "transactions")
	assert.False(t, v.CanCreate())
	assert.False(t, v.CanUpdate())
	assert.False(t, v.CanDelete())
	assert.NotEmpty(t, v.Stats())
}

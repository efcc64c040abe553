// Package apitest is an in-memory HealthConnect backend for tests: the REST
// endpoints the console calls, mounted on a chi router under /api, plus a
// socket.io websocket endpoint.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/idilsaglam/hcadmin/internal/model"
)

// Call is one recorded request.
type Call struct {
	Method string
	Path   string // without the /api prefix
	Auth   string
	Body   []byte
}

type override struct {
	status int
	body   any
	raw    string
}

// Backend holds the fake server state. Exported slices may be seeded before
// the first request; later access must go through the helper methods.
type Backend struct {
	mu sync.Mutex

	Specializations []model.Specialization
	Ailments        []model.Ailment
	FAQs            []model.FAQ
	AppUsers        []model.AppUser
	Admins          []model.Admin
	Transactions    []model.Transaction
	Issues          []model.Issue
	Notifications   []model.Notification
	Dashboard       model.DashboardStats
	RequestStats    model.RequestStats
	Unread          int

	// Accounts maps email to password for the login endpoint.
	Accounts map[string]string

	calls     []Call
	overrides map[string]override
	seq       int

	sockets *socketHub
	Server  *httptest.Server
}

// New starts the backend; it is closed by t.Cleanup.
func New(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{
		Accounts:  map[string]string{},
		overrides: map[string]override{},
		sockets:   newSocketHub(),
	}
	b.Server = httptest.NewServer(b.routes())
	t.Cleanup(func() {
		b.sockets.closeAll()
		b.Server.Close()
	})
	return b
}

// URL is the API base URL (…/api).
func (b *Backend) URL() string { return b.Server.URL + "/api" }

// Origin is the server origin, used as the socket URL.
func (b *Backend) Origin() string { return b.Server.URL }

// Respond makes METHOD path answer status+body (JSON-encoded) from now on.
func (b *Backend) Respond(method, path string, status int, body any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.overrides[method+" "+path] = override{status: status, body: body}
}

// RespondRaw is Respond with a verbatim body.
func (b *Backend) RespondRaw(method, path string, status int, raw string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.overrides[method+" "+path] = override{status: status, raw: raw}
}

// Reset drops every override.
func (b *Backend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.overrides = map[string]override{}
}

// Calls returns a copy of the recorded requests.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// Count returns how many times METHOD path was requested.
func (b *Backend) Count(method, path string) int {
	n := 0
	for _, c := range b.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

// Last returns the most recent call to METHOD path.
func (b *Backend) Last(method, path string) (Call, bool) {
	calls := b.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Method == method && calls[i].Path == path {
			return calls[i], true
		}
	}
	return Call{}, false
}

// Set runs fn with the state lock held.
func (b *Backend) Set(fn func(b *Backend)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b)
}

func (b *Backend) nextID(prefix string) string {
	b.seq++
	return fmt.Sprintf("%s%d", prefix, b.seq)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api")
		body := readBody(r)
		b.mu.Lock()
		b.calls = append(b.calls, Call{Method: r.Method, Path: path, Auth: r.Header.Get("Authorization"), Body: body})
		ov, ok := b.overrides[r.Method+" "+path]
		b.mu.Unlock()
		if ok {
			if ov.raw != "" || ov.body == nil {
				w.WriteHeader(ov.status)
				_, _ = w.Write([]byte(ov.raw))
				return
			}
			writeJSON(w, ov.status, ov.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/socket.io/", b.serveSocket)

	r.Route("/api", func(r chi.Router) {
		r.Use(b.record)

		r.Route("/portal/specialization", func(r chi.Router) {
			r.Get("/all-specializations", b.listSpecializations)
			r.Post("/add-new-specialization", b.createSpecialization)
			r.Put("/update-specialization/{id}", b.updateSpecialization)
			r.Delete("/delete-specialization/{id}", b.deleteSpecialization)
		})
		r.Route("/portal/aligment", func(r chi.Router) {
			r.Get("/all-alignments", b.listAilments)
			r.Post("/create-alignment", b.createAilment)
			r.Put("/update-alignment/{id}", b.updateAilment)
			r.Delete("/delete-alignment/{id}", b.deleteAilment)
		})
		r.Route("/portal/faq", func(r chi.Router) {
			r.Get("/all-faq", b.listFAQs)
			r.Post("/create-faq", b.createFAQ)
			r.Put("/update-faq/{id}", b.updateFAQ)
			r.Delete("/delete-faq/{id}", b.deleteFAQ)
		})
		r.Route("/app/auth", func(r chi.Router) {
			r.Get("/all-users", b.listAppUsers)
			r.Patch("/approve-documents/{id}", b.approveDocuments)
			r.Patch("/reject-documents/{id}", b.rejectDocuments)
		})
		r.Get("/app/transaction/all-transactions", b.listTransactions)
		r.Route("/portal/auth", func(r chi.Router) {
			r.Post("/login", b.login)
			r.Get("/all-users", b.listAdmins)
			r.Post("/create-portal-user", b.createAdmin)
			r.Get("/dashboard-stats", b.dashboardStats)
			r.Put("/update-user/{id}", b.updateUser)
			r.Put("/update-password/{id}", b.updatePassword)
			r.Patch("/upload-profile-image/{id}", b.uploadImage)
		})
		r.Route("/portal/issues", func(r chi.Router) {
			r.Get("/all-issues", b.listIssues)
			r.Put("/update-issue/{id}", b.updateIssue)
		})
		r.Route("/portal/notification", func(r chi.Router) {
			r.Get("/all-notifications/{userId}", b.listNotifications)
			r.Put("/mark-read/{id}", b.markRead)
			r.Delete("/delete/{id}", b.deleteNotification)
			r.Post("/send-to-all-users", b.sendNotification)
			r.Post("/send-to-user", b.sendNotification)
			r.Get("/unread-count/{userId}", b.unreadCount)
		})
		r.Get("/portal/request/stats", b.requestStats)
	})
	return r
}

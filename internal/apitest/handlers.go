package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/idilsaglam/hcadmin/internal/model"
)

func readBody(r *http.Request) []byte {
	if r.Body == nil {
		return nil
	}
	b, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(b))
	return b
}

func indexOf[T any](xs []T, id string, key func(T) string) int {
	for i, x := range xs {
		if key(x) == id {
			return i
		}
	}
	return -1
}

func notFound(w http.ResponseWriter, what string) {
	writeJSON(w, http.StatusNotFound, map[string]any{"status": false, "message": what + " not found"})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"status": false, "message": msg})
}

// ---- specializations ----

func (b *Backend) listSpecializations(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"specializations": b.Specializations})
}

func (b *Backend) createSpecialization(w http.ResponseWriter, r *http.Request) {
	var s model.Specialization
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		badRequest(w, "invalid body")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	s.ID = b.nextID("s")
	b.Specializations = append(b.Specializations, s)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Specialization created", "specialization": s})
}

func (b *Backend) updateSpecialization(w http.ResponseWriter, r *http.Request) {
	var s model.Specialization
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		badRequest(w, "invalid body")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	id := chi.URLParam(r, "id")
	i := indexOf(b.Specializations, id, func(x model.Specialization) string { return x.ID })
	if i < 0 {
		notFound(w, "Specialization")
		return
	}
	s.ID = id
	b.Specializations[i] = s
	writeJSON(w, http.StatusOK, map[string]any{"message": "Specialization updated"})
}

func (b *Backend) deleteSpecialization(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexOf(b.Specializations, chi.URLParam(r, "id"), func(x model.Specialization) string { return x.ID })
	if i < 0 {
		notFound(w, "Specialization")
		return
	}
	b.Specializations = append(b.Specializations[:i], b.Specializations[i+1:]...)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Specialization deleted"})
}

// ---- ailments ----

func (b *Backend) listAilments(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	// populate the specialization like the real server does
	out := make([]map[string]any, 0, len(b.Ailments))
	for _, a := range b.Ailments {
		var spec any = a.Specialization.ID
		if i := indexOf(b.Specializations, a.Specialization.ID, func(x model.Specialization) string { return x.ID }); i >= 0 {
			spec = map[string]any{"_id": b.Specializations[i].ID, "title": b.Specializations[i].Title}
		}
		out = append(out, map[string]any{
			"_id":            a.ID,
			"title":          a.Title,
			"description":    a.Description,
			"cost":           a.Cost,
			"specialization": spec,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"ailments": out})
}

func (b *Backend) createAilment(w http.ResponseWriter, r *http.Request) {
	var a model.Ailment
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		badRequest(w, "invalid body")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	a.ID = b.nextID("a")
	b.Ailments = append(b.Ailments, a)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Ailment created"})
}

func (b *Backend) updateAilment(w http.ResponseWriter, r *http.Request) {
	var a model.Ailment
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		badRequest(w, "invalid body")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	id := chi.URLParam(r, "id")
	i := indexOf(b.Ailments, id, func(x model.Ailment) string { return x.ID })
	if i < 0 {
		notFound(w, "Ailment")
		return
	}
	a.ID = id
	b.Ailments[i] = a
	writeJSON(w, http.StatusOK, map[string]any{"message": "Ailment updated"})
}

func (b *Backend) deleteAilment(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexOf(b.Ailments, chi.URLParam(r, "id"), func(x model.Ailment) string { return x.ID })
	if i < 0 {
		notFound(w, "Ailment")
		return
	}
	b.Ailments = append(b.Ailments[:i], b.Ailments[i+1:]...)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Ailment deleted"})
}

// ---- faqs ----

func (b *Backend) listFAQs(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"faqs": b.FAQs})
}

func (b *Backend) createFAQ(w http.ResponseWriter, r *http.Request) {
	var f model.FAQ
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		badRequest(w, "invalid body")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	f.ID = b.nextID("f")
	b.FAQs = append(b.FAQs, f)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "FAQ created"})
}

func (b *Backend) updateFAQ(w http.ResponseWriter, r *http.Request) {
	var f model.FAQ
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		badRequest(w, "invalid body")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	id := chi.URLParam(r, "id")
	i := indexOf(b.FAQs, id, func(x model.FAQ) string { return x.ID })
	if i < 0 {
		notFound(w, "FAQ")
		return
	}
	f.ID = id
	b.FAQs[i] = f
	writeJSON(w, http.StatusOK, map[string]any{"message": "FAQ updated"})
}

func (b *Backend) deleteFAQ(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexOf(b.FAQs, chi.URLParam(r, "id"), func(x model.FAQ) string { return x.ID })
	if i < 0 {
		notFound(w, "FAQ")
		return
	}
	b.FAQs = append(b.FAQs[:i], b.FAQs[i+1:]...)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Deleted"})
}

// ---- app users ----

func (b *Backend) listAppUsers(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": true, "users": b.AppUsers})
}

func (b *Backend) approveDocuments(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexOf(b.AppUsers, chi.URLParam(r, "id"), func(x model.AppUser) string { return x.ID })
	if i < 0 {
		notFound(w, "User")
		return
	}
	b.AppUsers[i].IsDocumentVerified = true
	writeJSON(w, http.StatusOK, map[string]any{"status": true, "message": "Documents approved"})
}

func (b *Backend) rejectDocuments(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reason string `json:"reason"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	if strings.TrimSpace(body.Reason) == "" {
		badRequest(w, "Rejection reason is required")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexOf(b.AppUsers, chi.URLParam(r, "id"), func(x model.AppUser) string { return x.ID })
	if i < 0 {
		notFound(w, "User")
		return
	}
	b.AppUsers[i].IsDocumentsSubmitted = false
	writeJSON(w, http.StatusOK, map[string]any{"status": true, "message": "Documents rejected"})
}

func (b *Backend) listTransactions(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": true, "transactions": b.Transactions})
}

// ---- portal auth ----

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	b.mu.Lock()
	defer b.mu.Unlock()
	pw, ok := b.Accounts[body.Email]
	if !ok || pw != body.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"status": false, "message": "Invalid email or password"})
		return
	}
	i := indexOf(b.Admins, body.Email, func(x model.Admin) string { return x.Email })
	if i < 0 {
		notFound(w, "User")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": true, "message": "Login successful", "user": b.Admins[i]})
}

func (b *Backend) listAdmins(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Admin, len(b.Admins))
	for i, a := range b.Admins {
		a.Token = ""
		out[i] = a
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": true, "users": out})
}

func (b *Backend) createAdmin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		model.Admin
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "invalid body")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if indexOf(b.Admins, body.Email, func(x model.Admin) string { return x.Email }) >= 0 {
		badRequest(w, "User already exists")
		return
	}
	a := body.Admin
	a.ID = b.nextID("u")
	b.Admins = append(b.Admins, a)
	b.Accounts[a.Email] = body.Password
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Administrator added successfully!"})
}

func (b *Backend) dashboardStats(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": true, "stats": b.Dashboard})
}

func (b *Backend) updateUser(w http.ResponseWriter, r *http.Request) {
	var in model.Admin
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		badRequest(w, "invalid body")
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexOf(b.Admins, chi.URLParam(r, "id"), func(x model.Admin) string { return x.ID })
	if i < 0 {
		notFound(w, "User")
		return
	}
	a := &b.Admins[i]
	a.FirstName, a.LastName, a.Email = in.FirstName, in.LastName, in.Email
	a.CellphoneNumber, a.Department = in.CellphoneNumber, in.Department
	writeJSON(w, http.StatusOK, map[string]any{"status": true, "message": "Details updated successfully!", "user": *a})
}

func (b *Backend) updatePassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexOf(b.Admins, chi.URLParam(r, "id"), func(x model.Admin) string { return x.ID })
	if i < 0 {
		notFound(w, "User")
		return
	}
	email := b.Admins[i].Email
	if b.Accounts[email] != in.CurrentPassword {
		badRequest(w, "Current password is incorrect")
		return
	}
	b.Accounts[email] = in.NewPassword
	writeJSON(w, http.StatusOK, map[string]any{"status": true, "message": "Password changed successfully!"})
}

func (b *Backend) uploadImage(w http.ResponseWriter, r *http.Request) {
	f, hdr, err := r.FormFile("profileImage")
	if err != nil {
		badRequest(w, "profileImage is required")
		return
	}
	_ = f.Close()
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexOf(b.Admins, chi.URLParam(r, "id"), func(x model.Admin) string { return x.ID })
	if i < 0 {
		notFound(w, "User")
		return
	}
	b.Admins[i].ProfileImage = hdr.Filename
	writeJSON(w, http.StatusOK, map[string]any{"status": true, "message": "Profile image uploaded successfully!", "user": b.Admins[i]})
}

// ---- issues ----

func (b *Backend) listIssues(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": "SUCCESS", "data": b.Issues})
}

func (b *Backend) updateIssue(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status string `json:"status"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexOf(b.Issues, chi.URLParam(r, "id"), func(x model.Issue) string { return x.ID })
	if i < 0 {
		notFound(w, "Issue")
		return
	}
	b.Issues[i].Status = in.Status
	writeJSON(w, http.StatusOK, map[string]any{"status": "SUCCESS", "data": b.Issues[i]})
}

// ---- notifications ----

func (b *Backend) listNotifications(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	user := chi.URLParam(r, "userId")
	out := []model.Notification{}
	for _, n := range b.Notifications {
		if n.User.ID == "" || n.User.ID == user {
			out = append(out, n)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": true, "data": out})
}

func (b *Backend) markRead(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexOf(b.Notifications, chi.URLParam(r, "id"), func(x model.Notification) string { return x.ID })
	if i < 0 {
		notFound(w, "Notification")
		return
	}
	b.Notifications[i].Read = true
	writeJSON(w, http.StatusOK, map[string]any{"status": true, "message": "Notification marked as read"})
}

func (b *Backend) deleteNotification(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := indexOf(b.Notifications, chi.URLParam(r, "id"), func(x model.Notification) string { return x.ID })
	if i < 0 {
		notFound(w, "Notification")
		return
	}
	b.Notifications = append(b.Notifications[:i], b.Notifications[i+1:]...)
	writeJSON(w, http.StatusOK, map[string]any{"status": true, "message": "Notification deleted"})
}

func (b *Backend) sendNotification(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserID  string `json:"userId"`
		Title   string `json:"title"`
		Message string `json:"message"`
		Type    string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		badRequest(w, "invalid body")
		return
	}
	if strings.HasSuffix(r.URL.Path, "/send-to-user") && in.UserID == "" {
		badRequest(w, "userId is required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": true, "message": "Notification sent successfully!"})
}

func (b *Backend) unreadCount(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": true, "data": map[string]int{"unReadCount": b.Unread}})
}

func (b *Backend) requestStats(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": true, "stats": b.RequestStats})
}

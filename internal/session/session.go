// Package session is the console's application context: who is logged in,
// with which token, and what they may do. Screens read it through Snapshot
// and change it only through Login, Logout and the profile operations.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/idilsaglam/hcadmin/internal/api"
	"github.com/idilsaglam/hcadmin/internal/model"
	"github.com/idilsaglam/hcadmin/internal/store/jsonstore"
)

var (
	ErrNotLoggedIn = errors.New("not logged in")
	// ErrInvalid marks input rejected before any request is sent.
	ErrInvalid = errors.New("invalid input")
	// ErrNoChanges is returned by UpdateProfile when nothing differs.
	ErrNoChanges = errors.New("You have not made any changes")
)

type inputError struct{ msg string }

func (e *inputError) Error() string        { return e.msg }
func (e *inputError) Is(target error) bool { return target == ErrInvalid }

func invalid(msg string) error { return &inputError{msg: msg} }

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Backend is the part of the API the session drives.
type Backend interface {
	Login(ctx context.Context, email, password string) (model.Admin, string, error)
	UpdateProfile(ctx context.Context, id string, in api.ProfileInput) (model.Admin, string, error)
	UpdatePassword(ctx context.Context, id string, in api.PasswordInput) (string, error)
	UploadProfileImage(ctx context.Context, id, name, contentType string, data io.Reader) (model.Admin, string, error)
}

// Snapshot is a read-only copy of the session state.
type Snapshot struct {
	User      model.Admin
	Token     string
	Source    string
	ExpiresAt *time.Time
	Perms     model.Permissions
}

func (s Snapshot) LoggedIn() bool { return s.User.ID != "" || s.Token != "" }

// Expired reports whether the token carries an exp claim in the past.
func (s Snapshot) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && now.After(*s.ExpiresAt)
}

type Session struct {
	mu         sync.RWMutex
	dir        string
	superAdmin string
	backend    Backend
	creds      *Credentials
}

// Open loads any stored credentials from dir. The backend may be attached
// later with Attach when the API client itself needs the session's token.
func Open(dir, superAdminRole string, backend Backend) (*Session, error) {
	c, err := loadCredentials(dir)
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	return &Session{dir: dir, superAdmin: superAdminRole, backend: backend, creds: c}, nil
}

// Attach sets the backend used by the mutating operations.
func (s *Session) Attach(b Backend) {
	s.mu.Lock()
	s.backend = b
	s.mu.Unlock()
}

// Token is the current bearer token ("" when logged out). It is safe to pass
// as the API client's token source.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return ""
	}
	return s.creds.Token
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil {
		return Snapshot{Perms: Gate(nil, s.superAdmin)}
	}
	u := s.creds.User
	if u.Permissions != nil {
		p := *u.Permissions
		u.Permissions = &p
	}
	var exp *time.Time
	if s.creds.ExpiresAt != nil {
		t := *s.creds.ExpiresAt
		exp = &t
	}
	return Snapshot{
		User:      u,
		Token:     s.creds.Token,
		Source:    s.creds.Source,
		ExpiresAt: exp,
		Perms:     Gate(&u, s.superAdmin),
	}
}

// RememberedEmail is the email saved by the last "remember me" login.
func (s *Session) RememberedEmail() string {
	var r remembered
	if _, err := jsonstore.Load(filepath.Join(s.dir, rememberFileName), &r); err != nil {
		return ""
	}
	return r.Email
}

// Login validates the form, authenticates and persists the credentials.
// With remember set only the email is kept for next time; the password is
// never written to disk.
func (s *Session) Login(ctx context.Context, email, password string, remember bool) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", invalid("Email is required")
	}
	if !emailPattern.MatchString(email) {
		return "", invalid("Please enter a valid email address")
	}
	if password == "" {
		return "", invalid("Password is required")
	}

	user, msg, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return "", err
	}
	c := Credentials{Token: stripBearer(user.Token), CreatedAt: time.Now(), User: user}
	c.ExpiresAt = tokenExpiry(c.Token)
	if err := saveCredentials(s.dir, c); err != nil {
		return "", fmt.Errorf("save credentials: %w", err)
	}
	c.Source = "file"
	c.User.Token = ""

	rememberPath := filepath.Join(s.dir, rememberFileName)
	if remember {
		if err := jsonstore.Save(rememberPath, remembered{Email: email}); err != nil {
			return "", fmt.Errorf("remember email: %w", err)
		}
	} else if err := jsonstore.Remove(rememberPath); err != nil {
		return "", err
	}

	s.mu.Lock()
	s.creds = &c
	s.mu.Unlock()
	if msg == "" {
		msg = "Login successful!"
	}
	return msg, nil
}

// Logout forgets the stored credentials. A token supplied through
// HCADMIN_TOKEN is not ours to delete; the session stays logged in.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds != nil && s.creds.Source == "env" {
		return nil
	}
	if err := deleteCredentials(s.dir); err != nil {
		return err
	}
	s.creds = nil
	return nil
}

func (s *Session) current() (Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.creds == nil || s.creds.User.ID == "" {
		return Credentials{}, ErrNotLoggedIn
	}
	return *s.creds, nil
}

func (s *Session) replaceUser(c Credentials, u model.Admin) error {
	if u.ID == "" {
		u.ID = c.User.ID
	}
	u.Token = ""
	c.User = u
	if c.Source != "env" {
		if err := saveCredentials(s.dir, c); err != nil {
			return fmt.Errorf("save credentials: %w", err)
		}
		c.Source = "file"
	}
	s.mu.Lock()
	s.creds = &c
	s.mu.Unlock()
	return nil
}

// UpdateProfile sends the edited details. Every field is required and an
// unchanged form is refused without a request.
func (s *Session) UpdateProfile(ctx context.Context, in api.ProfileInput) (string, error) {
	c, err := s.current()
	if err != nil {
		return "", err
	}
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.CellphoneNumber = strings.TrimSpace(in.CellphoneNumber)
	in.Department = strings.TrimSpace(in.Department)
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.CellphoneNumber == "" || in.Department == "" {
		return "", invalid("Input fields cannot be empty")
	}
	u := c.User
	if in.FirstName == u.FirstName && in.LastName == u.LastName && in.Email == u.Email &&
		in.CellphoneNumber == u.CellphoneNumber && in.Department == u.Department {
		return "", ErrNoChanges
	}

	updated, msg, err := s.backend.UpdateProfile(ctx, u.ID, in)
	if err != nil {
		return "", err
	}
	if updated.Permissions == nil {
		updated.Permissions = u.Permissions
	}
	if err := s.replaceUser(c, updated); err != nil {
		return "", err
	}
	if msg == "" {
		msg = "Details updated successfully!"
	}
	return msg, nil
}

// ChangePassword requires the new password twice.
func (s *Session) ChangePassword(ctx context.Context, current, next, confirm string) (string, error) {
	c, err := s.current()
	if err != nil {
		return "", err
	}
	if current == "" || next == "" {
		return "", invalid("Input fields cannot be empty")
	}
	if next != confirm {
		return "", invalid("Passwords do not match!")
	}
	msg, err := s.backend.UpdatePassword(ctx, c.User.ID, api.PasswordInput{
		CurrentPassword: current,
		NewPassword:     next,
		ConfirmPassword: confirm,
	})
	if err != nil {
		return "", err
	}
	if msg == "" {
		msg = "Password changed successfully!"
	}
	return msg, nil
}

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// UploadAvatar uploads a .jpg/.jpeg/.png file whose content matches its extension.
func (s *Session) UploadAvatar(ctx context.Context, path string) (string, error) {
	c, err := s.current()
	if err != nil {
		return "", err
	}
	want, ok := imageTypes[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return "", invalid("Please upload a valid image file with .jpg, .jpeg, or .png extension.")
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read image: %w", err)
	}
	if got := http.DetectContentType(head[:n]); got != want {
		return "", invalid("Please upload a valid image file with .jpg, .jpeg, or .png extension.")
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	updated, msg, err := s.backend.UploadProfileImage(ctx, c.User.ID, filepath.Base(path), want, f)
	if err != nil {
		return "", err
	}
	if updated.Permissions == nil {
		updated.Permissions = c.User.Permissions
	}
	if err := s.replaceUser(c, updated); err != nil {
		return "", err
	}
	if msg == "" {
		msg = "Profile image uploaded successfully!"
	}
	return msg, nil
}

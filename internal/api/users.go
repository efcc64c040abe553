package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/idilsaglam/hcadmin/internal/model"
)

// AdminInput is the body of create-portal-user. Role is sent lowercased.
type AdminInput struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	CellphoneNumber string `json:"cellphoneNumber"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	Role            string `json:"role"`
	Department      string `json:"department"`
}

var usersMarker = MarkerBoth(MarkerStatus, MarkerField("users"))

// AppUsers lists patients and health providers registered through the app.
func (c *Client) AppUsers(ctx context.Context) ([]model.AppUser, error) {
	var out []model.AppUser
	err := c.list(ctx, "/app/auth/all-users", "users", usersMarker, &out)
	return out, err
}

func (c *Client) ApproveDocuments(ctx context.Context, userID string) (string, error) {
	return c.ack(ctx, http.MethodPatch, "/app/auth/approve-documents/"+url.PathEscape(userID), nil, MarkerStatus)
}

func (c *Client) RejectDocuments(ctx context.Context, userID, reason string) (string, error) {
	body := map[string]string{"reason": reason}
	return c.ack(ctx, http.MethodPatch, "/app/auth/reject-documents/"+url.PathEscape(userID), body, MarkerStatus)
}

// Admins lists portal accounts.
func (c *Client) Admins(ctx context.Context) ([]model.Admin, error) {
	var out []model.Admin
	err := c.list(ctx, "/portal/auth/all-users", "users", usersMarker, &out)
	return out, err
}

func (c *Client) CreateAdmin(ctx context.Context, in AdminInput) (string, error) {
	return c.ack(ctx, http.MethodPost, "/portal/auth/create-portal-user", in, MarkerMessage)
}

func (c *Client) Transactions(ctx context.Context) ([]model.Transaction, error) {
	var out []model.Transaction
	err := c.list(ctx, "/app/transaction/all-transactions", "transactions", MarkerBoth(MarkerStatus, MarkerField("transactions")), &out)
	return out, err
}

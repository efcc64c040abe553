package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/idilsaglam/hcadmin/internal/model"
)

// NotificationInput is the body of the send endpoints. UserID empty means
// broadcast to all users.
type NotificationInput struct {
	UserID  string `json:"userId,omitempty"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// Issues answer {status: "SUCCESS", data}.
func (c *Client) Issues(ctx context.Context) ([]model.Issue, error) {
	var out []model.Issue
	err := c.list(ctx, "/portal/issues/all-issues", "data", MarkerStatus, &out)
	return out, err
}

func (c *Client) UpdateIssueStatus(ctx context.Context, id, status string) (string, error) {
	body := map[string]string{"status": status}
	return c.ack(ctx, http.MethodPut, "/portal/issues/update-issue/"+url.PathEscape(id), body, MarkerStatus)
}

// Notifications lists the notifications addressed to userID.
func (c *Client) Notifications(ctx context.Context, userID string) ([]model.Notification, error) {
	var out []model.Notification
	err := c.list(ctx, "/portal/notification/all-notifications/"+url.PathEscape(userID), "data", MarkerStatus, &out)
	return out, err
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) (string, error) {
	return c.ack(ctx, http.MethodPut, "/portal/notification/mark-read/"+url.PathEscape(id), nil, MarkerStatus)
}

func (c *Client) DeleteNotification(ctx context.Context, id string) (string, error) {
	return c.ack(ctx, http.MethodDelete, "/portal/notification/delete/"+url.PathEscape(id), nil, MarkerStatus)
}

// SendNotification posts to send-to-user when in.UserID is set, otherwise to send-to-all-users.
func (c *Client) SendNotification(ctx context.Context, in NotificationInput) (string, error) {
	path := "/portal/notification/send-to-all-users"
	if in.UserID != "" {
		path = "/portal/notification/send-to-user"
	}
	return c.ack(ctx, http.MethodPost, path, in, MarkerStatus)
}

// UnreadCount returns data.unReadCount for userID.
func (c *Client) UnreadCount(ctx context.Context, userID string) (int, error) {
	var data struct {
		UnreadCount int `json:"unReadCount"`
	}
	if err := c.list(ctx, "/portal/notification/unread-count/"+url.PathEscape(userID), "data", MarkerStatus, &data); err != nil {
		return 0, err
	}
	return data.UnreadCount, nil
}

func (c *Client) DashboardStats(ctx context.Context) (model.DashboardStats, error) {
	var out model.DashboardStats
	err := c.list(ctx, "/portal/auth/dashboard-stats", "stats", MarkerBoth(MarkerStatus, MarkerField("stats")), &out)
	return out, err
}

func (c *Client) RequestStats(ctx context.Context) (model.RequestStats, error) {
	var out model.RequestStats
	err := c.list(ctx, "/portal/request/stats", "stats", MarkerBoth(MarkerStatus, MarkerField("stats")), &out)
	return out, err
}

package resource

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/idilsaglam/hcadmin/internal/api"
	"github.com/idilsaglam/hcadmin/internal/model"
)

func Issues(c *api.Client) Config[model.Issue] {
	return Config[model.Issue]{
		Name:     "issues",
		Singular: "issue",
		ID:       func(i model.Issue) string { return i.ID },
		Columns: []Column[model.Issue]{
			{Header: "ID", Width: 10, Cell: func(i model.Issue) string { return i.ID }},
			{Header: "User", Width: 18, Cell: func(i model.Issue) string { return i.User.Display() }},
			{Header: "Title", Width: 24, Cell: func(i model.Issue) string { return i.Title }},
			{Header: "Description", Width: 36, Cell: func(i model.Issue) string { return i.Description }},
			{Header: "Status", Width: 12, Cell: func(i model.Issue) string { return i.Status }},
			{Header: "Date", Width: 11, Cell: func(i model.Issue) string { return i.Date.Date() }},
		},
		Searchable: func(i model.Issue) []string {
			return []string{i.Title, i.Description, i.User.ID, i.Status}
		},
		Filters: []Filter[model.Issue]{
			{Name: "status", Values: model.IssueStatuses, Value: func(i model.Issue) string { return i.Status }},
		},
		Stats: func(is []model.Issue) []Stat {
			counts := map[string]int{}
			for _, i := range is {
				counts[i.Status]++
			}
			out := []Stat{{Label: "Total", Value: fmt.Sprint(len(is))}}
			for _, s := range model.IssueStatuses {
				out = append(out, Stat{Label: s, Value: fmt.Sprint(counts[s])})
			}
			return out
		},
		List: c.Issues,
		Actions: []Action[model.Issue]{
			{
				Name: "status", Label: "Update status", Key: "s",
				Input: &Field{Key: "status", Label: "Status", Kind: KindChoice, Required: true, Options: Options(model.IssueStatuses...)},
				Check: func(i model.Issue, status string) error {
					if canonicalStatus(status) == i.Status {
						return invalid("Issue already has status " + i.Status)
					}
					return nil
				},
				Run: func(ctx context.Context, i model.Issue, status string) (string, error) {
					// the endpoint answers with data, not a message
					if _, err := c.UpdateIssueStatus(ctx, i.ID, canonicalStatus(status)); err != nil {
						return "", err
					}
					return "", nil
				},
				Done: "Issue status updated successfully!",
			},
		},
	}
}

func canonicalStatus(s string) string {
	for _, v := range model.IssueStatuses {
		if strings.EqualFold(v, s) {
			return v
		}
	}
	return s
}

const (
	readViewed   = "viewed"
	readUnviewed = "unviewed"
)

// Notifications are those addressed to the logged-in user; userID is read
// at fetch time so a fresh login is picked up.
func Notifications(c *api.Client, userID func() string) Config[model.Notification] {
	list := func(ctx context.Context) ([]model.Notification, error) {
		id := userID()
		if id == "" {
			return nil, errors.New("User information not available. Please log in again.")
		}
		return c.Notifications(ctx, id)
	}
	return Config[model.Notification]{
		Name:     "notifications",
		Singular: "notification",
		ID:       func(n model.Notification) string { return n.ID },
		Columns: []Column[model.Notification]{
			{Header: "Title", Width: 24, Cell: func(n model.Notification) string { return n.Title }},
			{Header: "Message", Width: 40, Cell: model.Notification.Body},
			{Header: "Type", Width: 14, Cell: func(n model.Notification) string { return n.Type }},
			{Header: "Read", Width: 8, Cell: readLabel},
			{Header: "Created", Width: 17, Cell: func(n model.Notification) string { return n.CreatedAt.Stamp() }},
		},
		Searchable: func(n model.Notification) []string {
			return []string{n.Title, n.Body(), n.User.ID}
		},
		Filters: []Filter[model.Notification]{
			{Name: "read", Values: []string{readViewed, readUnviewed}, Value: readLabel},
		},
		Fields: []Field{
			{Key: "userId", Label: "Recipient user id (blank for all users)"},
			{Key: "title", Label: "Title", Required: true},
			{Key: "message", Label: "Message", Kind: KindLong, Required: true},
			{Key: "type", Label: "Type", Kind: KindChoice, Required: true, Default: "alert", Options: Options(model.NotificationTypes...)},
		},
		Stats: func(ns []model.Notification) []Stat {
			unread := 0
			for _, n := range ns {
				if !n.Read {
					unread++
				}
			}
			return []Stat{
				{Label: "Total", Value: fmt.Sprint(len(ns))},
				{Label: "Unread", Value: fmt.Sprint(unread)},
			}
		},
		List: list,
		// creating a notification sends it
		Create: func(ctx context.Context, f Form) (string, error) {
			return c.SendNotification(ctx, api.NotificationInput{
				UserID:  f.Get("userId"),
				Title:   f.Get("title"),
				Message: f.Get("message"),
				Type:    f.Get("type"),
			})
		},
		Delete: c.DeleteNotification,
		Actions: []Action[model.Notification]{
			{
				Name: "read", Label: "Mark as read", Key: "m",
				Applies: func(n model.Notification) bool { return !n.Read },
				Run: func(ctx context.Context, n model.Notification, _ string) (string, error) {
					return c.MarkNotificationRead(ctx, n.ID)
				},
				Done: "Notification marked as read",
			},
			{
				Name: "read-all", Label: "Mark all as read", Key: "M", Bulk: true,
				Applies: func(n model.Notification) bool { return !n.Read },
				Run: func(ctx context.Context, n model.Notification, _ string) (string, error) {
					return c.MarkNotificationRead(ctx, n.ID)
				},
				Done: "All notifications marked as read",
			},
			{
				Name: "delete-all", Label: "Delete all", Key: "D", Bulk: true, Confirm: true, Deletes: true,
				Run: func(ctx context.Context, n model.Notification, _ string) (string, error) {
					return c.DeleteNotification(ctx, n.ID)
				},
				Done: "All notifications deleted",
			},
		},
	}
}

func readLabel(n model.Notification) string {
	if n.Read {
		return readViewed
	}
	return readUnviewed
}

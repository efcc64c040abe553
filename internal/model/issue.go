package model

// Issue is a problem report filed from the app.
type Issue struct {
	ID          string `json:"_id"`
	User        Ref    `json:"userId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Date        Time   `json:"date"`
}

var IssueStatuses = []string{"Open", "In Progress", "Closed"}

// Notification delivered to a portal user.
type Notification struct {
	ID          string `json:"_id"`
	User        Ref    `json:"userId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Message     string `json:"message"`
	Type        string `json:"type"`
	Read        bool   `json:"read"`
	CreatedAt   Time   `json:"createdAt"`
}

// Body prefers the description and falls back to the message.
func (n Notification) Body() string {
	if n.Description != "" {
		return n.Description
	}
	return n.Message
}

// NotificationTypes offered when sending.
var NotificationTypes = []string{
	"alert",
	"reminder",
	"promotion",
	"welcome",
	"app_update",
	"maintenance_scheduled",
	"emergency_alert",
}

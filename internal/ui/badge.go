package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Badge colours a status word by what it means: done, waiting or failed.
func Badge(status string) string {
	return badgeStyle(status).Render(status)
}

func badgeStyle(status string) lipgloss.Style {
	switch strings.ToLower(strings.ReplaceAll(status, "_", " ")) {
	case "completed", "closed", "verified", "success", "successful", "arrived", "viewed", "connected":
		return current.Success
	case "pending", "open", "searching", "in progress", "en route", "accepted", "unviewed", "not submitted":
		return current.Pending
	case "failed", "cancelled", "rejected", "expired", "error", "disconnected":
		return current.Error
	}
	return current.Muted
}

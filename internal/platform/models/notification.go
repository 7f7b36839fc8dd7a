package models

import "time"

// ColorCategory selects the embed color for a notification.
type ColorCategory string

const (
	ColorPush     ColorCategory = "push"
	ColorPROpened ColorCategory = "pr_opened"
	ColorPRMerged ColorCategory = "pr_merged"
	ColorPRClosed ColorCategory = "pr_closed"
	ColorRelease  ColorCategory = "release"
	ColorPing     ColorCategory = "ping"
	ColorDefault  ColorCategory = "default"
)

// NotificationField is one titled section within a notification.
type NotificationField struct {
	Name  string
	Value string
}

// Notification is the event-agnostic shape every GitHub event is
// normalized into before it is formatted for a specific provider.
type Notification struct {
	Title       string
	Description string
	Color       ColorCategory
	LinkURL     string
	Fields      []NotificationField
	Footer      string
	Timestamp   time.Time
}

package types

import "time"

// Notification represents an in-app notification for a user.
type Notification struct {
	// ID is the unique identifier of the notification.
	ID string `json:"id"`

	// UserID identifies the recipient.
	UserID string `json:"userId"`

	// Title is the short heading shown to the user.
	Title string `json:"title"`

	// Message is the notification body.
	Message string `json:"message"`

	// Kind classifies the notification (e.g., "match_found").
	Kind string `json:"type"`

	// LostItem is a value copy of the lost report captured when the
	// notification was created. It is a snapshot, not a reference:
	// later mutation or deletion of the report must not alter it.
	LostItem *Report `json:"lostItem,omitempty"`

	// FoundItem is a value copy of the found report captured when the
	// notification was created.
	FoundItem *Report `json:"foundItem,omitempty"`

	// Read reports whether the user has seen the notification.
	Read bool `json:"read"`

	// Timestamp is when the notification was created.
	Timestamp time.Time `json:"timestamp"`
}

// Notification kinds.
const (
	NotificationMatchFound = "match_found"
)

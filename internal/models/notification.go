package models

import "time"

// NotificationKind is the status carried by a user-facing notification.
type NotificationKind string

const (
	NotificationPending NotificationKind = "pending"
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Notification is a single status event shown to the user.
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"created_at"`
}

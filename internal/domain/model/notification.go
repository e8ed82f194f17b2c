package model

// Notification is a short user-facing message produced by an operation.
type Notification struct {
	Level   NotificationLevel
	Message string
}

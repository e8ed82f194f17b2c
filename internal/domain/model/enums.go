package model

// NotificationLevel classifies a user-facing notification.
type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationInfo    NotificationLevel = "info"
	NotificationError   NotificationLevel = "error"
)

// Role is the account role reported by the login endpoint.
type Role string

const (
	RoleSuperuser Role = "Superuser"
	RoleAdmin     Role = "Admin"
	RoleUser      Role = "User"
	RoleUnknown   Role = "Unknown"
)

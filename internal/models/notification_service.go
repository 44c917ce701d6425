package models

// NotificationService delivers wallet activity notifications. Implementations
// must not block the caller for long and must never panic.
type NotificationService interface {
	SendNotification(notification *Notification)
}

package model

// NotificationKind identifies the event behind a notification
type NotificationKind string

const (
	NotifyValidationFailure  NotificationKind = "validation-failure"
	NotifyPersistenceSuccess NotificationKind = "persistence-success"
	NotifyPersistenceFailure NotificationKind = "persistence-failure"
)

// Severity tells the presenter how to style a notification
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is a discrete user-facing event
type Notification struct {
	Kind        NotificationKind `json:"kind"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Severity    Severity         `json:"severity"`
}

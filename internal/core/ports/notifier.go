package ports

import "context"

// NotificationKind names a message template.
type NotificationKind string

const (
	NotificationParcelCreated         NotificationKind = "parcel_created"
	NotificationCourierAssigned       NotificationKind = "courier_assigned"
	NotificationCourierAssignedSender NotificationKind = "courier_assigned_sender"
	NotificationParcelStatusChanged   NotificationKind = "parcel_status_changed"
	NotificationWelcome               NotificationKind = "welcome"
)

// Notification is one best-effort message to one recipient.
type Notification struct {
	Kind           NotificationKind
	RecipientEmail string
	RecipientName  string
	Data           map[string]string
}

// Notifier delivers a single notification. Its error is only ever logged.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

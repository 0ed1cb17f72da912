package types

import "fmt"

// NotificationType represents the event that produced a notification
type NotificationType string

const (
	NotificationTypeTransition     NotificationType = "CASE_TRANSITION"
	NotificationTypeTaskAssigned   NotificationType = "TASK_ASSIGNED"
	NotificationTypeTaskOverdue    NotificationType = "TASK_OVERDUE"
	NotificationTypeDocumentReview NotificationType = "DOCUMENT_REVIEW"
)

// AllNotificationTypes returns all valid notification types
func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		NotificationTypeTransition,
		NotificationTypeTaskAssigned,
		NotificationTypeTaskOverdue,
		NotificationTypeDocumentReview,
	}
}

// IsValid checks if the notification type is valid
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeTransition,
		NotificationTypeTaskAssigned,
		NotificationTypeTaskOverdue,
		NotificationTypeDocumentReview:
		return true
	default:
		return false
	}
}

// String returns the string representation of the notification type
func (t NotificationType) String() string {
	return string(t)
}

// ParseNotificationType parses a string into a NotificationType
func ParseNotificationType(s string) (NotificationType, error) {
	nt := NotificationType(s)
	if !nt.IsValid() {
		return "", fmt.Errorf("invalid notification type: %s", s)
	}
	return nt, nil
}

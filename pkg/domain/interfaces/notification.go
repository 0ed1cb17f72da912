package interfaces

import (
	"context"

	"github.com/mopc-lab/expropia/pkg/domain/model"
)

// NotificationRepository defines the interface for Notification data access
type NotificationRepository interface {
	// Create creates a new notification with auto-generated ID
	Create(ctx context.Context, n *model.Notification) (*model.Notification, error)

	// ListByRecipient retrieves notifications for a user, newest first.
	// unreadOnly limits the result to unread entries.
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool) ([]*model.Notification, error)

	// MarkRead marks a single notification as read
	MarkRead(ctx context.Context, id int64, recipientID string) error

	// MarkAllRead marks every notification of a recipient as read and
	// returns the number of affected entries
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
}

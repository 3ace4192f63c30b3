package notification

import (
	"context"
)

// Repository defines data access for notifications.
type Repository interface {
	// Create inserts a single notification.
	Create(ctx context.Context, n *Notification) error

	// CreateBatch inserts a batch of notifications.
	CreateBatch(ctx context.Context, notifications []*Notification) error

	// GetByRecipient retrieves a recipient's notifications, newest first.
	GetByRecipient(ctx context.Context, recipientID string, page, pageSize int, unreadOnly bool) ([]*Notification, int64, error)

	// GetUnreadCount returns the number of unread notifications.
	GetUnreadCount(ctx context.Context, recipientID string) (int, error)

	// MarkAsRead marks the given notifications as read.
	MarkAsRead(ctx context.Context, ids []string, recipientID string) error
}

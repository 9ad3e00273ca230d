package notifier

import (
	"context"

	notifDomain "github.com/UdayKiranDolu/trackyourloan/internal/domain/notification"
)

// Inbox exposes the per-user notification read surface consumed by the
// API layer.
type Inbox struct {
	notifications notifDomain.Repository
}

func NewInbox(notifications notifDomain.Repository) *Inbox {
	return &Inbox{notifications: notifications}
}

func (i *Inbox) List(ctx context.Context, userID string) ([]notifDomain.Notification, error) {
	return i.notifications.ListByUser(ctx, userID)
}

func (i *Inbox) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return i.notifications.UnreadCount(ctx, userID)
}

func (i *Inbox) MarkRead(ctx context.Context, notificationID, userID string) error {
	return i.notifications.MarkRead(ctx, notificationID, userID)
}

func (i *Inbox) MarkAllRead(ctx context.Context, userID string) error {
	return i.notifications.MarkAllRead(ctx, userID)
}

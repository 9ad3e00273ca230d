package notification

import "context"

type Repository interface {
	// Create inserts the notification; returns ErrDuplicate when the
	// (loan, kind, channel) unique index rejects the row.
	Create(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID string) ([]Notification, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	// MarkRead flips an unread in-app notification to read; a second
	// call is a no-op. Scoped to the recipient.
	MarkRead(ctx context.Context, notificationID, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	ListPendingEmail(ctx context.Context) ([]Notification, error)
	// SetEmailStatus transitions PENDING -> status; rows already out of
	// PENDING are left untouched.
	SetEmailStatus(ctx context.Context, id uint64, status EmailStatus) error
	DeleteByLoan(ctx context.Context, loanRef uint64) error
}

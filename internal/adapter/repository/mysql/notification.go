package mysql

import (
	"context"
	"errors"

	notifDomain "github.com/UdayKiranDolu/trackyourloan/internal/domain/notification"

	"gorm.io/gorm"
)

type NotificationRepository struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create relies on the (loan_id, kind, channel) unique index for
// dedup; the duplicate-key error is translated to ErrDuplicate so the
// scheduler can tell "already materialized" apart from real failures.
// Requires gorm's TranslateError (see infrastructure/db).
func (r *NotificationRepository) Create(ctx context.Context, n *notifDomain.Notification) error {
	err := r.db.WithContext(ctx).Create(n).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return notifDomain.ErrDuplicate
	}
	return err
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string) ([]notifDomain.Notification, error) {
	var out []notifDomain.Notification
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *NotificationRepository) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&notifDomain.Notification{}).
		Where("user_id = ? AND channel = ? AND read_at IS NULL", userID, notifDomain.ChannelInApp).
		Count(&n)
	return n, res.Error
}

func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID, userID string) error {
	res := r.db.WithContext(ctx).
		Model(&notifDomain.Notification{}).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		Where("read_at IS NULL").
		Update("read_at", gorm.Expr("CURRENT_TIMESTAMP"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// distinguish "not yours / missing" from "already read"
		var n int64
		if err := r.db.WithContext(ctx).
			Model(&notifDomain.Notification{}).
			Where("notification_id = ? AND user_id = ?", notificationID, userID).
			Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return notifDomain.ErrNotFound
		}
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Model(&notifDomain.Notification{}).
		Where("user_id = ? AND channel = ? AND read_at IS NULL", userID, notifDomain.ChannelInApp).
		Update("read_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

func (r *NotificationRepository) ListPendingEmail(ctx context.Context) ([]notifDomain.Notification, error) {
	var out []notifDomain.Notification
	res := r.db.WithContext(ctx).
		Where("channel = ? AND email_status = ?", notifDomain.ChannelEmail, notifDomain.EmailPending).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

// SetEmailStatus is one-way: the WHERE guard keeps SENT/FAILED rows
// terminal even if two workers race over the same batch.
func (r *NotificationRepository) SetEmailStatus(ctx context.Context, id uint64, status notifDomain.EmailStatus) error {
	return r.db.WithContext(ctx).
		Model(&notifDomain.Notification{}).
		Where("id = ? AND email_status = ?", id, notifDomain.EmailPending).
		Update("email_status", status).Error
}

func (r *NotificationRepository) DeleteByLoan(ctx context.Context, loanRef uint64) error {
	return r.db.WithContext(ctx).
		Where("loan_id = ?", loanRef).
		Delete(&notifDomain.Notification{}).Error
}

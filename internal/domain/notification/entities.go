package notification

import (
	"errors"
	"time"
)

type Kind string

const (
	KindDueSoon Kind = "DUE_SOON"
	KindOverdue Kind = "OVERDUE"
)

type Channel string

const (
	ChannelInApp Channel = "IN_APP"
	ChannelEmail Channel = "EMAIL"
)

type EmailStatus string

const (
	EmailPending EmailStatus = "PENDING"
	EmailSent    EmailStatus = "SENT"
	EmailFailed  EmailStatus = "FAILED"
)

var (
	ErrNotFound = errors.New("notification not found")
	// ErrDuplicate means a notification already exists for the same
	// (loan, kind, channel) tuple. Expected steady state for the
	// scheduler, not a failure.
	ErrDuplicate = errors.New("notification already exists")
)

// Notification is deduplicated per (loan, kind, channel) by a composite
// unique index. Rows without a loan reference (loan_id NULL) are exempt,
// matching MySQL/SQLite NULL semantics in unique indexes.
type Notification struct {
	ID             uint64       `gorm:"primaryKey;column:id" json:"-"`
	NotificationID string       `gorm:"size:32;uniqueIndex:ux_notifications_public_id" json:"notification_id"`
	UserID         string       `gorm:"size:32;index:idx_notifications_user" json:"user_id"`
	LoanRef        *uint64      `gorm:"column:loan_id;uniqueIndex:ux_notifications_loan_kind_channel" json:"-"`
	Kind           Kind         `gorm:"size:16;uniqueIndex:ux_notifications_loan_kind_channel" json:"kind"`
	Channel        Channel      `gorm:"size:8;uniqueIndex:ux_notifications_loan_kind_channel" json:"channel"`
	Title          string       `gorm:"size:200" json:"title"`
	Message        string       `gorm:"size:1000" json:"message"`
	ReadAt         *time.Time   `json:"read_at,omitempty"`
	EmailStatus    *EmailStatus `gorm:"size:8" json:"email_status,omitempty"`
	CreatedAt      time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Notification) TableName() string { return "notifications" }

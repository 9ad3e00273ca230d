package audit

import (
	"context"
	"time"
)

// Entry records an administrator-initiated action. Self-service actions
// by the resource owner are never audited.
type Entry struct {
	ID         uint64    `gorm:"primaryKey;column:id" json:"-"`
	ActorID    string    `gorm:"size:32;index:idx_audit_actor" json:"actor_id"`
	Action     string    `gorm:"size:50" json:"action"`
	TargetType string    `gorm:"size:50" json:"target_type"`
	TargetID   string    `gorm:"size:32;index:idx_audit_target" json:"target_id"`
	Details    string    `gorm:"type:text" json:"details"`
	IPAddress  string    `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent  string    `gorm:"size:255" json:"user_agent,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Entry) TableName() string { return "audit_logs" }

// Writer is the audit collaborator. Callers treat writes as
// best-effort: a failure is logged, never propagated.
type Writer interface {
	Write(ctx context.Context, e *Entry) error
}

// Reader serves the admin-facing audit trail.
type Reader interface {
	ListByTarget(ctx context.Context, targetType, targetID string) ([]Entry, error)
}

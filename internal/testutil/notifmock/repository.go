package notifmock

import (
	"context"
	"sync"
	"time"

	domain "github.com/UdayKiranDolu/trackyourloan/internal/domain/notification"
)

// Repo is an in-memory notification store enforcing the same
// (loan, kind, channel) uniqueness as the real table. Function hooks
// can override individual methods.
type Repo struct {
	mu       sync.Mutex
	nextID   uint64
	Items    []domain.Notification
	CreateFn func(ctx context.Context, n *domain.Notification) error
}

var _ domain.Repository = (*Repo)(nil)

func (m *Repo) Create(ctx context.Context, n *domain.Notification) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, n)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.Items {
		if ex.LoanRef != nil && n.LoanRef != nil &&
			*ex.LoanRef == *n.LoanRef && ex.Kind == n.Kind && ex.Channel == n.Channel {
			return domain.ErrDuplicate
		}
	}
	m.nextID++
	n.ID = m.nextID
	m.Items = append(m.Items, *n)
	return nil
}

func (m *Repo) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Notification
	for _, n := range m.Items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *Repo) UnreadCount(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var c int64
	for _, n := range m.Items {
		if n.UserID == userID && n.Channel == domain.ChannelInApp && n.ReadAt == nil {
			c++
		}
	}
	return c, nil
}

func (m *Repo) MarkRead(ctx context.Context, notificationID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Items {
		n := &m.Items[i]
		if n.NotificationID == notificationID && n.UserID == userID {
			if n.ReadAt == nil {
				now := time.Now().UTC()
				n.ReadAt = &now
			}
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *Repo) MarkAllRead(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	for i := range m.Items {
		n := &m.Items[i]
		if n.UserID == userID && n.Channel == domain.ChannelInApp && n.ReadAt == nil {
			n.ReadAt = &now
		}
	}
	return nil
}

func (m *Repo) ListPendingEmail(ctx context.Context) ([]domain.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Notification
	for _, n := range m.Items {
		if n.Channel == domain.ChannelEmail && n.EmailStatus != nil && *n.EmailStatus == domain.EmailPending {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *Repo) SetEmailStatus(ctx context.Context, id uint64, status domain.EmailStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Items {
		n := &m.Items[i]
		if n.ID == id && n.EmailStatus != nil && *n.EmailStatus == domain.EmailPending {
			s := status
			n.EmailStatus = &s
		}
	}
	return nil
}

func (m *Repo) DeleteByLoan(ctx context.Context, loanRef uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.Items[:0]
	for _, n := range m.Items {
		if n.LoanRef == nil || *n.LoanRef != loanRef {
			kept = append(kept, n)
		}
	}
	m.Items = kept
	return nil
}

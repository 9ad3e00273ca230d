package notifier

import (
	"context"
	"fmt"
	"time"

	notifDomain "github.com/UdayKiranDolu/trackyourloan/internal/domain/notification"
	userDomain "github.com/UdayKiranDolu/trackyourloan/internal/domain/user"

	"github.com/sirupsen/logrus"
)

// Mailer is the external mail collaborator.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// EmailWorker drains EMAIL notifications stuck in PENDING. SENT and
// FAILED are terminal; a failed send is only revisited by manual
// reprocessing, never by this worker.
type EmailWorker struct {
	notifications notifDomain.Repository
	users         userDomain.Repository
	mailer        Mailer
	sendTimeout   time.Duration
	log           *logrus.Logger
}

func NewEmailWorker(notifications notifDomain.Repository, users userDomain.Repository, mailer Mailer, log *logrus.Logger) *EmailWorker {
	return &EmailWorker{
		notifications: notifications,
		users:         users,
		mailer:        mailer,
		sendTimeout:   15 * time.Second,
		log:           log,
	}
}

// ProcessPending attempts delivery for every PENDING email notification
// and records the terminal outcome per item. One failure never blocks
// the rest of the batch.
func (w *EmailWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.notifications.ListPendingEmail(ctx)
	if err != nil {
		return fmt.Errorf("load pending emails: %w", err)
	}

	for i := range pending {
		n := &pending[i]
		status := notifDomain.EmailSent
		if err := w.deliver(ctx, n); err != nil {
			status = notifDomain.EmailFailed
			w.log.WithError(err).WithField("notification_id", n.NotificationID).Warn("email delivery failed")
		}
		if err := w.notifications.SetEmailStatus(ctx, n.ID, status); err != nil {
			w.log.WithError(err).WithField("notification_id", n.NotificationID).Error("email status update failed")
		}
	}
	return nil
}

func (w *EmailWorker) deliver(ctx context.Context, n *notifDomain.Notification) error {
	sctx, cancel := context.WithTimeout(ctx, w.sendTimeout)
	defer cancel()

	u, err := w.users.GetByUserID(sctx, n.UserID)
	if err != nil {
		return fmt.Errorf("resolve recipient %s: %w", n.UserID, err)
	}
	body := fmt.Sprintf("<p>Hi %s,</p><p>%s</p>", u.Name, n.Message)
	return w.mailer.Send(sctx, u.Email, n.Title, body)
}

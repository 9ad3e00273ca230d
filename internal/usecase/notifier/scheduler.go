package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	loanDomain "github.com/UdayKiranDolu/trackyourloan/internal/domain/loan"
	notifDomain "github.com/UdayKiranDolu/trackyourloan/internal/domain/notification"
	"github.com/UdayKiranDolu/trackyourloan/pkg/clock"
	"github.com/UdayKiranDolu/trackyourloan/pkg/id"

	"github.com/sirupsen/logrus"
)

// Scheduler drives the daily notification pass. Safe to run from
// overlapping triggers: the (loan, kind, channel) unique index makes
// every insert attempt idempotent, so no lock is needed.
type Scheduler struct {
	loans         loanDomain.Repository
	notifications notifDomain.Repository
	clk           clock.Clock
	loc           *time.Location
	fireHour      int
	log           *logrus.Logger
}

func NewScheduler(loans loanDomain.Repository, notifications notifDomain.Repository, clk clock.Clock, loc *time.Location, fireHour int, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		loans:         loans,
		notifications: notifications,
		clk:           clk,
		loc:           loc,
		fireHour:      fireHour,
		log:           log,
	}
}

// RunDailyPass scans every non-completed loan, classifies it against
// the business-timezone calendar and materializes due notifications.
// Only a failure to load the loan set is returned; per-loan and
// per-notification failures are logged and skipped so one bad loan
// cannot abort the pass.
func (s *Scheduler) RunDailyPass(ctx context.Context) error {
	nowInZone := s.clk.Now().In(s.loc)

	loans, err := s.loans.ListOpen(ctx)
	if err != nil {
		return fmt.Errorf("load open loans: %w", err)
	}

	created, skipped := 0, 0
	for i := range loans {
		l := &loans[i]
		for _, t := range Classify(nowInZone, l.DueDate, l.Status) {
			n := buildNotification(l, t)
			err := s.notifications.Create(ctx, n)
			switch {
			case err == nil:
				created++
			case errors.Is(err, notifDomain.ErrDuplicate):
				// already materialized on a previous run
				skipped++
			default:
				s.log.WithError(err).WithFields(logrus.Fields{
					"loan_id": l.LoanID,
					"kind":    t.Kind,
					"channel": t.Channel,
				}).Error("notification create failed")
			}
		}
	}
	s.log.WithFields(logrus.Fields{
		"loans":   len(loans),
		"created": created,
		"skipped": skipped,
	}).Info("daily notification pass done")
	return nil
}

// Start runs the daily trigger until ctx is cancelled. Fires once per
// day at the configured hour in the business timezone.
func (s *Scheduler) Start(ctx context.Context) {
	for {
		now := s.clk.Now().In(s.loc)
		wait := time.Until(NextFireTime(now, s.fireHour))
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
			if err := s.RunDailyPass(ctx); err != nil {
				s.log.WithError(err).Error("daily pass failed")
			}
		}
	}
}

// NextFireTime returns the next instant at fireHour o'clock in now's
// location, strictly after now.
func NextFireTime(now time.Time, fireHour int) time.Time {
	y, m, d := now.Date()
	next := time.Date(y, m, d, fireHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func buildNotification(l *loanDomain.Loan, t Target) *notifDomain.Notification {
	n := &notifDomain.Notification{
		NotificationID: id.NewID32(),
		UserID:         l.OwnerID,
		LoanRef:        &l.ID,
		Kind:           t.Kind,
		Channel:        t.Channel,
	}
	due := l.DueDate.Format("02 Jan 2006")
	switch t.Kind {
	case notifDomain.KindDueSoon:
		n.Title = "Loan payment due soon"
		n.Message = fmt.Sprintf("The loan to %s is due on %s.", l.BorrowerName, due)
	case notifDomain.KindOverdue:
		n.Title = "Loan payment overdue"
		n.Message = fmt.Sprintf("The loan to %s was due on %s and is now overdue.", l.BorrowerName, due)
	}
	if t.Channel == notifDomain.ChannelEmail {
		pending := notifDomain.EmailPending
		n.EmailStatus = &pending
	}
	return n
}

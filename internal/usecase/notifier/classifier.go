package notifier

import (
	"time"

	loanDomain "github.com/UdayKiranDolu/trackyourloan/internal/domain/loan"
	notifDomain "github.com/UdayKiranDolu/trackyourloan/internal/domain/notification"
)

// Target is one notification the classifier decided is due.
type Target struct {
	Kind    notifDomain.Kind
	Channel notifDomain.Channel
}

// Classify decides which notifications are due for a loan, given "now"
// already converted into the business timezone. Pure and deterministic.
//
// Windows are exact-day matches, evaluated independently:
//
//	due == today+3d  -> in-app due-soon heads-up
//	due == today+1d  -> email due-soon reminder
//	due <  today     -> overdue, both channels, every day past due
//
// Exact equality (rather than "due within N days") means each window
// fires on one calendar day only; the per-tuple unique index in the
// store is the second line of defense against duplicates.
func Classify(nowInZone time.Time, dueDate time.Time, status loanDomain.Status) []Target {
	if status == loanDomain.StatusCompleted {
		return nil
	}

	today := startOfDay(nowInZone)
	// The due date is a calendar day, not an instant: take its own
	// year/month/day rather than converting the stored midnight into
	// the business zone, which would shift it a day for zones behind
	// the storage zone.
	dy, dm, dd := dueDate.Date()
	due := time.Date(dy, dm, dd, 0, 0, 0, 0, nowInZone.Location())

	var out []Target
	switch {
	case due.Equal(today.AddDate(0, 0, 3)):
		out = append(out, Target{Kind: notifDomain.KindDueSoon, Channel: notifDomain.ChannelInApp})
	case due.Equal(today.AddDate(0, 0, 1)):
		out = append(out, Target{Kind: notifDomain.KindDueSoon, Channel: notifDomain.ChannelEmail})
	case due.Before(today):
		out = append(out,
			Target{Kind: notifDomain.KindOverdue, Channel: notifDomain.ChannelInApp},
			Target{Kind: notifDomain.KindOverdue, Channel: notifDomain.ChannelEmail},
		)
	}
	return out
}

// startOfDay truncates to local midnight via calendar components, which
// stays correct across DST transitions.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

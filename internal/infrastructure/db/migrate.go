package db

import (
	auditDomain "github.com/UdayKiranDolu/trackyourloan/internal/domain/audit"
	ledgerDomain "github.com/UdayKiranDolu/trackyourloan/internal/domain/ledger"
	loanDomain "github.com/UdayKiranDolu/trackyourloan/internal/domain/loan"
	notifDomain "github.com/UdayKiranDolu/trackyourloan/internal/domain/notification"
	userDomain "github.com/UdayKiranDolu/trackyourloan/internal/domain/user"

	"gorm.io/gorm"
)

// Models lists every persisted model, referenced-before-referencing
// order. Keep in sync with the domain packages.
func Models() []any {
	return []any{
		&userDomain.User{},
		&loanDomain.Loan{},
		&ledgerDomain.Entry{},
		&notifDomain.Notification{},
		&auditDomain.Entry{},
	}
}

// Migrate creates or updates the schema at startup. This is what
// materializes ux_notifications_loan_kind_channel, the unique index the
// scheduler's dedup relies on; skipping it leaves the daily pass
// without its idempotency guarantee.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(Models()...)
}

package uow

import (
	"context"

	"github.com/UdayKiranDolu/trackyourloan/internal/domain/ledger"
	"github.com/UdayKiranDolu/trackyourloan/internal/domain/loan"
	"github.com/UdayKiranDolu/trackyourloan/internal/domain/notification"
)

type Repos struct {
	Loans         loan.Repository
	Ledger        ledger.Repository
	Notifications notification.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the loan row first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}

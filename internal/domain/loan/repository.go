package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the loan row for the duration of the
	// surrounding transaction.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Loan, error)
	// ListOpen returns every loan whose status is not COMPLETED.
	ListOpen(ctx context.Context) ([]Loan, error)
	Save(ctx context.Context, l *Loan) error
	Delete(ctx context.Context, l *Loan) error
	CountByOwner(ctx context.Context, ownerID string) (*DashboardCounts, error)
}

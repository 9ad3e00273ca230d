package ledger

import "context"

type Repository interface {
	Create(ctx context.Context, e *Entry) error
	ListByLoan(ctx context.Context, loanRef uint64) ([]Entry, error)
	// DeleteByLoan removes every entry for the loan; used by the cascade
	// when the parent loan is deleted.
	DeleteByLoan(ctx context.Context, loanRef uint64) error
}

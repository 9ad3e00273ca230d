package loan

import (
	"time"

	ledgerDomain "github.com/UdayKiranDolu/trackyourloan/internal/domain/ledger"
	loanDomain "github.com/UdayKiranDolu/trackyourloan/internal/domain/loan"
)

// Actor identifies the caller. Authentication and role derivation
// happen upstream; this layer trusts both fields as given.
type Actor struct {
	UserID  string
	IsAdmin bool
}

// AuditContext carries optional request metadata into audit entries.
type AuditContext struct {
	IPAddress string
	UserAgent string
}

type CreateLoanInput struct {
	OwnerID        string    `json:"owner_id"`
	BorrowerName   string    `json:"borrower_name"`
	Principal      float64   `json:"principal"`
	InterestAmount float64   `json:"interest_amount"`
	GivenDate      time.Time `json:"given_date"`
	DueDate        time.Time `json:"due_date"`
	Notes          string    `json:"notes"`
	// Status defaults to ACTIVE when empty.
	Status loanDomain.Status `json:"status"`
}

// UpdateLoanInput is a structured patch: nil means "field omitted",
// which is distinct from "set to its current value". The distinction
// drives the change-diffing contract.
type UpdateLoanInput struct {
	BorrowerName   *string            `json:"borrower_name"`
	Principal      *float64           `json:"principal"`
	InterestAmount *float64           `json:"interest_amount"`
	GivenDate      *time.Time         `json:"given_date"`
	DueDate        *time.Time         `json:"due_date"`
	Notes          *string            `json:"notes"`
	Status         *loanDomain.Status `json:"status"`
}

type LoanDTO struct {
	LoanID         string            `json:"loan_id"`
	OwnerID        string            `json:"owner_id"`
	BorrowerName   string            `json:"borrower_name"`
	Principal      float64           `json:"principal"`
	InterestAmount float64           `json:"interest_amount"`
	GivenDate      time.Time         `json:"given_date"`
	DueDate        time.Time         `json:"due_date"`
	Notes          string            `json:"notes"`
	Status         loanDomain.Status `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

type HistoryEntryDTO struct {
	EntryID   string                     `json:"entry_id"`
	ActorID   string                     `json:"actor_id"`
	Changes   []ledgerDomain.FieldChange `json:"changes"`
	Note      string                     `json:"note,omitempty"`
	CreatedAt time.Time                  `json:"created_at"`
}

type LoanWithHistoryDTO struct {
	LoanDTO
	History []HistoryEntryDTO `json:"history"`
}

func toDTO(l *loanDomain.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:         l.LoanID,
		OwnerID:        l.OwnerID,
		BorrowerName:   l.BorrowerName,
		Principal:      l.Principal,
		InterestAmount: l.InterestAmount,
		GivenDate:      l.GivenDate,
		DueDate:        l.DueDate,
		Notes:          l.Notes,
		Status:         l.Status,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

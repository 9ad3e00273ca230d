package loan

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusOverdue   Status = "OVERDUE"
	StatusCompleted Status = "COMPLETED"
)

var ErrNotFound = errors.New("loan not found")

type Loan struct {
	ID             uint64         `gorm:"primaryKey;column:id" json:"-"`
	LoanID         string         `gorm:"size:32;uniqueIndex:ux_loans_loan_id_active" json:"loan_id"`
	OwnerID        string         `gorm:"size:32;index:idx_loans_owner" json:"owner_id"`
	BorrowerName   string         `gorm:"size:100" json:"borrower_name"`
	Principal      float64        `gorm:"type:decimal(18,2)" json:"principal"`
	InterestAmount float64        `gorm:"type:decimal(18,2)" json:"interest_amount"`
	GivenDate      time.Time      `gorm:"type:date" json:"given_date"`
	DueDate        time.Time      `gorm:"type:date;index:idx_loans_due_date" json:"due_date"`
	Notes          string         `gorm:"size:1000" json:"notes"`
	Status         Status         `gorm:"type:enum('ACTIVE','OVERDUE','COMPLETED');default:'ACTIVE';index:idx_loans_status" json:"status"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// DashboardCounts is the aggregate snapshot shown on a user's dashboard.
type DashboardCounts struct {
	Total          int64   `json:"total"`
	Active         int64   `json:"active"`
	Overdue        int64   `json:"overdue"`
	Completed      int64   `json:"completed"`
	TotalPrincipal float64 `json:"total_principal"`
	TotalInterest  float64 `json:"total_interest"`
}

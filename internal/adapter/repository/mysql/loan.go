package mysql

import (
	"context"
	"errors"

	loanDomain "github.com/UdayKiranDolu/trackyourloan/internal/domain/loan"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

// Tx runs fn in a db transaction, passing a repo bound to the tx
func (r *LoanRepository) Tx(ctx context.Context, fn func(repo loanDomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&LoanRepository{db: tx})
	})
}

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	res := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	tx := r.db.WithContext(ctx)
	// sqlite (tests) has no SELECT ... FOR UPDATE
	if r.db.Dialector.Name() != "sqlite" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	res := tx.Where("loan_id = ?", loanID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *LoanRepository) ListByOwner(ctx context.Context, ownerID string) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("due_date ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) ListOpen(ctx context.Context) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	res := r.db.WithContext(ctx).
		Where("status <> ?", loanDomain.StatusCompleted).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRepository) Delete(ctx context.Context, l *loanDomain.Loan) error {
	return r.db.WithContext(ctx).Delete(l).Error
}

func (r *LoanRepository) CountByOwner(ctx context.Context, ownerID string) (*loanDomain.DashboardCounts, error) {
	var row struct {
		Total          int64
		Active         int64
		Overdue        int64
		Completed      int64
		TotalPrincipal float64
		TotalInterest  float64
	}
	res := r.db.WithContext(ctx).
		Model(&loanDomain.Loan{}).
		Select(
			"COUNT(*) AS total, "+
				"SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS active, "+
				"SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS overdue, "+
				"SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS completed, "+
				"COALESCE(SUM(principal), 0) AS total_principal, "+
				"COALESCE(SUM(interest_amount), 0) AS total_interest",
			loanDomain.StatusActive, loanDomain.StatusOverdue, loanDomain.StatusCompleted).
		Where("owner_id = ?", ownerID).
		Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	return &loanDomain.DashboardCounts{
		Total:          row.Total,
		Active:         row.Active,
		Overdue:        row.Overdue,
		Completed:      row.Completed,
		TotalPrincipal: row.TotalPrincipal,
		TotalInterest:  row.TotalInterest,
	}, nil
}

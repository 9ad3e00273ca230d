package mysql

import (
	"context"

	ledgerDomain "github.com/UdayKiranDolu/trackyourloan/internal/domain/ledger"

	"gorm.io/gorm"
)

type LedgerRepository struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) *LedgerRepository { return &LedgerRepository{db: db} }

func (r *LedgerRepository) Create(ctx context.Context, e *ledgerDomain.Entry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *LedgerRepository) ListByLoan(ctx context.Context, loanRef uint64) ([]ledgerDomain.Entry, error) {
	var out []ledgerDomain.Entry
	res := r.db.WithContext(ctx).
		Where("loan_id = ?", loanRef).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LedgerRepository) DeleteByLoan(ctx context.Context, loanRef uint64) error {
	return r.db.WithContext(ctx).
		Where("loan_id = ?", loanRef).
		Delete(&ledgerDomain.Entry{}).Error
}

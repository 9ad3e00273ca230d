package loan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	auditDomain "github.com/UdayKiranDolu/trackyourloan/internal/domain/audit"
	ledgerDomain "github.com/UdayKiranDolu/trackyourloan/internal/domain/ledger"
	loanDomain "github.com/UdayKiranDolu/trackyourloan/internal/domain/loan"
	"github.com/UdayKiranDolu/trackyourloan/internal/domain/uow"
	"github.com/UdayKiranDolu/trackyourloan/pkg/id"

	"github.com/sirupsen/logrus"
)

const targetTypeLoan = "loan"

// Usecase is the only writer of loan and ledger state.
type Usecase struct {
	loanRepo   loanDomain.Repository
	ledgerRepo ledgerDomain.Repository
	uow        uow.UnitOfWork
	audit      auditDomain.Writer
	log        *logrus.Logger
}

func NewUsecase(loans loanDomain.Repository, entries ledgerDomain.Repository, tx uow.UnitOfWork, aw auditDomain.Writer, log *logrus.Logger) *Usecase {
	return &Usecase{loanRepo: loans, ledgerRepo: entries, uow: tx, audit: aw, log: log}
}

func (u *Usecase) Create(ctx context.Context, in CreateLoanInput, actor Actor) (*LoanDTO, error) {
	if in.OwnerID == "" || len(in.OwnerID) != 32 {
		return nil, errors.New("invalid owner id")
	}
	if in.BorrowerName == "" || len(in.BorrowerName) > 100 {
		return nil, errors.New("invalid borrower name")
	}
	// creating on behalf of another user is an administrator action
	if actor.UserID != "" && in.OwnerID != actor.UserID && !actor.IsAdmin {
		return nil, errors.New("cannot create a loan for another user")
	}
	if in.Principal < 0 || in.InterestAmount < 0 {
		return nil, errors.New("amounts must not be negative")
	}
	if len(in.Notes) > 1000 {
		return nil, errors.New("notes too long")
	}

	status := in.Status
	if status == "" {
		status = loanDomain.StatusActive
	}

	l := &loanDomain.Loan{
		LoanID:         id.NewID32(),
		OwnerID:        in.OwnerID,
		BorrowerName:   in.BorrowerName,
		Principal:      in.Principal,
		InterestAmount: in.InterestAmount,
		GivenDate:      in.GivenDate.UTC(),
		DueDate:        in.DueDate.UTC(),
		Notes:          in.Notes,
		Status:         status,
	}
	if err := u.loanRepo.Create(ctx, l); err != nil {
		return nil, err
	}

	// An admin creating a loan on behalf of another user is audited;
	// self-service creates are not.
	if actor.IsAdmin && actor.UserID != "" && actor.UserID != in.OwnerID {
		u.writeAudit(ctx, actor.UserID, "loan.create", l.LoanID,
			fmt.Sprintf("created on behalf of user %s", in.OwnerID), nil)
	}
	return toDTO(l), nil
}

func (u *Usecase) Update(ctx context.Context, loanID string, in UpdateLoanInput, actor Actor) (*LoanDTO, error) {
	var dto *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loanDomain.Loan) error {
		if !actor.IsAdmin && l.OwnerID != actor.UserID {
			// never leak existence of someone else's loan
			return loanDomain.ErrNotFound
		}

		changes := diffTracked(l, in)
		applyPatch(l, in)

		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		if len(changes) > 0 {
			e := &ledgerDomain.Entry{
				EntryID: id.NewID32(),
				LoanRef: l.ID,
				ActorID: actor.UserID,
				Changes: changes,
			}
			if err := r.Ledger.Create(ctx, e); err != nil {
				return err
			}
		}
		dto = toDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if actor.IsAdmin {
		u.writeAudit(ctx, actor.UserID, "loan.update", loanID, describePatch(in), nil)
	}
	return dto, nil
}

// MarkCompleted is sugar for Update with {status: COMPLETED}. Status is
// not a tracked field, so no ledger entry is produced.
func (u *Usecase) MarkCompleted(ctx context.Context, loanID string, actor Actor) (*LoanDTO, error) {
	completed := loanDomain.StatusCompleted
	return u.Update(ctx, loanID, UpdateLoanInput{Status: &completed}, actor)
}

func (u *Usecase) Delete(ctx context.Context, loanID string, actor Actor, auditCtx *AuditContext) error {
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loanDomain.Loan) error {
		if !actor.IsAdmin && l.OwnerID != actor.UserID {
			return loanDomain.ErrNotFound
		}
		if err := r.Ledger.DeleteByLoan(ctx, l.ID); err != nil {
			return err
		}
		if err := r.Notifications.DeleteByLoan(ctx, l.ID); err != nil {
			return err
		}
		return r.Loans.Delete(ctx, l)
	})
	if err != nil {
		return err
	}

	if actor.IsAdmin {
		u.writeAudit(ctx, actor.UserID, "loan.delete", loanID, "loan and change history deleted", auditCtx)
	}
	return nil
}

func (u *Usecase) Get(ctx context.Context, loanID string, actor Actor) (*LoanWithHistoryDTO, error) {
	l, err := u.loanRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && l.OwnerID != actor.UserID {
		return nil, loanDomain.ErrNotFound
	}
	entries, err := u.ledgerRepo.ListByLoan(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	out := &LoanWithHistoryDTO{LoanDTO: *toDTO(l), History: make([]HistoryEntryDTO, 0, len(entries))}
	for _, e := range entries {
		out.History = append(out.History, HistoryEntryDTO{
			EntryID:   e.EntryID,
			ActorID:   e.ActorID,
			Changes:   e.Changes,
			Note:      e.Note,
			CreatedAt: e.CreatedAt,
		})
	}
	return out, nil
}

func (u *Usecase) ListByOwner(ctx context.Context, ownerID string) ([]LoanDTO, error) {
	loans, err := u.loanRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]LoanDTO, 0, len(loans))
	for i := range loans {
		out = append(out, *toDTO(&loans[i]))
	}
	return out, nil
}

func (u *Usecase) Dashboard(ctx context.Context, ownerID string) (*loanDomain.DashboardCounts, error) {
	return u.loanRepo.CountByOwner(ctx, ownerID)
}

// diffTracked compares the patch against stored values for the two
// tracked fields. A field present in the patch but equal to the stored
// value produces no change record.
func diffTracked(l *loanDomain.Loan, in UpdateLoanInput) []ledgerDomain.FieldChange {
	var changes []ledgerDomain.FieldChange
	if in.DueDate != nil && !sameInstant(*in.DueDate, l.DueDate) {
		changes = append(changes, ledgerDomain.FieldChange{
			Field: ledgerDomain.FieldDueDate,
			Old:   l.DueDate.UTC().Format("2006-01-02"),
			New:   in.DueDate.UTC().Format("2006-01-02"),
		})
	}
	if in.InterestAmount != nil && *in.InterestAmount != l.InterestAmount {
		changes = append(changes, ledgerDomain.FieldChange{
			Field: ledgerDomain.FieldInterestAmount,
			Old:   strconv.FormatFloat(l.InterestAmount, 'f', 2, 64),
			New:   strconv.FormatFloat(*in.InterestAmount, 'f', 2, 64),
		})
	}
	return changes
}

// applyPatch copies every present field onto the loan, tracked or not.
func applyPatch(l *loanDomain.Loan, in UpdateLoanInput) {
	if in.BorrowerName != nil {
		l.BorrowerName = *in.BorrowerName
	}
	if in.Principal != nil {
		l.Principal = *in.Principal
	}
	if in.InterestAmount != nil {
		l.InterestAmount = *in.InterestAmount
	}
	if in.GivenDate != nil {
		l.GivenDate = in.GivenDate.UTC()
	}
	if in.DueDate != nil {
		l.DueDate = in.DueDate.UTC()
	}
	if in.Notes != nil {
		l.Notes = *in.Notes
	}
	if in.Status != nil {
		l.Status = *in.Status
	}
}

func sameInstant(a, b time.Time) bool { return a.UTC().Equal(b.UTC()) }

func describePatch(in UpdateLoanInput) string {
	b, err := json.Marshal(in)
	if err != nil {
		return "patch applied"
	}
	return string(b)
}

// writeAudit is best-effort: audit failures never fail the triggering
// operation.
func (u *Usecase) writeAudit(ctx context.Context, actorID, action, targetID, details string, auditCtx *AuditContext) {
	if u.audit == nil {
		return
	}
	e := &auditDomain.Entry{
		ActorID:    actorID,
		Action:     action,
		TargetType: targetTypeLoan,
		TargetID:   targetID,
		Details:    details,
	}
	if auditCtx != nil {
		e.IPAddress = auditCtx.IPAddress
		e.UserAgent = auditCtx.UserAgent
	}
	if err := u.audit.Write(ctx, e); err != nil {
		u.log.WithError(err).WithFields(logrus.Fields{
			"action": action,
			"target": targetID,
		}).Warn("audit write failed")
	}
}

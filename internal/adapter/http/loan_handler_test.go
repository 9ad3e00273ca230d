package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	auditDomain "github.com/UdayKiranDolu/trackyourloan/internal/domain/audit"
	ledgerDomain "github.com/UdayKiranDolu/trackyourloan/internal/domain/ledger"
	domain "github.com/UdayKiranDolu/trackyourloan/internal/domain/loan"
	"github.com/UdayKiranDolu/trackyourloan/internal/domain/uow"
	loanmock "github.com/UdayKiranDolu/trackyourloan/internal/testutil/loanmock"
	notifmock "github.com/UdayKiranDolu/trackyourloan/internal/testutil/notifmock"
	uowmock "github.com/UdayKiranDolu/trackyourloan/internal/testutil/uowmock"
	uc "github.com/UdayKiranDolu/trackyourloan/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// -------- helpers --------

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type ledgerStub struct {
	entries []ledgerDomain.Entry
}

func (s *ledgerStub) Create(ctx context.Context, e *ledgerDomain.Entry) error {
	s.entries = append(s.entries, *e)
	return nil
}

func (s *ledgerStub) ListByLoan(ctx context.Context, loanRef uint64) ([]ledgerDomain.Entry, error) {
	var out []ledgerDomain.Entry
	for _, e := range s.entries {
		if e.LoanRef == loanRef {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *ledgerStub) DeleteByLoan(ctx context.Context, loanRef uint64) error {
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.LoanRef != loanRef {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	return nil
}

type auditStub struct {
	writes []auditDomain.Entry
}

func (s *auditStub) Write(ctx context.Context, e *auditDomain.Entry) error {
	s.writes = append(s.writes, *e)
	return nil
}

func newLoanHandler(loans *loanmock.Repo) *LoanHandler {
	repos := uow.Repos{Loans: loans, Ledger: &ledgerStub{}, Notifications: &notifmock.Repo{}}
	usecase := uc.NewUsecase(loans, repos.Ledger, uowmock.Passthrough(repos), &auditStub{}, quietLogger())
	return NewLoanHandler(usecase)
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

// -------- tests --------

func TestCreateLoan_Success(t *testing.T) {
	e := echo.New()

	repo := &loanmock.Repo{
		CreateFn: func(ctx context.Context, l *domain.Loan) error {
			l.ID = 1
			return nil
		},
	}
	h := newLoanHandler(repo)

	reqBody := map[string]any{
		"borrower_name":   "Ravi",
		"principal":       50000,
		"interest_amount": 2500,
		"given_date":      "2026-05-10",
		"due_date":        "2026-11-10",
		"notes":           "cash loan",
	}
	req := httptest.NewRequest(stdhttp.MethodPost, "/loans", mustJSON(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Ax-User-Id", strings.Repeat("b", 32))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateLoan(c); err != nil {
		t.Fatalf("CreateLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201, body: %s", rec.Code, rec.Body.String())
	}
	var got uc.LoanDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.OwnerID != strings.Repeat("b", 32) || got.Principal != 50000 {
		t.Fatalf("unexpected dto: %+v", got)
	}
	if got.Status != domain.StatusActive {
		t.Fatalf("status = %s, want ACTIVE", got.Status)
	}
	if got.LoanID == "" {
		t.Fatalf("loan_id missing in dto: %+v", got)
	}
}

func TestCreateLoan_BindError(t *testing.T) {
	e := echo.New()
	h := newLoanHandler(&loanmock.Repo{})

	req := httptest.NewRequest(stdhttp.MethodPost, "/loans", strings.NewReader(`{"borrower_name":`)) // broken JSON
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateLoan(c); err != nil {
		t.Fatalf("CreateLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var er ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &er)
	if er.Error != "invalid body" {
		t.Fatalf("error = %q, want %q", er.Error, "invalid body")
	}
}

func TestCreateLoan_ValidationError(t *testing.T) {
	e := echo.New()
	h := newLoanHandler(&loanmock.Repo{}) // won't be called

	// invalid: borrower_name missing, principal too many decimals, dates malformed
	reqBody := map[string]any{
		"principal":       50000.015,
		"interest_amount": 2500,
		"given_date":      "10-05-2026",
		"due_date":        "2026-11-10T00:00:00Z",
	}
	req := httptest.NewRequest(stdhttp.MethodPost, "/loans", mustJSON(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateLoan(c); err != nil {
		t.Fatalf("CreateLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var er ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &er)
	if er.Error != "validation failed" || len(er.Details) == 0 {
		t.Fatalf("unexpected error payload: %+v", er)
	}
}

func TestUpdateLoan_NotFoundForStranger(t *testing.T) {
	e := echo.New()
	owner := strings.Repeat("a", 32)
	stranger := strings.Repeat("c", 32)

	stored := &domain.Loan{
		ID: 1, LoanID: strings.Repeat("d", 32), OwnerID: owner,
		BorrowerName: "Ravi", Status: domain.StatusActive,
	}
	repo := &loanmock.Repo{
		GetByLoanIDForUpdateFn: func(ctx context.Context, loanID string) (*domain.Loan, error) {
			if loanID == stored.LoanID {
				cp := *stored
				return &cp, nil
			}
			return nil, domain.ErrNotFound
		},
	}
	h := newLoanHandler(repo)

	req := httptest.NewRequest(stdhttp.MethodPatch, "/loans/"+stored.LoanID, mustJSON(map[string]any{"notes": "x"}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Ax-User-Id", stranger)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/loans/:loan_id")
	c.SetParamNames("loan_id")
	c.SetParamValues(stored.LoanID)

	if err := h.UpdateLoan(c); err != nil {
		t.Fatalf("UpdateLoan error: %v", err)
	}
	// Ownership failures look exactly like missing loans.
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404, body: %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateLoan_OwnerCanPatch(t *testing.T) {
	e := echo.New()
	owner := strings.Repeat("a", 32)

	stored := &domain.Loan{
		ID: 1, LoanID: strings.Repeat("d", 32), OwnerID: owner,
		BorrowerName: "Ravi", InterestAmount: 2500, Status: domain.StatusActive,
	}
	repo := &loanmock.Repo{
		GetByLoanIDForUpdateFn: func(ctx context.Context, loanID string) (*domain.Loan, error) {
			cp := *stored
			return &cp, nil
		},
		SaveFn: func(ctx context.Context, l *domain.Loan) error {
			*stored = *l
			return nil
		},
	}
	h := newLoanHandler(repo)

	req := httptest.NewRequest(stdhttp.MethodPatch, "/loans/"+stored.LoanID, mustJSON(map[string]any{"interest_amount": 3000}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Ax-User-Id", owner)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/loans/:loan_id")
	c.SetParamNames("loan_id")
	c.SetParamValues(stored.LoanID)

	if err := h.UpdateLoan(c); err != nil {
		t.Fatalf("UpdateLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}
	if stored.InterestAmount != 3000 {
		t.Fatalf("interest not persisted: %v", stored.InterestAmount)
	}
}

func TestCompleteLoan_Unknown404(t *testing.T) {
	e := echo.New()
	h := newLoanHandler(&loanmock.Repo{}) // GetByLoanIDForUpdate falls back to ErrNotFound

	req := httptest.NewRequest(stdhttp.MethodPost, "/loans/xyz/complete", nil)
	req.Header.Set("Ax-User-Id", strings.Repeat("a", 32))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/loans/:loan_id/complete")
	c.SetParamNames("loan_id")
	c.SetParamValues(strings.Repeat("e", 32))

	if err := h.CompleteLoan(c); err != nil {
		t.Fatalf("CompleteLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteLoan_Owner204(t *testing.T) {
	e := echo.New()
	owner := strings.Repeat("a", 32)

	deleted := false
	stored := &domain.Loan{
		ID: 1, LoanID: strings.Repeat("d", 32), OwnerID: owner,
		BorrowerName: "Ravi", Status: domain.StatusActive,
	}
	repo := &loanmock.Repo{
		GetByLoanIDForUpdateFn: func(ctx context.Context, loanID string) (*domain.Loan, error) {
			cp := *stored
			return &cp, nil
		},
		DeleteFn: func(ctx context.Context, l *domain.Loan) error {
			deleted = true
			return nil
		},
	}
	h := newLoanHandler(repo)

	req := httptest.NewRequest(stdhttp.MethodDelete, "/loans/"+stored.LoanID, nil)
	req.Header.Set("Ax-User-Id", owner)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/loans/:loan_id")
	c.SetParamNames("loan_id")
	c.SetParamValues(stored.LoanID)

	if err := h.DeleteLoan(c); err != nil {
		t.Fatalf("DeleteLoan error: %v", err)
	}
	if rec.Code != stdhttp.StatusNoContent {
		t.Fatalf("status = %d, want 204, body: %s", rec.Code, rec.Body.String())
	}
	if !deleted {
		t.Fatalf("loan was not deleted")
	}
}

func TestListLoans_ScopedToHeaderUser(t *testing.T) {
	e := echo.New()
	owner := strings.Repeat("a", 32)

	var askedFor string
	repo := &loanmock.Repo{
		ListByOwnerFn: func(ctx context.Context, ownerID string) ([]domain.Loan, error) {
			askedFor = ownerID
			return []domain.Loan{{LoanID: strings.Repeat("d", 32), OwnerID: ownerID, Status: domain.StatusActive}}, nil
		},
	}
	h := newLoanHandler(repo)

	req := httptest.NewRequest(stdhttp.MethodGet, "/loans", nil)
	req.Header.Set("Ax-User-Id", owner)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListLoans(c); err != nil {
		t.Fatalf("ListLoans error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if askedFor != owner {
		t.Fatalf("listed loans for %q, want header user %q", askedFor, owner)
	}
}

func TestDashboard_ReturnsCounts(t *testing.T) {
	e := echo.New()

	repo := &loanmock.Repo{
		CountByOwnerFn: func(ctx context.Context, ownerID string) (*domain.DashboardCounts, error) {
			return &domain.DashboardCounts{Total: 3, Active: 2, Completed: 1, TotalPrincipal: 65000}, nil
		},
	}
	h := newLoanHandler(repo)

	req := httptest.NewRequest(stdhttp.MethodGet, "/loans/dashboard", nil)
	req.Header.Set("Ax-User-Id", strings.Repeat("a", 32))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Dashboard(c); err != nil {
		t.Fatalf("Dashboard error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got domain.DashboardCounts
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.Total != 3 || got.Active != 2 || got.TotalPrincipal != 65000 {
		t.Fatalf("unexpected counts: %+v", got)
	}
}

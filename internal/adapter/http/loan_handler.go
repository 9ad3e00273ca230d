package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	loanDomain "github.com/UdayKiranDolu/trackyourloan/internal/domain/loan"
	"github.com/UdayKiranDolu/trackyourloan/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

const dateLayout = "2006-01-02"

type LoanHandler struct {
	uc *loan.Usecase
	cv *CustomValidator
}

func NewLoanHandler(uc *loan.Usecase) *LoanHandler {
	return &LoanHandler{uc: uc, cv: NewValidator()}
}

// actorFrom trusts the identity headers; authentication happens
// upstream of this service.
func actorFrom(c echo.Context) loan.Actor {
	return loan.Actor{
		UserID:  strings.TrimSpace(c.Request().Header.Get("Ax-User-Id")),
		IsAdmin: c.Request().Header.Get("Ax-Admin") == "true",
	}
}

type createLoanReq struct {
	OwnerID        string  `json:"owner_id" validate:"omitempty,hex32"`
	BorrowerName   string  `json:"borrower_name" validate:"required,max=100"`
	Principal      float64 `json:"principal" validate:"gte=0,dec2"`
	InterestAmount float64 `json:"interest_amount" validate:"gte=0,dec2"`
	GivenDate      string  `json:"given_date" validate:"required,dateonly"`
	DueDate        string  `json:"due_date" validate:"required,dateonly"`
	Notes          string  `json:"notes" validate:"max=1000"`
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := h.cv.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	actor := actorFrom(c)

	ownerID := req.OwnerID
	if ownerID == "" {
		ownerID = actor.UserID
	}
	given, _ := time.Parse(dateLayout, req.GivenDate)
	due, _ := time.Parse(dateLayout, req.DueDate)

	dto, err := h.uc.Create(c.Request().Context(), loan.CreateLoanInput{
		OwnerID:        ownerID,
		BorrowerName:   req.BorrowerName,
		Principal:      req.Principal,
		InterestAmount: req.InterestAmount,
		GivenDate:      given,
		DueDate:        due,
		Notes:          req.Notes,
	}, actor)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, dto)
}

type updateLoanReq struct {
	BorrowerName   *string  `json:"borrower_name" validate:"omitempty,max=100"`
	Principal      *float64 `json:"principal" validate:"omitempty,gte=0,dec2"`
	InterestAmount *float64 `json:"interest_amount" validate:"omitempty,gte=0,dec2"`
	GivenDate      *string  `json:"given_date" validate:"omitempty,dateonly"`
	DueDate        *string  `json:"due_date" validate:"omitempty,dateonly"`
	Notes          *string  `json:"notes" validate:"omitempty,max=1000"`
}

func (h *LoanHandler) UpdateLoan(c echo.Context) error {
	var req updateLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := h.cv.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}

	in := loan.UpdateLoanInput{
		BorrowerName:   req.BorrowerName,
		Principal:      req.Principal,
		InterestAmount: req.InterestAmount,
		Notes:          req.Notes,
	}
	if req.GivenDate != nil {
		t, _ := time.Parse(dateLayout, *req.GivenDate)
		in.GivenDate = &t
	}
	if req.DueDate != nil {
		t, _ := time.Parse(dateLayout, *req.DueDate)
		in.DueDate = &t
	}

	dto, err := h.uc.Update(c.Request().Context(), c.Param("loan_id"), in, actorFrom(c))
	if err != nil {
		if errors.Is(err, loanDomain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) CompleteLoan(c echo.Context) error {
	dto, err := h.uc.MarkCompleted(c.Request().Context(), c.Param("loan_id"), actorFrom(c))
	if err != nil {
		if errors.Is(err, loanDomain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) DeleteLoan(c echo.Context) error {
	auditCtx := &loan.AuditContext{
		IPAddress: c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
	err := h.uc.Delete(c.Request().Context(), c.Param("loan_id"), actorFrom(c), auditCtx)
	if err != nil {
		if errors.Is(err, loanDomain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"), actorFrom(c))
	if err != nil {
		if errors.Is(err, loanDomain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	actor := actorFrom(c)
	out, err := h.uc.ListByOwner(c.Request().Context(), actor.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *LoanHandler) Dashboard(c echo.Context) error {
	actor := actorFrom(c)
	out, err := h.uc.Dashboard(c.Request().Context(), actor.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}

package http

import (
	"net/http"

	auditDomain "github.com/UdayKiranDolu/trackyourloan/internal/domain/audit"

	"github.com/labstack/echo/v4"
)

type AuditHandler struct{ reader auditDomain.Reader }

func NewAuditHandler(reader auditDomain.Reader) *AuditHandler {
	return &AuditHandler{reader: reader}
}

// ListForLoan returns the admin actions recorded against a loan. The
// endpoint is invisible to non-admins, same as loans outside a user's
// ownership.
func (h *AuditHandler) ListForLoan(c echo.Context) error {
	if !actorFrom(c).IsAdmin {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	}
	out, err := h.reader.ListByTarget(c.Request().Context(), "loan", c.Param("loan_id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}

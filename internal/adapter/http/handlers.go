package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Handler serves the operational endpoints that need no usecase.
type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

// Health reports liveness. The timestamp doubles as a clock sanity
// check for operators debugging the daily scheduler.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "trackyourloan",
		"time":    time.Now().UTC().Format(time.RFC3339Nano),
	})
}

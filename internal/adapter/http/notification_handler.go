package http

import (
	"errors"
	"net/http"
	"strings"

	notifDomain "github.com/UdayKiranDolu/trackyourloan/internal/domain/notification"
	"github.com/UdayKiranDolu/trackyourloan/internal/usecase/notifier"

	"github.com/labstack/echo/v4"
)

type NotificationHandler struct{ inbox *notifier.Inbox }

func NewNotificationHandler(inbox *notifier.Inbox) *NotificationHandler {
	return &NotificationHandler{inbox: inbox}
}

func userIDFrom(c echo.Context) string {
	return strings.TrimSpace(c.Request().Header.Get("Ax-User-Id"))
}

func (h *NotificationHandler) List(c echo.Context) error {
	out, err := h.inbox.List(c.Request().Context(), userIDFrom(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	n, err := h.inbox.UnreadCount(c.Request().Context(), userIDFrom(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]int64{"unread": n})
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	err := h.inbox.MarkRead(c.Request().Context(), c.Param("notification_id"), userIDFrom(c))
	if err != nil {
		if errors.Is(err, notifDomain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	if err := h.inbox.MarkAllRead(c.Request().Context(), userIDFrom(c)); err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

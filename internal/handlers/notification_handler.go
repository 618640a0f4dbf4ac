package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/skilly-social/backend/internal/repositories"
)

// NotificationHandler handles HTTP requests for stored notifications
type NotificationHandler struct {
	notificationRepo repositories.NotificationRepository
	notifier         Notifier
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository, notifier Notifier) *NotificationHandler {
	return &NotificationHandler{
		notificationRepo: notifRepo,
		notifier:         notifier,
	}
}

// RegisterNotificationRoutes registers notification-related routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/:userId", h.GetNotifications)
	g.PUT("/:userId/mark-read", h.MarkAllRead)
}

// GetNotifications lists a user's notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	notifications, err := h.notificationRepo.GetByUserID(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, notifications)
}

// MarkAllRead marks all of a user's notifications as read and returns the
// refreshed list
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	notifications, err := h.notifier.MarkAllRead(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, notifications)
}

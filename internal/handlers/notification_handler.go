package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/anonto42/social-pod/backend/internal/i18n"
	"github.com/anonto42/social-pod/backend/internal/middleware"
	"github.com/anonto42/social-pod/backend/internal/models"
	"github.com/anonto42/social-pod/backend/internal/presenters"
	"github.com/anonto42/social-pod/backend/internal/repositories"
	"github.com/anonto42/social-pod/backend/internal/services"
	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationService *services.NotificationService
	trans               ut.Translator
	log                 *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationService *services.NotificationService, trans ut.Translator, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, trans: trans, log: log}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group, write echo.MiddlewareFunc) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.GET("/notifications/:guid", h.GetNotification)
	g.PATCH("/notifications/:guid", h.UpdateNotification, write)
	g.PUT("/notifications/read-all", h.MarkAllAsRead, write)
}

// GetNotifications returns a page of notifications, optionally filtered by
// only_unread, only_after and type
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	filter, err := parseNotificationFilter(c)
	if err != nil {
		return textError(c, h.trans, http.StatusUnprocessableEntity, i18n.NotificationsCantProcess)
	}
	page, perPage := pagination(c)

	notifications, total, err := h.notificationService.List(c.Request().Context(), middleware.CurrentUser(c), filter, page, perPage)
	if err != nil {
		return h.fail(c, err)
	}

	data := make([]presenters.NotificationJSON, len(notifications))
	for i := range notifications {
		data[i] = presenters.NewNotificationPresenter(&notifications[i]).AsAPIJSON(true)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data": data,
		"meta": PageMeta{Page: page, PerPage: perPage, Total: total},
	})
}

// GetNotification returns one of the current user's notifications
func (h *NotificationHandler) GetNotification(c echo.Context) error {
	n, err := h.notificationService.Get(c.Request().Context(), middleware.CurrentUser(c), c.Param("guid"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, presenters.NewNotificationPresenter(n).AsAPIJSON(true))
}

// UpdateNotification marks a notification read or unread
func (h *NotificationHandler) UpdateNotification(c echo.Context) error {
	var req models.UpdateNotificationRequest
	if err := c.Bind(&req); err != nil {
		return textError(c, h.trans, http.StatusUnprocessableEntity, i18n.NotificationsCantProcess)
	}
	if err := c.Validate(&req); err != nil {
		return textError(c, h.trans, http.StatusUnprocessableEntity, i18n.NotificationsCantProcess)
	}

	err := h.notificationService.SetRead(c.Request().Context(), middleware.CurrentUser(c), c.Param("guid"), *req.Read)
	if err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAllAsRead marks all notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	if err := h.notificationService.MarkAllRead(c.Request().Context(), middleware.CurrentUser(c)); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	count, err := h.notificationService.UnreadCount(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

func (h *NotificationHandler) fail(c echo.Context, err error) error {
	if errors.Is(err, services.ErrNotificationNotFound) {
		return textError(c, h.trans, http.StatusNotFound, i18n.NotificationsNotFound)
	}
	h.log.Error("notification request failed", zap.String("path", c.Path()), zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError)
}

func parseNotificationFilter(c echo.Context) (repositories.NotificationFilter, error) {
	var filter repositories.NotificationFilter

	if v := c.QueryParam("only_unread"); v != "" {
		unread, err := strconv.ParseBool(v)
		if err != nil {
			return filter, err
		}
		filter.OnlyUnread = unread
	}

	if v := c.QueryParam("only_after"); v != "" {
		after, err := parseTime(v)
		if err != nil {
			return filter, err
		}
		filter.After = &after
	}

	for _, raw := range c.QueryParams()["type"] {
		for _, name := range strings.Split(raw, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			typ, ok := models.ParseNotificationType(name)
			if !ok {
				return filter, errors.New("unknown notification type " + name)
			}
			filter.Types = append(filter.Types, typ)
		}
	}
	return filter, nil
}

func parseTime(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, nil
	}
	secs, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(secs, 0), nil
}

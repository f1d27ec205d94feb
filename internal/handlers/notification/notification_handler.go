// internal/handlers/notification/notification_handler.go
package notification

import (
	"net/http"

	"estate-portal/internal/domain/notification"
	"estate-portal/internal/handlers/listing"
	"estate-portal/internal/middleware"
	"estate-portal/internal/pkg/response"
	service "estate-portal/internal/service/notification"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	*listing.Handler[notification.Notification]
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService, views listing.SavedViews) *NotificationHandler {
	return &NotificationHandler{
		Handler:             listing.NewHandler(notificationService.Service, views),
		notificationService: notificationService,
	}
}

// GetUnreadCount gets unread notification count
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	identity := middleware.MustGetIdentity(c)

	summary, err := h.notificationService.GetUnreadCount(c.Request.Context(), identity)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "unread count retrieved", summary)
}

// MarkAsRead marks a notification as read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	identity := middleware.MustGetIdentity(c)

	if err := h.notificationService.MarkAsRead(c.Request.Context(), identity, c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "notification marked as read", nil)
}

// MarkAllAsRead marks all notifications as read
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	identity := middleware.MustGetIdentity(c)

	if err := h.notificationService.MarkAllAsRead(c.Request.Context(), identity); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "all notifications marked as read", nil)
}

// DeleteNotification deletes a notification
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	identity := middleware.MustGetIdentity(c)

	if err := h.notificationService.DeleteNotification(c.Request.Context(), identity, c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "notification deleted", nil)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/models"
	"taskboard/internal/pagination"
	"taskboard/internal/services"
)

// NotificationHandler handles notification-related requests.
type NotificationHandler struct {
	notificationService services.NotificationServicer
	auditService        services.AuditServicer
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService services.NotificationServicer, auditService services.AuditServicer) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, auditService: auditService}
}

// CreateNotificationRequest represents the request payload for a notification.
type CreateNotificationRequest struct {
	Message string `json:"message" binding:"required,not_blank,max=5000"`
}

// UpdateNotificationRequest sets the read state of a notification.
type UpdateNotificationRequest struct {
	Status string `json:"status" binding:"required,notification_status"`
}

// NotificationListQuery holds the optional filter of GET /notifications.
type NotificationListQuery struct {
	Status string `form:"status" binding:"omitempty,notification_status"`
}

// MarkAllReadResponse reports how many notifications changed.
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

// CreateNotification stores a notification for the caller
// @Summary     Create a notification
// @Tags        notifications
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateNotificationRequest true "Notification"
// @Success     201 {object} map[string]models.Notification "Notification created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /notifications [post]
func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	notification, err := h.notificationService.CreateNotification(userID, req.Message)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"notification": notification})
}

// GetUserNotifications lists the caller's notifications
// @Summary     List notifications
// @Description Newest first. Without page_size every notification is returned.
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Param       status    query string false "Filter by status" Enums(unread, read)
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (max 100)"
// @Success     200 {object} pagination.PageResponse[models.Notification] "Notifications"
// @Failure     400 {object} ErrorResponse "Invalid query"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /notifications [get]
func (h *NotificationHandler) GetUserNotifications(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	var query NotificationListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	var status *models.NotificationStatus
	if query.Status != "" {
		s := models.NotificationStatus(query.Status)
		status = &s
	}

	result, err := h.notificationService.GetUserNotifications(userID, status, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateNotification marks a notification read or unread
// @Summary     Update notification status
// @Tags        notifications
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                       true "Notification ID"
// @Param       request body UpdateNotificationRequest true "New status"
// @Success     200 {object} map[string]models.Notification "Updated notification"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Notification not found"
// @Router      /notifications/{id} [put]
func (h *NotificationHandler) UpdateNotification(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	notificationID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	notification, err := h.notificationService.UpdateNotificationStatus(userID, notificationID, models.NotificationStatus(req.Status))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notification": notification})
}

// MarkAllRead marks every unread notification as read
// @Summary     Mark all notifications read
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} MarkAllReadResponse "Number of notifications changed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /notifications/read_all [put]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	updated, err := h.notificationService.MarkAllRead(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MarkAllReadResponse{Updated: updated})
}

// DeleteNotification removes a notification
// @Summary     Delete a notification
// @Tags        notifications
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Notification ID"
// @Success     200 {object} MessageResponse "Notification deleted"
// @Failure     400 {object} ErrorResponse "Invalid notification ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Notification not found"
// @Router      /notifications/{id} [delete]
func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	notificationID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.notificationService.DeleteNotification(userID, notificationID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDeleteNotification, "notification", notificationID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Notification deleted"})
}

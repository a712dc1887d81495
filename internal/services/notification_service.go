package services

import (
	"gorm.io/gorm"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/models"
	"taskboard/internal/pagination"
)

// notificationService handles notification-related business logic.
type notificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a new NotificationServicer.
func NewNotificationService(db *gorm.DB) NotificationServicer {
	return &notificationService{db: db}
}

// CreateNotification stores an unread notification for userID.
func (s *notificationService) CreateNotification(userID uint, message string) (*models.Notification, error) {
	message, err := requiredText("message", message)
	if err != nil {
		return nil, err
	}

	notification := &models.Notification{
		UserID:  userID,
		Message: message,
		Status:  models.NotificationStatusUnread,
	}
	if err := s.db.Create(notification).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return notification, nil
}

func (s *notificationService) filtered(userID uint, status *models.NotificationStatus) *gorm.DB {
	q := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	return q
}

// GetUserNotifications lists the caller's notifications, newest first.
func (s *notificationService) GetUserNotifications(
	userID uint,
	status *models.NotificationStatus,
	page pagination.PageRequest,
) (*pagination.PageResponse[models.Notification], error) {
	page.Defaults()

	var totalItems int64
	if err := s.filtered(userID, status).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var notifications []models.Notification
	if err := s.filtered(userID, status).
		Order("created_at DESC, id DESC").
		Scopes(pagination.Paginate(page)).
		Find(&notifications).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(notifications, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func (s *notificationService) getOwned(userID, notificationID uint) (*models.Notification, error) {
	var notification models.Notification
	if err := s.db.Where("id = ? AND user_id = ?", notificationID, userID).First(&notification).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrNotificationNotFound)
	}
	return &notification, nil
}

// UpdateNotificationStatus marks an owned notification read or unread.
// Another user's notification is reported as not found.
func (s *notificationService) UpdateNotificationStatus(userID, notificationID uint, status models.NotificationStatus) (*models.Notification, error) {
	if !status.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "status must be 'read' or 'unread'")
	}

	notification, err := s.getOwned(userID, notificationID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(notification).Update("status", status).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.getOwned(userID, notificationID)
}

// MarkAllRead marks every unread notification of userID as read and
// returns how many changed.
func (s *notificationService) MarkAllRead(userID uint) (int64, error) {
	result := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND status = ?", userID, models.NotificationStatusUnread).
		Update("status", models.NotificationStatusRead)
	if result.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteNotification permanently removes an owned notification.
func (s *notificationService) DeleteNotification(userID, notificationID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", notificationID, userID).Delete(&models.Notification{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}

package services

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"taskboard/internal/logger"
	"taskboard/internal/models"
)

// Audit actions.
const (
	AuditRegister           = "REGISTER"
	AuditLogin              = "LOGIN"
	AuditDeleteProject      = "DELETE_PROJECT"
	AuditDeleteTask         = "DELETE_TASK"
	AuditDeleteNotification = "DELETE_NOTIFICATION"
	AuditDeleteEvent        = "DELETE_CALENDAR_EVENT"
	AuditUpdateSettings     = "UPDATE_SETTINGS"
)

// auditService handles audit log recording.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records an audit event. Errors are logged and never propagate, so a
// failed audit write cannot fail the request that triggered it.
func (s *auditService) Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{}) {
	var changesJSON datatypes.JSON
	if changes != nil {
		data, err := json.Marshal(changes)
		if err != nil {
			logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", action)
			data = []byte("{}")
		}
		changesJSON = datatypes.JSON(data)
	}

	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changesJSON,
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}

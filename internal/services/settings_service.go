package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/models"
)

// settingsService handles per-user settings, created on first access.
type settingsService struct {
	db *gorm.DB
}

// NewSettingsService creates a new SettingsServicer.
func NewSettingsService(db *gorm.DB) SettingsServicer {
	return &settingsService{db: db}
}

// GetSettings returns the caller's settings, creating the defaults row if
// none exists yet.
func (s *settingsService) GetSettings(userID uint) (*models.UserSettings, error) {
	var settings models.UserSettings
	err := s.db.
		Where(models.UserSettings{UserID: userID}).
		Attrs(models.UserSettings{
			Notifications: true,
			Theme:         models.DefaultTheme,
			Language:      models.DefaultLanguage,
		}).
		FirstOrCreate(&settings).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// A concurrent request created the row first.
		settings = models.UserSettings{}
		err = s.db.Where("user_id = ?", userID).First(&settings).Error
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &settings, nil
}

// UpdateSettings applies the non-nil fields.
func (s *settingsService) UpdateSettings(userID uint, notifications *bool, theme, language *string) (*models.UserSettings, error) {
	settings, err := s.GetSettings(userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if notifications != nil {
		updates["notifications"] = *notifications
	}
	if theme != nil {
		t, err := requiredText("theme", *theme)
		if err != nil {
			return nil, err
		}
		updates["theme"] = t
	}
	if language != nil {
		l, err := requiredText("language", *language)
		if err != nil {
			return nil, err
		}
		updates["language"] = strings.ToLower(l)
	}

	if len(updates) == 0 {
		return settings, nil
	}
	if err := s.db.Model(settings).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetSettings(userID)
}

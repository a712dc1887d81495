package services

import (
	"gorm.io/gorm"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/models"
)

// profileService handles the one-per-user profile row.
type profileService struct {
	db *gorm.DB
}

// NewProfileService creates a new ProfileServicer.
func NewProfileService(db *gorm.DB) ProfileServicer {
	return &profileService{db: db}
}

// GetProfile returns the caller's profile.
func (s *profileService) GetProfile(userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, lookupError(err, apperrors.ErrProfileNotFound)
	}
	return &profile, nil
}

// UpdateProfile applies the non-nil fields. Users registered before
// profiles existed get their row created here.
func (s *profileService) UpdateProfile(userID uint, update ProfileUpdate) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.Where(models.UserProfile{UserID: userID}).FirstOrCreate(&profile).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	updates := make(map[string]interface{})
	if update.FirstName != nil {
		updates["first_name"] = *update.FirstName
	}
	if update.LastName != nil {
		updates["last_name"] = *update.LastName
	}
	if update.ProfilePicture != nil {
		updates["profile_picture"] = *update.ProfilePicture
	}
	if update.Bio != nil {
		updates["bio"] = *update.Bio
	}

	if len(updates) == 0 {
		return &profile, nil
	}
	if err := s.db.Model(&profile).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetProfile(userID)
}

package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "taskboard/internal/errors"
	"taskboard/internal/models"
	"taskboard/internal/services"
)

func setupProfileSettingsRouter(profile *ProfileHandler, settings *SettingsHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.GET("/user_profile", profile.GetProfile)
	auth.POST("/user_profile", profile.UpdateProfile)
	auth.GET("/user_settings", settings.GetSettings)
	auth.POST("/user_settings", settings.UpdateSettings)
	return r
}

func TestProfileHandler(t *testing.T) {
	t.Run("get returns 404 without profile", func(t *testing.T) {
		profileSvc := &mockProfileService{
			getProfileFn: func(uint) (*models.UserProfile, error) { return nil, apperrors.ErrProfileNotFound },
		}
		r := setupProfileSettingsRouter(NewProfileHandler(profileSvc), NewSettingsHandler(&mockSettingsService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/user_profile", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "PROFILE_NOT_FOUND")
	})

	t.Run("post passes only supplied fields", func(t *testing.T) {
		var got services.ProfileUpdate
		profileSvc := &mockProfileService{
			updateProfileFn: func(userID uint, update services.ProfileUpdate) (*models.UserProfile, error) {
				got = update
				return &models.UserProfile{UserID: userID, Bio: *update.Bio}, nil
			},
		}
		r := setupProfileSettingsRouter(NewProfileHandler(profileSvc), NewSettingsHandler(&mockSettingsService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/user_profile", `{"bio":"hello"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Bio == nil || *got.Bio != "hello" {
			t.Errorf("expected bio hello, got %v", got.Bio)
		}
		if got.FirstName != nil || got.LastName != nil || got.ProfilePicture != nil {
			t.Errorf("omitted fields must stay nil, got %+v", got)
		}
		profile := parseJSON(t, rec)["profile"].(map[string]interface{})
		if profile["bio"] != "hello" {
			t.Errorf("expected bio in response, got %v", profile)
		}
	})
}

func TestSettingsHandler(t *testing.T) {
	t.Run("get returns defaults", func(t *testing.T) {
		r := setupProfileSettingsRouter(NewProfileHandler(&mockProfileService{}), NewSettingsHandler(&mockSettingsService{}, &mockAuditService{}))

		rec := doRequest(r, "GET", "/user_settings", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		settings := parseJSON(t, rec)["settings"].(map[string]interface{})
		if settings["notifications"] != true || settings["theme"] != "light" || settings["language"] != "en" {
			t.Errorf("unexpected defaults: %v", settings)
		}
	})

	t.Run("post disables notifications", func(t *testing.T) {
		var gotNotifications *bool
		audit := &mockAuditService{}
		settingsSvc := &mockSettingsService{
			updateSettingsFn: func(userID uint, notifications *bool, _, _ *string) (*models.UserSettings, error) {
				gotNotifications = notifications
				return &models.UserSettings{UserID: userID, Notifications: *notifications}, nil
			},
		}
		r := setupProfileSettingsRouter(NewProfileHandler(&mockProfileService{}), NewSettingsHandler(settingsSvc, audit))

		rec := doRequest(r, "POST", "/user_settings", `{"notifications":false}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotNotifications == nil || *gotNotifications {
			t.Errorf("expected explicit false, got %v", gotNotifications)
		}
		if len(audit.entries) != 1 || audit.entries[0].action != services.AuditUpdateSettings {
			t.Errorf("expected UPDATE_SETTINGS audit, got %+v", audit.entries)
		}
	})

	t.Run("post rejects blank theme", func(t *testing.T) {
		r := setupProfileSettingsRouter(NewProfileHandler(&mockProfileService{}), NewSettingsHandler(&mockSettingsService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/user_settings", `{"theme":"  "}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

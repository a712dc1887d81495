package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"taskboard/internal/logger"
	"taskboard/internal/middleware"
	"taskboard/internal/models"
	"taskboard/internal/pagination"
	"taskboard/internal/services"
	"taskboard/internal/validator"
)

// --- mock services ---

type mockUserService struct {
	registerFn              func(username, email, password string) (*models.User, error)
	authenticateFn          func(email, password string) (*models.User, error)
	getUserByIDFn           func(id uint) (*models.User, error)
	storeRefreshTokenHashFn func(userID uint, tokenHash string) error
	getRefreshTokenHashFn   func(userID uint) (string, error)
}

func (m *mockUserService) Register(username, email, password string) (*models.User, error) {
	if m.registerFn != nil {
		return m.registerFn(username, email, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) Authenticate(email, password string) (*models.User, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(email, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUserByID(id uint) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{Base: models.Base{ID: id}}, nil
}

func (m *mockUserService) StoreRefreshTokenHash(userID uint, tokenHash string) error {
	if m.storeRefreshTokenHashFn != nil {
		return m.storeRefreshTokenHashFn(userID, tokenHash)
	}
	return nil
}

func (m *mockUserService) GetRefreshTokenHash(userID uint) (string, error) {
	if m.getRefreshTokenHashFn != nil {
		return m.getRefreshTokenHashFn(userID)
	}
	return "", nil
}

type mockProjectService struct {
	createProjectFn   func(userID uint, name, description string) (*models.Project, error)
	getUserProjectsFn func(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Project], error)
	getProjectByIDFn  func(userID, projectID uint) (*models.Project, error)
	updateProjectFn   func(userID, projectID uint, name, description *string) (*models.Project, error)
	deleteProjectFn   func(userID, projectID uint) error
}

func (m *mockProjectService) CreateProject(userID uint, name, description string) (*models.Project, error) {
	if m.createProjectFn != nil {
		return m.createProjectFn(userID, name, description)
	}
	return &models.Project{}, nil
}

func (m *mockProjectService) GetUserProjects(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Project], error) {
	if m.getUserProjectsFn != nil {
		return m.getUserProjectsFn(userID, page)
	}
	resp := pagination.NewPageResponse([]models.Project{}, 1, 0, 0)
	return &resp, nil
}

func (m *mockProjectService) GetProjectByID(userID, projectID uint) (*models.Project, error) {
	if m.getProjectByIDFn != nil {
		return m.getProjectByIDFn(userID, projectID)
	}
	return &models.Project{Base: models.Base{ID: projectID}, UserID: userID}, nil
}

func (m *mockProjectService) UpdateProject(userID, projectID uint, name, description *string) (*models.Project, error) {
	if m.updateProjectFn != nil {
		return m.updateProjectFn(userID, projectID, name, description)
	}
	return &models.Project{}, nil
}

func (m *mockProjectService) DeleteProject(userID, projectID uint) error {
	if m.deleteProjectFn != nil {
		return m.deleteProjectFn(userID, projectID)
	}
	return nil
}

type mockTaskService struct {
	createTaskFn   func(userID, projectID uint, title, description string, status models.TaskStatus, priority models.TaskPriority, dueDate *models.Date) (*models.Task, error)
	getUserTasksFn func(userID uint, filter services.TaskFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Task], error)
	getTaskByIDFn  func(userID, taskID uint) (*models.Task, error)
	updateTaskFn   func(userID, taskID uint, update services.TaskUpdate) (*models.Task, error)
	deleteTaskFn   func(userID, taskID uint) error
}

func (m *mockTaskService) CreateTask(userID, projectID uint, title, description string, status models.TaskStatus, priority models.TaskPriority, dueDate *models.Date) (*models.Task, error) {
	if m.createTaskFn != nil {
		return m.createTaskFn(userID, projectID, title, description, status, priority, dueDate)
	}
	return &models.Task{}, nil
}

func (m *mockTaskService) GetUserTasks(userID uint, filter services.TaskFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Task], error) {
	if m.getUserTasksFn != nil {
		return m.getUserTasksFn(userID, filter, page)
	}
	resp := pagination.NewPageResponse([]models.Task{}, 1, 0, 0)
	return &resp, nil
}

func (m *mockTaskService) GetTaskByID(userID, taskID uint) (*models.Task, error) {
	if m.getTaskByIDFn != nil {
		return m.getTaskByIDFn(userID, taskID)
	}
	return &models.Task{}, nil
}

func (m *mockTaskService) UpdateTask(userID, taskID uint, update services.TaskUpdate) (*models.Task, error) {
	if m.updateTaskFn != nil {
		return m.updateTaskFn(userID, taskID, update)
	}
	return &models.Task{}, nil
}

func (m *mockTaskService) DeleteTask(userID, taskID uint) error {
	if m.deleteTaskFn != nil {
		return m.deleteTaskFn(userID, taskID)
	}
	return nil
}

type mockProfileService struct {
	getProfileFn    func(userID uint) (*models.UserProfile, error)
	updateProfileFn func(userID uint, update services.ProfileUpdate) (*models.UserProfile, error)
}

func (m *mockProfileService) GetProfile(userID uint) (*models.UserProfile, error) {
	if m.getProfileFn != nil {
		return m.getProfileFn(userID)
	}
	return &models.UserProfile{UserID: userID}, nil
}

func (m *mockProfileService) UpdateProfile(userID uint, update services.ProfileUpdate) (*models.UserProfile, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(userID, update)
	}
	return &models.UserProfile{UserID: userID}, nil
}

type mockSettingsService struct {
	getSettingsFn    func(userID uint) (*models.UserSettings, error)
	updateSettingsFn func(userID uint, notifications *bool, theme, language *string) (*models.UserSettings, error)
}

func (m *mockSettingsService) GetSettings(userID uint) (*models.UserSettings, error) {
	if m.getSettingsFn != nil {
		return m.getSettingsFn(userID)
	}
	return &models.UserSettings{UserID: userID, Notifications: true, Theme: models.DefaultTheme, Language: models.DefaultLanguage}, nil
}

func (m *mockSettingsService) UpdateSettings(userID uint, notifications *bool, theme, language *string) (*models.UserSettings, error) {
	if m.updateSettingsFn != nil {
		return m.updateSettingsFn(userID, notifications, theme, language)
	}
	return &models.UserSettings{UserID: userID}, nil
}

type mockNotificationService struct {
	createNotificationFn       func(userID uint, message string) (*models.Notification, error)
	getUserNotificationsFn     func(userID uint, status *models.NotificationStatus, page pagination.PageRequest) (*pagination.PageResponse[models.Notification], error)
	updateNotificationStatusFn func(userID, notificationID uint, status models.NotificationStatus) (*models.Notification, error)
	markAllReadFn              func(userID uint) (int64, error)
	deleteNotificationFn       func(userID, notificationID uint) error
}

func (m *mockNotificationService) CreateNotification(userID uint, message string) (*models.Notification, error) {
	if m.createNotificationFn != nil {
		return m.createNotificationFn(userID, message)
	}
	return &models.Notification{}, nil
}

func (m *mockNotificationService) GetUserNotifications(userID uint, status *models.NotificationStatus, page pagination.PageRequest) (*pagination.PageResponse[models.Notification], error) {
	if m.getUserNotificationsFn != nil {
		return m.getUserNotificationsFn(userID, status, page)
	}
	resp := pagination.NewPageResponse([]models.Notification{}, 1, 0, 0)
	return &resp, nil
}

func (m *mockNotificationService) UpdateNotificationStatus(userID, notificationID uint, status models.NotificationStatus) (*models.Notification, error) {
	if m.updateNotificationStatusFn != nil {
		return m.updateNotificationStatusFn(userID, notificationID, status)
	}
	return &models.Notification{}, nil
}

func (m *mockNotificationService) MarkAllRead(userID uint) (int64, error) {
	if m.markAllReadFn != nil {
		return m.markAllReadFn(userID)
	}
	return 0, nil
}

func (m *mockNotificationService) DeleteNotification(userID, notificationID uint) error {
	if m.deleteNotificationFn != nil {
		return m.deleteNotificationFn(userID, notificationID)
	}
	return nil
}

type mockCalendarEventService struct {
	createEventFn   func(userID uint, title string, date models.Date, description string) (*models.CalendarEvent, error)
	getUserEventsFn func(userID uint, from, to *models.Date, page pagination.PageRequest) (*pagination.PageResponse[models.CalendarEvent], error)
	getEventByIDFn  func(userID, eventID uint) (*models.CalendarEvent, error)
	updateEventFn   func(userID, eventID uint, title *string, date *models.Date, description *string) (*models.CalendarEvent, error)
	deleteEventFn   func(userID, eventID uint) error
}

func (m *mockCalendarEventService) CreateEvent(userID uint, title string, date models.Date, description string) (*models.CalendarEvent, error) {
	if m.createEventFn != nil {
		return m.createEventFn(userID, title, date, description)
	}
	return &models.CalendarEvent{}, nil
}

func (m *mockCalendarEventService) GetUserEvents(userID uint, from, to *models.Date, page pagination.PageRequest) (*pagination.PageResponse[models.CalendarEvent], error) {
	if m.getUserEventsFn != nil {
		return m.getUserEventsFn(userID, from, to, page)
	}
	resp := pagination.NewPageResponse([]models.CalendarEvent{}, 1, 0, 0)
	return &resp, nil
}

func (m *mockCalendarEventService) GetEventByID(userID, eventID uint) (*models.CalendarEvent, error) {
	if m.getEventByIDFn != nil {
		return m.getEventByIDFn(userID, eventID)
	}
	return &models.CalendarEvent{}, nil
}

func (m *mockCalendarEventService) UpdateEvent(userID, eventID uint, title *string, date *models.Date, description *string) (*models.CalendarEvent, error) {
	if m.updateEventFn != nil {
		return m.updateEventFn(userID, eventID, title, date, description)
	}
	return &models.CalendarEvent{}, nil
}

func (m *mockCalendarEventService) DeleteEvent(userID, eventID uint) error {
	if m.deleteEventFn != nil {
		return m.deleteEventFn(userID, eventID)
	}
	return nil
}

type auditEntry struct {
	userID     uint
	action     string
	resourceID uint
}

type mockAuditService struct {
	entries []auditEntry
}

func (m *mockAuditService) Log(userID uint, action, _ string, resourceID uint, _ string, _ map[string]interface{}) {
	m.entries = append(m.entries, auditEntry{userID: userID, action: action, resourceID: resourceID})
}

// verify interface compliance
var (
	_ services.UserServicer          = (*mockUserService)(nil)
	_ services.ProjectServicer       = (*mockProjectService)(nil)
	_ services.TaskServicer          = (*mockTaskService)(nil)
	_ services.ProfileServicer       = (*mockProfileService)(nil)
	_ services.SettingsServicer      = (*mockSettingsService)(nil)
	_ services.NotificationServicer  = (*mockNotificationService)(nil)
	_ services.CalendarEventServicer = (*mockCalendarEventService)(nil)
	_ services.AuditServicer         = (*mockAuditService)(nil)
)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

func injectUserID(uid uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func assertErrorMessage(t *testing.T, result map[string]interface{}, message string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["message"] != message {
		t.Errorf("expected error message %q, got %q", message, errObj["message"])
	}
}

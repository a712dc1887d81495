package services

import (
	"taskboard/internal/models"
	"taskboard/internal/pagination"
)

// UserServicer defines the contract for registration and credential checks.
type UserServicer interface {
	Register(username, email, password string) (*models.User, error)
	Authenticate(email, password string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
}

// ProjectServicer defines the contract for project-related business logic.
type ProjectServicer interface {
	CreateProject(userID uint, name, description string) (*models.Project, error)
	GetUserProjects(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Project], error)
	GetProjectByID(userID, projectID uint) (*models.Project, error)
	UpdateProject(userID, projectID uint, name, description *string) (*models.Project, error)
	DeleteProject(userID, projectID uint) error
}

// TaskFilter holds optional filter parameters for listing tasks.
type TaskFilter struct {
	ProjectID *uint
	Status    *models.TaskStatus
	Priority  *models.TaskPriority
}

// TaskUpdate carries a partial task update. Nil fields are left unchanged.
// ClearDueDate sets the due date to NULL and takes precedence over DueDate.
type TaskUpdate struct {
	ProjectID    *uint
	Title        *string
	Description  *string
	Status       *models.TaskStatus
	Priority     *models.TaskPriority
	DueDate      *models.Date
	ClearDueDate bool
}

// TaskServicer defines the contract for task-related business logic.
type TaskServicer interface {
	CreateTask(userID, projectID uint, title, description string, status models.TaskStatus, priority models.TaskPriority, dueDate *models.Date) (*models.Task, error)
	GetUserTasks(userID uint, filter TaskFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Task], error)
	GetTaskByID(userID, taskID uint) (*models.Task, error)
	UpdateTask(userID, taskID uint, update TaskUpdate) (*models.Task, error)
	DeleteTask(userID, taskID uint) error
}

// ProfileUpdate carries a partial profile update. Nil fields are left unchanged.
type ProfileUpdate struct {
	FirstName      *string
	LastName       *string
	ProfilePicture *string
	Bio            *string
}

// ProfileServicer defines the contract for the per-user profile.
type ProfileServicer interface {
	GetProfile(userID uint) (*models.UserProfile, error)
	UpdateProfile(userID uint, update ProfileUpdate) (*models.UserProfile, error)
}

// SettingsServicer defines the contract for per-user settings.
type SettingsServicer interface {
	GetSettings(userID uint) (*models.UserSettings, error)
	UpdateSettings(userID uint, notifications *bool, theme, language *string) (*models.UserSettings, error)
}

// NotificationServicer defines the contract for notification-related business logic.
type NotificationServicer interface {
	CreateNotification(userID uint, message string) (*models.Notification, error)
	GetUserNotifications(userID uint, status *models.NotificationStatus, page pagination.PageRequest) (*pagination.PageResponse[models.Notification], error)
	UpdateNotificationStatus(userID, notificationID uint, status models.NotificationStatus) (*models.Notification, error)
	MarkAllRead(userID uint) (int64, error)
	DeleteNotification(userID, notificationID uint) error
}

// CalendarEventServicer defines the contract for calendar events.
type CalendarEventServicer interface {
	CreateEvent(userID uint, title string, date models.Date, description string) (*models.CalendarEvent, error)
	GetUserEvents(userID uint, from, to *models.Date, page pagination.PageRequest) (*pagination.PageResponse[models.CalendarEvent], error)
	GetEventByID(userID, eventID uint) (*models.CalendarEvent, error)
	UpdateEvent(userID, eventID uint, title *string, date *models.Date, description *string) (*models.CalendarEvent, error)
	DeleteEvent(userID, eventID uint) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}

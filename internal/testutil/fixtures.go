package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"taskboard/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the clear-text password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password, a unique username
// and email, and a default profile.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	n := nextID()
	return CreateTestUserWith(t, db, fmt.Sprintf("user%d", n), fmt.Sprintf("user%d@test.com", n))
}

// CreateTestUserWith creates a user with the given username and email.
func CreateTestUserWith(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	if err := db.Create(&models.UserProfile{UserID: user.ID}).Error; err != nil {
		t.Fatalf("failed to create test profile: %v", err)
	}
	return user
}

// CreateTestProject creates a project owned by userID.
func CreateTestProject(t *testing.T, db *gorm.DB, userID uint) *models.Project {
	t.Helper()

	project := &models.Project{
		UserID: userID,
		Name:   fmt.Sprintf("Test Project %d", nextID()),
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return project
}

// CreateTestTask creates a To Do / Medium task in projectID.
func CreateTestTask(t *testing.T, db *gorm.DB, projectID uint) *models.Task {
	t.Helper()

	due := models.NewDate(2024, 3, 15)
	task := &models.Task{
		ProjectID:   projectID,
		Title:       fmt.Sprintf("Test Task %d", nextID()),
		Description: "fixture task",
		Status:      models.TaskStatusToDo,
		Priority:    models.TaskPriorityMedium,
		DueDate:     &due,
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}
	return task
}

// CreateTestNotification creates an unread notification for userID.
func CreateTestNotification(t *testing.T, db *gorm.DB, userID uint) *models.Notification {
	t.Helper()

	notification := &models.Notification{
		UserID:  userID,
		Message: fmt.Sprintf("Test notification %d", nextID()),
		Status:  models.NotificationStatusUnread,
	}
	if err := db.Create(notification).Error; err != nil {
		t.Fatalf("failed to create test notification: %v", err)
	}
	return notification
}

// CreateTestCalendarEvent creates an event for userID on date.
func CreateTestCalendarEvent(t *testing.T, db *gorm.DB, userID uint, date models.Date) *models.CalendarEvent {
	t.Helper()

	event := &models.CalendarEvent{
		UserID: userID,
		Title:  fmt.Sprintf("Test Event %d", nextID()),
		Date:   date,
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("failed to create test calendar event: %v", err)
	}
	return event
}

package models

// NotificationStatus tracks whether the user has seen a notification.
type NotificationStatus string

const (
	NotificationStatusUnread NotificationStatus = "unread"
	NotificationStatusRead   NotificationStatus = "read"
)

// Valid reports whether s is a known status.
func (s NotificationStatus) Valid() bool {
	return s == NotificationStatusUnread || s == NotificationStatusRead
}

// Notification is a message addressed to one user.
type Notification struct {
	Base
	UserID  uint               `gorm:"not null;index" json:"user_id"`
	Message string             `gorm:"type:text;not null" json:"message"`
	Status  NotificationStatus `gorm:"size:10;not null;default:'unread'" json:"status"`
}

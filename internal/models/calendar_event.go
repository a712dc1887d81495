package models

// CalendarEvent is a dated entry on a user's calendar.
type CalendarEvent struct {
	Base
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Date        Date   `gorm:"not null;index" json:"date"`
	Description string `gorm:"type:text" json:"description"`
}

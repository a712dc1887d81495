package models

// User is an account holder. Every other resource hangs off a user.
type User struct {
	Base
	Username         string          `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email            string          `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password         string          `gorm:"size:255;not null" json:"-"`
	RefreshTokenHash string          `gorm:"size:64" json:"-"`
	Profile          *UserProfile    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Settings         *UserSettings   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Projects         []Project       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Notifications    []Notification  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CalendarEvents   []CalendarEvent `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// UserProfile holds presentation details, one row per user.
type UserProfile struct {
	Base
	UserID         uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	FirstName      string `gorm:"size:50" json:"first_name"`
	LastName       string `gorm:"size:50" json:"last_name"`
	ProfilePicture string `gorm:"size:255" json:"profile_picture"`
	Bio            string `gorm:"type:text" json:"bio"`
}

// TableName keeps the singular table name used by the schema.
func (UserProfile) TableName() string { return "user_profile" }

// Settings defaults.
const (
	DefaultTheme    = "light"
	DefaultLanguage = "en"
)

// UserSettings holds per-user preferences, created lazily on first access.
type UserSettings struct {
	Base
	UserID        uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	Notifications bool   `gorm:"not null;default:true" json:"notifications"`
	Theme         string `gorm:"size:20;not null;default:'light'" json:"theme"`
	Language      string `gorm:"size:10;not null;default:'en'" json:"language"`
}

// TableName keeps the singular table name used by the schema.
func (UserSettings) TableName() string { return "user_settings" }

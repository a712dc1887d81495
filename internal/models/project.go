package models

// Project groups tasks and belongs to exactly one user.
type Project struct {
	Base
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Tasks       []Task `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}

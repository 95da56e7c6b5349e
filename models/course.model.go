package models

import "gorm.io/gorm"

// Course represents a course offered by a mentor.
type Course struct {
	gorm.Model
	MentorID      uint   `json:"mentor_id" gorm:"index;not null"`
	Title         string `json:"title"`
	Description   string `json:"description" gorm:"type:text"`
	Category      string `json:"category" gorm:"default:''"`
	Price         uint   `json:"price" gorm:"default:0"`
	DurationHours int    `json:"duration_hours" gorm:"default:0"`
	IsActive      bool   `json:"is_active" gorm:"default:true"`
	IsDeleted     bool   `json:"-" gorm:"default:false"`

	Mentor User `json:"-" gorm:"foreignKey:MentorID;constraint:OnDelete:CASCADE"`
}

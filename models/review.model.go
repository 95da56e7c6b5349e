package models

import "gorm.io/gorm"

// Review is a student's rating of a completed course.
type Review struct {
	gorm.Model
	StudentID uint   `json:"student_id" gorm:"index;not null"`
	CourseID  uint   `json:"course_id" gorm:"index;not null"`
	MentorID  uint   `json:"mentor_id" gorm:"index;not null"`
	Rating    int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"` // 1–5 rating
	Comment   string `json:"comment" gorm:"type:text;default:''"`

	Student User   `json:"-" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Course  Course `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

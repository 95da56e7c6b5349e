package models

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment links a student to a course. CompletedAt is set exactly when
// IsCompleted flips false to true; the transition is terminal.
type Enrollment struct {
	gorm.Model
	StudentID   uint       `json:"student_id" gorm:"uniqueIndex:idx_student_course;not null"`
	CourseID    uint       `json:"course_id" gorm:"uniqueIndex:idx_student_course;not null"`
	IsCompleted bool       `json:"is_completed" gorm:"default:false"`
	CompletedAt *time.Time `json:"completed_at"`

	Student User   `json:"-" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Course  Course `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

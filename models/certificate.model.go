package models

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is issued by the progression pipeline, exactly once per
// enrollment completion. It is never created by a direct user request.
type Certificate struct {
	gorm.Model
	StudentID         uint      `json:"student_id" gorm:"index;not null"`
	CourseID          uint      `json:"course_id" gorm:"index;not null"`
	MentorID          uint      `json:"mentor_id" gorm:"index;not null"`
	CertificateNumber string    `json:"certificate_number" gorm:"unique;not null"`
	IssuedAt          time.Time `json:"issued_at"`

	Student User   `json:"-" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Course  Course `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

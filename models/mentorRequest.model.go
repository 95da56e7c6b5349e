package models

import (
	"time"

	"gorm.io/gorm"
)

// MentorRequest statuses
const (
	MentorRequestPending  = "pending"
	MentorRequestApproved = "approved"
	MentorRequestRejected = "rejected"
)

// MentorRequest is a student's application to become a mentor. ReviewedBy
// and ReviewedAt are set exactly when the status leaves pending.
type MentorRequest struct {
	gorm.Model
	StudentID  uint       `json:"student_id" gorm:"index;not null"`
	Motivation string     `json:"motivation" gorm:"type:text;default:''"`
	Status     string     `json:"status" gorm:"default:'pending'"` // pending, approved, rejected
	ReviewedBy *uint      `json:"reviewed_by"`
	ReviewedAt *time.Time `json:"reviewed_at"`

	Student User `json:"-" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Session statuses
const (
	SessionBooked    = "booked"
	SessionCompleted = "completed"
	SessionCancelled = "cancelled"
)

// Session is a one-to-one mentoring session booked by a student. Completing
// a session credits the mentor's earnings ledger.
type Session struct {
	gorm.Model
	MentorID    uint      `json:"mentor_id" gorm:"index;not null"`
	StudentID   uint      `json:"student_id" gorm:"index;not null"`
	Topic       string    `json:"topic" gorm:"default:''"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Price       uint      `json:"price" gorm:"default:0"`
	Status      string    `json:"status" gorm:"default:'booked'"` // booked, completed, cancelled

	Mentor  User `json:"-" gorm:"foreignKey:MentorID;constraint:OnDelete:CASCADE"`
	Student User `json:"-" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
}

package models

import "gorm.io/gorm"

// EarningsTransaction is one ledger entry behind User.TotalEarnings.
// Rows are append-only; the running total on the user is derived from them.
type EarningsTransaction struct {
	gorm.Model
	MentorID  uint   `json:"mentor_id" gorm:"index;not null"`
	SessionID uint   `json:"session_id" gorm:"index;not null"`
	Amount    uint   `json:"amount" gorm:"not null"`
	Note      string `json:"note" gorm:"default:''"`

	Mentor User `json:"-" gorm:"foreignKey:MentorID;constraint:OnDelete:CASCADE"`
}

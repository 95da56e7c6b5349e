package models

import (
	"time"

	"gorm.io/gorm"
)

// OTP holds a one-time email verification code for a user.
type OTP struct {
	gorm.Model
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Code      string    `json:"-" gorm:"not null"`
	ExpiresAt time.Time `json:"expires_at"`
	IsUsed    bool      `json:"is_used" gorm:"default:false"`
}

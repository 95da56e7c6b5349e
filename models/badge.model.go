package models

import (
	"time"

	"gorm.io/gorm"
)

// Badge types
const (
	BadgeTypeLearner = "learner"
	BadgeTypeMentor  = "mentor"
)

// Badge is a static catalog entry seeded at startup. Criteria is an opaque
// description string; criteria matching is not evaluated yet.
type Badge struct {
	gorm.Model
	Name      string `json:"name" gorm:"unique;not null"`
	BadgeType string `json:"badge_type" gorm:"default:'learner'"` // learner, mentor
	Criteria  string `json:"criteria" gorm:"default:''"`
	Icon      string `json:"icon" gorm:"default:''"`
}

// UserBadge records an earned-badge fact.
type UserBadge struct {
	gorm.Model
	UserID   uint      `json:"user_id" gorm:"uniqueIndex:idx_user_badge;not null"`
	BadgeID  uint      `json:"badge_id" gorm:"uniqueIndex:idx_user_badge;not null"`
	EarnedAt time.Time `json:"earned_at"`

	User  User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Badge Badge `json:"badge" gorm:"foreignKey:BadgeID;constraint:OnDelete:CASCADE"`
}

package models

import (
	"gorm.io/gorm"
)

// User roles
const (
	RoleStudent = "student"
	RoleMentor  = "mentor"
	RoleAdmin   = "admin"
)

type User struct {
	gorm.Model
	Name          string `json:"name" gorm:"default:''"`
	Email         string `json:"email" gorm:"unique;not null"`
	Password      string `json:"-" gorm:"not null"`
	Role          string `json:"role" gorm:"default:'student'"` // student, mentor, admin
	YearOfStudy   int    `json:"year_of_study" gorm:"default:1"`
	Bio           string `json:"bio" gorm:"type:text;default:''"`
	Skills        string `json:"skills" gorm:"default:''"`
	ProfileImage  string `json:"profile_image" gorm:"default:''"`
	XPPoints      uint   `json:"xp_points" gorm:"default:0"`
	LevelNumber   uint   `json:"level_number" gorm:"default:1"`
	TotalEarnings uint   `json:"total_earnings" gorm:"default:0"`
	IsVerified    bool   `json:"is_verified" gorm:"default:false"`
	IsDeleted     bool   `json:"-" gorm:"default:false"`
}

// NewUser builds a user with the construction-time defaults the schema
// used to carry (default role, level 1, zero XP).
func NewUser(name, email, hashedPassword string, yearOfStudy int) User {
	return User{
		Name:        name,
		Email:       email,
		Password:    hashedPassword,
		Role:        RoleStudent,
		YearOfStudy: yearOfStudy,
		XPPoints:    0,
		LevelNumber: 1,
	}
}

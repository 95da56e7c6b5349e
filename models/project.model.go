package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserProject is a portfolio entry on a user's public profile.
// Technologies is an ordered JSON array of strings.
type UserProject struct {
	gorm.Model
	UserID       uint           `json:"user_id" gorm:"index;not null"`
	Title        string         `json:"title"`
	Description  string         `json:"description" gorm:"type:text;default:''"`
	RepoURL      string         `json:"repo_url" gorm:"default:''"`
	Technologies datatypes.JSON `json:"technologies"`

	User User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

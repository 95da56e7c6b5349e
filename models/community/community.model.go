package community

import (
	"time"

	"gorm.io/gorm"

	"peerlearn/models"
)

// Community member roles
const (
	MemberRoleAdmin  = "admin"
	MemberRoleSenior = "senior"
	MemberRoleMember = "member"
)

// Resource types
const (
	ResourceVideo    = "video"
	ResourceDocument = "document"
	ResourceLink     = "link"
	ResourceMeetLink = "meet_link"
)

// LearningCommunity is a student-run study group. Only users in their
// second year or later may create one.
type LearningCommunity struct {
	gorm.Model
	CreatedBy   uint   `json:"created_by" gorm:"index;not null"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description" gorm:"type:text;default:''"`
	Category    string `json:"category" gorm:"default:''"`
	IsActive    bool   `json:"is_active" gorm:"default:true"`

	Creator models.User `json:"-" gorm:"foreignKey:CreatedBy;constraint:OnDelete:CASCADE"`
}

type CommunityMember struct {
	gorm.Model
	CommunityID uint   `json:"community_id" gorm:"uniqueIndex:idx_community_user;not null"`
	UserID      uint   `json:"user_id" gorm:"uniqueIndex:idx_community_user;not null"`
	Role        string `json:"role" gorm:"default:'member'"` // admin, senior, member

	Community LearningCommunity `json:"-" gorm:"foreignKey:CommunityID;constraint:OnDelete:CASCADE"`
	User      models.User       `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// CommunityResource is shared material; the uploader must be a member in
// their second year or later.
type CommunityResource struct {
	gorm.Model
	CommunityID  uint   `json:"community_id" gorm:"index;not null"`
	UploadedBy   uint   `json:"uploaded_by" gorm:"index;not null"`
	Title        string `json:"title"`
	ResourceType string `json:"resource_type" gorm:"default:'link'"` // video, document, link, meet_link
	URL          string `json:"url" gorm:"default:''"`

	Community LearningCommunity `json:"-" gorm:"foreignKey:CommunityID;constraint:OnDelete:CASCADE"`
}

type CommunitySession struct {
	gorm.Model
	CommunityID uint      `json:"community_id" gorm:"index;not null"`
	HostID      uint      `json:"host_id" gorm:"index;not null"`
	Title       string    `json:"title"`
	MeetLink    string    `json:"meet_link" gorm:"default:''"`
	ScheduledAt time.Time `json:"scheduled_at"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`

	Community LearningCommunity `json:"-" gorm:"foreignKey:CommunityID;constraint:OnDelete:CASCADE"`
}

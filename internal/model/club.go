package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClubMember roles
const (
	MemberRoleMember    = "member"
	MemberRoleAdmin     = "admin"
	MemberRoleModerator = "moderator"
)

// MembershipRequest statuses
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

type Club struct {
	ID              uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string       `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Description     string       `gorm:"type:text;not null" json:"description"`
	Category        string       `gorm:"size:100;not null;index" json:"category"`
	LogoURL         *string      `gorm:"type:text" json:"logo_url,omitempty"`
	IsPublic        bool         `gorm:"default:true" json:"is_public"`
	MaxMembers      *int         `json:"max_members,omitempty"`
	Tags            StringList   `gorm:"type:text" json:"tags"`
	Requirements    *string      `gorm:"type:text" json:"requirements,omitempty"`
	MeetingSchedule *string      `gorm:"size:255" json:"meeting_schedule,omitempty"`
	ContactEmail    *string      `gorm:"size:100" json:"contact_email,omitempty"`
	OwnerID         uuid.UUID    `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner           User         `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"owner"`
	Members         []ClubMember `gorm:"foreignKey:ClubID" json:"members,omitempty"`
	CreatedAt       time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Club) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}

type ClubMember struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClubID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_club_user" json:"club_id"`
	Club     Club      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_club_user" json:"user_id"`
	User     User      `gorm:"constraint:OnDelete:CASCADE" json:"user"`
	Role     string    `gorm:"size:20;not null;default:member" json:"role"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

func (m *ClubMember) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID, err = uuid.NewV7()
	}
	return
}

type MembershipRequest struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClubID    uuid.UUID `gorm:"type:uuid;not null;index:idx_request_club_user" json:"club_id"`
	Club      Club      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_request_club_user" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"user"`
	Status    string    `gorm:"size:20;not null;default:pending;index" json:"status"`
	Message   *string   `gorm:"type:text" json:"message,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *MembershipRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}

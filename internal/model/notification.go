package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types
const (
	NotificationRequestApproved = "request_approved"
	NotificationRequestRejected = "request_rejected"
	NotificationMemberRemoved   = "member_removed"
	NotificationRoleChanged     = "role_changed"
)

type Notification struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ActorID    uuid.UUID `gorm:"type:uuid" json:"actor_id"`
	EntityID   uuid.UUID `gorm:"type:uuid" json:"entity_id"`
	EntityType string    `gorm:"size:50" json:"entity_type"`
	Type       string    `gorm:"size:50;not null" json:"type"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	IsRead     bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID, err = uuid.NewV7()
	}
	return
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Announcement priorities
const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityNormal = "normal"
	PriorityLow    = "low"
)

type Announcement struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ClubID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"club_id"`
	Club        Club       `gorm:"constraint:OnDelete:CASCADE" json:"club"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	Priority    string     `gorm:"size:20;not null;default:normal" json:"priority"`
	AuthorID    uuid.UUID  `gorm:"type:uuid;not null" json:"author_id"`
	Author      User       `gorm:"foreignKey:AuthorID" json:"author"`
	Tags        StringList `gorm:"type:text" json:"tags"`
	IsPublished bool       `gorm:"default:true;index" json:"is_published"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Announcement) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID, err = uuid.NewV7()
	}
	return
}

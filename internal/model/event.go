package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClubID           uuid.UUID `gorm:"type:uuid;not null;index" json:"club_id"`
	Club             Club      `gorm:"constraint:OnDelete:CASCADE" json:"club"`
	Title            string    `gorm:"size:255;not null" json:"title"`
	Description      string    `gorm:"type:text" json:"description"`
	Date             time.Time `gorm:"not null;index" json:"date"`
	Venue            string    `gorm:"size:255;not null" json:"venue"`
	MaxParticipants  *int      `json:"max_participants,omitempty"`
	Category         string    `gorm:"size:100" json:"category"`
	RegistrationLink *string   `gorm:"type:text" json:"registration_link,omitempty"`
	IsActive         bool      `gorm:"default:true" json:"is_active"`
	CreatedByID      uuid.UUID `gorm:"type:uuid;not null" json:"created_by_id"`
	CreatedBy        User      `gorm:"foreignKey:CreatedByID" json:"-"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID, err = uuid.NewV7()
	}
	return
}

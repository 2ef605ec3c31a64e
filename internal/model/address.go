package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Address struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Label     string    `gorm:"size:50;not null" json:"label"`
	Street    string    `gorm:"size:255;not null" json:"street"`
	City      string    `gorm:"size:100;not null" json:"city"`
	State     string    `gorm:"size:100" json:"state"`
	Zip       string    `gorm:"size:20" json:"zip"`
	Country   string    `gorm:"size:100;not null" json:"country"`
	IsDefault bool      `gorm:"default:false" json:"is_default"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *Address) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID, err = uuid.NewV7()
	}
	return
}

package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateEventRequest struct {
	ClubID           string  `json:"club_id" binding:"required,uuid"`
	Title            string  `json:"title" binding:"required,max=255"`
	Description      string  `json:"description"`
	Date             string  `json:"date" binding:"required"`
	Venue            string  `json:"venue" binding:"required,max=255"`
	MaxParticipants  *int    `json:"max_participants" binding:"omitempty,min=1"`
	Category         string  `json:"category"`
	RegistrationLink *string `json:"registration_link"`
}

type UpdateEventRequest struct {
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	Date             *string `json:"date"`
	Venue            *string `json:"venue"`
	MaxParticipants  *int    `json:"max_participants" binding:"omitempty,min=1"`
	Category         *string `json:"category"`
	RegistrationLink *string `json:"registration_link"`
	IsActive         *bool   `json:"is_active"`
}

type EventFilter struct {
	ClubID   string `form:"club_id"`
	Category string `form:"category"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

type EventResponse struct {
	ID               uuid.UUID `json:"id"`
	ClubID           uuid.UUID `json:"club_id"`
	ClubName         string    `json:"club_name"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Date             time.Time `json:"date"`
	Venue            string    `json:"venue"`
	MaxParticipants  *int      `json:"max_participants,omitempty"`
	Category         string    `json:"category"`
	RegistrationLink *string   `json:"registration_link,omitempty"`
	IsActive         bool      `json:"is_active"`
	Registrations    int       `json:"registrations"`
	CreatedAt        time.Time `json:"created_at"`
}

type PaginatedEventResponse struct {
	Data []EventResponse `json:"data"`
	Meta PaginationMeta  `json:"meta"`
}

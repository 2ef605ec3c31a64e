package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateClubRequest struct {
	Name            string   `json:"name" binding:"required,min=3,max=255"`
	Description     string   `json:"description" binding:"required"`
	Category        string   `json:"category" binding:"required"`
	IsPublic        *bool    `json:"is_public"`
	MaxMembers      *int     `json:"max_members" binding:"omitempty,min=1"`
	Tags            []string `json:"tags"`
	Requirements    *string  `json:"requirements"`
	MeetingSchedule *string  `json:"meeting_schedule"`
	ContactEmail    *string  `json:"contact_email" binding:"omitempty,email"`
}

type UpdateClubRequest struct {
	Description     *string  `json:"description"`
	Category        *string  `json:"category"`
	IsPublic        *bool    `json:"is_public"`
	MaxMembers      *int     `json:"max_members" binding:"omitempty,min=1"`
	Tags            []string `json:"tags"`
	Requirements    *string  `json:"requirements"`
	MeetingSchedule *string  `json:"meeting_schedule"`
	ContactEmail    *string  `json:"contact_email" binding:"omitempty,email"`
}

type ClubFilter struct {
	Category string `form:"category"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

type ClubResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	LogoURL         *string   `json:"logo_url,omitempty"`
	IsPublic        bool      `json:"is_public"`
	MaxMembers      *int      `json:"max_members,omitempty"`
	Tags            []string  `json:"tags"`
	Requirements    *string   `json:"requirements,omitempty"`
	MeetingSchedule *string   `json:"meeting_schedule,omitempty"`
	ContactEmail    *string   `json:"contact_email,omitempty"`
	OwnerID         uuid.UUID `json:"owner_id"`
	OwnerName       string    `json:"owner_name"`
	MemberCount     int64     `json:"member_count"`
	CreatedAt       time.Time `json:"created_at"`
}

type PaginatedClubResponse struct {
	Data []ClubResponse `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

type MemberResponse struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

type CreateMembershipRequest struct {
	Message *string `json:"message"`
}

type MembershipRequestResponse struct {
	ID        uuid.UUID `json:"id"`
	ClubID    uuid.UUID `json:"club_id"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	Status    string    `json:"status"`
	Message   *string   `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ResolveRequestInput struct {
	Action string `json:"action" binding:"required,oneof=approve reject"`
}

type UpdateMemberInput struct {
	Role string `json:"role" binding:"required,oneof=member admin moderator"`
}

package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateAnnouncementRequest struct {
	ClubID   string   `json:"club_id" binding:"required,uuid"`
	Title    string   `json:"title" binding:"required,max=255"`
	Content  string   `json:"content" binding:"required"`
	Priority string   `json:"priority" binding:"omitempty,oneof=urgent high normal low"`
	Tags     []string `json:"tags"`
	Publish  *bool    `json:"publish"`
}

type UpdateAnnouncementRequest struct {
	Title    *string  `json:"title"`
	Content  *string  `json:"content"`
	Priority *string  `json:"priority" binding:"omitempty,oneof=urgent high normal low"`
	Tags     []string `json:"tags"`
	Publish  *bool    `json:"publish"`
}

type AnnouncementFilter struct {
	ClubID   string `form:"club_id"`
	Priority string `form:"priority"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

type AnnouncementResponse struct {
	ID          uuid.UUID `json:"id"`
	ClubID      uuid.UUID `json:"club_id"`
	ClubName    string    `json:"club_name"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Priority    string    `json:"priority"`
	Author      string    `json:"author"`
	Tags        []string  `json:"tags"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

type PaginatedAnnouncementResponse struct {
	Data []AnnouncementResponse `json:"data"`
	Meta PaginationMeta         `json:"meta"`
}

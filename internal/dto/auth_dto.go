package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterInput struct {
	Name       string  `json:"name" binding:"required,min=3,max=100"`
	Email      string  `json:"email" binding:"required,email"`
	Password   string  `json:"password" binding:"required,min=8"`
	Department *string `json:"department"`
	Year       *string `json:"year"`
	Bio        *string `json:"bio"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        UserResponse `json:"user"`
}

type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Department *string   `json:"department,omitempty"`
	Year       *string   `json:"year,omitempty"`
	Bio        *string   `json:"bio,omitempty"`
	AvatarURL  *string   `json:"avatar_url,omitempty"`
	Points     int       `json:"points"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

type UpdateProfileInput struct {
	Name       *string `json:"name"`
	Department *string `json:"department"`
	Year       *string `json:"year"`
	Bio        *string `json:"bio"`
}

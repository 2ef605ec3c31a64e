package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateAddressRequest struct {
	Label     string `json:"label" binding:"required,max=50"`
	Street    string `json:"street" binding:"required,max=255"`
	City      string `json:"city" binding:"required,max=100"`
	State     string `json:"state" binding:"max=100"`
	Zip       string `json:"zip" binding:"max=20"`
	Country   string `json:"country" binding:"required,max=100"`
	IsDefault bool   `json:"is_default"`
}

type UpdateAddressRequest struct {
	Label     *string `json:"label"`
	Street    *string `json:"street"`
	City      *string `json:"city"`
	State     *string `json:"state"`
	Zip       *string `json:"zip"`
	Country   *string `json:"country"`
	IsDefault *bool   `json:"is_default"`
}

type AddressResponse struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Zip       string    `json:"zip"`
	Country   string    `json:"country"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

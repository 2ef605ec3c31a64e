package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tekions/clubhub-backend/internal/dto"
	"github.com/tekions/clubhub-backend/internal/service"
	"github.com/tekions/clubhub-backend/pkg/response"
	"github.com/tekions/clubhub-backend/pkg/validator"
)

type AddressHandler struct {
	service service.AddressService
}

func NewAddressHandler(service service.AddressService) *AddressHandler {
	return &AddressHandler{service: service}
}

func (h *AddressHandler) CreateAddress(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	address, err := h.service.CreateAddress(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, address)
}

func (h *AddressHandler) GetAddresses(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	addresses, err := h.service.GetAddresses(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": addresses})
}

func (h *AddressHandler) UpdateAddress(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	addressID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	address, err := h.service.UpdateAddress(c.Request.Context(), userID, addressID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, address)
}

func (h *AddressHandler) DeleteAddress(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	addressID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.DeleteAddress(c.Request.Context(), userID, addressID); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "address deleted successfully"})
}

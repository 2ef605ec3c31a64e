package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tekions/clubhub-backend/internal/dto"
	"github.com/tekions/clubhub-backend/internal/service"
	"github.com/tekions/clubhub-backend/pkg/response"
	"github.com/tekions/clubhub-backend/pkg/validator"
)

type EventHandler struct {
	service      service.EventService
	sheetService service.SheetService
}

func NewEventHandler(service service.EventService, sheetService service.SheetService) *EventHandler {
	return &EventHandler{service: service, sheetService: sheetService}
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	event, err := h.service.CreateEvent(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) GetEvents(c *gin.Context) {
	var filter dto.EventFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	events, err := h.service.GetEvents(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	event, err := h.service.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) UpdateEvent(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	eventID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	event, err := h.service.UpdateEvent(c.Request.Context(), userID, eventID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) DeleteEvent(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	eventID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.DeleteEvent(c.Request.Context(), userID, eventID); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "event deleted successfully"})
}

// GetSheetEvents serves the read-only event feed ingested from the published
// spreadsheet.
func (h *EventHandler) GetSheetEvents(c *gin.Context) {
	feed, err := h.sheetService.GetEvents(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, feed)
}

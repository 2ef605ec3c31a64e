package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tekions/clubhub-backend/internal/dto"
	"github.com/tekions/clubhub-backend/internal/service"
	"github.com/tekions/clubhub-backend/pkg/response"
	"github.com/tekions/clubhub-backend/pkg/validator"
)

type AnnouncementHandler struct {
	service      service.AnnouncementService
	sheetService service.SheetService
}

func NewAnnouncementHandler(service service.AnnouncementService, sheetService service.SheetService) *AnnouncementHandler {
	return &AnnouncementHandler{service: service, sheetService: sheetService}
}

func (h *AnnouncementHandler) CreateAnnouncement(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	announcement, err := h.service.CreateAnnouncement(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, announcement)
}

func (h *AnnouncementHandler) GetAnnouncements(c *gin.Context) {
	var filter dto.AnnouncementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	announcements, err := h.service.GetAnnouncements(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, announcements)
}

func (h *AnnouncementHandler) GetAnnouncement(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	announcement, err := h.service.GetAnnouncement(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, announcement)
}

func (h *AnnouncementHandler) UpdateAnnouncement(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	announcement, err := h.service.UpdateAnnouncement(c.Request.Context(), userID, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, announcement)
}

func (h *AnnouncementHandler) DeleteAnnouncement(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.DeleteAnnouncement(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "announcement deleted successfully"})
}

func (h *AnnouncementHandler) GetSheetAnnouncements(c *gin.Context) {
	feed, err := h.sheetService.GetAnnouncements(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, feed)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tekions/clubhub-backend/internal/dto"
	"github.com/tekions/clubhub-backend/internal/service"
	"github.com/tekions/clubhub-backend/pkg/apperror"
	"github.com/tekions/clubhub-backend/pkg/response"
	"github.com/tekions/clubhub-backend/pkg/validator"
)

type ClubHandler struct {
	service service.ClubService
	search  service.SearchService
}

func NewClubHandler(service service.ClubService, search service.SearchService) *ClubHandler {
	return &ClubHandler{service: service, search: search}
}

func (h *ClubHandler) CreateClub(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CreateClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	club, err := h.service.CreateClub(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, club)
}

func (h *ClubHandler) GetClubs(c *gin.Context) {
	var filter dto.ClubFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	clubs, err := h.service.GetClubs(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, clubs)
}

func (h *ClubHandler) GetClub(c *gin.Context) {
	clubID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	club, err := h.service.GetClub(c.Request.Context(), clubID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, club)
}

func (h *ClubHandler) UpdateClub(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	clubID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	club, err := h.service.UpdateClub(c.Request.Context(), userID, clubID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, club)
}

func (h *ClubHandler) DeleteClub(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	clubID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.DeleteClub(c.Request.Context(), userID, clubID); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "club deleted successfully"})
}

func (h *ClubHandler) UploadLogo(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	clubID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		response.Error(c, apperror.Wrap(apperror.ErrBadRequest, "logo file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, apperror.Wrap(apperror.ErrBadRequest, "failed to read logo file"))
		return
	}
	defer file.Close()

	url, err := h.service.UploadLogo(c.Request.Context(), userID, clubID, file, fileHeader.Filename)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"logo_url": url})
}

// SearchToken issues a scoped Meilisearch tenant token so the frontend can
// query the clubs index directly.
func (h *ClubHandler) SearchToken(c *gin.Context) {
	token, err := h.search.GenerateSearchToken()
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *ClubHandler) Join(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	clubID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Join(c.Request.Context(), userID, clubID); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "joined club successfully"})
}

func (h *ClubHandler) Leave(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	clubID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.Leave(c.Request.Context(), userID, clubID); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "left club successfully"})
}

func (h *ClubHandler) RequestMembership(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	clubID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CreateMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	request, err := h.service.RequestMembership(c.Request.Context(), userID, clubID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

func (h *ClubHandler) ListRequests(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	clubID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	requests, err := h.service.ListRequests(c.Request.Context(), userID, clubID, c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": requests})
}

func (h *ClubHandler) ResolveRequest(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	clubID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	requestID, err := parseIDParam(c, "requestId")
	if err != nil {
		response.Error(c, err)
		return
	}

	var input dto.ResolveRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	request, err := h.service.ResolveRequest(c.Request.Context(), userID, clubID, requestID, input.Action)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

func (h *ClubHandler) ListMembers(c *gin.Context) {
	clubID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	members, err := h.service.ListMembers(c.Request.Context(), clubID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": members})
}

func (h *ClubHandler) UpdateMemberRole(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	clubID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	memberID, err := parseIDParam(c, "memberId")
	if err != nil {
		response.Error(c, err)
		return
	}

	var input dto.UpdateMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	if err := h.service.UpdateMemberRole(c.Request.Context(), userID, clubID, memberID, input.Role); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "member role updated"})
}

func (h *ClubHandler) RemoveMember(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	clubID, err := parseIDParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	memberID, err := parseIDParam(c, "memberId")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), userID, clubID, memberID); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "member removed"})
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.Wrap(apperror.ErrBadRequest, "invalid "+name)
	}
	return id, nil
}

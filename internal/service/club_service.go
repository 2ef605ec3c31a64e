package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/tekions/clubhub-backend/internal/dto"
	"github.com/tekions/clubhub-backend/internal/model"
	"github.com/tekions/clubhub-backend/internal/repository"
	"github.com/tekions/clubhub-backend/pkg/apperror"
	"github.com/tekions/clubhub-backend/pkg/storage"
	"gorm.io/gorm"
)

type ClubService interface {
	CreateClub(ctx context.Context, userID uuid.UUID, req dto.CreateClubRequest) (*dto.ClubResponse, error)
	GetClubs(ctx context.Context, filter dto.ClubFilter) (*dto.PaginatedClubResponse, error)
	GetClub(ctx context.Context, clubID uuid.UUID) (*dto.ClubResponse, error)
	UpdateClub(ctx context.Context, userID, clubID uuid.UUID, req dto.UpdateClubRequest) (*dto.ClubResponse, error)
	DeleteClub(ctx context.Context, userID, clubID uuid.UUID) error
	UploadLogo(ctx context.Context, userID, clubID uuid.UUID, r io.Reader, fileName string) (string, error)

	Join(ctx context.Context, userID, clubID uuid.UUID) error
	Leave(ctx context.Context, userID, clubID uuid.UUID) error
	RequestMembership(ctx context.Context, userID, clubID uuid.UUID, req dto.CreateMembershipRequest) (*dto.MembershipRequestResponse, error)
	ListRequests(ctx context.Context, userID, clubID uuid.UUID, status string) ([]dto.MembershipRequestResponse, error)
	ResolveRequest(ctx context.Context, userID, clubID, requestID uuid.UUID, action string) (*dto.MembershipRequestResponse, error)

	ListMembers(ctx context.Context, clubID uuid.UUID) ([]dto.MemberResponse, error)
	UpdateMemberRole(ctx context.Context, userID, clubID, memberID uuid.UUID, role string) error
	RemoveMember(ctx context.Context, userID, clubID, memberID uuid.UUID) error
}

type clubService struct {
	clubRepo        repository.ClubRepository
	membershipRepo  repository.MembershipRepository
	leaderboard     LeaderboardService
	notifications   NotificationService
	search          SearchService
	imageStorage    storage.ImageStorage
	redisClient     *redis.Client
	createCooldown  time.Duration
	requestCooldown time.Duration
}

func NewClubService(
	clubRepo repository.ClubRepository,
	membershipRepo repository.MembershipRepository,
	leaderboard LeaderboardService,
	notifications NotificationService,
	search SearchService,
	imageStorage storage.ImageStorage,
	redisClient *redis.Client,
	createCooldown, requestCooldown time.Duration,
) ClubService {
	return &clubService{
		clubRepo:        clubRepo,
		membershipRepo:  membershipRepo,
		leaderboard:     leaderboard,
		notifications:   notifications,
		search:          search,
		imageStorage:    imageStorage,
		redisClient:     redisClient,
		createCooldown:  createCooldown,
		requestCooldown: requestCooldown,
	}
}

func (s *clubService) CreateClub(ctx context.Context, userID uuid.UUID, req dto.CreateClubRequest) (*dto.ClubResponse, error) {
	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, userID, "create_club", s.createCooldown)
	if err != nil {
		return nil, err
	}
	if !allowed {
		ttl, _ := GetRateLimitTTL(ctx, s.redisClient, userID, "create_club")
		return nil, apperror.Wrap(apperror.ErrRateLimitExceeded,
			fmt.Sprintf("please wait %.0f seconds before creating another club", ttl.Seconds()))
	}

	if _, err := s.clubRepo.FindByName(ctx, req.Name); err == nil {
		return nil, apperror.Wrap(apperror.ErrConflict, "a club with this name already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	club := &model.Club{
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		IsPublic:        isPublic,
		MaxMembers:      req.MaxMembers,
		Tags:            req.Tags,
		Requirements:    req.Requirements,
		MeetingSchedule: req.MeetingSchedule,
		ContactEmail:    req.ContactEmail,
		OwnerID:         userID,
	}

	// Club row and the owner's admin membership land together
	if err := s.clubRepo.CreateWithOwner(ctx, club); err != nil {
		return nil, err
	}

	created, err := s.clubRepo.FindByID(ctx, club.ID)
	if err != nil {
		return nil, err
	}

	if s.search != nil {
		if err := s.search.IndexClub(created); err != nil {
			log.Printf("Failed to index club %s: %v", created.ID, err)
		}
	}

	s.leaderboard.AddPointsAsync(userID, ActionCreateClub, created.ID.String(), "clubs")

	resp := s.toClubResponse(ctx, created)
	return &resp, nil
}

func (s *clubService) GetClubs(ctx context.Context, filter dto.ClubFilter) (*dto.PaginatedClubResponse, error) {
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 10
	}

	offset := (filter.Page - 1) * filter.Limit
	clubs, total, err := s.clubRepo.FindAll(ctx, filter.Category, filter.Search, offset, filter.Limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ClubResponse, 0, len(clubs))
	for i := range clubs {
		responses = append(responses, s.toClubResponse(ctx, &clubs[i]))
	}

	return &dto.PaginatedClubResponse{
		Data: responses,
		Meta: dto.NewPaginationMeta(filter.Page, filter.Limit, total),
	}, nil
}

func (s *clubService) GetClub(ctx context.Context, clubID uuid.UUID) (*dto.ClubResponse, error) {
	club, err := s.findClub(ctx, clubID)
	if err != nil {
		return nil, err
	}

	resp := s.toClubResponse(ctx, club)
	return &resp, nil
}

func (s *clubService) UpdateClub(ctx context.Context, userID, clubID uuid.UUID, req dto.UpdateClubRequest) (*dto.ClubResponse, error) {
	club, err := s.findOwnedClub(ctx, userID, clubID)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		club.Description = *req.Description
	}
	if req.Category != nil {
		club.Category = *req.Category
	}
	if req.IsPublic != nil {
		club.IsPublic = *req.IsPublic
	}
	if req.MaxMembers != nil {
		club.MaxMembers = req.MaxMembers
	}
	if req.Tags != nil {
		club.Tags = req.Tags
	}
	if req.Requirements != nil {
		club.Requirements = req.Requirements
	}
	if req.MeetingSchedule != nil {
		club.MeetingSchedule = req.MeetingSchedule
	}
	if req.ContactEmail != nil {
		club.ContactEmail = req.ContactEmail
	}

	if err := s.clubRepo.Update(ctx, club); err != nil {
		return nil, err
	}

	if s.search != nil {
		if err := s.search.IndexClub(club); err != nil {
			log.Printf("Failed to reindex club %s: %v", club.ID, err)
		}
	}

	resp := s.toClubResponse(ctx, club)
	return &resp, nil
}

func (s *clubService) DeleteClub(ctx context.Context, userID, clubID uuid.UUID) error {
	club, err := s.findOwnedClub(ctx, userID, clubID)
	if err != nil {
		return err
	}

	if club.LogoURL != nil && s.imageStorage != nil {
		if err := s.imageStorage.DeleteImage(ctx, *club.LogoURL); err != nil {
			log.Printf("Failed to delete logo for club %s: %v", club.ID, err)
		}
	}

	if err := s.clubRepo.Delete(ctx, clubID); err != nil {
		return err
	}

	if s.search != nil {
		if err := s.search.DeleteClub(clubID.String()); err != nil {
			log.Printf("Failed to remove club %s from search index: %v", clubID, err)
		}
	}

	return nil
}

func (s *clubService) UploadLogo(ctx context.Context, userID, clubID uuid.UUID, r io.Reader, fileName string) (string, error) {
	club, err := s.findOwnedClub(ctx, userID, clubID)
	if err != nil {
		return "", err
	}

	if s.imageStorage == nil {
		return "", apperror.ErrInternal
	}

	url, err := s.imageStorage.UploadImage(ctx, r, "logos", fileName)
	if err != nil {
		return "", err
	}

	if club.LogoURL != nil {
		if err := s.imageStorage.DeleteImage(ctx, *club.LogoURL); err != nil {
			log.Printf("Failed to delete old logo for club %s: %v", club.ID, err)
		}
	}

	club.LogoURL = &url
	if err := s.clubRepo.Update(ctx, club); err != nil {
		return "", err
	}

	return url, nil
}

// Join is the direct-join path, reserved for the club owner rejoining after
// removal. Everyone else goes through the membership request flow.
func (s *clubService) Join(ctx context.Context, userID, clubID uuid.UUID) error {
	club, err := s.findClub(ctx, clubID)
	if err != nil {
		return err
	}

	if club.OwnerID != userID {
		return apperror.Wrap(apperror.ErrForbidden, "direct join is reserved for the club owner; please request membership instead")
	}

	if _, err := s.membershipRepo.FindMember(ctx, clubID, userID); err == nil {
		return apperror.Wrap(apperror.ErrConflict, "already a member of this club")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	member := &model.ClubMember{
		ClubID: clubID,
		UserID: userID,
		Role:   model.MemberRoleAdmin,
	}
	return s.membershipRepo.CreateMember(ctx, member)
}

func (s *clubService) Leave(ctx context.Context, userID, clubID uuid.UUID) error {
	club, err := s.findClub(ctx, clubID)
	if err != nil {
		return err
	}

	if club.OwnerID == userID {
		return apperror.Wrap(apperror.ErrBadRequest, "the owner cannot leave their own club; delete the club instead")
	}

	member, err := s.membershipRepo.FindMember(ctx, clubID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.Wrap(apperror.ErrNotFound, "you are not a member of this club")
		}
		return err
	}

	return s.membershipRepo.DeleteMember(ctx, member.ID)
}

func (s *clubService) RequestMembership(ctx context.Context, userID, clubID uuid.UUID, req dto.CreateMembershipRequest) (*dto.MembershipRequestResponse, error) {
	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, userID, "membership_request", s.requestCooldown)
	if err != nil {
		return nil, err
	}
	if !allowed {
		ttl, _ := GetRateLimitTTL(ctx, s.redisClient, userID, "membership_request")
		return nil, apperror.Wrap(apperror.ErrRateLimitExceeded,
			fmt.Sprintf("please wait %.0f seconds before sending another request", ttl.Seconds()))
	}

	if _, err := s.findClub(ctx, clubID); err != nil {
		return nil, err
	}

	request := &model.MembershipRequest{
		ClubID:  clubID,
		UserID:  userID,
		Message: req.Message,
	}

	// Membership and pending-request checks run inside the repo transaction
	if err := s.membershipRepo.CreateRequest(ctx, request); err != nil {
		return nil, err
	}

	created, err := s.membershipRepo.FindRequestByID(ctx, request.ID)
	if err != nil {
		return nil, err
	}

	resp := toRequestResponse(created)
	return &resp, nil
}

func (s *clubService) ListRequests(ctx context.Context, userID, clubID uuid.UUID, status string) ([]dto.MembershipRequestResponse, error) {
	if _, err := s.findOwnedClub(ctx, userID, clubID); err != nil {
		return nil, err
	}

	requests, err := s.membershipRepo.ListRequests(ctx, clubID, status)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.MembershipRequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, toRequestResponse(&requests[i]))
	}

	return responses, nil
}

func (s *clubService) ResolveRequest(ctx context.Context, userID, clubID, requestID uuid.UUID, action string) (*dto.MembershipRequestResponse, error) {
	club, err := s.findOwnedClub(ctx, userID, clubID)
	if err != nil {
		return nil, err
	}

	request, err := s.membershipRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "membership request not found")
		}
		return nil, err
	}
	if request.ClubID != clubID {
		return nil, apperror.Wrap(apperror.ErrNotFound, "membership request not found")
	}

	approve := action == "approve"

	if approve && club.MaxMembers != nil {
		count, err := s.clubRepo.MemberCount(ctx, clubID)
		if err != nil {
			return nil, err
		}
		if count >= int64(*club.MaxMembers) {
			return nil, apperror.Wrap(apperror.ErrConflict, "club has reached its member limit")
		}
	}

	resolved, err := s.membershipRepo.Resolve(ctx, requestID, approve)
	if err != nil {
		return nil, err
	}
	request.Status = resolved.Status

	if approve {
		s.leaderboard.AddPointsAsync(request.UserID, ActionMembershipApproved, request.ID.String(), "membership_requests")
	}
	s.notifyRequestResolved(ctx, club, request, approve, userID)

	resp := toRequestResponse(request)
	return &resp, nil
}

func (s *clubService) ListMembers(ctx context.Context, clubID uuid.UUID) ([]dto.MemberResponse, error) {
	if _, err := s.findClub(ctx, clubID); err != nil {
		return nil, err
	}

	members, err := s.membershipRepo.ListMembers(ctx, clubID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.MemberResponse, 0, len(members))
	for _, m := range members {
		responses = append(responses, dto.MemberResponse{
			ID:       m.ID,
			UserID:   m.UserID,
			Name:     m.User.Name,
			Role:     m.Role,
			JoinedAt: m.JoinedAt,
		})
	}

	return responses, nil
}

func (s *clubService) UpdateMemberRole(ctx context.Context, userID, clubID, memberID uuid.UUID, role string) error {
	club, err := s.findOwnedClub(ctx, userID, clubID)
	if err != nil {
		return err
	}

	member, err := s.findClubMember(ctx, clubID, memberID)
	if err != nil {
		return err
	}

	if err := s.membershipRepo.UpdateMemberRole(ctx, memberID, role); err != nil {
		return err
	}

	s.notify(ctx, &model.Notification{
		UserID:     member.UserID,
		ActorID:    userID,
		EntityID:   club.ID,
		EntityType: "club",
		Type:       model.NotificationRoleChanged,
		Message:    fmt.Sprintf("Your role in %s is now %s", club.Name, role),
	})

	return nil
}

func (s *clubService) RemoveMember(ctx context.Context, userID, clubID, memberID uuid.UUID) error {
	club, err := s.findOwnedClub(ctx, userID, clubID)
	if err != nil {
		return err
	}

	member, err := s.findClubMember(ctx, clubID, memberID)
	if err != nil {
		return err
	}

	if member.UserID == club.OwnerID {
		return apperror.Wrap(apperror.ErrBadRequest, "the owner cannot be removed from their own club")
	}

	if err := s.membershipRepo.DeleteMember(ctx, memberID); err != nil {
		return err
	}

	s.notify(ctx, &model.Notification{
		UserID:     member.UserID,
		ActorID:    userID,
		EntityID:   club.ID,
		EntityType: "club",
		Type:       model.NotificationMemberRemoved,
		Message:    fmt.Sprintf("You have been removed from %s", club.Name),
	})

	return nil
}

func (s *clubService) findClub(ctx context.Context, clubID uuid.UUID) (*model.Club, error) {
	club, err := s.clubRepo.FindByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "club not found")
		}
		return nil, err
	}
	return club, nil
}

func (s *clubService) findOwnedClub(ctx context.Context, userID, clubID uuid.UUID) (*model.Club, error) {
	club, err := s.findClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	if club.OwnerID != userID {
		return nil, apperror.Wrap(apperror.ErrForbidden, "only the club owner may do this")
	}
	return club, nil
}

func (s *clubService) findClubMember(ctx context.Context, clubID, memberID uuid.UUID) (*model.ClubMember, error) {
	member, err := s.membershipRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "member not found")
		}
		return nil, err
	}
	if member.ClubID != clubID {
		return nil, apperror.Wrap(apperror.ErrNotFound, "member not found")
	}
	return member, nil
}

func (s *clubService) notifyRequestResolved(ctx context.Context, club *model.Club, request *model.MembershipRequest, approved bool, actorID uuid.UUID) {
	notifType := model.NotificationRequestRejected
	message := fmt.Sprintf("Your request to join %s was rejected", club.Name)
	if approved {
		notifType = model.NotificationRequestApproved
		message = fmt.Sprintf("Your request to join %s was approved, welcome aboard!", club.Name)
	}

	s.notify(ctx, &model.Notification{
		UserID:     request.UserID,
		ActorID:    actorID,
		EntityID:   club.ID,
		EntityType: "club",
		Type:       notifType,
		Message:    message,
	})
}

func (s *clubService) notify(ctx context.Context, notification *model.Notification) {
	if s.notifications == nil {
		return
	}
	if err := s.notifications.CreateNotification(ctx, notification); err != nil {
		log.Printf("Failed to create notification for user %s: %v", notification.UserID, err)
	}
}

func (s *clubService) toClubResponse(ctx context.Context, club *model.Club) dto.ClubResponse {
	memberCount, err := s.clubRepo.MemberCount(ctx, club.ID)
	if err != nil {
		log.Printf("Failed to count members of club %s: %v", club.ID, err)
	}

	return dto.ClubResponse{
		ID:              club.ID,
		Name:            club.Name,
		Description:     club.Description,
		Category:        club.Category,
		LogoURL:         club.LogoURL,
		IsPublic:        club.IsPublic,
		MaxMembers:      club.MaxMembers,
		Tags:            club.Tags,
		Requirements:    club.Requirements,
		MeetingSchedule: club.MeetingSchedule,
		ContactEmail:    club.ContactEmail,
		OwnerID:         club.OwnerID,
		OwnerName:       club.Owner.Name,
		MemberCount:     memberCount,
		CreatedAt:       club.CreatedAt,
	}
}

func toRequestResponse(request *model.MembershipRequest) dto.MembershipRequestResponse {
	return dto.MembershipRequestResponse{
		ID:        request.ID,
		ClubID:    request.ClubID,
		UserID:    request.UserID,
		UserName:  request.User.Name,
		Status:    request.Status,
		Message:   request.Message,
		CreatedAt: request.CreatedAt,
	}
}

package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/tekions/clubhub-backend/internal/dto"
	"github.com/tekions/clubhub-backend/internal/model"
	"github.com/tekions/clubhub-backend/internal/repository"
	"github.com/tekions/clubhub-backend/pkg/apperror"
	"gorm.io/gorm"
)

type AnnouncementService interface {
	CreateAnnouncement(ctx context.Context, userID uuid.UUID, req dto.CreateAnnouncementRequest) (*dto.AnnouncementResponse, error)
	GetAnnouncements(ctx context.Context, filter dto.AnnouncementFilter) (*dto.PaginatedAnnouncementResponse, error)
	GetAnnouncement(ctx context.Context, id uuid.UUID) (*dto.AnnouncementResponse, error)
	UpdateAnnouncement(ctx context.Context, userID, id uuid.UUID, req dto.UpdateAnnouncementRequest) (*dto.AnnouncementResponse, error)
	DeleteAnnouncement(ctx context.Context, userID, id uuid.UUID) error
}

type announcementService struct {
	repo           repository.AnnouncementRepository
	clubRepo       repository.ClubRepository
	membershipRepo repository.MembershipRepository
	sanitizer      *bluemonday.Policy
}

func NewAnnouncementService(
	repo repository.AnnouncementRepository,
	clubRepo repository.ClubRepository,
	membershipRepo repository.MembershipRepository,
) AnnouncementService {
	return &announcementService{
		repo:           repo,
		clubRepo:       clubRepo,
		membershipRepo: membershipRepo,
		sanitizer:      bluemonday.UGCPolicy(),
	}
}

func (s *announcementService) CreateAnnouncement(ctx context.Context, userID uuid.UUID, req dto.CreateAnnouncementRequest) (*dto.AnnouncementResponse, error) {
	clubID, err := uuid.Parse(req.ClubID)
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrBadRequest, "invalid club id")
	}

	if err := s.ensureCanManage(ctx, userID, clubID); err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityNormal
	}

	published := true
	if req.Publish != nil {
		published = *req.Publish
	}

	announcement := &model.Announcement{
		ClubID:      clubID,
		Title:       req.Title,
		Content:     s.sanitizer.Sanitize(req.Content),
		Priority:    priority,
		AuthorID:    userID,
		Tags:        req.Tags,
		IsPublished: published,
	}

	if err := s.repo.Create(ctx, announcement); err != nil {
		return nil, err
	}

	created, err := s.repo.FindByID(ctx, announcement.ID)
	if err != nil {
		return nil, err
	}

	resp := toAnnouncementResponse(created)
	return &resp, nil
}

func (s *announcementService) GetAnnouncements(ctx context.Context, filter dto.AnnouncementFilter) (*dto.PaginatedAnnouncementResponse, error) {
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = 10
	}

	var clubID *uuid.UUID
	if filter.ClubID != "" {
		parsed, err := uuid.Parse(filter.ClubID)
		if err != nil {
			return nil, apperror.Wrap(apperror.ErrBadRequest, "invalid club id")
		}
		clubID = &parsed
	}

	offset := (filter.Page - 1) * filter.Limit
	announcements, total, err := s.repo.FindPublished(ctx, clubID, filter.Priority, offset, filter.Limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AnnouncementResponse, 0, len(announcements))
	for i := range announcements {
		responses = append(responses, toAnnouncementResponse(&announcements[i]))
	}

	return &dto.PaginatedAnnouncementResponse{
		Data: responses,
		Meta: dto.NewPaginationMeta(filter.Page, filter.Limit, total),
	}, nil
}

func (s *announcementService) GetAnnouncement(ctx context.Context, id uuid.UUID) (*dto.AnnouncementResponse, error) {
	announcement, err := s.findAnnouncement(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := toAnnouncementResponse(announcement)
	return &resp, nil
}

func (s *announcementService) UpdateAnnouncement(ctx context.Context, userID, id uuid.UUID, req dto.UpdateAnnouncementRequest) (*dto.AnnouncementResponse, error) {
	announcement, err := s.findAnnouncement(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.ensureCanManage(ctx, userID, announcement.ClubID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		announcement.Title = *req.Title
	}
	if req.Content != nil {
		announcement.Content = s.sanitizer.Sanitize(*req.Content)
	}
	if req.Priority != nil {
		announcement.Priority = *req.Priority
	}
	if req.Tags != nil {
		announcement.Tags = req.Tags
	}
	if req.Publish != nil {
		announcement.IsPublished = *req.Publish
	}

	if err := s.repo.Update(ctx, announcement); err != nil {
		return nil, err
	}

	resp := toAnnouncementResponse(announcement)
	return &resp, nil
}

func (s *announcementService) DeleteAnnouncement(ctx context.Context, userID, id uuid.UUID) error {
	announcement, err := s.findAnnouncement(ctx, id)
	if err != nil {
		return err
	}

	if err := s.ensureCanManage(ctx, userID, announcement.ClubID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

func (s *announcementService) findAnnouncement(ctx context.Context, id uuid.UUID) (*model.Announcement, error) {
	announcement, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "announcement not found")
		}
		return nil, err
	}
	return announcement, nil
}

func (s *announcementService) ensureCanManage(ctx context.Context, userID, clubID uuid.UUID) error {
	club, err := s.clubRepo.FindByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.Wrap(apperror.ErrNotFound, "club not found")
		}
		return err
	}

	if club.OwnerID == userID {
		return nil
	}

	member, err := s.membershipRepo.FindMember(ctx, clubID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.Wrap(apperror.ErrForbidden, "only club admins may manage announcements")
		}
		return err
	}
	if member.Role != model.MemberRoleAdmin {
		return apperror.Wrap(apperror.ErrForbidden, "only club admins may manage announcements")
	}

	return nil
}

func toAnnouncementResponse(announcement *model.Announcement) dto.AnnouncementResponse {
	return dto.AnnouncementResponse{
		ID:          announcement.ID,
		ClubID:      announcement.ClubID,
		ClubName:    announcement.Club.Name,
		Title:       announcement.Title,
		Content:     announcement.Content,
		Priority:    announcement.Priority,
		Author:      announcement.Author.Name,
		Tags:        announcement.Tags,
		IsPublished: announcement.IsPublished,
		CreatedAt:   announcement.CreatedAt,
	}
}

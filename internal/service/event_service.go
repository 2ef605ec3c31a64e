package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tekions/clubhub-backend/internal/dto"
	"github.com/tekions/clubhub-backend/internal/model"
	"github.com/tekions/clubhub-backend/internal/repository"
	"github.com/tekions/clubhub-backend/pkg/apperror"
	"gorm.io/gorm"
)

type EventService interface {
	CreateEvent(ctx context.Context, userID uuid.UUID, req dto.CreateEventRequest) (*dto.EventResponse, error)
	GetEvents(ctx context.Context, filter dto.EventFilter) (*dto.PaginatedEventResponse, error)
	GetEvent(ctx context.Context, eventID uuid.UUID) (*dto.EventResponse, error)
	UpdateEvent(ctx context.Context, userID, eventID uuid.UUID, req dto.UpdateEventRequest) (*dto.EventResponse, error)
	DeleteEvent(ctx context.Context, userID, eventID uuid.UUID) error
}

type eventService struct {
	eventRepo      repository.EventRepository
	clubRepo       repository.ClubRepository
	membershipRepo repository.MembershipRepository
	leaderboard    LeaderboardService
}

func NewEventService(
	eventRepo repository.EventRepository,
	clubRepo repository.ClubRepository,
	membershipRepo repository.MembershipRepository,
	leaderboard LeaderboardService,
) EventService {
	return &eventService{
		eventRepo:      eventRepo,
		clubRepo:       clubRepo,
		membershipRepo: membershipRepo,
		leaderboard:    leaderboard,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, userID uuid.UUID, req dto.CreateEventRequest) (*dto.EventResponse, error) {
	clubID, err := uuid.Parse(req.ClubID)
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrBadRequest, "invalid club id")
	}

	if err := s.ensureCanManage(ctx, userID, clubID); err != nil {
		return nil, err
	}

	date, err := parseEventDate(req.Date)
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrBadRequest, "invalid event date, use RFC 3339 or YYYY-MM-DDTHH:MM:SS")
	}

	event := &model.Event{
		ClubID:           clubID,
		Title:            req.Title,
		Description:      req.Description,
		Date:             date,
		Venue:            req.Venue,
		MaxParticipants:  req.MaxParticipants,
		Category:         req.Category,
		RegistrationLink: req.RegistrationLink,
		IsActive:         true,
		CreatedByID:      userID,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	created, err := s.eventRepo.FindByID(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	s.leaderboard.AddPointsAsync(userID, ActionCreateEvent, created.ID.String(), "events")

	resp := toEventResponse(created)
	return &resp, nil
}

func (s *eventService) GetEvents(ctx context.Context, filter dto.EventFilter) (*dto.PaginatedEventResponse, error) {
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
	events, total, err := s.eventRepo.FindAll(ctx, clubID, filter.Category, offset, filter.Limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, toEventResponse(&events[i]))
	}

	return &dto.PaginatedEventResponse{
		Data: responses,
		Meta: dto.NewPaginationMeta(filter.Page, filter.Limit, total),
	}, nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID uuid.UUID) (*dto.EventResponse, error) {
	event, err := s.findEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	resp := toEventResponse(event)
	return &resp, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, userID, eventID uuid.UUID, req dto.UpdateEventRequest) (*dto.EventResponse, error) {
	event, err := s.findEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureCanManage(ctx, userID, event.ClubID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Date != nil {
		date, err := parseEventDate(*req.Date)
		if err != nil {
			return nil, apperror.Wrap(apperror.ErrBadRequest, "invalid event date, use RFC 3339 or YYYY-MM-DDTHH:MM:SS")
		}
		event.Date = date
	}
	if req.Venue != nil {
		event.Venue = *req.Venue
	}
	if req.MaxParticipants != nil {
		event.MaxParticipants = req.MaxParticipants
	}
	if req.Category != nil {
		event.Category = *req.Category
	}
	if req.RegistrationLink != nil {
		event.RegistrationLink = req.RegistrationLink
	}
	if req.IsActive != nil {
		event.IsActive = *req.IsActive
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}

	resp := toEventResponse(event)
	return &resp, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, userID, eventID uuid.UUID) error {
	event, err := s.findEvent(ctx, eventID)
	if err != nil {
		return err
	}

	if err := s.ensureCanManage(ctx, userID, event.ClubID); err != nil {
		return err
	}

	return s.eventRepo.Delete(ctx, eventID)
}

func (s *eventService) findEvent(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "event not found")
		}
		return nil, err
	}
	return event, nil
}

// ensureCanManage allows the club owner plus members holding the admin role
// to manage the club's events.
func (s *eventService) ensureCanManage(ctx context.Context, userID, clubID uuid.UUID) error {
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
			return apperror.Wrap(apperror.ErrForbidden, "only club admins may manage events")
		}
		return err
	}
	if member.Role != model.MemberRoleAdmin {
		return apperror.Wrap(apperror.ErrForbidden, "only club admins may manage events")
	}

	return nil
}

func parseEventDate(value string) (time.Time, error) {
	layouts := []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04", "2006-01-02"}
	var lastErr error
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}

func toEventResponse(event *model.Event) dto.EventResponse {
	return dto.EventResponse{
		ID:               event.ID,
		ClubID:           event.ClubID,
		ClubName:         event.Club.Name,
		Title:            event.Title,
		Description:      event.Description,
		Date:             event.Date,
		Venue:            event.Venue,
		MaxParticipants:  event.MaxParticipants,
		Category:         event.Category,
		RegistrationLink: event.RegistrationLink,
		IsActive:         event.IsActive,
		Registrations:    0,
		CreatedAt:        event.CreatedAt,
	}
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tekions/clubhub-backend/internal/model"
	"gorm.io/gorm"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error)
	FindAll(ctx context.Context, clubID *uuid.UUID, category string, offset, limit int) ([]model.Event, int64, error)
	FindByClub(ctx context.Context, clubID uuid.UUID, limit int) ([]model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).
		Preload("Club").
		Where("id = ?", id).
		First(&event).Error; err != nil {
		return nil, err
	}

	return &event, nil
}

func (r *eventRepository) FindAll(ctx context.Context, clubID *uuid.UUID, category string, offset, limit int) ([]model.Event, int64, error) {
	var events []model.Event
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Event{}).Where("is_active = ?", true)
	if clubID != nil {
		query = query.Where("club_id = ?", *clubID)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Club").
		Order("date ASC").
		Offset(offset).Limit(limit).
		Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func (r *eventRepository) FindByClub(ctx context.Context, clubID uuid.UUID, limit int) ([]model.Event, error) {
	var events []model.Event
	if err := r.db.WithContext(ctx).
		Where("club_id = ? AND is_active = ?", clubID, true).
		Order("date ASC").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, err
	}

	return events, nil
}

func (r *eventRepository) Update(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Event{}, "id = ?", id).Error
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tekions/clubhub-backend/internal/model"
	"gorm.io/gorm"
)

type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *model.Announcement) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Announcement, error)
	FindPublished(ctx context.Context, clubID *uuid.UUID, priority string, offset, limit int) ([]model.Announcement, int64, error)
	Update(ctx context.Context, announcement *model.Announcement) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type announcementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(ctx context.Context, announcement *model.Announcement) error {
	return r.db.WithContext(ctx).Create(announcement).Error
}

func (r *announcementRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Announcement, error) {
	var announcement model.Announcement
	if err := r.db.WithContext(ctx).
		Preload("Club").
		Preload("Author").
		Where("id = ?", id).
		First(&announcement).Error; err != nil {
		return nil, err
	}

	return &announcement, nil
}

func (r *announcementRepository) FindPublished(ctx context.Context, clubID *uuid.UUID, priority string, offset, limit int) ([]model.Announcement, int64, error) {
	var announcements []model.Announcement
	var total int64

	query := r.db.WithContext(ctx).
		Model(&model.Announcement{}).
		Where("is_published = ?", true)
	if clubID != nil {
		query = query.Where("club_id = ?", *clubID)
	}
	if priority != "" {
		query = query.Where("priority = ?", priority)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Club").
		Preload("Author").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&announcements).Error; err != nil {
		return nil, 0, err
	}

	return announcements, total, nil
}

func (r *announcementRepository) Update(ctx context.Context, announcement *model.Announcement) error {
	return r.db.WithContext(ctx).Save(announcement).Error
}

func (r *announcementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Announcement{}, "id = ?", id).Error
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tekions/clubhub-backend/internal/model"
	"gorm.io/gorm"
)

type ClubRepository interface {
	// CreateWithOwner creates the club and the owner's admin membership in
	// one transaction so a club can never exist without its admin row.
	CreateWithOwner(ctx context.Context, club *model.Club) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Club, error)
	FindByName(ctx context.Context, name string) (*model.Club, error)
	FindByNameFold(ctx context.Context, name string) (*model.Club, error)
	FindAll(ctx context.Context, category, search string, offset, limit int) ([]model.Club, int64, error)
	Update(ctx context.Context, club *model.Club) error
	Delete(ctx context.Context, id uuid.UUID) error
	MemberCount(ctx context.Context, clubID uuid.UUID) (int64, error)
}

type clubRepository struct {
	db *gorm.DB
}

func NewClubRepository(db *gorm.DB) ClubRepository {
	return &clubRepository{db: db}
}

func (r *clubRepository) CreateWithOwner(ctx context.Context, club *model.Club) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(club).Error; err != nil {
			return err
		}

		member := &model.ClubMember{
			ClubID: club.ID,
			UserID: club.OwnerID,
			Role:   model.MemberRoleAdmin,
		}
		return tx.Create(member).Error
	})
}

func (r *clubRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Club, error) {
	var club model.Club
	if err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("id = ?", id).
		First(&club).Error; err != nil {
		return nil, err
	}

	return &club, nil
}

func (r *clubRepository) FindByName(ctx context.Context, name string) (*model.Club, error) {
	var club model.Club
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&club).Error; err != nil {
		return nil, err
	}

	return &club, nil
}

// FindByNameFold matches the club name case-insensitively. Used when tagging
// spreadsheet rows with a club id at ingestion time.
func (r *clubRepository) FindByNameFold(ctx context.Context, name string) (*model.Club, error) {
	var club model.Club
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&club).Error; err != nil {
		return nil, err
	}

	return &club, nil
}

func (r *clubRepository) FindAll(ctx context.Context, category, search string, offset, limit int) ([]model.Club, int64, error) {
	var clubs []model.Club
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Club{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("name ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Owner").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&clubs).Error; err != nil {
		return nil, 0, err
	}

	return clubs, total, nil
}

func (r *clubRepository) Update(ctx context.Context, club *model.Club) error {
	return r.db.WithContext(ctx).Save(club).Error
}

func (r *clubRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("club_id = ?", id).Delete(&model.ClubMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("club_id = ?", id).Delete(&model.MembershipRequest{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Club{}, "id = ?", id).Error
	})
}

func (r *clubRepository) MemberCount(ctx context.Context, clubID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ClubMember{}).
		Where("club_id = ?", clubID).
		Count(&count).Error
	return count, err
}

package repository

import (
	"context"

	"github.com/tekions/clubhub-backend/internal/model"
	"gorm.io/gorm"
)

type TokenRepository interface {
	Create(ctx context.Context, token *model.VerificationToken) error
	FindByToken(ctx context.Context, token string) (*model.VerificationToken, error)
	Delete(ctx context.Context, id uint) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, token *model.VerificationToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *tokenRepository) FindByToken(ctx context.Context, token string) (*model.VerificationToken, error) {
	var t model.VerificationToken
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("token = ?", token).
		First(&t).Error; err != nil {
		return nil, err
	}

	return &t, nil
}

func (r *tokenRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.VerificationToken{}, id).Error
}

func (r *tokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < CURRENT_TIMESTAMP").
		Delete(&model.VerificationToken{})
	return res.RowsAffected, res.Error
}
